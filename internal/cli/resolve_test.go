package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	ids := []string{"a1b2", "a1c3", "ff00"}
	titles := []string{"Apples", "Bread", "apples"}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "exact id", input: "ff00", want: "ff00"},
		{name: "index", input: "2", want: "a1c3"},
		{name: "hash index", input: "#3", want: "ff00"},
		{name: "index out of range", input: "4", wantErr: "out of range"},
		{name: "title", input: "BREAD", want: "a1c3"},
		{name: "ambiguous title", input: "apples", wantErr: "ambiguous"},
		{name: "id prefix", input: "ff", want: "ff00"},
		{name: "ambiguous prefix", input: "a1", wantErr: "ambiguous"},
		{name: "unknown", input: "zz", wantErr: "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := match("item", tt.input, ids, titles)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveItemID_ByPosition(t *testing.T) {
	l := groceries()
	id, err := resolveItemID(l, "3")
	require.NoError(t, err)
	assert.Equal(t, "C", id)

	_, err = resolveItemID(l, " ")
	assert.Error(t, err)
}
