package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserPatch(t *testing.T) {
	initial := User{ID: "u1", Name: "Ada", Email: "ada@example.com"}

	tests := []struct {
		name      string
		inName    string
		inEmail   string
		wantName  Field[string]
		wantEmail Field[string]
		badField  string
	}{
		{name: "unchanged", inName: "Ada", inEmail: "ada@example.com"},
		{name: "blank keeps stored values", inName: "  ", inEmail: ""},
		{name: "trimmed rename", inName: "  Ada L. ", inEmail: "ada@example.com", wantName: Set("Ada L.")},
		{name: "new email", inName: "Ada", inEmail: "ada@lovelace.dev", wantEmail: Set("ada@lovelace.dev")},
		{name: "name too long", inName: strings.Repeat("é", NameMaxLength+1), badField: "name"},
		{name: "malformed email", inEmail: "not-an-email", badField: "email"},
		{name: "display name rejected", inEmail: "Ada <ada@lovelace.dev>", badField: "email"},
		{name: "email too long", inEmail: strings.Repeat("a", EmailMaxLength) + "@x.io", badField: "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, err := NewUserPatch(initial, tt.inName, tt.inEmail)
			if tt.badField != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				var de *Error
				require.True(t, errors.As(err, &de))
				assert.Contains(t, de.Fields, tt.badField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, patch.Name)
			assert.Equal(t, tt.wantEmail, patch.Email)
		})
	}
}

func TestNewUserPatch_NameLimitCountsRunes(t *testing.T) {
	_, err := NewUserPatch(User{}, strings.Repeat("é", NameMaxLength), "")
	assert.NoError(t, err)
}

func TestUserPatch_Apply(t *testing.T) {
	u := User{ID: "u1", Name: "Ada", Email: "ada@example.com"}

	got := UserPatch{Email: Set("ada@lovelace.dev")}.Apply(u)

	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "ada@lovelace.dev", got.Email)
	assert.True(t, UserPatch{}.Empty())
}
