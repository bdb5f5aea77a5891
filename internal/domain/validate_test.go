package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItemCreate_TrimsAndOmitsBlankOptionals(t *testing.T) {
	c, err := NewItemCreate("  Milk  ", "   ", "")
	require.NoError(t, err)
	assert.Equal(t, "Milk", c.Title)
	assert.Nil(t, c.Notes)
	assert.Nil(t, c.ImagePath)
}

func TestNewItemCreate_WhitespaceTitleRejected(t *testing.T) {
	_, err := NewItemCreate("  ", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Contains(t, de.Fields, "title")
}

func TestNewItemCreate_LengthLimits(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		notes     string
		imagePath string
		field     string
	}{
		{"title too long", strings.Repeat("a", TitleMaxLength+1), "", "", "title"},
		{"notes too long", "ok", strings.Repeat("n", NotesMaxLength+1), "", "notes"},
		{"image path too long", "ok", "", strings.Repeat("p", ImagePathMaxLength+1), "imagePath"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewItemCreate(tt.title, tt.notes, tt.imagePath)
			var de *Error
			require.True(t, errors.As(err, &de))
			assert.Contains(t, de.Fields, tt.field)
		})
	}
}

func TestNewItemCreate_TitleLimitCountsRunes(t *testing.T) {
	_, err := NewItemCreate(strings.Repeat("é", TitleMaxLength), "", "")
	assert.NoError(t, err)
}

func TestNewItemPatch_ClearingNotesIsNull(t *testing.T) {
	item := Item{ID: "i1", Title: "Bread", Notes: StrPtr("hello")}

	patch, err := NewItemPatch(item, "Bread", "", "")
	require.NoError(t, err)

	assert.False(t, patch.Title.Present(), "unchanged title is omitted")
	assert.True(t, patch.Notes.IsNull(), "cleared notes are null")
	assert.False(t, patch.ImagePath.Present(), "never-set image path stays omitted")
}

func TestNewItemPatch_UnchangedFieldsOmitted(t *testing.T) {
	item := Item{ID: "i1", Title: "Bread", Notes: StrPtr("rye"), ImagePath: StrPtr("https://x/y.png")}

	patch, err := NewItemPatch(item, " Bread ", "rye ", "https://x/y.png")
	require.NoError(t, err)
	assert.True(t, patch.Empty())
}

func TestNewItemPatch_SetsChangedValues(t *testing.T) {
	item := Item{ID: "i1", Title: "Bread"}

	patch, err := NewItemPatch(item, "Sourdough", "from the bakery", "")
	require.NoError(t, err)

	title, ok := patch.Title.Value()
	require.True(t, ok)
	assert.Equal(t, "Sourdough", title)
	notes, ok := patch.Notes.Value()
	require.True(t, ok)
	assert.Equal(t, "from the bakery", notes)
}

func TestNewItemPatch_BlankTitleRejected(t *testing.T) {
	_, err := NewItemPatch(Item{Title: "Bread"}, "   ", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewListPatch(t *testing.T) {
	initial := ListSummary{ID: "l1", Title: "Groceries", Description: StrPtr("weekly")}

	patch, err := NewListPatch(initial, "Groceries", "")
	require.NoError(t, err)
	assert.False(t, patch.Title.Present())
	assert.True(t, patch.Description.IsNull())

	_, err = NewListPatch(initial, "", "weekly")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewListCreate(t *testing.T) {
	c, err := NewListCreate(" Books ", " to read ")
	require.NoError(t, err)
	assert.Equal(t, "Books", c.Title)
	require.NotNil(t, c.Description)
	assert.Equal(t, "to read", *c.Description)

	_, err = NewListCreate("Books", strings.Repeat("d", DescriptionMaxLength+1))
	assert.ErrorIs(t, err, ErrValidation)
}
