package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKindSentinel(t *testing.T) {
	err := fmt.Errorf("deleting item: %w", &Error{Kind: KindNotFound, Status: 404})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestKindOf_UnclassifiedIsNetwork(t *testing.T) {
	assert.Equal(t, KindNetwork, KindOf(errors.New("boom")))
	assert.Equal(t, KindAuth, KindOf(fmt.Errorf("probe: %w", ErrAuth)))
}

func TestUserMessage_VariesByKind(t *testing.T) {
	assert.Contains(t, UserMessage(&Error{Kind: KindAuth}), "listapp login")
	assert.Contains(t, UserMessage(&Error{Kind: KindNotFound}), "no longer exists")
	assert.Contains(t, UserMessage(NewValidationError(map[string]string{"title": "must not be blank"})), "title: must not be blank")
	assert.Contains(t, UserMessage(&Error{Kind: KindNetwork, Err: errors.New("connection refused")}), "connection refused")
	assert.Empty(t, UserMessage(nil))
}

func TestUserMessage_ServerErrorsAreNotUnreachable(t *testing.T) {
	err := fmt.Errorf("creating list: %w", &Error{Kind: KindNetwork, Status: 500, Message: "Internal Server Error"})
	assert.Equal(t, "Server error (Internal Server Error)", UserMessage(err))
	assert.Equal(t, "Server error (502)", UserMessage(&Error{Kind: KindNetwork, Status: 502}))
	assert.Contains(t, UserMessage(&Error{Kind: KindNetwork, Err: errors.New("dial tcp: refused")}), "Could not reach the server")
}

func TestError_MessageIncludesFields(t *testing.T) {
	err := NewValidationError(map[string]string{"title": "too long", "notes": "too long"})
	assert.Equal(t, "invalid input (notes: too long, title: too long)", err.Error())
}
