package cli

import (
	"errors"

	"github.com/alexanderramin/listapp/internal/domain"
)

var (
	errNotLoggedIn    = errors.New("not logged in; run `listapp login --cookie NAME=VALUE`")
	errNoChanges      = errors.New("nothing to change; pass at least one field flag")
	errCookieRequired = errors.New("a cookie is required")

	errConfirmAccountDelete = errors.New("deleting your account cannot be undone; pass --yes to confirm")
)

// ErrorMessage renders err for the terminal. Classified API and validation
// failures get their user-facing wording; anything else prints as is.
func ErrorMessage(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return domain.UserMessage(err)
	}
	return err.Error()
}
