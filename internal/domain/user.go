package domain

import (
	"net/mail"
	"time"
)

// Profile field constraints enforced by the server.
const (
	NameMaxLength  = 64
	EmailMaxLength = 255
)

// User is the authenticated account behind the current session.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserPatch is an update-profile payload. The server cannot clear a name
// or an email, so a field is either omitted or set.
type UserPatch struct {
	Name  Field[string]
	Email Field[string]
}

// Empty reports whether the patch would change nothing.
func (p UserPatch) Empty() bool {
	return !p.Name.Present() && !p.Email.Present()
}

// Apply returns u with the patch's set fields copied in.
func (p UserPatch) Apply(u User) User {
	if v, ok := p.Name.Value(); ok {
		u.Name = v
	}
	if v, ok := p.Email.Value(); ok {
		u.Email = v
	}
	return u
}

// NewUserPatch diffs edited profile input against the current user. A
// blank field leaves the stored value alone.
func NewUserPatch(initial User, name, email string) (UserPatch, error) {
	var patch UserPatch
	fields := map[string]string{}

	if n := trim(name); n != "" && n != initial.Name {
		checkMax(fields, "name", &n, NameMaxLength)
		patch.Name = Set(n)
	}
	if e := trim(email); e != "" && e != initial.Email {
		checkMax(fields, "email", &e, EmailMaxLength)
		if _, ok := fields["email"]; !ok && !validEmail(e) {
			fields["email"] = "must be a well-formed email address"
		}
		patch.Email = Set(e)
	}

	if len(fields) > 0 {
		return UserPatch{}, NewValidationError(fields)
	}
	return patch, nil
}

// validEmail accepts a bare addr-spec; display names and angle brackets
// are rejected.
func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Name == "" && a.Address == s
}
