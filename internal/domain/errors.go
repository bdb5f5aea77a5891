package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorKind classifies failures surfaced to the user.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindAuth       ErrorKind = "auth"
	KindNetwork    ErrorKind = "network"
)

var (
	// ErrValidation matches errors caused by bad input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound matches errors for a list or item that no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrConflict matches errors for stale orders or versions.
	ErrConflict = errors.New("conflict")

	// ErrAuth matches errors caused by a missing or expired session.
	ErrAuth = errors.New("not authenticated")

	// ErrNetwork matches transport failures and unexpected server errors.
	ErrNetwork = errors.New("network error")
)

var kindSentinels = map[ErrorKind]error{
	KindValidation: ErrValidation,
	KindNotFound:   ErrNotFound,
	KindConflict:   ErrConflict,
	KindAuth:       ErrAuth,
	KindNetwork:    ErrNetwork,
}

// Error is a classified failure. Fields holds per-field validation messages.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = kindSentinels[e.Kind].Error()
	}
	if len(e.Fields) > 0 {
		msg += " (" + formatFields(e.Fields) + ")"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match an *Error against its kind sentinel.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// NewValidationError builds a validation error with per-field messages.
func NewValidationError(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "invalid input", Fields: fields}
}

// KindOf returns the kind of err, defaulting to KindNetwork for
// unclassified failures.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindNetwork
}

// UserMessage renders err as a short notification text. The wording depends
// on the kind only; callers never branch on it for control flow.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var de *Error
	detail := ""
	if errors.As(err, &de) && len(de.Fields) > 0 {
		detail = ": " + formatFields(de.Fields)
	}
	switch KindOf(err) {
	case KindValidation:
		return "Invalid input" + detail
	case KindNotFound:
		return "The list or item no longer exists"
	case KindConflict:
		return "The list changed on the server; reload and try again"
	case KindAuth:
		return "Session expired; run `listapp login`"
	default:
		if de != nil && de.Status != 0 {
			return serverMessage(de)
		}
		return fmt.Sprintf("Could not reach the server (%v)", rootCause(err))
	}
}

// serverMessage words a failure the server answered with a status the
// client does not classify, usually a 5xx.
func serverMessage(e *Error) string {
	if e.Message == "" {
		return fmt.Sprintf("Server error (%d)", e.Status)
	}
	return "Server error (" + e.Message + ")"
}

func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, ", ")
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
