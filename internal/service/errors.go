package service

import (
	"errors"
	"fmt"

	"github.com/Akilucky-rogue/biz-boundless/internal/repository"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a service failure carrying a client-safe message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// fromRepo converts repository sentinels into service errors about what.
// Other errors are wrapped and left for the handler to treat as internal.
func fromRepo(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return newError(ErrNotFound, "%s not found", what)
	case errors.Is(err, repository.ErrDuplicate):
		return newError(ErrConflict, "%s already exists", what)
	case errors.Is(err, repository.ErrReferenced):
		return newError(ErrInvalid, "%s references a record that does not exist", what)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
