package market

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a draft rejected before any remote call.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when an id is not part of the session's list.
	ErrNotFound = errors.New("opportunity not found")
	// ErrFormClosed is returned by Session.Submit when no form is open.
	ErrFormClosed = errors.New("no form is open")
)

// Op names the remote operation that failed.
type Op string

const (
	OpLoad   Op = "load"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpToggle Op = "toggle"
	OpSave   Op = "save"
	OpUnsave Op = "unsave"
)

var notices = map[Op]string{
	OpLoad:   "Failed to load opportunities",
	OpCreate: "Failed to create opportunity",
	OpUpdate: "Failed to update opportunity",
	OpDelete: "Failed to delete opportunity",
	OpToggle: "Failed to update status",
	OpSave:   "Failed to save opportunity",
	OpUnsave: "Failed to remove saved opportunity",
}

// OpError reports a failed remote call. Local state is left as it was before
// the call.
type OpError struct {
	Op  Op
	ID  string
	Err error
}

func (e *OpError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Notice is the short message shown to the user.
func (e *OpError) Notice() string {
	if n, ok := notices[e.Op]; ok {
		return n
	}
	return "Something went wrong"
}

func opErr(op Op, id string, err error) error {
	var oe *OpError
	if errors.As(err, &oe) {
		return err
	}
	return &OpError{Op: op, ID: id, Err: err}
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
