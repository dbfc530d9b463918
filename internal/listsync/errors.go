package listsync

import (
	"errors"
	"fmt"
)

// Code is the user-facing number of a failed sync run.
type Code int

const (
	CodeAuth       Code = 1 // credentials missing or rejected
	CodeTarget     Code = 2 // target handle is malformed or unknown
	CodeFollowers  Code = 3 // follower IDs could not be read (often a private account)
	CodeCreateList Code = 4 // list could not be found or created (often a rate limit)
	CodeModifyList Code = 5 // list membership could not be changed (often a rate limit)
)

func (c Code) String() string {
	switch c {
	case CodeAuth:
		return "auth"
	case CodeTarget:
		return "target"
	case CodeFollowers:
		return "followers"
	case CodeCreateList:
		return "create-list"
	case CodeModifyList:
		return "modify-list"
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Error terminates a sync run. Exactly one is produced per failed run.
type Error struct {
	Code Code
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("listsync %s (code %d)", e.Op, e.Code)
	}
	return fmt.Sprintf("listsync %s (code %d): %v", e.Op, e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func fail(code Code, op string, err error) *Error {
	return &Error{Code: code, Op: op, Err: err}
}

// CodeOf returns the code carried by err, or 0 when err is not a sync error.
func CodeOf(err error) Code {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

var (
	ErrMissingCredentials = errors.New("missing access token or secret")
	ErrInvalidTarget      = errors.New("target may only contain letters, numbers and underscores")
	ErrNullListID         = errors.New("platform returned a list without an id")
)
