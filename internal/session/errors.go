package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMoreImages is returned by Advance when the list bound is reached
	// without a loadable image. The session stays where it was.
	ErrNoMoreImages = errors.New("no more images")
	// ErrNotFound is returned for an index outside the list or a missing file.
	ErrNotFound = errors.New("image not found")
)

// DecodeError reports an image or box record that exists but cannot be read.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PersistError reports a box record that could not be written. The
// in-memory boxes are left untouched so that the save can be retried.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// StartupError reports a failure to set up the session. It is fatal.
type StartupError struct {
	Op  string
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("session startup: %s: %v", e.Op, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }
