// Package oxerr defines the error taxonomy shared by store, oxide, persist,
// and sync: five concrete types, each returned as a value. Lower-level
// packages (dagcbor, the Structure decoder, the compress decorator,
// config) return plain errors of their own.
package oxerr

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/erigontech/polyepoxide/key"
)

// NotFoundError reports that a key has no corresponding blob at the
// store/endpoint that was asked.
type NotFoundError struct {
	Key key.Key
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("oxerr: not found: %s", e.Key)
}

// NewNotFound wraps a NotFoundError with call-site stack context.
func NewNotFound(k key.Key) error {
	return errors.WithStack(&NotFoundError{Key: k})
}

// FormatError reports that bytes read from a store did not decode as
// valid canonical CBOR, or did not match the schema they were read
// against.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("oxerr: format: %s", e.Msg)
}

// NewFormat wraps a FormatError with call-site stack context.
func NewFormat(format string, args ...any) error {
	return errors.WithStack(&FormatError{Msg: fmt.Sprintf(format, args...)})
}

// TypeMismatchError reports that a key was found under a different
// concrete oxide type than the one requested. spec calls this "an
// application bug"; this module still reports it as a value rather than
// panicking.
type TypeMismatchError struct {
	Key        key.Key
	Want, Got string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("oxerr: type mismatch for %s: want %s, got %s", e.Key, e.Want, e.Got)
}

// NewTypeMismatch wraps a TypeMismatchError with call-site stack context.
func NewTypeMismatch(k key.Key, want, got string) error {
	return errors.WithStack(&TypeMismatchError{Key: k, Want: want, Got: got})
}

// SourceError wraps an error from the store being read from during a sync
// or persist operation.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string { return fmt.Sprintf("oxerr: source: %v", e.Err) }
func (e *SourceError) Unwrap() error { return e.Err }

// NewSource wraps an underlying source-store error.
func NewSource(err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&SourceError{Err: err})
}

// DestError wraps an error from the store being written to during a sync
// or persist operation.
type DestError struct {
	Err error
}

func (e *DestError) Error() string { return fmt.Sprintf("oxerr: dest: %v", e.Err) }
func (e *DestError) Unwrap() error { return e.Err }

// NewDest wraps an underlying destination-store error.
func NewDest(err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&DestError{Err: err})
}
