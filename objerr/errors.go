// Package objerr carries the error taxonomy shared across the glob matcher, resolver, reader, writer, handle
// registry and driver facade.
package objerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the driver facade can translate it into the correct ABI sentinel (§7).
type Kind int

const (
	// KindInvalidArgument covers null/empty paths, malformed URIs and unsupported mode characters.
	KindInvalidArgument Kind = iota

	// KindNotConnected is returned for any operation attempted before 'connect' or after 'disconnect'.
	KindNotConnected

	// KindNotFound covers a missing object, or an empty filtered list for a multifile pattern.
	KindNotFound

	// KindStore wraps an underlying object-store error.
	KindStore

	// KindProtocol covers an empty/inconsistent multifile header, or an unexpected short read.
	KindProtocol

	// KindOverflow covers signed arithmetic on offsets/sizes that would wrap.
	KindOverflow

	// KindUnknownHandle is returned when an opaque pointer is not present in the handle registry.
	KindUnknownHandle
)

// String implements the 'fmt.Stringer' interface.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNotConnected:
		return "NotConnected"
	case KindNotFound:
		return "NotFound"
	case KindStore:
		return "Store"
	case KindProtocol:
		return "Protocol"
	case KindOverflow:
		return "Overflow"
	case KindUnknownHandle:
		return "UnknownHandle"
	default:
		return "Unknown"
	}
}

// Error is a classified, user-facing error; the driver facade uses 'Kind' to pick the ABI sentinel to return, and
// 'Error()' to populate the process-wide last-error slot.
type Error struct {
	kind    Kind
	message string
	inner   error
}

// New creates a new classified error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Wrap creates a new classified error which wraps the given inner error.
func Wrap(kind Kind, inner error, message string) *Error {
	return &Error{kind: kind, message: message, inner: inner}
}

// Kind returns the classification of this error.
func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Error() string {
	if e.inner == nil {
		return e.message
	}

	return fmt.Sprintf("%s: %s", e.message, e.inner)
}

func (e *Error) Unwrap() error {
	return e.inner
}

// Is allows 'errors.Is' comparisons against a bare '*Error' carrying only a kind (see the sentinel vars below).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}

	return e.kind == other.kind
}

// IsKind returns a boolean indicating whether 'err' (or something it wraps) is a classified error of the given kind.
func IsKind(err error, kind Kind) bool {
	var classified *Error

	return errors.As(err, &classified) && classified.kind == kind
}

// IsNotFoundError returns a boolean indicating whether 'err' represents a missing object/pattern.
func IsNotFoundError(err error) bool {
	return IsKind(err, KindNotFound)
}

// ErrUnsupportedOperation is returned by adapter methods which aren't meaningful for a given cloud provider (for
// example, byte-range part copies are not supported by Google Cloud Storage).
var ErrUnsupportedOperation = New(KindStore, "operation not supported by this object-store provider")
