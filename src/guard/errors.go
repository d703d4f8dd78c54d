package guard

import (
	"errors"
	"fmt"

	"secure-clipboard/src/clipboard"
)

// ErrClipboardUnavailable matches every error caused by the platform
// clipboard service being unobtainable.
var ErrClipboardUnavailable = clipboard.ErrUnavailable

// ErrInvalidExpiration is wrapped in a write failure when the caller passes a
// negative expiration or one larger than MaxExpirationMs.
var ErrInvalidExpiration = errors.New("expiration out of range")

// Op names a Guard operation.
type Op string

const (
	OpWrite Op = "write"
	OpRead  Op = "read"
	OpClear Op = "clear"
)

// OpError is a platform failure during an operation, other than the service
// being unavailable.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("clipboard %s failed: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Kind returns the error kind name: ClipboardWriteFailed,
// ClipboardReadFailed or ClipboardClearFailed.
func (e *OpError) Kind() string {
	switch e.Op {
	case OpWrite:
		return "ClipboardWriteFailed"
	case OpRead:
		return "ClipboardReadFailed"
	case OpClear:
		return "ClipboardClearFailed"
	default:
		return "ClipboardFailed"
	}
}

// Kind classifies err for callers that need the error taxonomy as a string.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrClipboardUnavailable) {
		return "ClipboardUnavailable"
	}
	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind()
	}
	return "ClipboardFailed"
}

func unavailable(err error) error {
	switch {
	case err == nil:
		return ErrClipboardUnavailable
	case errors.Is(err, ErrClipboardUnavailable):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
	}
}
