// Package fserr defines the error taxonomy shared by every filesystem
// operation. Each fault carries a Kind, the operation that failed, and the
// offending path, so callers can decide whether to retry, skip, or abort.
package fserr

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies a filesystem fault.
type Kind int

const (
	IOFault Kind = iota + 1
	NotFound
	AlreadyExists
	PermissionDenied
	MissingTimestamp
	DecodeFailure
	ConfigurationError
)

var kindNames = [...]string{
	IOFault:            "io fault",
	NotFound:           "not found",
	AlreadyExists:      "already exists",
	PermissionDenied:   "permission denied",
	MissingTimestamp:   "missing timestamp",
	DecodeFailure:      "decode failure",
	ConfigurationError: "configuration error",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Retryable reports whether a fault of this kind may succeed on a later
// attempt. The library never retries on its own.
func (k Kind) Retryable() bool {
	return k == IOFault
}

// Error is a classified filesystem fault.
type Error struct {
	Err  error
	Op   string
	Path string
	Kind Kind
}

// New returns a classified error. err may be nil.
func New(kind Kind, op, path string, err error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinel errors of the same kind, so errors.Is(err, ErrNotFound)
// holds for any NotFound fault regardless of op or path.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Path == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrIOFault            = &Error{Kind: IOFault}
	ErrNotFound           = &Error{Kind: NotFound}
	ErrAlreadyExists      = &Error{Kind: AlreadyExists}
	ErrPermissionDenied   = &Error{Kind: PermissionDenied}
	ErrMissingTimestamp   = &Error{Kind: MissingTimestamp}
	ErrDecodeFailure      = &Error{Kind: DecodeFailure}
	ErrConfigurationError = &Error{Kind: ConfigurationError}
)

// Classify wraps an OS-level error into an *Error. Errors that are already
// classified are returned unchanged; nil stays nil.
func Classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return New(kindFor(err), op, path, unwrapPathError(err))
}

// KindOf returns the kind of the first *Error in err's chain. Unclassified
// errors report IOFault; nil reports 0.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return kindFor(err)
}

// Configf builds a ConfigurationError with a formatted cause.
func Configf(op, format string, args ...any) *Error {
	return New(ConfigurationError, op, "", fmt.Errorf(format, args...))
}

func kindFor(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	case errors.Is(err, fs.ErrExist):
		return AlreadyExists
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied
	default:
		return IOFault
	}
}

// unwrapPathError drops the *fs.PathError layer, whose op and path duplicate
// the ones carried by *Error.
func unwrapPathError(err error) error {
	var pe *fs.PathError
	if errors.As(err, &pe) && pe == err {
		return pe.Err
	}
	return err
}
