package counter

import (
	"errors"
	"fmt"
)

// Error kinds, match them with errors.Is
var (
	// ErrUnavailable the storage can't be reached or written
	ErrUnavailable = errors.New("counter: store unavailable")
	// ErrCorrupt the persisted state can't be parsed into the expected shape
	ErrCorrupt = errors.New("counter: corrupt state")
	// ErrInvalidKey the key,field or default value is not acceptable
	ErrInvalidKey = errors.New("counter: invalid key")
)

var (
	errEmptyKey        = errors.New("empty key")
	errEmptyField      = errors.New("empty field")
	errNegativeDefault = errors.New("negative default value")
)

// Error is the error returned by the backends
type Error struct {
	Kind error  // ErrUnavailable,ErrCorrupt or ErrInvalidKey
	Op   string // operation
	Key  string // counter key,empty for whole store operations
	Err  error  // cause
}

func newError(kind error, op, key string, err error) *Error {
	return &Error{Kind: kind, Op: op, Key: key, Err: err}
}

func (e *Error) Error() string {
	s := e.Kind.Error() + ": " + e.Op
	if e.Key != "" {
		s += fmt.Sprintf(" %q", e.Key)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap return the cause
func (e *Error) Unwrap() error {
	return e.Err
}

// overflowError is returned when a count is already math.MaxInt64
func overflowError(op, key string, n int64) *Error {
	return newError(ErrCorrupt, op, key, fmt.Errorf("increment of %d would overflow", n))
}

// Is reports whether target is the kind of e
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// ErrorKind return the short kind name of err for logs and metrics labels
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrCorrupt):
		return "corrupt"
	case errors.Is(err, ErrInvalidKey):
		return "invalid_key"
	}
	return "unknown"
}
