package segwire

import (
	"errors"
	"fmt"
)

var (
	ErrMalformed         = errors.New("malformed message")
	ErrResourceExhausted = errors.New("resource limit exceeded")
	ErrIncompatibleShape = errors.New("incompatible list or struct shape")
	ErrUnionMismatch     = errors.New("union discriminant mismatch")
	ErrAllocation        = errors.New("allocation failed")
)

// ErrorKind classifies an Error.
type ErrorKind uint8

const (
	KindMalformed ErrorKind = iota + 1
	KindResourceExhausted
	KindIncompatibleShape
	KindUnionMismatch
	KindAllocation
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMalformed:
		return ErrMalformed
	case KindResourceExhausted:
		return ErrResourceExhausted
	case KindIncompatibleShape:
		return ErrIncompatibleShape
	case KindUnionMismatch:
		return ErrUnionMismatch
	case KindAllocation:
		return ErrAllocation
	}
	return nil
}

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error describes a fault found while reading or building a message.
// errors.Is matches it against the sentinel of its kind.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
}

func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind
	}
	return target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorf(k ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

func malformed(format string, args ...any) error {
	return errorf(KindMalformed, format, args...)
}

func exhausted(format string, args ...any) error {
	return errorf(KindResourceExhausted, format, args...)
}

func allocFailed(err error) error {
	return &Error{Kind: KindAllocation, Msg: "arena", Err: err}
}
