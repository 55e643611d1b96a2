package feedsparser

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a feed file could not be converted.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindMalformedLine
	KindIOFailure
	KindEncodingFailure
)

var (
	ErrMalformedLine   = errors.New("malformed line")
	ErrIOFailure       = errors.New("io failure")
	ErrEncodingFailure = errors.New("encoding failure")
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedLine:
		return "malformed_line"
	case KindIOFailure:
		return "io_failure"
	case KindEncodingFailure:
		return "encoding_failure"
	default:
		return "none"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMalformedLine:
		return ErrMalformedLine
	case KindIOFailure:
		return ErrIOFailure
	case KindEncodingFailure:
		return ErrEncodingFailure
	default:
		return nil
	}
}

// ConversionError carries the kind and location of a failed conversion.
// Line is 1-based and zero when the failure is not tied to a line.
type ConversionError struct {
	Kind ErrorKind
	File string
	Line int
	Err  error
}

func (e *ConversionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s at line %d: %v", e.File, e.Kind, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.File, e.Kind, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the same kind, so callers can use
// errors.Is(err, ErrMalformedLine) without caring about the cause.
func (e *ConversionError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func malformed(line int, format string, args ...any) *ConversionError {
	return &ConversionError{Kind: KindMalformedLine, Line: line, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the ErrorKind of err, or KindNone when err is nil or
// not a conversion error.
func KindOf(err error) ErrorKind {
	var convErr *ConversionError
	if errors.As(err, &convErr) {
		return convErr.Kind
	}
	return KindNone
}
