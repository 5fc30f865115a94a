package render

import (
	"errors"
	"fmt"
)

// ErrorKind classifies render outcomes. Only ConfigurationMissing and
// RenderFailure make a result unsuccessful.
type ErrorKind string

const (
	ErrConfigurationMissing ErrorKind = "CONFIGURATION_MISSING"
	ErrRenderFailure        ErrorKind = "RENDER_FAILURE"
	ErrMarkupParseFailure   ErrorKind = "MARKUP_PARSE_FAILURE"
	ErrSizeMismatch         ErrorKind = "SIZE_MISMATCH"
	ErrMalformedSubtitle    ErrorKind = "MALFORMED_SUBTITLE_BLOCK"
	ErrUnsupportedMarkup    ErrorKind = "UNSUPPORTED_TAG_OR_ATTRIBUTE"
)

// Error implements the error interface so a kind can be used as an errors.Is target.
func (k ErrorKind) Error() string { return string(k) }

// Fatal reports whether the kind makes the result unsuccessful.
func (k ErrorKind) Fatal() bool {
	return k == ErrConfigurationMissing || k == ErrRenderFailure
}

// Error is a render outcome with a kind and an optional cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is matches another *Error or a bare ErrorKind of the same kind.
func (e *Error) Is(target error) bool {
	var kind ErrorKind
	if errors.As(target, &kind) {
		return e.Kind == kind
	}
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapError(err error, kind ErrorKind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Wrapped: err}
}
