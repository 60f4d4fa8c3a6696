// Package errors carries coded errors from the resolvers to the HTTP and CLI edges.
// Import it as perr.
package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure. The numeric values travel in the JSON envelope.
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	// ErrorCodeUnavailable marks a backend that may answer on retry.
	ErrorCodeUnavailable
	ErrorCodeValidation
	ErrorCodeNotFound
	// ErrorCodeUnsupportedFormat means the artifact has no rendition in the requested format.
	ErrorCodeUnsupportedFormat
	// ErrorCodeDB is a manifest store error that maps to nothing more specific.
	ErrorCodeDB
)

type codeInfo struct {
	name   string
	status int
}

var codes = map[ErrorCode]codeInfo{
	ErrorCodeUnknown:           {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:             {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:       {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeValidation:        {"validation", http.StatusBadRequest},
	ErrorCodeNotFound:          {"not_found", http.StatusNotFound},
	ErrorCodeUnsupportedFormat: {"unsupported_format", http.StatusNotAcceptable},
	ErrorCodeDB:                {"db", http.StatusInternalServerError},
}

func (c ErrorCode) String() string {
	if ci, ok := codes[c]; ok {
		return ci.name
	}
	return fmt.Sprintf("code(%d)", uint16(c))
}

// HTTPStatusCode returns the status a code is served with; unregistered codes get 500.
func HTTPStatusCode(c ErrorCode) int {
	if ci, ok := codes[c]; ok {
		return ci.status
	}
	return http.StatusInternalServerError
}

// Error is a message with a code, an optional offending parameter and an optional cause.
type Error struct {
	code  ErrorCode
	msg   string
	field string
	cause error
}

// Wire is the error part of a response envelope.
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause == nil:
		return e.msg
	default:
		return e.msg + ": " + e.cause.Error()
	}
}

func (e *Error) Unwrap() error   { return e.cause }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }
func (e *Error) ToWire() Wire    { return Wire{Code: e.code, Message: e.msg, Field: e.field} }
func (e *Error) withField(f string) *Error {
	c := *e
	c.field = f
	return &c
}

// WireFrom renders any error for the envelope. The cause chain never leaks to
// clients; foreign errors are reported as unknown with their own text.
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// As finds the outermost *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// Root follows Unwrap to the innermost cause.
func Root(err error) error {
	for {
		next := stderrs.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// CodeOf returns err's code, or ErrorCodeUnknown for foreign errors.
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WithField names the request parameter an error is about. Foreign errors pass through.
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		return e.withField(field)
	}
	return err
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap keeps orig as the cause; it shows up in logs but not on the wire.
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, cause: orig}
}

func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return Wrap(orig, code, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error    { return Newf(ErrorCodeNotFound, format, a...) }
func Validationf(format string, a ...any) error  { return Newf(ErrorCodeValidation, format, a...) }
func Unavailablef(format string, a ...any) error { return Newf(ErrorCodeUnavailable, format, a...) }
func PanicErrf(format string, a ...any) error    { return Newf(ErrorCodePanic, format, a...) }
func Internalf(format string, a ...any) error    { return Newf(ErrorCodeUnknown, format, a...) }

func UnsupportedFormatf(format string, a ...any) error {
	return Newf(ErrorCodeUnsupportedFormat, format, a...)
}

// Retryable reports whether the same request may succeed later: unavailable
// backends and transient Postgres conditions.
func Retryable(err error) bool {
	return IsCode(err, ErrorCodeUnavailable) || IsRetryable(err)
}
