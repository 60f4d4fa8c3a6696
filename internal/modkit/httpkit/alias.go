// Package httpkit is the slice of the platform http package that modules
// register routes with.
package httpkit

import (
	"net/http"

	phttp "profitscout/internal/platform/net/http"
)

type (
	Envelope = phttp.Envelope
	Response = phttp.Response
	Handler  = phttp.Handler
	Router   = phttp.Router
)

func OK(data any) Response                        { return phttp.OK(data) }
func Bytes(contentType string, b []byte) Response { return phttp.Bytes(contentType, b) }
func Error(err error) Response                    { return phttp.Error(err) }

// Handle adapts a return-style handler.
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Call adapts a value-or-error handler. A returned Response is written as is,
// so handlers can set cache headers or serve raw bytes.
func Call(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}

// Get mounts a value-or-error handler on path.
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}
