// Package http holds the router seam, the server and the return-style
// response helpers shared by every module.
package http

import (
	"encoding/json"
	"maps"
	stdhttp "net/http"
	"strconv"

	pnet "profitscout/internal/platform/net"
)

// Envelope is the JSON body of every non-raw response.
type Envelope = pnet.Wire

// JSON encodes v with status.
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what a return-style handler produces. Body is enveloped; an
// error Body becomes an error envelope. Raw with ContentType is written as-is.
type Response struct {
	Status      int
	Body        any
	Header      stdhttp.Header
	Raw         []byte
	ContentType string
}

func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Bytes serves b verbatim, for md and raw renditions.
func Bytes(contentType string, b []byte) Response {
	return Response{Status: stdhttp.StatusOK, Raw: b, ContentType: contentType}
}

func Error(err error) Response { return Response{Body: err} }

// WithHeader adds a header on a copy of resp.
func (resp Response) WithHeader(key, value string) Response {
	h := make(stdhttp.Header, len(resp.Header)+1)
	maps.Copy(h, resp.Header.Clone())
	h.Add(key, value)
	resp.Header = h
	return resp
}

// Cached lets shared caches keep a successful response for maxAge seconds.
// Error responses drop it when written.
func (resp Response) Cached(maxAge int) Response {
	return resp.WithHeader("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
}

// Handle adapts a return-style handler to net/http.
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).writeTo(w, pnet.RequestID(r.Context()))
	}
}

func (resp Response) writeTo(w stdhttp.ResponseWriter, reqID string) {
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if err, ok := resp.Body.(error); ok && err != nil {
		w.Header().Del("Cache-Control")
		st, body := pnet.Error(err, reqID)
		JSON(w, st, body)
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if resp.ContentType == "" {
		st, body := pnet.Reply(status, resp.Body, reqID)
		JSON(w, st, body)
		return
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(status)
	_, _ = w.Write(resp.Raw)
}
