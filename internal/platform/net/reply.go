package net

import (
	"net/http"

	perr "profitscout/internal/platform/errors"
)

// Wire is the JSON envelope every non-raw response is written in.
// Exactly one of Data or Error is set.
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func envelope(status int, reqID string) Wire {
	return Wire{StatusCode: status, Status: http.StatusText(status), RequestID: reqID}
}

// Reply wraps data in a success envelope.
func Reply(status int, data any, reqID string) (int, Wire) {
	w := envelope(status, reqID)
	w.Data = data
	return status, w
}

// Error maps err onto its status and an error envelope. The field of a
// validation error names the offending parameter. nil maps to an empty 200.
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return Reply(http.StatusOK, nil, reqID)
	}
	status := perr.HTTPStatus(err)
	pe := perr.WireFrom(err)
	w := envelope(status, reqID)
	w.Code, w.Error, w.Field = pe.Code, pe.Message, pe.Field
	return status, w
}
