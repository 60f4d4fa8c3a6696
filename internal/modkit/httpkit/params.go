package httpkit

import (
	"net/http"
	"strconv"
	"strings"

	perr "profitscout/internal/platform/errors"

	"github.com/go-chi/chi/v5"
)

// Param returns a route parameter by name
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }

// Query returns a trimmed query parameter
func Query(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// QueryInt parses an optional integer query parameter; set reports presence
func QueryInt(r *http.Request, name string) (v int, set bool, err error) {
	raw := Query(r, name)
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, perr.WithField(perr.Validationf("%s must be an integer", name), name)
	}
	return v, true, nil
}
