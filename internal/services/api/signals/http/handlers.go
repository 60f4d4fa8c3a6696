// Package http provides http transport for signal datasets
package http

import (
	stdhttp "net/http"

	"profitscout/internal/modkit/httpkit"
	"profitscout/internal/services/api/signals/domain"
	svc "profitscout/internal/services/api/signals/service"
)

// listingMaxAge is the Cache-Control max-age for listings, in seconds
const listingMaxAge = 300

// Register mounts signals endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// distinct tickers for a run date
	httpkit.Get(r, "/{dataset}/tickers", h.tickers)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /signals/{dataset}/tickers Signals signalsTickers
// @Summary Distinct tickers of a query-backed dataset
// @Tags Signals
// @Produce json
// @Param dataset path string true "Dataset" example(options-signals)
// @Param as_of query string false "latest or YYYY-MM-DD"
// @Param prefix query string false "Ticker prefix"
// @Param option_type query string false "CALL, PUT or ANY"
// @Param limit query int false "Page size (1..500)"
// @Param cursor query string false "Opaque paging cursor"
// @Success 200 {object} domain.TickerPage "ok"
// @Failure 400 {object} httpkit.Envelope "invalid filter"
// @Failure 404 {object} httpkit.Envelope "unknown dataset"
// @Failure 503 {object} httpkit.Envelope "analytical store unavailable"
// @Router /signals/{dataset}/tickers [get]
func (h *handlers) tickers(r *stdhttp.Request) (any, error) {
	limit, _, err := httpkit.QueryInt(r, "limit")
	if err != nil {
		return nil, err
	}
	page, err := h.svc.Tickers(r.Context(), domain.TickersInput{
		Dataset:    httpkit.Param(r, "dataset"),
		AsOf:       httpkit.Query(r, "as_of"),
		Prefix:     httpkit.Query(r, "prefix"),
		OptionType: httpkit.Query(r, "option_type"),
		Limit:      limit,
		Cursor:     httpkit.Query(r, "cursor"),
	})
	if err != nil {
		return nil, err
	}
	return httpkit.OK(page).Cached(listingMaxAge), nil
}
