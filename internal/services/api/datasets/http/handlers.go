// Package http provides http transport for datasets
package http

import (
	stdhttp "net/http"

	"profitscout/internal/modkit/httpkit"
	perr "profitscout/internal/platform/errors"
	"profitscout/internal/services/api/datasets/domain"
	svc "profitscout/internal/services/api/datasets/service"
)

// Cache-Control max-age values, in seconds
const (
	itemMaxAge    = 120
	listingMaxAge = 300
)

// Register mounts dataset endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// registry listing
	httpkit.Get(r, "/", h.datasets)

	// item ids of an object dataset or market rows of a query-backed one
	httpkit.Get(r, "/{dataset}", h.list)

	// one item
	httpkit.Get(r, "/{dataset}/{id}", h.item)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /datasets Datasets datasetsList
// @Summary List datasets
// @Description Object-backed datasets discovered in the object store, aliases and query-backed datasets
// @Tags Datasets
// @Produce json
// @Success 200 {object} domain.DatasetList "ok"
// @Failure 503 {object} httpkit.Envelope "object store unavailable"
// @Router /datasets [get]
func (h *handlers) datasets(r *stdhttp.Request) (any, error) {
	out, err := h.svc.Datasets(r.Context())
	if err != nil {
		return nil, err
	}
	return httpkit.OK(out).Cached(listingMaxAge), nil
}

// swagger:route GET /datasets/{dataset} Datasets datasetsItems
// @Summary List a dataset
// @Description Object datasets list their item ids. Query-backed datasets return the top rows across the market
// @Tags Datasets
// @Produce json
// @Param dataset path string true "Dataset" example(recommendations)
// @Param as_of query string false "latest or YYYY-MM-DD"
// @Param option_type query string false "CALL, PUT or ANY (query-backed only)"
// @Param top_n query int false "Row bound (query-backed only)"
// @Success 200 {object} domain.ItemList "ok"
// @Failure 400 {object} httpkit.Envelope "invalid filter"
// @Failure 404 {object} httpkit.Envelope "unknown dataset"
// @Failure 406 {object} httpkit.Envelope "unsupported format"
// @Failure 503 {object} httpkit.Envelope "backend unavailable"
// @Router /datasets/{dataset} [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	topN, err := topN(r)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.List(r.Context(), domain.ListInput{
		Dataset:    httpkit.Param(r, "dataset"),
		AsOf:       httpkit.Query(r, "as_of"),
		Format:     httpkit.Query(r, "format"),
		OptionType: httpkit.Query(r, "option_type"),
		TopN:       topN,
	})
	if err != nil {
		return nil, err
	}
	return respond(p).Cached(listingMaxAge), nil
}

// swagger:route GET /datasets/{dataset}/{id} Datasets datasetsItem
// @Summary Get one item
// @Description Resolves the artifact of an object dataset, or the ranked signal rows of a ticker for a query-backed one
// @Tags Datasets
// @Produce json
// @Produce text/markdown
// @Produce application/octet-stream
// @Param dataset path string true "Dataset" example(recommendations)
// @Param id path string true "Item id (ticker)" example(AAL)
// @Param as_of query string false "latest or YYYY-MM-DD"
// @Param format query string false "json, md or raw"
// @Param option_type query string false "CALL, PUT or ANY (query-backed only)"
// @Param expiration_date query string false "YYYY-MM-DD (query-backed only)"
// @Param top_n query int false "Row bound (query-backed only)"
// @Success 200 {object} domain.ItemEnvelope "ok"
// @Failure 400 {object} httpkit.Envelope "invalid filter"
// @Failure 404 {object} httpkit.Envelope "no qualifying artifact"
// @Failure 406 {object} httpkit.Envelope "unsupported format"
// @Failure 503 {object} httpkit.Envelope "backend unavailable"
// @Router /datasets/{dataset}/{id} [get]
func (h *handlers) item(r *stdhttp.Request) (any, error) {
	topN, err := topN(r)
	if err != nil {
		return nil, err
	}
	p, err := h.svc.Item(r.Context(), domain.ItemInput{
		Dataset:        httpkit.Param(r, "dataset"),
		ID:             httpkit.Param(r, "id"),
		AsOf:           httpkit.Query(r, "as_of"),
		Format:         httpkit.Query(r, "format"),
		OptionType:     httpkit.Query(r, "option_type"),
		ExpirationDate: httpkit.Query(r, "expiration_date"),
		TopN:           topN,
	})
	if err != nil {
		return nil, err
	}
	return respond(p).Cached(itemMaxAge), nil
}

// topN reads top_n; an explicit value below 1 is rejected
func topN(r *stdhttp.Request) (int, error) {
	n, set, err := httpkit.QueryInt(r, "top_n")
	if err != nil {
		return 0, err
	}
	if set && n < 1 {
		return 0, perr.WithField(perr.Validationf("top_n must be at least 1"), "top_n")
	}
	return n, nil
}

func respond(p domain.Payload) httpkit.Response {
	if p.IsRaw() {
		return httpkit.Bytes(p.ContentType, p.Raw)
	}
	return httpkit.OK(p.JSON)
}
