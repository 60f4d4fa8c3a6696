package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	perr "profitscout/internal/platform/errors"
	phttp "profitscout/internal/platform/net/http"
	"profitscout/internal/services/api/datasets/domain"

	"github.com/go-chi/chi/v5"
)

type fakeSvc struct {
	item domain.ItemInput
	list domain.ListInput
	p    domain.Payload
	err  error
}

func (f *fakeSvc) Datasets(context.Context) (domain.DatasetList, error) {
	return domain.DatasetList{Items: []domain.Dataset{{Name: "recommendations", Kind: domain.KindObject}}}, f.err
}

func (f *fakeSvc) List(_ context.Context, in domain.ListInput) (domain.Payload, error) {
	f.list = in
	return f.p, f.err
}

func (f *fakeSvc) Item(_ context.Context, in domain.ItemInput) (domain.Payload, error) {
	f.item = in
	return f.p, f.err
}

func serve(t *testing.T, s *fakeSvc, target string) *httptest.ResponseRecorder {
	t.Helper()
	m := chi.NewRouter()
	phttp.AdaptChi(m).Route("/datasets", func(r phttp.Router) { Register(r, s) })
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, target, nil))
	return rr
}

func TestItem_RawPayload(t *testing.T) {
	s := &fakeSvc{p: domain.Payload{ContentType: "text/markdown; charset=utf-8", Raw: []byte("# AAL")}}
	rr := serve(t, s, "/datasets/recommendations/AAL?as_of=2025-10-14&format=md")

	if rr.Code != 200 || rr.Body.String() != "# AAL" {
		t.Fatalf("got %d %q", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("Content-Type") != "text/markdown; charset=utf-8" {
		t.Fatalf("content type = %q", rr.Header().Get("Content-Type"))
	}
	if rr.Header().Get("Cache-Control") != "public, max-age=120" {
		t.Fatalf("cache control = %q", rr.Header().Get("Cache-Control"))
	}
	if s.item.Dataset != "recommendations" || s.item.ID != "AAL" || s.item.AsOf != "2025-10-14" || s.item.Format != "md" {
		t.Fatalf("input = %+v", s.item)
	}
}

func TestItem_JSONEnvelope(t *testing.T) {
	s := &fakeSvc{p: domain.Payload{JSON: domain.ItemEnvelope{ID: "AAL", Data: json.RawMessage(`{"a":1}`)}}}
	rr := serve(t, s, "/datasets/recommendations/AAL")
	if rr.Code != 200 {
		t.Fatalf("status %d", rr.Code)
	}
	var env struct {
		Data domain.ItemEnvelope `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data.ID != "AAL" || string(env.Data.Data) != `{"a":1}` {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestItem_ErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{perr.NotFoundf("none"), 404},
		{perr.Unavailablef("down"), 503},
		{perr.Validationf("bad"), 400},
		{perr.UnsupportedFormatf("no md"), 406},
	}
	for _, c := range cases {
		rr := serve(t, &fakeSvc{err: c.err}, "/datasets/recommendations/AAL")
		if rr.Code != c.want {
			t.Fatalf("%v: got %d want %d", c.err, rr.Code, c.want)
		}
		if rr.Header().Get("Cache-Control") != "" {
			t.Fatalf("errors must not be cacheable")
		}
	}
}

func TestTopN(t *testing.T) {
	s := &fakeSvc{p: domain.Payload{JSON: struct{}{}}}
	if rr := serve(t, s, "/datasets/options-signals/AAL?top_n=0"); rr.Code != 400 {
		t.Fatalf("top_n=0: %d", rr.Code)
	}
	if rr := serve(t, s, "/datasets/options-signals/AAL?top_n=abc"); rr.Code != 400 {
		t.Fatalf("top_n=abc: %d", rr.Code)
	}
	if rr := serve(t, s, "/datasets/options-signals?top_n=7&option_type=PUT"); rr.Code != 200 || s.list.TopN != 7 || s.list.OptionType != "PUT" {
		t.Fatalf("list input = %+v", s.list)
	}
}

func TestDatasets(t *testing.T) {
	rr := serve(t, &fakeSvc{}, "/datasets")
	if rr.Code != 200 || rr.Header().Get("Cache-Control") != "public, max-age=300" {
		t.Fatalf("got %d %q", rr.Code, rr.Header().Get("Cache-Control"))
	}
}
