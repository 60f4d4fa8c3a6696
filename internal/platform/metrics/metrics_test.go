package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Resolved("news", PathScan, OutcomeHit)
	m.Scanned(3)
	m.Backend("obj", "list", time.Now(), errors.New("x"))
	if m.Registry() != nil {
		t.Fatalf("nil metrics should have nil registry")
	}
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if rr.Code != 404 {
		t.Fatalf("nil handler status = %d", rr.Code)
	}
}

func TestCounters(t *testing.T) {
	m := New()
	m.Resolved("news", PathManifest, OutcomeHit)
	m.Resolved("news", PathManifest, OutcomeHit)
	m.Backend("obj", "get", time.Now(), nil)
	m.Backend("obj", "get", time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(m.Resolutions.WithLabelValues("news", PathManifest, OutcomeHit)); got != 2 {
		t.Fatalf("resolutions = %v", got)
	}
	if got := testutil.ToFloat64(m.BackendErrors.WithLabelValues("obj", "get")); got != 1 {
		t.Fatalf("backend errors = %v", got)
	}
}

func TestHandlerExposesFamilies(t *testing.T) {
	m := New()
	m.Resolved("options-signals", PathQuery, OutcomeHit)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	res, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "profitscout_resolver_resolutions_total") {
		t.Fatalf("metrics output missing resolver family")
	}
}
