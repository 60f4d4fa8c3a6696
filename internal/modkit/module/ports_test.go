package module

import (
	"testing"

	phttp "profitscout/internal/platform/net/http"
	"profitscout/internal/platform/testkit"
)

type lister interface{ Datasets() []string }

type catalog []string

func (c catalog) Datasets() []string { return c }

type stubModule struct{ ports any }

func (stubModule) Name() string             { return "signals" }
func (s stubModule) Ports() any             { return s.ports }
func (stubModule) MountRoutes(phttp.Router) {}

func TestPortsOf(t *testing.T) {
	t.Parallel()

	type bundle struct {
		Count   int
		Catalog lister
		hidden  lister
	}

	cases := []struct {
		name  string
		ports any
		ok    bool
	}{
		{"nil bundle", nil, false},
		{"direct", catalog{"options-signals"}, true},
		{"exported field", bundle{Catalog: catalog{"options-signals"}}, true},
		{"nil field", bundle{}, false},
		{"unexported field", bundle{hidden: catalog{"x"}}, false},
		{"non struct", 42, false},
	}
	for _, tc := range cases {
		got, ok := PortsOf[lister](stubModule{ports: tc.ports})
		if ok != tc.ok {
			t.Fatalf("%s: ok = %v", tc.name, ok)
		}
		if ok && got.Datasets()[0] != "options-signals" {
			t.Fatalf("%s: got %v", tc.name, got.Datasets())
		}
	}
}

func TestMustPortsOf(t *testing.T) {
	t.Parallel()

	type Ports struct{ Catalog lister }

	// the bundle type itself matches even when its fields are nil
	p := MustPortsOf[Ports](stubModule{ports: Ports{}})
	if p.Catalog != nil {
		t.Fatalf("ports = %+v", p)
	}
	testkit.MustPanic(t, func() { MustPortsOf[lister](stubModule{}) })
}
