package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"profitscout/internal/platform/store"
	"profitscout/internal/platform/store/obj"
	"profitscout/internal/platform/testkit"

	"github.com/jackc/pgx/v5"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func openFS(t *testing.T, root string) *obj.FS {
	t.Helper()
	b, err := obj.OpenFS(root, 0)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestObjectManifests(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "manifests/recommendations/AAL.json", `{"latest_object":"recommendations/AAL_2025-10-15.md"}`)
	writeFile(t, root, "manifests/recommendations/BAD.json", `{not json`)
	writeFile(t, root, "manifests/recommendations/EMPTY.json", `{"latest_object":"  "}`)
	m := NewObjectManifests(openFS(t, root))
	ctx := context.Background()

	p, ok, err := m.Latest(ctx, "recommendations", "AAL")
	if err != nil || !ok || p != "recommendations/AAL_2025-10-15.md" {
		t.Fatalf("hit = %q %v %v", p, ok, err)
	}
	for _, id := range []string{"MISSING", "BAD", "EMPTY"} {
		if p, ok, err := m.Latest(ctx, "recommendations", id); err != nil || ok || p != "" {
			t.Fatalf("%s: want absent, got %q %v %v", id, p, ok, err)
		}
	}
}

type failReader struct{}

func (failReader) Get(context.Context, string) ([]byte, obj.Info, error) {
	return nil, obj.Info{}, errors.New("bucket offline")
}

func TestObjectManifests_BackendErrorSurfaces(t *testing.T) {
	_, ok, err := NewObjectManifests(failReader{}).Latest(context.Background(), "news", "AAL")
	if err == nil || ok {
		t.Fatalf("want backend error, got ok=%v err=%v", ok, err)
	}
}

func TestNewObjectManifests_NilPanics(t *testing.T) {
	testkit.MustPanic(t, func() { NewObjectManifests(nil) })
}

func TestDisabled(t *testing.T) {
	if _, ok, err := (Disabled{}).Latest(context.Background(), "news", "AAL"); ok || err != nil {
		t.Fatalf("disabled manifests should never hit")
	}
}

type fakeRow struct {
	val string
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*string)) = r.val
	return nil
}

type fakeQ struct {
	row  fakeRow
	sql  string
	args []any
}

func (f *fakeQ) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeQ) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	f.sql, f.args = sql, args
	return f.row
}

func TestPGManifests(t *testing.T) {
	ctx := context.Background()

	q := &fakeQ{row: fakeRow{val: "sec-mda/AAL_2025-08-01.md"}}
	p, ok, err := NewPG().Bind(q).Latest(ctx, "sec-mda", "AAL")
	if err != nil || !ok || p != "sec-mda/AAL_2025-08-01.md" {
		t.Fatalf("hit = %q %v %v", p, ok, err)
	}
	testkit.MustContain(t, q.sql, "artifact_manifests")
	if len(q.args) != 2 || q.args[0] != "sec-mda" || q.args[1] != "AAL" {
		t.Fatalf("args = %v", q.args)
	}

	q = &fakeQ{row: fakeRow{err: pgx.ErrNoRows}}
	if _, ok, err := NewPG().Bind(q).Latest(ctx, "sec-mda", "AAL"); ok || err != nil {
		t.Fatalf("no rows should be absent, got %v %v", ok, err)
	}

	q = &fakeQ{row: fakeRow{err: errors.New("conn reset")}}
	if _, _, err := NewPG().Bind(q).Latest(ctx, "sec-mda", "AAL"); err == nil {
		t.Fatal("want backend error")
	}
}
