package repo

import (
	"context"
	"errors"

	"profitscout/internal/modkit/repokit"
	perr "profitscout/internal/platform/errors"
	"profitscout/internal/platform/store"

	"github.com/jackc/pgx/v5"
)

type (
	// PG binds the manifest table to a Queryer
	PG struct{}
	// pgManifests implements Manifests over artifact_manifests
	pgManifests struct{ q repokit.Queryer }
)

// NewPG returns a binder for the postgres manifest backend
func NewPG() repokit.Binder[Manifests] { return PG{} }

// Bind wires a Queryer to the manifest backend
func (PG) Bind(q repokit.Queryer) Manifests { return &pgManifests{q: q} }

func (m *pgManifests) Latest(ctx context.Context, dataset, id string) (string, bool, error) {
	const sql = `
select latest_object
from artifact_manifests
where dataset = $1 and item_id = $2
`
	p, err := store.Scalar[string](ctx, m.q, sql, dataset, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, perr.FromPostgresf(err, "manifest %s/%s", dataset, id)
	}
	return p, p != "", nil
}
