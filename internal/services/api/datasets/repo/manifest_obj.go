package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"profitscout/internal/core/artifact"
	"profitscout/internal/platform/logger"
	"profitscout/internal/platform/store/obj"
)

// manifestDoc is the body producers write next to the artifacts
type manifestDoc struct {
	LatestObject string `json:"latest_object"`
}

type objManifests struct{ r Reader }

// NewObjectManifests reads manifests/{dataset}/{id}.json from the object store
func NewObjectManifests(r Reader) Manifests {
	if r == nil {
		panic("repo: nil manifest Reader")
	}
	return &objManifests{r: r}
}

func (m *objManifests) Latest(ctx context.Context, dataset, id string) (string, bool, error) {
	p := artifact.ManifestPath(dataset, id)
	body, _, err := m.r.Get(ctx, p)
	if errors.Is(err, obj.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	var doc manifestDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		// advisory data, a broken manifest falls back to the scan
		logger.C(ctx).Warn().Err(err).Str("manifest", p).Msg("manifest unreadable")
		return "", false, nil
	}
	latest := strings.TrimSpace(doc.LatestObject)
	if latest == "" {
		return "", false, nil
	}
	return latest, true, nil
}
