// Package swaggerkit serves the OpenAPI document and Swagger UI
package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"

	"profitscout/internal/core/version"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var specYAML []byte

// loadSpec decodes the embedded YAML document; swapped in tests
var loadSpec = func() (map[string]any, error) {
	var spec map[string]any
	if err := yaml.Unmarshal(specYAML, &spec); err != nil {
		return nil, fmt.Errorf("openapi.yaml: %w", err)
	}
	return spec, nil
}

// serveDocJSON serves the document as JSON stamped with the build version
func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		spec, err := loadSpec()
		if err != nil {
			http.Error(w, "spec unavailable", http.StatusInternalServerError)
			return
		}
		if info, ok := spec["info"].(map[string]any); ok {
			info["version"] = version.Info().Version
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}
