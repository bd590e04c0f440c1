// Package catalog supplies the sample sitter listings that stand in for a
// marketplace backend.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/petpal/internal/persistence"
)

//go:embed sitters.yaml
var defaultCatalog []byte

type document struct {
	Sitters []persistence.Sitter `yaml:"sitters"`
}

// Default returns the bundled sample sitters.
func Default() ([]persistence.Sitter, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from a YAML file shaped like the bundled one.
func LoadFile(path string) ([]persistence.Sitter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sitter catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) ([]persistence.Sitter, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode sitter catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Sitters))
	for i, sitter := range doc.Sitters {
		id := strings.TrimSpace(sitter.ID)
		if id == "" {
			return nil, fmt.Errorf("sitter catalog entry %d has no id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("sitter catalog has duplicate id %q", id)
		}
		seen[id] = struct{}{}
		doc.Sitters[i].ID = id
	}
	if doc.Sitters == nil {
		doc.Sitters = []persistence.Sitter{}
	}
	return doc.Sitters, nil
}

// Source resolves the catalog to seed from: the file at path when set,
// otherwise the bundled one.
func Source(path string) func() ([]persistence.Sitter, error) {
	if strings.TrimSpace(path) == "" {
		return Default
	}
	return func() ([]persistence.Sitter, error) { return LoadFile(path) }
}
