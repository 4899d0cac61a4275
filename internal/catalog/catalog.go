// Package catalog holds the static fallback bus list used to seed an empty store.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"journeycompass/internal/domain/models"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

type file struct {
	Buses []models.Bus `yaml:"buses"`
}

// Fallback returns the embedded catalog.
func Fallback() ([]models.Bus, error) {
	return Decode(bytes.NewReader(fallbackYAML))
}

// Load reads a catalog file, or the embedded one when path is empty.
func Load(path string) ([]models.Bus, error) {
	if path == "" {
		return Fallback()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a YAML catalog of the form `buses: [...]`.
func Decode(r io.Reader) ([]models.Bus, error) {
	var out file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return []models.Bus{}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if out.Buses == nil {
		return []models.Bus{}, nil
	}
	return out.Buses, nil
}
