package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// definition is a content record that checks itself after decoding.
type definition[T any] interface {
	*T
	Validate() error
}

// loadDir decodes every *.yaml and *.yml file in dir as one T, in file name
// order. kind names the record type in errors.
func loadDir[T any, P definition[T]](dir, kind string) ([]*T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s dir %s: %w", kind, dir, err)
	}
	var out []*T
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, path, err)
		}
		rec := P(new(T))
		if err := yaml.Unmarshal(data, rec); err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, path, err)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, path, err)
		}
		out = append(out, (*T)(rec))
	}
	return slices.Clip(out), nil
}
