// Package catalogs parses region catalogs from YAML and ships the built-in ones.
package catalogs

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/randomchill-vibes/findthestate/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultID is the catalog served when a client does not ask for one.
const DefaultID = "usa"

//go:embed data/*.yaml
var builtin embed.FS

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) (domain.Catalog, error) {
	var catalog domain.Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if catalog.ID == "" {
		return domain.Catalog{}, fmt.Errorf("decode catalog: missing id")
	}
	if err := catalog.Validate(); err != nil {
		return domain.Catalog{}, err
	}
	return catalog, nil
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(p string) (domain.Catalog, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return domain.Catalog{}, err
	}
	catalog, err := Parse(data)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", p, err)
	}
	return catalog, nil
}

// Builtin returns the catalogs embedded in the binary, keyed by id.
func Builtin() (map[string]domain.Catalog, error) {
	entries, err := fs.ReadDir(builtin, "data")
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Catalog, len(entries))
	for _, entry := range entries {
		data, err := builtin.ReadFile(path.Join("data", entry.Name()))
		if err != nil {
			return nil, err
		}
		catalog, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		out[catalog.ID] = catalog
	}
	return out, nil
}

// Load merges the built-in catalogs with the given files; files win on id clashes.
func Load(files []string) (map[string]domain.Catalog, error) {
	out, err := Builtin()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		catalog, err := LoadFile(f)
		if err != nil {
			return nil, err
		}
		out[catalog.ID] = catalog
	}
	return out, nil
}
