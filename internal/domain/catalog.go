package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog maps region codes to display names. It is immutable once handed to an engine.
type Catalog struct {
	ID      string            `json:"id" yaml:"id"`
	Title   string            `json:"title" yaml:"title"`
	Regions map[string]string `json:"regions" yaml:"regions"`
}

// Name returns the display name for a region code.
func (c Catalog) Name(code string) (string, bool) {
	name, ok := c.Regions[code]
	return name, ok
}

// Codes returns every region code in lexical order.
func (c Catalog) Codes() []string {
	codes := make([]string, 0, len(c.Regions))
	for code := range c.Regions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len is the number of regions.
func (c Catalog) Len() int {
	return len(c.Regions)
}

// Validate checks the catalog is usable for a game.
func (c Catalog) Validate() error {
	if len(c.Regions) == 0 {
		return fmt.Errorf("catalog %q: %w", c.ID, ErrCatalogEmpty)
	}
	for code, name := range c.Regions {
		if strings.TrimSpace(code) == "" || strings.TrimSpace(name) == "" {
			return fmt.Errorf("catalog %q region %q: %w", c.ID, code, ErrInvalidRegion)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate a shared region map.
func (c Catalog) Clone() Catalog {
	regions := make(map[string]string, len(c.Regions))
	for code, name := range c.Regions {
		regions[code] = name
	}
	return Catalog{ID: c.ID, Title: c.Title, Regions: regions}
}
