package catalogs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/randomchill-vibes/findthestate/internal/domain"
)

func TestBuiltinUSA(t *testing.T) {
	all, err := Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	usa, ok := all[DefaultID]
	if !ok {
		t.Fatalf("expected %s catalog", DefaultID)
	}
	if usa.Len() != 50 {
		t.Fatalf("expected 50 states, got %d", usa.Len())
	}
	if name, _ := usa.Name("NY"); name != "New York" {
		t.Fatalf("expected New York, got %q", name)
	}
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	if _, err := Parse([]byte("id: empty\nregions: {}\n")); !errors.Is(err, domain.ErrCatalogEmpty) {
		t.Fatalf("expected empty catalog error, got %v", err)
	}
	if _, err := Parse([]byte("id: blank\nregions:\n  CA: \"\"\n")); !errors.Is(err, domain.ErrInvalidRegion) {
		t.Fatalf("expected invalid region error, got %v", err)
	}
	if _, err := Parse([]byte("regions:\n  CA: California\n")); err == nil {
		t.Fatalf("expected missing id error")
	}
	if _, err := Parse([]byte("regions: [")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadMergesFiles(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "west.yaml")
	if err := os.WriteFile(p, []byte("id: west\ntitle: West Coast\nregions:\n  CA: California\n  OR: Oregon\n  WA: Washington\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	all, err := Load([]string{p})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := all[DefaultID]; !ok {
		t.Fatalf("expected builtin catalog to survive merge")
	}
	if west := all["west"]; west.Len() != 3 || west.Title != "West Coast" {
		t.Fatalf("unexpected west catalog %+v", west)
	}

	if _, err := Load([]string{filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
