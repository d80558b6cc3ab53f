package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/randomchill-vibes/findthestate/internal/domain"
	"github.com/uptrace/bun"
)

// SeedCatalogs upserts catalogs as JSONB rows.
func SeedCatalogs(ctx context.Context, db *bun.DB, catalogs map[string]domain.Catalog) error {
	for id, catalog := range catalogs {
		data, err := json.Marshal(catalog)
		if err != nil {
			return fmt.Errorf("marshal catalog %q: %w", id, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO catalogs (id, data) VALUES (?, ?::jsonb)
			 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
			id, string(data)); err != nil {
			return fmt.Errorf("upsert catalog %q: %w", id, err)
		}
	}
	return nil
}
