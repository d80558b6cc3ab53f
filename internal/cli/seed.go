package cli

import (
	"context"
	"log"

	"github.com/randomchill-vibes/findthestate/internal/catalogs"
	pgstore "github.com/randomchill-vibes/findthestate/internal/infra/postgres"
	"github.com/spf13/cobra"
)

// NewSeedCmd stores the built-in and configured catalogs in Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert region catalogs into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	all, err := catalogs.Load(cfg.Catalog.Files)
	if err != nil {
		return err
	}
	db, err := openBun(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := pgstore.SeedCatalogs(ctx, db, all); err != nil {
		return err
	}
	log.Printf("seeded %d catalogs", len(all))
	return nil
}
