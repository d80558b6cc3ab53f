package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/randomchill-vibes/findthestate/internal/app"
	"github.com/randomchill-vibes/findthestate/internal/catalogs"
	"github.com/randomchill-vibes/findthestate/internal/config"
	"github.com/randomchill-vibes/findthestate/internal/infra/memory"
	pgloader "github.com/randomchill-vibes/findthestate/internal/infra/postgres"
	redisstore "github.com/randomchill-vibes/findthestate/internal/infra/redis"
	transport "github.com/randomchill-vibes/findthestate/internal/transport/http"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	builtin, err := catalogs.Load(cfg.Catalog.Files)
	if err != nil {
		return err
	}
	static := memory.NewStaticCatalogLoader(builtin)
	catalogIDs := static.IDs()

	var loader memory.CatalogLoader = static
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		pg := pgloader.NewCatalogLoader(pool)
		stored, err := pg.ListCatalogIDs(ctx)
		if err != nil {
			return err
		}
		catalogIDs = mergeIDs(catalogIDs, stored)
		loader = memory.NewChainLoader(pg, static)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	catalogTTL := config.Duration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogRepo app.CatalogRepository
	if redisClient != nil {
		catalogRepo = redisstore.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalogRepo = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, config.Duration(cfg.Redis.TTL, 2*time.Hour))
	} else {
		store = memory.NewSessionStore()
	}

	service := app.NewGameService(store, catalogRepo, engineConfig(cfg))
	defaultCatalog := cfg.Catalog.Default
	if defaultCatalog == "" {
		defaultCatalog = catalogs.DefaultID
	}
	router := transport.NewRouter(
		transport.NewWSHandler(service, defaultCatalog),
		transport.NewCatalogHandler(catalogRepo, catalogIDs),
	)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s (catalogs: %v)", finalPort, catalogIDs)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func engineConfig(cfg config.Config) app.EngineConfig {
	return app.EngineConfig{
		TickInterval:   config.Duration(cfg.Game.TickInterval, 100*time.Millisecond),
		CorrectSettle:  config.Duration(cfg.Game.CorrectSettle, 500*time.Millisecond),
		IncorrectClear: config.Duration(cfg.Game.IncorrectClear, time.Second),
	}
}

func mergeIDs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, id := range append(append([]string{}, a...), b...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
