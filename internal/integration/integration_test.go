package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/randomchill-vibes/findthestate/internal/app"
	"github.com/randomchill-vibes/findthestate/internal/domain"
	pgloader "github.com/randomchill-vibes/findthestate/internal/infra/postgres"
	pgmigrations "github.com/randomchill-vibes/findthestate/internal/infra/postgres/migrations"
	infraredis "github.com/randomchill-vibes/findthestate/internal/infra/redis"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestGameEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedCatalog(t, ctx, pgURL, sampleCatalog())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewCatalogLoader(pool)
	ids, err := loader.ListCatalogIDs(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "test" {
		t.Fatalf("expected seeded catalog id, got %v (err %v)", ids, err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	catalogRepo := infraredis.NewCatalogRepository(redisClient, loader, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewGameService(sessionStore, catalogRepo, app.EngineConfig{})

	if _, _, err := service.Open(ctx, "missing", summaryRenderer{}); !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Fatalf("expected catalog not found, got %v", err)
	}

	render := summaryRenderer{summaries: make(chan domain.Summary, 1)}
	id, view, err := service.Open(ctx, "test", render)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer service.Close(ctx, id)
	if view.MaxScore != 2 {
		t.Fatalf("expected max score 2 before start, got %d", view.MaxScore)
	}

	if ok, err := service.Start(ctx, id, domain.Options{KeepHighlightOnCorrect: false}); err != nil || !ok {
		t.Fatalf("start: ok=%v err=%v", ok, err)
	}
	for {
		st, err := service.State(ctx, id)
		if err != nil {
			t.Fatalf("state: %v", err)
		}
		if !st.Active() {
			break
		}
		if _, err := service.Click(ctx, id, st.CurrentRegion); err != nil {
			t.Fatalf("click: %v", err)
		}
	}

	select {
	case sum := <-render.summaries:
		if sum.ScoreText() != "4 / 4" {
			t.Fatalf("expected 4 / 4, got %s", sum.ScoreText())
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no summary received")
	}

	exists, err := redisClient.Exists(ctx, "catalog:test:regions", "game:session:"+id).Result()
	if err != nil || exists != 2 {
		t.Fatalf("expected cached catalog and session marker, got %d (err %v)", exists, err)
	}
}

type summaryRenderer struct {
	summaries chan domain.Summary
}

func (summaryRenderer) Render(domain.View) {}
func (summaryRenderer) Highlight(domain.Highlight) {}
func (summaryRenderer) Tick(string) {}

func (r summaryRenderer) GameOver(s domain.Summary) {
	if r.summaries != nil {
		r.summaries <- s
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "geo", "POSTGRES_PASSWORD": "geopass", "POSTGRES_DB": "findthestate"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://geo:geopass@%s:%s/findthestate?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedCatalog(t *testing.T, ctx context.Context, dsn string, catalog domain.Catalog) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := pgloader.SeedCatalogs(ctx, db, map[string]domain.Catalog{catalog.ID: catalog}); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		ID:      "test",
		Title:   "Two states",
		Regions: map[string]string{"CA": "California", "NY": "New York"},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
