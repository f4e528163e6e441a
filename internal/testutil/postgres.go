// Package testutil starts throwaway PostgreSQL databases for repository tests.
package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/swse/internal/config"
	"github.com/cory-johannsen/swse/internal/storage/postgres"
)

const (
	pgImage    = "postgres:16-alpine"
	pgUser     = "swse"
	pgPassword = "swse"
	pgDatabase = "swse_test"
)

// Database is a migrated PostgreSQL container scoped to one test.
type Database struct {
	Pool   *postgres.Pool
	Config config.DatabaseConfig
}

// NewDatabase starts a container, applies every migration with the same
// golang-migrate path cmd/migrate uses, and opens a Pool. Everything is torn
// down with the test. Tests are skipped under -short since they need Docker.
func NewDatabase(t *testing.T) *Database {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests need docker; skipped in -short mode")
	}
	ctx := context.Background()
	began := time.Now()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(45 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting %s: %v", pgImage, err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	cfg := config.DatabaseConfig{
		Host: host, Port: port.Int(),
		User: pgUser, Password: pgPassword, Name: pgDatabase,
		SSLMode:  "disable",
		MaxConns: 4, MinConns: 1,
		MaxConnLifetime: time.Minute,
	}

	migrateUp(t, cfg)

	pool, err := postgres.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("opening pool: %v", err)
	}
	t.Cleanup(pool.Close)
	t.Logf("postgres ready in %s", time.Since(began).Round(time.Millisecond))
	return &Database{Pool: pool, Config: cfg}
}

// NewPool is NewDatabase for tests that only need the pgx pool.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	return NewDatabase(t).Pool.DB()
}

func migrateUp(t *testing.T, cfg config.DatabaseConfig) {
	t.Helper()
	m, err := migrate.New("file://"+migrationsDir(t), cfg.DSN())
	if err != nil {
		t.Fatalf("loading migrations: %v", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("applying migrations: %v", err)
	}
}

// migrationsDir locates <module root>/migrations from the test's directory.
func migrationsDir(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations")
		}
		up := filepath.Dir(dir)
		if up == dir {
			t.Fatal("module root not found")
		}
		dir = up
	}
}
