// Package main applies the actor and reference document schema migrations.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/cory-johannsen/swse/internal/config"
	"github.com/cory-johannsen/swse/internal/observability"
)

func main() {
	began := time.Now()
	configPath := flag.String("config", "configs/dev.yaml", "rulesd configuration file holding the database section")
	dir := flag.String("migrations", "migrations", "directory of golang-migrate *.sql files")
	direction := flag.String("direction", "up", "up or down")
	steps := flag.Int("steps", 0, "limit to this many migrations; 0 applies all")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging, "migrate")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	apply, err := plan(*direction, *steps)
	if err != nil {
		logger.Fatal("bad flags", zap.Error(err))
	}

	m, err := migrate.New("file://"+*dir, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("opening migrations", zap.String("dir", *dir), zap.Error(err))
	}
	defer m.Close()

	err = apply(m)
	unchanged := errors.Is(err, migrate.ErrNoChange)
	if err != nil && !unchanged {
		logger.Fatal("migration failed", zap.String("direction", *direction), zap.Error(err))
	}
	version, dirty, _ := m.Version()
	logger.Info("schema migrated",
		zap.String("direction", *direction),
		zap.Bool("changed", !unchanged),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
		zap.Duration("elapsed", time.Since(began)),
	)
}

// plan turns the direction and step flags into one migrate call.
func plan(direction string, steps int) (func(*migrate.Migrate) error, error) {
	if steps < 0 {
		return nil, fmt.Errorf("-steps must be >= 0, got %d", steps)
	}
	switch direction {
	case "up":
		if steps == 0 {
			return (*migrate.Migrate).Up, nil
		}
		return func(m *migrate.Migrate) error { return m.Steps(steps) }, nil
	case "down":
		if steps == 0 {
			return (*migrate.Migrate).Down, nil
		}
		return func(m *migrate.Migrate) error { return m.Steps(-steps) }, nil
	}
	return nil, fmt.Errorf("-direction must be up or down, got %q", direction)
}
