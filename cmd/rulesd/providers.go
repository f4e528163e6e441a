package main

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/cory-johannsen/swse/internal/compendium"
	"github.com/cory-johannsen/swse/internal/config"
	"github.com/cory-johannsen/swse/internal/game/condition"
	"github.com/cory-johannsen/swse/internal/game/derive"
	"github.com/cory-johannsen/swse/internal/game/dice"
	"github.com/cory-johannsen/swse/internal/game/inventory"
	"github.com/cory-johannsen/swse/internal/game/ruleset"
	"github.com/cory-johannsen/swse/internal/game/traits"
	"github.com/cory-johannsen/swse/internal/game/upgrade"
	"github.com/cory-johannsen/swse/internal/observability"
	"github.com/cory-johannsen/swse/internal/rulesserver"
	"github.com/cory-johannsen/swse/internal/scripting"
	"github.com/cory-johannsen/swse/internal/storage"
	"github.com/cory-johannsen/swse/internal/storage/memory"
	"github.com/cory-johannsen/swse/internal/storage/postgres"
)

// App is the assembled daemon.
type App struct {
	Server *grpc.Server
	Health *health.Server
	// Pool is nil when actors are kept in memory.
	Pool *postgres.Pool
}

// Backend holds the storage selected by rpc.storage.
type Backend struct {
	Actors    storage.ActorRepository
	Documents *postgres.DocumentRepository
	Pool      *postgres.Pool
}

func provideContent(cfg config.Config) (*ruleset.Registry, error) {
	return ruleset.LoadRegistry(cfg.Content.Dir)
}

func provideItems(cfg config.Config) (*inventory.Registry, error) {
	return inventory.LoadRegistry(cfg.Content.Dir)
}

func provideSpecies(cfg config.Config) (*traits.Registry, error) {
	return traits.LoadRegistry(filepath.Join(cfg.Content.Dir, "species_rules"))
}

// provideStatuses falls back to the built-in statuses when the content tree
// has no statuses directory.
func provideStatuses(cfg config.Config) (*condition.Registry, error) {
	return condition.LoadOrDefault(filepath.Join(cfg.Content.Dir, "statuses"))
}

func provideBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Backend, func(), error) {
	if cfg.RPC.Storage != config.StoragePostgres {
		logger.Info("using in-memory actor store")
		return &Backend{Actors: memory.NewStore()}, func() {}, nil
	}
	pool, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	logger.Info("connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("name", cfg.Database.Name),
	)
	return &Backend{
		Actors:    postgres.NewActorRepository(pool.DB()),
		Documents: postgres.NewDocumentRepository(pool.DB()),
		Pool:      pool,
	}, pool.Close, nil
}

// provideCompendium serves reference data from PostgreSQL when available,
// publishing the content directory into it first, and from the content
// registries otherwise.
func provideCompendium(ctx context.Context, cfg config.Config, backend *Backend, items *inventory.Registry, species *traits.Registry, logger *zap.Logger) (*compendium.Client, error) {
	log := observability.Component(logger, "compendium")
	var src compendium.Source = compendium.NewRegistrySource(items, species)
	if backend.Documents != nil {
		n, err := compendium.Publish(ctx, backend.Documents, src,
			compendium.PackUpgrades, compendium.PackGear, compendium.PackSpecies)
		if err != nil {
			return nil, fmt.Errorf("publishing reference documents: %w", err)
		}
		log.Info("reference documents published", zap.Int("count", n))
		src = backend.Documents
	}
	return compendium.NewClient(src, cfg.Cache, log), nil
}

func provideRoller(logger *zap.Logger) *dice.Roller {
	return dice.NewRoller(dice.NewCryptoSource(), observability.Component(logger, "dice"))
}

func provideHooks(cfg config.Config, roller *dice.Roller, logger *zap.Logger) (*scripting.Hooks, func(), error) {
	h := scripting.NewHooks(roller, observability.Component(logger, "scripting"), cfg.Scripting.InstructionLimit)
	if cfg.Scripting.Dir != "" {
		if err := h.LoadDir(cfg.Scripting.Dir); err != nil {
			h.Close()
			return nil, nil, err
		}
	}
	return h, h.Close, nil
}

// provideRules binds the derivation pass to resident registries only.
func provideRules(cfg config.Config, statuses *condition.Registry, hooks *scripting.Hooks, species *traits.Registry) derive.Rules {
	return derive.Rules{
		DailyForcePoints: cfg.Rules.DailyForcePoints,
		Statuses:         statuses,
		Untrained:        hooks,
		Species:          species,
	}
}

func provideInstaller(cfg config.Config, backend *Backend, logger *zap.Logger) *upgrade.Installer {
	engine := upgrade.NewEngine(upgrade.SlotPolicy(cfg.Rules.SlotPolicy), cfg.Rules.PoweredArmorSlots)
	return upgrade.NewInstaller(engine, backend.Actors, observability.Component(logger, "upgrade"))
}

func provideService(backend *Backend, installer *upgrade.Installer, docs *compendium.Client, content *ruleset.Registry, rules derive.Rules, roller *dice.Roller, logger *zap.Logger) *rulesserver.Service {
	return rulesserver.NewService(backend.Actors, installer, docs, content, rules, roller, observability.Component(logger, "rpc"))
}

func provideApp(svc *rulesserver.Service, backend *Backend, logger *zap.Logger) *App {
	srv, hs := rulesserver.NewGRPCServer(svc, observability.Component(logger, "rpc"))
	return &App{Server: srv, Health: hs, Pool: backend.Pool}
}
