//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/swse/internal/config"
)

func initializeApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		provideContent,
		provideItems,
		provideSpecies,
		provideStatuses,
		provideBackend,
		provideCompendium,
		provideRoller,
		provideHooks,
		provideRules,
		provideInstaller,
		provideService,
		provideApp,
	)
	return nil, nil, nil
}
