package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/swse/internal/config"
	"github.com/cory-johannsen/swse/internal/game/traits"
)

func TestProvideRules_UsesResidentSpeciesRegistry(t *testing.T) {
	var cfg config.Config
	cfg.Content.Dir = "../../content"
	species, err := provideSpecies(cfg)
	require.NoError(t, err)
	statuses, err := provideStatuses(cfg)
	require.NoError(t, err)

	rules := provideRules(cfg, statuses, nil, species)
	reg, ok := rules.Species.(*traits.Registry)
	require.True(t, ok)
	assert.Same(t, species, reg)
	assert.Same(t, statuses, rules.Statuses)
}
