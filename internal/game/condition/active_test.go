package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/swse/internal/game/condition"
)

func flatFooted() *condition.StatusDef {
	return &condition.StatusDef{ID: "flat_footed", Name: "Flat-Footed", DurationType: "rounds", DeniesDexToReflex: true}
}

func stunned() *condition.StatusDef {
	return &condition.StatusDef{ID: "stunned", Name: "Stunned", DurationType: "rounds"}
}

func TestActiveSet_Apply_NilDef(t *testing.T) {
	s := condition.NewActiveSet()
	assert.Error(t, s.Apply(nil, 1))
}

func TestActiveSet_TickExpiresRounds(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stunned(), 1))
	expired := s.Tick()
	assert.Equal(t, []string{"stunned"}, expired)
	assert.False(t, s.Has("stunned"))
}

func TestActiveSet_ReapplyExtendsDuration(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stunned(), 1))
	require.NoError(t, s.Apply(stunned(), 3))
	assert.Empty(t, s.Tick())
	assert.True(t, s.Has("stunned"))
}

func TestActiveSet_PermanentSurvivesTick(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(flatFooted(), -1))
	assert.Empty(t, s.Tick())
	assert.True(t, s.Has("flat_footed"))
}

func TestActiveSet_DeniesDexToReflex(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply(stunned(), 2))
	assert.False(t, s.DeniesDexToReflex())
	require.NoError(t, s.Apply(flatFooted(), 1))
	assert.True(t, s.DeniesDexToReflex())
	s.Remove("flat_footed")
	assert.False(t, s.DeniesDexToReflex())
}

func TestFromIDs_ReportsUnknown(t *testing.T) {
	s, unknown := condition.FromIDs(condition.DefaultRegistry(), []string{"helpless", "on_fire"})
	assert.True(t, s.Has("helpless"))
	assert.Equal(t, []string{"on_fire"}, unknown)
	assert.Equal(t, 1, s.Len())
}

func TestActiveSet_IDsSorted(t *testing.T) {
	s, _ := condition.FromIDs(condition.DefaultRegistry(), []string{"stunned", "flat_footed"})
	assert.Equal(t, []string{"flat_footed", "stunned"}, s.IDs())
	assert.Nil(t, condition.NewActiveSet().IDs())
}
