package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/derive"
	"github.com/cory-johannsen/swse/internal/game/dice"
	"github.com/cory-johannsen/swse/internal/scripting"
)

const droidAllowList = `
function untrained_override(kind, skill)
  if kind ~= "droid" then return false end
  return skill == "mechanics" or skill == "use_computer"
end
`

func TestUntrainedOverride_NoScriptMeansNotOverridden(t *testing.T) {
	h := scripting.NewHooks(nil, nil, 0)
	defer h.Close()
	assert.False(t, h.UntrainedOverride(character.KindDroid, "mechanics"))
}

func TestUntrainedOverride_ScriptDecides(t *testing.T) {
	h := scripting.NewHooks(nil, nil, 0)
	defer h.Close()
	require.NoError(t, h.LoadString("allow_list", droidAllowList))

	assert.True(t, h.UntrainedOverride(character.KindDroid, "mechanics"))
	assert.False(t, h.UntrainedOverride(character.KindDroid, "persuasion"))
	assert.False(t, h.UntrainedOverride(character.KindCharacter, "mechanics"))
}

func TestUntrainedOverride_WidensDroidSkillsInDerivation(t *testing.T) {
	h := scripting.NewHooks(nil, nil, 0)
	defer h.Close()
	require.NoError(t, h.LoadString("allow_list", droidAllowList))

	droid := &character.Actor{ID: "r2", Name: "R2-D2", Kind: character.KindDroid, Level: 1}
	without := derive.Pass(droid, derive.Rules{})
	with := derive.Pass(droid, derive.Rules{Untrained: h})

	assert.False(t, without.Skills["mechanics"].UsableUntrained)
	assert.True(t, with.Skills["mechanics"].UsableUntrained)
	assert.False(t, with.Skills["knowledge_technology"].UsableUntrained, "trained-only skills stay closed")
}

func TestCallHook_RuntimeErrorIsLoggedNotPropagated(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	h := scripting.NewHooks(nil, zap.New(core), 0)
	defer h.Close()
	require.NoError(t, h.LoadString("broken", `function untrained_override() error("boom") end`))

	assert.False(t, h.UntrainedOverride(character.KindDroid, "mechanics"))
	assert.Equal(t, 1, logs.FilterMessage("scripting: Lua runtime error").Len())
}

func TestCallHook_InstructionBudgetIsPerCall(t *testing.T) {
	h := scripting.NewHooks(nil, nil, 200)
	defer h.Close()
	require.NoError(t, h.LoadString("loop", `
function spin() while true do end end
function cheap(x) return x + 1 end
`))
	_, ok := h.CallHook("spin")
	assert.False(t, ok, "runaway hook is stopped")

	for i := 0; i < 50; i++ {
		ret, ok := h.CallHook("cheap", lua.LNumber(i))
		require.True(t, ok)
		assert.Equal(t, lua.LNumber(i+1), ret)
	}
}

func TestLoadString_InstructionLimitExceeded(t *testing.T) {
	h := scripting.NewHooks(nil, nil, 10)
	defer h.Close()
	assert.Error(t, h.LoadString("loop", `while true do end`))
}

func TestEngineModule(t *testing.T) {
	roller := dice.NewRoller(dice.NewSequence(2), nil)
	h := scripting.NewHooks(roller, nil, 0)
	defer h.Close()
	require.NoError(t, h.LoadString("engine", `
function roll() return engine.roll("2d6+1") end
function bad_roll() return engine.roll("banana") end
function known(id) return engine.skill_exists(id) end
`))
	ret, ok := h.CallHook("roll")
	require.True(t, ok)
	assert.Equal(t, lua.LNumber(7), ret)

	ret, ok = h.CallHook("bad_roll")
	require.True(t, ok)
	assert.Equal(t, lua.LNil, ret)

	ret, _ = h.CallHook("known", lua.LString("use_the_force"))
	assert.Equal(t, lua.LTrue, ret)
	ret, _ = h.CallHook("known", lua.LString("basket_weaving"))
	assert.Equal(t, lua.LFalse, ret)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`allowed = "mechanics"`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`
function untrained_override(kind, skill) return skill == allowed end
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`not lua`), 0644))

	h := scripting.NewHooks(nil, nil, 0)
	defer h.Close()
	require.NoError(t, h.LoadDir(dir))
	assert.True(t, h.UntrainedOverride(character.KindDroid, "mechanics"))

	assert.Error(t, h.LoadDir(filepath.Join(dir, "missing")))
}

func TestProperty_InstructionLimitAlwaysErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 50).Draw(t, "limit")
		h := scripting.NewHooks(nil, nil, limit)
		defer h.Close()
		if err := h.LoadString("loop", `while true do end`); err == nil {
			t.Fatalf("expected error with limit=%d but got nil", limit)
		}
	})
}

func TestLoadDir_BundledScripts(t *testing.T) {
	h := scripting.NewHooks(nil, nil, 0)
	defer h.Close()
	require.NoError(t, h.LoadDir("../../scripts"))
	for _, skill := range []string{"mechanics", "use_computer", "stealth"} {
		assert.False(t, h.UntrainedOverride(character.KindDroid, skill), skill)
	}
	assert.False(t, h.UntrainedOverride(character.KindCharacter, "use_computer"))
}
