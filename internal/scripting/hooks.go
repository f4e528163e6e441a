package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/swse/internal/game/character"
	"github.com/cory-johannsen/swse/internal/game/derive"
	"github.com/cory-johannsen/swse/internal/game/dice"
)

// UntrainedOverrideHook is the Lua global consulted by UntrainedOverride.
// It receives (kind, skill) and returns true to allow untrained use.
const UntrainedOverrideHook = "untrained_override"

// Hooks owns one sandboxed LState holding every loaded rule script.
//
// Hooks is safe for concurrent use; calls into the VM are serialized.
type Hooks struct {
	mu        sync.Mutex
	vm        *lua.LState
	instLimit int
	roller    *dice.Roller
	skills    map[string]derive.SkillDef
	logger    *zap.Logger
}

// NewHooks creates a Hooks with an empty VM.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit. roller may
// be nil, in which case engine.roll returns nil.
// Postcondition: Returns a non-nil Hooks; UntrainedOverride returns false
// until a script defines the hook.
func NewHooks(roller *dice.Roller, logger *zap.Logger, instLimit int) *Hooks {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hooks{
		vm:        NewSandbox(),
		instLimit: instLimit,
		roller:    roller,
		skills:    derive.Skills(),
		logger:    logger,
	}
	h.registerModules(h.vm)
	return h
}

// LoadDir executes every *.lua file in dir in lexicographic order. Each file
// gets its own instruction budget.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns the first read or Lua load error.
func (h *Hooks) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := h.LoadString(path, ""); err != nil {
			return err
		}
	}
	h.logger.Info("rule scripts loaded", zap.String("dir", dir), zap.Int("files", len(luaFiles)))
	return nil
}

// LoadString executes src, or the file at name when src is empty.
func (h *Hooks) LoadString(name, src string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	err := runLimited(h.vm, h.instLimit, func() error {
		if src == "" {
			return h.vm.DoFile(name)
		}
		return h.vm.DoString(src)
	})
	if err != nil {
		return fmt.Errorf("scripting: loading %q: %w", name, err)
	}
	return nil
}

// CallHook calls the named Lua global with args under a fresh instruction
// budget. Returns (LNil, false) if the hook is not defined. Lua runtime
// errors are logged at Warn level and reported as (LNil, false).
//
// Postcondition: Returns the first return value of the hook.
func (h *Hooks) CallHook(hook string, args ...lua.LValue) (lua.LValue, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	fn := h.vm.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, false
	}
	err := runLimited(h.vm, h.instLimit, func() error {
		return h.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	})
	if err != nil {
		h.logger.Warn("scripting: Lua runtime error", zap.String("hook", hook), zap.Error(err))
		return lua.LNil, false
	}
	ret := h.vm.Get(-1)
	h.vm.Pop(1)
	return ret, true
}

// UntrainedOverride implements derive.UntrainedOverrider by calling the Lua
// untrained_override hook. A missing hook, a failing hook, or any non-true
// return value means "not overridden".
func (h *Hooks) UntrainedOverride(kind character.Kind, skill string) bool {
	ret, ok := h.CallHook(UntrainedOverrideHook, lua.LString(kind), lua.LString(skill))
	return ok && ret == lua.LTrue
}

// Close releases the VM.
func (h *Hooks) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.vm.Close()
}

var _ derive.UntrainedOverrider = (*Hooks)(nil)
