// Package scripting runs sandboxed GopherLua rule hooks. Hooks let a table
// adjust rulings the engine leaves open, such as which skills a droid may
// use untrained, without code changes.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget of one hook call or script
// load when scripting.instruction_limit is unset.
const DefaultInstructionLimit = 100_000

// Libraries a rule script may use. Everything else, os and io included, is
// never opened.
var openers = []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath}

// Base-library globals that reach the filesystem, the collector or other
// chunks.
var blockedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "collectgarbage", "require", "module"}

// budget is a context whose Done counts opcodes. GopherLua polls Done once
// per instruction while a context is attached, so exhausting the counter
// stops the VM at the next instruction boundary.
type budget struct {
	context.Context
	left   atomic.Int64
	cancel context.CancelFunc
}

func (b *budget) Done() <-chan struct{} {
	if b.left.Add(-1) < 0 {
		b.cancel()
	}
	return b.Context.Done()
}

// NewSandbox returns a Lua state limited to the base, table, string and math
// libraries with blockedGlobals cleared. Attach a budget with runLimited
// before running untrusted code; the caller closes the state.
func NewSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range openers {
		open(L)
	}
	for _, g := range blockedGlobals {
		L.SetGlobal(g, lua.LNil)
	}
	return L
}

// runLimited attaches a fresh budget of limit opcodes to L for the duration
// of fn. limit <= 0 means DefaultInstructionLimit.
func runLimited(L *lua.LState, limit int, fn func() error) error {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := &budget{Context: ctx, cancel: cancel}
	b.left.Store(int64(limit))

	L.SetContext(b)
	defer L.RemoveContext()
	return fn()
}
