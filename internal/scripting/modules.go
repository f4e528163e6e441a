package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// registerModules installs the engine table into L:
//
//	engine.log(msg)          logs msg at info level
//	engine.roll(expr)        rolls a dice expression, returning the total or nil
//	engine.skill_exists(id)  reports whether id names a skill
func (h *Hooks) registerModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		h.logger.Info("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetField(engine, "roll", L.NewFunction(func(L *lua.LState) int {
		if h.roller == nil {
			L.Push(lua.LNil)
			return 1
		}
		res, err := h.roller.RollExpr(L.CheckString(1))
		if err != nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(res.Total()))
		return 1
	}))
	L.SetField(engine, "skill_exists", L.NewFunction(func(L *lua.LState) int {
		_, ok := h.skills[L.CheckString(1)]
		L.Push(lua.LBool(ok))
		return 1
	}))
	L.SetGlobal("engine", engine)
}
