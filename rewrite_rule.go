package behaviorsdk

import (
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// ──────────────────────────────────────────────
// RewriteRule — custom humanization extension point
// ──────────────────────────────────────────────

// RewriteRule is a custom text rewrite applied after the builtin
// humanization rules. Returning an empty string keeps the input unchanged.
// Errors are collected as Warnings on the result, never failing the turn.
type RewriteRule interface {
	Name() string
	Apply(text string) (string, error)
}

// RewriteFunc adapts a plain function into a RewriteRule.
type RewriteFunc struct {
	RuleName string
	Fn       func(text string) (string, error)
}

func (r RewriteFunc) Name() string { return r.RuleName }

func (r RewriteFunc) Apply(text string) (string, error) { return r.Fn(text) }

// LuaRewriteRule runs a Lua script as a rewrite rule. The script must
// define a global function:
//
//	function rewrite(text)
//	    return text:gsub("fintech", "banking app")
//	end
//
// Useful for product teams tuning persona phrasing without recompiling the
// service that embeds the SDK.
type LuaRewriteRule struct {
	name   string
	script string
	mu     sync.Mutex
	state  *lua.LState
}

// NewLuaRewriteRule compiles a Lua rewrite script. The script is loaded
// once; Apply calls the rewrite function per reply.
func NewLuaRewriteRule(name, script string) (*LuaRewriteRule, error) {
	state := lua.NewState()
	if err := state.DoString(script); err != nil {
		state.Close()
		return nil, fmt.Errorf("load rewrite script %q: %w", name, err)
	}
	fn := state.GetGlobal("rewrite")
	if fn.Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("rewrite script %q: global function rewrite(text) not defined", name)
	}
	return &LuaRewriteRule{name: name, script: script, state: state}, nil
}

func (r *LuaRewriteRule) Name() string { return r.name }

// Apply invokes rewrite(text). The Lua state is single-threaded, so calls
// are serialized; a rewrite script is expected to be trivial string work.
func (r *LuaRewriteRule) Apply(text string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		return "", fmt.Errorf("rewrite rule %q: closed", r.name)
	}

	err := r.state.CallByParam(lua.P{
		Fn:      r.state.GetGlobal("rewrite"),
		NRet:    1,
		Protect: true,
	}, lua.LString(text))
	if err != nil {
		return "", fmt.Errorf("rewrite rule %q: %w", r.name, err)
	}
	ret := r.state.Get(-1)
	r.state.Pop(1)

	out, ok := ret.(lua.LString)
	if !ok {
		return "", fmt.Errorf("rewrite rule %q: rewrite() must return a string, got %s", r.name, ret.Type())
	}
	if strings.TrimSpace(string(out)) == "" {
		return "", nil
	}
	return string(out), nil
}

// Close releases the underlying Lua state.
func (r *LuaRewriteRule) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != nil {
		r.state.Close()
		r.state = nil
	}
}
