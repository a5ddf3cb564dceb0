package runtime

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/BoonLang/boon-sub002/types"
)

// ScriptSideEffects is a types.SideEffectHandler that hands each effect's
// payload to a user-supplied JavaScript function, grounded on
// _examples/bittoy-rule/utils/js's GojaJsEngine: one persistent goja VM,
// the effect handler looked up and invoked by name on every call (spec
// §4.3 Effect, §6.4 — "a host script reacting to RouterGoTo/PersistHold
// and any other Effect kind a program defines").
type ScriptSideEffects struct {
	vm       *goja.Runtime
	funcName string
}

// NewScriptSideEffects compiles script (expected to define a function
// named funcName taking (kind, key, displayValue)) into a fresh VM.
func NewScriptSideEffects(script, funcName string) (*ScriptSideEffects, error) {
	vm := goja.New()
	if _, err := vm.RunString(script); err != nil {
		return nil, fmt.Errorf("compile effect script: %w", err)
	}
	return &ScriptSideEffects{vm: vm, funcName: funcName}, nil
}

func (s *ScriptSideEffects) Handle(effect types.SideEffect) error {
	fn, ok := goja.AssertFunction(s.vm.Get(s.funcName))
	if !ok {
		return errors.New(s.funcName + " is not a function")
	}
	_, err := fn(goja.Undefined(),
		s.vm.ToValue(string(effect.Kind)),
		s.vm.ToValue(effect.Key),
		s.vm.ToValue(effect.Value.Display(nil, nil)),
	)
	return err
}

var _ types.SideEffectHandler = (*ScriptSideEffects)(nil)
