package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
)

// Register implements `initial |> HOLD state { body }` (spec §4.3,
// §4.4.1). Its Output port holds the current state, seeded from Initial
// the first time it is evaluated (or from a restored persisted value,
// which the compiler/runtime writes directly into the slot before that
// first Eval). Its Input(0) port receives the HOLD's own recomputation
// trigger: Body reads the register's current value from this slot itself
// (the compiler binds the state name to it, with no route from it)
// rather than a route back to Register, so evaluating Body can never
// re-dirty Register and create a cycle (spec §4.4.1 compile note).
type Register struct {
	Initial    graph.SlotId
	Body       graph.SlotId
	PersistKey string
}

func (r *Register) New() types.Kind {
	return &Register{Initial: r.Initial, Body: r.Body, PersistKey: r.PersistKey}
}
func (r *Register) Type() types.KindType { return types.KindRegister }
func (r *Register) Init() error          { return nil }
func (r *Register) Destroy()             {}

func (r *Register) Remap(f func(graph.SlotId) graph.SlotId) {
	r.Initial, r.Body = f(r.Initial), f(r.Body)
}

func (r *Register) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	if port == graph.Output {
		if _, has := ctx.CurrentValue(self); !has {
			emit(ctx, self, read(ctx, r.Initial))
		}
		return nil
	}

	newVal := read(ctx, r.Body)
	changed := ctx.Arena().SetValue(self, newVal)
	if changed && r.PersistKey != "" {
		ctx.PublishEffect(types.SideEffect{Kind: types.EffectPersistHold, Key: r.PersistKey, Value: newVal})
	}
	propagate(ctx, self, changed)
	return nil
}
