package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
)

// Effect publishes a side-effect record carrying Input's current value
// every time it changes, then forwards the same value to its own Output
// so effect pipelines can still be chained (spec §4.3, §4.5, §6.4).
type Effect struct {
	Input      graph.SlotId
	EffectType types.EffectKind
	Key        string
}

func (e *Effect) New() types.Kind {
	return &Effect{Input: e.Input, EffectType: e.EffectType, Key: e.Key}
}
func (e *Effect) Type() types.KindType { return types.KindEffect }
func (e *Effect) Init() error          { return nil }
func (e *Effect) Destroy()             {}

func (e *Effect) Remap(f func(graph.SlotId) graph.SlotId) { e.Input = f(e.Input) }

func (e *Effect) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	v := read(ctx, e.Input)
	ctx.PublishEffect(types.SideEffect{Kind: e.EffectType, Key: e.Key, Value: v})
	emit(ctx, self, v)
	return nil
}
