package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// propagate marks every subscriber of self dirty when the node's cached
// value actually changed, implementing the "no tick on an unchanged
// write" invariant (spec §8 invariant 6) uniformly across kinds.
func propagate(ctx types.EvalContext, self graph.SlotId, changed bool) {
	if !changed {
		return
	}
	for _, r := range ctx.Arena().Subscribers(self) {
		ctx.MarkDirty(r.Destination, r.Port)
	}
}

// emit writes v to self and propagates to subscribers iff it changed.
func emit(ctx types.EvalContext, self graph.SlotId, v value.Value) {
	changed := ctx.Arena().SetValue(self, v)
	propagate(ctx, self, changed)
}

// read is a small convenience over ctx.CurrentValue that returns Unit for
// an unwritten slot rather than forcing every call site to check ok.
func read(ctx types.EvalContext, id graph.SlotId) value.Value {
	v, ok := ctx.CurrentValue(id)
	if !ok {
		return value.Unit()
	}
	return v
}
