package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
)

// LinkResolver forwards the value of a Target slot that is bound after
// construction: until Resolve is called it emits nothing, and afterwards
// it behaves like Wire. No compiler path allocates it (LinkAlias compiles
// to an Extractor) and nothing in the module calls Resolve. Each Resolve
// call adds another route from target to self.
type LinkResolver struct {
	Target  graph.SlotId
	resolved bool
}

func (l *LinkResolver) New() types.Kind      { return &LinkResolver{} }
func (l *LinkResolver) Type() types.KindType { return types.KindLinkResolver }
func (l *LinkResolver) Init() error          { return nil }
func (l *LinkResolver) Destroy()             {}

// Remap is a no-op: Target is bound only by Resolve, and New() returns an
// unresolved instance, so there is nothing to rewrite.
func (l *LinkResolver) Remap(func(graph.SlotId) graph.SlotId) {}

// Resolve binds the slot LinkResolver forwards from. Calling it wires a
// route from target to self so future changes dirty this node.
func (l *LinkResolver) Resolve(ctx types.EvalContext, self, target graph.SlotId) {
	l.Target = target
	l.resolved = true
	ctx.Arena().AddRoute(target, self, graph.Output)
	ctx.MarkDirty(self, graph.Output)
}

func (l *LinkResolver) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	if !l.resolved {
		return nil
	}
	emit(ctx, self, read(ctx, l.Target))
	return nil
}
