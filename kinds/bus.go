package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// Bus backs a List value whose items can grow (ListAppender) or be
// truncated back to their literal prefix (ListClearer) at runtime, while
// the literal ListLiteral items stay fixed as its static prefix (spec
// §3.4, §4.4 ListLiteral). StaticItems route in through the compiler at
// build time; dynamic items are appended by Append and always stay
// ordered after the static prefix.
type Bus struct {
	StaticItems []graph.SlotId
	items       []graph.SlotId
	// prefixes[i] is the scope prefix ListAppender.Eval registered items[i]'s
	// clone under (empty for items appended with no live scope, which does
	// not currently happen but keeps the slice index-aligned with items
	// regardless). ClearToStatic and Remove exit these scopes as they drop
	// items, so the orphan-HOLD collector releases a dropped item's HOLDs
	// the same way FilteredView already does for items retain drops (spec
	// §4.5, §8 property 9).
	prefixes []string
}

func (b *Bus) New() types.Kind {
	return &Bus{StaticItems: append([]graph.SlotId(nil), b.StaticItems...)}
}
func (b *Bus) Type() types.KindType { return types.KindBus }
func (b *Bus) Init() error          { return nil }
func (b *Bus) Destroy()             {}

// Remap rewrites the static prefix only: a cloned Bus (a nested list
// literal inside a template item) always starts with an empty dynamic
// tail, same as any other fresh instance (spec §4.4.4 "nested lists
// clone").
func (b *Bus) Remap(f func(graph.SlotId) graph.SlotId) {
	for i := range b.StaticItems {
		b.StaticItems[i] = f(b.StaticItems[i])
	}
}

// ItemSlots returns every item slot currently backing this Bus, static
// prefix first, for collection operators (FilteredView) that
// need per-item identity rather than just the aggregated List value (spec
// §4.4.3, §4.4.4).
func (b *Bus) ItemSlots() []graph.SlotId {
	all := make([]graph.SlotId, 0, len(b.StaticItems)+len(b.items))
	all = append(all, b.StaticItems...)
	all = append(all, b.items...)
	return all
}

func (b *Bus) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	b.recompute(ctx, self)
	return nil
}

func (b *Bus) recompute(ctx types.EvalContext, self graph.SlotId) {
	items := make([]value.Value, 0, len(b.StaticItems)+len(b.items))
	for _, s := range b.StaticItems {
		items = append(items, read(ctx, s))
	}
	for _, s := range b.items {
		items = append(items, read(ctx, s))
	}
	emit(ctx, self, value.FromList(value.NewList(items)))
}

// Append wires a new item slot in after the current dynamic tail and
// recomputes immediately, called by ListAppender during its own Eval
// (spec §4.3 ListAppender). prefix is the scope ListAppender registered
// item's clone under, so a later ClearToStatic or Remove can exit it.
func (b *Bus) Append(ctx types.EvalContext, self graph.SlotId, item graph.SlotId, prefix string) {
	idx := len(b.StaticItems) + len(b.items)
	b.items = append(b.items, item)
	b.prefixes = append(b.prefixes, prefix)
	ctx.Arena().AddRoute(item, self, graph.Input(idx))
	b.recompute(ctx, self)
}

// ClearToStatic drops every dynamically appended item, called by
// ListClearer during its own Eval (spec §4.3 ListClearer).
func (b *Bus) ClearToStatic(ctx types.EvalContext, self graph.SlotId) {
	for i, s := range b.items {
		ctx.Arena().DropSubscriber(s, self, graph.Input(len(b.StaticItems)+i))
		if b.prefixes[i] != "" {
			ctx.ExitScope(b.prefixes[i])
		}
	}
	b.items = nil
	b.prefixes = nil
	b.recompute(ctx, self)
}

// Remove drops the dynamic item at logical index i (0-based within the
// dynamic tail, per spec §9's chosen ListRemover semantics: a no-op out
// of range rather than an error).
func (b *Bus) Remove(ctx types.EvalContext, self graph.SlotId, i int) {
	if i < 0 || i >= len(b.items) {
		return
	}
	if b.prefixes[i] != "" {
		ctx.ExitScope(b.prefixes[i])
	}
	b.items = append(b.items[:i], b.items[i+1:]...)
	b.prefixes = append(b.prefixes[:i], b.prefixes[i+1:]...)
	b.recompute(ctx, self)
}
