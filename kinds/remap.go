package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
)

// CloneTemplate instantiates one fresh copy of t against source, the real
// slot the clone's entry point should read (spec §4.4.4). It allocates a
// fresh slot for every node t captured, copies each node's Kind via
// New()+Remap under the resulting old->new map, replays the template's
// internal routes and initial kicks, registers each of its HOLDs under a
// prefix-scoped id distinct from every other clone's, and marks prefix
// active for orphan collection (spec §4.4.3 item identity, §8 properties
// 8-9, §4.5 EnterScope/ExitScope).
//
// When live is true the clone's entry slot gets a standing route from
// source, so it keeps tracking source's value as it changes (List/retain:
// "item" stays bound to the item's own slot). When live is false the entry
// slot instead gets one snapshot of source's current value (List/append:
// the template's input "carries the trigger value" exactly once, at the
// moment of the append — the new item's own internal state, not the
// trigger, drives it from then on).
func CloneTemplate(ctx types.EvalContext, t *types.Template, source graph.SlotId, prefix string, live bool) graph.SlotId {
	remap := make(map[graph.SlotId]graph.SlotId, len(t.Nodes))
	for _, old := range t.Nodes {
		remap[old] = ctx.Alloc()
	}
	f := func(id graph.SlotId) graph.SlotId {
		if n, ok := remap[id]; ok {
			return n
		}
		return id
	}

	for _, old := range t.Nodes {
		newSlot := remap[old]
		if old == t.Input {
			ctx.Arena().SetKind(newSlot, &Wire{})
			continue
		}
		oldKind, ok := ctx.Arena().Get(old).Kind.(types.Kind)
		if !ok {
			continue
		}
		clone := oldKind.New()
		clone.Remap(f)
		ctx.Arena().SetKind(newSlot, clone)
	}

	for _, r := range t.Routes {
		ctx.Arena().AddRoute(f(r.Src), f(r.Dst), r.Port)
	}

	entry := remap[t.Input]
	if live {
		// The clone keeps tracking source as it changes: a real Wire, with
		// a standing route so future changes mark entry dirty.
		ctx.Arena().SetKind(entry, &Wire{Input: source})
		ctx.Arena().AddRoute(source, entry, graph.Output)
		ctx.MarkDirty(entry, graph.Output)
	} else {
		// One snapshot of source's current value; nothing should ever
		// dirty entry again, but give it a harmless self-loop instead of
		// an unset Input in case it somehow does.
		ctx.Arena().SetKind(entry, &Wire{Input: entry})
		emit(ctx, entry, read(ctx, source))
	}

	ctx.EnterScope(prefix)
	for _, h := range t.Holds {
		key := prefix + ":" + h.Id
		persistKey := h.PersistKey
		if persistKey != "" {
			persistKey = prefix + ":" + persistKey
		}
		ctx.RegisterHold(key, f(h.Slot), persistKey)
	}

	for _, k := range t.Kicks {
		ctx.MarkDirty(f(k), graph.Output)
	}

	return remap[t.Output]
}
