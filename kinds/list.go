package kinds

import (
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// newScopePrefix derives a clone's scope prefix from a fresh UUIDv4 rather
// than a counter, so prefixes stay globally distinct across a HOLD store
// restart (a counter restarting at 1 could collide with a persisted key
// from the prior run; spec §4.4.4 item identity, §8 property 8 distinct
// ItemKeys), the same way _examples/bittoy-rule/types/msg.go derives each
// Msg's Id from uuid.NewV4.
func newScopePrefix(kind string, self graph.SlotId) string {
	id, err := uuid.NewV4()
	if err != nil {
		id = uuid.Nil
	}
	return fmt.Sprintf("%s%d_%s", kind, self, id)
}

// ListMapper re-applies Fn to every item of Input's current list value on
// each change, dropping items for which Fn reports ok=false — the
// compiled form of a list-producing pipe whose body can SKIP an item
// (spec §4.3, §4.4 collection operators "map"). Fn is a pure,
// compiler-supplied closure over the per-item body rather than a cloned
// per-item subgraph (spec §4.4.4 describes the general per-item template
// clone; ListMapper takes the pure-function special case of it, which
// covers every item body that does not itself hold state or LINK — a body
// that does needs List/retain's template-clone machinery instead, and is
// out of scope for List/map in this pass).
type ListMapper struct {
	Input graph.SlotId
	Fn    func(value.Value) (value.Value, bool)
}

func (m *ListMapper) New() types.Kind      { return &ListMapper{Input: m.Input, Fn: m.Fn} }
func (m *ListMapper) Type() types.KindType { return types.KindListMapper }
func (m *ListMapper) Init() error          { return nil }
func (m *ListMapper) Destroy()             {}
func (m *ListMapper) Remap(f func(graph.SlotId) graph.SlotId) {
	m.Input = f(m.Input)
}

func (m *ListMapper) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	list, ok := read(ctx, m.Input).AsList()
	if !ok {
		emit(ctx, self, value.FromList(value.NewList(nil)))
		return nil
	}
	out := make([]value.Value, 0, list.Len())
	for _, item := range list.Items() {
		if mapped, keep := m.Fn(item); keep {
			out = append(out, mapped)
		}
	}
	emit(ctx, self, value.FromList(value.NewList(out)))
	return nil
}

// retainClone tracks one item's instantiated condition template (spec
// §4.4.4, §8 property 8: distinct ItemKeys get disjoint scope prefixes).
type retainClone struct {
	cond   graph.SlotId
	prefix string
}

// FilteredView keeps only the items of Source's current Bus for which a
// per-item clone of Template evaluates truthy, re-deriving membership
// whenever Source's item set or any clone's condition output changes
// (spec §4.3, §4.4 "retain"). Each live item gets its own clone of
// Template, bound live to that item's own slot (not a snapshot: an item's
// own internal HOLD state can change which way the condition reads over
// time), registered under a scope prefix unique to that item so the
// orphan-HOLD collector can drop its clone's HOLDs the moment the item
// drops out of Source (spec §4.5, §8 property 9).
type FilteredView struct {
	Source   graph.SlotId
	Template *types.Template
	TrueTag  value.TagId
	FalseTag value.TagId

	clones map[graph.SlotId]*retainClone
}

func (f *FilteredView) New() types.Kind {
	return &FilteredView{Source: f.Source, Template: f.Template, TrueTag: f.TrueTag, FalseTag: f.FalseTag}
}
func (f *FilteredView) Type() types.KindType { return types.KindFilteredView }
func (f *FilteredView) Init() error          { return nil }
func (f *FilteredView) Destroy()             {}

// Remap rewrites Source only. Template's own node slots are relative to
// itself and get a fresh old->new map from CloneTemplate on every
// instantiation, so a FilteredView embedded inside another template's body
// is not itself re-templated (nested retain/append, spec §9 Open
// Questions — deferred).
func (f *FilteredView) Remap(fn func(graph.SlotId) graph.SlotId) {
	f.Source = fn(f.Source)
}

func (f *FilteredView) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	bus, ok := ctx.Arena().Get(f.Source).Kind.(*Bus)
	if !ok {
		ctx.Logger().Printf("FilteredView source %d is not a Bus", f.Source)
		emit(ctx, self, value.FromList(value.NewList(nil)))
		return nil
	}
	if f.clones == nil {
		f.clones = make(map[graph.SlotId]*retainClone)
	}

	live := make(map[graph.SlotId]bool)
	items := bus.ItemSlots()
	out := make([]value.Value, 0, len(items))
	for _, item := range items {
		live[item] = true
		cl, ok := f.clones[item]
		if !ok {
			prefix := newScopePrefix("retain", self)
			condOut := CloneTemplate(ctx, f.Template, item, prefix, true)
			cl = &retainClone{cond: condOut, prefix: prefix}
			f.clones[item] = cl
			// So a later change to this item's condition (its own HOLD
			// flipping, e.g.) re-runs FilteredView's own Eval, not just the
			// clone's internal chain.
			ctx.Arena().AddRoute(condOut, self, graph.Output)
			ctx.MarkDirty(condOut, graph.Output)
		}
		if keep, ok := value.Truthy(read(ctx, cl.cond), f.TrueTag, f.FalseTag); ok && keep {
			out = append(out, read(ctx, item))
		}
	}

	for item, cl := range f.clones {
		if !live[item] {
			ctx.ExitScope(cl.prefix)
			delete(f.clones, item)
		}
	}

	emit(ctx, self, value.FromList(value.NewList(out)))
	return nil
}

// ListAppender clones Template once per Trigger fire, wiring the clone's
// entry to a snapshot of Trigger's current value (the template's input
// "carries the trigger value", spec §4.4.3), and appends the clone's
// output to Target's backing Bus under a fresh scope prefix (spec §4.4.4,
// §8 property 8: distinct ItemKeys, disjoint scope prefixes).
type ListAppender struct {
	Trigger  graph.SlotId
	Template *types.Template
	Target   graph.SlotId
}

func (a *ListAppender) New() types.Kind {
	return &ListAppender{Trigger: a.Trigger, Template: a.Template, Target: a.Target}
}
func (a *ListAppender) Type() types.KindType { return types.KindListAppender }
func (a *ListAppender) Init() error          { return nil }
func (a *ListAppender) Destroy()             {}
func (a *ListAppender) Remap(f func(graph.SlotId) graph.SlotId) {
	a.Trigger = f(a.Trigger)
	a.Target = f(a.Target)
}

func (a *ListAppender) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	bus, ok := ctx.Arena().Get(a.Target).Kind.(*Bus)
	if !ok {
		ctx.Logger().Printf("ListAppender target %d is not a Bus", a.Target)
		return nil
	}
	prefix := newScopePrefix("append", self)
	item := CloneTemplate(ctx, a.Template, a.Trigger, prefix, false)
	ctx.MarkDirty(item, graph.Output)
	bus.Append(ctx, a.Target, item, prefix)
	return nil
}

// ListClearer truncates Target's backing Bus back to its static literal
// prefix whenever Trigger fires, releasing every dynamic item's scope so
// the orphan-HOLD collector drops its HOLDs (spec §4.3, §4.4 "clear", §4.5,
// §8 property 9).
type ListClearer struct {
	Trigger graph.SlotId
	Target  graph.SlotId
}

func (c *ListClearer) New() types.Kind      { return &ListClearer{Trigger: c.Trigger, Target: c.Target} }
func (c *ListClearer) Type() types.KindType { return types.KindListClearer }
func (c *ListClearer) Init() error          { return nil }
func (c *ListClearer) Destroy()             {}
func (c *ListClearer) Remap(f func(graph.SlotId) graph.SlotId) {
	c.Trigger = f(c.Trigger)
	c.Target = f(c.Target)
}

func (c *ListClearer) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	bus, ok := ctx.Arena().Get(c.Target).Kind.(*Bus)
	if !ok {
		ctx.Logger().Printf("ListClearer target %d is not a Bus", c.Target)
		return nil
	}
	bus.ClearToStatic(ctx, c.Target)
	return nil
}

// ListRemover drops the dynamic item at Index's current numeric value
// from Target's backing Bus whenever Trigger fires, and releases that
// item's scope so the orphan-HOLD collector drops its HOLDs. Per spec
// §9's chosen resolution for the open "remove" semantics question, an
// out-of-range index is a silent no-op rather than an error.
type ListRemover struct {
	Trigger graph.SlotId
	Index   graph.SlotId
	Target  graph.SlotId
}

func (r *ListRemover) New() types.Kind {
	return &ListRemover{Trigger: r.Trigger, Index: r.Index, Target: r.Target}
}
func (r *ListRemover) Type() types.KindType { return types.KindListRemover }
func (r *ListRemover) Init() error          { return nil }
func (r *ListRemover) Destroy()             {}
func (r *ListRemover) Remap(f func(graph.SlotId) graph.SlotId) {
	r.Trigger = f(r.Trigger)
	r.Index = f(r.Index)
	r.Target = f(r.Target)
}

func (r *ListRemover) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	bus, ok := ctx.Arena().Get(r.Target).Kind.(*Bus)
	if !ok {
		ctx.Logger().Printf("ListRemover target %d is not a Bus", r.Target)
		return nil
	}
	n, ok := read(ctx, r.Index).AsNumber()
	if !ok {
		return nil
	}
	bus.Remove(ctx, r.Target, int(n))
	return nil
}

// ListCount emits Input's current list length as a Number on every change
// (spec §4.3 derived list operations). When Input is a FilteredView, this
// already subscribes to every condition clone's output transitively:
// FilteredView only emits a new list when a clone's membership changes, so
// ListCount recomputes whenever filter membership does (spec §4.4
// "retain").
type ListCount struct {
	Input graph.SlotId
}

func (c *ListCount) New() types.Kind      { return &ListCount{Input: c.Input} }
func (c *ListCount) Type() types.KindType { return types.KindListCount }
func (c *ListCount) Init() error          { return nil }
func (c *ListCount) Destroy()             {}
func (c *ListCount) Remap(f func(graph.SlotId) graph.SlotId) {
	c.Input = f(c.Input)
}

func (c *ListCount) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	list, ok := read(ctx, c.Input).AsList()
	if !ok {
		emit(ctx, self, value.Number(0))
		return nil
	}
	emit(ctx, self, value.Number(float64(list.Len())))
	return nil
}

// ListIsEmpty emits whether Input's current list has zero items (spec
// §4.3 derived list operations); see ListCount's doc comment for why a
// FilteredView source already drives recomputation on filter changes.
type ListIsEmpty struct {
	Input graph.SlotId
}

func (e *ListIsEmpty) New() types.Kind      { return &ListIsEmpty{Input: e.Input} }
func (e *ListIsEmpty) Type() types.KindType { return types.KindListIsEmpty }
func (e *ListIsEmpty) Init() error          { return nil }
func (e *ListIsEmpty) Destroy()             {}
func (e *ListIsEmpty) Remap(f func(graph.SlotId) graph.SlotId) {
	e.Input = f(e.Input)
}

func (e *ListIsEmpty) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	list, ok := read(ctx, e.Input).AsList()
	emit(ctx, self, value.Bool(!ok || list.Len() == 0))
	return nil
}
