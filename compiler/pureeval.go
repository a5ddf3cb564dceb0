package compiler

import (
	"github.com/BoonLang/boon-sub002/ast"
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// pureDirty mirrors runtime's dirty-queue entry; duplicated here rather
// than imported so this package never depends on runtime (spec §4.4.4
// notes ListMapper takes the pure-function special case of the general
// per-item template clone, so its body gets its own
// tiny, disposable evaluator instead of a live slice of the main graph).
type pureDirty struct {
	slot graph.SlotId
	port graph.Port
}

// pureCtx is a minimal types.EvalContext over a private scratch arena,
// just enough to drive a side-effect-free expression body to quiescence:
// no timers, no persistence, no side effects, no HOLD garbage collection.
type pureCtx struct {
	arena  *graph.Arena
	queue  []pureDirty
	logger types.Logger
}

func (p *pureCtx) Arena() *graph.Arena { return p.arena }
func (p *pureCtx) CurrentValue(id graph.SlotId) (value.Value, bool) {
	return p.arena.CurrentValue(id)
}
func (p *pureCtx) MarkDirty(slot graph.SlotId, port graph.Port) {
	p.queue = append(p.queue, pureDirty{slot, port})
}
func (p *pureCtx) StageInput(slot graph.SlotId, port graph.Port, v value.Value) {
	p.arena.SetValue(slot, v)
	p.MarkDirty(slot, port)
}
func (p *pureCtx) Alloc() graph.SlotId                                  { return p.arena.Alloc() }
func (p *pureCtx) ScheduleTimer(graph.SlotId, int64) value.Handle       { return value.Handle{} }
func (p *pureCtx) PublishEffect(types.SideEffect)                       {}
func (p *pureCtx) EnterScope(string)                                    {}
func (p *pureCtx) ExitScope(string)                                     {}
func (p *pureCtx) RegisterHold(id string, slot graph.SlotId, key string) {}
func (p *pureCtx) HoldWasRestored(string) bool                          { return false }
func (p *pureCtx) Logger() types.Logger                                 { return p.logger }

func (p *pureCtx) drain() {
	evaluated := 0
	for len(p.queue) > 0 {
		evaluated++
		if evaluated > 10000 {
			p.logger.Debugf("pure evaluator exceeded 10000 steps without quiescing, aborting")
			return
		}
		item := p.queue[0]
		p.queue = p.queue[1:]
		node := p.arena.Get(item.slot)
		k, ok := node.Kind.(types.Kind)
		if !ok || k == nil {
			continue
		}
		_ = k.Eval(p, item.slot, item.port)
	}
}

// closureCompile builds a standalone scratch graph for fn's body, bound
// to a single parameter slot, and returns a Go closure that re-seeds that
// slot and redrains the scratch graph on every call. The closure is pure
// from its caller's perspective: it never touches the main arena.
func closureCompile(parent *Context, fn *ast.Function) func(value.Value) (value.Value, bool) {
	arena := graph.NewArena()
	sc := newContext(arena)
	sc.funcs = parent.funcs
	sc.skippable = true

	paramSlot := arena.Alloc()
	if len(fn.Parameters) > 0 {
		sc.bind(fn.Parameters[0], paramSlot)
	}

	resultSlot, err := compileExpr(sc, fn.Body)
	if err != nil {
		parent.warnf("compiling function %q for List/map: %v", fn.Name, err)
		return func(value.Value) (value.Value, bool) { return value.Unit(), false }
	}

	kicks := append([]graph.SlotId(nil), sc.kicks...)
	skipTag := sc.skipTag
	pc := &pureCtx{arena: arena, logger: types.DefaultLogger()}

	return func(item value.Value) (value.Value, bool) {
		arena.SetValue(paramSlot, item)
		pc.queue = pc.queue[:0]
		for _, r := range arena.Subscribers(paramSlot) {
			pc.MarkDirty(r.Destination, r.Port)
		}
		for _, k := range kicks {
			pc.MarkDirty(k, graph.Output)
		}
		pc.drain()

		v, ok := arena.CurrentValue(resultSlot)
		if !ok {
			return value.Unit(), false
		}
		if tag, isTag := v.AsTag(); isTag && tag == skipTag {
			return value.Unit(), false
		}
		return v, true
	}
}
