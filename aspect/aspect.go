// Package aspect implements cross-cutting hooks around node evaluation
// and tick propagation, grounded on _examples/bittoy-rule/types.Aspect's
// AOP pattern: an ordered list of aspects, each opting in to Before/After
// hooks at a given point cut, without the node or the event loop knowing
// aspects exist.
package aspect

import (
	"sort"

	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// Aspect is the base interface every aspect implements.
type Aspect interface {
	// Order returns execution priority; lower runs first.
	Order() int
}

// NodeBeforeAspect runs immediately before a kind's Eval.
type NodeBeforeAspect interface {
	Aspect
	Before(slot graph.SlotId, port graph.Port, kind types.Kind)
}

// NodeAfterAspect runs immediately after a kind's Eval, observing its
// resulting value and any error.
type NodeAfterAspect interface {
	Aspect
	After(slot graph.SlotId, port graph.Port, kind types.Kind, result value.Value, err error)
}

// TickBeforeAspect runs before a RunToQuiescence pass starts draining.
type TickBeforeAspect interface {
	Aspect
	TickStart()
}

// TickAfterAspect runs after a RunToQuiescence pass reaches quiescence.
type TickAfterAspect interface {
	Aspect
	TickEnd(evaluated int)
}

// List is an ordered collection of aspects, mirroring
// _examples/bittoy-rule's AspectList helper methods.
type List []Aspect

func (l List) sorted() List {
	out := make(List, len(l))
	copy(out, l)
	sort.Slice(out, func(i, j int) bool { return out[i].Order() < out[j].Order() })
	return out
}

func (l List) NodeAspects() (before []NodeBeforeAspect, after []NodeAfterAspect) {
	for _, a := range l.sorted() {
		if b, ok := a.(NodeBeforeAspect); ok {
			before = append(before, b)
		}
		if af, ok := a.(NodeAfterAspect); ok {
			after = append(after, af)
		}
	}
	return
}

func (l List) TickAspects() (before []TickBeforeAspect, after []TickAfterAspect) {
	for _, a := range l.sorted() {
		if b, ok := a.(TickBeforeAspect); ok {
			before = append(before, b)
		}
		if af, ok := a.(TickAfterAspect); ok {
			after = append(after, af)
		}
	}
	return
}
