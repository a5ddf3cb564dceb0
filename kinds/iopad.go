package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
)

// IOPad is the compiled form of a bare LINK expression: an addressable
// boundary slot a host EventSource stages values into directly (the runtime writes
// straight into the slot's cached value before marking it dirty, rather
// than routing through an ordinary producer), which Eval then
// unconditionally republishes to subscribers (spec §4.3, §4.4 Link). Every
// external event ticks downstream even if it repeats the previous value,
// since two occurrences of the same external event are still two events.
type IOPad struct{}

func (p *IOPad) New() types.Kind      { return &IOPad{} }
func (p *IOPad) Type() types.KindType { return types.KindIOPad }
func (p *IOPad) Init() error          { return nil }
func (p *IOPad) Destroy()             {}

// Remap is a no-op: IOPad holds no SlotId, it is an addressable boundary.
func (p *IOPad) Remap(func(graph.SlotId) graph.SlotId) {}

func (p *IOPad) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	propagate(ctx, self, true)
	return nil
}
