package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// Accumulator maintains a running sum of its input's numeric values,
// re-emitting the new total on every change (spec §4.3). Non-numeric
// inputs are ignored rather than erroring, consistent with the
// soft-degradation policy in spec §7.
type Accumulator struct {
	Input graph.SlotId
	total float64
}

func (a *Accumulator) New() types.Kind      { return &Accumulator{Input: a.Input} }
func (a *Accumulator) Type() types.KindType { return types.KindAccumulator }
func (a *Accumulator) Init() error          { return nil }
func (a *Accumulator) Destroy()             {}

func (a *Accumulator) Remap(f func(graph.SlotId) graph.SlotId) { a.Input = f(a.Input) }

func (a *Accumulator) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	if n, ok := read(ctx, a.Input).AsNumber(); ok {
		a.total += n
		emit(ctx, self, value.Number(a.total))
	}
	return nil
}
