package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
)

// Wire forwards its single input unchanged (spec §4.3). Plain variable
// bindings, object-field placeholders and THEN bodies compile through it.
// Reads do not follow a chain of Wires: each Wire re-emits its input's
// value on Eval, so a Wire slot holds its own copy of that value and
// chained subscribers fire off a normal dirty-queue pass.
type Wire struct {
	Input graph.SlotId
}

func (w *Wire) New() types.Kind      { return &Wire{Input: w.Input} }
func (w *Wire) Type() types.KindType { return types.KindWire }
func (w *Wire) Init() error          { return nil }
func (w *Wire) Destroy()             {}

func (w *Wire) Remap(f func(graph.SlotId) graph.SlotId) { w.Input = f(w.Input) }

func (w *Wire) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	emit(ctx, self, read(ctx, w.Input))
	return nil
}
