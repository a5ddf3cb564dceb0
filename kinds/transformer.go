package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// Transformer applies a pure, compiler-supplied function to its single
// input's current value on every change (spec §4.3). No compiler path
// allocates it: FieldAccess compiles to an Extractor or to direct wiring.
type Transformer struct {
	Input graph.SlotId
	Fn    func(value.Value) value.Value
}

func (t *Transformer) New() types.Kind      { return &Transformer{Input: t.Input, Fn: t.Fn} }
func (t *Transformer) Type() types.KindType { return types.KindTransformer }
func (t *Transformer) Init() error          { return nil }
func (t *Transformer) Destroy()             {}

func (t *Transformer) Remap(f func(graph.SlotId) graph.SlotId) { t.Input = f(t.Input) }

func (t *Transformer) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	emit(ctx, self, t.Fn(read(ctx, t.Input)))
	return nil
}
