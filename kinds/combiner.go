package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// CombinerInput pairs a LATEST block's named input with its source slot.
type CombinerInput struct {
	Name  value.FieldId
	Input graph.SlotId
}

// Combiner implements LATEST { name: expr, ... }: it holds back its first
// emission until every named input has produced at least one value, then
// re-emits the full Object of latest values on every subsequent change to
// any input (spec §4.3, §4.4 Latest).
type Combiner struct {
	Inputs []CombinerInput
}

func (c *Combiner) New() types.Kind {
	return &Combiner{Inputs: append([]CombinerInput(nil), c.Inputs...)}
}
func (c *Combiner) Type() types.KindType { return types.KindCombiner }
func (c *Combiner) Init() error          { return nil }
func (c *Combiner) Destroy()             {}

func (c *Combiner) Remap(f func(graph.SlotId) graph.SlotId) {
	for i := range c.Inputs {
		c.Inputs[i].Input = f(c.Inputs[i].Input)
	}
}

func (c *Combiner) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	fields := make(map[value.FieldId]value.Value, len(c.Inputs))
	for _, in := range c.Inputs {
		v, ok := ctx.CurrentValue(in.Input)
		if !ok {
			// Not every input has fired yet; LATEST stays silent.
			return nil
		}
		fields[in.Name] = v
	}
	emit(ctx, self, value.FromObject(value.NewObject(fields)))
	return nil
}
