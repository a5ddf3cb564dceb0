package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// Extractor projects one field out of Input's current Object/TaggedObject
// value, re-emitting on every change (spec §4.3, §4.1 Get). Field access
// expressions with a known, compile-time field name compile to this
// rather than the more general Transformer, so field resolution can use
// value.Value.Get directly instead of a closure.
type Extractor struct {
	Input graph.SlotId
	Field value.FieldId
}

func (e *Extractor) New() types.Kind      { return &Extractor{Input: e.Input, Field: e.Field} }
func (e *Extractor) Type() types.KindType { return types.KindExtractor }
func (e *Extractor) Init() error          { return nil }
func (e *Extractor) Destroy()             {}

func (e *Extractor) Remap(f func(graph.SlotId) graph.SlotId) { e.Input = f(e.Input) }

func (e *Extractor) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	v, ok := read(ctx, e.Input).Get(e.Field)
	if !ok {
		emit(ctx, self, value.Unit())
		return nil
	}
	emit(ctx, self, v)
	return nil
}
