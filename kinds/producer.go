package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// Producer is a constant-valued node: it writes the same Value every time
// it is evaluated (spec §4.3). Literals, bare tags, and a SKIP expression
// outside a List/map body compile to a Producer.
type Producer struct {
	Value value.Value
}

func (p *Producer) New() types.Kind      { return &Producer{Value: p.Value} }
func (p *Producer) Type() types.KindType { return types.KindProducer }
func (p *Producer) Init() error          { return nil }
func (p *Producer) Destroy()             {}

// Remap is a no-op: a Producer holds no SlotId, only its literal Value.
func (p *Producer) Remap(func(graph.SlotId) graph.SlotId) {}

// Eval runs on the initial kick the compiler queues for a freshly
// allocated Producer, and again whenever a THEN trigger routed to it
// fires; only the first write propagates, since Value never changes.
func (p *Producer) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	emit(ctx, self, p.Value)
	return nil
}
