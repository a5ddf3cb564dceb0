package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// Pulses strips its input's payload, re-emitting Unit every time the
// input fires regardless of whether the payload value itself changed
// (spec §4.3) — like IOPad, it bypasses the "no tick on an unchanged
// write" dedup, since its whole purpose is counting
// occurrences, including repeated identical events.
type Pulses struct {
	Input graph.SlotId
	count float64
}

func (p *Pulses) New() types.Kind      { return &Pulses{Input: p.Input} }
func (p *Pulses) Type() types.KindType { return types.KindPulses }
func (p *Pulses) Init() error          { return nil }
func (p *Pulses) Destroy()             {}

func (p *Pulses) Remap(f func(graph.SlotId) graph.SlotId) { p.Input = f(p.Input) }

func (p *Pulses) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	p.count++
	ctx.Arena().SetValue(self, value.Unit())
	propagate(ctx, self, true)
	return nil
}
