package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// Arm is one WHEN/WHILE arm: Matcher tests the scrutinee, optionally
// producing a bound payload value written into BindSlot (-1 if the arm
// binds nothing) before Body is read. The compiler routes Body's slot
// back to the owning PatternMux/SwitchedWire so a change inside the
// matched arm's body re-triggers evaluation without a second match.
type Arm struct {
	Matcher  func(value.Value) (matched bool, bound value.Value)
	BindSlot graph.SlotId
	Body     graph.SlotId
}

// PatternMux implements WHEN { arms }: once an arm matches, the selection
// is captured permanently — later changes to the scrutinee never
// re-select, though the captured arm's body keeps streaming its own
// updates (spec §4.3 PatternMux, §4.4 When).
type PatternMux struct {
	Input    graph.SlotId
	Arms     []Arm
	captured int
}

func (p *PatternMux) New() types.Kind {
	return &PatternMux{Input: p.Input, Arms: append([]Arm(nil), p.Arms...), captured: -1}
}
func (p *PatternMux) Type() types.KindType { return types.KindPatternMux }
func (p *PatternMux) Init() error          { p.captured = -1; return nil }
func (p *PatternMux) Destroy()             {}

func (p *PatternMux) Remap(f func(graph.SlotId) graph.SlotId) {
	p.Input = f(p.Input)
	for i := range p.Arms {
		if p.Arms[i].BindSlot >= 0 {
			p.Arms[i].BindSlot = f(p.Arms[i].BindSlot)
		}
		p.Arms[i].Body = f(p.Arms[i].Body)
	}
}

func (p *PatternMux) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	if p.captured < 0 {
		v := read(ctx, p.Input)
		for i, arm := range p.Arms {
			if matched, bound := arm.Matcher(v); matched {
				p.captured = i
				if arm.BindSlot >= 0 {
					emit(ctx, arm.BindSlot, bound)
				}
				break
			}
		}
		if p.captured < 0 {
			ctx.Logger().Debugf("WHEN: no arm matched, degrading to Unit at slot %d", self)
			emit(ctx, self, value.Unit())
			return nil
		}
	}
	emit(ctx, self, read(ctx, p.Arms[p.captured].Body))
	return nil
}
