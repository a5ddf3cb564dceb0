package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// SwitchedWire implements WHILE { arms }: re-matches the scrutinee on
// every change, forwarding the currently-selected arm's body and
// switching live if the scrutinee moves to a different arm (spec §4.3
// SwitchedWire, §4.4 While).
type SwitchedWire struct {
	Input  graph.SlotId
	Arms   []Arm
	active int
}

func (w *SwitchedWire) New() types.Kind {
	return &SwitchedWire{Input: w.Input, Arms: append([]Arm(nil), w.Arms...), active: -1}
}
func (w *SwitchedWire) Type() types.KindType { return types.KindSwitchedWire }
func (w *SwitchedWire) Init() error          { w.active = -1; return nil }
func (w *SwitchedWire) Destroy()             {}

func (w *SwitchedWire) Remap(f func(graph.SlotId) graph.SlotId) {
	w.Input = f(w.Input)
	for i := range w.Arms {
		if w.Arms[i].BindSlot >= 0 {
			w.Arms[i].BindSlot = f(w.Arms[i].BindSlot)
		}
		w.Arms[i].Body = f(w.Arms[i].Body)
	}
}

func (w *SwitchedWire) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	v := read(ctx, w.Input)
	newActive := -1
	for i, arm := range w.Arms {
		if matched, bound := arm.Matcher(v); matched {
			newActive = i
			if arm.BindSlot >= 0 {
				emit(ctx, arm.BindSlot, bound)
			}
			break
		}
	}
	w.active = newActive
	if newActive < 0 {
		ctx.Logger().Debugf("WHILE: no arm matched, degrading to Unit at slot %d", self)
		emit(ctx, self, value.Unit())
		return nil
	}
	emit(ctx, self, read(ctx, w.Arms[newActive].Body))
	return nil
}
