package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// Timer emits an incrementing tick count every IntervalMs milliseconds
// (spec §4.3). The first Eval call (triggered by the compiler marking a
// freshly allocated Timer dirty) registers the schedule; every later call
// is the runtime's timer wheel firing it again.
type Timer struct {
	IntervalMs int64
	ticks      float64
	scheduled  bool
}

func (t *Timer) New() types.Kind      { return &Timer{IntervalMs: t.IntervalMs} }
func (t *Timer) Type() types.KindType { return types.KindTimer }
func (t *Timer) Init() error          { return nil }
func (t *Timer) Destroy()             {}

// Remap is a no-op: Timer holds no SlotId, only its own interval.
func (t *Timer) Remap(func(graph.SlotId) graph.SlotId) {}

func (t *Timer) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	if !t.scheduled {
		t.scheduled = true
		ctx.ScheduleTimer(self, t.IntervalMs)
		return nil
	}
	t.ticks++
	emit(ctx, self, value.Number(t.ticks))
	ctx.ScheduleTimer(self, t.IntervalMs)
	return nil
}
