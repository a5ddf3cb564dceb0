package runtime

import (
	"fmt"
	"time"

	"github.com/BoonLang/boon-sub002/aspect"
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

type dirtyItem struct {
	slot graph.SlotId
	port graph.Port
}

type timerEntry struct {
	slot       graph.SlotId
	intervalMs int64
	due        time.Time
	handle     value.Handle
}

type holdEntry struct {
	slot       graph.SlotId
	persistKey string
	restored   bool
}

// EventLoop is the single-threaded driver described in spec §4.5 and §5:
// it owns the Arena exclusively, drains a FIFO dirty queue to quiescence,
// schedules timers, and queues side effects for the host to drain after
// each run. It implements types.EvalContext for the kinds package.
type EventLoop struct {
	arena *graph.Arena
	cfg   types.Config

	queue []dirtyItem

	timers       map[graph.SlotId]*timerEntry
	nextHandleId int64

	effects []types.SideEffect

	holds        map[string]*holdEntry
	activeScopes map[string]int

	Aspects aspect.List
}

// NewEventLoop builds an EventLoop over arena, configured by cfg.
func NewEventLoop(arena *graph.Arena, cfg types.Config) *EventLoop {
	if cfg.Logger == nil {
		cfg.Logger = types.DefaultLogger()
	}
	if cfg.MetricsEnabled {
		registerMetrics()
	}
	return &EventLoop{
		arena:        arena,
		cfg:          cfg,
		timers:       make(map[graph.SlotId]*timerEntry),
		holds:        make(map[string]*holdEntry),
		activeScopes: make(map[string]int),
	}
}

func (l *EventLoop) Arena() *graph.Arena { return l.arena }

func (l *EventLoop) CurrentValue(id graph.SlotId) (value.Value, bool) {
	return l.arena.CurrentValue(id)
}

func (l *EventLoop) MarkDirty(slot graph.SlotId, port graph.Port) {
	l.queue = append(l.queue, dirtyItem{slot: slot, port: port})
}

func (l *EventLoop) StageInput(slot graph.SlotId, port graph.Port, v value.Value) {
	l.arena.SetValue(slot, v)
	l.MarkDirty(slot, port)
}

func (l *EventLoop) Alloc() graph.SlotId { return l.arena.Alloc() }

func (l *EventLoop) ScheduleTimer(slot graph.SlotId, intervalMs int64) value.Handle {
	t, ok := l.timers[slot]
	if !ok {
		l.nextHandleId++
		t = &timerEntry{slot: slot, handle: value.Handle{Kind: value.HandleTimer, Id: l.nextHandleId}}
		l.timers[slot] = t
	}
	t.intervalMs = intervalMs
	t.due = time.Now().Add(time.Duration(intervalMs) * time.Millisecond)
	return t.handle
}

// CancelTimer removes the pending schedule for slot.
func (l *EventLoop) CancelTimer(slot graph.SlotId) {
	delete(l.timers, slot)
}

func (l *EventLoop) PublishEffect(effect types.SideEffect) {
	l.effects = append(l.effects, effect)
}

func (l *EventLoop) EnterScope(prefix string) {
	l.activeScopes[prefix]++
}

func (l *EventLoop) ExitScope(prefix string) {
	if l.activeScopes[prefix] > 0 {
		l.activeScopes[prefix]--
	}
	if l.activeScopes[prefix] == 0 {
		delete(l.activeScopes, prefix)
		l.collectOrphans(prefix)
	}
}

func (l *EventLoop) RegisterHold(id string, slot graph.SlotId, persistKey string) {
	h, ok := l.holds[id]
	if !ok {
		h = &holdEntry{slot: slot, persistKey: persistKey}
		l.holds[id] = h
	}
	if persistKey != "" && l.cfg.Store != nil {
		if v, found, err := l.cfg.Store.Load(persistKey); err == nil && found {
			l.arena.SetValue(slot, v)
			h.restored = true
		} else if err != nil {
			l.cfg.Logger.Printf("boon: loading HOLD %q: %v", persistKey, err)
		}
	}
}

func (l *EventLoop) HoldWasRestored(id string) bool {
	h, ok := l.holds[id]
	return ok && h.restored
}

func (l *EventLoop) Logger() types.Logger { return l.cfg.Logger }

// RunToQuiescence drains the dirty queue, evaluating each (slot, port)
// pair's Kind until the queue empties (spec §4.5 steps 2-4), or returns
// ErrCyclicBody if MaxTicksPerRun evaluations pass without quiescing
// (spec §8 invariant 5, §7).
func (l *EventLoop) RunToQuiescence() error {
	start := time.Now()
	evaluated := 0

	tickBefore, tickAfter := l.Aspects.TickAspects()
	for _, a := range tickBefore {
		a.TickStart()
	}
	nodeBefore, nodeAfter := l.Aspects.NodeAspects()

	for len(l.queue) > 0 {
		item := l.queue[0]
		l.queue = l.queue[1:]

		evaluated++
		if evaluated > l.cfg.MaxTicksPerRun {
			return types.NewEngineError(types.ErrCyclicBody, fmt.Sprintf("slot-%d", item.slot),
				"exceeded MaxTicksPerRun without reaching quiescence", nil)
		}

		node := l.arena.Get(item.slot)
		k, ok := node.Kind.(types.Kind)
		if !ok || k == nil {
			continue
		}
		for _, a := range nodeBefore {
			a.Before(item.slot, item.port, k)
		}
		err := k.Eval(l, item.slot, item.port)
		if err != nil {
			l.cfg.Logger.Printf("boon: slot %d eval: %v", item.slot, err)
		}
		result, _ := l.arena.CurrentValue(item.slot)
		for _, a := range nodeAfter {
			a.After(item.slot, item.port, k, result, err)
		}
	}
	for _, a := range tickAfter {
		a.TickEnd(evaluated)
	}
	if l.cfg.MetricsEnabled {
		ticksTotal.Add(float64(evaluated))
		tickDuration.Observe(time.Since(start).Seconds())
		dirtyQueueDepth.Set(0)
	}
	l.drainEffects()
	return nil
}

// InjectEvent stages v into an IOPad slot and runs the graph to
// quiescence, the entry point a host EventSource or example harness uses
// to feed one external event (spec §6).
func (l *EventLoop) InjectEvent(slot graph.SlotId, v value.Value) error {
	l.StageInput(slot, graph.Output, v)
	return l.RunToQuiescence()
}

// PollTimers fires any due timers, to be called on cfg.TimerResolution by
// a host driving real time (spec §4.3 Timer, §6).
func (l *EventLoop) PollTimers() error {
	now := time.Now()
	fired := false
	for slot, t := range l.timers {
		if !t.due.After(now) {
			l.MarkDirty(slot, graph.Output)
			fired = true
		}
	}
	if !fired {
		return nil
	}
	return l.RunToQuiescence()
}

// Effects returns and clears the side-effect records queued by the last
// RunToQuiescence pass that were not otherwise consumed by drainEffects
// (e.g. effect kinds the host itself must react to, like RouterGoTo).
func (l *EventLoop) Effects() []types.SideEffect {
	out := l.effects
	l.effects = nil
	return out
}

func (l *EventLoop) drainEffects() {
	remaining := l.effects[:0]
	for _, e := range l.effects {
		switch e.Kind {
		case types.EffectPersistHold:
			if l.cfg.Store != nil {
				if err := l.cfg.Store.Save(e.Key, e.Value); err != nil {
					l.cfg.Logger.Printf("boon: persisting HOLD %q: %v", e.Key, err)
				}
			}
		default:
			remaining = append(remaining, e)
		}
		if l.cfg.SideEffects != nil {
			if err := l.cfg.SideEffects.Handle(e); err != nil {
				l.cfg.Logger.Printf("boon: side effect handler: %v", err)
			}
		}
	}
	l.effects = remaining
}
