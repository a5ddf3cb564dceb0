/*
 * Copyright 2024 The BoonLang Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package types defines the contracts shared across graph, kinds,
// compiler, and runtime: the Kind interface every node behavior
// implements, the EvalContext a Kind uses to read/emit/schedule, the
// ambient Config/Logger/error stack, and the external-collaborator
// interfaces at the Parser/Renderer/EventSource boundary (spec §6).
//
// This mirrors the role _examples/bittoy-rule/types plays for that
// engine: the bottom package everything else depends on, so that node
// behaviors, the compiler, and the event loop can all reference each
// other's contracts without import cycles.
package types

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/value"
)

// KindType is the unique identifier for a node-kind behavior (spec §4.3's
// "fixed repertoire"), analogous to a RuleGo component's Type().
type KindType string

const (
	KindProducer       KindType = "producer"
	KindWire           KindType = "wire"
	KindRouter         KindType = "router"
	KindCombiner       KindType = "combiner"
	KindTransformer    KindType = "transformer"
	KindRegister       KindType = "register"
	KindSwitchedWire   KindType = "switchedWire"
	KindPatternMux     KindType = "patternMux"
	KindTimer          KindType = "timer"
	KindAccumulator    KindType = "accumulator"
	KindPulses         KindType = "pulses"
	KindSkip           KindType = "skip"
	KindBus            KindType = "bus"
	KindFilteredView   KindType = "filteredView"
	KindListMapper     KindType = "listMapper"
	KindListAppender   KindType = "listAppender"
	KindListClearer    KindType = "listClearer"
	KindListRemover    KindType = "listRemover"
	KindExtractor      KindType = "extractor"
	KindTextTemplate   KindType = "textTemplate"
	KindArithmetic     KindType = "arithmetic"
	KindComparison     KindType = "comparison"
	KindBoolNot        KindType = "boolNot"
	KindIOPad          KindType = "ioPad"
	KindLinkResolver   KindType = "linkResolver"
	KindEffect         KindType = "effect"
	KindListCount      KindType = "listCount"
	KindListIsEmpty    KindType = "listIsEmpty"
	KindTextTrim       KindType = "textTrim"
	KindTextIsNotEmpty KindType = "textIsNotEmpty"
)

// EvalContext is what a Kind receives to do its work during Eval: read
// other slots' cached values, mark slots dirty, stage values into slots,
// allocate new slots (for kinds that grow the graph at runtime), and
// publish side effects. It is implemented by runtime.EventLoop.
type EvalContext interface {
	// Arena exposes the underlying graph arena for direct slot/route
	// access (kinds that need it: Router field resolution, Extractor,
	// collection operators).
	Arena() *graph.Arena

	// CurrentValue reads a slot's cached value. Wire chains are not
	// followed: reading a Wire slot returns the value that Wire last
	// copied from its input.
	CurrentValue(id graph.SlotId) (value.Value, bool)

	// MarkDirty enqueues (slot, port) for evaluation in this or a future
	// tick (spec §4.5).
	MarkDirty(slot graph.SlotId, port graph.Port)

	// StageInput writes v straight into the slot's cached value and then
	// marks (slot, port) dirty; there is no separate inbox, so readers see
	// v at once.
	StageInput(slot graph.SlotId, port graph.Port, v value.Value)

	// Alloc reserves a fresh slot, used by kinds that grow the graph at
	// runtime (template cloning).
	Alloc() graph.SlotId

	// ScheduleTimer registers (or re-registers) a timer's first tick.
	ScheduleTimer(slot graph.SlotId, intervalMs int64) value.Handle

	// PublishEffect enqueues a side-effect record for the host to drain
	// after the tick completes (spec §4.5).
	PublishEffect(effect SideEffect)

	// EnterScope / ExitScope mark a dynamic item's scope prefix as
	// active/inactive for the orphan-HOLD collector (spec §4.5, §3.4).
	EnterScope(prefix string)
	ExitScope(prefix string)

	// RegisterHold associates a HOLD's stable id with its owning slot, so
	// the orphan collector can drop it when its scope is no longer
	// active, and so persistence can be loaded/saved against it.
	RegisterHold(id string, slot graph.SlotId, persistKey string)

	// HoldWasRestored reports whether the named HOLD's initial value came
	// from the persistence store rather than its `initial` input. No kind
	// in this module calls it.
	HoldWasRestored(id string) bool

	// Logger gives kinds a way to report soft-degradation diagnostics
	// (spec §7) without panicking.
	Logger() Logger
}

// SideEffect is a side-effect record published by an Effect node, drained
// by the host after each tick (spec §4.5, §6.4).
type SideEffect struct {
	Kind  EffectKind
	Key   string // PersistHold: persistence key; RouterGoTo: unused
	Value value.Value
}

// EffectKind enumerates the side-effect record kinds named in spec §4.5.
type EffectKind string

const (
	EffectPersistHold    EffectKind = "PersistHold"
	EffectRouterGoTo     EffectKind = "RouterGoTo"
	EffectDocumentRender EffectKind = "DocumentRender"
)

// Kind is the core interface for every node-kind behavior (spec §4.3). It
// mirrors _examples/bittoy-rule/types.Node's New/Type/Init/OnMsg/Destroy
// shape: New() creates a fresh per-slot instance (prototype pattern,
// exactly as RuleGo components are per-chain instances), Init configures
// it from compiler-provided parameters, Eval processes one dirty-slot
// activation, and Destroy releases any resources.
type Kind interface {
	// New returns a fresh instance of the same kind, ready for Init. Each
	// allocated slot gets its own instance so per-item template clones
	// never share extension state (spec §3.2, §4.4.4).
	New() Kind

	// Type returns this kind's unique identifier.
	Type() KindType

	// Remap rewrites every graph.SlotId this kind holds through f. Template
	// cloning (spec §4.4.4) calls this on a freshly New()'d copy of each
	// node in a captured template, retargeting its references from the
	// template's own slots to the clone's fresh ones; kinds holding no
	// SlotId fields (Producer, Timer, Skip, IOPad) implement it as a no-op.
	Remap(f func(graph.SlotId) graph.SlotId)

	// Init configures the kind with compiler-supplied parameters
	// (typically slot references to inputs/bodies/arms) ahead of any
	// Eval call. Most kinds receive their parameters as typed fields set
	// directly by the compiler instead of through a generic map (unlike
	// RuleGo's Configuration — graph wiring is structural, not
	// user-authored key/value config), so Init frequently does no work
	// beyond what the compiler already assigned; it exists so every kind
	// has a uniform lifecycle hook to validate that wiring.
	Init() error

	// Eval processes a single dirty-slot activation for `self`, reading
	// whatever input(s) are relevant via ctx and the arena, and writing
	// its new current value via ctx.Arena().SetValue before enqueuing
	// subscribers (spec §4.5 steps 2-4).
	Eval(ctx EvalContext, self graph.SlotId, port graph.Port) error

	// Destroy releases any resources the instance holds; every kind in
	// this module implements it as a no-op.
	Destroy()
}
