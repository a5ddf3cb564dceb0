// Package compiler turns a parsed ast.Program into a wired graph.Arena,
// following spec §4.4's compile_program passes: collect top-level
// functions, pre-allocate a placeholder slot per top-level variable (so
// forward references between them resolve), then compile each variable's
// body expression against that scope.
package compiler

import (
	"fmt"

	"github.com/BoonLang/boon-sub002/ast"
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/kinds"
	"github.com/BoonLang/boon-sub002/value"
)

// HoldInfo describes one compiled HOLD for the caller to register with an
// EventLoop before the first run (spec §4.3 Register, §4.5).
type HoldInfo struct {
	Id         string
	Slot       graph.SlotId
	PersistKey string
}

// Program is the compiler's output: the arena is wired in place, Vars
// names every top-level binding's stable slot, KickList holds every slot
// that needs an initial MarkDirty to seed its first value, and Holds
// lists every compiled HOLD for persistence registration.
type Program struct {
	Arena    *graph.Arena
	Vars     map[string]graph.SlotId
	KickList []graph.SlotId
	Holds    []HoldInfo
	SkipTag  value.TagId
	TrueTag  value.TagId
	FalseTag value.TagId

	// Links maps every top-level `name: LINK` variable to its raw IOPad
	// slot, bypassing the Wire every other top-level variable is bound
	// through (Vars[name] for a link points at that Wire). A host must
	// stage events directly at the IOPad (spec §4.3 IOPad writes its
	// cached value before marking dirty); staging at the Wire would just
	// have the Wire immediately overwrite it by re-reading the IOPad.
	Links map[string]graph.SlotId
}

// Context carries compile-time state through one compile_program run:
// the arena, a lexical scope stack of name->slot bindings, the
// user-defined function table, and bookkeeping for kicks and holds.
type Context struct {
	Arena *graph.Arena

	scopes []map[string]graph.SlotId
	funcs  map[string]*ast.Function

	kicks []graph.SlotId
	holds []HoldInfo

	// allocLog records every slot allocated through alloc, installNoKick or
	// trackAlloc, in allocation order, and is never trimmed — unlike kicks,
	// which dropNonProducerKicks mutates destructively for nested THEN
	// bodies and template captures. captureTemplate needs the TRUE full set of slots a window
	// allocated regardless of any nested kick-stripping that already
	// happened inside it (spec §4.4.4 template capture).
	allocLog []graph.SlotId

	// rawVars maps each top-level variable name to its compiled result
	// slot, before that slot gets wrapped by the stable-binding Wire pass
	// 4 installs over it (Vars[name] in the returned Program points at
	// that Wire instead). List/append, List/clear and List/remove need
	// the raw slot for their target: they type-assert straight to
	// *kinds.Bus, which only the unwrapped slot satisfies.
	rawVars map[string]graph.SlotId

	// links maps a top-level `name: LINK` variable to its raw IOPad slot,
	// populated as each such variable compiles (pass 4 processes variables
	// in declaration order, so a link referenced by a later variable
	// already has its entry). compileVariableRef prefers this over the
	// normal scope lookup: the scope binding points at the link's
	// Wire-wrapped placeholder, which only re-propagates when its cached
	// value changes, but an IOPad always re-propagates on every event even
	// if the payload repeats (kinds.IOPad's doc comment) — routing from the
	// Wire instead would silently drop a same-payload repeat event.
	links map[string]graph.SlotId

	// noRouteFrom holds slots that use() must not wire as a route source,
	// currently just a HOLD's own state slot while its body compiles.
	// Register's state read is a plain value.Value read with no standing
	// subscription (see kinds.Register's doc comment: "Body reads the
	// register's current value... rather than a route back to Register");
	// every builtin calls use() unconditionally on its operands, so without
	// this a state-referencing operand (`count |> Math/add(...)`) would
	// wire count's own changes back into its producer, and the register's
	// next commit would re-trigger it again — an unbounded cascade rather
	// than one recomputation per external event.
	noRouteFrom map[graph.SlotId]bool

	skipTag, trueTag, falseTag value.TagId

	// skippable is true while compiling a List/map item body through the
	// pure evaluator, where a bare SKIP must compile to the Skip sentinel
	// kind rather than Producer(Unit) (spec §4.4).
	skippable bool

	Warnings []string
}

func newContext(arena *graph.Arena) *Context {
	c := &Context{
		Arena:       arena,
		funcs:       make(map[string]*ast.Function),
		rawVars:     make(map[string]graph.SlotId),
		links:       make(map[string]graph.SlotId),
		noRouteFrom: make(map[graph.SlotId]bool),
	}
	c.pushScope()
	c.skipTag = arena.InternTag("#Skip")
	c.trueTag = arena.InternTag("True")
	c.falseTag = arena.InternTag("False")
	return c
}

func (c *Context) pushScope() { c.scopes = append(c.scopes, make(map[string]graph.SlotId)) }
func (c *Context) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *Context) bind(name string, slot graph.SlotId) {
	c.scopes[len(c.scopes)-1][name] = slot
}

func (c *Context) lookup(name string) (graph.SlotId, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if s, ok := c.scopes[i][name]; ok {
			return s, true
		}
	}
	return 0, false
}

func (c *Context) warnf(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// use records that dependent's value depends on input, so input's future
// changes mark dependent dirty through the normal route/propagate
// mechanism (spec §4.2 Route, §4.5).
func (c *Context) use(input, dependent graph.SlotId, port graph.Port) {
	if c.noRouteFrom[input] {
		return
	}
	c.Arena.AddRoute(input, dependent, port)
}

// alloc reserves a slot and installs kind in one step, queuing it for the
// initial kick pass.
func (c *Context) alloc(kind graph.NodeKind) graph.SlotId {
	id := c.Arena.Alloc()
	c.Arena.SetKind(id, kind)
	c.kicks = append(c.kicks, id)
	c.trackAlloc(id)
	return id
}

// installNoKick allocates and installs kind without queuing an initial
// kick, for nodes that only ever react to other nodes' routes or to values
// staged into them from outside (IOPad, for example).
func (c *Context) installNoKick(kind graph.NodeKind) graph.SlotId {
	id := c.Arena.Alloc()
	c.Arena.SetKind(id, kind)
	c.trackAlloc(id)
	return id
}

// trackAlloc records a slot allocated outside alloc/installNoKick (a HOLD's
// own Register slot, a WHEN/WHILE arm's bind slot) in allocLog, so template
// capture still sees it.
func (c *Context) trackAlloc(id graph.SlotId) {
	c.allocLog = append(c.allocLog, id)
}

func (c *Context) allocLogMark() int { return len(c.allocLog) }

// allocatedSince returns every slot tracked since mark, in allocation
// order.
func (c *Context) allocatedSince(mark int) []graph.SlotId {
	return append([]graph.SlotId(nil), c.allocLog[mark:]...)
}

func (c *Context) addHold(id string, slot graph.SlotId, persistKey string) {
	c.holds = append(c.holds, HoldInfo{Id: id, Slot: slot, PersistKey: persistKey})
}

func (c *Context) holdsMark() int { return len(c.holds) }

// holdsSince returns every HOLD added since mark, without trimming them
// from c.holds (callers that want them removed, such as captureTemplate,
// trim explicitly).
func (c *Context) holdsSince(mark int) []HoldInfo {
	return append([]HoldInfo(nil), c.holds[mark:]...)
}

// kicksMark/dropNonProducerKicks bracket a THEN body's compilation (and a
// template capture). Every alloc() call the body makes queues an initial
// kick same as anywhere else, but a body's combinator chain (Wire,
// Arithmetic, ...) must not compute and publish a value before anything has
// actually happened — only the THEN input's arrival may drive it. Literal Producers are the exception: they still need their one
// self-seeding kick, since nothing else ever writes their value.
func (c *Context) kicksMark() int { return len(c.kicks) }

// dropNonProducerKicks strips every non-Producer kick queued since mark and
// returns the full set of slots that were allocated in that window (for
// retrigger to wire up), Producers included.
func (c *Context) dropNonProducerKicks(mark int) []graph.SlotId {
	added := append([]graph.SlotId(nil), c.kicks[mark:]...)
	c.kicks = c.kicks[:mark]
	for _, slot := range added {
		if _, isProducer := c.Arena.Get(slot).Kind.(*kinds.Producer); isProducer {
			c.kicks = append(c.kicks, slot)
		}
	}
	return added
}

// retrigger wires trigger to fire every slot in nodes directly, in addition
// to whatever ordinary routes those nodes already carry. A THEN body's
// combinator chain gets its kicks stripped (dropNonProducerKicks) so an
// external trigger is the only thing that can start it; without this, only
// the chain's final node would ever be marked dirty and everything upstream
// of it would stay stuck at whatever it last computed.
func (c *Context) retrigger(trigger graph.SlotId, nodes []graph.SlotId) {
	for _, slot := range nodes {
		c.use(trigger, slot, graph.Input(1))
	}
}
