package compiler

import (
	"fmt"

	"github.com/BoonLang/boon-sub002/ast"
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/kinds"
	"github.com/BoonLang/boon-sub002/types"
)

// builtin compiles one resolved FunctionCall into a wired subgraph,
// returning the slot holding its result (spec §4.4, §6.6 builtin table).
type builtin func(c *Context, call ast.FunctionCall) (graph.SlotId, error)

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"Math/add":      arithBuiltin(kinds.ArithAdd),
		"Math/subtract": arithBuiltin(kinds.ArithSub),
		"Math/multiply": arithBuiltin(kinds.ArithMul),
		"Math/divide":   arithBuiltin(kinds.ArithDiv),
		"Math/modulo":   arithBuiltin(kinds.ArithMod),
		"Math/sum":      sumBuiltin,

		"Compare/equals":          compareBuiltin(kinds.CompareEq),
		"Compare/not_equals":      compareBuiltin(kinds.CompareNe),
		"Compare/less_than":       compareBuiltin(kinds.CompareLt),
		"Compare/less_or_equal":   compareBuiltin(kinds.CompareLe),
		"Compare/greater_than":    compareBuiltin(kinds.CompareGt),
		"Compare/greater_or_equal": compareBuiltin(kinds.CompareGe),

		"Bool/not": boolNotBuiltin,

		"List/append":  listAppendBuiltin,
		"List/clear":   listClearBuiltin,
		"List/remove":  listRemoveBuiltin,
		"List/count":   listCountBuiltin,
		"List/is_empty": listIsEmptyBuiltin,
		"List/map":     listMapBuiltin,
		"List/retain":  listRetainBuiltin,

		"Text/trim":         textTrimBuiltin,
		"Text/is_not_empty": textIsNotEmptyBuiltin,

		"Timer/interval": timerIntervalBuiltin,

		"Router/go_to": routerGoToBuiltin,

		"Document/new": documentNewBuiltin,

		"Stream/pulses": streamPulsesBuiltin,
	}
}

// findArg returns the compiled slot for the named argument, if present.
func findArg(c *Context, call ast.FunctionCall, name string) (graph.SlotId, bool, error) {
	for _, a := range call.Args {
		if a.Name == name {
			slot, err := compileExpr(c, a.Value)
			if err != nil {
				return 0, false, err
			}
			return slot, true, nil
		}
	}
	return 0, false, nil
}

// findListTarget resolves a List/append, List/clear or List/remove target
// argument. Those builtins need the Bus backing the named list directly, not
// the Wire a plain VariableRef resolves to (compileVariableRef always finds
// a top-level name's stable placeholder slot) — so a bare VariableRef
// argument is resolved against rawVars first, falling back to the normal
// compileExpr path for anything else (a nested expression producing a list
// value the target builtins, in practice, won't find a *kinds.Bus behind).
func findListTarget(c *Context, call ast.FunctionCall, name string) (graph.SlotId, bool, error) {
	for _, a := range call.Args {
		if a.Name != name {
			continue
		}
		if ref, ok := a.Value.Node.(ast.VariableRef); ok {
			if slot, ok := c.rawVars[ref.Name]; ok {
				return slot, true, nil
			}
		}
		slot, err := compileExpr(c, a.Value)
		if err != nil {
			return 0, false, err
		}
		return slot, true, nil
	}
	return 0, false, nil
}

// pipeOrArg prefers the call's piped-in value (`x |> F(...)`) and falls
// back to a named argument, matching spec §4.4.2's pipe-dispatch rule.
func pipeOrArg(c *Context, call ast.FunctionCall, name string) (graph.SlotId, bool, error) {
	if call.PipeInput != nil {
		slot, err := compileExpr(c, *call.PipeInput)
		if err != nil {
			return 0, false, err
		}
		return slot, true, nil
	}
	return findArg(c, call, name)
}

// funcArg resolves a named argument that must reference a top-level
// Function by name (List/map's "with"), used for building a
// closureCompile closure.
func funcArg(c *Context, call ast.FunctionCall, name string) (*ast.Function, bool) {
	for _, a := range call.Args {
		if a.Name != name {
			continue
		}
		ref, ok := a.Value.Node.(ast.VariableRef)
		if !ok {
			return nil, false
		}
		fn, ok := c.funcs[ref.Name]
		return fn, ok
	}
	return nil, false
}

// bindNameArg resolves a named argument that introduces a fresh per-item
// bind variable rather than referencing an existing one (List/retain's
// `item` in `List/retain(item, if: item.done)` — spec §4.4 "retain"): the
// argument's Value names the bind variable directly, it is never looked up
// against any existing scope or function table.
func bindNameArg(call ast.FunctionCall, name string) (string, bool) {
	for _, a := range call.Args {
		if a.Name != name {
			continue
		}
		ref, ok := a.Value.Node.(ast.VariableRef)
		if !ok {
			return "", false
		}
		return ref.Name, true
	}
	return "", false
}

// findRawArg returns the named argument's expression uncompiled, for
// builtins that need to inspect its shape (List/append's `item` must be a
// Pipe) or compile it against a scope the caller controls (List/retain's
// `if`) rather than the current one.
func findRawArg(call ast.FunctionCall, name string) (ast.Spanned[ast.Expression], bool) {
	for _, a := range call.Args {
		if a.Name == name {
			return a.Value, true
		}
	}
	return ast.Spanned[ast.Expression]{}, false
}

// listSourceSlot resolves an expression naming a List/retain source to the
// raw Bus backing it when possible, the same way findListTarget does for
// List/append's target — FilteredView needs real per-item slot identity
// (kinds.Bus.ItemSlots), not just the aggregated List value a plain
// VariableRef compile would hand back.
func listSourceSlot(c *Context, e ast.Spanned[ast.Expression]) (graph.SlotId, error) {
	if ref, ok := e.Node.(ast.VariableRef); ok {
		if slot, ok := c.rawVars[ref.Name]; ok {
			return slot, nil
		}
	}
	return compileExpr(c, e)
}

// pipeOrListSource is pipeOrArg specialized through listSourceSlot.
func pipeOrListSource(c *Context, call ast.FunctionCall, name string) (graph.SlotId, bool, error) {
	if call.PipeInput != nil {
		slot, err := listSourceSlot(c, *call.PipeInput)
		return slot, true, err
	}
	for _, a := range call.Args {
		if a.Name == name {
			slot, err := listSourceSlot(c, a.Value)
			return slot, true, err
		}
	}
	return 0, false, nil
}

func compileFunctionCall(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	if b, ok := builtins[call.Name]; ok {
		return b(c, call)
	}
	if fn, ok := c.funcs[call.Name]; ok {
		return compileUserCall(c, fn, call)
	}
	c.warnf("unknown function %q, degrading to Unit (spec §7 ErrUnknownReference)", call.Name)
	return c.alloc(&kinds.Producer{}), nil
}

// compileUserCall inlines a user-defined function's body directly into
// the graph at the call site, binding each parameter to its matching
// argument's compiled slot (or the piped value for the first parameter).
func compileUserCall(c *Context, fn *ast.Function, call ast.FunctionCall) (graph.SlotId, error) {
	c.pushScope()
	defer c.popScope()
	for i, param := range fn.Parameters {
		if i == 0 && call.PipeInput != nil {
			slot, err := compileExpr(c, *call.PipeInput)
			if err != nil {
				return 0, err
			}
			c.bind(param, slot)
			continue
		}
		slot, found, err := findArg(c, call, param)
		if err != nil {
			return 0, err
		}
		if !found {
			slot = c.alloc(&kinds.Producer{})
		}
		c.bind(param, slot)
	}
	return compileExpr(c, fn.Body)
}

func arithBuiltin(op kinds.ArithOp) builtin {
	return func(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
		left, _, err := pipeOrArg(c, call, "a")
		if err != nil {
			return 0, err
		}
		right, ok, err := findArg(c, call, "b")
		if err != nil {
			return 0, err
		}
		if !ok {
			right = c.alloc(&kinds.Producer{})
		}
		self := c.alloc(&kinds.Arithmetic{Op: op, Left: left, Right: right})
		c.use(left, self, graph.Output)
		c.use(right, self, graph.Output)
		return self, nil
	}
}

func compareBuiltin(op kinds.CompareOp) builtin {
	return func(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
		left, _, err := pipeOrArg(c, call, "a")
		if err != nil {
			return 0, err
		}
		right, ok, err := findArg(c, call, "b")
		if err != nil {
			return 0, err
		}
		if !ok {
			right = c.alloc(&kinds.Producer{})
		}
		self := c.alloc(&kinds.Comparison{Op: op, Left: left, Right: right})
		c.use(left, self, graph.Output)
		c.use(right, self, graph.Output)
		return self, nil
	}
}

func boolNotBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	input, _, err := pipeOrArg(c, call, "input")
	if err != nil {
		return 0, err
	}
	self := c.alloc(&kinds.BoolNot{Input: input, TrueTag: c.trueTag, FalseTag: c.falseTag})
	c.use(input, self, graph.Output)
	return self, nil
}

func sumBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	input, _, err := pipeOrArg(c, call, "input")
	if err != nil {
		return 0, err
	}
	self := c.alloc(&kinds.Accumulator{Input: input})
	c.use(input, self, graph.Output)
	return self, nil
}

func streamPulsesBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	input, _, err := pipeOrArg(c, call, "input")
	if err != nil {
		return 0, err
	}
	self := c.alloc(&kinds.Pulses{Input: input})
	c.use(input, self, graph.Output)
	return self, nil
}

// listAppendBuiltin implements `List/append(item, to:)` (spec §4.4.3):
// item_expr is expected to be `trigger |> template`, so the compiler
// compiles trigger once and captures template as a *types.Template rather
// than a live subgraph — ListAppender clones it fresh on every trigger
// fire (spec §4.4.4), so each appended item gets its own independent
// state instead of sharing one upstream node. A bare trigger with no `|>`
// (e.g. `add |> List/append(to: items)`) is the degenerate case: the
// template is the identity, so each clone is just a snapshot of trigger's
// value at append time — matching the builtin's pre-template behavior.
func listAppendBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	identity := func(itemSlot graph.SlotId) (graph.SlotId, error) { return itemSlot, nil }

	var trigger graph.SlotId
	var body func(graph.SlotId) (graph.SlotId, error)

	itemExpr, hasItem := findRawArg(call, "item")
	switch {
	case hasItem:
		if pipe, ok := itemExpr.Node.(ast.Pipe); ok {
			t, err := compileExpr(c, pipe.From)
			if err != nil {
				return 0, err
			}
			trigger = t
			to := pipe.To
			body = func(itemSlot graph.SlotId) (graph.SlotId, error) {
				return compilePipeFromSlot(c, itemSlot, to)
			}
		} else {
			t, err := compileExpr(c, itemExpr)
			if err != nil {
				return 0, err
			}
			trigger = t
			body = identity
		}
	case call.PipeInput != nil:
		t, err := compileExpr(c, *call.PipeInput)
		if err != nil {
			return 0, err
		}
		trigger = t
		body = identity
	default:
		return 0, fmt.Errorf("List/append requires an %q argument or a piped trigger", "item")
	}

	target, ok, err := findListTarget(c, call, "to")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("List/append requires a %q argument", "to")
	}

	tmpl, err := captureTemplate(c, body)
	if err != nil {
		return 0, err
	}
	// installNoKick: List/append is a pure side-effecting sink — it must
	// only fire when trigger actually changes (a real "add" event), never
	// once unconditionally at program load with whatever default value an
	// unwritten input reads as.
	self := c.installNoKick(&kinds.ListAppender{Trigger: trigger, Template: tmpl, Target: target})
	c.use(trigger, self, graph.Output)
	return self, nil
}

func listClearBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	trigger, _, err := pipeOrArg(c, call, "trigger")
	if err != nil {
		return 0, err
	}
	target, ok, err := findListTarget(c, call, "to")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("List/clear requires a %q argument", "to")
	}
	// installNoKick: see listAppendBuiltin — a clear must only ever fire
	// from a real trigger event, not once at load.
	self := c.installNoKick(&kinds.ListClearer{Trigger: trigger, Target: target})
	c.use(trigger, self, graph.Output)
	return self, nil
}

func listRemoveBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	trigger, _, err := pipeOrArg(c, call, "trigger")
	if err != nil {
		return 0, err
	}
	index, ok, err := findArg(c, call, "at")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("List/remove requires an %q argument", "at")
	}
	target, ok, err := findListTarget(c, call, "from")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("List/remove requires a %q argument", "from")
	}
	// installNoKick: see listAppendBuiltin — a remove must only ever fire
	// from a real trigger event, not once at load.
	self := c.installNoKick(&kinds.ListRemover{Trigger: trigger, Index: index, Target: target})
	c.use(trigger, self, graph.Output)
	return self, nil
}

func listCountBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	input, _, err := pipeOrArg(c, call, "input")
	if err != nil {
		return 0, err
	}
	self := c.alloc(&kinds.ListCount{Input: input})
	c.use(input, self, graph.Output)
	return self, nil
}

func listIsEmptyBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	input, _, err := pipeOrArg(c, call, "input")
	if err != nil {
		return 0, err
	}
	self := c.alloc(&kinds.ListIsEmpty{Input: input})
	c.use(input, self, graph.Output)
	return self, nil
}

func listMapBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	input, _, err := pipeOrArg(c, call, "input")
	if err != nil {
		return 0, err
	}
	fn, ok := funcArg(c, call, "with")
	if !ok {
		return 0, fmt.Errorf("List/map requires a %q argument naming a function", "with")
	}
	self := c.alloc(&kinds.ListMapper{Input: input, Fn: closureCompile(c, fn)})
	c.use(input, self, graph.Output)
	return self, nil
}

// listRetainBuiltin implements `List/retain(item, if: cond)` (spec
// §4.4.3): cond compiles once as a template with item bound to a
// placeholder entry slot, and FilteredView clones it live against every
// current and future item of input's backing Bus, keeping only the items
// whose clone currently reads truthy.
func listRetainBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	input, ok, err := pipeOrListSource(c, call, "input")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("List/retain requires a piped or named %q source", "input")
	}
	bindName, ok := bindNameArg(call, "item")
	if !ok {
		return 0, fmt.Errorf("List/retain requires an %q argument naming the per-item bind variable", "item")
	}
	condExpr, ok := findRawArg(call, "if")
	if !ok {
		return 0, fmt.Errorf("List/retain requires an %q argument", "if")
	}

	tmpl, err := captureTemplate(c, func(itemSlot graph.SlotId) (graph.SlotId, error) {
		c.pushScope()
		c.bind(bindName, itemSlot)
		out, err := compileExpr(c, condExpr)
		c.popScope()
		return out, err
	})
	if err != nil {
		return 0, err
	}

	self := c.alloc(&kinds.FilteredView{Source: input, Template: tmpl, TrueTag: c.trueTag, FalseTag: c.falseTag})
	c.use(input, self, graph.Output)
	return self, nil
}

func textTrimBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	input, _, err := pipeOrArg(c, call, "input")
	if err != nil {
		return 0, err
	}
	self := c.alloc(&kinds.TextTrim{Input: input})
	c.use(input, self, graph.Output)
	return self, nil
}

func textIsNotEmptyBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	input, _, err := pipeOrArg(c, call, "input")
	if err != nil {
		return 0, err
	}
	self := c.alloc(&kinds.TextIsNotEmpty{Input: input})
	c.use(input, self, graph.Output)
	return self, nil
}

func timerIntervalBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	ms := 1000.0
	for _, a := range call.Args {
		if a.Name != "ms" {
			continue
		}
		lit, ok := a.Value.Node.(ast.Literal)
		if !ok || lit.Kind != ast.LiteralNumber {
			c.warnf("Timer/interval's %q argument must be a literal number, using default 1000", "ms")
			break
		}
		ms = lit.Num
	}
	return c.alloc(&kinds.Timer{IntervalMs: int64(ms)}), nil
}

func routerGoToBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	input, _, err := pipeOrArg(c, call, "path")
	if err != nil {
		return 0, err
	}
	self := c.alloc(&kinds.Effect{Input: input, EffectType: types.EffectRouterGoTo})
	c.use(input, self, graph.Output)
	return self, nil
}

func documentNewBuiltin(c *Context, call ast.FunctionCall) (graph.SlotId, error) {
	input, ok, err := pipeOrArg(c, call, "root")
	if err != nil {
		return 0, err
	}
	if !ok {
		input = c.alloc(&kinds.Producer{})
	}
	self := c.alloc(&kinds.Effect{Input: input, EffectType: types.EffectDocumentRender})
	c.use(input, self, graph.Output)
	return self, nil
}
