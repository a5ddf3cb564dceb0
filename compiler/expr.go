package compiler

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/BoonLang/boon-sub002/ast"
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/kinds"
	"github.com/BoonLang/boon-sub002/value"
)

// compileExpr dispatches on the concrete ast.Expression variant and
// returns the slot holding its compiled result, wiring routes from every
// slot it reads along the way (spec §4.4).
func compileExpr(c *Context, sp ast.Spanned[ast.Expression]) (graph.SlotId, error) {
	switch n := sp.Node.(type) {
	case ast.Literal:
		return compileLiteral(c, n)
	case ast.VariableRef:
		return compileVariableRef(c, n)
	case ast.ObjectLiteral:
		return compileObjectLiteral(c, n, false, 0)
	case ast.TaggedObjectLiteral:
		return compileObjectLiteral(c, n.Object, true, c.Arena.InternTag(n.Tag))
	case ast.ListLiteral:
		return compileListLiteral(c, n)
	case ast.Latest:
		return compileLatest(c, n)
	case ast.Pipe:
		return compilePipe(c, n)
	case ast.Text:
		return compileText(c, n)
	case ast.FieldAccess:
		return compileFieldAccess(c, n)
	case ast.FunctionCall:
		return compileFunctionCall(c, n)
	case ast.Link:
		return c.installNoKick(&kinds.IOPad{}), nil
	case ast.LinkAlias:
		return compileLinkAlias(c, n)
	case ast.Skip:
		if c.skippable {
			return c.alloc(&kinds.Skip{Tag: c.skipTag}), nil
		}
		return c.alloc(&kinds.Producer{Value: value.Unit()}), nil
	// Hold/Then/When/While only ever appear as a Pipe's To; reaching them
	// here means a malformed tree with no piped scrutinee.
	case ast.Hold, ast.Then, ast.When, ast.While:
		return 0, fmt.Errorf("%T used outside of a pipe", n)
	default:
		return 0, fmt.Errorf("compiler: unhandled expression %T", n)
	}
}

func compileLiteral(c *Context, lit ast.Literal) (graph.SlotId, error) {
	var v value.Value
	switch lit.Kind {
	case ast.LiteralNumber:
		v = value.Number(lit.Num)
	case ast.LiteralText:
		v = value.Text(lit.Text)
	case ast.LiteralBool:
		v = value.Bool(lit.TagOrBool == "True")
	case ast.LiteralTag:
		v = value.Tag(c.Arena.InternTag(lit.TagOrBool))
	default:
		v = value.Unit()
	}
	return c.alloc(&kinds.Producer{Value: v}), nil
}

func compileVariableRef(c *Context, ref ast.VariableRef) (graph.SlotId, error) {
	if slot, ok := c.links[ref.Name]; ok {
		return slot, nil
	}
	if slot, ok := c.lookup(ref.Name); ok {
		return slot, nil
	}
	if ref.Name == "True" {
		return c.alloc(&kinds.Producer{Value: value.Bool(true)}), nil
	}
	if ref.Name == "False" {
		return c.alloc(&kinds.Producer{Value: value.Bool(false)}), nil
	}
	if len(ref.Name) > 0 && unicode.IsUpper(rune(ref.Name[0])) {
		return c.alloc(&kinds.Producer{Value: value.Tag(c.Arena.InternTag(ref.Name))}), nil
	}
	c.warnf("unknown reference %q, degrading to Unit (spec §7 ErrUnknownReference)", ref.Name)
	return c.alloc(&kinds.Producer{Value: value.Unit()}), nil
}

// compileObjectFields implements spec §4.4 pass 3 (object pre-allocation):
// every field gets a placeholder slot, bound into scope, before any
// field's body compiles — mirroring pass 2's top-level variable
// pre-allocation — so a field can forward-reference a sibling field
// declared later in the same literal.
func compileObjectFields(c *Context, o ast.ObjectLiteral) ([]kinds.RouterField, error) {
	c.pushScope()
	defer c.popScope()

	placeholders := make([]graph.SlotId, len(o.Fields))
	for i, f := range o.Fields {
		slot := c.Arena.Alloc()
		c.trackAlloc(slot)
		placeholders[i] = slot
		c.bind(f.Name, slot)
	}

	fields := make([]kinds.RouterField, 0, len(o.Fields))
	for i, f := range o.Fields {
		slot, err := compileExpr(c, f.Value)
		if err != nil {
			return nil, err
		}
		placeholder := placeholders[i]
		c.Arena.SetKind(placeholder, &kinds.Wire{Input: slot})
		c.kicks = append(c.kicks, placeholder)
		c.use(slot, placeholder, graph.Output)
		fields = append(fields, kinds.RouterField{Field: c.Arena.InternField(f.Name), Input: placeholder})
	}
	return fields, nil
}

func compileObjectLiteral(c *Context, o ast.ObjectLiteral, tagged bool, tag value.TagId) (graph.SlotId, error) {
	fields, err := compileObjectFields(c, o)
	if err != nil {
		return 0, err
	}
	self := c.alloc(&kinds.Router{Fields: fields, Tagged: tagged, Tag: tag})
	for _, f := range fields {
		c.use(f.Input, self, graph.Output)
	}
	return self, nil
}

func compileListLiteral(c *Context, l ast.ListLiteral) (graph.SlotId, error) {
	items := make([]graph.SlotId, 0, len(l.Items))
	for _, it := range l.Items {
		slot, err := compileExpr(c, it)
		if err != nil {
			return 0, err
		}
		items = append(items, slot)
	}
	self := c.alloc(&kinds.Bus{StaticItems: items})
	for _, it := range items {
		c.use(it, self, graph.Output)
	}
	return self, nil
}

func compileLatest(c *Context, l ast.Latest) (graph.SlotId, error) {
	inputs := make([]kinds.CombinerInput, 0, len(l.Inputs))
	for _, in := range l.Inputs {
		slot, err := compileExpr(c, in.Value)
		if err != nil {
			return 0, err
		}
		inputs = append(inputs, kinds.CombinerInput{Name: c.Arena.InternField(in.Name), Input: slot})
	}
	self := c.alloc(&kinds.Combiner{Inputs: inputs})
	for _, in := range inputs {
		c.use(in.Input, self, graph.Output)
	}
	return self, nil
}

func compileText(c *Context, t ast.Text) (graph.SlotId, error) {
	interpolated := false
	for _, p := range t.Parts {
		if p.Interpolated != nil {
			interpolated = true
			break
		}
	}
	if !interpolated {
		var b strings.Builder
		for _, p := range t.Parts {
			b.WriteString(p.Literal)
		}
		return c.alloc(&kinds.Producer{Value: value.Text(b.String())}), nil
	}
	parts := make([]kinds.TemplatePart, 0, len(t.Parts))
	var inputs []graph.SlotId
	for _, p := range t.Parts {
		if p.Interpolated == nil {
			parts = append(parts, kinds.TemplatePart{Literal: p.Literal})
			continue
		}
		slot, err := compileExpr(c, *p.Interpolated)
		if err != nil {
			return 0, err
		}
		parts = append(parts, kinds.TemplatePart{Input: slot, IsInput: true})
		inputs = append(inputs, slot)
	}
	self := c.alloc(&kinds.TextTemplate{Parts: parts})
	for _, in := range inputs {
		c.use(in, self, graph.Output)
	}
	return self, nil
}

// compileFieldAccess direct-wires to the field's own slot when src is a
// statically-known Router with that field already resolvable at compile
// time, rather than allocating an Extractor — spec §4.4/§9's "lazy
// extraction vs. direct wiring" note: an Extractor is only needed when the
// source's shape isn't known until runtime.
func compileFieldAccess(c *Context, f ast.FieldAccess) (graph.SlotId, error) {
	src, err := compileExpr(c, f.Source)
	if err != nil {
		return 0, err
	}
	field := c.Arena.InternField(f.Field)
	if router, ok := c.Arena.Get(src).Kind.(*kinds.Router); ok {
		for _, rf := range router.Fields {
			if rf.Field == field {
				return rf.Input, nil
			}
		}
	}
	self := c.alloc(&kinds.Extractor{Input: src, Field: field})
	c.use(src, self, graph.Output)
	return self, nil
}

func compileLinkAlias(c *Context, la ast.LinkAlias) (graph.SlotId, error) {
	target, err := compileExpr(c, la.Target)
	if err != nil {
		return 0, err
	}
	self := c.alloc(&kinds.Extractor{Input: target, Field: c.Arena.InternField(la.Alias)})
	c.use(target, self, graph.Output)
	return self, nil
}

// compilePattern returns the arm's matcher predicate and the name (if
// any) the matched payload binds to inside the arm body (spec §4.4 When/
// While patterns).
func compilePattern(c *Context, pat ast.Pattern) (func(value.Value) (bool, value.Value), string) {
	switch p := pat.(type) {
	case ast.TagPattern:
		want := c.Arena.InternTag(p.Tag)
		return func(v value.Value) (bool, value.Value) {
			to, ok := v.AsTaggedObject()
			if !ok || to.Tag != want {
				return false, value.Unit()
			}
			return true, value.FromObject(to.Fields)
		}, p.Bind
	case ast.WildcardPattern:
		return func(v value.Value) (bool, value.Value) { return true, v }, p.Bind
	case ast.BindPattern:
		return func(v value.Value) (bool, value.Value) { return true, v }, p.Name
	default:
		return func(value.Value) (bool, value.Value) { return false, value.Unit() }, ""
	}
}

func compileArms(c *Context, astArms []ast.Arm) ([]kinds.Arm, error) {
	arms := make([]kinds.Arm, 0, len(astArms))
	for _, a := range astArms {
		matcher, bindName := compilePattern(c, a.Pattern)
		c.pushScope()
		bindSlot := graph.SlotId(-1)
		if bindName != "" {
			bindSlot = c.Arena.Alloc()
			c.trackAlloc(bindSlot)
			c.bind(bindName, bindSlot)
		}
		bodySlot, err := compileExpr(c, a.Body)
		c.popScope()
		if err != nil {
			return nil, err
		}
		arms = append(arms, kinds.Arm{Matcher: matcher, BindSlot: bindSlot, Body: bodySlot})
	}
	return arms, nil
}

func compilePipe(c *Context, p ast.Pipe) (graph.SlotId, error) {
	// FunctionCall keeps p.From as a literal AST expression rather than
	// pre-compiling it, so builtins that need the left-hand side's own
	// identity (findListTarget, listSourceSlot: resolving a bare
	// VariableRef against c.rawVars to reach a *kinds.Bus directly,
	// rather than the Wire-wrapped value compileExpr would hand back) can
	// still do so. The callee compiles it at most once, lazily, and only
	// if it reads its pipe input at all.
	if call, ok := p.To.Node.(ast.FunctionCall); ok {
		if call.PipeInput == nil {
			from := p.From
			call.PipeInput = &from
		}
		return compileFunctionCall(c, call)
	}

	input, err := compileExpr(c, p.From)
	if err != nil {
		return 0, err
	}
	return compilePipeFromSlot(c, input, p.To)
}

// compilePipeFromSlot compiles `to` as the right-hand side of a pipe whose
// left-hand side is already compiled, at input — used both by compilePipe
// (input is p.From's compiled slot, for every case but a bare FunctionCall)
// and by template capture (input is the template's placeholder entry slot,
// standing in for a trigger or item that does not exist as a literal AST
// expression — spec §4.4.4).
func compilePipeFromSlot(c *Context, input graph.SlotId, to ast.Spanned[ast.Expression]) (graph.SlotId, error) {
	switch t := to.Node.(type) {
	case ast.When:
		arms, err := compileArms(c, t.Arms)
		if err != nil {
			return 0, err
		}
		mux := &kinds.PatternMux{Input: input, Arms: arms}
		if err := mux.Init(); err != nil {
			return 0, err
		}
		self := c.alloc(mux)
		c.use(input, self, graph.Output)
		for _, a := range arms {
			c.use(a.Body, self, graph.Output)
		}
		return self, nil

	case ast.While:
		arms, err := compileArms(c, t.Arms)
		if err != nil {
			return 0, err
		}
		self := c.alloc(&kinds.SwitchedWire{Input: input, Arms: arms})
		c.use(input, self, graph.Output)
		for _, a := range arms {
			c.use(a.Body, self, graph.Output)
		}
		return self, nil

	case ast.Then:
		mark := c.kicksMark()
		body, err := compileExpr(c, t.Body)
		if err != nil {
			return 0, err
		}
		self := c.alloc(&kinds.Wire{Input: body})
		c.use(body, self, graph.Output)
		nodes := c.dropNonProducerKicks(mark)
		c.retrigger(input, nodes)
		return self, nil

	case ast.Hold:
		return compileHoldFromSlot(c, input, t)

	case ast.FunctionCall:
		call := t
		if call.PipeInput == nil {
			// Stand in for the missing literal left-hand expression with a
			// scratch binding to input, so pipeOrArg's ordinary
			// compileExpr(*call.PipeInput) path resolves it like any other
			// VariableRef.
			c.pushScope()
			const pipeSentinel = "$pipeInput"
			c.bind(pipeSentinel, input)
			ref := ast.Spanned[ast.Expression]{Node: ast.VariableRef{Name: pipeSentinel}, Span: to.Span}
			call.PipeInput = &ref
			slot, err := compileFunctionCall(c, call)
			c.popScope()
			return slot, err
		}
		return compileFunctionCall(c, call)

	default:
		return compileExpr(c, to)
	}
}

// compileHold implements `initial |> HOLD state { body }` (spec §4.4.1):
// state binds directly to the Register's own slot rather than a separate
// wrapper node, since graph.Arena.CurrentValue never follows routes — so
// body reads the slot's value as of the start of this Eval, before
// Register overwrites it with body's own result a few lines later in
// kinds.Register.Eval. That read-before-write ordering is what makes the
// reference one-way: nothing routes from the register back into body, so
// body's own recomputation can never re-trigger the register that reads
// it. noRouteFrom enforces that: every builtin wires its operands with
// use() unconditionally, so a bare state reference (`count |> Math/add
// (b: 1)`) would otherwise add a real route from the register into its
// own body and recompute forever.
func compileHold(c *Context, initial ast.Spanned[ast.Expression], h ast.Hold) (graph.SlotId, error) {
	initialSlot, err := compileExpr(c, initial)
	if err != nil {
		return 0, err
	}
	return compileHoldFromSlot(c, initialSlot, h)
}

// compileHoldFromSlot is compileHold with its initial value already
// compiled, so template capture can drive it from a placeholder entry slot
// instead of a literal initial expression (spec §4.4.4).
func compileHoldFromSlot(c *Context, initialSlot graph.SlotId, h ast.Hold) (graph.SlotId, error) {
	regSlot := c.Arena.Alloc()
	c.trackAlloc(regSlot)

	c.pushScope()
	c.bind(h.StateName, regSlot)
	c.noRouteFrom[regSlot] = true
	bodySlot, err := compileExpr(c, h.Body)
	delete(c.noRouteFrom, regSlot)
	c.popScope()
	if err != nil {
		return 0, err
	}

	persistKey := ""
	if h.StateName != "" {
		persistKey = "hold:" + h.StateName
	}
	c.Arena.SetKind(regSlot, &kinds.Register{Initial: initialSlot, Body: bodySlot, PersistKey: persistKey})
	c.kicks = append(c.kicks, regSlot)
	c.addHold(h.StateName, regSlot, persistKey)

	c.use(initialSlot, regSlot, graph.Output)
	c.use(bodySlot, regSlot, graph.Input(0))
	return regSlot, nil
}
