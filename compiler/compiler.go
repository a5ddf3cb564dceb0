package compiler

import (
	"fmt"

	"github.com/BoonLang/boon-sub002/ast"
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/kinds"
)

// CompileProgram implements spec §4.4's compile_program passes over a
// parsed ast.Program:
//
//  1. collect every top-level Function by name, so forward calls resolve.
//  2. pre-allocate a placeholder slot per top-level Variable and bind it
//     into scope, so forward references between variables resolve.
//  3. object pre-allocation: compileObjectFields pre-allocates a
//     placeholder slot per ObjectLiteral field (mirroring pass 2) before
//     any field body compiles, so a field can forward-reference a sibling
//     field declared later in the same literal.
//  4. compile each variable's body expression, wiring its result into the
//     variable's placeholder slot through a Wire so the stable binding
//     slot and the (possibly much larger) compiled subgraph stay
//     distinct.
func CompileProgram(arena *graph.Arena, prog *ast.Program) (*Program, error) {
	c := newContext(arena)

	// Pass 1: function table.
	for i := range prog.Functions {
		fn := &prog.Functions[i]
		c.funcs[fn.Name] = fn
	}

	// Pass 2: variable placeholders.
	placeholders := make(map[string]graph.SlotId, len(prog.Variables))
	for _, v := range prog.Variables {
		slot := c.Arena.Alloc()
		placeholders[v.Name] = slot
		c.bind(v.Name, slot)
	}

	// Pass 4: body compilation.
	for _, v := range prog.Variables {
		resultSlot, err := compileExpr(c, v.Value)
		if err != nil {
			return nil, fmt.Errorf("compiling %q: %w", v.Name, err)
		}
		placeholder := placeholders[v.Name]
		c.Arena.SetKind(placeholder, &kinds.Wire{Input: resultSlot})
		c.kicks = append(c.kicks, placeholder)
		c.use(resultSlot, placeholder, graph.Output)

		c.rawVars[v.Name] = resultSlot
		if _, isLink := v.Value.Node.(ast.Link); isLink {
			c.links[v.Name] = resultSlot
		}
	}

	vars := make(map[string]graph.SlotId, len(placeholders))
	for name, slot := range placeholders {
		vars[name] = slot
	}

	return &Program{
		Arena:    arena,
		Vars:     vars,
		KickList: append([]graph.SlotId(nil), c.kicks...),
		Holds:    append([]HoldInfo(nil), c.holds...),
		SkipTag:  c.skipTag,
		TrueTag:  c.trueTag,
		FalseTag: c.falseTag,
		Links:    c.links,
	}, nil
}
