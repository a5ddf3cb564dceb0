package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// ArithOp is one of the Math/* builtin operators (spec §6.6).
type ArithOp uint8

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithMod
)

// Arithmetic evaluates a binary numeric operator over Left and Right
// whenever either changes (spec §4.3). Non-numeric operands degrade to
// Number(0) rather than erroring (spec §7).
type Arithmetic struct {
	Op          ArithOp
	Left, Right graph.SlotId
}

func (a *Arithmetic) New() types.Kind      { return &Arithmetic{Op: a.Op, Left: a.Left, Right: a.Right} }
func (a *Arithmetic) Type() types.KindType { return types.KindArithmetic }
func (a *Arithmetic) Init() error          { return nil }
func (a *Arithmetic) Destroy()             {}

func (a *Arithmetic) Remap(f func(graph.SlotId) graph.SlotId) {
	a.Left, a.Right = f(a.Left), f(a.Right)
}

func (a *Arithmetic) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	l, _ := read(ctx, a.Left).AsNumber()
	r, _ := read(ctx, a.Right).AsNumber()
	var result float64
	switch a.Op {
	case ArithAdd:
		result = l + r
	case ArithSub:
		result = l - r
	case ArithMul:
		result = l * r
	case ArithDiv:
		if r == 0 {
			ctx.Logger().Debugf("Math/divide: division by zero at slot %d, degrading to 0", self)
			result = 0
		} else {
			result = l / r
		}
	case ArithMod:
		if r == 0 {
			result = 0
		} else {
			result = float64(int64(l) % int64(r))
		}
	}
	emit(ctx, self, value.Number(result))
	return nil
}

// CompareOp is one of the comparison builtin operators (spec §6.6).
type CompareOp uint8

const (
	CompareEq CompareOp = iota
	CompareNe
	CompareLt
	CompareLe
	CompareGt
	CompareGe
)

// Comparison evaluates a binary comparison over Left and Right, emitting
// Bool (spec §4.3). Equality uses value.Value.Equal (structural); ordering
// operators compare numerically and degrade to false for non-numeric
// operands.
type Comparison struct {
	Op          CompareOp
	Left, Right graph.SlotId
}

func (c *Comparison) New() types.Kind      { return &Comparison{Op: c.Op, Left: c.Left, Right: c.Right} }
func (c *Comparison) Type() types.KindType { return types.KindComparison }
func (c *Comparison) Init() error          { return nil }
func (c *Comparison) Destroy()             {}

func (c *Comparison) Remap(f func(graph.SlotId) graph.SlotId) {
	c.Left, c.Right = f(c.Left), f(c.Right)
}

func (c *Comparison) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	l := read(ctx, c.Left)
	r := read(ctx, c.Right)
	if c.Op == CompareEq {
		emit(ctx, self, value.Bool(l.Equal(r)))
		return nil
	}
	if c.Op == CompareNe {
		emit(ctx, self, value.Bool(!l.Equal(r)))
		return nil
	}
	ln, lok := l.AsNumber()
	rn, rok := r.AsNumber()
	if !lok || !rok {
		emit(ctx, self, value.Bool(false))
		return nil
	}
	var result bool
	switch c.Op {
	case CompareLt:
		result = ln < rn
	case CompareLe:
		result = ln <= rn
	case CompareGt:
		result = ln > rn
	case CompareGe:
		result = ln >= rn
	}
	emit(ctx, self, value.Bool(result))
	return nil
}

// BoolNot negates Input's truthiness (Bool or the True/False tags, spec
// §4.1), always emitting a plain Bool.
type BoolNot struct {
	Input     graph.SlotId
	TrueTag   value.TagId
	FalseTag  value.TagId
}

func (n *BoolNot) New() types.Kind {
	return &BoolNot{Input: n.Input, TrueTag: n.TrueTag, FalseTag: n.FalseTag}
}
func (n *BoolNot) Type() types.KindType { return types.KindBoolNot }
func (n *BoolNot) Init() error          { return nil }
func (n *BoolNot) Destroy()             {}

func (n *BoolNot) Remap(f func(graph.SlotId) graph.SlotId) { n.Input = f(n.Input) }

func (n *BoolNot) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	b, ok := value.Truthy(read(ctx, n.Input), n.TrueTag, n.FalseTag)
	if !ok {
		emit(ctx, self, value.Bool(true))
		return nil
	}
	emit(ctx, self, value.Bool(!b))
	return nil
}
