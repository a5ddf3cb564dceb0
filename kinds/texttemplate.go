package kinds

import (
	"strings"

	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// TemplatePart is one fragment of a TEXT block: either a literal string or
// an interpolated slot whose Display()ed value is concatenated in place
// (spec §4.4 Text).
type TemplatePart struct {
	Literal string
	Input   graph.SlotId
	IsInput bool
}

// TextTemplate re-renders its parts into one Text value whenever any
// interpolated part changes (spec §4.3 TextTemplate). A template with no
// interpolated parts compiles to a Producer instead (spec §4.4).
type TextTemplate struct {
	Parts    []TemplatePart
	tagName  func(value.TagId) string
	fieldName func(value.FieldId) string
}

func (t *TextTemplate) New() types.Kind {
	return &TextTemplate{Parts: append([]TemplatePart(nil), t.Parts...), tagName: t.tagName, fieldName: t.fieldName}
}
func (t *TextTemplate) Type() types.KindType { return types.KindTextTemplate }
func (t *TextTemplate) Init() error          { return nil }
func (t *TextTemplate) Destroy()             {}

func (t *TextTemplate) Remap(f func(graph.SlotId) graph.SlotId) {
	for i := range t.Parts {
		if t.Parts[i].IsInput {
			t.Parts[i].Input = f(t.Parts[i].Input)
		}
	}
}

func (t *TextTemplate) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	var b strings.Builder
	for _, p := range t.Parts {
		if !p.IsInput {
			b.WriteString(p.Literal)
			continue
		}
		b.WriteString(read(ctx, p.Input).Display(t.tagName, t.fieldName))
	}
	emit(ctx, self, value.Text(b.String()))
	return nil
}

// TextTrim emits Input's current text with leading/trailing whitespace
// removed (spec §4.3 derived text operations).
type TextTrim struct {
	Input graph.SlotId
}

func (t *TextTrim) New() types.Kind      { return &TextTrim{Input: t.Input} }
func (t *TextTrim) Type() types.KindType { return types.KindTextTrim }
func (t *TextTrim) Init() error          { return nil }
func (t *TextTrim) Destroy()             {}

func (t *TextTrim) Remap(f func(graph.SlotId) graph.SlotId) { t.Input = f(t.Input) }

func (t *TextTrim) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	s, _ := read(ctx, t.Input).AsText()
	emit(ctx, self, value.Text(strings.TrimSpace(s)))
	return nil
}

// TextIsNotEmpty emits whether Input's current text is non-empty after
// trimming (spec §4.3 derived text operations).
type TextIsNotEmpty struct {
	Input graph.SlotId
}

func (t *TextIsNotEmpty) New() types.Kind      { return &TextIsNotEmpty{Input: t.Input} }
func (t *TextIsNotEmpty) Type() types.KindType { return types.KindTextIsNotEmpty }
func (t *TextIsNotEmpty) Init() error          { return nil }
func (t *TextIsNotEmpty) Destroy()             {}

func (t *TextIsNotEmpty) Remap(f func(graph.SlotId) graph.SlotId) { t.Input = f(t.Input) }

func (t *TextIsNotEmpty) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	s, _ := read(ctx, t.Input).AsText()
	emit(ctx, self, value.Bool(strings.TrimSpace(s) != ""))
	return nil
}
