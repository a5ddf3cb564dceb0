package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// Skip emits the compiler's interned sentinel Tag rather than Unit. Bare
// `SKIP` expressions compile to a plain Producer(Unit) (spec §4.4), except
// inside a List/map body compiled by closureCompile, where SKIP must be
// distinguishable from a body that legitimately evaluates to Unit: there
// the compiler allocates a Skip node, and closureCompile compares the
// body's result against the same interned tag.
type Skip struct {
	Tag value.TagId
}

func (s *Skip) New() types.Kind      { return &Skip{Tag: s.Tag} }
func (s *Skip) Type() types.KindType { return types.KindSkip }
func (s *Skip) Init() error          { return nil }
func (s *Skip) Destroy()             {}

// Remap is a no-op: Skip holds only its interned sentinel Tag.
func (s *Skip) Remap(func(graph.SlotId) graph.SlotId) {}

func (s *Skip) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	emit(ctx, self, value.Tag(s.Tag))
	return nil
}

// isSkip reports whether v is the sentinel value a Skip node produces.
func isSkip(v value.Value, skipTag value.TagId) bool {
	tag, ok := v.AsTag()
	return ok && tag == skipTag
}
