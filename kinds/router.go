package kinds

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// RouterField pairs an interned field id with the slot feeding it.
type RouterField struct {
	Field value.FieldId
	Input graph.SlotId
}

// Router assembles an Object (or, when Tagged is set, a TaggedObject) from
// its fields' current values, re-emitting the whole structure whenever any
// field input changes (spec §4.3, §4.4 ObjectLiteral/TaggedObjectLiteral).
type Router struct {
	Fields []RouterField
	Tagged bool
	Tag    value.TagId
}

func (r *Router) New() types.Kind {
	return &Router{Fields: append([]RouterField(nil), r.Fields...), Tagged: r.Tagged, Tag: r.Tag}
}
func (r *Router) Type() types.KindType { return types.KindRouter }
func (r *Router) Init() error          { return nil }
func (r *Router) Destroy()             {}

func (r *Router) Remap(f func(graph.SlotId) graph.SlotId) {
	for i := range r.Fields {
		r.Fields[i].Input = f(r.Fields[i].Input)
	}
}

func (r *Router) Eval(ctx types.EvalContext, self graph.SlotId, port graph.Port) error {
	fields := make(map[value.FieldId]value.Value, len(r.Fields))
	for _, f := range r.Fields {
		fields[f.Field] = read(ctx, f.Input)
	}
	obj := value.NewObject(fields)
	if r.Tagged {
		emit(ctx, self, value.FromTaggedObject(value.TaggedObject{Tag: r.Tag, Fields: obj}))
		return nil
	}
	emit(ctx, self, value.FromObject(obj))
	return nil
}
