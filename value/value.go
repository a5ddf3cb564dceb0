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

// Package value implements the runtime payload sum type shared by every
// dataflow node: Unit, Bool, Number, Text, Tag, Object, TaggedObject, List,
// and the opaque handle variants (CellRef, LinkRef, TimerRef,
// CollectionHandle).
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the variant held by a Value.
type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindNumber
	KindText
	KindTag
	KindObject
	KindTaggedObject
	KindList
	KindCellRef
	KindLinkRef
	KindTimerRef
	KindCollectionHandle
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "Unit"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindText:
		return "Text"
	case KindTag:
		return "Tag"
	case KindObject:
		return "Object"
	case KindTaggedObject:
		return "TaggedObject"
	case KindList:
		return "List"
	case KindCellRef:
		return "CellRef"
	case KindLinkRef:
		return "LinkRef"
	case KindTimerRef:
		return "TimerRef"
	case KindCollectionHandle:
		return "CollectionHandle"
	default:
		return "Unknown"
	}
}

// FieldId is an interned field-name identifier, stable for the lifetime of
// the runtime (see graph.Arena.InternField).
type FieldId int32

// TagId is an interned tag-name identifier, stable for the lifetime of the
// runtime (see graph.Arena.InternTag).
type TagId int32

// Object is an immutable, unordered mapping from interned field id to
// Value. Object and List values are shared immutably: mutation always
// produces a new top-level Value (copy-on-write), never an in-place edit.
type Object struct {
	fields map[FieldId]Value
}

// NewObject builds an Object from a field map. The map is copied so the
// caller's map can be mutated afterwards without aliasing the Object.
func NewObject(fields map[FieldId]Value) Object {
	copied := make(map[FieldId]Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Object{fields: copied}
}

// Get returns the field's value and true, or the zero Value and false if
// the field is absent.
func (o Object) Get(id FieldId) (Value, bool) {
	v, ok := o.fields[id]
	return v, ok
}

// With returns a new Object with field id set to v, leaving the receiver
// untouched (copy-on-write).
func (o Object) With(id FieldId, v Value) Object {
	next := make(map[FieldId]Value, len(o.fields)+1)
	for k, existing := range o.fields {
		next[k] = existing
	}
	next[id] = v
	return Object{fields: next}
}

// Fields returns the set of interned field ids present on the object, in an
// unspecified but stable-per-call order (sorted by id) so callers that need
// determinism (e.g. template cloning, display) don't have to re-sort.
func (o Object) Fields() []FieldId {
	ids := make([]FieldId, 0, len(o.fields))
	for id := range o.fields {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (o Object) Len() int { return len(o.fields) }

func (o Object) equal(other Object) bool {
	if len(o.fields) != len(other.fields) {
		return false
	}
	for k, v := range o.fields {
		ov, ok := other.fields[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// TaggedObject is a sum-type variant: a Tag naming the variant plus an
// Object carrying its payload fields.
type TaggedObject struct {
	Tag    TagId
	Fields Object
}

// List is an immutable, ordered, copy-on-write sequence of values.
type List struct {
	items []Value
}

// NewList builds a List from items, copying the slice defensively.
func NewList(items []Value) List {
	copied := make([]Value, len(items))
	copy(copied, items)
	return List{items: copied}
}

func (l List) Len() int { return len(l.items) }

func (l List) At(i int) (Value, bool) {
	if i < 0 || i >= len(l.items) {
		return Value{}, false
	}
	return l.items[i], true
}

// Items returns a defensive copy of the underlying slice.
func (l List) Items() []Value {
	out := make([]Value, len(l.items))
	copy(out, l.items)
	return out
}

// Appended returns a new List with v appended, leaving the receiver
// untouched.
func (l List) Appended(v Value) List {
	next := make([]Value, len(l.items)+1)
	copy(next, l.items)
	next[len(l.items)] = v
	return List{items: next}
}

// Truncated returns a new List containing only the first n items.
func (l List) Truncated(n int) List {
	if n >= len(l.items) {
		return l
	}
	if n < 0 {
		n = 0
	}
	next := make([]Value, n)
	copy(next, l.items[:n])
	return List{items: next}
}

func (l List) equal(other List) bool {
	if len(l.items) != len(other.items) {
		return false
	}
	for i := range l.items {
		if !l.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}

// HandleKind distinguishes between the four opaque handle flavors that
// share the same representation (an interned runtime entity id).
type HandleKind uint8

const (
	HandleCell HandleKind = iota
	HandleLink
	HandleTimer
	HandleCollection
)

// Handle is an opaque reference to a live dataflow entity (a HOLD's
// CellRef, a LINK's LinkRef, a Timer's TimerRef, or a Collection's
// CollectionHandle). Handles are compared by id, never fabricated by user
// code — they only originate from compiler or collection-operator output.
type Handle struct {
	Kind HandleKind
	Id   int64
}

// Value is the runtime payload sum type (spec §3.1). The zero Value is
// Unit.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	text   string
	tag    TagId
	object Object
	tagged TaggedObject
	list   List
	handle Handle
}

// Unit returns the absence-of-value singleton.
func Unit() Value { return Value{kind: KindUnit} }

// Bool constructs a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number constructs a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Text constructs a Text Value from an immutable UTF-8 string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Tag constructs an interned-symbol Value.
func Tag(id TagId) Value { return Value{kind: KindTag, tag: id} }

// FromObject wraps an Object as a Value.
func FromObject(o Object) Value { return Value{kind: KindObject, object: o} }

// FromTaggedObject wraps a TaggedObject as a Value.
func FromTaggedObject(t TaggedObject) Value {
	return Value{kind: KindTaggedObject, tagged: t}
}

// FromList wraps a List as a Value.
func FromList(l List) Value { return Value{kind: KindList, list: l} }

// FromHandle wraps an opaque handle as a Value.
func FromHandle(h Handle) Value {
	var k Kind
	switch h.Kind {
	case HandleCell:
		k = KindCellRef
	case HandleLink:
		k = KindLinkRef
	case HandleTimer:
		k = KindTimerRef
	default:
		k = KindCollectionHandle
	}
	return Value{kind: k, handle: h}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsUnit() bool { return v.kind == KindUnit }

// AsBool reports whether v is the Bool variant and returns its payload.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsNumber reports whether v is the Number variant and returns its payload.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.n, true
}

// AsText reports whether v is the Text variant and returns its payload.
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.text, true
}

// AsTag reports whether v is the Tag variant and returns its payload.
func (v Value) AsTag() (TagId, bool) {
	if v.kind != KindTag {
		return 0, false
	}
	return v.tag, true
}

// AsObject reports whether v is the Object variant and returns its
// payload.
func (v Value) AsObject() (Object, bool) {
	if v.kind != KindObject {
		return Object{}, false
	}
	return v.object, true
}

// AsTaggedObject reports whether v is the TaggedObject variant and returns
// its payload.
func (v Value) AsTaggedObject() (TaggedObject, bool) {
	if v.kind != KindTaggedObject {
		return TaggedObject{}, false
	}
	return v.tagged, true
}

// AsList reports whether v is the List variant and returns its payload.
func (v Value) AsList() (List, bool) {
	if v.kind != KindList {
		return List{}, false
	}
	return v.list, true
}

// AsHandle reports whether v is one of the opaque handle variants and
// returns its payload.
func (v Value) AsHandle() (Handle, bool) {
	switch v.kind {
	case KindCellRef, KindLinkRef, KindTimerRef, KindCollectionHandle:
		return v.handle, true
	default:
		return Handle{}, false
	}
}

// Get performs shallow field access: value.get(field). Returns Unit and
// false if v is not an Object/TaggedObject or lacks the field, per spec
// §4.1. TaggedObject projection consults its fields Object (spec §8
// round-trip law: get(TaggedObject{tag,fields}, f) == get(fields, f)).
func (v Value) Get(field FieldId) (Value, bool) {
	switch v.kind {
	case KindObject:
		return v.object.Get(field)
	case KindTaggedObject:
		return v.tagged.Fields.Get(field)
	default:
		return Unit(), false
	}
}

// Truthy implements the Bool(true)/Tag("True") interchangeability rule
// from spec §4.1: booleans and the True/False tags coerce identically
// under pattern matching and boolean coercion.
func Truthy(v Value, trueTag, falseTag TagId) (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindTag:
		switch v.tag {
		case trueTag:
			return true, true
		case falseTag:
			return false, true
		}
	}
	return false, false
}

// Equal implements structural equality, except for opaque handles which
// compare by id (spec §3.1 invariant).
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindUnit:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindText:
		return v.text == other.text
	case KindTag:
		return v.tag == other.tag
	case KindObject:
		return v.object.equal(other.object)
	case KindTaggedObject:
		return v.tagged.Tag == other.tagged.Tag && v.tagged.Fields.equal(other.tagged.Fields)
	case KindList:
		return v.list.equal(other.list)
	case KindCellRef, KindLinkRef, KindTimerRef, KindCollectionHandle:
		return v.handle == other.handle
	default:
		return false
	}
}

// Display renders a Text-coercible string for v. Number display elides a
// trailing ".0" for integral values (spec §4.1).
func (v Value) Display(tagName func(TagId) string, fieldName func(FieldId) string) string {
	switch v.kind {
	case KindUnit:
		return ""
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindNumber:
		return formatNumber(v.n)
	case KindText:
		return v.text
	case KindTag:
		if tagName != nil {
			return tagName(v.tag)
		}
		return fmt.Sprintf("Tag(%d)", v.tag)
	case KindObject:
		return displayObject(v.object, tagName, fieldName)
	case KindTaggedObject:
		name := fmt.Sprintf("Tag(%d)", v.tagged.Tag)
		if tagName != nil {
			name = tagName(v.tagged.Tag)
		}
		return name + displayObject(v.tagged.Fields, tagName, fieldName)
	case KindList:
		parts := make([]string, v.list.Len())
		for i, item := range v.list.items {
			parts[i] = item.Display(tagName, fieldName)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindCellRef:
		return fmt.Sprintf("CellRef(%d)", v.handle.Id)
	case KindLinkRef:
		return fmt.Sprintf("LinkRef(%d)", v.handle.Id)
	case KindTimerRef:
		return fmt.Sprintf("TimerRef(%d)", v.handle.Id)
	case KindCollectionHandle:
		return fmt.Sprintf("CollectionHandle(%d)", v.handle.Id)
	default:
		return ""
	}
}

func displayObject(o Object, tagName func(TagId) string, fieldName func(FieldId) string) string {
	ids := o.Fields()
	parts := make([]string, len(ids))
	for i, id := range ids {
		name := fmt.Sprintf("f%d", id)
		if fieldName != nil {
			name = fieldName(id)
		}
		val, _ := o.Get(id)
		parts[i] = name + ": " + val.Display(tagName, fieldName)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatNumber(n float64) string {
	if math.IsNaN(n) {
		return "NaN"
	}
	if math.IsInf(n, 1) {
		return "Infinity"
	}
	if math.IsInf(n, -1) {
		return "-Infinity"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
