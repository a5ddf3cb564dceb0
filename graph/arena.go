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

// Package graph implements the dataflow arena: slot allocation, typed
// ports, the subscription (routing) table, and field/tag interning (spec
// §3.2, §4.2). The arena is exclusively owned by the event loop; callers
// never mutate it concurrently (spec §5 — single-threaded discipline, no
// locking required).
package graph

import (
	"github.com/BoonLang/boon-sub002/value"
)

// SlotId is a dense integer handle identifying a Node in the Arena. Slot
// ids are never reused or moved (spec §3.2, §4.2 invariant 1).
type SlotId int32

// PortKind distinguishes a node's output port from one of its input ports.
type PortKind uint8

const (
	PortOutput PortKind = iota
	PortInput
)

// Port addresses either a node's single Output or its n-th Input.
type Port struct {
	Kind  PortKind
	Index int
}

// Output is the canonical Output port value.
var Output = Port{Kind: PortOutput}

// Input addresses the n-th input port of a node.
func Input(n int) Port {
	return Port{Kind: PortInput, Index: n}
}

// Route is a directed subscription edge: when Source's value changes, the
// event loop marks (Destination, DestinationPort) dirty (spec §3.2, §4.2).
type Route struct {
	Source      SlotId
	Destination SlotId
	Port        Port
}

// subscriber is a single (destination, port) pair recorded against a
// source slot, preserving insertion order (spec §4.2 invariant: subscribers
// returns insertion order).
type subscriber struct {
	dst  SlotId
	port Port
}

// NodeKind is the storage type for a node's behavior (see the types and
// kinds packages for the real interface — types.Kind). The arena itself
// only needs to hold it and track identity plus a cached value; it never
// calls methods on it directly, which keeps this bottom-most package free
// of a dependency on types/kinds (spec §3.2: "a node is a Kind ... an
// optional cached current value ... optional extension state").
type NodeKind interface{}

// Node is one arena-allocated dataflow entity.
type Node struct {
	Id SlotId

	// Kind captures the node's behavior. nil until the compiler installs
	// one (spec §3.2: "a node's kind may be mutated only by the compiler
	// ... or by a node's own update logic").
	Kind NodeKind

	// Current holds the node's cached last-emitted value. Reads (e.g.
	// Wire transparency, Extractor resolution) go through this cache
	// rather than re-evaluating.
	Current value.Value

	// HasValue distinguishes "never emitted" from "emitted Unit".
	HasValue bool
}

// Arena owns every allocated Node plus the routing table and the
// field/tag interning tables. It is not safe for concurrent use — the
// event loop is the sole owner and driver (spec §5).
type Arena struct {
	nodes []Node

	// routes maps a source slot to its subscribers, insertion-ordered.
	routes map[SlotId][]subscriber

	fieldNames []string
	fieldIds   map[string]value.FieldId

	tagNames []string
	tagIds   map[string]value.TagId
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		routes:   make(map[SlotId][]subscriber),
		fieldIds: make(map[string]value.FieldId),
		tagIds:   make(map[string]value.TagId),
	}
}

// Alloc reserves a fresh SlotId with an empty (nil) kind.
func (a *Arena) Alloc() SlotId {
	id := SlotId(len(a.nodes))
	a.nodes = append(a.nodes, Node{Id: id})
	return id
}

// Get returns a pointer to the node at id, through which callers read its
// bookkeeping fields (Kind/Current/HasValue). Use SetKind/SetValue to mutate.
func (a *Arena) Get(id SlotId) *Node {
	return &a.nodes[id]
}

// SetKind installs or replaces a slot's behavior. Per spec §3.2, this is
// only ever called by the compiler (initial build, template cloning) or by
// a kind's own update logic for kinds holding internal extension state
// that the kind reassigns to itself.
func (a *Arena) SetKind(id SlotId, kind NodeKind) {
	a.nodes[id].Kind = kind
}

// SetValue updates a slot's cached current value and reports whether the
// new value differs from the old one (by structural equality). Kinds use
// the return value to decide whether to propagate (spec §8 invariant 6:
// HOLD idempotence — writing the same value must not produce a downstream
// tick).
func (a *Arena) SetValue(id SlotId, v value.Value) (changed bool) {
	n := &a.nodes[id]
	changed = !n.HasValue || !n.Current.Equal(v)
	n.Current = v
	n.HasValue = true
	return changed
}

// CurrentValue reads a slot's cached value without following Wire chains;
// reading a Wire slot returns whatever that Wire last copied from its
// input. The event loop's CurrentValue returns this same cached value.
func (a *Arena) CurrentValue(id SlotId) (value.Value, bool) {
	n := &a.nodes[id]
	return n.Current, n.HasValue
}

// Len reports the number of allocated slots.
func (a *Arena) Len() int { return len(a.nodes) }

// AddRoute records a subscription (src, dst, port). Routes are append-only
// during normal operation; they remain until dst is logically orphaned
// (spec §4.2 invariant 2, §5).
func (a *Arena) AddRoute(src, dst SlotId, port Port) {
	a.routes[src] = append(a.routes[src], subscriber{dst: dst, port: port})
}

// Subscribers returns (dst, port) pairs registered against src, in
// insertion order (spec §4.2 invariant: "subscribers returns insertion
// order").
func (a *Arena) Subscribers(src SlotId) []Route {
	subs := a.routes[src]
	out := make([]Route, len(subs))
	for i, s := range subs {
		out[i] = Route{Source: src, Destination: s.dst, Port: s.port}
	}
	return out
}

// DropSubscriber removes a single (dst, port) subscription from src's
// subscriber list. Used when a node is orphaned (spec §4.5 HOLD garbage
// collection) or when a template clone needs to rewire an entry slot.
func (a *Arena) DropSubscriber(src, dst SlotId, port Port) {
	subs := a.routes[src]
	for i, s := range subs {
		if s.dst == dst && s.port == port {
			a.routes[src] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// InternField interns a field name, returning a stable FieldId. Interning
// is append-only for the runtime's lifetime (spec §3.2).
func (a *Arena) InternField(name string) value.FieldId {
	if id, ok := a.fieldIds[name]; ok {
		return id
	}
	id := value.FieldId(len(a.fieldNames))
	a.fieldNames = append(a.fieldNames, name)
	a.fieldIds[name] = id
	return id
}

// FieldName looks up a previously interned field id.
func (a *Arena) FieldName(id value.FieldId) string {
	if int(id) < 0 || int(id) >= len(a.fieldNames) {
		return ""
	}
	return a.fieldNames[id]
}

// InternTag interns a tag name, returning a stable TagId.
func (a *Arena) InternTag(name string) value.TagId {
	if id, ok := a.tagIds[name]; ok {
		return id
	}
	id := value.TagId(len(a.tagNames))
	a.tagNames = append(a.tagNames, name)
	a.tagIds[name] = id
	return id
}

// TagName looks up a previously interned tag id.
func (a *Arena) TagName(id value.TagId) string {
	if int(id) < 0 || int(id) >= len(a.tagNames) {
		return ""
	}
	return a.tagNames[id]
}
