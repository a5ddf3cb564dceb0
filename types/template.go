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

package types

import "github.com/BoonLang/boon-sub002/graph"

// TemplateRoute is one internal route the compiler wired while capturing a
// template, with both endpoints still naming the template's own (pre-clone)
// slots; CloneTemplate rewrites them through the clone's old->new map
// before replaying them against the arena (spec §4.4.4 step 3).
type TemplateRoute struct {
	Src, Dst graph.SlotId
	Port     graph.Port
}

// TemplateHold describes one HOLD compiled inside a template body. A clone
// registers its own copy under a prefix-scoped id distinct from every other
// clone's, so each item's HOLDs live in disjoint HOLD-table entries (spec
// §4.4.3 "item identity", §8 property 8) and can be collected together when
// that item's scope goes inactive (§8 property 9).
type TemplateHold struct {
	Id         string
	Slot       graph.SlotId
	PersistKey string
}

// Template is a contiguous, disposable subgraph compiled once against a
// placeholder entry slot (Input) and never evaluated directly — only its
// clones run (spec §4.4.4). Nodes lists every slot the template owns,
// Input included; CloneTemplate allocates a fresh slot per entry, copies
// each one's Kind via New()+Remap, and replays Routes/Kicks/Holds under the
// resulting old->new map.
type Template struct {
	Input, Output graph.SlotId
	Nodes         []graph.SlotId
	Routes        []TemplateRoute
	Kicks         []graph.SlotId
	Holds         []TemplateHold
}
