package types

import (
	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/value"
)

// PersistenceStore is the contract a HOLD's persisted value is loaded from
// and saved to (spec §4.3 Register/HOLD, §6.4 PersistHold effect). Two
// implementations exist in runtime: an in-memory MemoryStore and a
// Badger-backed store for real persistence.
type PersistenceStore interface {
	Load(key string) (value.Value, bool, error)
	Save(key string, v value.Value) error
	Close() error
}

// EventSource is an external driver of inbound events (spec §6: "how
// events reach IOPad slots is a host concern"). The MQTT-backed
// implementation in runtime subscribes to a broker topic and stages each
// message payload as Text.
type EventSource interface {
	// Start begins delivering events to deliver until Stop is called.
	// Each event calls deliver(slot, value).
	Start(deliver func(slot graph.SlotId, v value.Value)) error
	Stop() error
}

// SideEffectHandler executes an Effect node's host-facing action (spec
// §4.3 Effect, §6.4). The goja-backed implementation in runtime evaluates
// a small script against the effect's payload.
type SideEffectHandler interface {
	Handle(effect SideEffect) error
}

// Renderer is the external consumer of a program's rendered output (spec
// §6: "how a FilteredView's or Bus's value reaches a UI is a host
// concern"). Nothing in this module implements it.
type Renderer interface {
	Render(v value.Value)
}
