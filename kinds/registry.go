// Package kinds implements the fixed repertoire of node-kind behaviors
// named in spec §4.3: one Go type per kind, each satisfying types.Kind.
package kinds

import (
	"fmt"
	"sync"

	"github.com/BoonLang/boon-sub002/types"
)

// Registry is the default registry of node-kind prototypes, mirroring
// _examples/bittoy-rule/engine.RuleComponentRegistry: it maps a KindType
// to a prototype whose New() gives a fresh per-slot instance. The
// compiler does not consult it; it constructs each kind directly.
var Registry = new(KindRegistry)

func init() {
	for _, k := range []types.Kind{
		&Producer{},
		&Wire{},
		&Router{},
		&Combiner{},
		&Transformer{},
		&Register{},
		&SwitchedWire{},
		&PatternMux{},
		&Timer{},
		&Accumulator{},
		&Pulses{},
		&Skip{},
		&Bus{},
		&FilteredView{},
		&ListMapper{},
		&ListAppender{},
		&ListClearer{},
		&ListRemover{},
		&Extractor{},
		&TextTemplate{},
		&Arithmetic{},
		&Comparison{},
		&BoolNot{},
		&IOPad{},
		&LinkResolver{},
		&Effect{},
		&ListCount{},
		&ListIsEmpty{},
		&TextTrim{},
		&TextIsNotEmpty{},
	} {
		_ = Registry.Register(k)
	}
}

// KindRegistry maps a KindType to its prototype instance.
type KindRegistry struct {
	kinds map[types.KindType]types.Kind
	mu    sync.RWMutex
}

// Register adds a prototype to the registry, keyed by its Type().
func (r *KindRegistry) Register(k types.Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.kinds == nil {
		r.kinds = make(map[types.KindType]types.Kind)
	}
	if _, ok := r.kinds[k.Type()]; ok {
		return fmt.Errorf("kind already registered: %s", k.Type())
	}
	r.kinds[k.Type()] = k
	return nil
}

// New looks up kindType and returns a fresh instance via its prototype's
// New(), or an error if no such kind is registered.
func (r *KindRegistry) New(kindType types.KindType) (types.Kind, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	proto, ok := r.kinds[kindType]
	if !ok {
		return nil, fmt.Errorf("unknown kind: %s", kindType)
	}
	return proto.New(), nil
}
