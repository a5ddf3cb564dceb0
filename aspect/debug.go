package aspect

import (
	"github.com/fatih/structs"

	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

// DebugAspect logs each node's exported extension-state fields before
// evaluation and the evaluation's result (or error) after it; the state
// is dumped via fatih/structs the same way
// _examples/bittoy-rule's Debug aspect inspects node configuration for
// its debug callback — here there is no UI callback to forward to, so it
// logs through types.Logger.Debugf instead.
type DebugAspect struct {
	Logger types.Logger
}

func (d *DebugAspect) Order() int { return 100 }

func (d *DebugAspect) Before(slot graph.SlotId, port graph.Port, kind types.Kind) {
	d.Logger.Debugf("slot=%d port=%v type=%s state=%v", slot, port, kind.Type(), dumpState(kind))
}

func (d *DebugAspect) After(slot graph.SlotId, port graph.Port, kind types.Kind, result value.Value, err error) {
	if err != nil {
		d.Logger.Debugf("slot=%d type=%s error=%v", slot, kind.Type(), err)
		return
	}
	d.Logger.Debugf("slot=%d type=%s result=%s", slot, kind.Type(), result.Display(nil, nil))
}

func dumpState(kind types.Kind) (fields map[string]interface{}) {
	defer func() {
		if recover() != nil {
			fields = nil
		}
	}()
	return structs.Map(kind)
}

var (
	_ NodeBeforeAspect = (*DebugAspect)(nil)
	_ NodeAfterAspect  = (*DebugAspect)(nil)
)
