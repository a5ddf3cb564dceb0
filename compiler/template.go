package compiler

import (
	"fmt"

	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/kinds"
	"github.com/BoonLang/boon-sub002/types"
)

// captureTemplate compiles build against a fresh placeholder entry slot and
// records everything it allocated as a *types.Template, ready for
// kinds.CloneTemplate to instantiate repeatedly at runtime (spec §4.4.4).
// build receives the placeholder slot to bind its per-item name to and
// compiles the item body against it, returning the body's result slot.
//
// The placeholder's own Kind never matters — CloneTemplate always replaces
// a clone's entry slot with its own Wire, live or snapshot — it exists only
// so build has something to bind and wire through while the template
// compiles, exactly once, never evaluated directly.
func captureTemplate(c *Context, build func(itemSlot graph.SlotId) (graph.SlotId, error)) (*types.Template, error) {
	nodeMark := c.allocLogMark()
	kickMark := c.kicksMark()
	holdMark := c.holdsMark()

	input := c.installNoKick(&kinds.Wire{})

	output, err := build(input)
	if err != nil {
		return nil, err
	}

	nodes := c.allocatedSince(nodeMark)

	// Strip every non-Producer kick the body queued, same as a THEN body:
	// a template's internal nodes must stay inert until a clone actually
	// wires their entry, never computing once unconditionally at capture
	// time. The Producer kicks that remain become the template's own Kicks,
	// replayed once per clone; they must not leak into the enclosing
	// program's kick list, since the template itself is never evaluated.
	c.dropNonProducerKicks(kickMark)
	kicks := append([]graph.SlotId(nil), c.kicks[kickMark:]...)
	c.kicks = c.kicks[:kickMark]

	holds := c.holdsSince(holdMark)
	c.holds = c.holds[:holdMark]

	nodeSet := make(map[graph.SlotId]bool, len(nodes))
	for _, n := range nodes {
		nodeSet[n] = true
	}

	var routes []types.TemplateRoute
	for _, src := range nodes {
		for _, r := range c.Arena.Subscribers(src) {
			if nodeSet[r.Destination] {
				routes = append(routes, types.TemplateRoute{Src: src, Dst: r.Destination, Port: r.Port})
			}
		}
	}

	templateHolds := make([]types.TemplateHold, len(holds))
	for i, h := range holds {
		templateHolds[i] = types.TemplateHold{Id: fmt.Sprintf("h%d", i), Slot: h.Slot, PersistKey: h.PersistKey}
	}

	return &types.Template{
		Input:  input,
		Output: output,
		Nodes:  nodes,
		Routes: routes,
		Kicks:  kicks,
		Holds:  templateHolds,
	}, nil
}
