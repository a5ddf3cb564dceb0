package runtime

import "strings"

// collectOrphans drops every registered HOLD whose stable id is scoped
// under prefix, once prefix's last active reference has exited (spec
// §4.5, §3.4 "HOLD garbage collection via active-scope-prefix
// tracking"). A dynamic list item's per-item HOLDs are scoped under that
// item's scope prefix (owning kind, slot and a random UUID, built by
// newScopePrefix in kinds/list.go), so removing the item and letting its
// scope go inactive is enough to reclaim them without a full trace-based
// GC.
func (l *EventLoop) collectOrphans(prefix string) {
	for id, h := range l.holds {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		delete(l.holds, id)
		delete(l.timers, h.slot)
		if l.cfg.MetricsEnabled {
			holdsCollected.Inc()
		}
	}
}
