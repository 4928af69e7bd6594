// Package liveness holds the polling-based online/offline state machine for
// AICO terminals. The periodic monitor (see internal/jobqueue) and the
// heartbeat endpoint are the only writers of a terminal's liveness fields.
package liveness

import (
	"time"

	"github.com/aicoconsole/pkg/models"
)

// Fixed policy constants. These are deliberately not runtime-configurable.
const (
	// OfflineThreshold is the number of consecutive missed ticks after which
	// a terminal is considered offline.
	OfflineThreshold = 3

	// TickInterval is how often the monitor re-evaluates every terminal.
	TickInterval = time.Minute
)

// TickUpdate describes the bookkeeping change one monitor tick applies to a
// single terminal.
type TickUpdate struct {
	// OfflineCount is the new consecutive missed-heartbeat count.
	OfflineCount int

	// AddDowntimeMinutes is added to the terminal's cumulative downtime.
	AddDowntimeMinutes int

	// MarkOffline is set when the missed-tick threshold has been reached:
	// status becomes OFFLINE and a liveness-loss event is recorded.
	MarkOffline bool
}

// EvaluateTick computes the liveness transition for one terminal at tick time.
//
// Every tick increments the missed-heartbeat count. Once the count reaches
// OfflineThreshold the terminal is marked OFFLINE and downtime accrues
// unconditionally; below the threshold downtime accrues only while the
// terminal was already OFFLINE, so an ONLINE terminal is never charged
// downtime before the threshold trips. Only a heartbeat ever returns a
// terminal to ONLINE.
func EvaluateTick(t models.Terminal, now time.Time) TickUpdate {
	update := TickUpdate{OfflineCount: t.OfflineCount + 1}

	lastPolling := now
	if t.LastPolling != nil {
		lastPolling = *t.LastPolling
	}
	elapsedMinutes := int(now.Sub(lastPolling) / time.Minute)
	if elapsedMinutes < 0 {
		elapsedMinutes = 0
	}

	if update.OfflineCount >= OfflineThreshold {
		update.MarkOffline = true
		update.AddDowntimeMinutes = elapsedMinutes
	} else if t.Status == models.TerminalOffline {
		update.AddDowntimeMinutes = elapsedMinutes
	}

	return update
}
