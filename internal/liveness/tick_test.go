package liveness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aicoconsole/pkg/models"
)

func terminalAt(status string, offlineCount int, lastPolling time.Time) models.Terminal {
	return models.Terminal{
		Status:       status,
		OfflineCount: offlineCount,
		LastPolling:  &lastPolling,
	}
}

func TestEvaluateTickIncrementsCount(t *testing.T) {
	now := time.Now()
	update := EvaluateTick(terminalAt(models.TerminalOnline, 0, now), now)

	assert.Equal(t, 1, update.OfflineCount)
	assert.False(t, update.MarkOffline)
	assert.Zero(t, update.AddDowntimeMinutes)
}

func TestEvaluateTickThresholdTripsOnThirdMiss(t *testing.T) {
	now := time.Now()
	last := now.Add(-3 * time.Minute)

	// Two misses already recorded; this tick is the third
	update := EvaluateTick(terminalAt(models.TerminalOnline, 2, last), now)

	assert.Equal(t, 3, update.OfflineCount)
	assert.True(t, update.MarkOffline)
	assert.Equal(t, 3, update.AddDowntimeMinutes)
}

func TestEvaluateTickBelowThresholdNoDowntimeWhileOnline(t *testing.T) {
	now := time.Now()
	last := now.Add(-2 * time.Minute)

	update := EvaluateTick(terminalAt(models.TerminalOnline, 1, last), now)

	assert.Equal(t, 2, update.OfflineCount)
	assert.False(t, update.MarkOffline)
	assert.Zero(t, update.AddDowntimeMinutes, "online terminals accrue no downtime before the threshold")
}

func TestEvaluateTickOfflineTerminalKeepsAccruing(t *testing.T) {
	now := time.Now()
	last := now.Add(-10 * time.Minute)

	update := EvaluateTick(terminalAt(models.TerminalOffline, 0, last), now)

	assert.Equal(t, 1, update.OfflineCount)
	assert.False(t, update.MarkOffline)
	assert.Equal(t, 10, update.AddDowntimeMinutes)
}

func TestEvaluateTickPastThresholdStaysOffline(t *testing.T) {
	now := time.Now()
	last := now.Add(-5 * time.Minute)

	update := EvaluateTick(terminalAt(models.TerminalOffline, 7, last), now)

	assert.Equal(t, 8, update.OfflineCount)
	assert.True(t, update.MarkOffline)
	assert.Equal(t, 5, update.AddDowntimeMinutes)
}

func TestEvaluateTickElapsedFlooredToMinutes(t *testing.T) {
	now := time.Now()
	last := now.Add(-90 * time.Second)

	update := EvaluateTick(terminalAt(models.TerminalOffline, 0, last), now)

	assert.Equal(t, 1, update.AddDowntimeMinutes)
}

func TestEvaluateTickNilLastPolling(t *testing.T) {
	now := time.Now()
	update := EvaluateTick(models.Terminal{Status: models.TerminalOnline, OfflineCount: 2}, now)

	assert.True(t, update.MarkOffline)
	assert.Zero(t, update.AddDowntimeMinutes, "a never-polled terminal has no elapsed window to charge")
}

func TestEvaluateTickFutureLastPollingClamped(t *testing.T) {
	now := time.Now()
	last := now.Add(2 * time.Minute)

	update := EvaluateTick(terminalAt(models.TerminalOffline, 0, last), now)

	assert.Zero(t, update.AddDowntimeMinutes)
}
