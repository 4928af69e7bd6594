/*
Package jobqueue configuration - tunable parameters for the River queue.

The liveness monitor is a single lightweight periodic job, so the defaults
stay small: one pass touches every terminal row once and the next pass
arrives a minute later regardless.
*/
package jobqueue

import (
	"time"

	"github.com/riverqueue/river"
)

// QueueConfig holds all configurable parameters for the job queue
type QueueConfig struct {
	// MaxWorkers is the number of concurrent workers processing jobs.
	// Ticks are strictly periodic and cheap; 2 leaves headroom for a
	// slow pass overlapping the next one.
	MaxWorkers int

	// MaxRetries is the maximum retry attempts per job. A missed tick is
	// superseded by the next scheduled one, so retrying hard buys nothing.
	MaxRetries int

	// JobTimeout is the maximum time a single monitor pass can run
	JobTimeout time.Duration
}

// DefaultQueueConfig returns the default configuration
func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{
		MaxWorkers: 2,
		MaxRetries: 3,
		JobTimeout: 30 * time.Second,
	}
}

// GetQueueConfig returns the appropriate configuration based on environment
func GetQueueConfig() *QueueConfig {
	return DefaultQueueConfig()
}

// RiverQueueConfig converts our config to River's queue configuration format
func (c *QueueConfig) RiverQueueConfig() map[string]river.QueueConfig {
	return map[string]river.QueueConfig{
		river.QueueDefault: {
			MaxWorkers: c.MaxWorkers,
		},
	}
}
