/*
Package jobqueue provides a River-based job queue running the terminal
liveness monitor.

For worker counts and retry tuning, see queue_config.go.
*/
package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/rs/zerolog/log"

	"github.com/aicoconsole/internal/liveness"
	"github.com/aicoconsole/pkg/models"
)

// LivenessTickArgs is the (empty) payload of one monitor pass over all terminals
type LivenessTickArgs struct{}

// Kind returns the job kind for River
func (LivenessTickArgs) Kind() string {
	return "liveness_tick"
}

// LivenessTickWorker runs one monitor pass: every terminal accrues a missed
// poll, and terminals past the threshold are marked OFFLINE with an error-log
// record. Per-terminal failures are logged and skipped so one bad row cannot
// stall the sweep.
type LivenessTickWorker struct {
	river.WorkerDefaults[LivenessTickArgs]
	pool *pgxpool.Pool
}

// Work performs one liveness pass over all terminals
func (w *LivenessTickWorker) Work(ctx context.Context, job *river.Job[LivenessTickArgs]) error {
	now := time.Now()

	rows, err := w.pool.Query(ctx,
		`SELECT id, name, status, offline_count, last_polling FROM terminals`)
	if err != nil {
		return fmt.Errorf("failed to list terminals: %w", err)
	}

	terminals := make([]models.Terminal, 0)
	for rows.Next() {
		var t models.Terminal
		if err := rows.Scan(&t.ID, &t.Name, &t.Status, &t.OfflineCount, &t.LastPolling); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan terminal: %w", err)
		}
		terminals = append(terminals, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating terminals: %w", err)
	}

	for _, t := range terminals {
		if err := w.applyTick(ctx, t, now); err != nil {
			log.Error().Err(err).
				Str("terminal_id", t.ID).
				Str("terminal_name", t.Name).
				Msg("Liveness tick failed for terminal")
		}
	}

	return nil
}

func (w *LivenessTickWorker) applyTick(ctx context.Context, t models.Terminal, now time.Time) error {
	update := liveness.EvaluateTick(t, now)

	if update.MarkOffline {
		// Downtime is accrued with an in-place increment so a racing
		// heartbeat reset cannot be overwritten with a stale total.
		_, err := w.pool.Exec(ctx, `
			UPDATE terminals
			SET status = $2, offline_count = $3,
			    downtime_minutes = downtime_minutes + $4,
			    updated_at = now()
			WHERE id = $1
		`, t.ID, models.TerminalOffline, update.OfflineCount, update.AddDowntimeMinutes)
		if err != nil {
			return fmt.Errorf("failed to mark terminal offline: %w", err)
		}

		// Every tick past the threshold records an outage event, so the
		// error count keeps growing while a terminal stays down.
		_, err = w.pool.Exec(ctx, `
			INSERT INTO terminal_error_logs (id, terminal_id, type, message)
			VALUES (gen_random_uuid(), $1, 'OFFLINE', $2)
		`, t.ID, fmt.Sprintf("Terminal went offline after %d consecutive polling failures", liveness.OfflineThreshold))
		if err != nil {
			return fmt.Errorf("failed to record offline event: %w", err)
		}

		if t.Status != models.TerminalOffline {
			log.Warn().
				Str("terminal_id", t.ID).
				Str("terminal_name", t.Name).
				Msg("Terminal marked OFFLINE")
		}
		return nil
	}

	_, err := w.pool.Exec(ctx, `
		UPDATE terminals
		SET offline_count = $2,
		    downtime_minutes = downtime_minutes + $3,
		    updated_at = now()
		WHERE id = $1
	`, t.ID, update.OfflineCount, update.AddDowntimeMinutes)
	if err != nil {
		return fmt.Errorf("failed to update terminal liveness counters: %w", err)
	}
	return nil
}

// JobQueue manages the River job queue
type JobQueue struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	config *QueueConfig
}

// NewJobQueue creates a new job queue instance with the liveness monitor
// registered as a periodic job
func NewJobQueue(databaseURL string) (*JobQueue, error) {
	config := GetQueueConfig()

	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &LivenessTickWorker{pool: pool})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:  config.RiverQueueConfig(),
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(liveness.TickInterval),
				func() (river.JobArgs, *river.InsertOpts) {
					return LivenessTickArgs{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	return &JobQueue{
		client: client,
		pool:   pool,
		config: config,
	}, nil
}

// Start starts the job queue workers
func (jq *JobQueue) Start(ctx context.Context) error {
	return jq.client.Start(ctx)
}

// Stop stops the job queue workers and releases the pool
func (jq *JobQueue) Stop(ctx context.Context) error {
	err := jq.client.Stop(ctx)
	jq.pool.Close()
	return err
}
