// Package worker runs the background expiry sweep. Pending bookings
// older than the grace window hold seats their owner abandoned; the
// sweep expires them and frees the seats. Booking creation also
// expires lazily per show, so the sweep is the safety net that cleans
// up shows nobody is trying to book.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// TypeExpireSweep is the asynq task type for the periodic sweep.
const TypeExpireSweep = "booking:expire_sweep"

// ExpireSweepPayload parameterizes one sweep invocation.
type ExpireSweepPayload struct {
	TTLMinutes int `json:"ttl_minutes"`
	Limit      int `json:"limit"`
}

// NewExpireSweepTask builds the sweep task with the given grace window
// and per-run batch limit.
func NewExpireSweepTask(ttl time.Duration, limit int) (*asynq.Task, error) {
	payload, err := json.Marshal(ExpireSweepPayload{
		TTLMinutes: int(ttl / time.Minute),
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeExpireSweep, payload), nil
}

// Cutoff returns the creation-time threshold: pending bookings created
// before it are eligible for expiry.
func (p ExpireSweepPayload) Cutoff(now time.Time) time.Time {
	return now.UTC().Add(-time.Duration(p.TTLMinutes) * time.Minute)
}

// Sweeper handles expiry sweep tasks against the booking store.
type Sweeper struct {
	BookingRepo *repository.BookingRepo
}

// NewSweeper constructs a Sweeper.
func NewSweeper(bookingRepo *repository.BookingRepo) *Sweeper {
	if bookingRepo == nil {
		panic("nil repository passed to NewSweeper")
	}
	return &Sweeper{BookingRepo: bookingRepo}
}

// HandleExpireSweep processes one sweep task. The whole batch runs in
// a single transaction; the ledger release and the status transition
// commit together or not at all.
func (s *Sweeper) HandleExpireSweep(ctx context.Context, t *asynq.Task) error {
	var p ExpireSweepPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("expire sweep: unmarshal payload: %w", err)
	}
	tx, err := s.BookingRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("expire sweep: begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	n, err := s.BookingRepo.ExpireStaleTx(ctx, tx, p.Cutoff(time.Now()), p.Limit)
	if err != nil {
		return fmt.Errorf("expire sweep: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("expire sweep: commit: %w", err)
	}
	committed = true
	if n > 0 {
		log.Printf("expiry-worker: expired %d stale pending bookings", n)
	}
	return nil
}

// Run starts the asynq server and the minutely scheduler. It blocks
// until either component fails and is meant to run in its own
// goroutine next to the HTTP server.
func Run(redisOpt asynq.RedisClientOpt, sweeper *Sweeper, ttl time.Duration, limit int) error {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{"default": 1},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExpireSweep, sweeper.HandleExpireSweep)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: time.UTC})
	task, err := NewExpireSweepTask(ttl, limit)
	if err != nil {
		return err
	}
	if _, err := scheduler.Register("* * * * *", task); err != nil {
		return err
	}

	errc := make(chan error, 2)
	go func() { errc <- srv.Run(mux) }()
	go func() { errc <- scheduler.Run() }()
	return <-errc
}
