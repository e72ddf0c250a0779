package jobs

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"bridge-kita.backend/internal/domain/entities"
)

// staleAttemptStore is the slice of the attempt repository the sweeper needs.
type staleAttemptStore interface {
	GetStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*entities.TransferAttempt, error)
	FailAttempts(ctx context.Context, ids []uuid.UUID, reason string) error
}

// StaleAttemptJob fails transfer attempts stuck in PENDING. An attempt stays
// PENDING when the process died mid-orchestration; nothing will ever complete
// it, so the sweeper closes it out.
type StaleAttemptJob struct {
	repo     staleAttemptStore
	maxAge   time.Duration
	interval time.Duration
	stop     chan struct{}
}

func NewStaleAttemptJob(repo staleAttemptStore, maxAge time.Duration) *StaleAttemptJob {
	if maxAge <= 0 {
		maxAge = 30 * time.Minute
	}
	return &StaleAttemptJob{
		repo:     repo,
		maxAge:   maxAge,
		interval: time.Minute,
		stop:     make(chan struct{}),
	}
}

func (j *StaleAttemptJob) Start(ctx context.Context) {
	log.Println("🕐 Starting stale transfer attempt sweeper...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Stale attempt sweeper stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Stale attempt sweeper stopped")
			return
		case <-ticker.C:
			j.sweepStaleAttempts(ctx)
		}
	}
}

func (j *StaleAttemptJob) Stop() {
	close(j.stop)
}

func (j *StaleAttemptJob) sweepStaleAttempts(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-j.maxAge)
	stale, err := j.repo.GetStalePending(ctx, cutoff, 100)
	if err != nil {
		log.Printf("❌ Error fetching stale transfer attempts: %v", err)
		return
	}

	if len(stale) == 0 {
		return
	}

	log.Printf("🔄 Closing out %d stale transfer attempts...", len(stale))

	var ids []uuid.UUID
	for _, attempt := range stale {
		ids = append(ids, attempt.ID)
	}

	if err := j.repo.FailAttempts(ctx, ids, "abandoned before submission"); err != nil {
		log.Printf("❌ Error failing stale transfer attempts: %v", err)
		return
	}

	log.Printf("✅ Closed %d stale transfer attempts", len(stale))
}
