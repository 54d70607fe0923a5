// Package scheduler wires up the cron job that periodically recomputes the
// leaderboard without waiting for an external trigger.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/ajstars1/0unveiled-leaderboard/internal/service"
	"github.com/robfig/cron/v3"
)

// Scheduler wraps robfig/cron and manages the recompute loop.
type Scheduler struct {
	cron    *cron.Cron
	service service.LeaderboardService
	spec    string // cron spec, e.g. "@every 24h"
}

func New(svc service.LeaderboardService, spec string) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		service: svc,
		spec:    spec,
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started with spec %q", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	log.Println("[scheduler] Leaderboard recompute started")
	if err := s.service.RecomputeAll(ctx); err != nil {
		log.Printf("[scheduler] Recompute error: %v", err)
		return
	}
	log.Println("[scheduler] Leaderboard recompute complete")
}
