// Package scheduler keeps stored closes current by re-ingesting the stock
// universe on a cron schedule.
package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/inveskit/journal/internal/model"
	"github.com/inveskit/journal/internal/prices"
)

// Scheduler manages the periodic price refresh task.
type Scheduler struct {
	Cron     *cron.Cron
	Prices   *prices.Service
	Universe []model.Stock
}

// NewScheduler creates a Scheduler over the configured universe.
func NewScheduler(svc *prices.Service, universe []model.Stock) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Prices:   svc,
		Universe: universe,
	}
}

// Register adds the refresh task under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunRefreshNow executes the refresh task immediately (manual trigger).
func (s *Scheduler) RunRefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	log.Println("[INFO] running price refresh")
	results := s.Prices.InitializeAll(s.Universe)

	saved, failed := 0, 0
	for _, res := range results {
		saved += res.Saved
		if res.Err != "" {
			failed++
		}
	}
	log.Printf("[INFO] price refresh done: %d new rows, %d stocks failed", saved, failed)
}
