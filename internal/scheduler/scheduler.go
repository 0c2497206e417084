package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"BreakoutRadar/internal/scanner"
)

// Scheduler runs periodic scans over the configured universe (monitor mode).
type Scheduler struct {
	cron    *cron.Cron
	scanner *scanner.Scanner
	symbols []string
	ctx     context.Context
	log     zerolog.Logger
}

// New creates a scheduler around the scanner.
func New(ctx context.Context, sc *scanner.Scanner, symbols []string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		scanner: sc,
		symbols: symbols,
		ctx:     ctx,
		log:     log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the scan task on the given cron expression.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start begins cron processing.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts cron processing and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunNow triggers a scan outside the schedule.
func (s *Scheduler) RunNow() { s.scanTask() }

func (s *Scheduler) scanTask() {
	if s.ctx.Err() != nil {
		return
	}
	s.log.Info().Int("universe", len(s.symbols)).Msg("scheduled scan starting")
	if _, err := s.scanner.Scan(s.ctx, s.symbols, time.Now().UTC()); err != nil {
		s.log.Error().Err(err).Msg("scheduled scan aborted")
	}
}
