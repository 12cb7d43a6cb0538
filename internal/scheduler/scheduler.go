// Package scheduler runs the periodic fetch-and-process job: discover new
// council videos, then push the newest pending one through the pipeline.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KEIAN12/gamagori-shigikai/internal/config"
	"github.com/KEIAN12/gamagori-shigikai/internal/discovery"
	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
	"github.com/KEIAN12/gamagori-shigikai/internal/pipeline"
	"github.com/KEIAN12/gamagori-shigikai/internal/store"
)

type Scheduler struct {
	cron           *cron.Cron
	entry          cron.EntryID
	store          store.Store
	discoverer     discovery.Discoverer
	pipeline       pipeline.Pipeline
	processTimeout time.Duration
	logger         logger.Logger
}

// New creates the scheduler from the cron config. The spec string uses the
// standard five-field format.
func New(cfg config.CronConfig, st store.Store, disc discovery.Discoverer, pl pipeline.Pipeline, log logger.Logger) (*Scheduler, error) {
	timeout, err := time.ParseDuration(cfg.ProcessTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse process_timeout: %w", err)
	}

	s := &Scheduler{
		cron:           cron.New(),
		store:          st,
		discoverer:     disc,
		pipeline:       pl,
		processTimeout: timeout,
		logger:         log,
	}

	s.entry, err = s.cron.AddFunc(cfg.FetchInterval, s.runOnce)
	if err != nil {
		return nil, fmt.Errorf("schedule fetch job: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// NextRun reports when the fetch job fires next.
func (s *Scheduler) NextRun() time.Time {
	return s.cron.Entry(s.entry).Next
}

// runOnce processes at most one video per tick. Serializing here keeps a
// slow transcription from piling up concurrent Gemini calls; the backlog
// drains one tick at a time.
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.processTimeout)
	defer cancel()

	created, err := s.discoverer.FetchLatest(ctx)
	if err != nil {
		s.logger.Error(ctx, "Scheduled discovery failed: %v", err)
	} else if created > 0 {
		s.logger.Info(ctx, "Discovered %d new videos", created)
	}

	video, err := s.store.NextPending(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Error(ctx, "Could not load pending video: %v", err)
		return
	}

	if _, err := s.pipeline.Process(ctx, video.ID); err != nil {
		s.logger.Error(ctx, "Scheduled processing of %s failed: %v", video.ID, err)
	}
}
