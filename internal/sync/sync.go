// Package sync copies exported schema snapshots to shared destinations so
// that every scouting device can import the same form.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Destination is the interface for a sync target (S3, git, etc.).
type Destination interface {
	// Write stores data under name at the destination.
	Write(ctx context.Context, name string, data []byte) error
	// String describes the destination in logs.
	String() string
}

// Distribute writes one snapshot to every destination. A failing
// destination does not stop the others; all failures are returned together.
func Distribute(ctx context.Context, dests []Destination, name string, data []byte, logger *slog.Logger) error {
	var errs []error
	for _, dest := range dests {
		if err := dest.Write(ctx, name, data); err != nil {
			logger.Error("sync destination write failed", "destination", dest.String(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", dest, err))
			continue
		}
		logger.Debug("sync destination written", "destination", dest.String(), "name", name, "bytes", len(data))
	}
	return errors.Join(errs...)
}

// SourceFunc produces the snapshot to distribute: its file name and content.
type SourceFunc func(ctx context.Context) (name string, data []byte, err error)

// Scheduler runs periodic syncs to one or more destinations. A tick whose
// snapshot is byte-identical to the last one written is skipped.
type Scheduler struct {
	source       SourceFunc
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	last   []byte
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports from source to the given
// destinations at the specified interval.
func NewScheduler(source SourceFunc, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		source:       source,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic sync. It runs an initial sync immediately, then
// on each tick.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current sync (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.syncOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.syncOnce(ctx)
		}
	}
}

func (s *Scheduler) syncOnce(ctx context.Context) {
	name, data, err := s.source(ctx)
	if err != nil {
		s.logger.Error("sync export failed", "err", err)
		return
	}
	if s.last != nil && bytes.Equal(s.last, data) {
		s.logger.Debug("sync skipped, snapshot unchanged", "name", name)
		return
	}

	if err := Distribute(ctx, s.destinations, name, data, s.logger); err != nil {
		// Retry on the next tick.
		return
	}
	s.last = bytes.Clone(data)
	s.logger.Info("sync completed", "name", name, "destinations", len(s.destinations), "bytes", len(data))
}
