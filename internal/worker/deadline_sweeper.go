// Package worker runs the background jobs of the service.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"venue-reservation/internal/pkg/config"
	"venue-reservation/internal/pkg/errs"
)

const sweepLockKey = "reservation:deadline-sweep"

var ErrSweepInProgress = errs.New("another replica is sweeping")

type Expirer interface {
	ExpireOverdue(ctx context.Context, limit int) (int, error)
}

// Locker is satisfied by cache.Locker; nil means every replica sweeps.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, func(context.Context) error, error)
}

// DeadlineSweeper periodically rejects awaiting reservations whose payment deadline has
// passed. Each tick handles one bounded batch; the rest waits for the next tick.
type DeadlineSweeper struct {
	expirer Expirer
	locker  Locker
	cfg     config.SweeperConfig

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewDeadlineSweeper(expirer Expirer, locker Locker, cfg config.SweeperConfig) *DeadlineSweeper {
	return &DeadlineSweeper{
		expirer: expirer,
		locker:  locker,
		cfg:     cfg,
	}
}

func (s *DeadlineSweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cfg.Enabled {
		slog.Info("deadline sweeper disabled")
		return
	}
	if s.ticker != nil {
		return
	}

	s.ticker = time.NewTicker(s.cfg.Interval)
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run(s.ticker, s.stop)

	slog.Info("deadline sweeper started",
		"interval", s.cfg.Interval.String(),
		"batch_size", s.cfg.BatchSize)
}

func (s *DeadlineSweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.wg.Wait()
	s.ticker = nil
	slog.Info("deadline sweeper stopped")
}

func (s *DeadlineSweeper) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer s.wg.Done()

	s.tick()
	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-stop:
			return
		}
	}
}

// tick never propagates a failure; the next tick simply tries again.
func (s *DeadlineSweeper) tick() {
	ctx := context.Background()
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	n, err := s.RunOnce(ctx)
	switch {
	case errs.Is(err, ErrSweepInProgress):
		slog.Debug("deadline sweep skipped, lock held elsewhere")
	case err != nil:
		slog.Error("deadline sweep failed", "error", err.Error())
	case n > 0:
		slog.Info("deadline sweep expired reservations", "count", n)
	}
}

// RunOnce expires one batch now. It is also used by the operator-triggered sweep.
func (s *DeadlineSweeper) RunOnce(ctx context.Context) (int, error) {
	if s.locker != nil {
		ok, release, err := s.locker.TryLock(ctx, sweepLockKey, s.lockTTL())
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, ErrSweepInProgress
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				slog.Warn("failed to release sweep lock", "error", err.Error())
			}
		}()
	}

	return s.expirer.ExpireOverdue(ctx, s.batchSize())
}

func (s *DeadlineSweeper) batchSize() int {
	if s.cfg.BatchSize < 1 {
		return 1
	}
	return s.cfg.BatchSize
}

func (s *DeadlineSweeper) lockTTL() time.Duration {
	if s.cfg.LockTTL > 0 {
		return s.cfg.LockTTL
	}
	return 5 * time.Minute
}
