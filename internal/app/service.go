// Package service wires the conversion pipeline: deduper, queue, worker
// pool, converter and result store.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pitchfx/internal/adapters/mq/queue"
	"github.com/okian/pitchfx/internal/adapters/mq/worker"
	"github.com/okian/pitchfx/internal/adapters/repository"
	"github.com/okian/pitchfx/internal/domain/dedupe"
	"github.com/okian/pitchfx/internal/domain/model"
	"github.com/okian/pitchfx/internal/domain/pitchfx"
	"github.com/okian/pitchfx/pkg/logger"
	"github.com/okian/pitchfx/pkg/metrics"
)

// Service converts submitted games asynchronously and keeps the results.
type Service struct {
	mu sync.RWMutex

	store     *repository.ShardedStore
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	pool      *worker.Pool
	converter *pitchfx.Converter

	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	loc         *time.Location

	started bool
	cancel  context.CancelFunc
	pending sync.WaitGroup

	converted atomic.Int64
	failedMu  sync.Mutex
	failed    map[string]error

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1000,
		dedupeSize:  dedupe.DefaultMaxSize,
		shardCount:  8,
		failed:      make(map[string]error),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the pipeline and starts the workers. Workers outlive ctx's
// deadline and stop on Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Default().Named("service")
	}
	s.logger.Info(ctx, "starting conversion service...")

	convOpts := []pitchfx.Option{}
	if s.loc != nil {
		convOpts = append(convOpts, pitchfx.WithLocation(s.loc))
	}
	s.converter = pitchfx.NewConverter(convOpts...)
	s.store = repository.NewShardedStore(repository.WithShardCount(s.shardCount))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.converted.Store(0)
	s.failedMu.Lock()
	s.failed = make(map[string]error)
	s.failedMu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool = worker.NewPool(s.workerCount, s.queue, s.converter, s.store, worker.WithOnDone(s.onDone))
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "conversion service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("shards", s.shardCount),
		logger.String("time_zone", s.converter.Location().String()),
	)
	return nil
}

func (s *Service) onDone(out model.Outcome) { //nolint:gocritic // hugeParam: callback signature
	defer s.pending.Done()
	if out.OK() {
		s.converted.Add(1)
		return
	}
	s.failedMu.Lock()
	s.failed[out.Job.GameID] = out.Err
	s.failedMu.Unlock()
}

// Submit queues one game for conversion. A game id is accepted at most once
// per service lifetime unless its enqueue failed.
func (s *Service) Submit(ctx context.Context, j model.Job) error { //nolint:gocritic // hugeParam: Job is queued by value
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}
	if j.GameID == "" || j.Feed == nil {
		return fmt.Errorf("%w: game id and feed are required", ErrInvalidJob)
	}
	if s.deduper.SeenAndRecord(ctx, j.GameID) {
		metrics.RecordGameDuplicate()
		s.logger.Debug(ctx, "duplicate game, skipping", logger.String("game_id", j.GameID))
		return fmt.Errorf("%w: %s", ErrDuplicateGame, j.GameID)
	}

	s.pending.Add(1)
	if err := s.queue.Enqueue(ctx, j); err != nil {
		s.pending.Done()
		s.deduper.Unrecord(ctx, j.GameID)
		if errors.Is(err, queue.ErrFull) {
			return fmt.Errorf("%w: %s", ErrBackpressure, j.GameID)
		}
		return fmt.Errorf("enqueue %s: %w", j.GameID, err)
	}
	return nil
}

// Drain blocks until every accepted game has been processed or ctx ends.
// It must not race with Submit.
func (s *Service) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain: %w", ctx.Err())
	}
}

// Stop closes the queue, lets the workers finish what is queued and shuts
// them down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping conversion service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "conversion service stopped")
}

// Store returns the result store. It is nil before Start.
func (s *Service) Store() repository.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil
	}
	return s.store
}

// Results returns every converted game ordered by game id.
func (s *Service) Results(ctx context.Context) []*pitchfx.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil
	}
	return s.store.Results(ctx)
}

// Failures returns the error of every game that did not convert.
func (s *Service) Failures() map[string]error {
	s.failedMu.Lock()
	defer s.failedMu.Unlock()
	out := make(map[string]error, len(s.failed))
	for id, err := range s.failed {
		out[id] = err
	}
	return out
}

// IsStarted reports whether the service accepts games.
func (s *Service) IsStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"shardCount":  s.shardCount,
	}
	if s.store == nil {
		return stats
	}

	ctx := context.Background()
	s.failedMu.Lock()
	failed := len(s.failed)
	s.failedMu.Unlock()

	stats["gamesConverted"] = s.converted.Load()
	stats["gamesFailed"] = failed
	stats["gamesStored"] = s.store.Count(ctx)
	stats["pitchApplications"] = s.store.ApplicationCount()
	stats["gamesSeen"] = s.deduper.Size()
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["gamesProcessed"] = s.pool.Processed()
	}
	return stats
}
