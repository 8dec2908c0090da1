// Package worker runs game conversions off the queue, one game per task.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/pitchfx/internal/domain/feed"
	"github.com/okian/pitchfx/internal/domain/model"
	"github.com/okian/pitchfx/internal/domain/pitchfx"
	"github.com/okian/pitchfx/pkg/logger"
	"github.com/okian/pitchfx/pkg/metrics"
)

const (
	metricsUpdateInterval = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job and Outcome are what flows into and out of a worker.
type (
	Job     = model.Job
	Outcome = model.Outcome
)

// Converter turns one game feed into pitch applications and logs.
type Converter interface {
	Convert(ctx context.Context, f *feed.GameFeed, gameDate time.Time, gameID string) (*pitchfx.Result, error)
}

// Sink receives every successfully converted game.
type Sink interface {
	Put(ctx context.Context, res *pitchfx.Result) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs until the queue drains or ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	converter Converter
	sink      Sink
	name      string
	onDone    func(Outcome)
	processed *atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, c Converter, s Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		converter: c,
		sink:      s,
		name:      "worker",
		processed: &atomic.Int64{},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Default().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.With(logger.String("worker", w.name))
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

// Shutdown implements Worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

// process converts one game and hands the result to the sink. A failed
// game never stops the worker.
func (w *InMemoryWorker) process(ctx context.Context, j Job) { //nolint:gocritic // hugeParam: Job arrives by value
	metrics.AddWorkerActive(1)
	defer metrics.AddWorkerActive(-1)

	start := time.Now()
	out := Outcome{Job: j}
	out.Result, out.Err = w.convert(ctx, j)
	out.Duration = time.Since(start)
	latencyMs := float64(out.Duration.Microseconds()) / 1000

	metrics.RecordWorkerProcessingLatency(latencyMs)
	w.processed.Add(1)

	if out.Err != nil {
		metrics.RecordGameFailed()
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "game conversion failed",
			logger.String("game_id", j.GameID),
			logger.String("source", j.Source),
			logger.Error(out.Err),
		)
	} else {
		metrics.RecordGameConverted(out.Result.PitchCount, len(out.Result.Applications), latencyMs)
		w.logger.Debug(ctx, "game converted",
			logger.String("game_id", j.GameID),
			logger.Int("pitches", out.Result.PitchCount),
			logger.Float64("latency_ms", latencyMs),
		)
	}

	if w.onDone != nil {
		w.onDone(out)
	}
}

func (w *InMemoryWorker) convert(ctx context.Context, j Job) (*pitchfx.Result, error) { //nolint:gocritic // hugeParam: Job arrives by value
	res, err := w.converter.Convert(ctx, j.Feed, j.GameDate, j.GameID)
	if err != nil {
		metrics.RecordErrorByComponent("worker", "conversion_error")
		metrics.RecordErrorByType("conversion_error", "high")
		return nil, fmt.Errorf("convert %s: %w", j.GameID, err)
	}
	if err := w.sink.Put(ctx, res); err != nil {
		metrics.RecordErrorByComponent("worker", "sink_error")
		metrics.RecordErrorByType("sink_error", "high")
		return nil, fmt.Errorf("store %s: %w", j.GameID, err)
	}
	return res, nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	shutdown  chan struct{}
	processed atomic.Int64
	lastTick  time.Time

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers sharing q. A count below
// one uses runtime.NumCPU. opts are applied to every worker.
func NewPool(workerCount int, q Queue, c Converter, s Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		shutdown: make(chan struct{}),
		lastTick: time.Now(),
		logger:   logger.Default().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(q, c, s, wopts...)
		w.processed = &p.processed
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerGamesPerSecond(0)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns the number of jobs handled so far, failed ones included.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	last := p.processed.Load()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case now := <-ticker.C:
			cur := p.processed.Load()
			if elapsed := now.Sub(p.lastTick).Seconds(); elapsed > 0 {
				metrics.UpdateWorkerGamesPerSecond(float64(cur-last) / elapsed)
			}
			last = cur
			p.lastTick = now
		}
	}
}

// Shutdown closes the queue and waits for the workers to drain it. Jobs
// still queued when ctx expires are abandoned.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	select {
	case <-p.shutdown:
	default:
		close(p.shutdown)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
