package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/pitchfx/internal/adapters/feedsource"
	"github.com/okian/pitchfx/internal/adapters/http/api"
	app "github.com/okian/pitchfx/internal/app"
	"github.com/okian/pitchfx/internal/config"
	"github.com/okian/pitchfx/internal/domain/model"
	"github.com/okian/pitchfx/internal/domain/pitchfx"
	"github.com/okian/pitchfx/pkg/logger"
	"github.com/okian/pitchfx/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

// Batch submission constants.
const (
	backpressureRetryDelay = 20 * time.Millisecond
	maxGameListing         = 500
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		stop()
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("invalid log_format; keeping text: " + err.Error() + "\n")
		_ = logger.Init()
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	err = run(ctx, cfg, loggerInstance)
	stop()
	_ = logger.Sync()
	if err != nil {
		loggerInstance.Error(context.Background(), "pitchfx failed", logger.Error(err))
		os.Exit(1)
	}
}

// run converts every feed under cfg.FeedDir. With cfg.Addr set it keeps
// serving the ops endpoints until ctx is cancelled; otherwise it returns
// once the batch is written.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	metrics.SetEnabled(cfg.MetricsEnabled)
	metrics.SetRefreshInterval(cfg.MetricsRefreshInterval)

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		startSystemMetricsUpdater(gctx)
		return nil
	})
	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc)
		return nil
	})
	if cfg.Addr != "" {
		srv := newHTTPServer(gctx, cfg.Addr, svc)
		g.Go(func() error {
			return serve(gctx, srv, log)
		})
	}
	g.Go(func() error {
		err := convertBatch(gctx, cfg, svc, log)
		if cfg.Addr == "" {
			cancel()
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newService(cfg *config.Config, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithShardCount(cfg.ShardCount),
		app.WithLocation(cfg.Location()),
	)
}

// convertBatch loads the feed directory, converts every game and writes the
// results to cfg.OutputPath when set.
func convertBatch(ctx context.Context, cfg *config.Config, svc *app.Service, log logger.Logger) error {
	start := time.Now()
	jobs, loadErr := feedsource.NewDir(cfg.FeedDir, feedsource.WithLogger(log.Named("feedsource"))).Load(ctx)
	if len(jobs) == 0 {
		return fmt.Errorf("load feeds: %w", loadErr)
	}
	if loadErr != nil {
		log.Warn(ctx, "some feeds could not be loaded", logger.Error(loadErr))
	}

	for i := range jobs {
		if err := submit(ctx, svc, jobs[i]); err != nil {
			if errors.Is(err, app.ErrDuplicateGame) {
				log.Warn(ctx, "duplicate game in feed directory", logger.String("game_id", jobs[i].GameID))
				continue
			}
			return fmt.Errorf("submit %s: %w", jobs[i].GameID, err)
		}
	}
	if err := svc.Drain(ctx); err != nil {
		return fmt.Errorf("drain: %w", err)
	}

	results := svc.Results(ctx)
	failures := svc.Failures()
	for id, err := range failures {
		log.Warn(ctx, "game not converted", logger.String("game_id", id), logger.Error(err))
	}
	log.Info(ctx, "batch converted",
		logger.Int("games", len(results)),
		logger.Int("failed", len(failures)),
		logger.Float64("elapsed_ms", float64(time.Since(start).Microseconds())/1000),
	)

	if cfg.OutputPath == "" {
		return nil
	}
	if err := writeResults(cfg.OutputPath, results); err != nil {
		return err
	}
	log.Info(ctx, "results written", logger.String("path", cfg.OutputPath))
	return nil
}

// submit enqueues j, waiting out backpressure until ctx ends.
func submit(ctx context.Context, svc *app.Service, j model.Job) error { //nolint:gocritic // hugeParam: Job is queued by value
	for {
		err := svc.Submit(ctx, j)
		if !errors.Is(err, app.ErrBackpressure) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backpressureRetryDelay):
		}
	}
}

// writeResults dumps results as one indented JSON array.
func writeResults(path string, results []*pitchfx.Result) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	fh, err := os.Create(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	enc := json.NewEncoder(fh)
	enc.SetIndent("", "  ")
	if results == nil {
		results = []*pitchfx.Result{}
	}
	if err := enc.Encode(results); err != nil {
		_ = fh.Close()
		return fmt.Errorf("encode output: %w", err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func newHTTPServer(ctx context.Context, addr string, svc *app.Service) *http.Server {
	mux := http.NewServeMux()
	api.NewServer(svc, maxGameListing).Register(ctx, mux)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, log logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if stored, ok := stats["gamesStored"].(int); ok {
		metrics.UpdateRepositoryGames(stored)
	}
	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(workerCount)
	}
}
