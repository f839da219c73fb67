package refresher

import (
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/domain"
	"clearance-refresher/internal/publisher"
	"clearance-refresher/internal/solver"
	"context"
	"fmt"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"sync"
	"time"
)

const shutdownTimeout = 30 * time.Second

// Refresher owns the refresh loop: one cycle fetches cookies from the
// solver, extracts the clearance value and publishes it. Failed cycles
// are never retried; the next tick is the retry.
type Refresher struct {
	solver    solver.Solver
	publisher publisher.Publisher
	request   solver.Request
	interval  time.Duration
	logger    *zap.Logger
	metrics   domain.MetricsCollector
	wg        sync.WaitGroup
	cancel    context.CancelFunc
	mu        sync.Mutex
	isStarted bool
}

func New(
	cfg *config.Config,
	s solver.Solver,
	pub publisher.Publisher,
	proxy *domain.ProxyDescriptor,
	metrics domain.MetricsCollector,
	logger *zap.Logger,
) *Refresher {
	logger = logger.With(zap.String("component", "refresher"))

	interval := time.Duration(cfg.Refresh.Interval) * time.Second
	floor := time.Duration(cfg.Refresh.MinExecInterval) * time.Second
	if interval < floor {
		logger.Warn("refresh interval below the execution floor, clamping",
			zap.Duration("interval", interval),
			zap.Duration("min_exec_interval", floor))
		interval = floor
	}

	return &Refresher{
		solver:    s,
		publisher: pub,
		request: solver.Request{
			TargetURL: cfg.Refresh.TargetURL,
			Proxy:     proxy,
			Timeout:   time.Duration(cfg.Solver.Timeout) * time.Millisecond,
		},
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.isStarted {
		r.mu.Unlock()
		return fmt.Errorf("refresher already started")
	}
	r.isStarted = true
	r.mu.Unlock()

	loopCtx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.run(loopCtx)
	}()

	r.logger.Info("refresh loop started",
		zap.Duration("interval", r.interval),
		zap.String("solver", r.solver.Name()),
		zap.String("target_url", r.request.TargetURL))

	// Monitor parent context
	go func() {
		select {
		case <-ctx.Done():
			r.logger.Debug("parent context cancelled, stopping refresh loop")
			r.Stop()
		case <-loopCtx.Done():
		}
	}()

	return nil
}

func (r *Refresher) run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	// The first cycle runs immediately, the ticker paces the rest.
	r.runCycle(ctx)

	for {
		select {
		case <-ticker.C:
			r.runCycle(ctx)
		case <-ctx.Done():
			r.logger.Debug("refresh loop stopped", zap.Error(ctx.Err()))
			return
		}
	}
}

func (r *Refresher) runCycle(ctx context.Context) {
	cycleID := uuid.NewString()
	logger := r.logger.With(zap.String("cycle_id", cycleID))
	logger.Debug("starting refresh cycle")

	result := domain.CycleResult{
		Cycle: domain.Cycle{ID: cycleID},
	}
	start := time.Now()

	defer func() {
		result.Cycle.TimeStamp = start
		result.Duration = time.Since(start)
		result.Completed = time.Now()
		r.metrics.RecordCycle(result)
	}()

	cookies, err := r.solver.FetchCookies(ctx, r.request)
	if err != nil {
		result.Cycle.Status = domain.CycleSolverError
		result.Cycle.Error = err
		logger.Error("failed to fetch cookies from solver", zap.Error(err))
		return
	}

	clearance, found := cookies.Value(domain.ClearanceCookie)
	if !found || clearance == "" {
		result.Cycle.Status = domain.CycleEmptyCookie
		logger.Error("no clearance cookie in solver response, the egress IP may not be challenged")
		return
	}
	result.Cycle.Cookie = clearance

	if err := r.publisher.Publish(ctx, clearance); err != nil {
		result.Cycle.Status = domain.CyclePublishError
		result.Cycle.Error = err
		logger.Error("failed to publish clearance", zap.Error(err))
		return
	}

	result.Cycle.Status = domain.CycleSuccess
	logger.Info("clearance refreshed", zap.String("cookie", mask(clearance)))
}

func (r *Refresher) Stop() error {
	r.mu.Lock()
	if !r.isStarted {
		r.mu.Unlock()
		return nil
	}
	r.isStarted = false
	r.mu.Unlock()

	r.logger.Debug("stopping refresh loop")

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	// Wait for the loop goroutine with timeout
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Debug("refresh loop stopped gracefully")
		return nil
	case <-time.After(shutdownTimeout):
		return fmt.Errorf("refresh loop shutdown timed out")
	}
}

func (r *Refresher) IsHealthy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isStarted
}

// mask keeps clearance values out of the logs while leaving enough to
// correlate with the consuming service.
func mask(value string) string {
	if len(value) <= 8 {
		return "********"
	}
	return value[:8] + "..."
}
