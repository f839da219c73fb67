package app

import (
	"clearance-refresher/internal/common"
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/metrics"
	"clearance-refresher/internal/proxy"
	"clearance-refresher/internal/publisher"
	"clearance-refresher/internal/refresher"
	"clearance-refresher/internal/solver"
	"context"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"time"
)

type Application struct {
	app    *fx.App
	logger *zap.Logger
}

func NewApplication(opts ...common.Option) *Application {
	options := &common.ServiceOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// Ensure required options are set
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	app := &Application{
		logger: options.Logger,
	}

	// Build fx application
	app.app = fx.New(
		// Core modules
		config.Module,
		proxy.Module,
		metrics.Module,
		solver.Module,
		publisher.Module,
		refresher.Module,

		// Provide base dependencies
		fx.Provide(
			func() *zap.Logger { return options.Logger },
			func() string { return options.Env },
		),

		// Configure fx
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),

		// Set timeouts
		fx.StopTimeout(30*time.Second),
		fx.StartTimeout(30*time.Second),

		// Register lifecycle hooks
		fx.Invoke(registerHooks),
	)

	return app
}

func (a *Application) Start(ctx context.Context) error {
	return a.app.Start(ctx)
}

func (a *Application) Stop(ctx context.Context) error {
	return a.app.Stop(ctx)
}

func registerHooks(lc fx.Lifecycle, logger *zap.Logger, r *refresher.Refresher, srv *metrics.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting application")
			if err := srv.Start(); err != nil {
				return err
			}
			// The start context is released once startup completes; the
			// refresh loop must outlive it.
			return r.Start(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping application")
			stopErr := r.Stop()
			if err := srv.Stop(ctx); err != nil && stopErr == nil {
				stopErr = err
			}
			return stopErr
		},
	})
}
