package app

import (
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/metrics"
	"clearance-refresher/internal/proxy"
	"clearance-refresher/internal/publisher"
	"clearance-refresher/internal/refresher"
	"clearance-refresher/internal/solver"
	"context"
	"testing"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

// TestApplication assembles the full application graph for tests.
// Extra fx options are appended last so tests can replace or decorate
// any provided dependency.
type TestApplication struct {
	tb      testing.TB
	testApp *fxtest.App
	options []fx.Option
	logger  *zap.Logger
}

func NewTestApplication(tb testing.TB, opts ...fx.Option) *TestApplication {
	return &TestApplication{
		tb:      tb,
		logger:  zap.NewNop(),
		options: opts,
	}
}

func (ta *TestApplication) Start(ctx context.Context) error {
	testOptions := []fx.Option{
		config.Module,
		proxy.Module,
		metrics.Module,
		solver.Module,
		publisher.Module,
		refresher.Module,

		fx.Provide(
			func() *zap.Logger { return ta.logger },
			func() string { return "test" },
		),

		fx.Invoke(registerHooks),

		fx.StartTimeout(10 * time.Second),
		fx.StopTimeout(10 * time.Second),
	}

	testOptions = append(testOptions, ta.options...)

	ta.testApp = fxtest.New(
		ta.tb,
		testOptions...,
	)

	return ta.testApp.Start(ctx)
}

func (ta *TestApplication) Stop(ctx context.Context) error {
	if ta.testApp != nil {
		return ta.testApp.Stop(ctx)
	}
	return nil
}
