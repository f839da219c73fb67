package common

import (
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/domain"
	"go.uber.org/zap"
)

// ServiceOptions defines common options for service constructors
type ServiceOptions struct {
	Logger  *zap.Logger
	Metrics domain.MetricsCollector
	Config  *config.Config
	Env     string
}

// Option defines a service option modifier
type Option func(*ServiceOptions)

func WithLogger(logger *zap.Logger) Option {
	return func(o *ServiceOptions) {
		o.Logger = logger
	}
}

func WithMetrics(metrics domain.MetricsCollector) Option {
	return func(o *ServiceOptions) {
		o.Metrics = metrics
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(o *ServiceOptions) {
		o.Config = cfg
	}
}

func WithEnv(env string) Option {
	return func(o *ServiceOptions) {
		o.Env = env
	}
}
