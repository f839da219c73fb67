package solver

import (
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/domain"
	"fmt"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exports the solver module
var Module = fx.Options(
	fx.Provide(NewSolver),
)

// NewSolver selects the backend for the configured solver type.
func NewSolver(cfg *config.Config, logger *zap.Logger, collector domain.MetricsCollector) (Solver, error) {
	switch cfg.Solver.Type {
	case config.SolverTypeFlaresolverr:
		return NewFlaresolverr(cfg, logger, collector), nil
	case config.SolverTypeByparr:
		return NewByparr(cfg, logger, collector), nil
	default:
		return nil, config.NewError("SOLVER_TYPE", fmt.Sprintf("unknown solver type %q", cfg.Solver.Type))
	}
}
