package solver

import (
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/domain"
	"context"
	"go.uber.org/zap"
	"time"
)

// Byparr speaks the same command envelope as FlareSolverr but has no
// proxy support of its own: egress must be configured on the Byparr
// instance directly.
type Byparr struct {
	*client
}

func NewByparr(cfg *config.Config, logger *zap.Logger, collector domain.MetricsCollector) *Byparr {
	return &Byparr{
		client: newClient(cfg, logger.With(zap.String("backend", config.SolverTypeByparr)), collector),
	}
}

func (b *Byparr) Name() string {
	return config.SolverTypeByparr
}

func (b *Byparr) FetchCookies(ctx context.Context, req Request) (domain.Cookies, error) {
	if req.Proxy != nil {
		b.logger.Error("byparr does not support proxies, configure egress in the byparr instance instead")
	}

	resp, err := b.send(ctx, b.Name(), command{
		Cmd:        cmdRequestGet,
		URL:        req.TargetURL,
		MaxTimeout: int(req.Timeout / time.Millisecond),
	})
	if err != nil {
		return nil, err
	}
	return solutionCookies(resp), nil
}
