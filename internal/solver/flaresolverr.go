package solver

import (
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/domain"
	"context"
	"go.uber.org/zap"
	"time"
)

// Flaresolverr drives a FlareSolverr instance. Plain fetches go through
// request.get; credentialed proxies need a solver session because
// request.get cannot carry proxy credentials.
type Flaresolverr struct {
	*client
}

func NewFlaresolverr(cfg *config.Config, logger *zap.Logger, collector domain.MetricsCollector) *Flaresolverr {
	return &Flaresolverr{
		client: newClient(cfg, logger.With(zap.String("backend", config.SolverTypeFlaresolverr)), collector),
	}
}

func (f *Flaresolverr) Name() string {
	return config.SolverTypeFlaresolverr
}

func (f *Flaresolverr) FetchCookies(ctx context.Context, req Request) (domain.Cookies, error) {
	cmd := command{
		Cmd:        cmdRequestGet,
		URL:        req.TargetURL,
		MaxTimeout: int(req.Timeout / time.Millisecond),
	}

	if req.Proxy != nil {
		if req.Proxy.HasCredentials() {
			return f.fetchWithSession(ctx, cmd, req.Proxy)
		}
		cmd.Proxy = &proxyEntry{URL: req.Proxy.Address()}
	}

	resp, err := f.send(ctx, f.Name(), cmd)
	if err != nil {
		return nil, err
	}
	return solutionCookies(resp), nil
}

// fetchWithSession binds the request to a short-lived session that owns
// the credentialed proxy. The session is destroyed afterwards even when
// the fetch itself fails.
func (f *Flaresolverr) fetchWithSession(ctx context.Context, cmd command, proxy *domain.ProxyDescriptor) (domain.Cookies, error) {
	session, err := f.createSession(ctx, proxy)
	if err != nil {
		return nil, err
	}
	defer f.destroySession(ctx, session)

	cmd.Session = session
	resp, err := f.send(ctx, f.Name(), cmd)
	if err != nil {
		return nil, err
	}
	return solutionCookies(resp), nil
}

func (f *Flaresolverr) createSession(ctx context.Context, proxy *domain.ProxyDescriptor) (string, error) {
	resp, err := f.send(ctx, f.Name(), command{
		Cmd: cmdSessionCreate,
		Proxy: &proxyEntry{
			URL:      proxy.Address(),
			Username: proxy.Username,
			Password: proxy.Password,
		},
	})
	if err != nil {
		return "", err
	}

	if resp.Solution == nil || resp.Solution.Session == "" {
		return "", NewError(f.Name(), cmdSessionCreate, "solver did not return a session id", nil)
	}

	f.metrics.RecordSessionCreate()
	f.logger.Debug("created solver session", zap.String("session", resp.Solution.Session))
	return resp.Solution.Session, nil
}

// destroySession is best-effort: a leaked session only costs solver
// memory until its own expiry, so failures are logged and swallowed.
func (f *Flaresolverr) destroySession(ctx context.Context, session string) {
	_, err := f.send(ctx, f.Name(), command{
		Cmd:     cmdSessionDestroy,
		Session: session,
	})
	if err != nil {
		f.logger.Error("failed to destroy solver session",
			zap.String("session", session),
			zap.Error(err))
		return
	}

	f.metrics.RecordSessionDestroy()
	f.logger.Debug("destroyed solver session", zap.String("session", session))
}
