package solver

import (
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/domain"
	"context"
	"encoding/json"
	"fmt"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"time"
)

// Solver obtains challenge cookies from an external solver service. One
// implementation exists per supported backend; the active one is chosen
// once at startup from the configuration.
type Solver interface {
	FetchCookies(ctx context.Context, req Request) (domain.Cookies, error)
	Name() string
}

// Request describes a single cookie fetch. The refresh loop builds it
// once from the configuration and reuses it every cycle.
type Request struct {
	TargetURL string
	Proxy     *domain.ProxyDescriptor
	Timeout   time.Duration
}

// client is the command plumbing shared by all backends: every solver
// operation is a JSON command POSTed to the same versioned endpoint.
type client struct {
	http    *resty.Client
	logger  *zap.Logger
	metrics domain.MetricsCollector
}

func newClient(cfg *config.Config, logger *zap.Logger, collector domain.MetricsCollector) *client {
	httpClient := resty.New().
		SetBaseURL(cfg.Solver.URL).
		SetTimeout(time.Duration(cfg.Solver.Timeout) * time.Millisecond).
		SetHeader("Content-Type", "application/json")

	return &client{
		http:    httpClient,
		logger:  logger,
		metrics: collector,
	}
}

// send posts one command and decodes the envelope. Transport failures,
// non-2xx responses, undecodable bodies and status != "ok" all come back
// as *Error; callers only see a decoded, successful envelope.
func (c *client) send(ctx context.Context, backend string, cmd command) (*response, error) {
	c.logger.Debug("sending solver command", zap.String("cmd", cmd.Cmd))

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(cmd).
		Post("")
	if err != nil {
		c.metrics.RecordSolverRequest(backend, "error")
		return nil, NewError(backend, cmd.Cmd, "solver request failed", err)
	}

	if resp.IsError() {
		c.metrics.RecordSolverRequest(backend, "error")
		return nil, NewError(backend, cmd.Cmd,
			fmt.Sprintf("solver returned HTTP %d: %s", resp.StatusCode(), snippet(resp.Body())), nil)
	}

	var parsed response
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		c.metrics.RecordSolverRequest(backend, "error")
		return nil, NewError(backend, cmd.Cmd,
			fmt.Sprintf("invalid solver response: %s", snippet(resp.Body())), err)
	}

	if parsed.Status != statusOK {
		c.metrics.RecordSolverRequest(backend, "error")
		return nil, NewError(backend, cmd.Cmd,
			fmt.Sprintf("solver status %q: %s", parsed.Status, parsed.Message), nil)
	}

	c.metrics.RecordSolverRequest(backend, "ok")
	return &parsed, nil
}

func solutionCookies(resp *response) domain.Cookies {
	if resp.Solution == nil {
		return nil
	}
	return resp.Solution.Cookies
}
