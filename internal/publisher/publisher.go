package publisher

import (
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/domain"
	"context"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"time"
)

// Publisher pushes a fresh clearance value to the consuming service.
type Publisher interface {
	Publish(ctx context.Context, clearance string) error
}

type payload struct {
	Clearance string `json:"cf_clearance"`
}

// HTTPPublisher POSTs the clearance to the configured update endpoint,
// authenticated with a bearer token.
type HTTPPublisher struct {
	http    *resty.Client
	logger  *zap.Logger
	metrics domain.MetricsCollector
}

func NewHTTPPublisher(cfg *config.Config, logger *zap.Logger, collector domain.MetricsCollector) *HTTPPublisher {
	httpClient := resty.New().
		SetBaseURL(cfg.Publish.Endpoint).
		SetTimeout(time.Duration(cfg.Publish.Timeout) * time.Second).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.Publish.AuthKey)

	return &HTTPPublisher{
		http:    httpClient,
		logger:  logger.With(zap.String("component", "publisher")),
		metrics: collector,
	}
}

func (p *HTTPPublisher) Publish(ctx context.Context, clearance string) error {
	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(payload{Clearance: clearance}).
		Post("")
	if err != nil {
		p.metrics.RecordPublish("error")
		return NewError(0, "", err)
	}

	if resp.IsError() {
		p.metrics.RecordPublish("error")
		return NewError(resp.StatusCode(), snippet(resp.Body()), nil)
	}

	p.metrics.RecordPublish("ok")
	p.logger.Debug("published clearance", zap.Int("status", resp.StatusCode()))
	return nil
}
