package proxy

import (
	"clearance-refresher/internal/config"
	"clearance-refresher/internal/domain"
	"go.uber.org/fx"
)

var Module = fx.Provide(ProvideDescriptor)

// ProvideDescriptor resolves the configured proxy once at startup. The
// refresh loop never re-reads it; a nil descriptor means direct egress.
func ProvideDescriptor(cfg *config.Config) (*domain.ProxyDescriptor, error) {
	return Resolve(cfg.Proxy.URL)
}
