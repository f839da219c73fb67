package refresher

import (
	"clearance-refresher/internal/domain"
	"go.uber.org/fx"
)

// Module exports the refresher module
var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(func(r *Refresher) domain.HealthChecker { return r }),
)
