package publisher

import (
	"go.uber.org/fx"
)

// Module exports the publisher module
var Module = fx.Options(
	fx.Provide(NewHTTPPublisher),
	fx.Provide(func(p *HTTPPublisher) Publisher { return p }),
)
