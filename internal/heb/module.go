package heb

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"go-heb/internal/core"
)

// Params configures the dispatcher provided by Module.
type Params struct {
	Buses  []core.Bus      // nil means core.DefaultBuses
	Logger *zerolog.Logger // nil disables logging
}

// Module wires a dispatcher into an fx application and drains it when the
// application stops.
func Module(p Params) fx.Option {
	return fx.Module("heb",
		fx.Supply(p),
		fx.Provide(provideHEB),
		fx.Invoke(registerLifecycle),
	)
}

func provideHEB(p Params) *HEB {
	return New(p.Buses, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, h *HEB) {
	lc.Append(fx.Hook{
		OnStop: h.Shutdown,
	})
}
