package actors

import (
	"context"

	"github.com/rs/zerolog"

	"go-heb/internal/core"
)

// DebugTap is an actor that logs every event on its bus at debug level.
type DebugTap struct {
	bus    core.Bus
	logger zerolog.Logger
}

// NewDebugTap returns a tap for the given bus. A nil logger disables output.
func NewDebugTap(bus core.Bus, logger *zerolog.Logger) *DebugTap {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &DebugTap{bus: bus, logger: *logger}
}

func (t *DebugTap) Act(_ context.Context, event core.Event, _ core.Emitter) error {
	t.logger.Debug().
		Str("bus", t.bus.String()).
		Str("event", event.ID).
		Time("created_at", event.CreatedAt).
		Interface("payload", event.Payload).
		Msg("event observed")
	return nil
}

func (t *DebugTap) Close(context.Context) error { return nil }

var _ core.Actor = (*DebugTap)(nil)
