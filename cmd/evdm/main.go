package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"go-heb/internal/actors"
	"go-heb/internal/config"
	"go-heb/internal/core"
	"go-heb/internal/heb"
)

// Accumulator sums incoming numbers from the memory bus and announces every
// multiple of ten on the texts bus.
type Accumulator struct {
	mu    sync.Mutex
	total int
}

func (a *Accumulator) Act(ctx context.Context, event core.Event, em core.Emitter) error {
	num, ok := event.Payload["number"].(int)
	if !ok {
		return nil
	}
	a.mu.Lock()
	a.total += num
	total := a.total
	a.mu.Unlock()

	if total%10 == 0 {
		return em.Emit(ctx, core.NewEvent(map[string]any{
			"text": fmt.Sprintf("memory at %d", total),
		}), core.Texts)
	}
	return nil
}

func (a *Accumulator) Close(context.Context) error { return nil }

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.AppEnv == "dev" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}

	bus := heb.New(nil, &logger)

	// Increments numbers arriving on the devices bus onto the texts bus and
	// forwards them to the memory bus for accumulation.
	incrementor := core.ActorFunc(func(ctx context.Context, event core.Event, em core.Emitter) error {
		num, ok := event.Payload["number"].(int)
		if !ok {
			return nil
		}
		if err := em.Emit(ctx, core.NewEvent(map[string]any{"text": num + 1}), core.Texts); err != nil {
			return err
		}
		return em.Emit(ctx, core.NewEvent(map[string]any{"number": num}), core.Memory)
	})

	printer := core.ActorFunc(func(_ context.Context, event core.Event, _ core.Emitter) error {
		logger.Info().Interface("text", event.Payload["text"]).Msg("text event")
		return nil
	})

	register := func(a core.Actor, b core.Bus) {
		if err := bus.Register(a, b); err != nil {
			logger.Fatal().Err(err).Str("bus", b.String()).Msg("register actor")
		}
	}
	register(&Accumulator{}, core.Memory)
	register(incrementor, core.Devices)
	register(printer, core.Texts)
	register(actors.NewDebugTap(core.Devices, &logger), core.Devices)
	if cfg.RedisAddr != "" {
		register(actors.NewRedisJournal(&redis.Options{Addr: cfg.RedisAddr}, "evdm:journal", &logger), core.Texts)
	}

	ctx := context.Background()
	for i := 0; i < cfg.PublishCount; i++ {
		time.Sleep(400 * time.Millisecond)
		if err := bus.Emit(ctx, core.NewEvent(map[string]any{"number": i}), core.Devices); err != nil {
			logger.Fatal().Err(err).Msg("publish event")
		}
	}

	if err := bus.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown reported actor failures")
		os.Exit(1)
	}
	logger.Info().Msg("pipeline drained")
}
