// Package heb implements the hierarchical event bus: a dispatcher that
// fans published events out to registered actors concurrently, tracks the
// work it spawns (including work spawned transitively by that work) and
// drains it all on shutdown.
package heb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"go-heb/internal/core"
)

// ErrUnknownBus reports a bus outside the set the dispatcher was built with.
var ErrUnknownBus = errors.New("unknown bus")

// ActorError records one failed actor invocation. Failures are isolated
// from sibling listeners and surfaced in aggregate by Shutdown.
type ActorError struct {
	Op  string   // "act" or "close"
	Bus core.Bus // bus of the triggering event, empty for close
	Err error
}

func (e *ActorError) Error() string {
	if e.Op == "close" {
		return fmt.Sprintf("actor close: %v", e.Err)
	}
	return fmt.Sprintf("actor act on %s: %v", e.Bus, e.Err)
}

func (e *ActorError) Unwrap() error { return e.Err }

// HEB is the hierarchical event bus. It owns the per-bus listener registry
// and the set of in-flight units of work; actors reach it only through
// Register and the emitter capability passed to Act.
type HEB struct {
	logger zerolog.Logger
	tasks  *taskGroup

	mu        sync.Mutex
	listeners map[core.Bus][]core.Actor
	distinct  []core.Actor // one entry per actor instance, registration order
	seen      map[core.Actor]struct{}
	failures  []error
}

// New builds a dispatcher serving the given buses. A nil or empty bus set
// means core.DefaultBuses; a nil logger disables logging.
func New(buses []core.Bus, logger *zerolog.Logger) *HEB {
	if len(buses) == 0 {
		buses = core.DefaultBuses()
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	listeners := make(map[core.Bus][]core.Actor, len(buses))
	for _, b := range buses {
		listeners[b] = nil
	}
	return &HEB{
		logger:    *logger,
		tasks:     newTaskGroup(),
		listeners: listeners,
		seen:      make(map[core.Actor]struct{}),
	}
}

// Register appends actor to the listeners of bus. The registry is
// append-only; there is no unregister and no deduplication of repeat
// registrations. Registering after dispatch has begun takes effect for
// subsequent publications only.
func (h *HEB) Register(actor core.Actor, bus core.Bus) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.listeners[bus]; !ok {
		return fmt.Errorf("register on %q: %w", bus, ErrUnknownBus)
	}
	h.listeners[bus] = append(h.listeners[bus], actor)
	if _, ok := h.seen[actor]; !ok {
		h.seen[actor] = struct{}{}
		h.distinct = append(h.distinct, actor)
	}
	h.logger.Debug().Str("bus", bus.String()).Msg("actor registered")
	return nil
}

// Emit publishes event on bus, spawning one unit of work per listener
// registered at this moment, in registration order. It returns once the
// work is scheduled and never waits for completion. Failures inside
// listeners are deferred and reported by Shutdown, so they can neither
// block the publisher nor abort dispatch to sibling listeners.
func (h *HEB) Emit(ctx context.Context, event core.Event, bus core.Bus) error {
	h.mu.Lock()
	registered, ok := h.listeners[bus]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("emit on %q: %w", bus, ErrUnknownBus)
	}
	snapshot := make([]core.Actor, len(registered))
	copy(snapshot, registered)
	h.mu.Unlock()

	h.logger.Debug().
		Str("bus", bus.String()).
		Str("event", event.ID).
		Int("listeners", len(snapshot)).
		Msg("event published")

	for _, listener := range snapshot {
		listener := listener
		h.tasks.Go(func() {
			if err := listener.Act(ctx, event, emitter{h: h}); err != nil {
				h.recordFailure(&ActorError{Op: "act", Bus: bus, Err: err})
				h.logger.Error().Err(err).Str("bus", bus.String()).Msg("actor failed")
			}
		})
	}
	return nil
}

// Shutdown waits until no spawned unit of work remains anywhere in the
// reaction graph, then closes every distinct registered actor exactly once
// and returns all deferred actor failures as one combined error. Work
// spawned while draining is waited on too; a perpetually re-emitting actor
// therefore blocks Shutdown until ctx is cancelled. The caller must stop
// publishing before shutting down.
func (h *HEB) Shutdown(ctx context.Context) error {
	if err := h.tasks.WaitIdle(ctx); err != nil {
		return multierr.Append(fmt.Errorf("drain: %w", err), h.collectFailures())
	}

	h.mu.Lock()
	actors := make([]core.Actor, len(h.distinct))
	copy(actors, h.distinct)
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, a := range actors {
		a := a
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.Close(ctx); err != nil {
				h.recordFailure(&ActorError{Op: "close", Err: err})
			}
		}()
	}
	wg.Wait()

	h.logger.Debug().Int("actors", len(actors)).Msg("dispatcher shut down")
	return h.collectFailures()
}

func (h *HEB) recordFailure(err error) {
	h.mu.Lock()
	h.failures = append(h.failures, err)
	h.mu.Unlock()
}

func (h *HEB) collectFailures() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return multierr.Combine(h.failures...)
}

// emitter is the narrow capability handed to executing actors. It exposes
// publishing and nothing else.
type emitter struct{ h *HEB }

func (e emitter) Emit(ctx context.Context, event core.Event, bus core.Bus) error {
	return e.h.Emit(ctx, event, bus)
}

var _ core.Emitter = emitter{}
