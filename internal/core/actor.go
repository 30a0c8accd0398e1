package core

import "context"

// Emitter lets an executing actor publish further events. It is the only
// dispatcher capability handed to actor code.
type Emitter interface {
	Emit(ctx context.Context, event Event, bus Bus) error
}

// Actor is the minimal behaviour expected from any processing stage. An
// actor is registered against one or more buses and reacts to every event
// published on them.
type Actor interface {
	// Act handles one event, optionally publishing further events through
	// em. Each call corresponds to exactly one (event, listener) pair.
	Act(ctx context.Context, event Event, em Emitter) error

	// Close releases actor-owned resources. The dispatcher calls it once
	// per distinct actor during shutdown, no matter how many buses the
	// actor is registered on. Implementations must tolerate repeat calls.
	Close(ctx context.Context) error
}

type funcActor struct {
	fn func(ctx context.Context, event Event, em Emitter) error
}

// ActorFunc adapts a plain function to the Actor interface with a no-op
// Close.
func ActorFunc(fn func(ctx context.Context, event Event, em Emitter) error) Actor {
	return &funcActor{fn: fn}
}

func (a *funcActor) Act(ctx context.Context, event Event, em Emitter) error {
	return a.fn(ctx, event, em)
}

func (a *funcActor) Close(context.Context) error { return nil }
