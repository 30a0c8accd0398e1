package core

import (
	"time"

	"github.com/google/uuid"
)

// Event is the message envelope that travels on the buses. Events are
// immutable once constructed and may be shared between concurrently
// executing actors without copying.
type Event struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Payload   map[string]any `json:"payload"`
}

// NewEvent stamps the current time and wraps the payload. Payload keys are
// a convention between cooperating actors; no schema is enforced here.
func NewEvent(payload map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Payload:   payload,
	}
}
