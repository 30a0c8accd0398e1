package core

// Bus names a channel that events travel on. The dispatcher treats buses as
// opaque comparable keys; the set it serves is fixed when it is constructed.
type Bus string

// Buses of a spoken dialog pipeline.
const (
	Memory        Bus = "memory"
	Semantics     Bus = "semantics"
	Texts         Bus = "texts"
	AudioSegments Bus = "audio_segments"
	AudioSignals  Bus = "audio_signals"
	Devices       Bus = "devices"
)

// DefaultBuses returns the standard spoken dialog bus topology. Embedding
// applications may pass their own set to the dispatcher instead.
func DefaultBuses() []Bus {
	return []Bus{Memory, Semantics, Texts, AudioSegments, AudioSignals, Devices}
}

func (b Bus) String() string { return string(b) }
