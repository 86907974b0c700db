package game

// DefaultDurationMs is the sustain given to notes whose payload omits one.
const DefaultDurationMs = 400.0

type Note struct {
	ID         string  `json:"id"`
	TimeMs     float64 `json:"timeMs"`     // The time the note should be struck
	Midi       int     `json:"midi"`       // Pitch, 0-127
	DurationMs float64 `json:"durationMs"` // Sustain, not used for scoring
	Name       string  `json:"name"`       // Display name, C4, F#3, M12

	// This is state
	Hit       bool      `json:"hit"`
	HitResult HitResult `json:"hitResult"`
}

// EndMs is the time the note's sustain runs out.
func (n *Note) EndMs() float64 {
	return n.TimeMs + n.DurationMs
}

// Resolve assigns the outcome of the note. It reports false, and changes
// nothing, if the note had already been resolved.
func (n *Note) Resolve(result HitResult) bool {
	if n.Hit {
		return false
	}
	n.Hit = true
	n.HitResult = result
	return true
}
