package game

// Chart is the parsed, time ordered result of a chart payload. It is never
// modified after parsing; players work on a copy from Notes().
type Chart struct {
	notes      []Note
	DurationMs float64
	NoteCount  int
}

func NewChart(notes []Note, durationMs float64) *Chart {
	return &Chart{
		notes:      notes,
		DurationMs: durationMs,
		NoteCount:  len(notes),
	}
}

// Notes returns a fresh copy of the chart's notes.
func (c *Chart) Notes() []Note {
	nn := make([]Note, len(c.notes))
	copy(nn, c.notes)
	return nn
}

// Note returns a copy of the note at index i.
func (c *Chart) Note(i int) Note {
	return c.notes[i]
}
