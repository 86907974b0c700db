package parser

import (
	"crypto/sha256"
	"encoding/base64"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"git.lost.host/meutraa/keyfall/internal/game"
)

const (
	DefaultBeatMs       = 500.0
	DefaultLookAheadMs  = 3000.0
	DefaultLookBehindMs = 500.0

	// Simple charts leave this gap between consecutive notes
	simpleNoteGapMs = 50.0
)

// ParseChart validates a chart payload of the form
//
//	{"notes": [{"timeMs": 0, "midi": 60, "durationMs": 400}, ...]}
//
// "time" and "duration" are accepted as legacy spellings. Note ids are
// assigned in payload order before the notes are sorted by time, so
// "note-3" is always the fourth note of the payload wherever it ends up.
// Nothing is returned unless every note is valid.
func ParseChart(raw []byte) (*game.Chart, error) {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return nil, &game.ValidationError{Index: -1, Field: "chart", Reason: "missing or not valid JSON"}
	}
	list := gjson.GetBytes(raw, "notes")
	if !list.IsArray() {
		return nil, &game.ValidationError{Index: -1, Field: "notes", Reason: "must be an array"}
	}

	elements := list.Array()
	notes := make([]game.Note, 0, len(elements))
	for i, el := range elements {
		note, err := parseNote(i, el)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	// Stable, so notes sharing a time keep their payload order
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].TimeMs < notes[j].TimeMs
	})

	duration := 0.0
	if len(notes) > 0 {
		duration = notes[len(notes)-1].EndMs()
	}
	return game.NewChart(notes, duration), nil
}

// first returns the first of the given keys present and not null.
func first(el gjson.Result, keys ...string) (gjson.Result, string) {
	for _, k := range keys {
		if v := el.Get(k); v.Exists() && v.Type != gjson.Null {
			return v, k
		}
	}
	return gjson.Result{}, keys[0]
}

func parseNote(i int, el gjson.Result) (game.Note, error) {
	t, field := first(el, "timeMs", "time")
	if t.Type != gjson.Number || t.Float() < 0 || math.IsInf(t.Float(), 0) {
		return game.Note{}, &game.ValidationError{Index: i, Field: field, Reason: "must be a non-negative number"}
	}

	m := el.Get("midi")
	if m.Type != gjson.Number || m.Float() != math.Trunc(m.Float()) || m.Float() < 0 || m.Float() > 127 {
		return game.Note{}, &game.ValidationError{Index: i, Field: "midi", Reason: "must be an integer between 0 and 127"}
	}

	duration := game.DefaultDurationMs
	if d, field := first(el, "durationMs", "duration"); d.Exists() {
		if d.Type != gjson.Number || d.Float() < 0 {
			return game.Note{}, &game.ValidationError{Index: i, Field: field, Reason: "must be a non-negative number"}
		}
		duration = d.Float()
	}

	midi := int(m.Float())
	return game.Note{
		ID:         "note-" + strconv.Itoa(i),
		TimeMs:     t.Float(),
		Midi:       midi,
		DurationMs: duration,
		Name:       game.NoteName(midi),
	}, nil
}

func ParseChartFile(path string) (*game.Chart, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read chart %s", path)
	}
	return ParseChart(raw)
}

// Hash identifies a chart payload, it keys the score history.
func Hash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return base64.StdEncoding.EncodeToString(sum[:])
}

type simpleNote struct {
	TimeMs     float64 `json:"timeMs"`
	Midi       int     `json:"midi"`
	DurationMs float64 `json:"durationMs"`
}

// SimpleNotesToChart builds a chart payload from note names played one per
// beat. Unknown names play middle C. beatMs <= 0 uses DefaultBeatMs. Beats
// shorter than the gap between notes give zero length notes.
func SimpleNotesToChart(names []string, beatMs float64) ([]byte, error) {
	if beatMs <= 0 {
		beatMs = DefaultBeatMs
	}
	raw := []byte(`{"notes":[]}`)
	for i, name := range names {
		midi, ok := game.MidiFromName(name)
		if !ok {
			midi = game.MiddleC
		}
		var err error
		raw, err = sjson.SetBytes(raw, "notes.-1", simpleNote{
			TimeMs:     float64(i) * beatMs,
			Midi:       midi,
			DurationMs: math.Max(0, beatMs-simpleNoteGapMs),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "unable to add note %d", i)
		}
	}
	return raw, nil
}

type TimeRange struct {
	StartMs float64
	EndMs   float64
}

func GetChartTimeRange(c *game.Chart) TimeRange {
	if c == nil || c.NoteCount == 0 {
		return TimeRange{}
	}
	return TimeRange{StartMs: c.Note(0).TimeMs, EndMs: c.DurationMs}
}

// GetVisibleNotes copies out the notes whose time lies within
// [current-lookBehind, current+lookAhead].
func GetVisibleNotes(notes []game.Note, currentTimeMs, lookAheadMs, lookBehindMs float64) []game.Note {
	visible := []game.Note{}
	for _, n := range notes {
		if n.TimeMs >= currentTimeMs-lookBehindMs && n.TimeMs <= currentTimeMs+lookAheadMs {
			visible = append(visible, n)
		}
	}
	return visible
}
