package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/score"
)

func TestStars(t *testing.T) {
	tests := map[int]string{
		-1: "☆☆☆",
		0:  "☆☆☆",
		2:  "★★☆",
		3:  "★★★",
		9:  "★★★",
	}
	for n, expected := range tests {
		if s := Stars(n); s != expected {
			t.Log(n, s, "should be", expected)
			t.Fail()
		}
	}
}

func TestLength(t *testing.T) {
	assert.Equal(t, "6 seconds 500 milliseconds", Length(6500))
	assert.Equal(t, "2 minutes 5 seconds", Length(125000))
}

func TestWrite(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := score.Summary{
		Score:      12345,
		Accuracy:   92,
		Stars:      3,
		MaxStreak:  11,
		TotalNotes: 1200,
		HitCounts: score.HitCounts{
			game.Perfect: 1000, game.Great: 100, game.Good: 4, game.Miss: 90, game.WrongNote: 6,
		},
		Mistakes: []score.NoteContext{
			{NoteID: "note-3", ExpectedMidi: 60, ActualMidi: 62, DeltaMs: 120, Result: game.WrongNote},
			{NoteID: "note-9", ExpectedMidi: 64, ActualMidi: score.NoPitch, DeltaMs: 181, Result: game.Miss},
		},
	}
	best := &score.Record{PlayedAt: now.Add(-48 * time.Hour), Summary: score.Summary{Score: 12000}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Report{Title: "scale", DurationMs: 65000, Summary: s, Best: best, Now: now}))
	out := buf.String()

	assert.Contains(t, out, "scale: 1,200 notes in 1 minute 5 seconds")
	assert.Contains(t, out, "12,345")
	assert.Contains(t, out, "92%")
	assert.Contains(t, out, "★★★")
	assert.Contains(t, out, "PERFECT")
	assert.Contains(t, out, "1000")
	assert.Contains(t, out, "2 days ago")
	assert.Contains(t, out, "New best by 345!")
	assert.Contains(t, out, "note-3")
	assert.Contains(t, out, "C4")
	assert.Contains(t, out, "D4")
	assert.Contains(t, out, "+181ms")
}

func TestWriteWithoutHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Report{Summary: score.Summary{HitCounts: score.HitCounts{}}}))
	out := buf.String()
	assert.Contains(t, out, "Chart: 0 notes")
	assert.NotContains(t, out, "Previous best")
	assert.NotContains(t, out, "Mistakes")
}
