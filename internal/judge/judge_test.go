package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.lost.host/meutraa/keyfall/internal/game"
)

var w = game.DefaultHitWindows

var classifyTests = map[float64]game.HitResult{
	0:      game.Perfect,
	59.9:   game.Perfect,
	60:     game.Perfect,
	-60:    game.Perfect,
	60.001: game.Great,
	120:    game.Great,
	-95:    game.Great,
	120.5:  game.Good,
	180:    game.Good,
	-180:   game.Good,
	180.01: game.Miss,
	5000:   game.Miss,
}

func TestClassify(t *testing.T) {
	for delta, expected := range classifyTests {
		if got := Classify(delta, true, w); got != expected {
			t.Log("delta   ", delta)
			t.Log("got     ", got)
			t.Log("expected", expected)
			t.Fail()
		}
	}
}

func TestClassifyWrongPitch(t *testing.T) {
	for delta := -500.0; delta <= 500; delta += 7.5 {
		assert.Equal(t, game.WrongNote, Classify(delta, false, w), "delta %v", delta)
	}
}

func TestClassifyBoundariesSweep(t *testing.T) {
	for d := 0; d <= 400; d++ {
		got := Classify(float64(d), true, w)
		var expected game.HitResult
		switch {
		case d <= 60:
			expected = game.Perfect
		case d <= 120:
			expected = game.Great
		case d <= 180:
			expected = game.Good
		default:
			expected = game.Miss
		}
		require.Equal(t, expected, got, "delta %d", d)
	}
}

func TestCustomWindows(t *testing.T) {
	tight := game.HitWindows{Perfect: 10, Great: 20, Good: 30}
	assert.Equal(t, game.Great, Classify(15, true, tight))
	assert.Equal(t, game.Miss, Classify(31, true, tight))
	assert.True(t, IsMissed(1000, 1031, tight))
	assert.False(t, IsMissed(1000, 1030, tight))
}

func TestIsMissed(t *testing.T) {
	assert.False(t, IsMissed(1000, 1180, w))
	assert.True(t, IsMissed(1000, 1180.5, w))
	assert.False(t, IsMissed(1000, 0, w))
}

func TestIsHittable(t *testing.T) {
	assert.True(t, IsHittable(1000, 820, w))
	assert.True(t, IsHittable(1000, 1180, w))
	assert.False(t, IsHittable(1000, 819, w))
	assert.False(t, IsHittable(1000, 1181, w))
}

func TestFindBestMatchPrefersClosest(t *testing.T) {
	notes := []game.Note{
		{ID: "note-0", Midi: 60, TimeMs: 1000},
		{ID: "note-1", Midi: 60, TimeMs: 1100},
	}
	m, ok := FindBestMatch(60, 1090, notes, w)
	require.True(t, ok)
	assert.Equal(t, "note-1", m.Note.ID)
	assert.Equal(t, 1, m.Index)
	assert.InDelta(t, -10, m.DeltaMs, 1e-9)
	assert.Equal(t, game.Perfect, m.HitResult)
}

func TestFindBestMatchTieKeepsEarlierNote(t *testing.T) {
	notes := []game.Note{
		{ID: "a", Midi: 60, TimeMs: 1000},
		{ID: "b", Midi: 60, TimeMs: 1100},
	}
	m, ok := FindBestMatch(60, 1050, notes, w)
	require.True(t, ok)
	assert.Equal(t, "a", m.Note.ID)
}

func TestFindBestMatchSkipsResolvedAndOtherPitches(t *testing.T) {
	notes := []game.Note{
		{ID: "a", Midi: 60, TimeMs: 1000, Hit: true, HitResult: game.Perfect},
		{ID: "b", Midi: 62, TimeMs: 1000},
		{ID: "c", Midi: 60, TimeMs: 1150},
	}
	m, ok := FindBestMatch(60, 1000, notes, w)
	require.True(t, ok)
	assert.Equal(t, "c", m.Note.ID)
	assert.Equal(t, game.Great, m.HitResult)

	_, ok = FindBestMatch(64, 1000, notes, w)
	assert.False(t, ok)
}

func TestFindBestMatchOutsideWindow(t *testing.T) {
	notes := []game.Note{{ID: "a", Midi: 60, TimeMs: 1000}}
	_, ok := FindBestMatch(60, 1181, notes, w)
	assert.False(t, ok)
	_, ok = FindBestMatch(60, 819, notes, w)
	assert.False(t, ok)
	m, ok := FindBestMatch(60, 1180, notes, w)
	require.True(t, ok)
	assert.Equal(t, game.Good, m.HitResult)
}

func TestFindBestMatchPointsIntoSlice(t *testing.T) {
	notes := []game.Note{{ID: "a", Midi: 60, TimeMs: 0}}
	m, ok := FindBestMatch(60, 0, notes, w)
	require.True(t, ok)
	m.Note.Resolve(m.HitResult)
	assert.True(t, notes[0].Hit)
	_, ok = FindBestMatch(60, 0, notes, w)
	assert.False(t, ok)
}

func TestFindAnyHittable(t *testing.T) {
	notes := []game.Note{
		{ID: "a", Midi: 60, TimeMs: 0, Hit: true},
		{ID: "b", Midi: 62, TimeMs: 900},
		{ID: "c", Midi: 64, TimeMs: 1000},
	}
	m, ok := FindAnyHittable(1000, notes, w)
	require.True(t, ok)
	assert.Equal(t, "b", m.Note.ID)
	assert.Equal(t, game.WrongNote, m.HitResult)
	assert.InDelta(t, 100, m.DeltaMs, 1e-9)

	_, ok = FindAnyHittable(5000, notes, w)
	assert.False(t, ok)
}

var result game.HitResult

func BenchmarkFindBestMatch(b *testing.B) {
	notes := make([]game.Note, 2000)
	for i := range notes {
		notes[i] = game.Note{Midi: 60 + i%12, TimeMs: float64(i * 125)}
	}
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		m, _ := FindBestMatch(64, 125000, notes, w)
		result = m.HitResult
	}
}
