// Package judge classifies key presses against note timings. Everything
// here is a pure function of its arguments.
package judge

import (
	"math"

	"git.lost.host/meutraa/keyfall/internal/game"
)

// Classify grades an absolute timing error. A wrong pitch is always
// WrongNote. Each threshold is inclusive, so a delta equal to the perfect
// window is still Perfect.
func Classify(absDeltaMs float64, correctPitch bool, w game.HitWindows) game.HitResult {
	if !correctPitch {
		return game.WrongNote
	}
	d := math.Abs(absDeltaMs)
	switch {
	case d <= w.Perfect:
		return game.Perfect
	case d <= w.Great:
		return game.Great
	case d <= w.Good:
		return game.Good
	}
	return game.Miss
}

// IsMissed is true once the good window after noteTime has passed.
func IsMissed(noteTimeMs, currentTimeMs float64, w game.HitWindows) bool {
	return currentTimeMs > noteTimeMs+w.Good
}

func IsHittable(noteTimeMs, currentTimeMs float64, w game.HitWindows) bool {
	return math.Abs(currentTimeMs-noteTimeMs) <= w.Good
}

// Match is the note chosen for a key press. Delta is signed, positive when
// the press came late.
type Match struct {
	Index     int
	Note      *game.Note
	DeltaMs   float64
	HitResult game.HitResult
}

// FindBestMatch picks the unresolved note of the given pitch closest to
// currentTime, within the good window. Notes are scanned in slice order and
// only a strictly smaller distance replaces the current pick, so of two
// equally close notes the earlier one in the slice wins.
func FindBestMatch(pitch int, currentTimeMs float64, notes []game.Note, w game.HitWindows) (Match, bool) {
	best := -1
	bestDistance := math.Inf(1)

	for i := range notes {
		note := &notes[i]
		if note.Hit || note.Midi != pitch {
			continue
		}
		d := math.Abs(currentTimeMs - note.TimeMs)
		if d > w.Good {
			continue
		}
		if d < bestDistance {
			best = i
			bestDistance = d
		}
	}

	if best < 0 {
		return Match{}, false
	}
	note := &notes[best]
	delta := currentTimeMs - note.TimeMs
	return Match{
		Index:     best,
		Note:      note,
		DeltaMs:   delta,
		HitResult: Classify(bestDistance, true, w),
	}, true
}

// FindAnyHittable returns the first unresolved note, of any pitch, that is
// inside the good window at currentTime.
func FindAnyHittable(currentTimeMs float64, notes []game.Note, w game.HitWindows) (Match, bool) {
	for i := range notes {
		note := &notes[i]
		if note.Hit || !IsHittable(note.TimeMs, currentTimeMs, w) {
			continue
		}
		return Match{
			Index:     i,
			Note:      note,
			DeltaMs:   currentTimeMs - note.TimeMs,
			HitResult: game.WrongNote,
		}, true
	}
	return Match{}, false
}
