package game

import "strconv"

const (
	// MiddleC is the pitch simple melodies fall back to.
	MiddleC = 60

	lowestNamed  = 21  // A0
	highestNamed = 108 // C8
)

var pitchClasses = [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var (
	noteNames = map[int]string{}
	namePitch = map[string]int{}
)

func init() {
	for m := lowestNamed; m <= highestNamed; m++ {
		name := pitchClasses[m%12] + strconv.Itoa(m/12-1)
		noteNames[m] = name
		namePitch[name] = m
	}
}

// NoteName is the display name of a pitch, e.g. C4 for 60. Pitches
// outside the piano range are labelled M<number>.
func NoteName(midi int) string {
	if name, ok := noteNames[midi]; ok {
		return name
	}
	return "M" + strconv.Itoa(midi)
}

// MidiFromName is the inverse of NoteName for pitches on the piano range.
func MidiFromName(name string) (int, bool) {
	m, ok := namePitch[name]
	return m, ok
}

// IsBlackKey is true for sharps.
func IsBlackKey(midi int) bool {
	switch midi % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}
