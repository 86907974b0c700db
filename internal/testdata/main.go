// Package testdata holds chart payloads shared by tests.
package testdata

import _ "embed"

// Scale is an ascending C major scale, one note every 500ms, written out
// of order and mixing the legacy field names.
//
//go:embed scale.json
var Scale []byte

// Chord has three notes struck together at 1000ms followed by a single
// long note.
//
//go:embed chord.json
var Chord []byte

// Pair is the two note chart {0ms C4, 500ms D4} without durations.
var Pair = []byte(`{"notes":[{"timeMs":0,"midi":60},{"timeMs":500,"midi":62}]}`)
