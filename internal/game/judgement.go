package game

import "fmt"

// HitResult is the outcome assigned to a note when it is resolved.
type HitResult uint8

const (
	Unresolved HitResult = iota
	Perfect
	Great
	Good
	Miss
	WrongNote
)

// HitResults lists every outcome a note can be resolved with.
var HitResults = [...]HitResult{Perfect, Great, Good, Miss, WrongNote}

func (h HitResult) String() string {
	switch h {
	case Unresolved:
		return ""
	case Perfect:
		return "PERFECT"
	case Great:
		return "GREAT"
	case Good:
		return "GOOD"
	case Miss:
		return "MISS"
	case WrongNote:
		return "WRONG_NOTE"
	}
	return fmt.Sprintf("HitResult(%d)", uint8(h))
}

// Successful is true for the results that keep a streak alive.
func (h HitResult) Successful() bool {
	switch h {
	case Perfect, Great, Good:
		return true
	}
	return false
}

func (h HitResult) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *HitResult) UnmarshalText(b []byte) error {
	s := string(b)
	if s == "" {
		*h = Unresolved
		return nil
	}
	for _, r := range HitResults {
		if r.String() == s {
			*h = r
			return nil
		}
	}
	return fmt.Errorf("unknown hit result %q", s)
}

// HitWindows are the millisecond thresholds used both to classify a hit
// and to decide when a note has been missed.
type HitWindows struct {
	Perfect float64 `yaml:"perfect" json:"perfect"`
	Great   float64 `yaml:"great" json:"great"`
	Good    float64 `yaml:"good" json:"good"`
}

var DefaultHitWindows = HitWindows{Perfect: 60, Great: 120, Good: 180}

func (w HitWindows) Validate() error {
	if w.Perfect < 0 {
		return &ValidationError{Index: -1, Field: "hitWindows.perfect", Reason: "must not be negative"}
	}
	if w.Great < w.Perfect {
		return &ValidationError{Index: -1, Field: "hitWindows.great", Reason: "must not be smaller than perfect"}
	}
	if w.Good < w.Great {
		return &ValidationError{Index: -1, Field: "hitWindows.good", Reason: "must not be smaller than great"}
	}
	return nil
}
