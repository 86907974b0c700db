package input

import (
	"unicode"

	"github.com/eiannone/keyboard"
)

type Action uint8

const (
	Press Action = iota
	Quit
	TogglePause
	Restart
)

type Event struct {
	Action Action
	Pitch  int
	Rune   rune
}

// KeyMap assigns consecutive semitones, starting at a base pitch, to a row
// of keys.
type KeyMap struct {
	keys []rune
	base int
}

func NewKeyMap(keys string, base int) KeyMap {
	return KeyMap{keys: []rune(keys), base: base}
}

func (k KeyMap) Len() int {
	return len(k.keys)
}

func (k KeyMap) Lowest() int {
	return k.base
}

func (k KeyMap) Highest() int {
	return k.base + len(k.keys) - 1
}

func (k KeyMap) Pitch(r rune) (int, bool) {
	r = unicode.ToLower(r)
	for i, key := range k.keys {
		if key == r {
			return k.base + i, true
		}
	}
	return 0, false
}

func (k KeyMap) Key(pitch int) (rune, bool) {
	i := pitch - k.base
	if i < 0 || i >= len(k.keys) {
		return 0, false
	}
	return k.keys[i], true
}

// Translate turns a terminal key into a game event. Keys that are neither
// mapped nor a control key are dropped.
func (k KeyMap) Translate(ev keyboard.KeyEvent) (Event, bool) {
	switch ev.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return Event{Action: Quit}, true
	case keyboard.KeySpace:
		return Event{Action: TogglePause}, true
	case keyboard.KeyEnter:
		return Event{Action: Restart}, true
	}
	if ev.Rune == 0 {
		return Event{}, false
	}
	pitch, ok := k.Pitch(ev.Rune)
	if !ok {
		return Event{}, false
	}
	return Event{Action: Press, Pitch: pitch, Rune: ev.Rune}, true
}
