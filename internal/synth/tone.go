package synth

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// Frequency is the equal temperament pitch of a midi note, A4 = 440 Hz.
func Frequency(midi int) float64 {
	return 440 * math.Pow(2, float64(midi-69)/12)
}

// Tone is a sine voice that fades out linearly over its length.
type Tone struct {
	step      float64
	phase     float64
	pos, n    int
	amplitude float64
}

func NewTone(sr beep.SampleRate, midi int, length time.Duration, amplitude float64) *Tone {
	return &Tone{
		step:      2 * math.Pi * Frequency(midi) / float64(sr),
		n:         sr.N(length),
		amplitude: amplitude,
	}
}

func (t *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.n {
		return 0, false
	}
	for i := range samples {
		if t.pos >= t.n {
			return i, true
		}
		env := 1 - float64(t.pos)/float64(t.n)
		v := math.Sin(t.phase) * env * t.amplitude
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.step
		if t.phase >= 2*math.Pi {
			t.phase -= 2 * math.Pi
		}
		t.pos++
	}
	return len(samples), true
}

func (t *Tone) Err() error { return nil }
