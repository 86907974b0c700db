package synth

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	SampleRate = beep.SampleRate(44100)
	toneLength = 350 * time.Millisecond
	amplitude  = 0.3
)

// Player mixes a short tone for every played pitch into the speaker.
type Player struct {
	sr    beep.SampleRate
	mixer *beep.Mixer
	log   zerolog.Logger
}

func NewPlayer(log zerolog.Logger) (*Player, error) {
	p := &Player{sr: SampleRate, mixer: &beep.Mixer{}, log: log}
	if err := speaker.Init(p.sr, p.sr.N(time.Second/60)); err != nil {
		return nil, errors.Wrap(err, "unable to initialise speaker")
	}
	speaker.Play(&effects.Volume{Streamer: p.mixer, Base: 2})
	return p, nil
}

func (p *Player) Play(midi int) {
	speaker.Lock()
	p.mixer.Add(NewTone(p.sr, midi, toneLength, amplitude))
	speaker.Unlock()
	p.log.Debug().Int("midi", midi).Msg("tone")
}

func (p *Player) Close() {
	speaker.Clear()
}
