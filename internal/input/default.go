package input

import (
	"context"

	"github.com/eiannone/keyboard"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ReadInput opens the terminal keyboard, which puts the terminal in raw
// mode, and forwards translated events until ctx is cancelled. The returned
// channel closes once the keyboard is released and the terminal restored.
// The terminal reports presses only, so no release events are produced.
func ReadInput(ctx context.Context, km KeyMap, events chan<- Event, log zerolog.Logger) (<-chan struct{}, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open keyboard")
	}
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		defer func() {
			if err := keyboard.Close(); nil != err {
				log.Warn().Err(err).Msg("unable to close keyboard")
			}
		}()
		pump(ctx, keys, km, events, log)
	}()
	return closed, nil
}

// pump forwards keys as events until ctx is done, keys closes or reading
// fails.
func pump(ctx context.Context, keys <-chan keyboard.KeyEvent, km KeyMap, events chan<- Event, log zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-keys:
			if !ok {
				return
			}
			if nil != key.Err {
				log.Error().Err(key.Err).Msg("unable to read keyboard input")
				return
			}
			ev, ok := km.Translate(key)
			if !ok {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}
