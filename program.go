package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"git.lost.host/meutraa/keyfall/internal/config"
	"git.lost.host/meutraa/keyfall/internal/engine"
	"git.lost.host/meutraa/keyfall/internal/feed"
	"git.lost.host/meutraa/keyfall/internal/game"
	"git.lost.host/meutraa/keyfall/internal/input"
	"git.lost.host/meutraa/keyfall/internal/parser"
	"git.lost.host/meutraa/keyfall/internal/render"
	"git.lost.host/meutraa/keyfall/internal/report"
	"git.lost.host/meutraa/keyfall/internal/score"
	"git.lost.host/meutraa/keyfall/internal/synth"
	"git.lost.host/meutraa/keyfall/internal/theme"
)

// Viewers get at most this many update messages per second
const feedRate = 20

type Program struct {
	Parser   parser.Parser
	Theme    theme.Theme
	Renderer render.Renderer

	cfg  *config.Config
	log  zerolog.Logger
	out  io.Writer
	keys input.KeyMap

	engine  *engine.Engine
	loop    *engine.Loop
	player  *synth.Player
	hub     *feed.Hub
	history *score.HistoryStore

	raw      []byte
	sum      string
	title    string
	lastFeed time.Time

	finished chan score.Summary
	// Most recent finished run and the best run before it
	result *score.Summary
	best   *score.Record
}

func (p *Program) Init(cfg *config.Config, log zerolog.Logger) error {
	p.cfg = cfg
	p.log = log
	if p.out == nil {
		p.out = os.Stdout
	}
	p.Parser = &parser.DefaultParser{}
	p.Theme = &theme.DefaultTheme{}
	p.keys = input.NewKeyMap(cfg.Keys, cfg.BaseMidi)
	p.Renderer = render.NewRenderer(p.out, p.Theme, p.keys, int(cfg.Spacing), int(cfg.BarRow))
	p.finished = make(chan score.Summary, 1)

	if err := p.loadChart(); err != nil {
		return err
	}

	var err error
	p.engine, err = engine.New(engine.Config{
		HitWindows:       &cfg.HitWindows,
		LookAheadMs:      cfg.LookAhead,
		NoteSpeedPxPerMs: cfg.ScrollSpeed,
		OnUpdate:         p.onUpdate,
		OnNoteHit:        p.onHit,
		OnNoteMiss:       p.onMiss,
		OnFinish:         p.onFinish,
		Logger:           &p.log,
		Parser:           p.Parser,
	})
	if err != nil {
		return err
	}
	if err := p.engine.LoadChart(p.raw); err != nil {
		return err
	}
	p.loop = engine.NewLoop(p.engine, cfg.FramePeriod())

	if cfg.Database != "" {
		p.history, err = score.OpenHistory(cfg.Database, p.log)
		if err != nil {
			return err
		}
	}
	if cfg.Serve != "" {
		p.hub = feed.NewHub(p.log.With().Str("component", "feed").Logger())
	}
	if cfg.Sound {
		p.player, err = synth.NewPlayer(p.log)
		if err != nil {
			p.log.Warn().Err(err).Msg("continuing without sound")
			p.player = nil
		}
	}
	return nil
}

func (p *Program) loadChart() error {
	if p.cfg.Chart != "" {
		raw, err := os.ReadFile(p.cfg.Chart)
		if err != nil {
			return errors.Wrapf(err, "unable to read chart %s", p.cfg.Chart)
		}
		p.raw = raw
		p.title = strings.TrimSuffix(filepath.Base(p.cfg.Chart), filepath.Ext(p.cfg.Chart))
	} else {
		raw, err := parser.SimpleNotesToChart(p.cfg.DemoNotes(), p.cfg.BeatMs)
		if err != nil {
			return err
		}
		p.raw = raw
		p.title = "Demo"
	}
	p.sum = parser.Hash(p.raw)
	return nil
}

func (p *Program) Close() {
	if p.player != nil {
		p.player.Close()
	}
	if p.hub != nil {
		p.hub.Close()
	}
	if p.history != nil {
		if err := p.history.Close(); err != nil {
			p.log.Warn().Err(err).Msg("unable to close score database")
		}
	}
}

func (p *Program) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan input.Event, 16)
	keyboardClosed, err := input.ReadInput(ctx, p.keys, events, p.log)
	if err != nil {
		return err
	}
	// Runs after the screen is restored, leaving raw mode last
	defer func() {
		cancel()
		<-keyboardClosed
	}()

	if p.hub != nil {
		srv := &http.Server{Addr: p.cfg.Serve, Handler: p.hub.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				p.log.Error().Err(err).Str("addr", p.cfg.Serve).Msg("feed server")
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	// Clear the screen and hide the cursor
	if err := p.Renderer.Init(); err != nil {
		return err
	}
	defer func() {
		// Leave the alternate screen
		if err := p.Renderer.Deinit(); err != nil {
			p.log.Warn().Err(err).Msg("unable to restore terminal")
		}
	}()

	loopErr := make(chan error, 1)
	go func() { loopErr <- p.loop.Run(ctx) }()

	p.loop.Call(ctx, p.draw)
	start := time.After(p.cfg.Delay)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-loopErr:
			return err
		case <-start:
			p.call(ctx, func(e *engine.Engine) error { return e.Start() })
		case sum := <-p.finished:
			p.record(sum)
		case ev := <-events:
			switch ev.Action {
			case input.Quit:
				return nil
			case input.Press:
				if p.player != nil {
					p.player.Play(ev.Pitch)
				}
				if err := p.loop.Press(ctx, ev.Pitch); err != nil {
					return nil
				}
			case input.TogglePause:
				p.call(ctx, togglePause)
			case input.Restart:
				p.call(ctx, func(e *engine.Engine) error { return e.Restart() })
			}
		}
	}
}

func togglePause(e *engine.Engine) error {
	switch e.State() {
	case game.Playing:
		e.Pause()
	case game.Paused:
		e.Resume()
	}
	return nil
}

// call runs fn on the loop and redraws, since a halted engine emits no
// updates of its own.
func (p *Program) call(ctx context.Context, fn func(*engine.Engine) error) {
	err := p.loop.Call(ctx, func(e *engine.Engine) {
		if err := fn(e); err != nil {
			p.log.Error().Err(err).Msg("engine")
		}
		p.draw(e)
	})
	if err != nil {
		p.log.Debug().Err(err).Msg("loop call")
	}
}

func (p *Program) draw(e *engine.Engine) {
	if err := p.Renderer.Draw(e.RenderState(float64(p.Renderer.HitRow()))); err != nil {
		p.log.Warn().Err(err).Msg("unable to draw")
	}
}

// The callbacks below run on the loop goroutine.

func (p *Program) onUpdate(us engine.UpdateState) {
	p.draw(p.engine)
	if p.hub == nil {
		return
	}
	if now := time.Now(); now.Sub(p.lastFeed) >= time.Second/feedRate {
		p.lastFeed = now
		p.hub.Broadcast(feed.KindUpdate, us)
	}
}

func (p *Program) onHit(h engine.Hit) {
	p.Renderer.Judge(h.Note.Midi, h.HitResult)
	if p.hub != nil {
		p.hub.Broadcast(feed.KindHit, h)
	}
}

func (p *Program) onMiss(m engine.Miss) {
	p.Renderer.Judge(m.Note.Midi, game.Miss)
	if p.hub != nil {
		p.hub.Broadcast(feed.KindMiss, m)
	}
}

func (p *Program) onFinish(sum score.Summary) {
	p.draw(p.engine)
	if p.hub != nil {
		p.hub.Broadcast(feed.KindFinish, sum)
	}
	select {
	case p.finished <- sum:
	default:
		p.log.Warn().Msg("previous result not yet recorded, dropping")
	}
}

// record keeps a finished run, remembering the best earlier run of the same
// chart for the report.
func (p *Program) record(sum score.Summary) {
	p.result = &sum
	if p.history == nil {
		return
	}
	best, ok, err := p.history.Best(p.sum)
	if err != nil {
		p.log.Error().Err(err).Msg("unable to look up best score")
	} else if ok {
		p.best = &best
	}
	if err := p.history.Save(p.sum, sum); err != nil {
		p.log.Error().Err(err).Msg("unable to save score")
	}
}

// Report writes the result of the last finished run, if there was one.
func (p *Program) Report(w io.Writer) error {
	if p.result == nil {
		return nil
	}
	return report.Write(w, report.Report{
		Title:      p.title,
		DurationMs: p.engine.Chart().DurationMs,
		Summary:    *p.result,
		Best:       p.best,
		Now:        time.Now(),
	})
}
