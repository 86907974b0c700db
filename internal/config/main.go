package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"

	"git.lost.host/meutraa/keyfall/internal/game"
)

const Version = "0.3.0"

type Config struct {
	Chart  string  `yaml:"chart,omitempty"`
	Demo   string  `yaml:"demo,omitempty"` // Space separated note names, C4 E4 G4
	BeatMs float64 `yaml:"beat_ms"`

	Delay      time.Duration   `yaml:"delay"`
	FrameRate  float64         `yaml:"frame_rate"` // Update ticks per second
	HitWindows game.HitWindows `yaml:"hit_windows"`
	LookAhead  float64         `yaml:"look_ahead_ms"`
	// Terminal rows travelled per millisecond
	ScrollSpeed float64 `yaml:"scroll_speed"`

	Keys     string `yaml:"keys"`
	BaseMidi int    `yaml:"base_midi"`
	BarRow   uint   `yaml:"bar_row"`
	Spacing  uint   `yaml:"spacing"`

	Sound    bool   `yaml:"sound"`
	Database string `yaml:"database,omitempty"`
	Serve    string `yaml:"serve,omitempty"`
	LogLevel string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		BeatMs:      500,
		Delay:       1500 * time.Millisecond,
		FrameRate:   240,
		HitWindows:  game.DefaultHitWindows,
		LookAhead:   3000,
		ScrollSpeed: 0.012,
		Keys:        "awsedftgyhujkolp;'",
		BaseMidi:    60,
		BarRow:      4,
		Spacing:     3,
		Sound:       true,
		Database:    "scores.db",
		LogLevel:    "info",
	}
}

// FramePeriod is the time between two update ticks.
func (c *Config) FramePeriod() time.Duration {
	return time.Duration(float64(time.Second) / c.FrameRate)
}

// DemoNotes splits the demo melody into note names.
func (c *Config) DemoNotes() []string {
	return strings.Fields(c.Demo)
}

func (c *Config) Validate() error {
	if c.Chart == "" && c.Demo == "" {
		return errors.New("either a chart or a demo melody is required")
	}
	if c.FrameRate <= 0 {
		return errors.Errorf("frame rate must be positive, got %v", c.FrameRate)
	}
	if len([]rune(c.Keys)) == 0 {
		return errors.New("at least one key is required")
	}
	if c.BaseMidi < 0 || c.BaseMidi+len([]rune(c.Keys))-1 > 127 {
		return errors.Errorf("keys starting at %d run outside the midi range", c.BaseMidi)
	}
	return c.HitWindows.Validate()
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config %s", path)
	}
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "unable to parse config %s", path)
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// bind declares every flag on app, defaulting to the values already in c.
func bind(app *kingpin.Application, c *Config, configPath *string) {
	chart := app.Arg("chart", "Chart file (JSON)")
	if c.Chart != "" {
		chart = chart.Default(c.Chart)
	}
	chart.StringVar(&c.Chart)

	app.Flag("config", "YAML configuration file").Short('c').Default(*configPath).StringVar(configPath)
	app.Flag("demo", "Play a melody of note names, e.g. \"C4 E4 G4\"").Default(c.Demo).StringVar(&c.Demo)
	app.Flag("beat", "Beat length of the demo melody").Default(ftoa(c.BeatMs)).Float64Var(&c.BeatMs)
	app.Flag("delay", "Start delay").Default(c.Delay.String()).Short('d').DurationVar(&c.Delay)
	app.Flag("frame-rate", "Update ticks per second").Default(ftoa(c.FrameRate)).Short('R').Float64Var(&c.FrameRate)
	app.Flag("perfect", "Perfect window (ms)").Default(ftoa(c.HitWindows.Perfect)).Float64Var(&c.HitWindows.Perfect)
	app.Flag("great", "Great window (ms)").Default(ftoa(c.HitWindows.Great)).Float64Var(&c.HitWindows.Great)
	app.Flag("good", "Good window (ms)").Default(ftoa(c.HitWindows.Good)).Float64Var(&c.HitWindows.Good)
	app.Flag("look-ahead", "How far ahead notes are shown (ms)").Default(ftoa(c.LookAhead)).Float64Var(&c.LookAhead)
	app.Flag("scroll-speed", "Rows travelled per millisecond").Default(ftoa(c.ScrollSpeed)).Short('s').Float64Var(&c.ScrollSpeed)
	app.Flag("keys", "Keys for consecutive semitones").Default(c.Keys).Short('k').StringVar(&c.Keys)
	app.Flag("base-midi", "Pitch of the first key").Default(strconv.Itoa(c.BaseMidi)).IntVar(&c.BaseMidi)
	app.Flag("bar-row", "Rows between the hit bar and the bottom").Default(strconv.FormatUint(uint64(c.BarRow), 10)).UintVar(&c.BarRow)
	app.Flag("spacing", "Columns between keys").Default(strconv.FormatUint(uint64(c.Spacing), 10)).Short('S').UintVar(&c.Spacing)
	app.Flag("sound", "Play a tone for every key press").Default(strconv.FormatBool(c.Sound)).BoolVar(&c.Sound)
	app.Flag("db", "Score history database, empty to disable").Default(c.Database).StringVar(&c.Database)
	app.Flag("serve", "Address to stream play over websocket, e.g. :8080").Default(c.Serve).StringVar(&c.Serve)
	app.Flag("log-level", "Log level").Default(c.LogLevel).EnumVar(&c.LogLevel, "debug", "info", "warn", "error")
}

func newApp(c *Config, configPath *string) *kingpin.Application {
	app := kingpin.New("keyfall", "Play along to a chart on your keyboard.")
	app.Version(Version)
	bind(app, c, configPath)
	return app
}

// Parse reads the command line. When it names a configuration file, the
// file supplies the defaults and flags given on the command line win.
func Parse(args []string) (*Config, error) {
	c := Default()
	var configPath string
	if _, err := newApp(&c, &configPath).Parse(args); err != nil {
		return nil, err
	}

	if configPath != "" {
		fc, err := Load(configPath)
		if err != nil {
			return nil, err
		}
		c = *fc
		if _, err := newApp(&c, &configPath).Parse(args); err != nil {
			return nil, err
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
