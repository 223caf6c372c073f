// Package config holds host settings for the chargepong commands. Game rules
// are fixed and deliberately absent here.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Window struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type Audio struct {
	Mute   bool    `toml:"mute"`
	Volume float64 `toml:"volume"`
}

type TUI struct {
	// Hold is how long a movement key counts as held after its last press or
	// repeat, since terminals do not report releases.
	Hold time.Duration `toml:"hold"`
}

type Config struct {
	Window   Window `toml:"window"`
	TPS      int    `toml:"tps"`
	Audio    Audio  `toml:"audio"`
	Debug    bool   `toml:"debug"`
	LogLevel string `toml:"log_level"`
	TUI      TUI    `toml:"tui"`
}

// Default returns the settings used when no file or flag overrides them.
func Default() Config {
	return Config{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "chargepong",
		},
		TPS: 60,
		Audio: Audio{
			Volume: 0.5,
		},
		LogLevel: "info",
		TUI: TUI{
			Hold: 150 * time.Millisecond,
		},
	}
}

// Load reads a TOML file over the defaults. An empty path or a missing file
// yields the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	return cfg, cfg.Validate()
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	case c.TPS <= 0:
		return fmt.Errorf("tps %d must be positive", c.TPS)
	case c.Audio.Volume < 0 || c.Audio.Volume > 1:
		return fmt.Errorf("audio volume %v must be within [0, 1]", c.Audio.Volume)
	case c.TUI.Hold < 0:
		return fmt.Errorf("tui hold %v must not be negative", c.TUI.Hold)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Logger builds a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// RegisterFlags binds command-line overrides to c. Parse the flag set after
// loading the file so flags win.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Window.Width, "width", c.Window.Width, "window width in pixels")
	fs.IntVar(&c.Window.Height, "height", c.Window.Height, "window height in pixels")
	fs.StringVar(&c.Window.Title, "title", c.Window.Title, "window title")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.BoolVar(&c.Audio.Mute, "mute", c.Audio.Mute, "disable sound effects")
	fs.Float64Var(&c.Audio.Volume, "volume", c.Audio.Volume, "sound volume in [0, 1]")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "show the debug overlay")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.DurationVar(&c.TUI.Hold, "hold", c.TUI.Hold, "terminal key hold window")
}

// FromArgs loads the file named by -config (if any) and applies the remaining
// flags on top of it.
func FromArgs(name string, args []string) (Config, error) {
	path := configPath(args)
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.String("config", path, "TOML settings file")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// configPath finds -config in args without parsing the rest.
func configPath(args []string) string {
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
