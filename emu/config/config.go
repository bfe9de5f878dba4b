// Package config holds the emulator settings read through viper from the
// config file, environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/image/colornames"
)

const (
	FrontendWindow   = "window"
	FrontendTerminal = "terminal"
)

// Config contains every setting of a run.
type Config struct {
	Clock    int               `mapstructure:"clock"` // instructions per second
	Timer    int               `mapstructure:"timer"` // delay/sound timer rate in Hz
	Scale    float64           `mapstructure:"scale"` // window pixels per CHIP-8 pixel
	Frontend string            `mapstructure:"frontend"`
	Trace    bool              `mapstructure:"trace"`
	LogLevel string            `mapstructure:"log-level"`
	Colors   Colors            `mapstructure:"colors"`
	Keys     map[string]string `mapstructure:"keys"` // CHIP-8 key (hex digit) -> physical key name
}

type Colors struct {
	Lit   string `mapstructure:"lit"`
	Unlit string `mapstructure:"unlit"`
}

// DefaultKeys maps the hex keypad onto the left side of a QWERTY keyboard:
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var DefaultKeys = map[string]string{
	"1": "1", "2": "2", "3": "3", "c": "4",
	"4": "Q", "5": "W", "6": "E", "d": "R",
	"7": "A", "8": "S", "9": "D", "e": "F",
	"a": "Z", "0": "X", "b": "C", "f": "V",
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("clock", 600)
	v.SetDefault("timer", 60)
	v.SetDefault("scale", 10)
	v.SetDefault("frontend", FrontendWindow)
	v.SetDefault("trace", false)
	v.SetDefault("log-level", "info")
	v.SetDefault("colors.lit", "white")
	v.SetDefault("colors.unlit", "black")
	for k, name := range DefaultKeys {
		v.SetDefault("keys."+k, name)
	}
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks every field that has a constrained value.
func (c Config) Validate() error {
	var errs []error
	if c.Clock <= 0 {
		errs = append(errs, fmt.Errorf("clock must be positive, got %d", c.Clock))
	}
	if c.Timer <= 0 {
		errs = append(errs, fmt.Errorf("timer must be positive, got %d", c.Timer))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %g", c.Scale))
	}
	if c.Frontend != FrontendWindow && c.Frontend != FrontendTerminal {
		errs = append(errs, fmt.Errorf("unknown frontend %q", c.Frontend))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.KeyMap(); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := c.Palette(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Palette parses the lit and unlit colours.
func (c Config) Palette() (lit, unlit color.RGBA, err error) {
	if lit, err = ParseColor(c.Colors.Lit); err != nil {
		return lit, unlit, fmt.Errorf("colors.lit: %w", err)
	}
	if unlit, err = ParseColor(c.Colors.Unlit); err != nil {
		return lit, unlit, fmt.Errorf("colors.unlit: %w", err)
	}
	return lit, unlit, nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log-level: %w", err)
	}
	return l, nil
}

// KeyMap returns the physical key name for each of the 16 CHIP-8 keys.
// Names are upper-cased; every key must be bound to a distinct name.
func (c Config) KeyMap() (map[uint8]string, error) {
	m := make(map[uint8]string, 16)
	owner := make(map[string]uint8, 16)

	ks := make([]string, 0, len(c.Keys))
	for k := range c.Keys {
		ks = append(ks, k)
	}
	sort.Strings(ks)

	for _, k := range ks {
		key, err := strconv.ParseUint(k, 16, 8)
		if err != nil || key > 0xF {
			return nil, fmt.Errorf("keys: %q is not a key 0-F", k)
		}
		name := strings.ToUpper(strings.TrimSpace(c.Keys[k]))
		if name == "" {
			return nil, fmt.Errorf("keys: key %X has no binding", key)
		}
		if prev, ok := owner[name]; ok {
			return nil, fmt.Errorf("keys: %q bound to both %X and %X", name, prev, key)
		}
		owner[name] = uint8(key)
		m[uint8(key)] = name
	}
	for k := uint8(0); k < 16; k++ {
		if _, ok := m[k]; !ok {
			return nil, fmt.Errorf("keys: key %X has no binding", k)
		}
	}
	return m, nil
}

// ParseColor accepts an SVG colour name ("white", "darkgreen") or #rrggbb.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	var r, g, b uint8
	if len(s) == 7 && s[0] == '#' {
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
		}
	}
	return color.RGBA{}, fmt.Errorf("unknown colour %q", s)
}
