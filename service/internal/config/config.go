// Package config loads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	engine "github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/engine/player"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var ErrBadConfig = errors.New("invalid configuration")

// Seat and treatment separators. Commas already appear inside player specs.
const (
	seatSep      = "+"
	treatmentSep = ";"
)

// Config holds everything the CLI needs. Fields are read from HANABI_*
// variables; unset variables keep the values from Default.
type Config struct {
	Players    string `env:"HANABI_PLAYERS"`    // seat specs, e.g. "intentional+self(outer)"
	Treatments string `env:"HANABI_TREATMENTS"` // trial mode: treatments separated by ';'
	Games      int    `env:"HANABI_GAMES"`
	Seed       uint64 `env:"HANABI_SEED"` // 0 picks one from the clock
	Trial      bool   `env:"HANABI_TRIAL"`

	MaxTurns uint16 `env:"HANABI_MAX_TURNS"`

	LogLevel string `env:"HANABI_LOG_LEVEL"`
	LogJSON  bool   `env:"HANABI_LOG_JSON"`
	MoveLog  string `env:"HANABI_MOVE_LOG"` // file path, "-" for stdout, empty for none
	LogMoves bool   `env:"HANABI_LOG_MOVES"`

	TableStyle string `env:"HANABI_TABLE_STYLE"` // rounded, csv or markdown
}

// Default returns the settings of a plain two-player intentional game and
// the three standard trial treatments.
func Default() Config {
	return Config{
		Players:    "intentional+intentional",
		Treatments: "intentional+intentional;intentional+outer;outer+outer",
		Games:      1,
		LogLevel:   "info",
		LogMoves:   true,
		TableStyle: "rounded",
	}
}

// Load reads envFiles (default ".env", missing files are fine), then
// overlays the environment on Default and validates the result.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	cfg := Default()
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("decoding environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate parses every player spec so a bad one fails before any game runs.
func (c Config) Validate() error {
	if c.Games < 1 {
		return fmt.Errorf("games %d: %w", c.Games, ErrBadConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w: %w", ErrBadConfig, err)
	}
	switch c.TableStyle {
	case "rounded", "csv", "markdown":
	default:
		return fmt.Errorf("table style %q: %w", c.TableStyle, ErrBadConfig)
	}
	if _, err := ParseSeats(c.Players); err != nil {
		return err
	}
	if c.Trial {
		if _, err := ParseTreatments(c.Treatments); err != nil {
			return err
		}
	}
	return nil
}

// Level returns the parsed log level, info if it does not parse.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Rules returns the engine rules for the configured table.
func (c Config) Rules() engine.Rules {
	r := engine.DefaultRules()
	r.MaxTurns = c.MaxTurns
	return r
}

// ParseSeats splits s on '+' and parses each player spec.
func ParseSeats(s string) ([]player.Spec, error) {
	parts := strings.Split(s, seatSep)
	if len(parts) < 2 || len(parts) > engine.MaxPlayers {
		return nil, fmt.Errorf("%q: need 2 to %d seats: %w", s, engine.MaxPlayers, ErrBadConfig)
	}
	seats := make([]player.Spec, len(parts))
	for i, p := range parts {
		spec, err := player.ParseSpec(p)
		if err != nil {
			return nil, fmt.Errorf("seat %d: %w: %w", i, ErrBadConfig, err)
		}
		seats[i] = spec
	}
	return seats, nil
}

// ParseTreatments splits s on ';' into seat lists.
func ParseTreatments(s string) ([][]player.Spec, error) {
	var out [][]player.Spec
	for _, t := range strings.Split(s, treatmentSep) {
		if strings.TrimSpace(t) == "" {
			continue
		}
		seats, err := ParseSeats(t)
		if err != nil {
			return nil, err
		}
		out = append(out, seats)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no treatments: %w", ErrBadConfig)
	}
	return out, nil
}

// FormatSeats is the inverse of ParseSeats.
func FormatSeats(seats []player.Spec) string {
	names := make([]string, len(seats))
	for i, s := range seats {
		names[i] = s.String()
	}
	return strings.Join(names, seatSep)
}
