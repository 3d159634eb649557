package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jason-s-yu/hanabi/engine/player"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
	assert.Equal(t, uint16(0), cfg.Rules().MaxTurns)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("HANABI_PLAYERS", "self(intentional)+sample(outer, 40)+random")
	t.Setenv("HANABI_GAMES", "12")
	t.Setenv("HANABI_SEED", "99")
	t.Setenv("HANABI_LOG_LEVEL", "debug")
	t.Setenv("HANABI_MAX_TURNS", "30")
	t.Setenv("HANABI_LOG_MOVES", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Games)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.Equal(t, uint16(30), cfg.Rules().MaxTurns)
	assert.False(t, cfg.LogMoves)

	seats, err := ParseSeats(cfg.Players)
	require.NoError(t, err)
	require.Len(t, seats, 3)
	assert.Equal(t, "sample(outer, 40)", seats[1].String())
	assert.Equal(t, "self(intentional)+sample(outer, 40)+random", FormatSeats(seats))
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HANABI_GAMES=7\nHANABI_TRIAL=true\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("HANABI_GAMES")
		os.Unsetenv("HANABI_TRIAL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Games)
	assert.True(t, cfg.Trial)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero games", func(c *Config) { c.Games = 0 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad table style", func(c *Config) { c.TableStyle = "html" }},
		{"one seat", func(c *Config) { c.Players = "outer" }},
		{"six seats", func(c *Config) { c.Players = "outer+outer+outer+outer+outer+outer" }},
		{"unknown player", func(c *Config) { c.Players = "outer+timed" }},
		{"bad treatment", func(c *Config) { c.Trial = true; c.Treatments = "outer+outer;outer" }},
		{"empty treatments", func(c *Config) { c.Trial = true; c.Treatments = " ; " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrBadConfig)
		})
	}

	cfg := Default()
	cfg.Players = "outer+timed"
	assert.ErrorIs(t, cfg.Validate(), player.ErrUnknownPlayer)
}

func TestParseTreatments(t *testing.T) {
	got, err := ParseTreatments(Default().Treatments)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "intentional+outer", FormatSeats(got[1]))
	assert.Equal(t, "outer", got[2][0].Kind)
}
