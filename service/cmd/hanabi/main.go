// Command hanabi plays games between the built-in agents.
//
//	hanabi intentional outer            one game, narrated to stdout
//	hanabi -games 1000 self outer       a batch, summarized in a table
//	hanabi -trial 10                    the standard treatments, 10 trials
//
// Settings come from HANABI_* environment variables (and a .env file);
// flags and positional player specs override them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jason-s-yu/hanabi/engine/player"
	"github.com/jason-s-yu/hanabi/service/internal/config"
	"github.com/jason-s-yu/hanabi/service/internal/game"
	"github.com/jason-s-yu/hanabi/service/internal/trial"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.WithError(err).Error("hanabi failed")
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("hanabi", flag.ContinueOnError)
	envFile := fs.String("env", ".env", "env file to load before reading HANABI_* variables")
	games := fs.Int("games", 0, "number of games to play (overrides HANABI_GAMES)")
	trials := fs.Int("trial", 0, "run the treatments this many times instead of a batch")
	treatments := fs.String("treatments", "", "trial treatments, seats joined by '+', treatments by ';'")
	seed := fs.Uint64("seed", 0, "base seed (overrides HANABI_SEED; 0 uses the clock)")
	logLevel := fs.String("loglevel", "", "log level (debug, info, warn, error)")
	jsonLogs := fs.Bool("json", false, "log as JSON")
	moveLog := fs.String("movelog", "", "write the move log to this file, '-' for stdout")
	style := fs.String("table", "", "summary table style: rounded, csv or markdown")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: hanabi [flags] [player ...]\nplayers: %s, self(P), sample(P, N)\n", strings.Join(player.Kinds, ", "))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	applyFlags(&cfg, fs, *games, *trials, *treatments, *seed, *logLevel, *jsonLogs, *moveLog, *style)
	if specs := fs.Args(); len(specs) > 0 {
		cfg.Players = strings.Join(specs, "+")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	log.SetLevel(cfg.Level())
	if cfg.LogJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	moves, closeMoves, err := openMoveLog(cfg.MoveLog, stdout)
	if err != nil {
		return err
	}
	defer closeMoves()

	runner := &trial.Runner{
		Rules:   cfg.Rules(),
		Log:     log,
		MoveLog: moves,
	}
	if cfg.LogMoves {
		runner.LogFormat = game.FormatMoves
	}

	switch {
	case cfg.Trial:
		return runTrials(ctx, runner, cfg, stdout)
	case cfg.Games == 1:
		if runner.MoveLog == nil {
			runner.MoveLog = stdout
		}
		return runSingle(ctx, runner, cfg, stdout)
	default:
		return runBatch(ctx, runner, cfg, stdout)
	}
}

// applyFlags copies every flag the user set over the loaded config.
func applyFlags(cfg *config.Config, fs *flag.FlagSet, games, trials int, treatments string, seed uint64, level string, json bool, moveLog, style string) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "games":
			cfg.Games = games
		case "trial":
			cfg.Trial = trials > 0
			if trials > 0 {
				cfg.Games = trials
			}
		case "treatments":
			cfg.Treatments = treatments
		case "seed":
			cfg.Seed = seed
		case "loglevel":
			cfg.LogLevel = level
		case "json":
			cfg.LogJSON = json
		case "movelog":
			cfg.MoveLog = moveLog
		case "table":
			cfg.TableStyle = style
		}
	})
}

func openMoveLog(path string, stdout io.Writer) (io.Writer, func(), error) {
	switch path {
	case "":
		return nil, func() {}, nil
	case "-":
		return stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening move log: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("closing move log")
		}
	}, nil
}

func seats(cfg config.Config) (trial.Treatment, error) {
	specs, err := config.ParseSeats(cfg.Players)
	if err != nil {
		return nil, err
	}
	return trial.Treatment(specs), nil
}

func runSingle(ctx context.Context, runner *trial.Runner, cfg config.Config, stdout io.Writer) error {
	t, err := seats(cfg)
	if err != nil {
		return err
	}
	rec := runner.Play(ctx, t, cfg.Seed)
	if rec.Err != nil {
		return rec.Err
	}
	fmt.Fprintf(stdout, "%s: score %d in %d turns (seed %d)\n", t, rec.Score, rec.Turns, cfg.Seed)
	return nil
}

func runBatch(ctx context.Context, runner *trial.Runner, cfg config.Config, stdout io.Writer) error {
	t, err := seats(cfg)
	if err != nil {
		return err
	}
	sum, err := runner.RunBatch(ctx, t, cfg.Games, cfg.Seed)
	trial.RenderTable(stdout, fmt.Sprintf("%d games, seed %d", sum.Games, cfg.Seed), []trial.Summary{sum}, cfg.TableStyle)
	if errors.Is(err, context.Canceled) {
		log.Warn("interrupted, summary covers the games finished so far")
		return nil
	}
	return err
}

func runTrials(ctx context.Context, runner *trial.Runner, cfg config.Config, stdout io.Writer) error {
	parsed, err := config.ParseTreatments(cfg.Treatments)
	if err != nil {
		return err
	}
	treatments := make([]trial.Treatment, len(parsed))
	names := make([]string, len(parsed))
	for i, p := range parsed {
		treatments[i] = trial.Treatment(p)
		names[i] = treatments[i].String()
	}
	log.WithField("treatments", names).Info("starting trials")

	sums, err := runner.RunTrials(ctx, treatments, cfg.Games, cfg.Seed)
	trial.RenderTable(stdout, fmt.Sprintf("%d trials, seed %d", cfg.Games, cfg.Seed), sums, cfg.TableStyle)
	if errors.Is(err, context.Canceled) {
		log.Warn("interrupted, summary covers the trials finished so far")
		return nil
	}
	return err
}
