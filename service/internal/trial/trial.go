// Package trial plays batches of games and summarizes their scores.
//
// Two modes exist. RunBatch plays N games with one seat lineup, seeding game
// i with seed+i+1. RunTrials plays every treatment once per trial on the
// same seed, so treatments within a trial share their deck.
package trial

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	engine "github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/engine/player"
	"github.com/jason-s-yu/hanabi/service/internal/game"
	"github.com/sirupsen/logrus"
)

// progressEvery is how often RunBatch reports progress at info level.
const progressEvery = 100

// Treatment is one seat lineup.
type Treatment []player.Spec

func (t Treatment) String() string {
	names := make([]string, len(t))
	for i, spec := range t {
		names[i] = spec.String()
	}
	return strings.Join(names, "+")
}

// GameRecord is the outcome of one game.
type GameRecord struct {
	Treatment string
	Seed      uint64
	Score     int
	Turns     int
	Duration  time.Duration
	Err       error
}

// Summary aggregates the records of one treatment. Failed games are counted
// but left out of the statistics.
type Summary struct {
	Treatment string
	Games     int
	Failed    int
	Scores    []int
	Mean      float64
	StdDev    float64 // sample standard deviation
	Min, Max  int
	TurnTime  time.Duration // mean wall time per turn
}

// Runner plays games. The zero value plays default rules silently.
type Runner struct {
	Rules engine.Rules
	Log   logrus.FieldLogger

	// MoveLog, if set, receives the compat log of every game.
	MoveLog   io.Writer
	LogFormat game.LogFormat

	// OnGame is called after every game, failed ones included.
	OnGame func(rec GameRecord)
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log != nil {
		return r.Log
	}
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	r.Log = quiet
	return quiet
}

func (r *Runner) rules() engine.Rules {
	if r.Rules == (engine.Rules{}) {
		return engine.DefaultRules()
	}
	return r.Rules
}

// Play runs a single game of t on seed. Player generators are derived from
// the seed so a game replays exactly.
func (r *Runner) Play(ctx context.Context, t Treatment, seed uint64) GameRecord {
	rec := GameRecord{Treatment: t.String(), Seed: seed}
	if len(t) > engine.MaxPlayers {
		rec.Err = fmt.Errorf("%s: %w", t, game.ErrTableFull)
		return rec
	}

	g := game.NewHanabiGame(r.rules(), r.logger())
	g.MoveLog = r.MoveLog
	g.LogFormat = r.LogFormat
	for seat, spec := range t {
		p := spec.New(player.Config{
			Name: player.SeatNames[seat],
			Seat: uint8(seat),
			Log:  r.logger(),
			RNG:  rand.New(rand.NewPCG(seed, uint64(seat))),
		})
		if _, err := g.AddPlayer(p); err != nil {
			rec.Err = err
			return rec
		}
	}

	start := time.Now()
	if err := g.Start(seed); err != nil {
		rec.Err = err
		return rec
	}
	res, err := g.Run(ctx)
	rec.Duration = time.Since(start)
	rec.Score = res.Score
	rec.Turns = res.Turns
	rec.Err = err
	return rec
}

// RunBatch plays games games of t and summarizes them. Only a cancelled
// ctx stops the batch early; player failures are logged and counted.
func (r *Runner) RunBatch(ctx context.Context, t Treatment, games int, seed uint64) (Summary, error) {
	log := r.logger().WithField("treatment", t.String())
	var recs []GameRecord
	for i := 0; i < games; i++ {
		rec := r.Play(ctx, t, seed+uint64(i)+1)
		if err := ctx.Err(); err != nil {
			return Summarize(t.String(), recs), err
		}
		r.record(log, rec)
		recs = append(recs, rec)
		if (i+1)%progressEvery == 0 {
			log.WithFields(logrus.Fields{"game": i + 1, "score": rec.Score}).Info("batch progress")
		}
	}
	return Summarize(t.String(), recs), nil
}

// RunTrials plays every treatment once per trial. Trial i uses seed+i for
// every treatment. Summaries come back in treatment order.
func (r *Runner) RunTrials(ctx context.Context, treatments []Treatment, trials int, seed uint64) ([]Summary, error) {
	recs := make([][]GameRecord, len(treatments))
	names := make([]string, len(treatments))
	for j, t := range treatments {
		names[j] = t.String()
	}
	summarize := func() []Summary {
		out := make([]Summary, len(treatments))
		for j := range treatments {
			out[j] = Summarize(names[j], recs[j])
		}
		return out
	}

	log := r.logger()
	for i := 0; i < trials; i++ {
		scores := make([]int, len(treatments))
		for j, t := range treatments {
			rec := r.Play(ctx, t, seed+uint64(i))
			if err := ctx.Err(); err != nil {
				return summarize(), err
			}
			r.record(log.WithField("treatment", names[j]), rec)
			recs[j] = append(recs[j], rec)
			scores[j] = rec.Score
		}
		log.WithFields(logrus.Fields{"trial": i + 1, "scores": scores}).Info("trial done")
	}
	return summarize(), nil
}

func (r *Runner) record(log logrus.FieldLogger, rec GameRecord) {
	if rec.Err != nil {
		log.WithError(rec.Err).WithField("seed", rec.Seed).Error("game failed")
	} else {
		log.WithFields(logrus.Fields{
			"seed":  rec.Seed,
			"score": rec.Score,
			"turns": rec.Turns,
		}).Debug("game finished")
	}
	if r.OnGame != nil {
		r.OnGame(rec)
	}
}

// Summarize computes the statistics of the successful records.
func Summarize(treatment string, recs []GameRecord) Summary {
	s := Summary{Treatment: treatment, Games: len(recs)}
	var turns int
	var elapsed time.Duration
	for _, rec := range recs {
		if rec.Err != nil {
			s.Failed++
			continue
		}
		s.Scores = append(s.Scores, rec.Score)
		turns += rec.Turns
		elapsed += rec.Duration
	}
	if len(s.Scores) == 0 {
		return s
	}
	s.Min, s.Max = slices.Min(s.Scores), slices.Max(s.Scores)

	sum := 0
	for _, v := range s.Scores {
		sum += v
	}
	n := float64(len(s.Scores))
	s.Mean = float64(sum) / n
	if len(s.Scores) > 1 {
		var sq float64
		for _, v := range s.Scores {
			d := float64(v) - s.Mean
			sq += d * d
		}
		s.StdDev = math.Sqrt(sq / (n - 1))
	}
	if turns > 0 {
		s.TurnTime = elapsed / time.Duration(turns)
	}
	return s
}
