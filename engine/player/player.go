// Package player holds the concrete Hanabi agents. Each one decides from an
// engine.Observation and keeps whatever private memory it needs through
// Inform.
package player

import (
	"errors"
	"io"
	"math/rand/v2"

	engine "github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/engine/agent"
	"github.com/sirupsen/logrus"
)

// ErrNoAction is returned when a policy is asked to move with nothing legal
// to do.
var ErrNoAction = errors.New("no legal action available")

// Player is a seat at the table. GetAction is called on the player's turn;
// Inform is called on every player before each action is applied, the
// actor's own action included.
type Player interface {
	agent.Policy
	Name() string
	Reset()
	Inform(a engine.Action, actor uint8, g *engine.GameState)
}

// Config carries what every player is built with.
type Config struct {
	Name string
	Seat uint8
	Log  logrus.FieldLogger
	RNG  *rand.Rand
}

// seat is the part shared by every policy.
type seat struct {
	name string
	nr   uint8
	log  logrus.FieldLogger
	rng  *rand.Rand
}

func newSeat(cfg Config, kind string) seat {
	log := cfg.Log
	if log == nil {
		log = quietLogger
	}
	rng := cfg.RNG
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(cfg.Seat)+1, 0))
	}
	name := cfg.Name
	if name == "" {
		name = kind
	}
	return seat{
		name: name,
		nr:   cfg.Seat,
		log:  log.WithFields(logrus.Fields{"player": name, "seat": cfg.Seat, "policy": kind}),
		rng:  rng,
	}
}

func (s *seat) Name() string { return s.name }

// quietLogger swallows everything; replayed partner models log through it.
var quietLogger = func() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	l.Level = logrus.PanicLevel
	return l
}()

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// slotRef names one card in another player's hand.
type slotRef struct {
	player uint8
	slot   uint8
}

func possibilities(know []engine.Knowledge) [][]engine.Card {
	out := make([][]engine.Card, len(know))
	for i, k := range know {
		out[i] = k.Possible()
	}
	return out
}

// firstPlayable returns the first slot certainly playable.
func firstPlayable(possible [][]engine.Card, board engine.Board, dead agent.DeadColorMap) (uint8, bool) {
	for i, p := range possible {
		if agent.Playable(p, board, dead) {
			return uint8(i), true
		}
	}
	return 0, false
}

// safeDiscards lists every slot certainly discardable.
func safeDiscards(possible [][]engine.Card, board engine.Board, dead agent.DeadColorMap) []uint8 {
	var out []uint8
	for i, p := range possible {
		if agent.Discardable(p, board, dead) {
			out = append(out, uint8(i))
		}
	}
	return out
}

// visiblePlayables lists the immediately playable cards in other hands in
// seat then slot order.
func visiblePlayables(obs engine.Observation) []slotRef {
	var out []slotRef
	for p, hand := range obs.Hands {
		if uint8(p) == obs.Player {
			continue
		}
		for j, c := range hand {
			if obs.Board.Playable(c) {
				out = append(out, slotRef{uint8(p), uint8(j)})
			}
		}
	}
	return out
}

// hintAbout builds a hint of type t that touches the card at ref.
func hintAbout(obs engine.Observation, ref slotRef, t engine.ActionType) engine.Action {
	c := obs.Hands[ref.player][ref.slot]
	if t == engine.ActionHintColor {
		return engine.HintColor(ref.player, c.Color())
	}
	return engine.HintRank(ref.player, c.Rank())
}

func randomDiscard(rng *rand.Rand, handLen int) (engine.Action, error) {
	if handLen == 0 {
		return engine.Action{}, ErrNoAction
	}
	return engine.DiscardCard(uint8(rng.IntN(handLen))), nil
}

func pick[T any](rng *rand.Rand, xs []T) T { return xs[rng.IntN(len(xs))] }

func hints(actions []engine.Action) []engine.Action {
	var out []engine.Action
	for _, a := range actions {
		if a.Type.IsHint() {
			out = append(out, a)
		}
	}
	return out
}
