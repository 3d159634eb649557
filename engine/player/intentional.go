package player

import (
	"errors"
	"fmt"

	engine "github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/engine/agent"
	"github.com/sirupsen/logrus"
)

// ErrIllegalChoice is returned when a policy settles on an action the
// observation does not allow.
var ErrIllegalChoice = errors.New("policy chose an illegal action")

// IntentionalOptions selects a member of the intentional family.
type IntentionalOptions struct {
	ReadHints        bool    // act on the last hint received
	DeadColors       bool    // reason with dead colors everywhere
	HintFirst        bool    // a useful hint outranks own plays and discards
	RecycleRedundant bool    // at the token cap give a redundant hint rather than discard
	HintValue        float64 // discard bonus for a regained token; 0 means agent.DefaultHintValue
}

// Intentional gives the hint whose predicted reading best matches what the
// receiver should do with each card, and discards by expected value.
type Intentional struct {
	seat
	opts    IntentionalOptions
	gotHint *engine.Action
}

func NewIntentional(cfg Config, kind string, opts IntentionalOptions) *Intentional {
	if opts.HintValue == 0 {
		opts.HintValue = agent.DefaultHintValue
	}
	return &Intentional{seat: newSeat(cfg, kind), opts: opts}
}

func (p *Intentional) Reset() { p.gotHint = nil }

func (p *Intentional) Inform(a engine.Action, _ uint8, _ *engine.GameState) {
	if a.Type.IsHint() && a.Target == p.nr {
		p.gotHint = &a
	}
}

func (p *Intentional) GetAction(obs engine.Observation) (engine.Action, error) {
	own := obs.Knowledge[obs.Player]
	if len(own) == 0 {
		return engine.Action{}, ErrNoAction
	}
	dead := agent.Unconstrained()
	if p.opts.DeadColors {
		dead = agent.ComputeDeadColors(obs.Board, obs.Discard)
	}

	var (
		result  engine.Action
		decided bool
	)
	if p.opts.ReadHints && p.gotHint != nil {
		result, decided = readHint(*p.gotHint, own, obs.Board, dead)
		if decided {
			p.log.WithFields(logrus.Fields{"hint": p.gotHint.String(), "action": result.String()}).Debug("reading received hint")
		}
	}
	p.gotHint = nil

	best, haveBest, redundant := p.hintCandidates(obs, dead)
	if p.opts.HintFirst && haveBest {
		return p.checked(obs, best.Hint)
	}

	possible := possibilities(own)
	if !decided {
		if slot, ok := firstPlayable(possible, obs.Board, dead); ok {
			result, decided = engine.PlayCard(slot), true
		}
	}
	if !decided && obs.HintTokens < obs.MaxHints {
		if discards := safeDiscards(possible, obs.Board, dead); len(discards) > 0 {
			result, decided = engine.DiscardCard(pick(p.rng, discards)), true
		}
	}
	if !decided && haveBest {
		result, decided = best.Hint, true
	}

	// A discard at the token cap wastes the regained token.
	if p.opts.RecycleRedundant && obs.HintTokens == obs.MaxHints && (!decided || result.Type == engine.ActionDiscard) {
		if len(redundant) > 0 {
			result, decided = pick(p.rng, redundant), true
		} else if hs := hints(obs.ValidActions); len(hs) > 0 {
			result, decided = pick(p.rng, hs), true
		}
	}

	if !decided {
		ranked := agent.RankDiscards(own, obs.Board, obs.Discard, dead, p.opts.HintValue)
		for _, s := range ranked {
			p.log.WithFields(logrus.Fields{"slot": s.Slot, "expected": s.Expected}).Debug("discard score")
		}
		result = engine.DiscardCard(ranked[0].Slot)
	}
	return p.checked(obs, result)
}

func (p *Intentional) checked(obs engine.Observation, a engine.Action) (engine.Action, error) {
	if len(obs.ValidActions) > 0 && !obs.CanPlay(a) {
		return engine.Action{}, fmt.Errorf("%s: %v: %w", p.name, a, ErrIllegalChoice)
	}
	return a, nil
}

// hintCandidates scores every hint to every other player. best is the
// highest valid one in seat, then color, then rank order.
func (p *Intentional) hintCandidates(obs engine.Observation, dead agent.DeadColorMap) (best agent.HintResult, ok bool, redundant []engine.Action) {
	if obs.HintTokens == 0 {
		return best, false, nil
	}
	var all []agent.HintResult
	for t, hand := range obs.Hands {
		if uint8(t) == obs.Player || len(hand) == 0 {
			continue
		}
		intents := agent.AssignIntents(hand, obs.Board, obs.Discard, dead)
		all = append(all, agent.EvaluateHints(uint8(t), obs.Knowledge[t], hand, intents, obs.Board, dead)...)
	}
	best, ok = agent.BestHint(all)
	if ok {
		p.log.WithFields(logrus.Fields{
			"hint":        best.Hint.String(),
			"score":       best.Score,
			"predictions": best.Predictions,
		}).Debug("best hint")
	}
	return best, ok, agent.Redundant(all)
}

// readHint turns the received hint into an action on own cards. A card the
// hint still points at and that could be playable is played; failing that a
// card it marks as possibly useless is discarded.
func readHint(hint engine.Action, own []engine.Knowledge, board engine.Board, dead agent.DeadColorMap) (engine.Action, bool) {
	var (
		discard     engine.Action
		haveDiscard bool
	)
	for i, k := range own {
		pointed := false
		switch hint.Type {
		case engine.ActionHintColor:
			pointed = k.ColorTotal(hint.Color) > 0
		case engine.ActionHintRank:
			pointed = k.RankTotal(hint.Rank) > 0
		}
		switch agent.WhatToDo(k, pointed, board, dead) {
		case agent.IntentPlay:
			return engine.PlayCard(uint8(i)), true
		case agent.IntentDiscard:
			if !haveDiscard {
				discard, haveDiscard = engine.DiscardCard(uint8(i)), true
			}
		}
	}
	return discard, haveDiscard
}
