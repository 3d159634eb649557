package player

import (
	engine "github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/engine/agent"
)

// InnerState acts on its own knowledge only: play what is certainly
// playable, discard what is certainly useless, otherwise point at a playable
// card somebody else holds.
type InnerState struct {
	seat
}

func NewInnerState(cfg Config) *InnerState { return &InnerState{seat: newSeat(cfg, "inner")} }

func (p *InnerState) Reset() {}

func (p *InnerState) GetAction(obs engine.Observation) (engine.Action, error) {
	free := agent.Unconstrained()
	possible := possibilities(obs.Knowledge[obs.Player])
	if slot, ok := firstPlayable(possible, obs.Board, free); ok {
		return engine.PlayCard(slot), nil
	}
	if discards := safeDiscards(possible, obs.Board, free); len(discards) > 0 {
		return engine.DiscardCard(pick(p.rng, discards)), nil
	}

	if playables := visiblePlayables(obs); len(playables) > 0 && obs.HintTokens > 0 {
		t := engine.ActionHintColor
		if p.rng.IntN(2) == 0 {
			t = engine.ActionHintRank
		}
		return hintAbout(obs, playables[0], t), nil
	}

	if obs.HintTokens > 0 {
		for o, hand := range obs.Hands {
			if uint8(o) == obs.Player || len(hand) == 0 {
				continue
			}
			ref := slotRef{uint8(o), uint8(p.rng.IntN(len(hand)))}
			t := engine.ActionHintColor
			if p.rng.IntN(2) == 0 {
				t = engine.ActionHintRank
			}
			return hintAbout(obs, ref, t), nil
		}
	}
	return randomDiscard(p.rng, obs.HandLen(obs.Player))
}

func (p *InnerState) Inform(engine.Action, uint8, *engine.GameState) {}
