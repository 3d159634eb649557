package player

import (
	"cmp"
	"math/rand/v2"
	"slices"

	engine "github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/engine/agent"
)

// OuterState plays like InnerState but remembers which hints it already gave
// about each card so it never repeats one.
type OuterState struct {
	seat
	history agent.HintHistory
}

func NewOuterState(cfg Config) *OuterState { return &OuterState{seat: newSeat(cfg, "outer")} }

func (p *OuterState) Reset() { p.history.Reset() }

func (p *OuterState) GetAction(obs engine.Observation) (engine.Action, error) {
	return outerAction(obs, obs.Knowledge[obs.Player], &p.history, p.rng, false)
}

func (p *OuterState) Inform(a engine.Action, actor uint8, _ *engine.GameState) {
	p.history.Observe(a, actor)
}

// outerAction is the history-driven turn shared by OuterState and the
// recognition players. own is the knowledge to act on. rankFirst prefers a
// rank hint over a color hint for playable cards instead of choosing at
// random.
func outerAction(obs engine.Observation, own []engine.Knowledge, hist *agent.HintHistory, rng *rand.Rand, rankFirst bool) (engine.Action, error) {
	free := agent.Unconstrained()
	possible := possibilities(own)
	if slot, ok := firstPlayable(possible, obs.Board, free); ok {
		return engine.PlayCard(slot), nil
	}
	if discards := safeDiscards(possible, obs.Board, free); len(discards) > 0 {
		return engine.DiscardCard(pick(rng, discards)), nil
	}

	if obs.HintTokens > 0 {
		playables := visiblePlayables(obs)
		slices.SortStableFunc(playables, func(a, b slotRef) int {
			return cmp.Compare(obs.Hands[b.player][b.slot].Rank(), obs.Hands[a.player][a.slot].Rank())
		})
		for _, ref := range playables {
			untried := hist.Untried(ref.player, ref.slot)
			if len(untried) == 0 {
				continue
			}
			var t engine.ActionType
			if rankFirst {
				t = untried[len(untried)-1] // rank sorts after color
			} else {
				t = pick(rng, untried)
			}
			hist.Record(ref.player, ref.slot, t)
			return hintAbout(obs, ref, t), nil
		}

		for o, hand := range obs.Hands {
			if uint8(o) == obs.Player || len(hand) == 0 {
				continue
			}
			ref := slotRef{uint8(o), uint8(rng.IntN(len(hand)))}
			untried := hist.Untried(ref.player, ref.slot)
			if len(untried) == 0 {
				continue
			}
			t := pick(rng, untried)
			hist.Record(ref.player, ref.slot, t)
			return hintAbout(obs, ref, t), nil
		}
	}
	return randomDiscard(rng, len(own))
}
