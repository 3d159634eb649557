//go:build agentfuzz

package agent

import (
	"fmt"
	"math"
	"testing"

	engine "github.com/jason-s-yu/hanabi/engine"
)

const numFuzzGames = 100
const maxStepsPerGame = 10000

// pickAction selects a random valid action using a deterministic xorshift64
// RNG. Returns false if no valid actions exist.
func pickAction(valid []engine.Action, rngState *uint64) (engine.Action, bool) {
	n := len(valid)
	if n == 0 {
		return engine.Action{}, false
	}
	// Advance xorshift RNG.
	x := *rngState
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	*rngState = x
	return valid[x%uint64(n)], true
}

// checkInvariants verifies the reasoning invariants against the true game
// state from the current player's seat. Returns the number of failures found.
func checkInvariants(t *testing.T, g *engine.GameState, prev DeadColorMap, seed, step int) int {
	t.Helper()
	failures := 0
	label := fmt.Sprintf("seed=%d step=%d P%d", seed, step, g.CurrentPlayer)
	discard := g.DiscardPile()

	// INV1: dead colors never recover.
	dead := ComputeDeadColors(g.Board, discard)
	for c := range dead {
		if dead[c] > prev[c] {
			t.Errorf("%s INV1: dead[%d] rose %d -> %d", label, c, prev[c], dead[c])
			failures++
		}
	}

	// INV2: a valid hint never predicts a play the hand does not want.
	for target := uint8(0); target < g.NumActivePlayers(); target++ {
		if target == g.CurrentPlayer {
			continue
		}
		ps := &g.Players[target]
		hand, know := ps.Cards(), ps.Beliefs()
		for _, aware := range []bool{false, true} {
			d := deadColors(aware, g.Board, discard)
			intents := AssignIntents(hand, g.Board, discard, d)
			for _, r := range EvaluateHints(target, know, hand, intents, g.Board, d) {
				if !r.Valid {
					continue
				}
				for i, p := range r.Predictions {
					if p == IntentPlay && intents[i] != IntentPlay {
						t.Errorf("%s INV2: %v predicts play on slot %d with intent %s", label, r.Hint, i, intents[i])
						failures++
					}
					if p == IntentDiscard && intents[i] != IntentDiscard && intents[i] != IntentCanDiscard {
						t.Errorf("%s INV2: %v predicts discard on slot %d with intent %s", label, r.Hint, i, intents[i])
						failures++
					}
				}
			}
		}
	}

	// INV3: every true card stays possible in its own knowledge.
	for p := uint8(0); p < g.NumActivePlayers(); p++ {
		ps := &g.Players[p]
		for i := uint8(0); i < ps.HandLen; i++ {
			if !ps.Knowledge[i].Has(ps.Hand[i]) {
				t.Errorf("%s INV3: P%d slot %d lost its true identity %s", label, p, i, ps.Hand[i])
				failures++
			}
		}
	}

	// INV4: discard scores are finite.
	own := g.Players[g.CurrentPlayer].Beliefs()
	for _, s := range RankDiscards(own, g.Board, discard, dead, DefaultHintValue) {
		if math.IsNaN(s.Expected) || math.IsInf(s.Expected, 0) {
			t.Errorf("%s INV4: slot %d score %v", label, s.Slot, s.Expected)
			failures++
		}
	}
	return failures
}

// TestFuzzReasoningInvariants plays random games for every player count and
// checks the invariants before each move.
func TestFuzzReasoningInvariants(t *testing.T) {
	total := 0
	for seed := 1; seed <= numFuzzGames; seed++ {
		r := engine.DefaultRules()
		r.NumPlayers = uint8(2 + seed%4)
		g := engine.NewGame(uint64(seed), r)
		g.Deal()
		rngState := uint64(seed)*2654435761 + 1
		prev := Unconstrained()
		for step := 0; step < maxStepsPerGame && !g.IsTerminal(); step++ {
			total += checkInvariants(t, &g, prev, seed, step)
			prev = ComputeDeadColors(g.Board, g.DiscardPile())
			a, ok := pickAction(g.ValidActions(), &rngState)
			if !ok {
				t.Fatalf("seed=%d step=%d: no valid actions", seed, step)
			}
			if err := g.ApplyAction(a); err != nil {
				t.Fatalf("seed=%d step=%d: %v", seed, step, err)
			}
		}
		if total > 50 {
			t.Fatalf("too many invariant failures (%d), stopping", total)
		}
	}
}
