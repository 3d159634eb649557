package agent

import engine "github.com/jason-s-yu/hanabi/engine"

// AssignIntents computes the ground-truth intent for every card of one
// visible hand. Play takes precedence over Discard, Discard over CanDiscard.
func AssignIntents(hand []engine.Card, board engine.Board, discard []engine.Card, dead DeadColorMap) []Intent {
	trash := engine.TallyOf(discard)
	out := make([]Intent, len(hand))
	for i, c := range hand {
		out[i] = intentOf(c, board, &trash, dead)
	}
	return out
}

func intentOf(c engine.Card, board engine.Board, trash *engine.Tally, dead DeadColorMap) Intent {
	switch {
	case board.Playable(c) && dead.Reachable(c):
		return IntentPlay
	case board.Played(c) || !dead.Reachable(c):
		return IntentDiscard
	case c.Rank() < engine.MaxRank && trash.Count(c) == 0:
		return IntentCanDiscard
	}
	return IntentKeep
}
