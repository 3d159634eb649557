package agent

import (
	"errors"
	"sort"

	engine "github.com/jason-s-yu/hanabi/engine"
)

// Reasons a candidate hint is rejected. They travel in HintResult.Reason and
// are never returned as errors from the scoring path.
var (
	ErrHintInvalidNoMatch = errors.New("hint matches no card")
	ErrHintRedundant      = errors.New("hint gives no new information")
	ErrHintUnsafe         = errors.New("hint would cause a wrong play or discard")
	ErrHintNoGain         = errors.New("hint signals nothing useful")
)

// HintResult is the outcome of pretending to give one hint.
type HintResult struct {
	Hint        engine.Action
	Valid       bool
	Score       int
	Predictions []Intent // per slot; on ErrHintUnsafe ends at the offending slot
	Reason      error    // nil when Valid
}

// Pretend simulates hint against the recipient's knowledge and true hand and
// scores what it would communicate. knowledge, hand and intents are indexed
// by slot and are not modified.
func Pretend(hint engine.Action, knowledge []engine.Knowledge, hand []engine.Card, intents []Intent, board engine.Board, dead DeadColorMap) HintResult {
	res := HintResult{Hint: hint}

	narrowed := make([]engine.Knowledge, len(hand))
	matched, changed := false, false
	for i, c := range hand {
		narrowed[i] = knowledge[i].Narrowed(hint, c)
		if hint.Matches(c) {
			matched = true
			if narrowed[i] != knowledge[i] {
				changed = true
			}
		}
	}
	if !matched {
		res.Reason = ErrHintInvalidNoMatch
		return res
	}
	if !changed {
		res.Reason = ErrHintRedundant
		return res
	}

	// Every slot is checked for safety, but only a slot whose predicted
	// behavior the hint changes counts as signaled.
	res.Predictions = make([]Intent, 0, len(hand))
	gain := false
	for i := range hand {
		predicted := Predict(narrowed[i], board, dead)
		signaled := predicted != Predict(knowledge[i], board, dead)
		truth := intents[i]
		points := 0
		switch predicted {
		case IntentPlay:
			if truth != IntentPlay {
				return unsafe(res, IntentPlay)
			}
			points = PointsPlay
		case IntentDiscard:
			switch truth {
			case IntentDiscard:
				points = PointsDiscard
			case IntentCanDiscard:
				points = PointsCanDiscard
			default:
				return unsafe(res, IntentDiscard)
			}
		}
		if signaled && points > 0 {
			res.Score += points
			gain = true
		}
		res.Predictions = append(res.Predictions, predicted)
	}
	if !gain {
		res.Reason = ErrHintNoGain
		return res
	}
	res.Valid = true
	return res
}

func unsafe(res HintResult, offending Intent) HintResult {
	res.Predictions = append(res.Predictions, offending)
	res.Score = 0
	res.Reason = ErrHintUnsafe
	return res
}

// EvaluateHints pretends every color hint in color order, then every rank hint
// in ascending order, to target.
func EvaluateHints(target uint8, knowledge []engine.Knowledge, hand []engine.Card, intents []Intent, board engine.Board, dead DeadColorMap) []HintResult {
	out := make([]HintResult, 0, engine.NumColors+engine.NumRanks)
	for _, col := range engine.Colors {
		out = append(out, Pretend(engine.HintColor(target, col), knowledge, hand, intents, board, dead))
	}
	for r := uint8(1); r <= engine.MaxRank; r++ {
		out = append(out, Pretend(engine.HintRank(target, r), knowledge, hand, intents, board, dead))
	}
	return out
}

// RankHints returns the valid results by score descending. The sort is
// stable so equal scores keep their evaluation order.
func RankHints(results []HintResult) []HintResult {
	var valid []HintResult
	for _, r := range results {
		if r.Valid {
			valid = append(valid, r)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Score > valid[j].Score })
	return valid
}

// BestHint returns the top ranked valid hint, if any.
func BestHint(results []HintResult) (HintResult, bool) {
	ranked := RankHints(results)
	if len(ranked) == 0 {
		return HintResult{}, false
	}
	return ranked[0], true
}

// Redundant returns the hints rejected only for carrying no new information.
func Redundant(results []HintResult) []engine.Action {
	var out []engine.Action
	for _, r := range results {
		if errors.Is(r.Reason, ErrHintRedundant) {
			out = append(out, r.Hint)
		}
	}
	return out
}
