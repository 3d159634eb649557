package agent

import (
	"fmt"
	"sort"

	engine "github.com/jason-s-yu/hanabi/engine"
)

// DiscardTerm is one identity's contribution to a slot's discard score.
type DiscardTerm struct {
	Card  engine.Card
	Count uint8
	Prob  float64
	Value float64
}

func (t DiscardTerm) String() string {
	return fmt.Sprintf("%s (%.2f%%): %.2f", t.Card, t.Prob*100, t.Value)
}

// DiscardScore is the expected value of discarding one slot. Higher is safer.
type DiscardScore struct {
	Slot     uint8
	Expected float64
	Terms    []DiscardTerm
}

// ScoreDiscard values discarding slot. Copies already in the discard pile or
// on the board are removed from k first. Each remaining identity with
// probability p adds p*hintValue when it is useless; otherwise it subtracts
// p*v where v is p*(6-rank)/dist² while two or more copies remain, 6-rank for
// the last copy, plus hintValue for a five.
func ScoreDiscard(slot uint8, k engine.Knowledge, board engine.Board, discard []engine.Card, dead DeadColorMap, hintValue float64) DiscardScore {
	seen := engine.TallyOf(discard)
	for _, col := range engine.Colors {
		for r := uint8(0); r < board[col]; r++ {
			seen[col][r]++
		}
	}
	which := k.Without(&seen)

	out := DiscardScore{Slot: slot}
	total := which.Total()
	if total == 0 {
		return out
	}
	for _, col := range engine.Colors {
		for i, cnt := range which[col] {
			if cnt == 0 {
				continue
			}
			card := engine.NewCard(col, uint8(i)+1)
			rank := card.Rank()
			prob := float64(cnt) / float64(total)
			if board.Played(card) || !dead.Reachable(card) {
				v := prob * hintValue
				out.Expected += v
				out.Terms = append(out.Terms, DiscardTerm{card, cnt, prob, v})
				continue
			}
			dist := float64(rank - board[col])
			var v float64
			if cnt > 1 {
				v = prob * float64(6-rank) / (dist * dist)
			} else {
				v = float64(6 - rank)
			}
			if rank == engine.MaxRank {
				v += hintValue
			}
			v *= prob
			out.Expected -= v
			out.Terms = append(out.Terms, DiscardTerm{card, cnt, prob, -v})
		}
	}
	return out
}

// RankDiscards scores every slot and sorts by expected value descending,
// keeping slot order among equals.
func RankDiscards(knowledge []engine.Knowledge, board engine.Board, discard []engine.Card, dead DeadColorMap, hintValue float64) []DiscardScore {
	out := make([]DiscardScore, len(knowledge))
	for i, k := range knowledge {
		out[i] = ScoreDiscard(uint8(i), k, board, discard, dead, hintValue)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Expected > out[j].Expected })
	return out
}
