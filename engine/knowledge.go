package engine

import (
	"strconv"
	"strings"
)

// Knowledge is the belief matrix for one card slot: for every identity, how
// many copies remain possible from the holder's point of view. It is a plain
// array so assignment is a deep copy.
//
// Narrowing only ever zeroes cells. Value-receiver methods return a narrowed
// copy for speculative use; pointer methods commit in place.
type Knowledge [NumColors][NumRanks]uint8

// InitialKnowledge returns the uniform prior for a freshly drawn card.
func InitialKnowledge() Knowledge {
	var k Knowledge
	for c := range k {
		k[c] = Counts
	}
	return k
}

// IsCard returns a matrix that admits only card.
func IsCard(card Card) Knowledge {
	var k Knowledge
	k[card.Color()][card.Rank()-1] = 1
	return k
}

// HintColor returns the matrix narrowed by a color hint. When positive the
// card is known to be color; otherwise it is known not to be.
func (k Knowledge) HintColor(color Color, positive bool) Knowledge {
	for _, col := range Colors {
		if (col == color) != positive {
			k[col] = [NumRanks]uint8{}
		}
	}
	return k
}

// HintRank returns the matrix narrowed by a rank hint.
func (k Knowledge) HintRank(rank uint8, positive bool) Knowledge {
	for _, col := range Colors {
		for i := range k[col] {
			if (uint8(i)+1 == rank) != positive {
				k[col][i] = 0
			}
		}
	}
	return k
}

// ApplyColorHint commits a color hint to k.
func (k *Knowledge) ApplyColorHint(color Color, positive bool) {
	*k = k.HintColor(color, positive)
}

// ApplyRankHint commits a rank hint to k.
func (k *Knowledge) ApplyRankHint(rank uint8, positive bool) {
	*k = k.HintRank(rank, positive)
}

// Narrowed returns k narrowed by a hint action as seen by the holder of card.
func (k Knowledge) Narrowed(hint Action, card Card) Knowledge {
	switch hint.Type {
	case ActionHintColor:
		return k.HintColor(hint.Color, hint.Matches(card))
	case ActionHintRank:
		return k.HintRank(hint.Rank, hint.Matches(card))
	}
	return k
}

// CollapseTo commits a single-identity belief.
func (k *Knowledge) CollapseTo(card Card) { *k = IsCard(card) }

// Possible returns every identity with a nonzero count, in color then rank order.
func (k Knowledge) Possible() []Card {
	var out []Card
	for _, col := range Colors {
		for i, cnt := range k[col] {
			if cnt > 0 {
				out = append(out, NewCard(col, uint8(i)+1))
			}
		}
	}
	return out
}

// Has reports whether card is still possible.
func (k Knowledge) Has(card Card) bool {
	return k[card.Color()][card.Rank()-1] > 0
}

// Total returns the sum of all cells.
func (k Knowledge) Total() int {
	total := 0
	for _, row := range k {
		for _, cnt := range row {
			total += int(cnt)
		}
	}
	return total
}

// ColorTotal returns the number of possibilities left for color.
func (k Knowledge) ColorTotal(color Color) int {
	total := 0
	for _, cnt := range k[color] {
		total += int(cnt)
	}
	return total
}

// RankTotal returns the number of possibilities left for rank.
func (k Knowledge) RankTotal(rank uint8) int {
	total := 0
	for _, col := range Colors {
		total += int(k[col][rank-1])
	}
	return total
}

// Without subtracts used copies from every cell, clamping at zero.
func (k Knowledge) Without(used *Tally) Knowledge {
	for _, col := range Colors {
		for i := range k[col] {
			u := used[col][i]
			if k[col][i] > u {
				k[col][i] -= u
			} else {
				k[col][i] = 0
			}
		}
	}
	return k
}

func (k Knowledge) String() string {
	var sb strings.Builder
	for _, col := range Colors {
		for i, cnt := range k[col] {
			if cnt > 0 {
				sb.WriteString(col.String())
				sb.WriteByte(' ')
				sb.WriteString(strconv.Itoa(i + 1))
				sb.WriteString(": ")
				sb.WriteString(strconv.Itoa(int(cnt)))
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// ---------------------------------------------------------------------------
// Tally
// ---------------------------------------------------------------------------

// Tally counts copies per identity.
type Tally [NumColors][NumRanks]uint8

// TallyOf counts the given piles together.
func TallyOf(piles ...[]Card) Tally {
	var t Tally
	for _, pile := range piles {
		for _, c := range pile {
			if c.Valid() {
				t[c.Color()][c.Rank()-1]++
			}
		}
	}
	return t
}

// Count returns the number of copies of card in the tally.
func (t *Tally) Count(card Card) uint8 { return t[card.Color()][card.Rank()-1] }

// Remaining returns the copies of card not covered by the tally.
func (t *Tally) Remaining(card Card) uint8 {
	total := Counts[card.Rank()-1]
	used := t.Count(card)
	if used >= total {
		return 0
	}
	return total - used
}
