package agent

import engine "github.com/jason-s-yu/hanabi/engine"

// DeadColorMap holds, per color, the highest rank that can still be played.
// MaxRank means the color is unconstrained.
type DeadColorMap [engine.NumColors]uint8

// Unconstrained returns the map used when dead color awareness is off.
func Unconstrained() DeadColorMap {
	var d DeadColorMap
	for i := range d {
		d[i] = engine.MaxRank
	}
	return d
}

// ComputeDeadColors scans each color upward from its stack height. The first
// rank whose every copy sits in the discard pile caps the color one below it.
// Entries never increase as the discard pile grows.
func ComputeDeadColors(board engine.Board, discard []engine.Card) DeadColorMap {
	trash := engine.TallyOf(discard)
	d := Unconstrained()
	for _, col := range engine.Colors {
		for r := board[col] + 1; r <= engine.MaxRank; r++ {
			if trash[col][r-1] >= engine.Counts[r-1] {
				d[col] = r - 1
				break
			}
		}
	}
	return d
}

// Reachable reports whether card's rank can still be played on its color.
func (d DeadColorMap) Reachable(card engine.Card) bool {
	return card.Rank() <= d[card.Color()]
}

// Dead reports whether col can no longer reach a full stack.
func (d DeadColorMap) Dead(col engine.Color) bool { return d[col] < engine.MaxRank }

// deadColors picks the real map or the unconstrained one.
func deadColors(aware bool, board engine.Board, discard []engine.Card) DeadColorMap {
	if aware {
		return ComputeDeadColors(board, discard)
	}
	return Unconstrained()
}
