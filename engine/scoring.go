package engine

// Score returns the fireworks total. A game lost on lives scores 0
// regardless of the board.
func (g *GameState) Score() int {
	if g.Lives == 0 {
		return 0
	}
	return g.Board.Sum()
}

// MaxScore returns the best score still reachable given the discard pile,
// capping each color at its first rank whose every copy was discarded.
func (g *GameState) MaxScore() int {
	trash := TallyOf(g.DiscardPile())
	total := 0
	for _, col := range Colors {
		top := uint8(MaxRank)
		for r := g.Board[col] + 1; r <= MaxRank; r++ {
			if trash[col][r-1] >= Counts[r-1] {
				top = r - 1
				break
			}
		}
		total += int(top)
	}
	return total
}
