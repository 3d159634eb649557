package engine

// ValidActions returns the legal moves for the current player: play and
// discard for every slot, then, while tokens remain, a color and a rank hint
// for every value present in each other player's hand. Hints are listed per
// target in color order, then ascending rank.
func (g *GameState) ValidActions() []Action {
	if g.IsTerminal() {
		return nil
	}
	acting := g.CurrentPlayer
	var out []Action
	for i := uint8(0); i < g.Players[acting].HandLen; i++ {
		out = append(out, PlayCard(i), DiscardCard(i))
	}
	if g.HintTokens == 0 {
		return out
	}

	n := g.Rules.numPlayers()
	for t := uint8(0); t < n; t++ {
		if t == acting {
			continue
		}
		var colors [NumColors]bool
		var ranks [NumRanks + 1]bool
		ps := &g.Players[t]
		for i := uint8(0); i < ps.HandLen; i++ {
			colors[ps.Hand[i].Color()] = true
			ranks[ps.Hand[i].Rank()] = true
		}
		for _, col := range Colors {
			if colors[col] {
				out = append(out, HintColor(t, col))
			}
		}
		for r := uint8(1); r <= MaxRank; r++ {
			if ranks[r] {
				out = append(out, HintRank(t, r))
			}
		}
	}
	return out
}

// IsValid reports whether a is legal for the current player.
func (g *GameState) IsValid(a Action) bool {
	return !g.IsTerminal() && g.validate(a) == nil
}
