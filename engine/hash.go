package engine

// StateHash returns a fast 64-bit FNV-1a fingerprint of the public and hidden
// state. Equal states hash equal; clients compare it to detect a diverged copy.
func (g *GameState) StateHash() uint64 {
	h := uint64(14695981039346656037) // FNV-1a offset basis
	const prime = uint64(1099511628211)

	np := g.Rules.numPlayers()
	for p := uint8(0); p < np; p++ {
		ps := &g.Players[p]
		for i := uint8(0); i < ps.HandLen; i++ {
			h ^= uint64(ps.Hand[i])
			h *= prime
			for _, row := range ps.Knowledge[i] {
				for _, cnt := range row {
					h ^= uint64(cnt)
					h *= prime
				}
			}
		}
		h ^= uint64(ps.HandLen) << 8
		h *= prime
	}
	for i := uint8(0); i < g.DeckLen; i++ {
		h ^= uint64(g.Deck[i])
		h *= prime
	}
	for i := uint8(0); i < g.DiscardLen; i++ {
		h ^= uint64(g.Discard[i])
		h *= prime
	}
	for _, v := range g.Board {
		h ^= uint64(v)
		h *= prime
	}
	h ^= uint64(g.HintTokens)<<16 | uint64(g.Lives)<<24
	h *= prime
	h ^= uint64(g.TurnNumber) << 32
	h *= prime
	h ^= uint64(g.CurrentPlayer) << 48
	h *= prime
	return h
}
