package engine

// Observation is everything one player may see at the start of their turn.
// All slices are fresh copies; the observer's own hand is nil and its length
// is given by len(Knowledge[Player]).
type Observation struct {
	Player       uint8
	NumPlayers   uint8
	Hands        [][]Card
	Knowledge    [][]Knowledge
	Discard      []Card
	Played       []Card
	Board        Board
	ValidActions []Action
	HintTokens   uint8
	MaxHints     uint8
	Lives        uint8
	DeckLen      uint8
}

// Observe builds player's view of the current state. The valid action list
// is only filled in when player is the one to move.
func (g *GameState) Observe(player uint8) Observation {
	n := g.Rules.numPlayers()
	obs := Observation{
		Player:     player,
		NumPlayers: n,
		Hands:      make([][]Card, n),
		Knowledge:  make([][]Knowledge, n),
		Discard:    g.DiscardPile(),
		Played:     g.PlayedCards(),
		Board:      g.Board,
		HintTokens: g.HintTokens,
		MaxHints:   g.MaxHintTokens(),
		Lives:      g.Lives,
		DeckLen:    g.DeckLen,
	}
	for p := uint8(0); p < n; p++ {
		if p != player {
			obs.Hands[p] = g.Players[p].Cards()
		}
		obs.Knowledge[p] = g.Players[p].Beliefs()
	}
	if player == g.CurrentPlayer {
		obs.ValidActions = g.ValidActions()
	}
	return obs
}

// WithHand returns a copy of o in which player p holds hand. The valid action
// list is rebuilt for the observer from the substituted hands.
func (o Observation) WithHand(p uint8, hand []Card) Observation {
	hands := make([][]Card, len(o.Hands))
	copy(hands, o.Hands)
	hands[p] = hand
	o.Hands = hands
	o.ValidActions = o.validActions()
	return o
}

// validActions mirrors GameState.ValidActions from the observer's seat.
func (o *Observation) validActions() []Action {
	var out []Action
	for i := 0; i < o.HandLen(o.Player); i++ {
		out = append(out, PlayCard(uint8(i)), DiscardCard(uint8(i)))
	}
	if o.HintTokens == 0 {
		return out
	}
	for t := uint8(0); t < o.NumPlayers; t++ {
		if t == o.Player {
			continue
		}
		var colors [NumColors]bool
		var ranks [NumRanks + 1]bool
		for _, c := range o.Hands[t] {
			colors[c.Color()] = true
			ranks[c.Rank()] = true
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

// HandLen returns the number of cards player p holds.
func (o *Observation) HandLen(p uint8) int { return len(o.Knowledge[p]) }

// CanPlay reports whether a is among the valid actions.
func (o *Observation) CanPlay(a Action) bool {
	for _, v := range o.ValidActions {
		if v == a {
			return true
		}
	}
	return false
}
