package engine

import "fmt"

// ApplyAction applies a move for the current player. Returns an error if the
// move is illegal; the state is left untouched in that case.
func (g *GameState) ApplyAction(a Action) error {
	if g.IsGameOver() {
		return ErrGameOver
	}
	if err := g.validate(a); err != nil {
		return err
	}

	// Once the deck is gone every player gets exactly one more turn.
	if g.DeckLen == 0 {
		g.ExtraTurns++
	}

	switch a.Type {
	case ActionHintColor, ActionHintRank:
		g.hint(a)
	case ActionPlay:
		g.play(a.Slot)
	case ActionDiscard:
		g.discard(a.Slot)
	}

	g.advanceTurn()
	return nil
}

// validate checks a against the current state without mutating it.
func (g *GameState) validate(a Action) error {
	acting := g.CurrentPlayer
	switch a.Type {
	case ActionPlay, ActionDiscard:
		if a.Slot >= g.Players[acting].HandLen {
			return fmt.Errorf("%s slot %d with %d cards: %w", a.Type, a.Slot, g.Players[acting].HandLen, ErrActionOutOfRange)
		}
	case ActionHintColor, ActionHintRank:
		if g.HintTokens == 0 {
			return ErrNoHintTokens
		}
		if a.Target == acting || a.Target >= g.Rules.numPlayers() {
			return fmt.Errorf("player %d hinting player %d: %w", acting, a.Target, ErrInvalidTarget)
		}
		if a.Type == ActionHintColor && !a.Color.Valid() {
			return fmt.Errorf("color %d: %w", a.Color, ErrUnknownAction)
		}
		if a.Type == ActionHintRank && (a.Rank < 1 || a.Rank > MaxRank) {
			return fmt.Errorf("rank %d: %w", a.Rank, ErrUnknownAction)
		}
		if g.touched(a) == 0 {
			return fmt.Errorf("%s: %w", a, ErrHintNoMatch)
		}
	default:
		return fmt.Errorf("action type %d: %w", a.Type, ErrUnknownAction)
	}
	return nil
}

// touched counts the cards in the target's hand matched by hint a.
func (g *GameState) touched(a Action) uint8 {
	ps := &g.Players[a.Target]
	var n uint8
	for i := uint8(0); i < ps.HandLen; i++ {
		if a.Matches(ps.Hand[i]) {
			n++
		}
	}
	return n
}

// hint spends a token and narrows every knowledge matrix in the target hand.
func (g *GameState) hint(a Action) {
	g.HintTokens--
	ps := &g.Players[a.Target]
	for i := uint8(0); i < ps.HandLen; i++ {
		ps.Knowledge[i] = ps.Knowledge[i].Narrowed(a, ps.Hand[i])
	}

	g.LastAction = LastActionInfo{
		Action:       a,
		ActingPlayer: g.CurrentPlayer,
		Card:         EmptyCard,
		Touched:      g.touched(a),
	}
}

// play puts the card at slot on the board, or into the discard pile at the
// cost of a life when it does not fit.
func (g *GameState) play(slot uint8) {
	acting := g.CurrentPlayer
	card := g.removeCard(acting, slot)

	success := g.Board.Playable(card)
	if success {
		g.Board[card.Color()] = card.Rank()
		g.Played[g.PlayedLen] = card
		g.PlayedLen++
		if card.Rank() == MaxRank && g.HintTokens < g.Rules.maxHints() {
			g.HintTokens++
		}
	} else {
		g.Discard[g.DiscardLen] = card
		g.DiscardLen++
		g.Lives--
	}
	g.drawCard(acting)

	g.LastAction = LastActionInfo{
		Action:       PlayCard(slot),
		ActingPlayer: acting,
		Card:         card,
		Success:      success,
	}
}

// discard moves the card at slot to the discard pile and regains a hint token.
func (g *GameState) discard(slot uint8) {
	acting := g.CurrentPlayer
	card := g.removeCard(acting, slot)

	g.Discard[g.DiscardLen] = card
	g.DiscardLen++
	if g.HintTokens < g.Rules.maxHints() {
		g.HintTokens++
	}
	g.drawCard(acting)

	g.LastAction = LastActionInfo{
		Action:       DiscardCard(slot),
		ActingPlayer: acting,
		Card:         card,
	}
}

// advanceTurn rotates to the next player, increments turn number, and checks for game end.
func (g *GameState) advanceTurn() {
	if g.IsGameOver() {
		return
	}

	g.TurnNumber++
	g.CurrentPlayer = g.NextPlayer(g.CurrentPlayer)

	g.checkGameEnd()
}

// checkGameEnd checks end conditions and sets the GameOver flag if met.
func (g *GameState) checkGameEnd() {
	if g.IsGameOver() {
		return
	}

	// 1. Out of lives.
	if g.Lives == 0 {
		g.Flags |= FlagGameOver
		return
	}

	// 2. Every stack complete.
	if g.Board.Complete() {
		g.Flags |= FlagGameOver
		return
	}

	// 3. Final round after the deck ran out.
	if g.ExtraTurns >= g.Rules.numPlayers() {
		g.Flags |= FlagGameOver
		return
	}

	// 4. Max turns exceeded.
	if g.Rules.MaxTurns > 0 && g.TurnNumber >= g.Rules.MaxTurns {
		g.Flags |= FlagGameOver
		return
	}
}
