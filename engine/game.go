// Package engine implements the Hanabi rules: deck, hands, hint tokens,
// lives, the per-slot knowledge matrices and the turn state machine.
//
// GameState is a flat value type. Saving and restoring are plain struct
// copies, which the agents rely on when they replay hypothetical turns.
package engine

const (
	MaxPlayers  = 5
	MaxHandSize = 5
	DeckSize    = 50
)

// PlayerState holds one player's hand and the matching knowledge matrices.
// Knowledge[i] always describes Hand[i].
type PlayerState struct {
	Hand      [MaxHandSize]Card
	Knowledge [MaxHandSize]Knowledge
	HandLen   uint8
}

// Cards returns a copy of the occupied hand slots.
func (p *PlayerState) Cards() []Card {
	out := make([]Card, p.HandLen)
	copy(out, p.Hand[:p.HandLen])
	return out
}

// Beliefs returns a copy of the knowledge matrices of the occupied slots.
func (p *PlayerState) Beliefs() []Knowledge {
	out := make([]Knowledge, p.HandLen)
	copy(out, p.Knowledge[:p.HandLen])
	return out
}

// GameState holds the complete, self-contained state of a Hanabi game.
type GameState struct {
	Players       [MaxPlayers]PlayerState
	Deck          [DeckSize]Card
	DeckLen       uint8
	Discard       [DeckSize]Card
	DiscardLen    uint8
	Played        [DeckSize]Card
	PlayedLen     uint8
	Board         Board
	HintTokens    uint8
	Lives         uint8
	CurrentPlayer uint8
	TurnNumber    uint16
	ExtraTurns    uint8
	Flags         uint16
	LastAction    LastActionInfo
	RNG           uint64
	Rules         Rules
}

// ---------------------------------------------------------------------------
// Flags bitfield
// ---------------------------------------------------------------------------

const (
	FlagGameOver    uint16 = 1 << 0
	FlagGameStarted uint16 = 1 << 1
)

func (g *GameState) IsGameOver() bool { return g.Flags&FlagGameOver != 0 }

// ---------------------------------------------------------------------------
// xorshift64 RNG — inline, no interface
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// NewGame and Deal
// ---------------------------------------------------------------------------

// NewGame initializes a new GameState with the given seed and rules.
// The deck is built in color-then-rank order but not yet shuffled or dealt.
func NewGame(seed uint64, rules Rules) GameState {
	var g GameState
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules = rules
	g.HintTokens = rules.maxHints()
	g.Lives = rules.lives()

	idx := 0
	for _, col := range Colors {
		for r, cnt := range Counts {
			for i := uint8(0); i < cnt; i++ {
				g.Deck[idx] = NewCard(col, uint8(r)+1)
				idx++
			}
		}
	}
	g.DeckLen = uint8(idx)
	return g
}

// NewGameWithDeck initializes a game whose draw order is fixed. deck[0] is
// drawn first. Deal must be called with shuffle disabled via DealOrdered.
func NewGameWithDeck(deck []Card, rules Rules) GameState {
	g := NewGame(1, rules)
	n := len(deck)
	if n > DeckSize {
		n = DeckSize
	}
	// The draw pile pops from the end, so store it reversed.
	for i := 0; i < n; i++ {
		g.Deck[n-1-i] = deck[i]
	}
	g.DeckLen = uint8(n)
	return g
}

// Deal shuffles the deck and deals every player a full hand.
func (g *GameState) Deal() {
	// Fisher-Yates shuffle.
	for i := int(g.DeckLen) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		g.Deck[i], g.Deck[j] = g.Deck[j], g.Deck[i]
	}
	g.DealOrdered()
}

// DealOrdered deals full hands from the deck as it stands, player by player.
func (g *GameState) DealOrdered() {
	n := g.Rules.numPlayers()
	size := g.Rules.handSize()
	for p := uint8(0); p < n; p++ {
		for c := uint8(0); c < size; c++ {
			g.drawCard(p)
		}
	}
	g.CurrentPlayer = 0
	g.Flags |= FlagGameStarted
}

// drawCard moves the top of the deck into player p's hand with a fresh prior.
// Drawing from an empty deck is a no-op.
func (g *GameState) drawCard(p uint8) {
	if g.DeckLen == 0 {
		return
	}
	ps := &g.Players[p]
	if ps.HandLen >= MaxHandSize {
		return
	}
	g.DeckLen--
	ps.Hand[ps.HandLen] = g.Deck[g.DeckLen]
	ps.Knowledge[ps.HandLen] = InitialKnowledge()
	ps.HandLen++
}

// removeCard removes the card at idx from player p's hand, shifting the
// remaining cards and their knowledge left.
func (g *GameState) removeCard(p, idx uint8) Card {
	ps := &g.Players[p]
	card := ps.Hand[idx]
	for i := idx; i < ps.HandLen-1; i++ {
		ps.Hand[i] = ps.Hand[i+1]
		ps.Knowledge[i] = ps.Knowledge[i+1]
	}
	ps.HandLen--
	ps.Hand[ps.HandLen] = EmptyCard
	ps.Knowledge[ps.HandLen] = Knowledge{} // clear vacated slot
	return card
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// IsTerminal returns true when the game is over.
func (g *GameState) IsTerminal() bool { return g.Flags&FlagGameOver != 0 }

// NumActivePlayers returns the number of players in this game.
func (g *GameState) NumActivePlayers() uint8 { return g.Rules.numPlayers() }

// HandSize returns the configured full hand size.
func (g *GameState) HandSize() uint8 { return g.Rules.handSize() }

// MaxHintTokens returns the hint token cap.
func (g *GameState) MaxHintTokens() uint8 { return g.Rules.maxHints() }

// NextPlayer returns the next player after current in turn order.
func (g *GameState) NextPlayer(current uint8) uint8 {
	return (current + 1) % g.Rules.numPlayers()
}

// HandLen returns the number of cards in the given player's hand.
func (g *GameState) HandLen(player uint8) uint8 {
	return g.Players[player].HandLen
}

// DiscardPile returns a copy of the discard pile, oldest first.
func (g *GameState) DiscardPile() []Card {
	out := make([]Card, g.DiscardLen)
	copy(out, g.Discard[:g.DiscardLen])
	return out
}

// PlayedCards returns a copy of the successfully played cards, oldest first.
func (g *GameState) PlayedCards() []Card {
	out := make([]Card, g.PlayedLen)
	copy(out, g.Played[:g.PlayedLen])
	return out
}

// DeckCards returns the remaining deck in draw order (next card first).
func (g *GameState) DeckCards() []Card {
	out := make([]Card, 0, g.DeckLen)
	for i := int(g.DeckLen) - 1; i >= 0; i-- {
		out = append(out, g.Deck[i])
	}
	return out
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState for undo support.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }
