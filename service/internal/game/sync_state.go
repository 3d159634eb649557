// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/hanabi/engine"
)

// ObfCard is one card as a given seat may see it. Known is false for the
// observer's own cards, whose faces are withheld; Possible then lists what
// the seat's knowledge still allows.
type ObfCard struct {
	ID       uuid.UUID `json:"id"`
	Known    bool      `json:"known"`
	Color    string    `json:"color,omitempty"`
	Rank     int       `json:"rank,omitempty"`
	Idx      *int      `json:"idx,omitempty"`
	Possible []string  `json:"possible,omitempty"`
}

// ObfPlayerState is one seat from the observer's perspective.
type ObfPlayerState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Name          string    `json:"name"`
	HandSize      int       `json:"handSize"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	Hand          []ObfCard `json:"hand"`
}

// ObfGameState is the whole table from one seat's perspective.
type ObfGameState struct {
	GameID          uuid.UUID        `json:"gameId"`
	Started         bool             `json:"started"`
	GameOver        bool             `json:"gameOver"`
	CurrentPlayerID uuid.UUID        `json:"currentPlayerId"`
	TurnID          int              `json:"turnId"`
	DeckSize        int              `json:"deckSize"`
	HintTokens      int              `json:"hintTokens"`
	Lives           int              `json:"lives"`
	Board           map[string]int   `json:"board"`
	Discard         []ObfCard        `json:"discard"`
	Players         []ObfPlayerState `json:"players"`
	Score           int              `json:"score"`
	StateHash       uint64           `json:"stateHash"`
}

// GetCurrentObfuscatedGameState builds the state as seen by forUser: every
// hand but their own is face up, their own shows only knowledge.
// Assumes the lock is held by the caller.
func (g *HanabiGame) GetCurrentObfuscatedGameState(forUser uuid.UUID) ObfGameState {
	obf := ObfGameState{
		GameID:     g.ID,
		Started:    g.Started,
		GameOver:   g.GameOver || g.Engine.IsTerminal(),
		TurnID:     g.TurnID,
		DeckSize:   int(g.Engine.DeckLen),
		HintTokens: int(g.Engine.HintTokens),
		Lives:      int(g.Engine.Lives),
		Board:      boardPayload(g.Engine.Board),
		Score:      g.Engine.Score(),
		StateHash:  g.Engine.StateHash(),
	}

	if g.Started && !obf.GameOver && int(g.Engine.CurrentPlayer) < len(g.Seats) {
		obf.CurrentPlayerID = g.Seats[g.Engine.CurrentPlayer].ID
	}

	obf.Discard = make([]ObfCard, g.Engine.DiscardLen)
	for i := uint8(0); i < g.Engine.DiscardLen; i++ {
		obf.Discard[i] = knownCard(g.CardTracker.DiscardUUIDs[i], g.Engine.Discard[i], nil)
	}

	obf.Players = make([]ObfPlayerState, len(g.Seats))
	for p, s := range g.Seats {
		ps := &g.Engine.Players[p]
		st := ObfPlayerState{
			PlayerID:      s.ID,
			Name:          s.Name,
			HandSize:      int(ps.HandLen),
			IsCurrentTurn: g.Started && !obf.GameOver && int(g.Engine.CurrentPlayer) == p,
			Hand:          make([]ObfCard, ps.HandLen),
		}
		for i := uint8(0); i < ps.HandLen; i++ {
			idx := int(i)
			id := g.CardTracker.Players[p].HandUUIDs[i]
			if s.ID == forUser {
				st.Hand[i] = ObfCard{ID: id, Idx: &idx, Possible: possibleNames(ps.Knowledge[i])}
			} else {
				st.Hand[i] = knownCard(id, ps.Hand[i], &idx)
			}
		}
		obf.Players[p] = st
	}
	return obf
}

// broadcastSyncStateToAll sends every seat its own view. Assumes the lock is held.
func (g *HanabiGame) broadcastSyncStateToAll() {
	if g.BroadcastToPlayerFn == nil {
		return
	}
	for _, s := range g.Seats {
		state := g.GetCurrentObfuscatedGameState(s.ID)
		g.fireEventToPlayer(s.ID, GameEvent{Type: EventPrivateSyncState, State: &state})
	}
}

func knownCard(id uuid.UUID, c engine.Card, idx *int) ObfCard {
	return ObfCard{ID: id, Known: true, Color: c.Color().String(), Rank: int(c.Rank()), Idx: idx}
}

func possibleNames(k engine.Knowledge) []string {
	cards := k.Possible()
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
