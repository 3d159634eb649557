// engine_adapter.go — Bridge between engine.GameState and HanabiGame.
package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/hanabi/engine"
	"github.com/sirupsen/logrus"
)

// CardUUIDTracker mirrors engine card positions with UUIDs so events can
// name a card without revealing it. Updated in lockstep with every action.
type CardUUIDTracker struct {
	Players      [engine.MaxPlayers]PlayerUUIDState
	DeckUUIDs    [engine.DeckSize]uuid.UUID // Same layout as engine.GameState.Deck.
	DeckLen      uint8
	DiscardUUIDs [engine.DeckSize]uuid.UUID
	DiscardLen   uint8
	PlayedUUIDs  [engine.DeckSize]uuid.UUID
	PlayedLen    uint8

	// Registry maps UUID -> card identity.
	Registry map[uuid.UUID]engine.Card
}

// PlayerUUIDState holds the card IDs of one hand, slot for slot.
type PlayerUUIDState struct {
	HandUUIDs [engine.MaxHandSize]uuid.UUID
	HandLen   uint8
}

// initCardTracker assigns UUIDs to every card after the deal.
func (g *HanabiGame) initCardTracker() {
	tracker := &g.CardTracker
	*tracker = CardUUIDTracker{Registry: make(map[uuid.UUID]engine.Card)}

	for p := range g.Seats {
		ps := &g.Engine.Players[p]
		for i := uint8(0); i < ps.HandLen; i++ {
			tracker.Players[p].HandUUIDs[i] = tracker.register(ps.Hand[i])
		}
		tracker.Players[p].HandLen = ps.HandLen
	}

	tracker.DeckLen = g.Engine.DeckLen
	for i := uint8(0); i < g.Engine.DeckLen; i++ {
		tracker.DeckUUIDs[i] = tracker.register(g.Engine.Deck[i])
	}
}

func (t *CardUUIDTracker) register(c engine.Card) uuid.UUID {
	id, _ := uuid.NewRandom()
	t.Registry[id] = c
	return id
}

// removeFromHand shifts the hand left the way the engine does.
func (t *CardUUIDTracker) removeFromHand(p, slot uint8) uuid.UUID {
	h := &t.Players[p]
	id := h.HandUUIDs[slot]
	for i := slot; i+1 < h.HandLen; i++ {
		h.HandUUIDs[i] = h.HandUUIDs[i+1]
	}
	h.HandLen--
	h.HandUUIDs[h.HandLen] = uuid.Nil
	return id
}

// draw moves the top deck ID into p's hand. Returns uuid.Nil on an empty deck.
func (t *CardUUIDTracker) draw(p uint8) uuid.UUID {
	if t.DeckLen == 0 {
		return uuid.Nil
	}
	t.DeckLen--
	id := t.DeckUUIDs[t.DeckLen]
	t.DeckUUIDs[t.DeckLen] = uuid.Nil
	h := &t.Players[p]
	h.HandUUIDs[h.HandLen] = id
	h.HandLen++
	return id
}

// applyEngineAction informs every seat, applies a for actor and emits the
// resulting events. Assumes the lock is held.
func (g *HanabiGame) applyEngineAction(actor uint8, a engine.Action) error {
	// Players learn of the move before it lands, so hinters' views are the
	// pre-hint state.
	for _, s := range g.Seats {
		s.Player.Inform(a, actor, &g.Engine)
	}

	turn := int(g.Engine.TurnNumber) + 1
	if g.LogFormat == FormatMoves {
		g.writeLog(engine.MoveLine(actor, a))
	}
	g.writeLog(engine.TurnLine(turn, actor, a))

	deckBefore := g.Engine.DeckLen
	if err := g.Engine.ApplyAction(a); err != nil {
		return g.fail(actor, fmt.Errorf("illegal action %s: %w", a, err))
	}

	g.log.WithFields(logrus.Fields{
		"turn":   turn,
		"seat":   actor,
		"action": a.String(),
		"hints":  g.Engine.HintTokens,
		"lives":  g.Engine.Lives,
	}).Debug("move applied")

	g.emitEventsForAction(actor, a, deckBefore)

	if g.Engine.IsTerminal() {
		g.EndGame()
		return nil
	}
	g.onTurnAdvanced()
	return nil
}

// emitEventsForAction updates the card tracker and fires the public events
// for the action just applied. Assumes the lock is held.
func (g *HanabiGame) emitEventsForAction(actor uint8, a engine.Action, deckBefore uint8) {
	info := g.Engine.LastAction
	user := g.eventUser(actor)

	switch a.Type {
	case engine.ActionHintColor, engine.ActionHintRank:
		var slots []int
		for i, id := range g.CardTracker.Players[a.Target].HandUUIDs[:g.CardTracker.Players[a.Target].HandLen] {
			if a.Matches(g.CardTracker.Registry[id]) {
				slots = append(slots, i)
			}
		}
		payload := map[string]interface{}{
			"slots":      slots,
			"hintTokens": int(g.Engine.HintTokens),
		}
		if a.Type == engine.ActionHintColor {
			payload["color"] = a.Color.String()
		} else {
			payload["rank"] = int(a.Rank)
		}
		g.writeLog(fmt.Sprintf("%s hints %s about all their %s hints remaining: %d",
			g.Seats[actor].Name, g.Seats[a.Target].Name, hintSubject(a), g.Engine.HintTokens))
		g.writeLog(fmt.Sprintf("%s has %s", g.Seats[a.Target].Name, formatHand(g.Engine.Players[a.Target].Cards())))
		g.fireEvent(GameEvent{Type: EventPlayerHint, User: user, Target: g.eventUser(a.Target), Payload: payload})
		return

	case engine.ActionPlay:
		id := g.CardTracker.removeFromHand(actor, a.Slot)
		card := g.eventCard(id, int(a.Slot), actor)
		g.writeLog(fmt.Sprintf("%s plays %s", g.Seats[actor].Name, info.Card))
		if info.Success {
			g.CardTracker.PlayedUUIDs[g.CardTracker.PlayedLen] = id
			g.CardTracker.PlayedLen++
			g.writeLog("successfully! Board is now " + g.Engine.Board.String())
			g.fireEvent(GameEvent{Type: EventPlayerPlay, User: user, Card: card, Payload: map[string]interface{}{
				"board":      boardPayload(g.Engine.Board),
				"hintTokens": int(g.Engine.HintTokens),
			}})
		} else {
			g.CardTracker.DiscardUUIDs[g.CardTracker.DiscardLen] = id
			g.CardTracker.DiscardLen++
			g.writeLog("and fails. Board was " + g.Engine.Board.String())
			g.fireEvent(GameEvent{Type: EventPlayerMisplay, User: user, Card: card, Payload: map[string]interface{}{
				"lives": int(g.Engine.Lives),
			}})
		}

	case engine.ActionDiscard:
		id := g.CardTracker.removeFromHand(actor, a.Slot)
		g.CardTracker.DiscardUUIDs[g.CardTracker.DiscardLen] = id
		g.CardTracker.DiscardLen++
		g.writeLog(fmt.Sprintf("%s discards %s", g.Seats[actor].Name, info.Card))
		g.writeLog("trash is now " + formatHand(g.Engine.DiscardPile()))
		g.fireEvent(GameEvent{Type: EventPlayerDiscard, User: user, Card: g.eventCard(id, int(a.Slot), actor), Payload: map[string]interface{}{
			"hintTokens": int(g.Engine.HintTokens),
		}})
	}

	if g.Engine.DeckLen < deckBefore {
		drawn := g.CardTracker.draw(actor)
		idx := int(g.CardTracker.Players[actor].HandLen) - 1
		g.fireEvent(GameEvent{Type: EventPlayerDraw, User: user, Card: &EventCard{ID: drawn, Idx: &idx, User: user},
			Payload: map[string]interface{}{"deckSize": int(g.Engine.DeckLen)}})
	}
	g.writeLog(fmt.Sprintf("%s now has %s", g.Seats[actor].Name, formatHand(g.Engine.Players[actor].Cards())))
}

// eventCard reveals the card behind id. Only used for cards that have left
// a hand and are public.
func (g *HanabiGame) eventCard(id uuid.UUID, idx int, owner uint8) *EventCard {
	c := g.CardTracker.Registry[id]
	return &EventCard{
		ID:    id,
		Color: c.Color().String(),
		Rank:  int(c.Rank()),
		Idx:   &idx,
		User:  g.eventUser(owner),
	}
}

// onTurnAdvanced bumps the turn ID and tells everyone who moves next.
// Assumes the lock is held.
func (g *HanabiGame) onTurnAdvanced() {
	g.TurnID++
	g.broadcastSyncStateToAll()
	g.broadcastPlayerTurn()
}

// broadcastPlayerTurn announces the seat to move. Assumes the lock is held.
func (g *HanabiGame) broadcastPlayerTurn() {
	if !g.Started || g.GameOver {
		return
	}
	cur := g.Engine.CurrentPlayer
	g.fireEvent(GameEvent{
		Type: EventGamePlayerTurn,
		User: g.eventUser(cur),
		Payload: map[string]interface{}{
			"turn":       g.TurnID,
			"hintTokens": int(g.Engine.HintTokens),
			"lives":      int(g.Engine.Lives),
			"deckSize":   int(g.Engine.DeckLen),
		},
	})
}

func hintSubject(a engine.Action) string {
	if a.Type == engine.ActionHintColor {
		return a.Color.String() + " cards"
	}
	return fmt.Sprint(a.Rank)
}

func formatHand(cards []engine.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
