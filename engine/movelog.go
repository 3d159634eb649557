package engine

import (
	"fmt"
	"strconv"
	"strings"
)

const noneField = "None"

// MoveLine renders a move in the compact MOVE format read by the offline log
// converter: actor, type code, card slot, target player, color and rank.
// Fields that do not apply print as None.
func MoveLine(actor uint8, a Action) string {
	cnr, pnr, col, num := noneField, noneField, noneField, noneField
	switch a.Type {
	case ActionPlay, ActionDiscard:
		cnr = strconv.Itoa(int(a.Slot))
	case ActionHintColor:
		pnr = strconv.Itoa(int(a.Target))
		col = strconv.Itoa(int(a.Color))
	case ActionHintRank:
		pnr = strconv.Itoa(int(a.Target))
		num = strconv.Itoa(int(a.Rank))
	}
	return fmt.Sprintf("MOVE: %d %d %s %s %s %s", actor, a.Type, cnr, pnr, col, num)
}

// TurnLine renders a move in the human-readable turn format.
func TurnLine(turn int, actor uint8, a Action) string {
	return fmt.Sprintf("Turn %d: Player %d %s", turn, actor, a)
}

// NewGameLine announces a game and its player count.
func NewGameLine(players int) string {
	return fmt.Sprintf("NEW: starting a new game of %d players with the following deck:", players)
}

// DeckLine renders cards as a list literal in draw order.
func DeckLine(cards []Card) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, c := range cards {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.literal())
	}
	sb.WriteByte(']')
	return sb.String()
}
