package engine

import (
	"fmt"
	"strconv"
)

// Color is a firework color. The declaration order is the canonical
// iteration order and drives every deterministic tie-break.
type Color uint8

const (
	ColorGreen  Color = 0
	ColorYellow Color = 1
	ColorWhite  Color = 2
	ColorBlue   Color = 3
	ColorRed    Color = 4
)

const (
	NumColors = 5
	NumRanks  = 5
	MaxRank   = 5
)

// Colors lists every color in iteration order.
var Colors = [NumColors]Color{ColorGreen, ColorYellow, ColorWhite, ColorBlue, ColorRed}

// Counts holds the number of copies of each rank per color (index rank-1).
var Counts = [NumRanks]uint8{3, 2, 2, 2, 1}

var colorNames = [NumColors]string{"green", "yellow", "white", "blue", "red"}

// String returns the lower-case display name.
func (c Color) String() string {
	if int(c) < NumColors {
		return colorNames[c]
	}
	return "Color(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c is one of the five colors.
func (c Color) Valid() bool { return c < NumColors }

// ParseColor maps a display name back to a Color.
func ParseColor(s string) (Color, error) {
	for i, n := range colorNames {
		if n == s {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// Card is a packed uint8: upper 4 bits = color, lower 4 bits = rank (1..5).
type Card uint8

// EmptyCard represents a hidden or absent card.
const EmptyCard Card = 0xFF

// NewCard constructs a Card from color and rank.
func NewCard(color Color, rank uint8) Card {
	return Card((uint8(color) << 4) | (rank & 0x0F))
}

// Color returns the color bits (upper 4).
func (c Card) Color() Color { return Color(uint8(c) >> 4) }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// Valid reports whether c is a real card identity.
func (c Card) Valid() bool {
	return c != EmptyCard && c.Color().Valid() && c.Rank() >= 1 && c.Rank() <= MaxRank
}

func (c Card) String() string {
	if c == EmptyCard {
		return "?"
	}
	return c.Color().String() + " " + strconv.Itoa(int(c.Rank()))
}

// literal renders the card the way the deck line of the move log expects.
func (c Card) literal() string {
	return fmt.Sprintf("('%s', %d)", c.Color(), c.Rank())
}

// ---------------------------------------------------------------------------
// Board
// ---------------------------------------------------------------------------

// Board holds the top played rank per color (0 = empty stack).
type Board [NumColors]uint8

// Playable reports whether card is the next rank on its stack.
func (b *Board) Playable(card Card) bool {
	return b[card.Color()]+1 == card.Rank()
}

// Played reports whether the stack for card's color has already reached its rank.
func (b *Board) Played(card Card) bool {
	return b[card.Color()] >= card.Rank()
}

// Sum returns the total of all stack heights.
func (b *Board) Sum() int {
	total := 0
	for _, v := range b {
		total += int(v)
	}
	return total
}

// Complete reports whether every stack reached MaxRank.
func (b *Board) Complete() bool {
	for _, v := range b {
		if v != MaxRank {
			return false
		}
	}
	return true
}

func (b Board) String() string {
	s := ""
	for i, col := range Colors {
		if i > 0 {
			s += ", "
		}
		s += col.String() + " " + strconv.Itoa(int(b[col]))
	}
	return s
}

// ---------------------------------------------------------------------------
// Actions
// ---------------------------------------------------------------------------

// ActionType is the kind of move. Values match the type codes of the
// MOVE log line.
type ActionType uint8

const (
	ActionHintColor ActionType = 0
	ActionHintRank  ActionType = 1
	ActionPlay      ActionType = 2
	ActionDiscard   ActionType = 3
)

func (t ActionType) String() string {
	switch t {
	case ActionHintColor:
		return "Hint Color"
	case ActionHintRank:
		return "Hint Rank"
	case ActionPlay:
		return "Play"
	case ActionDiscard:
		return "Discard"
	}
	return "ActionType(" + strconv.Itoa(int(t)) + ")"
}

// IsHint reports whether t is a color or rank hint.
func (t ActionType) IsHint() bool { return t == ActionHintColor || t == ActionHintRank }

// Action is a single move. Fields that do not apply to the action type are
// left zero by the constructors so that two equal moves compare equal with ==.
type Action struct {
	Type   ActionType
	Slot   uint8 // card index for play/discard
	Target uint8 // receiving player for hints
	Color  Color // hinted color
	Rank   uint8 // hinted rank
}

// PlayCard plays the card at slot.
func PlayCard(slot uint8) Action { return Action{Type: ActionPlay, Slot: slot} }

// DiscardCard discards the card at slot.
func DiscardCard(slot uint8) Action { return Action{Type: ActionDiscard, Slot: slot} }

// HintColor tells target about all their cards of color.
func HintColor(target uint8, color Color) Action {
	return Action{Type: ActionHintColor, Target: target, Color: color}
}

// HintRank tells target about all their cards of rank.
func HintRank(target uint8, rank uint8) Action {
	return Action{Type: ActionHintRank, Target: target, Rank: rank}
}

// Matches reports whether a hint action touches card.
func (a Action) Matches(card Card) bool {
	switch a.Type {
	case ActionHintColor:
		return card.Color() == a.Color
	case ActionHintRank:
		return card.Rank() == a.Rank
	}
	return false
}

// String renders the action in the phrasing of the turn log.
func (a Action) String() string {
	switch a.Type {
	case ActionHintColor:
		return fmt.Sprintf("hints player %d about all their %s cards", a.Target, a.Color)
	case ActionHintRank:
		return fmt.Sprintf("hints player %d about all their %d", a.Target, a.Rank)
	case ActionPlay:
		return fmt.Sprintf("plays their %d", a.Slot)
	case ActionDiscard:
		return fmt.Sprintf("discards their %d", a.Slot)
	}
	return "unknown action"
}

// ---------------------------------------------------------------------------
// LastActionInfo — public observation of the last game action.
// ---------------------------------------------------------------------------

// LastActionInfo summarizes the most recently applied action.
type LastActionInfo struct {
	Action       Action
	ActingPlayer uint8
	Card         Card // card played or discarded, EmptyCard for hints
	Success      bool // play landed on the board
	Touched      uint8
}
