package engine

import "testing"

func TestMoveLine(t *testing.T) {
	tests := []struct {
		actor uint8
		a     Action
		want  string
	}{
		{0, PlayCard(3), "MOVE: 0 2 3 None None None"},
		{1, DiscardCard(0), "MOVE: 1 3 0 None None None"},
		{0, HintColor(1, ColorRed), "MOVE: 0 0 None 1 4 None"},
		{1, HintRank(0, 5), "MOVE: 1 1 None 0 None 5"},
	}
	for _, tt := range tests {
		if got := MoveLine(tt.actor, tt.a); got != tt.want {
			t.Errorf("MoveLine(%d, %v) = %q, want %q", tt.actor, tt.a, got, tt.want)
		}
	}
}

func TestTurnLine(t *testing.T) {
	if got := TurnLine(4, 1, HintColor(0, ColorBlue)); got != "Turn 4: Player 1 hints player 0 about all their blue cards" {
		t.Errorf("TurnLine = %q", got)
	}
	if got := TurnLine(1, 0, PlayCard(2)); got != "Turn 1: Player 0 plays their 2" {
		t.Errorf("TurnLine = %q", got)
	}
}

func TestDeckLine(t *testing.T) {
	got := DeckLine([]Card{NewCard(ColorGreen, 1), NewCard(ColorRed, 5)})
	if got != "[('green', 1), ('red', 5)]" {
		t.Errorf("DeckLine = %q", got)
	}
	if NewGameLine(3) != "NEW: starting a new game of 3 players with the following deck:" {
		t.Errorf("NewGameLine = %q", NewGameLine(3))
	}
}
