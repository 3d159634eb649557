package engine

// Rules holds configurable game settings.
type Rules struct {
	NumPlayers    uint8  // 2–5; 0 treated as 2
	HandSize      uint8  // 0 = 5 cards below four players, 4 otherwise
	MaxHintTokens uint8  // 0 treated as 8
	Lives         uint8  // 0 treated as 3
	MaxTurns      uint16 // 0 = unlimited
}

// DefaultRules returns the standard two-player rules.
func DefaultRules() Rules {
	return Rules{
		NumPlayers:    2,
		MaxHintTokens: 8,
		Lives:         3,
	}
}

// numPlayers returns the effective number of players, treating 0 as 2.
func (r *Rules) numPlayers() uint8 {
	if r.NumPlayers == 0 {
		return 2
	}
	return r.NumPlayers
}

func (r *Rules) handSize() uint8 {
	if r.HandSize != 0 {
		return r.HandSize
	}
	if r.numPlayers() < 4 {
		return 5
	}
	return 4
}

func (r *Rules) maxHints() uint8 {
	if r.MaxHintTokens == 0 {
		return 8
	}
	return r.MaxHintTokens
}

func (r *Rules) lives() uint8 {
	if r.Lives == 0 {
		return 3
	}
	return r.Lives
}
