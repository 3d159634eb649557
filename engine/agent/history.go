package agent

import engine "github.com/jason-s-yu/hanabi/engine"

// HintHistory remembers which hint types an agent has already given about
// each (player, slot). It is owned by one agent and updated only from its
// Inform hook. A flat value type: copy with =.
type HintHistory struct {
	given [engine.MaxPlayers][engine.MaxHandSize]uint8 // bit per hint ActionType
}

func hintBit(t engine.ActionType) uint8 { return 1 << t }

// Record marks that a hint of type t was given about player's slot.
func (h *HintHistory) Record(player, slot uint8, t engine.ActionType) {
	if player >= engine.MaxPlayers || slot >= engine.MaxHandSize || !t.IsHint() {
		return
	}
	h.given[player][slot] |= hintBit(t)
}

// Given reports whether a hint of type t was already given about player's slot.
func (h *HintHistory) Given(player, slot uint8, t engine.ActionType) bool {
	if player >= engine.MaxPlayers || slot >= engine.MaxHandSize {
		return false
	}
	return h.given[player][slot]&hintBit(t) != 0
}

// Untried returns the hint types not yet given about player's slot, color first.
func (h *HintHistory) Untried(player, slot uint8) []engine.ActionType {
	var out []engine.ActionType
	for _, t := range [2]engine.ActionType{engine.ActionHintColor, engine.ActionHintRank} {
		if !h.Given(player, slot, t) {
			out = append(out, t)
		}
	}
	return out
}

// Rotate forgets player's slot after the card leaves the hand: every higher
// slot shifts down by one and the vacated top slot is cleared.
func (h *HintHistory) Rotate(player, slot uint8) {
	if player >= engine.MaxPlayers || slot >= engine.MaxHandSize {
		return
	}
	row := &h.given[player]
	for i := slot; i < engine.MaxHandSize-1; i++ {
		row[i] = row[i+1]
	}
	row[engine.MaxHandSize-1] = 0
}

// Observe applies the effect of a performed action: plays and discards
// rotate the actor's row.
func (h *HintHistory) Observe(a engine.Action, actor uint8) {
	if a.Type == engine.ActionPlay || a.Type == engine.ActionDiscard {
		h.Rotate(actor, a.Slot)
	}
}

// Reset forgets everything.
func (h *HintHistory) Reset() { *h = HintHistory{} }
