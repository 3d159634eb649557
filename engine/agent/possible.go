// Package agent implements the belief-state and hint-reasoning primitives
// shared by every policy: playability checks over knowledge matrices, dead
// color analysis, ground-truth intents, hint evaluation, discard valuation
// and inference over hypothetical own hands.
//
// Nothing in this package mutates a caller's knowledge except through an
// explicit commit (Deduction.Apply).
package agent

import engine "github.com/jason-s-yu/hanabi/engine"

// Playable reports whether every possibility is immediately playable and
// within its color's reachable ceiling.
func Playable(possible []engine.Card, board engine.Board, dead DeadColorMap) bool {
	for _, c := range possible {
		if !board.Playable(c) || !dead.Reachable(c) {
			return false
		}
	}
	return true
}

// PotentiallyPlayable reports whether at least one possibility is immediately
// playable and reachable.
func PotentiallyPlayable(possible []engine.Card, board engine.Board, dead DeadColorMap) bool {
	for _, c := range possible {
		if board.Playable(c) && dead.Reachable(c) {
			return true
		}
	}
	return false
}

// Discardable reports whether every possibility is already played or dead.
func Discardable(possible []engine.Card, board engine.Board, dead DeadColorMap) bool {
	for _, c := range possible {
		if !board.Played(c) && dead.Reachable(c) {
			return false
		}
	}
	return true
}

// PotentiallyDiscardable reports whether at least one possibility is already
// played or dead.
func PotentiallyDiscardable(possible []engine.Card, board engine.Board, dead DeadColorMap) bool {
	for _, c := range possible {
		if board.Played(c) || !dead.Reachable(c) {
			return true
		}
	}
	return false
}

// Predict is what a holder does with a slot it knows as k: play it when every
// possibility is playable, discard it when every possibility is useless,
// otherwise keep it.
func Predict(k engine.Knowledge, board engine.Board, dead DeadColorMap) Intent {
	possible := k.Possible()
	switch {
	case len(possible) == 0:
		return IntentKeep
	case Playable(possible, board, dead):
		return IntentPlay
	case Discardable(possible, board, dead):
		return IntentDiscard
	}
	return IntentKeep
}

// WhatToDo is the looser reading hint-following players apply to a hint that
// touched (pointed) or missed a slot with knowledge k. A pointed slot that may
// be playable reads as a play signal, one that may be useless as a discard
// signal. Untouched slots are kept.
func WhatToDo(k engine.Knowledge, pointed bool, board engine.Board, dead DeadColorMap) Intent {
	if !pointed {
		return IntentKeep
	}
	possible := k.Possible()
	if PotentiallyPlayable(possible, board, dead) {
		return IntentPlay
	}
	if PotentiallyDiscardable(possible, board, dead) {
		return IntentDiscard
	}
	return IntentKeep
}
