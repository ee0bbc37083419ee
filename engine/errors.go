package engine

import "errors"

// Rejections returned by validation and move application. Callers match them
// with errors.Is; the wrapped message carries the detail. A rejected move never
// changes game state.
var (
	ErrIllegalCombination = errors.New("cards cannot be discarded together")
	ErrCardNotHeld        = errors.New("card not held")
	ErrIllegalDraw        = errors.New("cannot take that card")
	ErrEmptyDeck          = errors.New("draw pile is empty and cannot be rebuilt")
	ErrInvalidRules       = errors.New("invalid house rules")
	ErrWrongPhase         = errors.New("action not allowed in the current phase")
	ErrNotYourTurn        = errors.New("not this player's turn")
	ErrCannotCall         = errors.New("hand value is above the call threshold")
	ErrUnknownPlayer      = errors.New("unknown or eliminated player")
)
