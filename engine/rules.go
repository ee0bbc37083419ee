package engine

import "fmt"

// HouseRules holds configurable game rule settings. A game copies its rules at
// construction and never mutates them.
type HouseRules struct {
	CardsAtStart      int  // cards dealt to each player per round
	CallThreshold     int  // highest hand value that may call Yaniv
	AssafPenalty      int  // added to a caller who is challenged
	ExtraAssafPenalty int  // added per challenger beyond the first (0 disables)
	ScoreLimit        int  // scores above this eliminate the player
	ReductionMultiple int  // landing on a positive multiple of this reduces the score
	ReductionIsHalf   bool // if true the reduction halves the score, otherwise subtracts ReductionMultiple

	AllowSlapdown       bool // a deck draw matching the just-placed rank may be re-discarded
	AllowJokerSwap      bool // a joker inside an exposed straight may be swapped for its card
	AllowTakeFromMiddle bool // any card of an exposed same-rank multiple may be taken

	MinPlayers int
	MaxPlayers int
}

// DefaultHouseRules returns the standard Yaniv house rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		CardsAtStart:        5,
		CallThreshold:       7,
		AssafPenalty:        30,
		ExtraAssafPenalty:   0,
		ScoreLimit:          200,
		ReductionMultiple:   50,
		ReductionIsHalf:     true,
		AllowSlapdown:       true,
		AllowJokerSwap:      true,
		AllowTakeFromMiddle: true,
		MinPlayers:          2,
		MaxPlayers:          8,
	}
}

// Validate rejects rule values that cannot produce a playable game.
func (r HouseRules) Validate() error {
	switch {
	case r.CardsAtStart < 1:
		return fmt.Errorf("%w: cards at start must be at least 1, got %d", ErrInvalidRules, r.CardsAtStart)
	case r.CallThreshold < 0:
		return fmt.Errorf("%w: call threshold must not be negative, got %d", ErrInvalidRules, r.CallThreshold)
	case r.AssafPenalty < 0:
		return fmt.Errorf("%w: assaf penalty must not be negative, got %d", ErrInvalidRules, r.AssafPenalty)
	case r.ExtraAssafPenalty < 0:
		return fmt.Errorf("%w: extra assaf penalty must not be negative, got %d", ErrInvalidRules, r.ExtraAssafPenalty)
	case r.ScoreLimit < 1:
		return fmt.Errorf("%w: score limit must be positive, got %d", ErrInvalidRules, r.ScoreLimit)
	case r.ReductionMultiple < 0:
		return fmt.Errorf("%w: reduction multiple must not be negative, got %d", ErrInvalidRules, r.ReductionMultiple)
	case r.MinPlayers < 2:
		return fmt.Errorf("%w: at least 2 players are required, got %d", ErrInvalidRules, r.MinPlayers)
	case r.MaxPlayers < r.MinPlayers:
		return fmt.Errorf("%w: max players %d below min players %d", ErrInvalidRules, r.MaxPlayers, r.MinPlayers)
	}
	// One face-up card plus every hand must fit in the deck.
	if r.MaxPlayers*r.CardsAtStart+1 > DeckSize {
		return fmt.Errorf("%w: %d players with %d cards each exceed the %d-card deck",
			ErrInvalidRules, r.MaxPlayers, r.CardsAtStart, DeckSize)
	}
	return nil
}
