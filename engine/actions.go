package engine

import (
	"fmt"
	"slices"
)

// checkTurn rejects moves from anyone but the current player or in the wrong phase.
func (g *GameState) checkTurn(player int, want TurnPhase) error {
	if player < 0 || player >= len(g.Players) {
		return fmt.Errorf("%w: seat %d", ErrUnknownPlayer, player)
	}
	if g.Phase != want {
		return fmt.Errorf("%w: in %s phase, need %s", ErrWrongPhase, g.Phase, want)
	}
	if player != g.CurrentPlayer {
		return fmt.Errorf("%w: seat %d, current is %d", ErrNotYourTurn, player, g.CurrentPlayer)
	}
	return nil
}

// ValidateDiscard checks a discard without applying it.
func (g *GameState) ValidateDiscard(player int, cards []Card) (Combination, error) {
	if err := g.checkTurn(player, PhaseDiscard); err != nil {
		return Combination{}, err
	}
	return ValidateDiscard(cards, g.Players[player].Hand)
}

// Discard removes a legal combination from the player's hand and places it on
// the discard pile as the next window.
func (g *GameState) Discard(player int, cards []Card) (Combination, error) {
	combo, err := g.ValidateDiscard(player, cards)
	if err != nil {
		return Combination{}, err
	}
	p := g.Players[player]
	p.Hand = RemoveCards(p.Hand, combo.Cards)
	p.FaceUp = RemoveCards(p.FaceUp, combo.Cards)
	g.Piles.discard(combo.Cards)
	g.LastDiscard = combo
	g.Phase = PhaseDraw
	return combo, nil
}

// ValidateDraw checks a draw request without applying it.
func (g *GameState) ValidateDraw(player int, req DrawRequest) error {
	if err := g.checkTurn(player, PhaseDraw); err != nil {
		return err
	}
	if req.FromDeck {
		if len(g.Piles.Deck) == 0 && len(g.Piles.Discard) <= len(g.Piles.NextAvailable) {
			return ErrEmptyDeck
		}
		return nil
	}
	return CanTake(req.Card, g.Piles.Available, g.LastDiscard.Cards, g.Rules)
}

// Draw gives the player one card from the deck or the available window.
func (g *GameState) Draw(player int, req DrawRequest) (DrawResult, error) {
	if err := g.ValidateDraw(player, req); err != nil {
		return DrawResult{}, err
	}
	p := g.Players[player]

	if req.FromDeck {
		c, err := g.Piles.deal(g.rng)
		if err != nil {
			return DrawResult{}, err
		}
		p.Hand = append(p.Hand, c)
		SortHand(p.Hand)
		g.Phase = PhaseDrawn
		if slapdownEligible(c, g.LastDiscard.Cards, g.Rules) {
			g.pendingSlap = c
		}
		return DrawResult{Card: c, FromDeck: true, SlapdownEligible: g.pendingSlap != EmptyCard}, nil
	}

	if !g.Piles.take(req.Card) {
		return DrawResult{}, fmt.Errorf("%w: %s is not in the discard pile", ErrIllegalDraw, req.Card)
	}
	p.Hand = append(p.Hand, req.Card)
	SortHand(p.Hand)
	p.FaceUp = append(p.FaceUp, req.Card)
	g.Phase = PhaseDrawn
	return DrawResult{Card: req.Card}, nil
}

// Slapdown puts the deck card just drawn onto the discard pile when it
// matches the rank of the discard just placed. It is optional and once per turn.
func (g *GameState) Slapdown(player int) (Card, error) {
	if err := g.checkTurn(player, PhaseDrawn); err != nil {
		return EmptyCard, err
	}
	c := g.pendingSlap
	if c == EmptyCard {
		return EmptyCard, fmt.Errorf("%w: no card to slap down", ErrIllegalDraw)
	}
	p := g.Players[player]
	var ok bool
	if p.Hand, ok = RemoveFirst(p.Hand, c); !ok {
		return EmptyCard, fmt.Errorf("%w: %s", ErrCardNotHeld, c)
	}
	g.Piles.slap(c)
	g.pendingSlap = EmptyCard
	return c, nil
}

// EndTurn passes play to the next active player, whose window becomes what
// this player placed.
func (g *GameState) EndTurn(player int) error {
	if err := g.checkTurn(player, PhaseDrawn); err != nil {
		return err
	}
	g.Piles.advance()
	g.pendingSlap = EmptyCard
	g.LastDiscard = Combination{}
	g.CurrentPlayer = g.NextPlayer(player)
	g.Phase = PhaseDiscard
	g.TurnNumber++
	return nil
}

// CallRound ends the round on the current player's call. The call must come
// before the player discards.
func (g *GameState) CallRound(player int) (RoundResult, error) {
	if err := g.checkTurn(player, PhaseDiscard); err != nil {
		return RoundResult{}, err
	}
	if v := g.HandValue(player); v > g.Rules.CallThreshold {
		return RoundResult{}, fmt.Errorf("%w: hand is worth %d, threshold is %d",
			ErrCannotCall, v, g.Rules.CallThreshold)
	}
	return g.resolveRound(player), nil
}

// DrawOptions lists the face-up cards the current player could take after the
// discard already placed this turn, joker swaps included.
func (g *GameState) DrawOptions() []Card {
	out := DrawableCards(g.Piles.Available, g.Rules)
	if g.Phase == PhaseDraw && g.Rules.AllowJokerSwap && !slices.Contains(out, Joker) &&
		CanTake(Joker, g.Piles.Available, g.LastDiscard.Cards, g.Rules) == nil {
		out = append(out, Joker)
	}
	return out
}
