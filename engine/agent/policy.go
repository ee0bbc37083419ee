// Package agent implements the automated Yaniv player: a discard search, a
// pluggable estimate of opponents' hands, and the turn policy built on both.
package agent

import (
	"errors"
	"fmt"

	engine "github.com/jason-s-yu/yaniv/engine"
)

// View is one seat's knowledge of the game at the start of its turn.
type View struct {
	Seat      int
	Hand      []engine.Card
	Available []engine.Card
	// Drawable are the window cards that can be taken whatever this seat discards.
	Drawable  []engine.Card
	Unseen    []engine.Card
	Opponents []OpponentView
	Rules     engine.HouseRules
}

// ViewFor builds the view of seat from the full game state.
func ViewFor(g *engine.GameState, seat int) View {
	v := View{
		Seat:      seat,
		Hand:      g.Players[seat].Hand.Clone(),
		Available: append([]engine.Card(nil), g.Piles.Available...),
		Drawable:  engine.DrawableCards(g.Piles.Available, g.Rules),
		Unseen:    g.Unseen(seat),
		Rules:     g.Rules,
	}
	for _, i := range g.Opponents(seat) {
		p := g.Players[i]
		v.Opponents = append(v.Opponents, OpponentView{
			Seat:     i,
			HandSize: len(p.Hand),
			FaceUp:   append([]engine.Card(nil), p.FaceUp...),
		})
	}
	return v
}

// Decision is a complete automated turn.
type Decision struct {
	CallRound bool
	Discard   []engine.Card
	FromDeck  bool
	Take      engine.Card
	// Slapdown asks to slap down the deck card if it turns out to be eligible.
	Slapdown bool
}

// Policy decides automated turns.
type Policy struct {
	Estimator ChallengeEstimator
}

// NewPolicy returns a policy using est, or FaceUpEstimator when est is nil.
func NewPolicy(est ChallengeEstimator) *Policy {
	if est == nil {
		est = FaceUpEstimator{}
	}
	return &Policy{Estimator: est}
}

// Decide picks the move for the seat described by v.
func (p *Policy) Decide(v View) Decision {
	own := engine.HandValue(v.Hand)
	// An empty hand has nothing to discard, so it always calls.
	if len(v.Hand) == 0 || own <= v.Rules.CallThreshold && p.safeToCall(v, own) {
		return Decision{CallRound: true, Take: engine.EmptyCard}
	}

	opts := SearchOptions{LowHand: v.Rules.CallThreshold, RequireMultiWhenTaking: true}

	if take := BestDiscard(v.Hand, v.Drawable, opts); take.Draw != engine.EmptyCard {
		saved := engine.RemoveCards(take.Discard, []engine.Card{take.Draw})
		rest := engine.RemoveCards(v.Hand, saved)
		now := BestDiscard(rest, nil, opts)
		return Decision{Discard: now.Discard, Take: take.Draw}
	}

	now := BestDiscard(v.Hand, nil, opts)
	d := Decision{Discard: now.Discard, Take: engine.EmptyCard}
	cheapest := cheapestCard(v.Drawable)
	if cheapest == engine.EmptyCard || p.preferDeck(v, own-now.Value, cheapest) {
		d.FromDeck = true
		d.Slapdown = true
		return d
	}
	d.Take = cheapest
	return d
}

// safeToCall reports whether no opponent is expected to match or beat own.
func (p *Policy) safeToCall(v View, own int) bool {
	for _, opp := range v.Opponents {
		if p.Estimator.Estimate(opp, v.Unseen) <= own {
			return false
		}
	}
	return true
}

// preferDeck compares an unseen card's expected value with the cheapest
// face-up card. Close to the threshold it gambles on the deck rather than take
// a card that would keep the hand above it.
func (p *Policy) preferDeck(v View, leftover int, cheapest engine.Card) bool {
	if AverageValue(v.Unseen) < cheapest.Value() {
		return true
	}
	limit := v.Rules.CallThreshold
	return leftover <= limit && cheapest.Value() >= limit+1-leftover
}

func cheapestCard(cards []engine.Card) engine.Card {
	best := engine.EmptyCard
	for _, c := range cards {
		if best == engine.EmptyCard || c.Value() < best.Value() {
			best = c
		}
	}
	return best
}

// TurnOutcome records what Apply did.
type TurnOutcome struct {
	Decision Decision
	Round    *engine.RoundResult
	Combo    engine.Combination
	Draw     engine.DrawResult
	Slapped  engine.Card
}

// Apply plays d for seat on g as one atomic turn: call, or discard, draw,
// optional slap-down, and end of turn. A deck draw that cannot be served
// falls back to the first drawable window card.
func Apply(g *engine.GameState, seat int, d Decision) (TurnOutcome, error) {
	out := TurnOutcome{Decision: d, Slapped: engine.EmptyCard}
	if d.CallRound {
		res, err := g.CallRound(seat)
		if err != nil {
			return out, err
		}
		out.Round = &res
		return out, nil
	}

	if err := validateTurn(g, seat, d); err != nil {
		return out, err
	}
	combo, err := g.Discard(seat, d.Discard)
	if err != nil {
		return out, err
	}
	out.Combo = combo

	req := engine.TakeCard(d.Take)
	if d.FromDeck {
		req = engine.DeckDraw
	}
	if err := g.ValidateDraw(seat, req); errors.Is(err, engine.ErrEmptyDeck) {
		if opts := g.DrawOptions(); len(opts) > 0 {
			req = engine.TakeCard(opts[0])
		}
	}
	if out.Draw, err = g.Draw(seat, req); err != nil {
		return out, fmt.Errorf("seat %d draw after discard: %w", seat, err)
	}
	if d.Slapdown && out.Draw.SlapdownEligible {
		if out.Slapped, err = g.Slapdown(seat); err != nil {
			return out, err
		}
	}
	return out, g.EndTurn(seat)
}

// validateTurn checks the discard and a take before anything is applied, so a
// bad decision leaves the game untouched.
func validateTurn(g *engine.GameState, seat int, d Decision) error {
	combo, err := g.ValidateDiscard(seat, d.Discard)
	if err != nil {
		return err
	}
	if d.FromDeck {
		return nil
	}
	return engine.CanTake(d.Take, g.Piles.Available, combo.Cards, g.Rules)
}
