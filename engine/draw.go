package engine

import (
	"fmt"
	"slices"
)

// DrawRequest names where a player draws from: the deck, or a specific face-up card.
type DrawRequest struct {
	FromDeck bool
	Card     Card
}

// DeckDraw is the request for an unseen card from the draw pile.
var DeckDraw = DrawRequest{FromDeck: true, Card: EmptyCard}

// TakeCard is the request for a face-up card from the available window.
func TakeCard(c Card) DrawRequest { return DrawRequest{Card: c} }

// DrawResult reports the outcome of a successful draw.
type DrawResult struct {
	Card             Card
	FromDeck         bool
	SlapdownEligible bool
}

// isSameRankWindow reports whether the window's ends are naturals of one rank.
func isSameRankWindow(window []Card) bool {
	if len(window) == 0 {
		return false
	}
	front, back := window[0], window[len(window)-1]
	return !front.IsJoker() && !back.IsJoker() && front.Rank() == back.Rank()
}

// CanTake decides whether card may be taken face-up from the available window.
// justPlaced is the discard the drawer put down this turn. It is pure.
func CanTake(card Card, available, justPlaced []Card, rules HouseRules) error {
	if len(available) == 0 || card == EmptyCard {
		return fmt.Errorf("%w: nothing available", ErrIllegalDraw)
	}
	if card == available[0] || card == available[len(available)-1] {
		return nil
	}
	if rules.AllowTakeFromMiddle && isSameRankWindow(available) && slices.Contains(available, card) {
		return nil
	}
	if rules.AllowJokerSwap && card.IsJoker() && jokerSwapAllowed(available, justPlaced) {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrIllegalDraw, card)
}

// jokerSwapAllowed reports whether the single card just placed belongs exactly
// where an interior joker of the window sits.
func jokerSwapAllowed(available, justPlaced []Card) bool {
	if len(justPlaced) != 1 || justPlaced[0].IsJoker() {
		return false
	}
	placed := justPlaced[0]
	for pos := 1; pos < len(available)-1; pos++ {
		if !available[pos].IsJoker() {
			continue
		}
		prevOK := neighborFits(available[pos-1], placed, Predecessor)
		nextOK := neighborFits(available[pos+1], placed, Successor)
		if prevOK && nextOK {
			return true
		}
	}
	return false
}

func neighborFits(neighbor, placed Card, step func(Card) (Card, bool)) bool {
	if neighbor.IsJoker() {
		return true
	}
	want, ok := step(placed)
	return ok && neighbor == want
}

// DrawableCards lists the distinct face-up cards that can be taken without a
// joker swap, in window order.
func DrawableCards(available []Card, rules HouseRules) []Card {
	var out []Card
	for _, c := range available {
		if slices.Contains(out, c) {
			continue
		}
		if CanTake(c, available, nil, rules) == nil {
			out = append(out, c)
		}
	}
	return out
}

// slapdownEligible reports whether a card fresh from the deck matches the rank
// at both ends of the drawer's just-placed discard.
func slapdownEligible(drawn Card, justPlaced []Card, rules HouseRules) bool {
	if !rules.AllowSlapdown || drawn.IsJoker() || len(justPlaced) == 0 {
		return false
	}
	front, back := justPlaced[0], justPlaced[len(justPlaced)-1]
	if front.IsJoker() || back.IsJoker() {
		return false
	}
	return drawn.Rank() == front.Rank() && drawn.Rank() == back.Rank()
}
