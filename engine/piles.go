package engine

import (
	"math/rand/v2"
	"slices"
)

// Piles holds every card not in a hand.
//
// Discard is the full history, oldest first. Available is the part of the
// previous discard the current player may take; NextAvailable is what the
// current player just put down and is always the tail of Discard.
type Piles struct {
	Deck          []Card
	Discard       []Card
	Available     []Card
	NextAvailable []Card
}

// reset rebuilds a full shuffled deck and empties the discard side.
func (p *Piles) reset(rng *rand.Rand) {
	p.Deck = NewDeck()
	rng.Shuffle(len(p.Deck), func(i, j int) { p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i] })
	p.Discard = p.Discard[:0]
	p.Available = nil
	p.NextAvailable = nil
}

// reclaim moves every discard except the live NextAvailable tail back into the deck.
func (p *Piles) reclaim() {
	keep := len(p.NextAvailable)
	if keep > len(p.Discard) {
		keep = len(p.Discard)
	}
	n := len(p.Discard) - keep
	if n <= 0 {
		return
	}
	p.Deck = append(p.Deck, p.Discard[:n]...)
	p.Discard = slices.Clone(p.Discard[n:])
	// Cards of the old window are back in the deck and can no longer be taken.
	p.Available = slices.Clone(p.NextAvailable)
}

// deal removes one uniformly random card from the deck, reclaiming discards
// first when the deck is empty.
func (p *Piles) deal(rng *rand.Rand) (Card, error) {
	if len(p.Deck) == 0 {
		p.reclaim()
	}
	if len(p.Deck) == 0 {
		return EmptyCard, ErrEmptyDeck
	}
	i := rng.IntN(len(p.Deck))
	c := p.Deck[i]
	p.Deck = slices.Delete(p.Deck, i, i+1)
	return c, nil
}

// flip starts a round's discard pile with one random card from the deck.
func (p *Piles) flip(rng *rand.Rand) error {
	c, err := p.deal(rng)
	if err != nil {
		return err
	}
	p.Discard = append(p.Discard, c)
	p.Available = []Card{c}
	p.NextAvailable = []Card{c}
	return nil
}

// discard appends cards to the history and makes them the next window.
func (p *Piles) discard(cards []Card) {
	p.Discard = append(p.Discard, cards...)
	p.NextAvailable = slices.Clone(cards)
}

// slap appends a slapped-down card to the history and the next window.
func (p *Piles) slap(c Card) {
	p.Discard = append(p.Discard, c)
	p.NextAvailable = append(p.NextAvailable, c)
}

// take removes a face-up card from the available window and from the part of
// the discard history that precedes the live tail.
func (p *Piles) take(c Card) bool {
	limit := len(p.Discard) - len(p.NextAvailable)
	idx := -1
	for i := limit - 1; i >= 0; i-- {
		if p.Discard[i] == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	var ok bool
	if p.Available, ok = RemoveFirst(slices.Clone(p.Available), c); !ok {
		return false
	}
	p.Discard = slices.Delete(p.Discard, idx, idx+1)
	return true
}

// advance makes the current player's discard the next player's window.
func (p *Piles) advance() {
	p.Available = slices.Clone(p.NextAvailable)
}

// CardCount returns the number of cards in the deck and discard history.
func (p *Piles) CardCount() int {
	return len(p.Deck) + len(p.Discard)
}
