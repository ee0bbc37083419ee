package engine

import "slices"

// Hand is an ordered set of cards owned by one player.
type Hand []Card

// Value returns the sum of the cards' point values. Jokers count 0.
func (h Hand) Value() int {
	return HandValue(h)
}

// HandValue sums point values of any card slice.
func HandValue(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Value()
	}
	return total
}

// Count returns how many copies of c the hand holds.
func (h Hand) Count(c Card) int {
	n := 0
	for _, hc := range h {
		if hc == c {
			n++
		}
	}
	return n
}

// Contains reports whether the hand holds at least one c.
func (h Hand) Contains(c Card) bool {
	return slices.Contains(h, c)
}

// JokerCount returns the number of jokers held.
func (h Hand) JokerCount() int {
	return h.Count(Joker)
}

// Clone returns an independent copy.
func (h Hand) Clone() Hand {
	return slices.Clone(h)
}

// SortHand orders cards ascending by Order, keeping the relative order of equal keys.
func SortHand(cards []Card) {
	slices.SortStableFunc(cards, func(a, b Card) int {
		return a.Order() - b.Order()
	})
}

// RemoveFirst removes exactly one instance of c, preserving the order of the rest.
// It reports false if c was not present.
func RemoveFirst(cards []Card, c Card) ([]Card, bool) {
	i := slices.Index(cards, c)
	if i < 0 {
		return cards, false
	}
	return slices.Delete(cards, i, i+1), true
}

// RemoveCards removes the specified cards from a hand using multiset semantics
// and returns the updated hand. The input is not modified.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return slices.Clone(hand)
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, card := range toRemove {
		removeCounts[card]++
	}

	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if count, ok := removeCounts[card]; ok && count > 0 {
			removeCounts[card] = count - 1
			continue
		}
		updated = append(updated, card)
	}
	return updated
}

// HighestValue returns the card with the largest point value, preferring the
// highest order on ties. It returns EmptyCard for an empty slice.
func HighestValue(cards []Card) Card {
	best := EmptyCard
	for _, c := range cards {
		if best == EmptyCard || c.Value() > best.Value() ||
			(c.Value() == best.Value() && c.Order() > best.Order()) {
			best = c
		}
	}
	return best
}
