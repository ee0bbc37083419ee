package engine

import (
	"fmt"
	"slices"
)

// Shape is the kind of discard a group of cards forms.
type Shape uint8

const (
	ShapeInvalid  Shape = iota // 0
	ShapeSingle                // 1
	ShapeMultiple              // 2: same rank, jokers wild
	ShapeStraight              // 3: same suit, consecutive ranks, jokers fill gaps
)

func (s Shape) String() string {
	switch s {
	case ShapeSingle:
		return "single"
	case ShapeMultiple:
		return "multiple"
	case ShapeStraight:
		return "straight"
	}
	return "invalid"
}

// Combination is a validated discard.
type Combination struct {
	Shape Shape
	// Cards in table order. For a straight this is ascending rank with each
	// joker in the slot it fills; for a multiple the jokers sit between naturals.
	Cards []Card
	// StandsFor parallels Cards: the card each joker replaces in a straight,
	// EmptyCard everywhere else.
	StandsFor []Card
	Value     int
}

// ValidateDiscard checks that group is held in hand and forms a legal discard.
// It does not modify hand.
func ValidateDiscard(group []Card, hand Hand) (Combination, error) {
	if len(group) == 0 {
		return Combination{}, fmt.Errorf("%w: no cards selected", ErrIllegalCombination)
	}

	want := make(map[Card]int, len(group))
	for _, c := range group {
		if c == EmptyCard {
			return Combination{}, fmt.Errorf("%w: empty card in selection", ErrCardNotHeld)
		}
		want[c]++
	}
	for c, n := range want {
		held := hand.Count(c)
		switch {
		case held == 0:
			return Combination{}, fmt.Errorf("%w: you don't have %s", ErrCardNotHeld, c)
		case held < n:
			return Combination{}, fmt.Errorf("%w: you don't have %d of %s", ErrCardNotHeld, n, c)
		}
	}

	combo := IdentifyCombination(group)
	if combo.Shape == ShapeInvalid {
		return Combination{}, fmt.Errorf("%w: %s", ErrIllegalCombination, FormatCards(group))
	}
	return combo, nil
}

// IdentifyCombination classifies a group without checking ownership.
// Same-rank is tried before straight, so a run of one rank is always a multiple.
func IdentifyCombination(group []Card) Combination {
	switch {
	case len(group) == 0:
		return Combination{Shape: ShapeInvalid}
	case len(group) == 1:
		return newCombination(ShapeSingle, slices.Clone(group), nil)
	}
	if cards, ok := arrangeMultiple(group); ok {
		return newCombination(ShapeMultiple, cards, nil)
	}
	if cards, standsFor, ok := arrangeStraight(group); ok {
		return newCombination(ShapeStraight, cards, standsFor)
	}
	return Combination{Shape: ShapeInvalid}
}

func newCombination(shape Shape, cards []Card, standsFor []Card) Combination {
	if standsFor == nil {
		standsFor = make([]Card, len(cards))
		for i := range standsFor {
			standsFor[i] = EmptyCard
		}
	}
	return Combination{Shape: shape, Cards: cards, StandsFor: standsFor, Value: HandValue(cards)}
}

// arrangeMultiple accepts 2–4 cards whose naturals share one rank.
func arrangeMultiple(group []Card) ([]Card, bool) {
	if len(group) < 2 || len(group) > 4 {
		return nil, false
	}
	var naturals []Card
	jokers := 0
	for _, c := range group {
		if c.IsJoker() {
			jokers++
			continue
		}
		if len(naturals) > 0 && c.Rank() != naturals[0].Rank() {
			return nil, false
		}
		naturals = append(naturals, c)
	}

	// Keep naturals on both ends so the window's front and back show the rank.
	out := make([]Card, 0, len(group))
	if len(naturals) == 0 {
		for range jokers {
			out = append(out, Joker)
		}
		return out, true
	}
	out = append(out, naturals[0])
	for range jokers {
		out = append(out, Joker)
	}
	return append(out, naturals[1:]...), true
}

// arrangeStraight accepts 3+ cards of one suit with consecutive ranks, jokers
// filling interior gaps first. Surplus jokers go to the front when the caller
// listed them before the first natural and there are ranks left below it;
// the rest go to the back. A surplus joker that would need a rank past King
// fails closed.
func arrangeStraight(group []Card) ([]Card, []Card, bool) {
	if len(group) < 3 {
		return nil, nil, false
	}

	var naturals []Card
	jokers, leading := 0, 0
	for _, c := range group {
		if c.IsJoker() {
			jokers++
			if len(naturals) == 0 {
				leading++
			}
			continue
		}
		if len(naturals) > 0 && c.Suit() != naturals[0].Suit() {
			return nil, nil, false
		}
		naturals = append(naturals, c)
	}
	if len(naturals) == 0 {
		return nil, nil, false
	}
	slices.SortFunc(naturals, func(a, b Card) int { return int(a.Rank()) - int(b.Rank()) })

	cards := make([]Card, 0, len(group))
	standsFor := make([]Card, 0, len(group))
	cards = append(cards, naturals[0])
	standsFor = append(standsFor, EmptyCard)

	budget := jokers
	for i := 1; i < len(naturals); i++ {
		prev, next := naturals[i-1], naturals[i]
		want, ok := Successor(prev)
		for ok && want != next {
			if budget == 0 || want.Rank() > next.Rank() {
				return nil, nil, false
			}
			cards = append(cards, Joker)
			standsFor = append(standsFor, want)
			budget--
			want, ok = Successor(want)
		}
		if !ok {
			// prev was a King, or next duplicates a rank
			return nil, nil, false
		}
		cards = append(cards, next)
		standsFor = append(standsFor, EmptyCard)
	}

	head := naturals[0]
	front := min(leading, budget, int(head.Rank()-RankAce))
	back := budget - front

	for range front {
		p, ok := Predecessor(head)
		if !ok {
			return nil, nil, false
		}
		cards = slices.Insert(cards, 0, Joker)
		standsFor = slices.Insert(standsFor, 0, p)
		head = p
	}
	tail := naturals[len(naturals)-1]
	for range back {
		s, ok := Successor(tail)
		if !ok {
			return nil, nil, false
		}
		cards = append(cards, Joker)
		standsFor = append(standsFor, s)
		tail = s
	}
	return cards, standsFor, true
}
