package engine

// NextRank returns the rank one step above r. King and Joker have no successor.
func NextRank(r uint8) (uint8, bool) {
	if r >= RankKing {
		return 0, false
	}
	return r + 1, true
}

// PrevRank returns the rank one step below r. Ace and Joker have no predecessor.
func PrevRank(r uint8) (uint8, bool) {
	if r == RankAce || r > RankKing {
		return 0, false
	}
	return r - 1, true
}

// Successor returns the same-suit card one rank above c.
func Successor(c Card) (Card, bool) {
	if c.IsJoker() || c == EmptyCard {
		return EmptyCard, false
	}
	r, ok := NextRank(c.Rank())
	if !ok {
		return EmptyCard, false
	}
	return NewCard(c.Suit(), r), true
}

// Predecessor returns the same-suit card one rank below c.
func Predecessor(c Card) (Card, bool) {
	if c.IsJoker() || c == EmptyCard {
		return EmptyCard, false
	}
	r, ok := PrevRank(c.Rank())
	if !ok {
		return EmptyCard, false
	}
	return NewCard(c.Suit(), r), true
}
