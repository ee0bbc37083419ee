package engine

import (
	"fmt"
	"strings"
)

// Suit constants, packed into upper 4 bits of Card.
const (
	SuitHearts   uint8 = 0
	SuitDiamonds uint8 = 1
	SuitClubs    uint8 = 2
	SuitSpades   uint8 = 3
	SuitJoker    uint8 = 4
)

// Rank constants, packed into lower 4 bits of Card.
const (
	RankAce   uint8 = 0
	RankTwo   uint8 = 1
	RankThree uint8 = 2
	RankFour  uint8 = 3
	RankFive  uint8 = 4
	RankSix   uint8 = 5
	RankSeven uint8 = 6
	RankEight uint8 = 7
	RankNine  uint8 = 8
	RankTen   uint8 = 9
	RankJack  uint8 = 10
	RankQueen uint8 = 11
	RankKing  uint8 = 12
	RankJoker uint8 = 13
)

// Card is a packed uint8: upper 4 bits = suit, lower 4 bits = rank.
// Both jokers in a deck share the single Joker value, so they compare equal.
type Card uint8

// EmptyCard represents the absence of a card.
const EmptyCard Card = 0xFF

// Joker is the wildcard. It has no suit and no rank successor.
const Joker Card = Card(SuitJoker<<4 | RankJoker)

// NewCard constructs a Card from suit and rank.
func NewCard(suit, rank uint8) Card {
	if suit == SuitJoker || rank == RankJoker {
		return Joker
	}
	return Card((suit << 4) | (rank & 0x0F))
}

// Suit returns the suit bits (upper 4).
func (c Card) Suit() uint8 { return uint8(c) >> 4 }

// Rank returns the rank bits (lower 4).
func (c Card) Rank() uint8 { return uint8(c) & 0x0F }

// IsJoker reports whether c is the wildcard.
func (c Card) IsJoker() bool { return c == Joker }

// Value returns the point value of the card.
//   - Joker → 0
//   - Ace → 1
//   - Two–Ten → face value
//   - Jack, Queen, King → 10
func (c Card) Value() int {
	r := c.Rank()
	switch {
	case c == EmptyCard || r == RankJoker:
		return 0
	case r <= RankTen:
		return int(r) + 1
	case r <= RankKing:
		return 10
	}
	return 0
}

// Order returns the sort key used for hands: Joker=0, Ace=1 … King=13.
func (c Card) Order() int {
	if c.IsJoker() {
		return 0
	}
	return int(c.Rank()) + 1
}

var rankTokens = [...]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
var suitTokens = [...]string{"H", "D", "C", "S"}

// JokerToken is the notation for the wildcard.
const JokerToken = "JK"

// RankString returns the rank token ("A", "2".."10", "J", "Q", "K") or "" for a joker.
func RankString(rank uint8) string {
	if int(rank) < len(rankTokens) {
		return rankTokens[rank]
	}
	return ""
}

// SuitString returns the suit letter or "" for a joker.
func SuitString(suit uint8) string {
	if int(suit) < len(suitTokens) {
		return suitTokens[suit]
	}
	return ""
}

// String renders the card in table notation, e.g. "10H", "QS", "JK".
func (c Card) String() string {
	switch {
	case c == EmptyCard:
		return "--"
	case c.IsJoker():
		return JokerToken
	}
	return RankString(c.Rank()) + SuitString(c.Suit())
}

// ParseCard parses table notation. A lone "J" is accepted as a joker.
func ParseCard(s string) (Card, error) {
	tok := strings.ToUpper(strings.TrimSpace(s))
	if tok == JokerToken || tok == "J" {
		return Joker, nil
	}
	if len(tok) < 2 {
		return EmptyCard, fmt.Errorf("invalid card %q", s)
	}
	rankTok, suitTok := tok[:len(tok)-1], tok[len(tok)-1:]
	suit := uint8(255)
	for i, st := range suitTokens {
		if st == suitTok {
			suit = uint8(i)
		}
	}
	if suit == 255 {
		return EmptyCard, fmt.Errorf("invalid suit in card %q", s)
	}
	for i, rt := range rankTokens {
		if rt == rankTok {
			return NewCard(suit, uint8(i)), nil
		}
	}
	return EmptyCard, fmt.Errorf("invalid rank in card %q", s)
}

// ParseCards parses a whitespace-separated list such as "4H JK 6H".
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for fixtures; it panics on bad input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards renders cards space-separated.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// NewDeck returns the ordered 54-card deck: 52 standard cards plus two jokers.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := RankAce; rank <= RankKing; rank++ {
			deck = append(deck, NewCard(suit, rank))
		}
	}
	return append(deck, Joker, Joker)
}
