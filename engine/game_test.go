package engine

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func testSeats(n int) []PlayerConfig {
	seats := make([]PlayerConfig, n)
	for i := range seats {
		seats[i] = PlayerConfig{Name: fmt.Sprintf("p%d", i)}
	}
	return seats
}

// newDealtGame returns an n-player game with the first round dealt and seat 0 to move.
func newDealtGame(t *testing.T, n int, rules HouseRules) *GameState {
	t.Helper()
	g, err := NewGame(rules, testSeats(n), NewRand(42))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := g.StartRound(0); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	return g
}

// setHand replaces a seat's hand with the given notation.
func setHand(g *GameState, seat int, cards string) {
	h := Hand(MustParseCards(cards))
	SortHand(h)
	g.Players[seat].Hand = h
	g.Players[seat].FaceUp = nil
}

// setWindow makes cards the previous player's discard, available to the current player.
func setWindow(g *GameState, cards string) {
	w := MustParseCards(cards)
	g.Piles.Discard = slices.Clone(w)
	g.Piles.Available = slices.Clone(w)
	g.Piles.NextAvailable = slices.Clone(w)
}

// totalCards counts every card in hands, deck, and discard history.
func totalCards(g *GameState) int {
	n := g.Piles.CardCount()
	for _, p := range g.Players {
		n += len(p.Hand)
	}
	return n
}

func TestNewGameValidation(t *testing.T) {
	rules := DefaultHouseRules()
	for _, n := range []int{1, 9} {
		if _, err := NewGame(rules, testSeats(n), NewRand(1)); !errors.Is(err, ErrInvalidRules) {
			t.Errorf("%d players: got %v, want ErrInvalidRules", n, err)
		}
	}

	bad := rules
	bad.CardsAtStart = 7
	if _, err := NewGame(bad, testSeats(2), NewRand(1)); !errors.Is(err, ErrInvalidRules) {
		t.Errorf("8x7 cards: got %v, want ErrInvalidRules", err)
	}

	if _, err := NewGame(rules, testSeats(2), nil); !errors.Is(err, ErrInvalidRules) {
		t.Errorf("nil rng: got %v, want ErrInvalidRules", err)
	}
}

func TestHouseRulesValidate(t *testing.T) {
	if err := DefaultHouseRules().Validate(); err != nil {
		t.Fatalf("default rules invalid: %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*HouseRules)
	}{
		{"no cards", func(r *HouseRules) { r.CardsAtStart = 0 }},
		{"negative threshold", func(r *HouseRules) { r.CallThreshold = -1 }},
		{"negative penalty", func(r *HouseRules) { r.AssafPenalty = -5 }},
		{"zero limit", func(r *HouseRules) { r.ScoreLimit = 0 }},
		{"negative reduction", func(r *HouseRules) { r.ReductionMultiple = -50 }},
		{"one player", func(r *HouseRules) { r.MinPlayers = 1 }},
		{"max below min", func(r *HouseRules) { r.MaxPlayers = 1 }},
	}
	for _, tt := range tests {
		r := DefaultHouseRules()
		tt.mutate(&r)
		if err := r.Validate(); !errors.Is(err, ErrInvalidRules) {
			t.Errorf("%s: got %v, want ErrInvalidRules", tt.name, err)
		}
	}
}

func TestStartRoundDeals(t *testing.T) {
	for n := 2; n <= 8; n++ {
		g := newDealtGame(t, n, DefaultHouseRules())
		for i, p := range g.Players {
			if len(p.Hand) != 5 {
				t.Errorf("%d players: seat %d holds %d cards, want 5", n, i, len(p.Hand))
			}
			if !slices.IsSortedFunc(p.Hand, func(a, b Card) int { return a.Order() - b.Order() }) {
				t.Errorf("seat %d hand not sorted: %s", i, FormatCards(p.Hand))
			}
		}
		if len(g.Piles.Available) != 1 || len(g.Piles.Discard) != 1 {
			t.Errorf("%d players: window %d, discard %d, want 1 and 1", n, len(g.Piles.Available), len(g.Piles.Discard))
		}
		if got := totalCards(g); got != DeckSize {
			t.Errorf("%d players: %d cards in play, want %d", n, got, DeckSize)
		}
		if g.Phase != PhaseDiscard || g.CurrentPlayer != 0 || g.RoundNumber != 1 {
			t.Errorf("phase %s current %d round %d", g.Phase, g.CurrentPlayer, g.RoundNumber)
		}
	}
}

func TestStartRoundDeterministic(t *testing.T) {
	a := newDealtGame(t, 4, DefaultHouseRules())
	b := newDealtGame(t, 4, DefaultHouseRules())
	for i := range a.Players {
		if !slices.Equal(a.Players[i].Hand, b.Players[i].Hand) {
			t.Errorf("seat %d: %s vs %s", i, FormatCards(a.Players[i].Hand), FormatCards(b.Players[i].Hand))
		}
	}
	if !slices.Equal(a.Piles.Deck, b.Piles.Deck) {
		t.Error("decks differ for the same seed")
	}
}

func TestStartRoundSkipsEliminatedStarter(t *testing.T) {
	g := newDealtGame(t, 3, DefaultHouseRules())
	g.Players[1].Active = false
	g.ActivePlayers = 2
	g.Phase = PhaseRoundOver
	if err := g.StartRound(1); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if g.CurrentPlayer != 2 {
		t.Errorf("CurrentPlayer = %d, want 2", g.CurrentPlayer)
	}
	if len(g.Players[1].Hand) != 0 {
		t.Errorf("eliminated seat was dealt %s", FormatCards(g.Players[1].Hand))
	}
	if err := g.StartRound(7); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("bad starter: got %v, want ErrUnknownPlayer", err)
	}
}

func TestNextPlayerSkipsInactive(t *testing.T) {
	g := newDealtGame(t, 4, DefaultHouseRules())
	g.Players[1].Active = false
	g.Players[2].Active = false
	if got := g.NextPlayer(0); got != 3 {
		t.Errorf("NextPlayer(0) = %d, want 3", got)
	}
	if got := g.NextPlayer(3); got != 0 {
		t.Errorf("NextPlayer(3) = %d, want 0", got)
	}
	if opps := g.Opponents(0); !slices.Equal(opps, []int{3}) {
		t.Errorf("Opponents(0) = %v, want [3]", opps)
	}
}

func TestResetGame(t *testing.T) {
	g := newDealtGame(t, 3, DefaultHouseRules())
	g.Players[0].Score = 150
	g.Players[2].Active = false
	g.ActivePlayers = 2
	g.Phase = PhaseGameOver
	if err := g.ResetGame(1); err != nil {
		t.Fatalf("ResetGame: %v", err)
	}
	for i, p := range g.Players {
		if p.Score != 0 || !p.Active || len(p.Hand) != 5 {
			t.Errorf("seat %d: score %d active %v hand %d", i, p.Score, p.Active, len(p.Hand))
		}
	}
	if g.ActivePlayers != 3 || g.RoundNumber != 1 || g.CurrentPlayer != 1 {
		t.Errorf("active %d round %d current %d", g.ActivePlayers, g.RoundNumber, g.CurrentPlayer)
	}
}

func TestUnseenExcludesFaceUpCards(t *testing.T) {
	g := newDealtGame(t, 2, DefaultHouseRules())
	setHand(g, 1, "3C 9D KS")
	g.Players[1].FaceUp = MustParseCards("9D")
	unseen := g.Unseen(0)
	if len(unseen) != len(g.Piles.Deck)+2 {
		t.Errorf("unseen = %d cards, want %d", len(unseen), len(g.Piles.Deck)+2)
	}
	if slices.Contains(unseen, NewCard(SuitDiamonds, RankNine)) {
		t.Error("face-up 9D counted as unseen")
	}
}

func TestSnapshotSaveRestore(t *testing.T) {
	g := newDealtGame(t, 3, DefaultHouseRules())
	hand := g.Players[0].Hand.Clone()
	deck := len(g.Piles.Deck)
	snap := g.Save()

	if _, err := g.Discard(0, hand[len(hand)-1:]); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, err := g.Draw(0, DeckDraw); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	g.Players[1].Score = 99

	g.Restore(snap)
	if !slices.Equal(g.Players[0].Hand, hand) {
		t.Errorf("hand = %s, want %s", FormatCards(g.Players[0].Hand), FormatCards(hand))
	}
	if len(g.Piles.Deck) != deck || g.Phase != PhaseDiscard || g.Players[1].Score != 0 {
		t.Errorf("deck %d phase %s score %d after restore", len(g.Piles.Deck), g.Phase, g.Players[1].Score)
	}

	// Mutating the restored game must not reach into the snapshot.
	g.Players[0].Hand[0] = Joker
	g.Restore(snap)
	if !slices.Equal(g.Players[0].Hand, hand) {
		t.Error("snapshot shared hand storage with the live game")
	}
}

func BenchmarkSnapshot(b *testing.B) {
	g, _ := NewGame(DefaultHouseRules(), testSeats(4), NewRand(42))
	_ = g.StartRound(0)
	snap := g.Save()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Restore(snap)
	}
}
