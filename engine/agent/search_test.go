package agent

import (
	"testing"

	engine "github.com/jason-s-yu/yaniv/engine"
)

var cards = engine.MustParseCards

func TestBestDiscardNoTake(t *testing.T) {
	opts := SearchOptions{LowHand: 7, RequireMultiWhenTaking: true}
	tests := []struct {
		name  string
		hand  string
		opts  SearchOptions
		want  string
		value int
	}{
		{"single beats small pair", "3C 3H KS 2D", opts, "KS", 10},
		{"triple", "8C 8H 8S KD", opts, "8C 8H 8S", 24},
		{"straight", "4H 5H 6H KD", opts, "4H 5H 6H", 15},
		{"joker fills a gap", "4H JK 6H 2C", opts, "4H JK 6H", 10},
		{"low hand keeps a joker on a short run", "JK 4H 5H AC", opts, "4H 5H JK", 9},
		{"short run without low hand", "JK 4H 5H AC", SearchOptions{}, "5H", 5},
		{"joker in front at king", "JK QS KS 2C", opts, "JK QS KS", 20},
		{"pair with joker kept", "JK 7C 7H", opts, "7C 7H", 14},
		{"only jokers", "JK JK", opts, "JK", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := cards(tt.hand)
			engine.SortHand(hand)
			p := BestDiscard(hand, nil, tt.opts)
			if p.Draw != engine.EmptyCard {
				t.Errorf("Draw = %s, want none", p.Draw)
			}
			if got := engine.FormatCards(p.Discard); got != tt.want || p.Value != tt.value {
				t.Errorf("Discard = %s (%d), want %s (%d)", got, p.Value, tt.want, tt.value)
			}
		})
	}
}

func TestBestDiscardTaking(t *testing.T) {
	opts := SearchOptions{LowHand: 7, RequireMultiWhenTaking: true}
	tests := []struct {
		name       string
		hand       string
		candidates string
		draw       string // "" for no take
		value      int
	}{
		{"completes a triple", "7C 7H 2D KS", "7S QD", "7S", 21},
		{"completes a straight", "9D 10D 3C", "JD", "JD", 29},
		{"joker dominates", "5C 5D 9H", "9S JK", "JK", 10},
		{"nothing left to discard", "7C 7H JK", "7S", "", 14},
		{"single take refused", "2C 9H", "KS", "", 9},
		{"weaker take loses to the plain best", "2C 2D 9H", "2S", "", 9},
		{"equal take loses to the plain best", "2C 2D 6H", "2S", "", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := cards(tt.hand)
			engine.SortHand(hand)
			p := BestDiscard(hand, cards(tt.candidates), opts)
			wantDraw := engine.EmptyCard
			if tt.draw != "" {
				wantDraw = cards(tt.draw)[0]
			}
			if p.Draw != wantDraw {
				t.Fatalf("Draw = %s, want %s (discard %s)", p.Draw, wantDraw, engine.FormatCards(p.Discard))
			}
			if p.Value != tt.value {
				t.Errorf("Value = %d, want %d (discard %s)", p.Value, tt.value, engine.FormatCards(p.Discard))
			}
		})
	}
}

// TestBestDiscardNeverEmpty checks random hands: a group always comes back, and
// a take always comes with a group of two or more that includes the taken card.
func TestBestDiscardNeverEmpty(t *testing.T) {
	rng := engine.NewRand(11)
	opts := SearchOptions{LowHand: 7, RequireMultiWhenTaking: true}
	for i := 0; i < 2000; i++ {
		deck := engine.NewDeck()
		rng.Shuffle(len(deck), func(a, b int) { deck[a], deck[b] = deck[b], deck[a] })
		n := 1 + rng.IntN(7)
		hand := deck[:n]
		engine.SortHand(hand)
		window := deck[n : n+1+rng.IntN(3)]

		p := BestDiscard(hand, window, opts)
		if len(p.Discard) == 0 {
			t.Fatalf("hand %s window %s: empty discard", engine.FormatCards(hand), engine.FormatCards(window))
		}
		if engine.IdentifyCombination(p.Discard).Shape == engine.ShapeInvalid {
			t.Fatalf("hand %s: illegal group %s", engine.FormatCards(hand), engine.FormatCards(p.Discard))
		}
		if p.Draw == engine.EmptyCard {
			continue
		}
		if len(p.Discard) < 2 {
			t.Fatalf("hand %s: take %s with group %s", engine.FormatCards(hand), p.Draw, engine.FormatCards(p.Discard))
		}
		found := false
		for _, c := range p.Discard {
			if c == p.Draw {
				found = true
			}
		}
		if !found {
			t.Fatalf("group %s does not use taken %s", engine.FormatCards(p.Discard), p.Draw)
		}
	}
}
