package engine

import (
	"errors"
	"slices"
	"testing"
)

func TestTurnDiscardDrawEnd(t *testing.T) {
	g := newDealtGame(t, 3, DefaultHouseRules())
	setHand(g, 0, "3C 3H 8D KS")
	setWindow(g, "QD")
	g.Piles.Deck = RemoveCards(NewDeck(), MustParseCards("3C 3H 8D KS QD"))

	combo, err := g.Discard(0, MustParseCards("3H 3C"))
	if err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if combo.Shape != ShapeMultiple || g.Phase != PhaseDraw {
		t.Errorf("shape %s phase %s", combo.Shape, g.Phase)
	}
	if FormatCards(g.Players[0].Hand) != "8D KS" {
		t.Errorf("hand = %s", FormatCards(g.Players[0].Hand))
	}
	if FormatCards(g.Piles.NextAvailable) != "3H 3C" {
		t.Errorf("NextAvailable = %s", FormatCards(g.Piles.NextAvailable))
	}

	res, err := g.Draw(0, TakeCard(NewCard(SuitDiamonds, RankQueen)))
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if res.FromDeck || g.Phase != PhaseDrawn {
		t.Errorf("result %+v phase %s", res, g.Phase)
	}
	if !slices.Equal(g.Players[0].FaceUp, MustParseCards("QD")) {
		t.Errorf("FaceUp = %s, want QD", FormatCards(g.Players[0].FaceUp))
	}

	if err := g.EndTurn(0); err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	if g.CurrentPlayer != 1 || g.Phase != PhaseDiscard || g.TurnNumber != 1 {
		t.Errorf("current %d phase %s turn %d", g.CurrentPlayer, g.Phase, g.TurnNumber)
	}
	if FormatCards(g.Piles.Available) != "3H 3C" {
		t.Errorf("next player's window = %s", FormatCards(g.Piles.Available))
	}
}

func TestTurnOrderEnforced(t *testing.T) {
	g := newDealtGame(t, 2, DefaultHouseRules())
	card := g.Players[1].Hand[:1]
	if _, err := g.Discard(1, card); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("out of turn discard: got %v, want ErrNotYourTurn", err)
	}
	if _, err := g.Draw(0, DeckDraw); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("draw before discard: got %v, want ErrWrongPhase", err)
	}
	if err := g.EndTurn(0); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("end before draw: got %v, want ErrWrongPhase", err)
	}
	if _, err := g.Discard(5, card); !errors.Is(err, ErrUnknownPlayer) {
		t.Errorf("unknown seat: got %v, want ErrUnknownPlayer", err)
	}
}

func TestRejectedMovesLeaveStateUnchanged(t *testing.T) {
	g := newDealtGame(t, 2, DefaultHouseRules())
	setHand(g, 0, "4H 6H 9C KD")
	setWindow(g, "3D 4D 5D")
	before := g.Save()

	if _, err := g.Discard(0, MustParseCards("4H 6H")); !errors.Is(err, ErrIllegalCombination) {
		t.Fatalf("got %v, want ErrIllegalCombination", err)
	}
	if _, err := g.Discard(0, MustParseCards("JK")); !errors.Is(err, ErrCardNotHeld) {
		t.Fatalf("got %v, want ErrCardNotHeld", err)
	}
	if _, err := g.Discard(0, MustParseCards("KD")); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	mid := g.Save()
	if _, err := g.Draw(0, TakeCard(NewCard(SuitDiamonds, RankFour))); !errors.Is(err, ErrIllegalDraw) {
		t.Fatalf("middle of straight: got %v, want ErrIllegalDraw", err)
	}
	if !slices.Equal(g.Players[0].Hand, mid.state.Players[0].Hand) ||
		!slices.Equal(g.Piles.Available, mid.state.Piles.Available) || g.Phase != PhaseDraw {
		t.Error("rejected draw changed the game")
	}
	if len(before.state.Players[0].Hand) != 4 {
		t.Error("snapshot changed")
	}
}

func TestJokerSwap(t *testing.T) {
	g := newDealtGame(t, 2, DefaultHouseRules())
	setHand(g, 0, "5H KD")
	setWindow(g, "4H JK 6H")

	if _, err := g.Discard(0, MustParseCards("5H")); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if opts := g.DrawOptions(); !slices.Contains(opts, Joker) {
		t.Errorf("DrawOptions = %s, want JK offered", FormatCards(opts))
	}
	if _, err := g.Draw(0, TakeCard(Joker)); err != nil {
		t.Fatalf("joker swap: %v", err)
	}
	if FormatCards(g.Players[0].Hand) != "JK KD" {
		t.Errorf("hand = %s, want JK KD", FormatCards(g.Players[0].Hand))
	}
	if FormatCards(g.Piles.Discard) != "4H 6H 5H" {
		t.Errorf("discard = %s", FormatCards(g.Piles.Discard))
	}
}

func TestJokerSwapRequiresMatchingCard(t *testing.T) {
	g := newDealtGame(t, 2, DefaultHouseRules())
	setHand(g, 0, "5S KD")
	setWindow(g, "4H JK 6H")
	if _, err := g.Discard(0, MustParseCards("5S")); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, err := g.Draw(0, TakeCard(Joker)); !errors.Is(err, ErrIllegalDraw) {
		t.Errorf("got %v, want ErrIllegalDraw", err)
	}
}

func TestTakeFromMiddleOfMultiple(t *testing.T) {
	g := newDealtGame(t, 2, DefaultHouseRules())
	setHand(g, 0, "2D KD")
	setWindow(g, "7C 7H 7S")
	if _, err := g.Discard(0, MustParseCards("KD")); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, err := g.Draw(0, TakeCard(NewCard(SuitHearts, RankSeven))); err != nil {
		t.Fatalf("take 7H: %v", err)
	}
	if FormatCards(g.Players[0].Hand) != "2D 7H" {
		t.Errorf("hand = %s", FormatCards(g.Players[0].Hand))
	}
}

func TestSlapdown(t *testing.T) {
	g := newDealtGame(t, 2, DefaultHouseRules())
	setHand(g, 0, "9C 9D 4S")
	setWindow(g, "KH")
	g.Piles.Deck = MustParseCards("9S")

	if _, err := g.Slapdown(0); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("slap before drawing: got %v, want ErrWrongPhase", err)
	}
	if _, err := g.Discard(0, MustParseCards("9C 9D")); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	res, err := g.Draw(0, DeckDraw)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if !res.SlapdownEligible || res.Card != NewCard(SuitSpades, RankNine) {
		t.Fatalf("draw result %+v, want eligible 9S", res)
	}
	c, err := g.Slapdown(0)
	if err != nil {
		t.Fatalf("Slapdown: %v", err)
	}
	if c != res.Card || FormatCards(g.Players[0].Hand) != "4S" {
		t.Errorf("slapped %s, hand %s", c, FormatCards(g.Players[0].Hand))
	}
	if FormatCards(g.Piles.NextAvailable) != "9C 9D 9S" {
		t.Errorf("NextAvailable = %s", FormatCards(g.Piles.NextAvailable))
	}
	if _, err := g.Slapdown(0); !errors.Is(err, ErrIllegalDraw) {
		t.Errorf("second slap: got %v, want ErrIllegalDraw", err)
	}
}

func TestSlapdownNotOfferedForStraight(t *testing.T) {
	g := newDealtGame(t, 2, DefaultHouseRules())
	setHand(g, 0, "3D 4D 5D KS")
	setWindow(g, "KH")
	g.Piles.Deck = MustParseCards("3C")

	if _, err := g.Discard(0, MustParseCards("3D 4D 5D")); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	res, err := g.Draw(0, DeckDraw)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if res.SlapdownEligible || g.SlapdownCard() != EmptyCard {
		t.Error("straight discard offered a slap-down")
	}
}

func TestDiscardClearsFaceUp(t *testing.T) {
	g := newDealtGame(t, 2, DefaultHouseRules())
	setHand(g, 0, "QD 2C")
	g.Players[0].FaceUp = MustParseCards("QD")
	if _, err := g.Discard(0, MustParseCards("QD")); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if len(g.Players[0].FaceUp) != 0 {
		t.Errorf("FaceUp = %s after discarding it", FormatCards(g.Players[0].FaceUp))
	}
}

func TestDeckReclaimDuringPlay(t *testing.T) {
	g := newDealtGame(t, 2, DefaultHouseRules())
	total := totalCards(g)
	// Empty the deck into the discard history behind the live window.
	g.Piles.Discard = append(g.Piles.Deck, g.Piles.Discard...)
	g.Piles.Deck = nil
	hand := g.Players[0].Hand
	last := hand[len(hand)-1:]

	if _, err := g.Discard(0, last); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, err := g.Draw(0, DeckDraw); err != nil {
		t.Fatalf("Draw after reclaim: %v", err)
	}
	if got := totalCards(g); got != total {
		t.Errorf("cards in play = %d, want %d", got, total)
	}
	if !slices.Equal(g.Piles.Discard, g.Piles.NextAvailable) {
		t.Errorf("discard %s, want only the live window %s",
			FormatCards(g.Piles.Discard), FormatCards(g.Piles.NextAvailable))
	}
}
