package agent

import engine "github.com/jason-s-yu/yaniv/engine"

// OpponentView is what every player can see about one opponent.
type OpponentView struct {
	Seat     int
	HandSize int
	// FaceUp are cards the opponent took from the window and still holds.
	FaceUp []engine.Card
}

// ChallengeEstimator predicts an opponent's hand value before calling Yaniv.
type ChallengeEstimator interface {
	Estimate(opp OpponentView, unseen []engine.Card) int
}

// FaceUpEstimator counts the opponent's known cards at face value and every
// hidden card at the average of the cards this player cannot see.
type FaceUpEstimator struct{}

func (FaceUpEstimator) Estimate(opp OpponentView, unseen []engine.Card) int {
	hidden := max(opp.HandSize-len(opp.FaceUp), 0)
	return engine.HandValue(opp.FaceUp) + hidden*AverageValue(unseen)
}

// AverageValue is the integer mean point value of cards, 0 when there are none.
func AverageValue(cards []engine.Card) int {
	if len(cards) == 0 {
		return 0
	}
	return engine.HandValue(cards) / len(cards)
}
