// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	engine "github.com/jason-s-yu/yaniv/engine"
)

// ViewCard is a card as shown to a client.
type ViewCard struct {
	Card  string `json:"card"` // Table notation, e.g. "10H" or "JK".
	Rank  string `json:"rank,omitempty"`
	Suit  string `json:"suit,omitempty"`
	Value int    `json:"value"`
}

// ViewPlayer is one seat's state as seen by a specific observer.
type ViewPlayer struct {
	PlayerID      uuid.UUID  `json:"playerId"`
	Name          string     `json:"name"`
	Automated     bool       `json:"automated"`
	HandSize      int        `json:"handSize"`
	Score         int        `json:"score"`
	Active        bool       `json:"active"`
	IsCurrentTurn bool       `json:"isCurrentTurn"`
	FaceUp        []ViewCard `json:"faceUp,omitempty"` // Cards everyone saw this player take.
	// Hand and HandValue are populated only for the observer's own seat.
	Hand      []ViewCard `json:"hand,omitempty"`
	HandValue *int       `json:"handValue,omitempty"`
}

// PlayerView is the game state tailored to one observer: opponents' hands are
// reduced to their size and the cards they were seen taking.
type PlayerView struct {
	GameID          uuid.UUID         `json:"gameId"`
	Round           int               `json:"round"`
	TurnID          int               `json:"turnId"`
	Phase           string            `json:"phase"`
	GameOver        bool              `json:"gameOver"`
	CurrentPlayerID uuid.UUID         `json:"currentPlayerId"`
	DeckSize        int               `json:"deckSize"`
	DiscardSize     int               `json:"discardSize"`
	Available       []ViewCard        `json:"available"`
	Drawable        []ViewCard        `json:"drawable,omitempty"` // Only for the current player.
	CanCall         bool              `json:"canCall"`            // Only true for the current player.
	Players         []ViewPlayer      `json:"players"`
	Rules           engine.HouseRules `json:"houseRules"`
}

// StateFor returns the game state as forUser may see it.
func (g *YanivGame) StateFor(forUser uuid.UUID) (PlayerView, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	self, err := g.seat(forUser)
	if err != nil {
		return PlayerView{}, err
	}
	return g.playerView(self), nil
}

// playerView assumes lock is held by caller.
func (g *YanivGame) playerView(self int) PlayerView {
	e := g.Engine
	inPlay := e.Phase != engine.PhaseRoundOver && e.Phase != engine.PhaseGameOver
	v := PlayerView{
		GameID:      g.ID,
		Round:       e.RoundNumber,
		TurnID:      e.TurnNumber,
		Phase:       e.Phase.String(),
		GameOver:    e.IsGameOver(),
		DeckSize:    len(e.Piles.Deck),
		DiscardSize: len(e.Piles.Discard),
		Available:   viewCards(e.Piles.Available),
		Rules:       e.Rules,
	}
	if inPlay {
		v.CurrentPlayerID = g.Players[e.CurrentPlayer].ID
	}
	if inPlay && e.CurrentPlayer == self {
		v.CanCall = e.CanCall()
		v.Drawable = viewCards(e.DrawOptions())
	}

	v.Players = make([]ViewPlayer, len(g.Players))
	for i, pl := range g.Players {
		ps := e.Players[i]
		vp := ViewPlayer{
			PlayerID:      pl.ID,
			Name:          pl.Name,
			Automated:     pl.Automated,
			HandSize:      len(ps.Hand),
			Score:         ps.Score,
			Active:        ps.Active,
			IsCurrentTurn: inPlay && i == e.CurrentPlayer,
			FaceUp:        viewCards(ps.FaceUp),
		}
		// Hands are shown to their owner, and to everyone once the round is scored.
		if i == self || !inPlay {
			vp.Hand = viewCards(ps.Hand)
			value := ps.Hand.Value()
			vp.HandValue = &value
		}
		v.Players[i] = vp
	}
	return v
}

func viewCards(cards []engine.Card) []ViewCard {
	if len(cards) == 0 {
		return nil
	}
	out := make([]ViewCard, len(cards))
	for i, c := range cards {
		out[i] = ViewCard{
			Card:  c.String(),
			Rank:  engine.RankString(c.Rank()),
			Suit:  engine.SuitString(c.Suit()),
			Value: c.Value(),
		}
	}
	return out
}
