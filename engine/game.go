// Package engine implements the Yaniv card game rules.
//
// The engine is a single-threaded state machine: it validates discards and
// draws, runs the pile lifecycle, and resolves round-ending calls. It holds
// no global state; every game owns its rules, piles, players, and random
// source, so independent games can run side by side in one process.
package engine

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

const (
	DeckSize = 54
)

// TurnPhase is where the current player is within a turn.
type TurnPhase uint8

const (
	PhaseDiscard   TurnPhase = iota // 0: may call Yaniv or discard
	PhaseDraw                       // 1: discarded, must draw
	PhaseDrawn                      // 2: drew, may slap down, then end turn
	PhaseRoundOver                  // 3: round resolved, waiting for StartRound
	PhaseGameOver                   // 4: one player left
)

func (p TurnPhase) String() string {
	switch p {
	case PhaseDiscard:
		return "discard"
	case PhaseDraw:
		return "draw"
	case PhaseDrawn:
		return "drawn"
	case PhaseRoundOver:
		return "round_over"
	case PhaseGameOver:
		return "game_over"
	}
	return "unknown"
}

// PlayerState holds one player's hand and running score.
type PlayerState struct {
	Name          string
	Automated     bool
	Hand          Hand
	Score         int
	PointsInRound int
	Active        bool
	// FaceUp lists cards this player took from the window that are still in
	// their hand. Everyone saw them being taken.
	FaceUp []Card
}

// PlayerConfig describes a seat at game creation.
type PlayerConfig struct {
	Name      string
	Automated bool
}

// GameState holds the complete state of a Yaniv game.
type GameState struct {
	Rules   HouseRules
	Players []*PlayerState
	Piles   Piles

	CurrentPlayer int
	ActivePlayers int
	Phase         TurnPhase
	RoundNumber   int
	TurnNumber    int

	// LastDiscard is the combination placed this turn.
	LastDiscard Combination
	// pendingSlap is the deck card eligible for slap-down this turn.
	pendingSlap Card

	rng *rand.Rand
}

// NewRand returns a seeded PCG source, the form every game and test uses.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeefcafe1234))
}

// NewGame validates the rules and seats and returns a game with no cards dealt.
// Call StartRound to deal.
func NewGame(rules HouseRules, seats []PlayerConfig, rng *rand.Rand) (*GameState, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if len(seats) < rules.MinPlayers || len(seats) > rules.MaxPlayers {
		return nil, fmt.Errorf("%w: need %d–%d players, got %d",
			ErrInvalidRules, rules.MinPlayers, rules.MaxPlayers, len(seats))
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidRules)
	}
	g := &GameState{
		Rules:         rules,
		Players:       make([]*PlayerState, len(seats)),
		ActivePlayers: len(seats),
		Phase:         PhaseRoundOver,
		pendingSlap:   EmptyCard,
		rng:           rng,
	}
	for i, s := range seats {
		g.Players[i] = &PlayerState{Name: s.Name, Automated: s.Automated, Active: true}
	}
	return g, nil
}

// Rand exposes the game's random source so collaborators share one stream.
func (g *GameState) Rand() *rand.Rand { return g.rng }

// StartRound rebuilds and shuffles the deck, deals every active player, flips
// one card face-up, and gives the turn to starter (or the next active seat).
func (g *GameState) StartRound(starter int) error {
	if g.Phase == PhaseGameOver {
		return fmt.Errorf("%w: game is over", ErrWrongPhase)
	}
	if starter < 0 || starter >= len(g.Players) {
		return fmt.Errorf("%w: seat %d", ErrUnknownPlayer, starter)
	}

	g.Piles.reset(g.rng)
	for _, p := range g.Players {
		p.Hand = p.Hand[:0]
		p.FaceUp = nil
		p.PointsInRound = 0
	}
	for _, p := range g.Players {
		if !p.Active {
			continue
		}
		for range g.Rules.CardsAtStart {
			c, err := g.Piles.deal(g.rng)
			if err != nil {
				return err
			}
			p.Hand = append(p.Hand, c)
		}
		SortHand(p.Hand)
	}
	if err := g.Piles.flip(g.rng); err != nil {
		return err
	}

	g.CurrentPlayer = starter
	if !g.Players[starter].Active {
		g.CurrentPlayer = g.NextPlayer(starter)
	}
	g.Phase = PhaseDiscard
	g.LastDiscard = Combination{}
	g.pendingSlap = EmptyCard
	g.RoundNumber++
	return nil
}

// ResetGame zeroes every score, reactivates every seat, and starts a round.
func (g *GameState) ResetGame(starter int) error {
	for _, p := range g.Players {
		p.Score = 0
		p.Active = true
	}
	g.ActivePlayers = len(g.Players)
	g.RoundNumber = 0
	g.TurnNumber = 0
	g.Phase = PhaseRoundOver
	return g.StartRound(starter)
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// IsGameOver reports whether only one active player remains.
func (g *GameState) IsGameOver() bool { return g.Phase == PhaseGameOver }

// NextPlayer returns the next active seat after current in turn order.
func (g *GameState) NextPlayer(current int) int {
	n := len(g.Players)
	for step := 1; step <= n; step++ {
		i := (current + step) % n
		if g.Players[i].Active {
			return i
		}
	}
	return current
}

// Opponents returns all active seats except player.
func (g *GameState) Opponents(player int) []int {
	opps := make([]int, 0, len(g.Players)-1)
	for i, p := range g.Players {
		if i != player && p.Active {
			opps = append(opps, i)
		}
	}
	return opps
}

// HandValue returns the point value of a seat's hand.
func (g *GameState) HandValue(player int) int {
	return g.Players[player].Hand.Value()
}

// CanCall reports whether the current player may call Yaniv now.
func (g *GameState) CanCall() bool {
	return g.Phase == PhaseDiscard && g.HandValue(g.CurrentPlayer) <= g.Rules.CallThreshold
}

// SlapdownCard returns the deck card the current player may slap down, or EmptyCard.
func (g *GameState) SlapdownCard() Card { return g.pendingSlap }

// Unseen returns the cards player cannot see: the deck plus every other hand,
// minus cards opponents are publicly known to hold.
func (g *GameState) Unseen(player int) []Card {
	out := slices.Clone(g.Piles.Deck)
	for i, p := range g.Players {
		if i == player {
			continue
		}
		out = append(out, RemoveCards(p.Hand, p.FaceUp)...)
	}
	return out
}

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a deep copy of GameState for undo support and what-if search.
type Snapshot struct {
	state GameState
}

// Save returns a deep snapshot of the current game state. The random source is
// shared, not copied.
func (g *GameState) Save() Snapshot {
	s := *g
	s.Players = make([]*PlayerState, len(g.Players))
	for i, p := range g.Players {
		cp := *p
		cp.Hand = p.Hand.Clone()
		cp.FaceUp = slices.Clone(p.FaceUp)
		s.Players[i] = &cp
	}
	s.Piles = Piles{
		Deck:          slices.Clone(g.Piles.Deck),
		Discard:       slices.Clone(g.Piles.Discard),
		Available:     slices.Clone(g.Piles.Available),
		NextAvailable: slices.Clone(g.Piles.NextAvailable),
	}
	s.LastDiscard.Cards = slices.Clone(g.LastDiscard.Cards)
	s.LastDiscard.StandsFor = slices.Clone(g.LastDiscard.StandsFor)
	return Snapshot{state: s}
}

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) {
	restored := s.state.Save()
	*g = restored.state
}
