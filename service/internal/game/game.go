// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/yaniv/engine"
	"github.com/jason-s-yu/yaniv/engine/agent"
	"github.com/sirupsen/logrus"
)

// OnGameEndFunc defines the signature for a callback function executed when a game ends.
// It receives the game ID, the champion's ID, and the final scores.
type OnGameEndFunc func(gameID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int)

// OnRoundEndFunc is executed after every resolved Yaniv call.
type OnRoundEndFunc func(gameID uuid.UUID, summary RoundSummary)

// GameEventType represents the type of a game-related event broadcast to players.
type GameEventType string

// Constants defining the various GameEvent types.
const (
	EventRoundStart        GameEventType = "round_start"         // Public: new round dealt, first face-up card shown.
	EventPrivateHand       GameEventType = "private_hand"        // Private: the player's dealt hand.
	EventPlayerDiscard     GameEventType = "player_discard"      // Public: cards placed, in table order.
	EventPlayerDrawDeck    GameEventType = "player_draw_deck"    // Public: player drew from the deck (no card shown).
	EventPrivateDrawDeck   GameEventType = "private_draw_deck"   // Private: the card drawn from the deck.
	EventPlayerDrawDiscard GameEventType = "player_draw_discard" // Public: player took a face-up card.
	EventPlayerSlapdown    GameEventType = "player_slapdown"     // Public: deck card slapped onto the discard.
	EventPlayerCall        GameEventType = "player_call"         // Public: player called Yaniv.
	EventRoundEnd          GameEventType = "round_end"           // Public: round results.
	EventGamePlayerTurn    GameEventType = "game_player_turn"    // Public: notification of the current player's turn.
	EventGameEnd           GameEventType = "game_end"            // Public: game has ended, includes results.
)

// EventUser identifies a user within a GameEvent payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// GameEvent is the standard structure for broadcasting game state changes and actions.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`  // The user initiating or targeted by the event.
	Cards   []string               `json:"cards,omitempty"` // Cards involved, in table notation.
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Player is a seat in the game.
type Player struct {
	ID        uuid.UUID
	Name      string
	Automated bool
}

// RoundSummary is a RoundResult keyed by player ID.
type RoundSummary struct {
	Round       int
	Caller      uuid.UUID
	CallerValue int
	Challenged  bool
	Winners     []uuid.UUID
	Deltas      map[uuid.UUID]int
	Scores      map[uuid.UUID]int
	Eliminated  []uuid.UUID
	NextStarter uuid.UUID
	GameOver    bool
	Champion    uuid.UUID
}

// YanivGame is one game session: it owns player identities, the engine state,
// and the event stream.
type YanivGame struct {
	ID    uuid.UUID         // Unique identifier for this game instance.
	Rules engine.HouseRules // Rules fixed at Configure.

	Players []*Player // Seats in turn order.
	Engine  *engine.GameState
	Policy  *agent.Policy // Plays automated seats.

	seatOf      map[uuid.UUID]int
	actionIndex int // Sequential index for action logging.
	lastRound   *RoundSummary

	Mu sync.Mutex // Protects everything above.

	// Communication Callbacks
	BroadcastFn         func(ev GameEvent)                     // Sends an event to all players.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent) // Sends an event to a single player.
	OnRoundEnd          OnRoundEndFunc
	OnGameEnd           OnGameEndFunc

	Log *logrus.Entry
}

// Configure validates rules and seats and creates a session. No cards are dealt
// until DealInitialHands.
func Configure(rules engine.HouseRules, seats []engine.PlayerConfig, seed uint64) (*YanivGame, error) {
	eng, err := engine.NewGame(rules, seats, engine.NewRand(seed))
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generate game id: %w", err)
	}
	g := &YanivGame{
		ID:      id,
		Rules:   rules,
		Engine:  eng,
		Policy:  agent.NewPolicy(nil),
		Players: make([]*Player, len(seats)),
		seatOf:  make(map[uuid.UUID]int, len(seats)),
		Log:     logrus.WithField("game_id", id.String()),
	}
	for i, s := range seats {
		p := &Player{ID: uuid.New(), Name: s.Name, Automated: s.Automated}
		g.Players[i] = p
		g.seatOf[p.ID] = i
	}
	g.Log.Infof("Game %s: Configured with %d players (seed %d).", g.ID, len(seats), seed)
	return g, nil
}

// seat maps a player ID to its engine index. Assumes lock is held by caller.
func (g *YanivGame) seat(playerID uuid.UUID) (int, error) {
	i, ok := g.seatOf[playerID]
	if !ok {
		return -1, fmt.Errorf("%w: %s", engine.ErrUnknownPlayer, playerID)
	}
	return i, nil
}

// CurrentPlayerID returns the ID of the player whose turn it is.
func (g *YanivGame) CurrentPlayerID() uuid.UUID {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Players[g.Engine.CurrentPlayer].ID
}

// IsGameOver reports whether a champion has been decided.
func (g *YanivGame) IsGameOver() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.Engine.IsGameOver()
}

// LastRound returns the most recent round summary, or nil before the first call.
func (g *YanivGame) LastRound() *RoundSummary {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.lastRound
}

// DealInitialHands deals the first round with seat 0 starting.
func (g *YanivGame) DealInitialHands() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Engine.RoundNumber > 0 {
		return fmt.Errorf("%w: hands already dealt", engine.ErrWrongPhase)
	}
	return g.startRound(0)
}

// StartNextRound deals a new round with starter to move first.
func (g *YanivGame) StartNextRound(starter uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	seat, err := g.seat(starter)
	if err != nil {
		return err
	}
	if g.Engine.Phase != engine.PhaseRoundOver {
		return fmt.Errorf("%w: round still in progress", engine.ErrWrongPhase)
	}
	return g.startRound(seat)
}

// ResetGame zeroes all scores and deals a fresh first round.
func (g *YanivGame) ResetGame(starter uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	seat, err := g.seat(starter)
	if err != nil {
		return err
	}
	if err := g.Engine.ResetGame(seat); err != nil {
		return err
	}
	g.lastRound = nil
	g.Log.Infof("Game %s: Reset, %s starts.", g.ID, starter)
	g.logAction(starter, "game_reset", nil)
	g.announceRound()
	return nil
}

// startRound assumes lock is held by caller.
func (g *YanivGame) startRound(seat int) error {
	if err := g.Engine.StartRound(seat); err != nil {
		return err
	}
	g.Log.Infof("Game %s: Round %d dealt, %s starts.", g.ID, g.Engine.RoundNumber, g.Players[g.Engine.CurrentPlayer].Name)
	g.announceRound()
	return nil
}

// announceRound fires the round start, each player's private hand, and the first turn.
// Assumes lock is held by caller.
func (g *YanivGame) announceRound() {
	g.logAction(uuid.Nil, string(EventRoundStart), map[string]interface{}{
		"round":     g.Engine.RoundNumber,
		"faceUp":    engine.FormatCards(g.Engine.Piles.Available),
		"deckCount": len(g.Engine.Piles.Deck),
	})
	g.fireEvent(GameEvent{
		Type:  EventRoundStart,
		Cards: cardStrings(g.Engine.Piles.Available),
		Payload: map[string]interface{}{
			"round": g.Engine.RoundNumber,
		},
	})
	for i, p := range g.Players {
		if !g.Engine.Players[i].Active {
			continue
		}
		g.fireEventToPlayer(p.ID, GameEvent{
			Type:  EventPrivateHand,
			User:  &EventUser{ID: p.ID},
			Cards: cardStrings(g.Engine.Players[i].Hand),
		})
	}
	g.broadcastPlayerTurn()
}

// ValidateDiscard checks a discard for the player without applying it.
func (g *YanivGame) ValidateDiscard(playerID uuid.UUID, cards []engine.Card) (engine.Combination, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	seat, err := g.seat(playerID)
	if err != nil {
		return engine.Combination{}, err
	}
	return g.Engine.ValidateDiscard(seat, cards)
}

// Discard places a legal combination from the player's hand.
func (g *YanivGame) Discard(playerID uuid.UUID, cards []engine.Card) (engine.Combination, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	seat, err := g.seat(playerID)
	if err != nil {
		return engine.Combination{}, err
	}
	combo, err := g.Engine.Discard(seat, cards)
	if err != nil {
		g.Log.WithField("player", playerID).Debugf("Game %s: Discard %s rejected: %v", g.ID, engine.FormatCards(cards), err)
		return engine.Combination{}, err
	}
	g.onDiscard(playerID, combo)
	return combo, nil
}

// onDiscard assumes lock is held by caller.
func (g *YanivGame) onDiscard(playerID uuid.UUID, combo engine.Combination) {
	g.logAction(playerID, string(EventPlayerDiscard), map[string]interface{}{
		"cards": engine.FormatCards(combo.Cards),
		"shape": combo.Shape.String(),
		"value": combo.Value,
	})
	g.fireEvent(GameEvent{
		Type:    EventPlayerDiscard,
		User:    &EventUser{ID: playerID},
		Cards:   cardStrings(combo.Cards),
		Payload: map[string]interface{}{"shape": combo.Shape.String()},
	})
}

// ValidateDraw checks a draw request for the player without applying it.
func (g *YanivGame) ValidateDraw(playerID uuid.UUID, req engine.DrawRequest) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	seat, err := g.seat(playerID)
	if err != nil {
		return err
	}
	return g.Engine.ValidateDraw(seat, req)
}

// Draw gives the player a card from the deck or the face-up window.
func (g *YanivGame) Draw(playerID uuid.UUID, req engine.DrawRequest) (engine.DrawResult, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	seat, err := g.seat(playerID)
	if err != nil {
		return engine.DrawResult{}, err
	}
	res, err := g.Engine.Draw(seat, req)
	if err != nil {
		g.Log.WithField("player", playerID).Debugf("Game %s: Draw rejected: %v", g.ID, err)
		return engine.DrawResult{}, err
	}
	g.onDraw(playerID, res)
	return res, nil
}

// onDraw assumes lock is held by caller.
func (g *YanivGame) onDraw(playerID uuid.UUID, res engine.DrawResult) {
	if res.FromDeck {
		g.logAction(playerID, string(EventPlayerDrawDeck), map[string]interface{}{
			"card":      res.Card.String(),
			"slapdown":  res.SlapdownEligible,
			"deckCount": len(g.Engine.Piles.Deck),
		})
		g.fireEvent(GameEvent{Type: EventPlayerDrawDeck, User: &EventUser{ID: playerID}})
		g.fireEventToPlayer(playerID, GameEvent{
			Type:    EventPrivateDrawDeck,
			User:    &EventUser{ID: playerID},
			Cards:   []string{res.Card.String()},
			Payload: map[string]interface{}{"slapdownEligible": res.SlapdownEligible},
		})
		return
	}
	g.logAction(playerID, string(EventPlayerDrawDiscard), map[string]interface{}{"card": res.Card.String()})
	g.fireEvent(GameEvent{
		Type:  EventPlayerDrawDiscard,
		User:  &EventUser{ID: playerID},
		Cards: []string{res.Card.String()},
	})
}

// Slapdown puts the player's eligible deck card onto the discard pile.
func (g *YanivGame) Slapdown(playerID uuid.UUID) (engine.Card, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	seat, err := g.seat(playerID)
	if err != nil {
		return engine.EmptyCard, err
	}
	c, err := g.Engine.Slapdown(seat)
	if err != nil {
		return engine.EmptyCard, err
	}
	g.onSlapdown(playerID, c)
	return c, nil
}

// onSlapdown assumes lock is held by caller.
func (g *YanivGame) onSlapdown(playerID uuid.UUID, c engine.Card) {
	g.logAction(playerID, string(EventPlayerSlapdown), map[string]interface{}{"card": c.String()})
	g.fireEvent(GameEvent{Type: EventPlayerSlapdown, User: &EventUser{ID: playerID}, Cards: []string{c.String()}})
}

// EndTurn passes play to the next active player.
func (g *YanivGame) EndTurn(playerID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	seat, err := g.seat(playerID)
	if err != nil {
		return err
	}
	if err := g.Engine.EndTurn(seat); err != nil {
		return err
	}
	g.broadcastPlayerTurn()
	return nil
}

// CallRoundEnd ends the round on the player's Yaniv call and scores it.
func (g *YanivGame) CallRoundEnd(playerID uuid.UUID) (engine.RoundResult, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	seat, err := g.seat(playerID)
	if err != nil {
		return engine.RoundResult{}, err
	}
	res, err := g.Engine.CallRound(seat)
	if err != nil {
		g.Log.WithField("player", playerID).Debugf("Game %s: Call rejected: %v", g.ID, err)
		return engine.RoundResult{}, err
	}
	g.onRoundEnd(res)
	return res, nil
}

// ProposeAutomatedMove returns what the automated player would do for playerID now.
func (g *YanivGame) ProposeAutomatedMove(playerID uuid.UUID) (agent.Decision, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	seat, err := g.seat(playerID)
	if err != nil {
		return agent.Decision{}, err
	}
	if g.Engine.Phase != engine.PhaseDiscard {
		return agent.Decision{}, fmt.Errorf("%w: proposals are made at the start of a turn", engine.ErrWrongPhase)
	}
	if seat != g.Engine.CurrentPlayer {
		return agent.Decision{}, fmt.Errorf("%w: %s", engine.ErrNotYourTurn, playerID)
	}
	return g.Policy.Decide(agent.ViewFor(g.Engine, seat)), nil
}

// PlayAutomatedTurn decides and applies a whole turn for playerID.
func (g *YanivGame) PlayAutomatedTurn(playerID uuid.UUID) (agent.TurnOutcome, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	seat, err := g.seat(playerID)
	if err != nil {
		return agent.TurnOutcome{}, err
	}
	if seat != g.Engine.CurrentPlayer {
		return agent.TurnOutcome{}, fmt.Errorf("%w: %s", engine.ErrNotYourTurn, playerID)
	}
	if g.Engine.Phase != engine.PhaseDiscard {
		return agent.TurnOutcome{}, fmt.Errorf("%w: automated turns start before the discard", engine.ErrWrongPhase)
	}

	d := g.Policy.Decide(agent.ViewFor(g.Engine, seat))
	out, err := agent.Apply(g.Engine, seat, d)
	if err != nil {
		g.Log.WithField("player", playerID).Errorf("Game %s: Automated turn failed: %v", g.ID, err)
		return out, err
	}

	if out.Round != nil {
		g.onRoundEnd(*out.Round)
		return out, nil
	}
	g.onDiscard(playerID, out.Combo)
	g.onDraw(playerID, out.Draw)
	if out.Slapped != engine.EmptyCard {
		g.onSlapdown(playerID, out.Slapped)
	}
	g.broadcastPlayerTurn()
	return out, nil
}

// PlayOut plays automated turns for every seat until the game ends, dealing
// each new round to the chosen starter. It returns the champion's ID.
// Every seat is played by the policy, automated or not.
func (g *YanivGame) PlayOut(ctx context.Context, maxTurns int) (uuid.UUID, error) {
	for turn := 0; turn < maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return uuid.Nil, err
		}
		cur, over, err := g.prepareTurn()
		if err != nil {
			return uuid.Nil, err
		}
		if over {
			return g.LastRound().Champion, nil
		}
		if _, err := g.PlayAutomatedTurn(cur); err != nil {
			return uuid.Nil, err
		}
	}
	if g.IsGameOver() {
		return g.LastRound().Champion, nil
	}
	return uuid.Nil, errTurnLimit
}

var errTurnLimit = errors.New("turn limit reached before a champion")

// IsTurnLimit reports whether err came from PlayOut running out of turns.
func IsTurnLimit(err error) bool { return errors.Is(err, errTurnLimit) }

// prepareTurn deals the next round when one is due and returns who moves next.
func (g *YanivGame) prepareTurn() (uuid.UUID, bool, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	switch g.Engine.Phase {
	case engine.PhaseGameOver:
		return uuid.Nil, true, nil
	case engine.PhaseRoundOver:
		starter := 0
		if g.lastRound != nil {
			starter = g.seatOf[g.lastRound.NextStarter]
		}
		if err := g.startRound(starter); err != nil {
			return uuid.Nil, false, err
		}
	}
	return g.Players[g.Engine.CurrentPlayer].ID, false, nil
}

// onRoundEnd converts the result, fires events and callbacks. Assumes lock is held by caller.
func (g *YanivGame) onRoundEnd(res engine.RoundResult) {
	sum := g.summarize(res)
	g.lastRound = &sum
	caller := sum.Caller

	g.Log.WithFields(logrus.Fields{
		"player":     caller,
		"value":      res.CallerValue,
		"challenged": res.Challenged,
	}).Infof("Game %s: Round %d called by %s.", g.ID, sum.Round, g.Players[res.Caller].Name)
	g.logAction(caller, string(EventPlayerCall), map[string]interface{}{"value": res.CallerValue})
	g.fireEvent(GameEvent{
		Type:    EventPlayerCall,
		User:    &EventUser{ID: caller},
		Cards:   cardStrings(g.Engine.Players[res.Caller].Hand),
		Payload: map[string]interface{}{"value": res.CallerValue},
	})

	payload := map[string]interface{}{
		"round":       sum.Round,
		"challenged":  sum.Challenged,
		"winners":     idStrings(sum.Winners),
		"deltas":      idMap(sum.Deltas),
		"scores":      idMap(sum.Scores),
		"eliminated":  idStrings(sum.Eliminated),
		"nextStarter": sum.NextStarter.String(),
	}
	g.logAction(uuid.Nil, string(EventRoundEnd), payload)
	g.fireEvent(GameEvent{Type: EventRoundEnd, Payload: payload})
	for _, id := range sum.Eliminated {
		g.Log.WithField("player", id).Infof("Game %s: Player %s eliminated with %d points.", g.ID, id, sum.Scores[id])
	}
	if g.OnRoundEnd != nil {
		g.OnRoundEnd(g.ID, sum)
	}

	if !sum.GameOver {
		return
	}
	g.logAction(uuid.Nil, string(EventGameEnd), map[string]interface{}{
		"champion": sum.Champion,
		"scores":   sum.Scores,
		"rounds":   sum.Round,
	})
	g.fireEvent(GameEvent{
		Type: EventGameEnd,
		Payload: map[string]interface{}{
			"winner": sum.Champion.String(),
			"scores": idMap(sum.Scores),
		},
	})
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, sum.Champion, sum.Scores)
	}
	g.Log.Infof("Game %s: Ended after %d rounds. Champion: %s. Final Scores: %v", g.ID, sum.Round, sum.Champion, sum.Scores)
}

// summarize assumes lock is held by caller.
func (g *YanivGame) summarize(res engine.RoundResult) RoundSummary {
	sum := RoundSummary{
		Round:       g.Engine.RoundNumber,
		Caller:      g.Players[res.Caller].ID,
		CallerValue: res.CallerValue,
		Challenged:  res.Challenged,
		Deltas:      make(map[uuid.UUID]int, len(g.Players)),
		Scores:      make(map[uuid.UUID]int, len(g.Players)),
		NextStarter: g.Players[res.NextStarter].ID,
		GameOver:    res.GameOver,
	}
	for _, w := range res.Winners {
		sum.Winners = append(sum.Winners, g.Players[w].ID)
	}
	for _, e := range res.Eliminated {
		sum.Eliminated = append(sum.Eliminated, g.Players[e].ID)
	}
	for i, p := range g.Players {
		sum.Deltas[p.ID] = res.Deltas[i]
		sum.Scores[p.ID] = g.Engine.Players[i].Score
	}
	if res.GameOver && res.Champion >= 0 {
		sum.Champion = g.Players[res.Champion].ID
	}
	return sum
}

// broadcastPlayerTurn assumes lock is held by caller.
func (g *YanivGame) broadcastPlayerTurn() {
	if g.Engine.Phase != engine.PhaseDiscard {
		return
	}
	cur := g.Players[g.Engine.CurrentPlayer]
	g.fireEvent(GameEvent{
		Type:    EventGamePlayerTurn,
		User:    &EventUser{ID: cur.ID},
		Payload: map[string]interface{}{"turn": g.Engine.TurnNumber, "canCall": g.Engine.CanCall()},
	})
}

// fireEvent sends an event to all players via the BroadcastFn callback.
func (g *YanivGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
		return
	}
	g.Log.Tracef("Game %s: BroadcastFn is nil, dropping event type %s.", g.ID, ev.Type)
}

// fireEventToPlayer sends an event to a single player via BroadcastToPlayerFn.
func (g *YanivGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
		return
	}
	g.Log.Tracef("Game %s: BroadcastToPlayerFn is nil, dropping private event type %s for %s.", g.ID, ev.Type, playerID)
}

// logAction records a sequenced action entry. Assumes lock is held by caller.
func (g *YanivGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	g.Log.WithFields(logrus.Fields{
		"action_index": g.actionIndex,
		"actor":        actorID,
		"action":       actionType,
		"payload":      payload,
	}).Debug("game action")
}

func cardStrings(cards []engine.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func idMap(m map[uuid.UUID]int) map[string]int {
	out := make(map[string]int, len(m))
	for id, v := range m {
		out[id.String()] = v
	}
	return out
}
