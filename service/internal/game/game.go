// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/engine/player"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotStarted     = errors.New("game has not started")
	ErrAlreadyStarted = errors.New("game already started")
	ErrGameEnded      = errors.New("game is over")
	ErrTableFull      = errors.New("table is full")
	ErrTooFewPlayers  = errors.New("at least two players are needed")
	ErrPlayerCall     = errors.New("player call failed")
	ErrGameUnusable   = errors.New("game is unusable after a failed player call")
)

// OnGameEndFunc is called once when a game finishes normally.
type OnGameEndFunc func(gameID uuid.UUID, result Result)

// GameEventType names an event handed to the broadcast callbacks.
type GameEventType string

const (
	EventGameStart        GameEventType = "game_start"         // Public: seats and deck size.
	EventGamePlayerTurn   GameEventType = "game_player_turn"   // Public: whose turn it is.
	EventPlayerHint       GameEventType = "player_hint"        // Public: a hint and the slots it touched.
	EventPlayerPlay       GameEventType = "player_play"        // Public: a card landed on the board.
	EventPlayerMisplay    GameEventType = "player_misplay"     // Public: a play failed and cost a life.
	EventPlayerDiscard    GameEventType = "player_discard"     // Public: a card went to the discard pile.
	EventPlayerDraw       GameEventType = "player_draw"        // Public: card ID only; the drawer never sees it.
	EventPrivateSyncState GameEventType = "private_sync_state" // Private: state from one seat's view.
	EventGameEnd          GameEventType = "game_end"           // Public: final result.
)

// EventUser identifies a seat within a GameEvent.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// EventCard identifies a card within a GameEvent, optionally with its face.
type EventCard struct {
	ID    uuid.UUID  `json:"id"`
	Color string     `json:"color,omitempty"`
	Rank  int        `json:"rank,omitempty"`
	Idx   *int       `json:"idx,omitempty"`
	User  *EventUser `json:"user,omitempty"`
}

// GameEvent is the structure handed to BroadcastFn and BroadcastToPlayerFn.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`   // Acting seat.
	Target  *EventUser             `json:"target,omitempty"` // Hinted seat.
	Card    *EventCard             `json:"card,omitempty"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *ObfGameState          `json:"state,omitempty"`
}

// Seat is one player at the table. Seat order is engine player order.
type Seat struct {
	ID     uuid.UUID
	Name   string
	Player player.Player
}

// Result summarizes a finished (or abandoned) game.
type Result struct {
	GameID     uuid.UUID    `json:"gameId"`
	Score      int          `json:"score"`
	MaxScore   int          `json:"maxScore"`
	Board      engine.Board `json:"board"`
	Lives      uint8        `json:"lives"`
	HintTokens uint8        `json:"hintTokens"`
	Turns      int          `json:"turns"`
}

// LogFormat selects what the compat move log carries.
type LogFormat int

const (
	// FormatNarrative writes the turn narration and the final tally only.
	FormatNarrative LogFormat = iota
	// FormatMoves also writes the deck header, MOVE lines and the score
	// line read by the offline log tools.
	FormatMoves
)

// HanabiGame is a single headless game between seated players.
type HanabiGame struct {
	ID    uuid.UUID
	Rules engine.Rules
	Seats []*Seat

	Engine      engine.GameState // Authoritative state.
	CardTracker CardUUIDTracker  // Card IDs mirrored alongside the engine.

	TurnID   int
	Started  bool
	GameOver bool

	Mu sync.Mutex

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc

	// MoveLog receives the compat log. Nil disables it.
	MoveLog   io.Writer
	LogFormat LogFormat

	log     logrus.FieldLogger
	failure error
}

// NewHanabiGame creates an empty table. A nil log discards everything.
func NewHanabiGame(rules engine.Rules, log logrus.FieldLogger) *HanabiGame {
	id, _ := uuid.NewRandom()
	if log == nil {
		quiet := logrus.New()
		quiet.SetOutput(io.Discard)
		log = quiet
	}
	return &HanabiGame{
		ID:    id,
		Rules: rules,
		log:   log.WithField("game", id),
	}
}

// AddPlayer seats p in the next free seat and returns its ID.
func (g *HanabiGame) AddPlayer(p player.Player) (uuid.UUID, error) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.Started {
		return uuid.Nil, ErrAlreadyStarted
	}
	if len(g.Seats) >= engine.MaxPlayers {
		return uuid.Nil, ErrTableFull
	}
	id, _ := uuid.NewRandom()
	g.Seats = append(g.Seats, &Seat{ID: id, Name: p.Name(), Player: p})
	g.log.WithFields(logrus.Fields{"seat": len(g.Seats) - 1, "player": p.Name()}).Debug("player seated")
	return id, nil
}

// Start shuffles a fresh deck from seed, deals and announces the first turn.
func (g *HanabiGame) Start(seed uint64) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.checkStartable(); err != nil {
		return err
	}
	g.Engine = engine.NewGame(seed, g.engineRules())
	g.Engine.Deal()
	g.begin()
	return nil
}

// StartWithDeck deals from deck without shuffling; deck[0] is drawn first.
func (g *HanabiGame) StartWithDeck(deck []engine.Card) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if err := g.checkStartable(); err != nil {
		return err
	}
	g.Engine = engine.NewGameWithDeck(deck, g.engineRules())
	g.Engine.DealOrdered()
	g.begin()
	return nil
}

func (g *HanabiGame) checkStartable() error {
	if g.Started {
		return ErrAlreadyStarted
	}
	if len(g.Seats) < 2 {
		return ErrTooFewPlayers
	}
	return nil
}

// engineRules fixes the player count to the seats taken.
func (g *HanabiGame) engineRules() engine.Rules {
	r := g.Rules
	r.NumPlayers = uint8(len(g.Seats))
	return r
}

// begin runs the post-deal setup. Assumes the lock is held.
func (g *HanabiGame) begin() {
	g.Started = true
	g.initCardTracker()
	for _, s := range g.Seats {
		s.Player.Reset()
	}

	if g.LogFormat == FormatMoves {
		g.writeLog(engine.NewGameLine(len(g.Seats)))
		g.writeLog(engine.DeckLine(g.dealtOrder()))
	}

	names := make([]string, len(g.Seats))
	for i, s := range g.Seats {
		names[i] = s.Name
	}
	g.log.WithFields(logrus.Fields{"seats": names, "deck": g.Engine.DeckLen}).Info("game started")
	g.fireEvent(GameEvent{
		Type: EventGameStart,
		Payload: map[string]interface{}{
			"seats":    names,
			"deckSize": int(g.Engine.DeckLen),
		},
	})
	g.broadcastSyncStateToAll()
	g.broadcastPlayerTurn()
}

// dealtOrder rebuilds the full draw order: hands were dealt seat by seat,
// slot by slot, and the rest of the deck follows.
func (g *HanabiGame) dealtOrder() []engine.Card {
	var out []engine.Card
	for p := range g.Seats {
		out = append(out, g.Engine.Players[p].Cards()...)
	}
	return append(out, g.Engine.DeckCards()...)
}

// Step plays a single turn for the seat to move.
func (g *HanabiGame) Step() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.step()
}

func (g *HanabiGame) step() error {
	if g.failure != nil {
		return fmt.Errorf("%w: %w", ErrGameUnusable, g.failure)
	}
	if !g.Started {
		return ErrNotStarted
	}
	if g.GameOver {
		return ErrGameEnded
	}

	actor := g.Engine.CurrentPlayer
	seat := g.Seats[actor]
	a, err := seat.Player.GetAction(g.Engine.Observe(actor))
	if err != nil {
		return g.fail(actor, err)
	}
	return g.applyEngineAction(actor, a)
}

// fail records a player failure. The game is never resumed afterwards.
func (g *HanabiGame) fail(actor uint8, err error) error {
	g.failure = fmt.Errorf("seat %d (%s): %w: %w", actor, g.Seats[actor].Name, ErrPlayerCall, err)
	g.log.WithError(err).WithFields(logrus.Fields{
		"seat":   actor,
		"player": g.Seats[actor].Name,
		"turn":   g.TurnID,
	}).Error("player call failed, abandoning game")
	return g.failure
}

// Run plays turns until the game ends, a player fails or ctx is done.
func (g *HanabiGame) Run(ctx context.Context) (Result, error) {
	for !g.Done() {
		if err := ctx.Err(); err != nil {
			return g.Result(), err
		}
		if err := g.Step(); err != nil {
			return g.Result(), err
		}
	}
	return g.Result(), nil
}

// Done reports whether the game has finished or been abandoned.
func (g *HanabiGame) Done() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.GameOver || g.failure != nil
}

// Err returns the recorded player failure, if any.
func (g *HanabiGame) Err() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.failure
}

// Result returns the current tally.
func (g *HanabiGame) Result() Result {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.result()
}

func (g *HanabiGame) result() Result {
	return Result{
		GameID:     g.ID,
		Score:      g.Engine.Score(),
		MaxScore:   g.Engine.MaxScore(),
		Board:      g.Engine.Board,
		Lives:      g.Engine.Lives,
		HintTokens: g.Engine.HintTokens,
		Turns:      int(g.Engine.TurnNumber),
	}
}

// EndGame closes out a finished game: final log lines, the game_end event
// and the OnGameEnd callback. Assumes the lock is held.
func (g *HanabiGame) EndGame() {
	if g.GameOver {
		return
	}
	g.GameOver = true
	res := g.result()

	g.writeLog(fmt.Sprintf("Game done, hits left: %d", res.Lives))
	g.writeLog(fmt.Sprintf("Points: %d", res.Score))
	if g.LogFormat == FormatMoves {
		g.writeLog(fmt.Sprintf("Score %d", res.Score))
	}

	g.log.WithFields(logrus.Fields{
		"score": res.Score,
		"lives": res.Lives,
		"turns": res.Turns,
	}).Info("game over")

	g.fireEvent(GameEvent{
		Type: EventGameEnd,
		Payload: map[string]interface{}{
			"score":    res.Score,
			"maxScore": res.MaxScore,
			"board":    boardPayload(res.Board),
			"lives":    int(res.Lives),
			"turns":    res.Turns,
		},
	})
	g.broadcastSyncStateToAll()

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, res)
	}
}

// fireEvent broadcasts ev to all seats if a callback is set.
func (g *HanabiGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends ev to one seat if a callback is set.
func (g *HanabiGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// writeLog appends one line to the compat log.
func (g *HanabiGame) writeLog(line string) {
	if g.MoveLog == nil {
		return
	}
	if _, err := fmt.Fprintln(g.MoveLog, line); err != nil {
		g.log.WithError(err).Warn("move log write failed")
	}
}

func (g *HanabiGame) eventUser(seat uint8) *EventUser {
	if int(seat) >= len(g.Seats) {
		return nil
	}
	return &EventUser{ID: g.Seats[seat].ID, Name: g.Seats[seat].Name}
}

func boardPayload(b engine.Board) map[string]int {
	out := make(map[string]int, engine.NumColors)
	for _, col := range engine.Colors {
		out[col.String()] = int(b[col])
	}
	return out
}
