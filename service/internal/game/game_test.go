// internal/game/game_test.go
package game

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/hanabi/engine"
	"github.com/jason-s-yu/hanabi/engine/player"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBroadcaster captures game events for testing assertions.
type mockBroadcaster struct {
	mu           sync.Mutex
	allEvents    []GameEvent
	playerEvents map[uuid.UUID][]GameEvent
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{playerEvents: make(map[uuid.UUID][]GameEvent)}
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) broadcastToPlayerFn(playerID uuid.UUID, ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents[playerID] = append(mb.playerEvents[playerID], ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = nil
	mb.playerEvents = make(map[uuid.UUID][]GameEvent)
}

func (mb *mockBroadcaster) eventsOfType(eventType GameEventType) []GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	var out []GameEvent
	for _, ev := range mb.allEvents {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func (mb *mockBroadcaster) getLastPlayerEvent(playerID uuid.UUID) *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	events := mb.playerEvents[playerID]
	if len(events) == 0 {
		return nil
	}
	return &events[len(events)-1]
}

type informCall struct {
	action engine.Action
	actor  uint8
	hints  uint8 // tokens on the table when informed
}

// scripted plays a fixed list of moves.
type scripted struct {
	name     string
	moves    []engine.Action
	err      error
	informed []informCall
	resets   int
}

func (s *scripted) Name() string { return s.name }
func (s *scripted) Reset()       { s.resets++ }

func (s *scripted) Inform(a engine.Action, actor uint8, g *engine.GameState) {
	s.informed = append(s.informed, informCall{a, actor, g.HintTokens})
}

func (s *scripted) GetAction(engine.Observation) (engine.Action, error) {
	if s.err != nil {
		return engine.Action{}, s.err
	}
	if len(s.moves) == 0 {
		return engine.Action{}, player.ErrNoAction
	}
	a := s.moves[0]
	s.moves = s.moves[1:]
	return a, nil
}

func c(col engine.Color, rank uint8) engine.Card { return engine.NewCard(col, rank) }

// fixedDeck deals seat 0 R1 B3 G4 Y2 W3 and seat 1 B3 G4 Y2 W3 W4, leaving
// Y1 B1 G1 to draw.
var fixedDeck = []engine.Card{
	c(engine.ColorRed, 1), c(engine.ColorBlue, 3), c(engine.ColorGreen, 4), c(engine.ColorYellow, 2), c(engine.ColorWhite, 3),
	c(engine.ColorBlue, 3), c(engine.ColorGreen, 4), c(engine.ColorYellow, 2), c(engine.ColorWhite, 3), c(engine.ColorWhite, 4),
	c(engine.ColorYellow, 1), c(engine.ColorBlue, 1), c(engine.ColorGreen, 1),
}

// setupScriptedGame seats two scripted players and starts on fixedDeck.
func setupScriptedGame(t *testing.T, p0, p1 *scripted) (*HanabiGame, *mockBroadcaster, *bytes.Buffer) {
	t.Helper()
	g := NewHanabiGame(engine.DefaultRules(), nil)
	mb := newMockBroadcaster()
	g.BroadcastFn = mb.broadcastFn
	g.BroadcastToPlayerFn = mb.broadcastToPlayerFn
	moveLog := &bytes.Buffer{}
	g.MoveLog = moveLog
	g.LogFormat = FormatMoves

	_, err := g.AddPlayer(p0)
	require.NoError(t, err)
	_, err = g.AddPlayer(p1)
	require.NoError(t, err)
	require.NoError(t, g.StartWithDeck(fixedDeck))
	return g, mb, moveLog
}

// assertTrackerInSync checks every tracked hand ID names the engine's card.
func assertTrackerInSync(t *testing.T, g *HanabiGame) {
	t.Helper()
	for p := range g.Seats {
		ps := &g.Engine.Players[p]
		tr := &g.CardTracker.Players[p]
		require.Equal(t, ps.HandLen, tr.HandLen, "seat %d", p)
		for i := uint8(0); i < ps.HandLen; i++ {
			assert.Equal(t, ps.Hand[i], g.CardTracker.Registry[tr.HandUUIDs[i]], "seat %d slot %d", p, i)
		}
	}
	assert.Equal(t, g.Engine.DeckLen, g.CardTracker.DeckLen)
	assert.Equal(t, g.Engine.DiscardLen, g.CardTracker.DiscardLen)
	assert.Equal(t, g.Engine.PlayedLen, g.CardTracker.PlayedLen)
}

func TestSeating(t *testing.T) {
	g := NewHanabiGame(engine.DefaultRules(), nil)
	assert.ErrorIs(t, g.Start(1), ErrTooFewPlayers)
	assert.ErrorIs(t, g.Step(), ErrNotStarted)

	for i := 0; i < engine.MaxPlayers; i++ {
		id, err := g.AddPlayer(&scripted{name: player.SeatNames[i]})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)
	}
	_, err := g.AddPlayer(&scripted{name: "extra"})
	assert.ErrorIs(t, err, ErrTableFull)

	require.NoError(t, g.Start(7))
	assert.Equal(t, uint8(5), g.Engine.NumActivePlayers())
	assert.Equal(t, uint8(4), g.Engine.HandLen(0), "four cards each at five players")
	assert.ErrorIs(t, g.Start(7), ErrAlreadyStarted)
	_, err = g.AddPlayer(&scripted{name: "late"})
	assert.ErrorIs(t, err, ErrAlreadyStarted)
	for _, s := range g.Seats {
		assert.Equal(t, 1, s.Player.(*scripted).resets)
	}
	assertTrackerInSync(t, g)
}

func TestStartAnnouncesAndHidesOwnHand(t *testing.T) {
	g, mb, _ := setupScriptedGame(t, &scripted{name: "a"}, &scripted{name: "b"})

	require.Len(t, mb.eventsOfType(EventGameStart), 1)
	turns := mb.eventsOfType(EventGamePlayerTurn)
	require.Len(t, turns, 1)
	assert.Equal(t, g.Seats[0].ID, turns[0].User.ID)

	sync0 := mb.getLastPlayerEvent(g.Seats[0].ID)
	require.NotNil(t, sync0)
	require.Equal(t, EventPrivateSyncState, sync0.Type)
	st := sync0.State
	assert.Equal(t, g.Seats[0].ID, st.CurrentPlayerID)
	assert.Equal(t, 8, st.HintTokens)
	assert.Equal(t, 3, st.DeckSize)
	assert.Equal(t, g.Engine.StateHash(), st.StateHash)

	for _, card := range st.Players[0].Hand {
		assert.False(t, card.Known)
		assert.Empty(t, card.Color)
		assert.Len(t, card.Possible, 25)
	}
	other := st.Players[1].Hand
	require.Len(t, other, 5)
	assert.True(t, other[0].Known)
	assert.Equal(t, "blue", other[0].Color)
	assert.Equal(t, 3, other[0].Rank)

	// Seat 1 sees the mirror image.
	st1 := mb.getLastPlayerEvent(g.Seats[1].ID).State
	assert.True(t, st1.Players[0].Hand[0].Known)
	assert.Equal(t, "red", st1.Players[0].Hand[0].Color)
	assert.False(t, st1.Players[1].Hand[0].Known)
}

func TestScriptedGame(t *testing.T) {
	p0 := &scripted{name: "a", moves: []engine.Action{
		engine.HintRank(1, 4),
		engine.PlayCard(0), // red 1
		engine.HintColor(1, engine.ColorYellow),
	}}
	p1 := &scripted{name: "b", moves: []engine.Action{
		engine.PlayCard(0),    // blue 3 misplays
		engine.DiscardCard(0), // green 4
		engine.DiscardCard(0),
	}}
	var ended []Result
	g, mb, moveLog := setupScriptedGame(t, p0, p1)
	g.OnGameEnd = func(id uuid.UUID, res Result) {
		assert.Equal(t, g.ID, id)
		ended = append(ended, res)
	}
	mb.clear()

	// Hint: fours sit in slots 1 and 4.
	require.NoError(t, g.Step())
	hints := mb.eventsOfType(EventPlayerHint)
	require.Len(t, hints, 1)
	assert.Equal(t, []int{1, 4}, hints[0].Payload["slots"])
	assert.Equal(t, 4, hints[0].Payload["rank"])
	assert.Equal(t, g.Seats[1].ID, hints[0].Target.ID)
	assert.Equal(t, 7, hints[0].Payload["hintTokens"])

	// Everyone was told before the token was spent.
	for _, p := range []*scripted{p0, p1} {
		require.Len(t, p.informed, 1)
		assert.Equal(t, informCall{engine.HintRank(1, 4), 0, 8}, p.informed[0])
	}

	// Misplay costs a life and reveals the card.
	require.NoError(t, g.Step())
	miss := mb.eventsOfType(EventPlayerMisplay)
	require.Len(t, miss, 1)
	assert.Equal(t, "blue", miss[0].Card.Color)
	assert.Equal(t, 2, miss[0].Payload["lives"])
	draws := mb.eventsOfType(EventPlayerDraw)
	require.Len(t, draws, 1)
	assert.Empty(t, draws[0].Card.Color, "drawn cards stay hidden")
	assertTrackerInSync(t, g)

	require.NoError(t, g.Step())
	plays := mb.eventsOfType(EventPlayerPlay)
	require.Len(t, plays, 1)
	assert.Equal(t, "red", plays[0].Card.Color)
	assert.Equal(t, 1, plays[0].Payload["board"].(map[string]int)["red"])

	require.NoError(t, g.Step())
	discards := mb.eventsOfType(EventPlayerDiscard)
	require.Len(t, discards, 1)
	assert.Equal(t, "green", discards[0].Card.Color)
	assert.Equal(t, 8, discards[0].Payload["hintTokens"])
	assert.Equal(t, uint8(0), g.Engine.DeckLen)
	assertTrackerInSync(t, g)

	// One more turn each once the deck is gone.
	require.NoError(t, g.Step())
	assert.False(t, g.Done())
	assert.Equal(t, []int{0, 3}, mb.eventsOfType(EventPlayerHint)[1].Payload["slots"])
	require.NoError(t, g.Step())
	require.True(t, g.Done())
	assertTrackerInSync(t, g)

	assert.ErrorIs(t, g.Step(), ErrGameEnded)
	require.Len(t, mb.eventsOfType(EventGameEnd), 1)
	require.Len(t, ended, 1)
	assert.Equal(t, Result{GameID: g.ID, Score: 1, MaxScore: g.Engine.MaxScore(), Board: g.Engine.Board, Lives: 2, HintTokens: 8, Turns: 6}, ended[0])

	lines := strings.Split(strings.TrimSpace(moveLog.String()), "\n")
	assert.Equal(t, "NEW: starting a new game of 2 players with the following deck:", lines[0])
	assert.Equal(t, engine.DeckLine(fixedDeck), lines[1])
	assert.Equal(t, "MOVE: 0 1 None 1 None 4", lines[2])
	assert.Equal(t, "Turn 1: Player 0 hints player 1 about all their 4", lines[3])
	assert.Contains(t, moveLog.String(), "b plays blue 3\nand fails.")
	assert.Contains(t, moveLog.String(), "a plays red 1\nsuccessfully! Board is now")
	assert.Equal(t, []string{"Game done, hits left: 2", "Points: 1", "Score 1"}, lines[len(lines)-3:])
}

func TestNarrativeFormatOmitsMoves(t *testing.T) {
	g := NewHanabiGame(engine.DefaultRules(), nil)
	buf := &bytes.Buffer{}
	g.MoveLog = buf
	_, _ = g.AddPlayer(&scripted{name: "a", moves: []engine.Action{engine.DiscardCard(2)}})
	_, _ = g.AddPlayer(&scripted{name: "b"})
	require.NoError(t, g.StartWithDeck(fixedDeck))
	require.NoError(t, g.Step())

	out := buf.String()
	assert.NotContains(t, out, "NEW:")
	assert.NotContains(t, out, "MOVE:")
	assert.True(t, strings.HasPrefix(out, "Turn 1: Player 0 discards their 2\na discards green 4\n"), out)
}

func TestPlayerFailureMakesGameUnusable(t *testing.T) {
	logger, hook := test.NewNullLogger()
	boom := errors.New("boom")

	g := NewHanabiGame(engine.DefaultRules(), logger)
	_, _ = g.AddPlayer(&scripted{name: "a", err: boom})
	_, _ = g.AddPlayer(&scripted{name: "b"})
	require.NoError(t, g.StartWithDeck(fixedDeck))

	res, err := g.Run(context.Background())
	assert.ErrorIs(t, err, ErrPlayerCall)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, res.Turns)
	assert.True(t, g.Done())
	assert.ErrorIs(t, g.Err(), boom)

	err = g.Step()
	assert.ErrorIs(t, err, ErrGameUnusable)
	assert.ErrorIs(t, err, boom)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "a", entry.Data["player"])
}

func TestIllegalActionIsPlayerFailure(t *testing.T) {
	g := NewHanabiGame(engine.DefaultRules(), nil)
	_, _ = g.AddPlayer(&scripted{name: "a", moves: []engine.Action{engine.PlayCard(7)}})
	_, _ = g.AddPlayer(&scripted{name: "b"})
	require.NoError(t, g.StartWithDeck(fixedDeck))

	err := g.Step()
	assert.ErrorIs(t, err, ErrPlayerCall)
	assert.ErrorIs(t, err, engine.ErrActionOutOfRange)
	assert.ErrorIs(t, g.Step(), ErrGameUnusable)
}

func TestRunCancelled(t *testing.T) {
	g := NewHanabiGame(engine.DefaultRules(), nil)
	_, _ = g.AddPlayer(&scripted{name: "a"})
	_, _ = g.AddPlayer(&scripted{name: "b"})
	require.NoError(t, g.Start(3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, g.Done())
}

func TestRunFullGames(t *testing.T) {
	pairs := [][2]string{
		{"intentional", "intentional"},
		{"intentional", "outer"},
		{"random", "inner"},
		{"full", "self"},
	}
	for _, pair := range pairs {
		t.Run(pair[0]+"+"+pair[1], func(t *testing.T) {
			g := NewHanabiGame(engine.DefaultRules(), nil)
			mb := newMockBroadcaster()
			g.BroadcastFn = mb.broadcastFn
			for seat, kind := range pair {
				p, err := player.New(kind, player.Config{
					Name: player.SeatNames[seat],
					Seat: uint8(seat),
					RNG:  rand.New(rand.NewPCG(uint64(seat)+1, 0)),
				})
				require.NoError(t, err)
				_, err = g.AddPlayer(p)
				require.NoError(t, err)
			}
			require.NoError(t, g.Start(42))

			res, err := g.Run(context.Background())
			require.NoError(t, err)
			assert.True(t, g.Engine.IsTerminal())
			assert.GreaterOrEqual(t, res.Score, 0)
			assert.LessOrEqual(t, res.Score, 25)
			assert.Len(t, mb.eventsOfType(EventGameEnd), 1)
			assertTrackerInSync(t, g)
		})
	}
}
