package local

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"battleship-tui/board"
	"battleship-tui/engine"
	"battleship-tui/game"
	"battleship-tui/types"
)

type recordView struct {
	mu       sync.Mutex
	messages []string
}

func (v *recordView) Show(m string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, m)
}

func (v *recordView) Prompt(string) (string, error) { return "", errors.New("no prompt") }

func (v *recordView) contains(m string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, got := range v.messages {
		if got == m {
			return true
		}
	}
	return false
}

func newEngine(t *testing.T, view engine.View) *LocalEngine {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.PlayerName = "tester"
	cfg.Seed = 11
	cfg.MoveTimeout = 5 * time.Second
	e := NewLocalEngine(cfg, view)
	t.Cleanup(e.Close)
	return e
}

func TestPlayFullGame(t *testing.T) {
	view := &recordView{}
	e := newEngine(t, view)

	ended := make(chan string, 1)
	e.OnGameEnd(func(outcome string) { ended <- outcome })
	var moves int
	var mu sync.Mutex
	e.OnMove(func(ev types.MoveEvent, state *types.GameState) {
		mu.Lock()
		moves++
		mu.Unlock()
	})

	require.NoError(t, e.Connect())
	state := e.GetState()
	require.Equal(t, "playing", state.Phase)
	require.Equal(t, ComputerName, state.EnemyName)

	ships := 0
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			if state.Own[y][x].IsShip() {
				ships++
			}
		}
	}
	require.Equal(t, board.FleetCells, ships)

	var outcome string
fire:
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			for !e.IsMyTurn() {
				select {
				case outcome = <-ended:
					break fire
				case <-time.After(time.Millisecond):
				}
			}
			require.NoError(t, e.PlayMove(x, y))
		}
	}
	if outcome == "" {
		select {
		case outcome = <-ended:
		case <-time.After(5 * time.Second):
			t.Fatal("game did not end")
		}
	}

	final := e.GetState()
	require.True(t, final.Finished())
	require.Equal(t, outcome, final.Outcome)
	require.NotEqual(t, types.NoResult, final.Result)
	require.False(t, final.MyTurn)
	require.ErrorIs(t, e.PlayMove(0, 0), engine.ErrGameOver)
	require.True(t, view.contains(outcome))

	mu.Lock()
	require.Equal(t, final.MoveNumber, moves)
	mu.Unlock()
}

func TestPlayMoveRejections(t *testing.T) {
	view := &recordView{}
	e := newEngine(t, view)
	require.ErrorIs(t, e.PlayMove(0, 0), engine.ErrGameOver, "not connected yet")

	require.NoError(t, e.Connect())
	require.Eventually(t, e.IsMyTurn, 2*time.Second, time.Millisecond)

	require.ErrorIs(t, e.PlayMove(board.Width, 0), game.ErrInvalidMove)
	require.True(t, view.contains(game.MsgInvalidMove))

	require.ErrorIs(t, engine.PlayInput(e, view, "zz"), board.ErrInvalidCoord)
	require.True(t, view.contains(game.MsgBadInput))
	require.ErrorIs(t, engine.PlayInput(e, view, "q"), game.ErrQuit)
}
