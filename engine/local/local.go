// Package local provides a single-player engine against the computer.
package local

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"battleship-tui/board"
	"battleship-tui/engine"
	"battleship-tui/game"
	"battleship-tui/types"
)

// ComputerName is the opponent's display name.
const ComputerName = "Computer"

// LocalEngine implements the GameEngine interface with an in-process
// computer opponent.
type LocalEngine struct {
	config engine.GameConfig
	view   engine.View

	game   *game.Game
	human  *game.HumanPlayer
	cancel context.CancelFunc

	mu    sync.Mutex
	state *types.GameState

	moveCallback func(ev types.MoveEvent, state *types.GameState)
	endCallback  func(outcome string)
}

// NewLocalEngine creates a single-player engine. Messages for the player
// go to view.
func NewLocalEngine(cfg engine.GameConfig, view engine.View) *LocalEngine {
	return &LocalEngine{
		config: cfg,
		view:   view,
		state:  types.NewGameState(cfg.PlayerName),
	}
}

// Connect deals both fleets and starts the game.
func (e *LocalEngine) Connect() error {
	seed := e.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	own, err := board.Generate(rng)
	if err != nil {
		return fmt.Errorf("failed to deal player fleet: %w", err)
	}
	theirs, err := board.Generate(rng)
	if err != nil {
		return fmt.Errorf("failed to deal computer fleet: %w", err)
	}

	g := game.New(game.Options{MatchDuration: e.config.MatchDuration, Rand: rng})
	e.human = game.NewHumanPlayer(g, own, e.view, e.config.MoveTimeout)
	g.SetPlayer(game.Human, e.human)
	g.SetPlayer(game.Computer, game.NewComputerPlayer(g, theirs, rand.New(rand.NewSource(seed+1))))
	g.OnStart(e.handleStart)
	g.OnMove(e.handleResult)
	g.OnGameEnd(e.handleEnd)
	e.game = g

	e.mu.Lock()
	e.state.Phase = "playing"
	e.state.EnemyName = ComputerName
	e.state.Own = own.Grid()
	e.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	if err := g.Start(ctx); err != nil {
		cancel()
		return fmt.Errorf("failed to start game: %w", err)
	}
	return nil
}

func (e *LocalEngine) handleStart(first game.Side) {
	if first == game.Human {
		e.view.Show("Coin flip: you go first.")
	} else {
		e.view.Show("Coin flip: the computer goes first.")
	}
}

func (e *LocalEngine) handleResult(res game.Result) {
	e.mu.Lock()
	e.state.MoveNumber++
	ev := types.MoveEvent{
		Mine:       res.Side == game.Human,
		X:          res.X,
		Y:          res.Y,
		Hit:        res.Shot.Hit,
		Sunk:       res.Shot.Sunk,
		Late:       res.Late,
		MoveNumber: e.state.MoveNumber,
	}
	if !res.Late {
		if ev.Mine {
			e.state.LastShot = types.BoardPos{X: res.X, Y: res.Y}
		} else {
			e.state.LastIncoming = types.BoardPos{X: res.X, Y: res.Y}
		}
	}
	e.state.MyScore = res.Points[game.Human]
	e.state.EnemyScore = res.Points[game.Computer]
	e.state.MyTurn = res.Next == game.Human && !res.Shot.AllDestroyed
	e.refreshBoardsLocked()
	state := e.state.Copy()
	callback := e.moveCallback
	e.mu.Unlock()

	mr := engine.MoveResult{X: res.X, Y: res.Y, Hit: res.Shot.Hit, Sunk: res.Shot.Sunk, Late: res.Late, AllDestroyed: res.Shot.AllDestroyed}
	if ev.Mine {
		e.view.Show(engine.ShotMessage(mr))
	} else {
		e.view.Show(engine.IncomingMessage(mr))
	}

	// Notify callback (outside lock to prevent deadlock)
	if callback != nil {
		callback(ev, state)
	}
}

func (e *LocalEngine) handleEnd(o game.Outcome) {
	result := types.Tie
	if !o.Tie {
		result = types.Loss
		if o.Winner == game.Human {
			result = types.Win
		}
	}

	e.mu.Lock()
	e.state.Phase = "finished"
	e.state.MyTurn = false
	e.state.Result = result
	e.state.MyScore = o.Points[game.Human]
	e.state.EnemyScore = o.Points[game.Computer]
	e.state.Outcome = engine.OutcomeText(result, o.Reason)
	e.refreshBoardsLocked()
	outcome := e.state.Outcome
	callback := e.endCallback
	e.mu.Unlock()

	e.view.Show(outcome)
	if callback != nil {
		callback(outcome)
	}
}

// refreshBoardsLocked copies the human's boards into the state.
// Must be called while holding the lock.
func (e *LocalEngine) refreshBoardsLocked() {
	e.state.Own, e.state.Target = e.human.Boards()
	e.state.ShotsFired, e.state.ShotsHit = e.human.Accuracy()
}

// GetState returns a snapshot of the game.
func (e *LocalEngine) GetState() *types.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.human != nil {
		e.state.MyTurn = e.human.Waiting()
	}
	return e.state.Copy()
}

// PlayMove fires at (x, y).
func (e *LocalEngine) PlayMove(x, y int) error {
	if e.game == nil || e.game.State() == game.Ended {
		return engine.ErrGameOver
	}
	err := e.human.Submit(x, y)
	switch err {
	case game.ErrNotYourTurn:
		e.view.Show(game.MsgNotYourTurn)
	case game.ErrInvalidMove:
		e.view.Show(game.MsgInvalidMove)
	case game.ErrGameOver:
		return engine.ErrGameOver
	}
	return err
}

// IsMyTurn returns true while the game waits for the player's shot.
func (e *LocalEngine) IsMyTurn() bool {
	return e.human != nil && e.human.Waiting()
}

// OnMove registers a callback for every resolved shot.
func (e *LocalEngine) OnMove(callback func(ev types.MoveEvent, state *types.GameState)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moveCallback = callback
}

// OnGameEnd registers a callback for when the game ends.
func (e *LocalEngine) OnGameEnd(callback func(outcome string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endCallback = callback
}

// Close stops the game.
func (e *LocalEngine) Close() {
	if e.cancel != nil {
		e.cancel()
	}
	if e.human != nil {
		e.human.Stop()
	}
}
