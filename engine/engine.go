// Package engine defines the interface between the terminal UI and a
// running game, local or remote.
package engine

import (
	"errors"
	"time"

	"battleship-tui/game"
	"battleship-tui/types"
)

// ErrGameOver is returned by PlayMove once the game has ended.
var ErrGameOver = errors.New("game is over")

// View is the UI capability engines report through.
type View = game.View

// GameEngine defines the interface for playing a game of Battleship.
type GameEngine interface {
	// Connect starts the game: deals the fleets locally or joins a server.
	Connect() error

	// GetState returns a snapshot of the current game.
	GetState() *types.GameState

	// PlayMove fires at the given coordinates.
	// Returns an error if it is not the player's turn or the cell was tried.
	PlayMove(x, y int) error

	// IsMyTurn returns true if the local player is expected to fire.
	IsMyTurn() bool

	// OnMove registers a callback for every resolved shot, by either side.
	// state is passed directly to avoid lock contention.
	OnMove(func(ev types.MoveEvent, state *types.GameState))

	// OnGameEnd registers a callback for when the game ends.
	OnGameEnd(func(outcome string))

	// Close ends the game and releases its resources.
	Close()
}

// Mode selects the kind of opponent.
type Mode int

const (
	SinglePlayer Mode = iota
	Multiplayer
)

func (m Mode) String() string {
	if m == Multiplayer {
		return "multiplayer"
	}
	return "single player"
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	Mode          Mode
	PlayerName    string
	Host          string // host name, or a ws:// URL for the websocket endpoint
	Port          int
	MoveTimeout   time.Duration
	MatchDuration time.Duration
	Seed          int64 // 0 picks a time based seed
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Mode:          SinglePlayer,
		PlayerName:    "Player",
		Host:          "localhost",
		Port:          8888,
		MoveTimeout:   game.DefaultMoveTimeout,
		MatchDuration: game.DefaultMatchDuration,
	}
}

// OutcomeText describes a result for the status line.
func OutcomeText(r types.Result, reason game.Reason) string {
	var s string
	switch r {
	case types.Win:
		s = "You win!"
	case types.Loss:
		s = "You lose."
	case types.Tie:
		s = "It's a tie."
	default:
		return "Game ended"
	}
	switch reason {
	case game.FleetDestroyed:
		if r == types.Win {
			s += " Enemy fleet destroyed."
		} else {
			s += " Your fleet was destroyed."
		}
	case game.TimeUp:
		s += " Time is up."
	case game.Forfeit:
		if r == types.Win {
			s += " Your opponent left."
		} else {
			s += " You left the game."
		}
	}
	return s
}
