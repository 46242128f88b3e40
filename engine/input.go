package engine

import (
	"strings"

	"battleship-tui/board"
	"battleship-tui/game"
)

// PlayInput handles a line typed by the player. "q" returns game.ErrQuit;
// anything else must be a coordinate such as "a,2".
func PlayInput(e GameEngine, view View, input string) error {
	if strings.EqualFold(strings.TrimSpace(input), "q") {
		return game.ErrQuit
	}
	x, y, err := board.ParseCoord(input)
	if err != nil {
		view.Show(game.MsgBadInput)
		return err
	}
	return e.PlayMove(x, y)
}

// ShotMessage describes the local player's own shot.
func ShotMessage(ev MoveResult) string {
	switch {
	case ev.Late:
		return game.MsgMissedMove
	case ev.AllDestroyed:
		return "You sunk the last enemy ship!"
	case ev.Sunk:
		return "You sunk enemies ship! Shoot again!"
	case ev.Hit:
		return "Hit! Shoot again!"
	}
	return "Miss."
}

// IncomingMessage describes the opponent's shot.
func IncomingMessage(ev MoveResult) string {
	switch {
	case ev.Late:
		return "Enemy missed their move."
	case ev.Sunk:
		return "Enemy sunk your ship at " + board.FormatCoord(ev.X, ev.Y) + "."
	case ev.Hit:
		return "Enemy hit you at " + board.FormatCoord(ev.X, ev.Y) + "."
	}
	return "Enemy missed at " + board.FormatCoord(ev.X, ev.Y) + "."
}

// MoveResult is the shot outcome the message helpers read.
type MoveResult struct {
	X, Y         int
	Hit, Sunk    bool
	Late         bool
	AllDestroyed bool
}
