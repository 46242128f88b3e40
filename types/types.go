// Package types contains shared data structures for battleship-tui.
package types

import "battleship-tui/board"

// Result of a finished game from the local player's point of view.
type Result int

const (
	NoResult Result = iota
	Win
	Loss
	Tie
)

// GameState is a snapshot of a game for rendering. It is a value copy;
// engines never hand out their live boards.
type GameState struct {
	Phase      string // "waiting", "playing", "finished"
	PlayerName string
	EnemyName  string

	Own    board.Grid  // own fleet, Own[y][x]
	Target board.Marks // shots at the enemy, Target[y][x]

	MyScore    int
	EnemyScore int
	MyTurn     bool
	MoveNumber int

	ShotsFired int
	ShotsHit   int

	LastShot     BoardPos // last cell this player fired at
	LastIncoming BoardPos // last cell the enemy fired at

	Result  Result
	Outcome string
}

// NewGameState returns an empty waiting state.
func NewGameState(player string) *GameState {
	return &GameState{
		Phase:        "waiting",
		PlayerName:   player,
		LastShot:     BoardPos{X: -1, Y: -1},
		LastIncoming: BoardPos{X: -1, Y: -1},
	}
}

// Finished returns true if the game is over.
func (s *GameState) Finished() bool {
	return s.Phase == "finished"
}

// Copy returns a copy of s.
func (s *GameState) Copy() *GameState {
	c := *s
	return &c
}

// BoardPos represents a position on the board.
type BoardPos struct {
	X int
	Y int
}

// Valid reports whether the position is set.
func (p BoardPos) Valid() bool {
	return p.X >= 0 && p.Y >= 0
}

// MoveEvent describes one resolved shot.
type MoveEvent struct {
	Mine       bool // fired by the local player
	X, Y       int
	Hit        bool
	Sunk       bool
	Late       bool
	MoveNumber int
}
