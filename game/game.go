// Package game runs a Battleship match between two players: coin flip,
// extra shot on hit, per-turn timeouts and the match clock.
package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"battleship-tui/board"
)

// Side is a seat at the table. Home is the human seat in single-player.
type Side int

const (
	Home Side = iota
	Away
)

// Single-player names for the two seats.
const (
	Human    = Home
	Computer = Away
)

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == Home {
		return Away
	}
	return Home
}

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

// State is the lifecycle of a Game.
type State int

const (
	NotStarted State = iota
	HumanTurn
	ComputerTurn
	Ended
)

func turnState(s Side) State {
	if s == Home {
		return HumanTurn
	}
	return ComputerTurn
}

// Reason tells how a game ended.
type Reason int

const (
	FleetDestroyed Reason = iota
	TimeUp
	Forfeit
)

// Default durations.
const (
	DefaultMoveTimeout   = 30 * time.Second
	DefaultMatchDuration = 5 * time.Minute
	DefaultPollInterval  = time.Second
)

var (
	ErrGameOver      = errors.New("game is over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrInvalidMove   = errors.New("invalid move")
	ErrStarted       = errors.New("game already started")
	ErrMissingPlayer = errors.New("both seats need a player")
	ErrQuit          = errors.New("player quit")
)

// Player supplies moves for one side and receives the outcome of shots.
type Player interface {
	// GetMove asks the player for a move. The answer arrives later
	// through Game.MakeMove; GetMove must not block on it.
	GetMove()
	// EnemyMove applies the opponent's shot to the player's own board.
	EnemyMove(x, y int) board.Shot
	// Update tells the player how its own shot went.
	Update(x, y int, isHit bool)
}

// stopper is implemented by players holding timers.
type stopper interface {
	Stop()
}

// Move is a shot submitted to the engine. Coordinates of a late move are
// ignored.
type Move struct {
	X, Y int
	Late bool
}

// Result describes one resolved move.
type Result struct {
	Move
	Side   Side
	Shot   board.Shot
	Next   Side
	Points [2]int
}

// Outcome describes a finished game. Winner is meaningless on a tie.
type Outcome struct {
	Winner Side
	Tie    bool
	Reason Reason
	Points [2]int
}

// Options tune a Game. Zero values take the defaults above.
type Options struct {
	MatchDuration time.Duration
	PollInterval  time.Duration
	Rand          *rand.Rand
}

// Game is the turn engine. All state changes happen on a single goroutine
// that consumes moves from a channel; the mutex guards reads from other
// goroutines.
type Game struct {
	opts    Options
	players [2]Player

	mu      sync.Mutex
	state   State
	current Side
	points  [2]int
	outcome *Outcome

	moves    chan Move
	forfeits chan Side
	done     chan struct{}
	doneOnce sync.Once

	startCallback func(first Side)
	moveCallback  func(Result)
	endCallback   func(Outcome)
}

// New creates a game with empty seats.
func New(opts Options) *Game {
	if opts.MatchDuration <= 0 {
		opts.MatchDuration = DefaultMatchDuration
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Game{
		opts:     opts,
		moves:    make(chan Move, 4),
		forfeits: make(chan Side, 2),
		done:     make(chan struct{}),
	}
}

// SetPlayer seats p on side s. Must be called before Start.
func (g *Game) SetPlayer(s Side, p Player) {
	g.players[s] = p
}

// OnStart registers a callback run once the coin flip picked the first side.
func (g *Game) OnStart(callback func(first Side)) {
	g.startCallback = callback
}

// OnMove registers a callback run after every resolved move.
func (g *Game) OnMove(callback func(Result)) {
	g.moveCallback = callback
}

// OnGameEnd registers a callback run once when the game ends.
func (g *Game) OnGameEnd(callback func(Outcome)) {
	g.endCallback = callback
}

// Start flips the coin and runs the game until it ends or ctx is done.
func (g *Game) Start(ctx context.Context) error {
	if g.players[Home] == nil || g.players[Away] == nil {
		return ErrMissingPlayer
	}
	g.mu.Lock()
	if g.state != NotStarted {
		g.mu.Unlock()
		return ErrStarted
	}
	g.current = Side(g.opts.Rand.Intn(2))
	g.state = turnState(g.current)
	g.mu.Unlock()

	go g.run(ctx)
	return nil
}

// MakeMove submits the current side's move. Only the player that was
// asked through GetMove may call it.
func (g *Game) MakeMove(x, y int, isLate bool) error {
	select {
	case <-g.done:
		return ErrGameOver
	default:
	}
	select {
	case g.moves <- Move{X: x, Y: y, Late: isLate}:
		return nil
	case <-g.done:
		return ErrGameOver
	}
}

// Forfeit ends the game with the other side as winner.
func (g *Game) Forfeit(s Side) {
	select {
	case g.forfeits <- s:
	case <-g.done:
	}
}

// Done is closed when the game has ended.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

// State returns the lifecycle state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// CurrentMove returns the side expected to move.
func (g *Game) CurrentMove() Side {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Points returns both sides' scores.
func (g *Game) Points() [2]int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.points
}

// Outcome returns the result of a finished game, or nil.
func (g *Game) Outcome() *Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.outcome == nil {
		return nil
	}
	o := *g.outcome
	return &o
}

func (g *Game) run(ctx context.Context) {
	ticker := time.NewTicker(g.opts.PollInterval)
	defer ticker.Stop()
	deadline := time.Now().Add(g.opts.MatchDuration)

	if g.startCallback != nil {
		g.startCallback(g.CurrentMove())
	}
	g.requestMove()

	for {
		select {
		case <-ctx.Done():
			g.mu.Lock()
			g.state = Ended
			g.mu.Unlock()
			g.stopPlayers()
			g.closeDone()
			return
		case s := <-g.forfeits:
			g.finish(Outcome{Winner: s.Other(), Reason: Forfeit})
			return
		case mv := <-g.moves:
			res, ended := g.resolve(mv)
			if g.moveCallback != nil {
				g.moveCallback(res)
			}
			if ended {
				g.finish(Outcome{Winner: res.Side, Reason: FleetDestroyed})
				return
			}
			// The clock is only checked between resolved moves.
			if !time.Now().Before(deadline) {
				g.finishOnTime()
				return
			}
			g.requestMove()
		case now := <-ticker.C:
			if !now.Before(deadline) {
				g.finishOnTime()
				return
			}
		}
	}
}

// resolve applies mv for the side to move and reports whether the
// opponent's fleet is gone.
func (g *Game) resolve(mv Move) (Result, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	side := g.current
	res := Result{Move: mv, Side: side}
	if mv.Late {
		g.current = side.Other()
	} else {
		res.Shot = g.players[side.Other()].EnemyMove(mv.X, mv.Y)
		g.players[side].Update(mv.X, mv.Y, res.Shot.Hit)
		if res.Shot.Hit {
			g.points[side]++
			if res.Shot.Sunk {
				g.points[side]++
			}
		} else {
			g.current = side.Other()
		}
	}
	g.state = turnState(g.current)
	res.Next = g.current
	res.Points = g.points
	return res, res.Shot.AllDestroyed
}

func (g *Game) requestMove() {
	g.players[g.CurrentMove()].GetMove()
}

func (g *Game) finishOnTime() {
	p := g.Points()
	o := Outcome{Reason: TimeUp}
	switch {
	case p[Home] > p[Away]:
		o.Winner = Home
	case p[Away] > p[Home]:
		o.Winner = Away
	default:
		o.Tie = true
	}
	g.finish(o)
}

func (g *Game) finish(o Outcome) {
	g.mu.Lock()
	o.Points = g.points
	g.state = Ended
	g.outcome = &o
	g.mu.Unlock()

	g.stopPlayers()
	if g.endCallback != nil {
		g.endCallback(o)
	}
	g.closeDone()
}

func (g *Game) stopPlayers() {
	for _, p := range g.players {
		if s, ok := p.(stopper); ok {
			s.Stop()
		}
	}
}

func (g *Game) closeDone() {
	g.doneOnce.Do(func() { close(g.done) })
}
