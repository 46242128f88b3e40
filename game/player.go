package game

import (
	"math/rand"
	"sync"
	"time"

	"battleship-tui/board"
)

// View is how the game talks to a person: Show prints a message, Prompt
// asks a question and waits for the answer.
type View interface {
	Show(message string)
	Prompt(question string) (string, error)
}

type nopView struct{}

func (nopView) Show(string) {}

func (nopView) Prompt(string) (string, error) { return "", nil }

// Messages shown to a human player.
const (
	MsgYourMove    = "Your move."
	MsgMissedMove  = "You missed your move!"
	MsgInvalidMove = "Invalid move."
	MsgNotYourTurn = "Not your turn."
	MsgBadInput    = "Input is invalid. Remember input format example: a,2. Or type q to exit."
)

// HumanPlayer takes moves from an input source and enforces the per-turn
// timeout. When the timer fires first, a late move is submitted instead.
type HumanPlayer struct {
	game    *Game
	view    View
	timeout time.Duration

	mu    sync.Mutex
	own   *board.Board
	enemy *board.EnemyBoard
	armed bool
	timer *time.Timer
}

// NewHumanPlayer creates a player firing from own. A nil view discards
// messages.
func NewHumanPlayer(g *Game, own *board.Board, view View, timeout time.Duration) *HumanPlayer {
	if view == nil {
		view = nopView{}
	}
	if timeout <= 0 {
		timeout = DefaultMoveTimeout
	}
	return &HumanPlayer{
		game:    g,
		view:    view,
		timeout: timeout,
		own:     own,
		enemy:   board.NewEnemyBoard(),
	}
}

// GetMove arms the turn timer.
func (h *HumanPlayer) GetMove() {
	h.mu.Lock()
	if h.timer != nil {
		h.timer.Stop()
	}
	h.armed = true
	h.timer = time.AfterFunc(h.timeout, h.expire)
	h.mu.Unlock()
	h.view.Show(MsgYourMove)
}

func (h *HumanPlayer) expire() {
	h.mu.Lock()
	if !h.armed {
		h.mu.Unlock()
		return
	}
	h.armed = false
	h.mu.Unlock()
	h.game.MakeMove(0, 0, true)
}

// Submit fires at (x, y) if it is this player's turn and the cell has not
// been fired at. The timer is cancelled before the move is handed over.
func (h *HumanPlayer) Submit(x, y int) error {
	h.mu.Lock()
	if !h.armed {
		h.mu.Unlock()
		return ErrNotYourTurn
	}
	if !h.enemy.IsValidMove(x, y) {
		h.mu.Unlock()
		return ErrInvalidMove
	}
	h.armed = false
	h.timer.Stop()
	h.mu.Unlock()
	return h.game.MakeMove(x, y, false)
}

// Waiting reports whether the player has been asked for a move and has
// not answered yet.
func (h *HumanPlayer) Waiting() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.armed
}

// EnemyMove applies the opponent's shot.
func (h *HumanPlayer) EnemyMove(x, y int) board.Shot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.own.SinglePlayerMakeMove(x, y)
}

// Update records the outcome of this player's shot.
func (h *HumanPlayer) Update(x, y int, isHit bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enemy.MakeMove(x, y, isHit)
}

// Stop disarms the timer. Safe to call any number of times.
func (h *HumanPlayer) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.armed = false
	if h.timer != nil {
		h.timer.Stop()
	}
}

// Boards returns copies of the player's own grid and its view of the enemy.
func (h *HumanPlayer) Boards() (board.Grid, board.Marks) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.own.Grid(), h.enemy.Marks()
}

// Accuracy returns shots fired and hits scored.
func (h *HumanPlayer) Accuracy() (fired, hits int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enemy.Shots()
}

// ComputerPlayer fires at uniformly random cells it has not tried yet.
// It answers GetMove immediately and is never late.
type ComputerPlayer struct {
	game  *Game
	rng   *rand.Rand
	own   *board.Board
	enemy *board.EnemyBoard
}

// NewComputerPlayer creates a computer player firing from own.
func NewComputerPlayer(g *Game, own *board.Board, rng *rand.Rand) *ComputerPlayer {
	return &ComputerPlayer{
		game:  g,
		rng:   rng,
		own:   own,
		enemy: board.NewEnemyBoard(),
	}
}

// GetMove picks a random untried cell and submits it.
func (c *ComputerPlayer) GetMove() {
	if fired, _ := c.enemy.Shots(); fired >= board.Width*board.Height {
		return
	}
	for {
		x, y := c.rng.Intn(board.Width), c.rng.Intn(board.Height)
		if c.enemy.IsValidMove(x, y) {
			c.game.MakeMove(x, y, false)
			return
		}
	}
}

// EnemyMove applies the opponent's shot.
func (c *ComputerPlayer) EnemyMove(x, y int) board.Shot {
	return c.own.SinglePlayerMakeMove(x, y)
}

// Update records the outcome of this player's shot.
func (c *ComputerPlayer) Update(x, y int, isHit bool) {
	c.enemy.MakeMove(x, y, isHit)
}
