package game

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"battleship-tui/board"
)

// stubPlayer answers every shot with a fixed outcome.
type stubPlayer struct {
	mu        sync.Mutex
	shot      board.Shot
	fired     int
	updates   []Move
	onGetMove func()
}

func (s *stubPlayer) GetMove() {
	if s.onGetMove != nil {
		s.onGetMove()
	}
}

func (s *stubPlayer) EnemyMove(x, y int) board.Shot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fired++
	return s.shot
}

func (s *stubPlayer) Update(x, y int, isHit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, Move{X: x, Y: y})
}

// scriptedPlayer fires at a fixed list of cells in order.
type scriptedPlayer struct {
	game    *Game
	own     *board.Board
	targets []board.Pos
}

func (s *scriptedPlayer) GetMove() {
	if len(s.targets) == 0 {
		return
	}
	p := s.targets[0]
	s.targets = s.targets[1:]
	s.game.MakeMove(p.X, p.Y, false)
}

func (s *scriptedPlayer) EnemyMove(x, y int) board.Shot {
	return s.own.SinglePlayerMakeMove(x, y)
}

func (s *scriptedPlayer) Update(int, int, bool) {}

type recordView struct {
	mu       sync.Mutex
	messages []string
}

func (v *recordView) Show(m string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.messages = append(v.messages, m)
}

func (v *recordView) Prompt(string) (string, error) { return "", nil }

func (v *recordView) last() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.messages) == 0 {
		return ""
	}
	return v.messages[len(v.messages)-1]
}

func newTestGame(home, away Player) *Game {
	g := New(Options{Rand: rand.New(rand.NewSource(1))})
	g.SetPlayer(Home, home)
	g.SetPlayer(Away, away)
	return g
}

func waitDone(t *testing.T, g *Game) {
	t.Helper()
	select {
	case <-g.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("game did not end")
	}
}

func TestHitKeepsTurn(t *testing.T) {
	home := &stubPlayer{}
	away := &stubPlayer{shot: board.Shot{Hit: true}}
	g := newTestGame(home, away)
	g.current, g.state = Human, HumanTurn

	res, ended := g.resolve(Move{X: 3, Y: 4})
	require.False(t, ended)
	require.Equal(t, Human, res.Next)
	require.Equal(t, Human, g.CurrentMove())
	require.Equal(t, HumanTurn, g.State())
	require.Equal(t, 1, g.Points()[Home])
	require.Equal(t, []Move{{X: 3, Y: 4}}, home.updates)

	away.shot = board.Shot{}
	res, _ = g.resolve(Move{X: 5, Y: 5})
	require.Equal(t, Computer, res.Next)
	require.Equal(t, ComputerTurn, g.State())
	require.Equal(t, 1, g.Points()[Home])
}

func TestSinkScoresTwo(t *testing.T) {
	away := &stubPlayer{shot: board.Shot{Hit: true, Sunk: true}}
	g := newTestGame(&stubPlayer{}, away)
	g.current, g.state = Human, HumanTurn

	res, _ := g.resolve(Move{X: 0, Y: 0})
	require.Equal(t, [2]int{2, 0}, res.Points)
	require.Equal(t, Human, res.Next)
}

func TestLateMovePassesTurn(t *testing.T) {
	home := &stubPlayer{}
	away := &stubPlayer{shot: board.Shot{Hit: true}}
	g := newTestGame(home, away)
	g.current, g.state = Human, HumanTurn

	res, ended := g.resolve(Move{Late: true})
	require.False(t, ended)
	require.True(t, res.Late)
	require.Equal(t, Computer, res.Next)
	require.Zero(t, away.fired, "a late move must not reach the opponent's board")
	require.Equal(t, [2]int{0, 0}, g.Points())
}

func TestFullFleetEndsGame(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	homeBoard, err := board.Generate(rng)
	require.NoError(t, err)
	awayBoard, err := board.Generate(rng)
	require.NoError(t, err)

	g := New(Options{Rand: rng})
	home := &scriptedPlayer{game: g, own: homeBoard}
	for _, ship := range awayBoard.Ships() {
		home.targets = append(home.targets, ship.Cells...)
	}
	away := &scriptedPlayer{game: g, own: awayBoard}
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			if !homeBoard.At(x, y).IsShip() {
				away.targets = append(away.targets, board.Pos{X: x, Y: y})
			}
		}
	}
	g.SetPlayer(Home, home)
	g.SetPlayer(Away, away)

	var outcome Outcome
	g.OnGameEnd(func(o Outcome) { outcome = o })
	require.NoError(t, g.Start(context.Background()))
	waitDone(t, g)

	require.True(t, awayBoard.AllShipsDestroyed())
	require.Equal(t, Ended, g.State())
	require.Equal(t, Home, outcome.Winner)
	require.False(t, outcome.Tie)
	require.Equal(t, FleetDestroyed, outcome.Reason)
	require.Equal(t, board.FleetCells+28, outcome.Points[Home])
	require.Zero(t, outcome.Points[Away])
}

func TestHumanTimeoutSubmitsLateMove(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	homeBoard, err := board.Generate(rng)
	require.NoError(t, err)
	awayBoard, err := board.Generate(rng)
	require.NoError(t, err)

	g := New(Options{Rand: rng})
	view := &recordView{}
	human := NewHumanPlayer(g, homeBoard, view, 20*time.Millisecond)
	g.SetPlayer(Human, human)
	g.SetPlayer(Computer, NewComputerPlayer(g, awayBoard, rand.New(rand.NewSource(3))))

	results := make(chan Result, 512)
	g.OnMove(func(r Result) {
		select {
		case results <- r:
		default:
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, g.Start(ctx))

	timeout := time.After(5 * time.Second)
	for {
		select {
		case r := <-results:
			if r.Late {
				require.Equal(t, Human, r.Side)
				require.Equal(t, Computer, r.Next)
				return
			}
			require.NotEqual(t, Human, r.Side, "human never submitted a move")
		case <-timeout:
			t.Fatal("no late move")
		}
	}
}

func TestMatchDeadlineTie(t *testing.T) {
	g := New(Options{
		MatchDuration: 30 * time.Millisecond,
		PollInterval:  5 * time.Millisecond,
		Rand:          rand.New(rand.NewSource(1)),
	})
	g.SetPlayer(Home, &stubPlayer{})
	g.SetPlayer(Away, &stubPlayer{})
	require.NoError(t, g.Start(context.Background()))
	waitDone(t, g)

	o := g.Outcome()
	require.NotNil(t, o)
	require.True(t, o.Tie)
	require.Equal(t, TimeUp, o.Reason)
}

func TestDeadlineWinnerByScore(t *testing.T) {
	tests := []struct {
		points [2]int
		winner Side
		tie    bool
	}{
		{[2]int{3, 1}, Home, false},
		{[2]int{0, 2}, Away, false},
		{[2]int{4, 4}, Home, true},
	}
	for _, tt := range tests {
		g := newTestGame(&stubPlayer{}, &stubPlayer{})
		g.points = tt.points
		g.finishOnTime()
		o := g.Outcome()
		require.NotNil(t, o)
		require.Equal(t, tt.tie, o.Tie)
		if !tt.tie {
			require.Equal(t, tt.winner, o.Winner)
		}
		require.Equal(t, tt.points, o.Points)
	}
}

func TestForfeit(t *testing.T) {
	g := newTestGame(&stubPlayer{}, &stubPlayer{})
	require.NoError(t, g.Start(context.Background()))
	require.ErrorIs(t, g.Start(context.Background()), ErrStarted)

	g.Forfeit(Away)
	waitDone(t, g)
	o := g.Outcome()
	require.Equal(t, Home, o.Winner)
	require.Equal(t, Forfeit, o.Reason)
	require.ErrorIs(t, g.MakeMove(1, 1, false), ErrGameOver)
}

func TestStartNeedsPlayers(t *testing.T) {
	g := New(Options{})
	g.SetPlayer(Home, &stubPlayer{})
	require.ErrorIs(t, g.Start(context.Background()), ErrMissingPlayer)
}

func TestHumanSubmit(t *testing.T) {
	g := New(Options{})
	view := &recordView{}
	h := NewHumanPlayer(g, board.New(), view, time.Minute)

	require.ErrorIs(t, h.Submit(0, 0), ErrNotYourTurn)

	h.GetMove()
	require.True(t, h.Waiting())
	require.Equal(t, MsgYourMove, view.last())
	require.ErrorIs(t, h.Submit(15, 0), ErrInvalidMove)
	require.True(t, h.Waiting(), "a rejected move keeps the turn armed")

	require.NoError(t, h.Submit(1, 2))
	require.False(t, h.Waiting())
	require.Equal(t, Move{X: 1, Y: 2}, <-g.moves)
	require.ErrorIs(t, h.Submit(2, 2), ErrNotYourTurn)

	h.Update(1, 2, false)
	h.GetMove()
	require.ErrorIs(t, h.Submit(1, 2), ErrInvalidMove)
	h.Stop()
}

func TestHumanStopIsIdempotent(t *testing.T) {
	g := New(Options{})
	h := NewHumanPlayer(g, board.New(), nil, 10*time.Millisecond)
	h.GetMove()
	h.Stop()
	h.Stop()
	time.Sleep(40 * time.Millisecond)
	select {
	case mv := <-g.moves:
		t.Fatalf("stopped timer still submitted %+v", mv)
	default:
	}
}

func TestComputerNeverRepeatsACell(t *testing.T) {
	g := New(Options{})
	c := NewComputerPlayer(g, board.New(), rand.New(rand.NewSource(5)))
	seen := map[board.Pos]bool{}
	for i := 0; i < board.Width*board.Height; i++ {
		c.GetMove()
		mv := <-g.moves
		p := board.Pos{X: mv.X, Y: mv.Y}
		require.False(t, seen[p], "cell %v fired twice", p)
		require.False(t, mv.Late)
		seen[p] = true
		c.Update(mv.X, mv.Y, false)
	}
	// Every cell is taken; no further move is produced.
	c.GetMove()
	select {
	case mv := <-g.moves:
		t.Fatalf("unexpected move %+v", mv)
	default:
	}
}
