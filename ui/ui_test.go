package ui

import (
	"strings"
	"testing"

	"github.com/rivo/tview"

	"battleship-tui/board"
	"battleship-tui/config"
	"battleship-tui/engine"
	"battleship-tui/types"
)

type stubEngine struct {
	state  *types.GameState
	myTurn bool
	shots  []types.BoardPos
	closed bool
}

func (s *stubEngine) Connect() error                                 { return nil }
func (s *stubEngine) GetState() *types.GameState                     { return s.state.Copy() }
func (s *stubEngine) IsMyTurn() bool                                 { return s.myTurn }
func (s *stubEngine) OnMove(func(types.MoveEvent, *types.GameState)) {}
func (s *stubEngine) OnGameEnd(func(string))                         {}
func (s *stubEngine) Close()                                         { s.closed = true }

func (s *stubEngine) PlayMove(x, y int) error {
	s.shots = append(s.shots, types.BoardPos{X: x, Y: y})
	return nil
}

type nopView struct{}

func (nopView) Show(string)                   {}
func (nopView) Prompt(string) (string, error) { return "", nil }

func newTestBoard(t *testing.T) (*FleetBoardUI, *stubEngine) {
	t.Helper()
	c := config.DefaultConfig
	fb := NewFleetBoard(tview.NewApplication(), &c, tview.NewTextView())
	state := types.NewGameState("Ahab")
	state.Phase = "playing"
	eng := &stubEngine{state: state, myTurn: true}
	if err := fb.ConnectEngine(eng); err != nil {
		t.Fatalf("ConnectEngine: %v", err)
	}
	return fb, eng
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		fired, hits int
		want        float64
	}{
		{0, 0, 0},
		{4, 1, 25},
		{10, 10, 100},
	}
	for _, tt := range tests {
		if got := Accuracy(tt.fired, tt.hits); got != tt.want {
			t.Errorf("Accuracy(%d, %d) = %v, want %v", tt.fired, tt.hits, got, tt.want)
		}
	}
}

func TestSelectionStaysOnBoard(t *testing.T) {
	fb, _ := newTestBoard(t)
	if fb.SelectedTile() != nil {
		t.Fatal("selection should start empty")
	}
	fb.MoveSelection(1, 0)
	sel := fb.SelectedTile()
	if sel == nil || sel.X != board.Width/2 || sel.Y != board.Height/2 {
		t.Fatalf("first move should select the center, got %+v", sel)
	}
	for i := 0; i < board.Width; i++ {
		fb.MoveSelection(1, 0)
		fb.MoveSelection(0, 1)
	}
	sel = fb.SelectedTile()
	if sel.X != board.Width-1 || sel.Y != board.Height-1 {
		t.Errorf("selection left the board: %+v", sel)
	}
}

func TestFireAndInput(t *testing.T) {
	fb, eng := newTestBoard(t)
	fb.Fire()
	if len(eng.shots) != 0 {
		t.Fatal("Fire without a selection should not shoot")
	}
	fb.MoveSelection(0, 0)
	fb.Fire()
	if err := fb.PlayInput(nopView{}, "b,3"); err != nil {
		t.Fatalf("PlayInput: %v", err)
	}
	want := []types.BoardPos{{X: board.Width / 2, Y: board.Height / 2}, {X: 1, Y: 2}}
	if len(eng.shots) != len(want) {
		t.Fatalf("shots = %+v, want %+v", eng.shots, want)
	}
	for i := range want {
		if eng.shots[i] != want[i] {
			t.Errorf("shot %d = %+v, want %+v", i, eng.shots[i], want[i])
		}
	}
	if err := fb.PlayInput(nopView{}, "z,99"); err == nil {
		t.Error("PlayInput should reject an off-board coordinate")
	}

	fb.Close()
	if !eng.closed {
		t.Error("Close should close the engine")
	}
	if err := fb.PlayInput(nopView{}, "a,1"); err != engine.ErrGameOver {
		t.Errorf("PlayInput after Close = %v, want ErrGameOver", err)
	}
}

func TestInfoPanelHistory(t *testing.T) {
	p := NewGameInfoPanel()
	state := types.NewGameState("Ahab")
	state.EnemyName = "Moby"
	state.ShotsFired, state.ShotsHit = 2, 1
	p.AddMove(types.MoveEvent{Mine: true, X: 0, Y: 1, Hit: true, MoveNumber: 1}, state)
	p.AddMove(types.MoveEvent{Mine: false, Late: true, MoveNumber: 2}, state)

	text := p.Box().GetText(true)
	for _, want := range []string{"Ahab", "Moby", "Accuracy: 50%", "a,2", "hit", "late"} {
		if !strings.Contains(text, want) {
			t.Errorf("panel text missing %q:\n%s", want, text)
		}
	}

	p.Reset()
	if got := p.Box().GetText(true); got != "" {
		t.Errorf("Reset left %q", got)
	}
}
