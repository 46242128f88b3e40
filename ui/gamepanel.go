package ui

import (
	"fmt"
	"sync"

	"github.com/dariubs/percent"
	"github.com/rivo/tview"

	"battleship-tui/board"
	"battleship-tui/types"
)

const maxVisible = 12

// GameInfoPanel displays scores and the shot history alongside the boards.
type GameInfoPanel struct {
	box *tview.TextView

	mu    sync.Mutex
	state *types.GameState
	moves []types.MoveEvent
}

// NewGameInfoPanel creates a new game info panel.
func NewGameInfoPanel() *GameInfoPanel {
	panel := &GameInfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *GameInfoPanel) Box() *tview.TextView {
	return p.box
}

// SetState updates the panel with a new snapshot.
func (p *GameInfoPanel) SetState(state *types.GameState) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
	p.refresh()
}

// AddMove appends a resolved shot to the history.
func (p *GameInfoPanel) AddMove(ev types.MoveEvent, state *types.GameState) {
	p.mu.Lock()
	p.moves = append(p.moves, ev)
	p.state = state
	p.mu.Unlock()
	p.refresh()
}

// Reset clears the history for a new game.
func (p *GameInfoPanel) Reset() {
	p.mu.Lock()
	p.moves = nil
	p.state = nil
	p.mu.Unlock()
	p.refresh()
}

// Accuracy returns the share of shots that hit, in percent.
func Accuracy(fired, hits int) float64 {
	if fired == 0 {
		return 0
	}
	return percent.PercentOf(hits, fired)
}

// refresh updates the panel text.
func (p *GameInfoPanel) refresh() {
	p.mu.Lock()
	text := p.render()
	p.mu.Unlock()
	p.box.SetText(text)
}

// render must be called with p.mu held.
func (p *GameInfoPanel) render() string {
	s := p.state
	if s == nil {
		return ""
	}

	var text string

	text += "[white::b]Game Info[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"

	enemy := s.EnemyName
	if enemy == "" {
		enemy = "?"
	}
	text += fmt.Sprintf("[white]%s:[-:-:-] %d\n", s.PlayerName, s.MyScore)
	text += fmt.Sprintf("[white]%s:[-:-:-] %d\n", enemy, s.EnemyScore)
	text += fmt.Sprintf("[white]Move:[-:-:-] %d\n", s.MoveNumber)
	text += fmt.Sprintf("[white]Shots:[-:-:-] %d/%d hit\n", s.ShotsHit, s.ShotsFired)
	text += fmt.Sprintf("[white]Accuracy:[-:-:-] %.0f%%\n", Accuracy(s.ShotsFired, s.ShotsHit))

	if len(p.moves) == 0 {
		return text
	}

	text += "\n[white::b]Shots[-:-:-]\n"
	text += "[dimgray]──────────────────────[-:-:-]\n"

	start := 0
	if len(p.moves) > maxVisible {
		start = len(p.moves) - maxVisible
	}
	for i := start; i < len(p.moves); i++ {
		m := p.moves[i]

		who := "[white]You[-]"
		if !m.Mine {
			who = "[dimgray]Foe[-]"
		}

		var result string
		switch {
		case m.Late:
			result = "[dimgray]late[-]"
		case m.Sunk:
			result = "[red::b]sunk[-:-:-]"
		case m.Hit:
			result = "[red]hit[-]"
		default:
			result = "[blue]miss[-]"
		}

		coord := "--"
		if !m.Late {
			coord = board.FormatCoord(m.X, m.Y)
		}

		marker := " "
		if i == len(p.moves)-1 {
			marker = "[white]>[-]"
		}

		text += fmt.Sprintf("%s[dimgray]%3d.[-] %s %-5s %s\n", marker, m.MoveNumber, who, coord, result)
	}

	if start > 0 {
		text += fmt.Sprintf("[dimgray]  ··· %d earlier[-]\n", start)
	}
	return text
}

// CreateGameLayout creates the main game layout with the boards, side panel,
// status bar and coordinate input.
func CreateGameLayout(fleet *FleetBoardUI, hint *tview.TextView, messages *tview.TextView, input *tview.InputField) *tview.Flex {
	infoPanel := NewGameInfoPanel()

	// Store panel reference in board for updates
	fleet.infoPanel = infoPanel

	// Create horizontal flex: boards | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(fleet.Box, 0, 1, true)
	boardRow.AddItem(infoPanel.Box(), 30, 0, false)

	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow)
	mainFlex.AddItem(boardRow, board.Height+3, 0, true)
	mainFlex.AddItem(messages, 0, 1, false)
	mainFlex.AddItem(input, 1, 0, false)
	mainFlex.AddItem(hint, 3, 0, false)

	return mainFlex
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form *tview.Flex, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)        // Left spacer
	centered.AddItem(form, maxWidth, 0, true) // Form with max width
	centered.AddItem(nil, 0, 1, false)        // Right spacer

	return centered
}
