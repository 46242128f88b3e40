// Package ui specifies custom controls for tview to assist in playing Battleship in the terminal.
package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"battleship-tui/board"
	"battleship-tui/config"
	"battleship-tui/engine"
	"battleship-tui/types"
)

const (
	labelWidth = 4 // row numbers left of each grid
	gridGap    = 6
)

// Style indexes into FleetBoardUI.styles.
const (
	styleWater = iota
	styleWaterAlt
	styleShip
	styleHit
	styleMiss
	styleCursorFG
	styleLastPlayed
	styleCursorBG
	styleLabel
)

// FleetBoardUI draws the player's fleet next to the target grid. The cursor
// lives on the target grid.
type FleetBoardUI struct {
	Box       *tview.Box
	State     *types.GameState
	hint      *tview.TextView
	cfg       *config.Config
	finished  bool
	selX      int
	selY      int
	app       *tview.Application
	eng       engine.GameEngine
	styles    []tcell.Color
	infoPanel *GameInfoPanel
}

func (g *FleetBoardUI) SelectedTile() *types.BoardPos {
	if g.selX == -1 && g.selY == -1 {
		return nil
	}
	return &types.BoardPos{X: g.selX, Y: g.selY}
}

func (g *FleetBoardUI) MoveSelection(h, v int) {
	if g.State.Finished() {
		g.ResetSelection()
		return
	}
	if g.SelectedTile() == nil {
		g.selX, g.selY = g.State.LastShot.X, g.State.LastShot.Y
		if g.SelectedTile() == nil {
			g.selX = board.Width / 2
			g.selY = board.Height / 2
		}
		return
	}
	if !board.InBounds(g.selX+h, g.selY+v) {
		return
	}
	g.selX += h
	g.selY += v
}

func (g *FleetBoardUI) ResetSelection() {
	g.selX = -1
	g.selY = -1
}

func NewFleetBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *FleetBoardUI {
	fb := &FleetBoardUI{
		Box:   tview.NewBox(),
		State: types.NewGameState(""),
		hint:  hint,
		app:   app,
		selX:  -1,
		selY:  -1,
	}
	fb.SetConfig(c)
	fb.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		gridW := board.Width * 2
		ownX := x + labelWidth
		targetX := ownX + gridW + gridGap

		drawTitle(screen, ownX, y, "Your fleet", fb.styles[styleLabel])
		drawTitle(screen, targetX, y, "Target", fb.styles[styleLabel])
		top := y + 1

		for by := 0; by < board.Height; by++ {
			for bx := 0; bx < board.Width; bx++ {
				r, st := fb.ownCell(bx, by)
				drawCell(screen, st, r, bx, by, ownX, top)
				r, st = fb.targetCell(bx, by)
				drawCell(screen, st, r, bx, by, targetX, top)
			}
		}
		drawCoordinates(screen, x, top, fb.State.LastIncoming, -1, -1, fb)
		drawCoordinates(screen, targetX-labelWidth, top, fb.State.LastShot, fb.selX, fb.selY, fb)
		return x, y, labelWidth*2 + gridW*2 + gridGap, board.Height + 3
	})
	return fb
}

func (g *FleetBoardUI) waterStyle(x, y int) tcell.Style {
	bg := g.styles[styleWater]
	if (x%2+y%2) == 1 {
		bg = g.styles[styleWaterAlt]
	}
	return tcell.StyleDefault.Background(bg)
}

func (g *FleetBoardUI) ownCell(x, y int) (rune, tcell.Style) {
	c := g.State.Own[y][x]
	sym := g.cfg.Theme.Symbols
	style := g.waterStyle(x, y)
	var r rune
	switch {
	case c.IsShip() && c.Hit:
		r, style = sym.Hit, style.Foreground(g.styles[styleHit])
	case c.IsShip():
		r, style = sym.Ship, style.Foreground(g.styles[styleShip])
	case c.Hit:
		r, style = sym.Miss, style.Foreground(g.styles[styleMiss])
	default:
		r, style = sym.Water, style.Foreground(g.styles[styleMiss])
	}
	if x == g.State.LastIncoming.X && y == g.State.LastIncoming.Y && g.cfg.Theme.DrawLastPlayedBackground {
		style = style.Background(g.styles[styleLastPlayed])
	}
	return r, style
}

func (g *FleetBoardUI) targetCell(x, y int) (rune, tcell.Style) {
	sym := g.cfg.Theme.Symbols
	style := g.waterStyle(x, y)
	var r rune
	switch g.State.Target[y][x] {
	case board.ShipHit:
		r, style = sym.Hit, style.Foreground(g.styles[styleHit])
	case board.Miss:
		r, style = sym.Miss, style.Foreground(g.styles[styleMiss])
	default:
		r, style = sym.Unknown, style.Foreground(g.styles[styleMiss])
	}
	if x == g.selX && y == g.selY {
		if g.cfg.Theme.DrawCursorBackground {
			style = style.Background(g.styles[styleCursorBG]).Foreground(g.styles[styleCursorFG])
		} else {
			r = '+'
		}
	} else if x == g.State.LastShot.X && y == g.State.LastShot.Y && g.cfg.Theme.DrawLastPlayedBackground {
		style = style.Background(g.styles[styleLastPlayed])
	}
	return r, style
}

// ConnectEngine connects the board to a game engine.
func (g *FleetBoardUI) ConnectEngine(e engine.GameEngine) error {
	g.finished = false
	g.eng = e
	g.ResetSelection()
	if g.infoPanel != nil {
		g.infoPanel.Reset()
	}

	e.OnMove(func(ev types.MoveEvent, state *types.GameState) {
		g.State = state
		if g.infoPanel != nil {
			g.infoPanel.AddMove(ev, state)
		}
		g.refreshHint()
		// Spawn goroutine to avoid deadlock when called from main thread
		go func() {
			g.app.QueueUpdateDraw(func() {})
		}()
	})

	e.OnGameEnd(func(outcome string) {
		g.finished = true
		g.State = e.GetState()
		g.ResetSelection()
		g.refreshHint()
		go func() {
			g.app.QueueUpdateDraw(func() {})
		}()
	})

	if err := e.Connect(); err != nil {
		return err
	}
	g.State = e.GetState()
	g.refreshHint()
	return nil
}

// Fire shoots at the selected target cell.
func (g *FleetBoardUI) Fire() {
	sel := g.SelectedTile()
	if sel == nil {
		return
	}
	g.PlayMove(sel.X, sel.Y)
}

// PlayMove shoots at the given coordinates.
func (g *FleetBoardUI) PlayMove(x, y int) {
	if g.finished || g.eng == nil {
		return
	}
	// The engine reports rejected shots through its view.
	g.eng.PlayMove(x, y)
	g.Refresh()
}

// PlayInput handles a coordinate typed into the command line.
func (g *FleetBoardUI) PlayInput(view engine.View, text string) error {
	if g.eng == nil {
		return engine.ErrGameOver
	}
	err := engine.PlayInput(g.eng, view, text)
	g.Refresh()
	return err
}

// Refresh pulls a fresh snapshot from the engine.
func (g *FleetBoardUI) Refresh() {
	if g.eng == nil {
		return
	}
	g.State = g.eng.GetState()
	g.refreshHint()
}

// Close disconnects the engine.
func (g *FleetBoardUI) Close() {
	if g.eng == nil {
		return
	}
	g.eng.Close()
	g.eng = nil
}

func (g *FleetBoardUI) SetConfig(c *config.Config) {
	g.styles = []tcell.Color{
		tcell.PaletteColor(c.Theme.Colors.WaterColor),        // 0
		tcell.PaletteColor(c.Theme.Colors.WaterColorAlt),     // 1
		tcell.PaletteColor(c.Theme.Colors.ShipColor),         // 2
		tcell.PaletteColor(c.Theme.Colors.HitColor),          // 3
		tcell.PaletteColor(c.Theme.Colors.MissColor),         // 4
		tcell.PaletteColor(c.Theme.Colors.CursorColorFG),     // 5
		tcell.PaletteColor(c.Theme.Colors.LastPlayedColorBG), // 6
		tcell.PaletteColor(c.Theme.Colors.CursorColorBG),     // 7
		tcell.PaletteColor(c.Theme.Colors.LabelColor),        // 8
	}
	g.cfg = c
}

func (g *FleetBoardUI) refreshHint() {
	if g.infoPanel != nil {
		g.infoPanel.SetState(g.State)
	}

	var turnLine, controlsLine string
	switch {
	case g.finished:
		turnLine = fmt.Sprintf("  Result: %s", g.State.Outcome)
		controlsLine = "   ·   q return to menu"
	case g.eng == nil || g.State.Phase == "waiting":
		turnLine = "  ◌ Waiting for the game to start..."
	case g.eng.IsMyTurn():
		turnLine = "  ▶ Your move"
		controlsLine = "   ·   hjkl/↑↓←→ aim  ⏎ fire  : type a coordinate  q quit"
	default:
		turnLine = fmt.Sprintf("  ◌ %s is aiming...", g.State.EnemyName)
		controlsLine = "   ·   q quit"
	}
	g.hint.SetText(turnLine + controlsLine)
}

// IsFinished returns true if the game is over.
func (g *FleetBoardUI) IsFinished() bool {
	return g.finished
}

// drawCell draws a board cell (2 characters wide)
func drawCell(s tcell.Screen, c tcell.Style, r rune, x, y, l, t int) {
	s.SetContent(l+x*2, t+y, r, nil, c)
	s.SetContent(l+x*2+1, t+y, ' ', nil, c)
}

func drawTitle(s tcell.Screen, x, y int, title string, color tcell.Color) {
	style := tcell.StyleDefault.Foreground(color).Bold(true)
	for i, ch := range title {
		s.SetContent(x+i, y, ch, nil, style)
	}
}

// drawCoordinates labels a grid whose row numbers start at column x.
func drawCoordinates(s tcell.Screen, x, y int, last types.BoardPos, selX, selY int, ui *FleetBoardUI) {
	hCoord := int('a')
	if ui.cfg.Theme.FullWidthLetters {
		hCoord = int('ａ')
	}

	style := tcell.StyleDefault.Foreground(ui.styles[styleLabel])
	highlight := tcell.StyleDefault.Background(ui.styles[styleCursorBG]).Foreground(ui.styles[styleCursorFG])
	lpHighlight := tcell.StyleDefault.Background(ui.styles[styleLastPlayed])

	for ix := 0; ix < board.Width; ix++ {
		_style := style
		if ix == selX {
			_style = highlight
		} else if ix == last.X {
			_style = lpHighlight
		}
		s.SetContent(x+labelWidth+(ix*2), y+board.Height, rune(hCoord+ix), nil, _style)
		s.SetContent(x+labelWidth+(ix*2)+1, y+board.Height, ' ', nil, _style)
	}

	for iy := 0; iy < board.Height; iy++ {
		_style := style
		if iy == selY {
			_style = highlight
		} else if iy == last.Y {
			_style = lpHighlight
		}
		displayNum := iy + 1
		tensRune := ' '
		if displayNum >= 10 {
			tensRune = rune('0' + displayNum/10)
		}
		s.SetContent(x+1, y+iy, tensRune, nil, _style)
		s.SetContent(x+2, y+iy, rune('0'+(displayNum%10)), nil, _style)
	}
}
