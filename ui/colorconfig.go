package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"battleship-tui/config"
)

// ColorConfigUI provides a color configuration screen with live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	onDone    func()
	onError   func(error)

	selectedWaterColor int
	selectedShipColor  int
	editingShip        bool // true = editing ship color, false = editing water color
}

type paletteEntry struct {
	code int
	name string
}

var waterColors = []paletteEntry{
	{17, "Navy Blue"},
	{18, "Dark Blue"},
	{19, "Deep Blue"},
	{23, "Teal"},
	{24, "Dark Cyan"},
	{25, "Steel Blue"},
	{31, "Ocean"},
	{30, "Sea Green"},
	{37, "Light Sea"},
	{60, "Slate"},
	{236, "Dark Gray"},
	{16, "True Black"},
}

var shipColors = []paletteEntry{
	{250, "Gray"},
	{252, "Light Gray"},
	{255, "White"},
	{244, "Dark Gray"},
	{180, "Tan"},
	{136, "Dark Brown"},
	{94, "Saddle Brown"},
	{229, "Pale Yellow"},
	{108, "Olive"},
	{65, "Army Green"},
}

// NewColorConfig creates a new color configuration screen. Save failures are
// passed to onError.
func NewColorConfig(cfg *config.Config, onDone func(), onError func(error)) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:                cfg,
		onDone:             onDone,
		onError:            onError,
		selectedWaterColor: cfg.Theme.Colors.WaterColor,
		selectedShipColor:  cfg.Theme.Colors.ShipColor,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	cc.populateColorList()

	// Preview follows the highlighted entry
	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if cc.editingShip {
			if index >= 0 && index < len(shipColors) {
				cc.selectedShipColor = shipColors[index].code
			}
		} else if index >= 0 && index < len(waterColors) {
			cc.selectedWaterColor = waterColors[index].code
		}
	})

	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if cc.editingShip {
			cc.cfg.Theme.Colors.ShipColor = cc.selectedShipColor
			cc.save()
			cc.editingShip = false
			cc.populateColorList()
			return
		}
		cc.cfg.Theme.Colors.WaterColor = cc.selectedWaterColor
		cc.cfg.Theme.Colors.WaterColorAlt = cc.selectedWaterColor
		cc.save()
		onDone()
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 30, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

func (cc *ColorConfigUI) save() {
	if err := cc.cfg.Save(); err != nil && cc.onError != nil {
		cc.onError(fmt.Errorf("failed to save colors: %w", err))
	}
}

// populateColorList fills the list with appropriate colors based on editing mode.
func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()

	entries, current := waterColors, cc.selectedWaterColor
	cc.colorList.SetTitle(" Select Water Color (Tab: switch to ships) ")
	if cc.editingShip {
		entries, current = shipColors, cc.selectedShipColor
		cc.colorList.SetTitle(" Select Ship Color (Tab: switch to water) ")
	}
	for i, c := range entries {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range entries {
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
}

// previewShips marks the ship cells of the sample grid; true means hit.
var previewShips = map[[2]int]bool{
	{1, 1}: false,
	{2, 1}: true,
	{3, 1}: false,
	{5, 3}: false,
	{5, 4}: true,
	{5, 5}: false,
}

var previewMisses = [][2]int{{0, 4}, {3, 5}, {6, 0}}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	water := tcell.PaletteColor(cc.selectedWaterColor)
	ship := tcell.PaletteColor(cc.selectedShipColor)
	hit := tcell.PaletteColor(cc.cfg.Theme.Colors.HitColor)
	miss := tcell.PaletteColor(cc.cfg.Theme.Colors.MissColor)
	sym := cc.cfg.Theme.Symbols

	startX := x + 2
	startY := y + 1
	size := 7

	if width < 20 || height < 10 {
		return x, y, width, height
	}

	misses := make(map[[2]int]bool, len(previewMisses))
	for _, m := range previewMisses {
		misses[m] = true
	}

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			style := tcell.StyleDefault.Background(water).Foreground(miss)
			char := sym.Water
			if isHit, ok := previewShips[[2]int{col, row}]; ok {
				char, style = sym.Ship, style.Foreground(ship)
				if isHit {
					char, style = sym.Hit, style.Foreground(hit)
				}
			} else if misses[[2]int{col, row}] {
				char = sym.Miss
			}
			drawCell(screen, style, char, col, row, startX, startY)
		}
	}

	var info string
	if cc.editingShip {
		info = fmt.Sprintf("Ship: %d  Water: %d", cc.selectedShipColor, cc.selectedWaterColor)
	} else {
		info = fmt.Sprintf("Water: %d  Ship: %d", cc.selectedWaterColor, cc.selectedShipColor)
	}
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+size+1, ch, nil, tcell.StyleDefault)
		}
	}

	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode switches between water color and ship color editing.
func (cc *ColorConfigUI) ToggleMode() {
	cc.editingShip = !cc.editingShip
	cc.populateColorList()
}
