// Package ui provides terminal UI components for battleship-tui.
package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"battleship-tui/config"
	"battleship-tui/engine"
)

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form     *tview.Form
	flex     *tview.Flex
	onStart  func(engine.GameConfig)
	onCancel func()
	onColors func()

	cfg engine.GameConfig
}

// NewGameSetup creates a new game setup form seeded from c.
func NewGameSetup(c *config.Config, onStart func(engine.GameConfig), onCancel func(), onColors func()) *GameSetupUI {
	setup := &GameSetupUI{
		onStart:  onStart,
		onCancel: onCancel,
		onColors: onColors,
		cfg:      GameConfigFrom(c),
	}

	modes := []string{engine.SinglePlayer.String(), engine.Multiplayer.String()}

	form := tview.NewForm()

	form.AddInputField("Name", setup.cfg.PlayerName, 20, func(text string, lastChar rune) bool {
		return lastChar != ';'
	}, func(text string) {
		setup.cfg.PlayerName = strings.TrimSpace(text)
	})

	form.AddDropDown("Mode", modes, int(setup.cfg.Mode), func(option string, index int) {
		setup.cfg.Mode = engine.Mode(index)
	})

	form.AddInputField("Server", setup.cfg.Host, 28, nil, func(text string) {
		setup.cfg.Host = strings.TrimSpace(text)
	})

	form.AddInputField("Port", strconv.Itoa(setup.cfg.Port), 6, tview.InputFieldInteger, func(text string) {
		if val, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			setup.cfg.Port = val
		}
	})

	form.AddButton("Start Game", func() {
		onStart(setup.cfg)
	})

	form.AddButton("Colors", func() {
		if onColors != nil {
			onColors()
		}
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)
	form.SetBorderColor(MenuColors.Border)

	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Arrow keys: change dropdown  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(MenuColors.Hint)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

// GameConfigFrom builds the initial game settings from the loaded config.
func GameConfigFrom(c *config.Config) engine.GameConfig {
	gc := engine.DefaultConfig()
	gc.PlayerName = c.Player.Name
	gc.Host = c.Player.Host
	gc.Port = c.Player.Port
	gc.MoveTimeout = c.Player.MoveTimeoutDuration()
	gc.MatchDuration = c.Player.MatchDurationDuration()
	return gc
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// Config returns the settings currently entered in the form.
func (s *GameSetupUI) Config() engine.GameConfig {
	return s.cfg
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}
