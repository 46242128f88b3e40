// battleship-tui is a terminal Battleship game against the computer or
// another player through a match server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"battleship-tui/config"
	"battleship-tui/engine"
	"battleship-tui/engine/local"
	"battleship-tui/engine/remote"
	"battleship-tui/game"
	"battleship-tui/server"
	"battleship-tui/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagName    = flag.String("name", "", "Player name")
	flagHost    = flag.String("host", "", "Server host, or a ws:// URL")
	flagPort    = flag.Int("port", 0, "Server port")
	flagSingle  = flag.Bool("single", false, "Start a game against the computer immediately")
	flagMulti   = flag.Bool("multi", false, "Join a multiplayer game immediately")
	flagServe   = flag.Bool("serve", false, "Run the match server instead of the game")
	flagListen  = flag.String("listen", "", "Server listen address for -serve")
	flagWS      = flag.String("ws", "", "Websocket listen address for -serve (empty disables)")
	flagSeed    = flag.Int64("seed", 0, "Seed for fleet placement and the computer player")
	flagVersion = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var fleetBoard *ui.FleetBoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var coordInput *tview.InputField
var messages *ui.MessageView
var cfg *config.Config

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("battleship-tui %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *flagServe {
		if err := serve(); err != nil {
			log.Fatal(err)
		}
		return
	}

	quickStart := *flagSingle || *flagMulti

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ⚓ battleship ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	messages = ui.NewMessageView(app, rootPage)
	fleetBoard = ui.NewFleetBoard(app, cfg, gameHint)

	coordInput = tview.NewInputField().
		SetLabel("Shoot at (e.g. a,2; q quits): ").
		SetFieldWidth(8)
	coordInput.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := coordInput.GetText()
			coordInput.SetText("")
			if err := fleetBoard.PlayInput(messages, text); errors.Is(err, game.ErrQuit) {
				leaveGame()
				return
			}
		case tcell.KeyEscape:
			coordInput.SetText("")
		}
		app.SetFocus(fleetBoard.Box)
	})

	gameFrame = ui.CreateGameLayout(fleetBoard, gameHint, messages.TextView(), coordInput)

	// Game board input handling
	fleetBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			if fleetBoard.SelectedTile() != nil && !fleetBoard.IsFinished() {
				fleetBoard.ResetSelection()
			} else {
				leaveGame()
			}
			return nil
		}
		switch event.Key() {
		case tcell.KeyUp:
			fleetBoard.MoveSelection(0, -1)
		case tcell.KeyDown:
			fleetBoard.MoveSelection(0, 1)
		case tcell.KeyLeft:
			fleetBoard.MoveSelection(-1, 0)
		case tcell.KeyRight:
			fleetBoard.MoveSelection(1, 0)
		case tcell.KeyEnter:
			fleetBoard.Fire()
		case tcell.KeyRune:
			switch event.Rune() {
			case 'h':
				fleetBoard.MoveSelection(-1, 0)
			case 'j':
				fleetBoard.MoveSelection(0, 1)
			case 'k':
				fleetBoard.MoveSelection(0, -1)
			case 'l':
				fleetBoard.MoveSelection(1, 0)
			case ':':
				app.SetFocus(coordInput)
				return nil
			}
		}
		return event
	})

	// Game setup screen
	setupUI := ui.NewGameSetup(
		cfg,
		func(gameCfg engine.GameConfig) {
			startGame(gameCfg)
		},
		func() {
			app.Stop()
		},
		func() {
			rootPage.SwitchToPage("colors")
		},
	)

	// Color configuration screen
	colorConfig := ui.NewColorConfig(cfg, func() {
		fleetBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	}, showError)
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI.Form(), 60), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)

	if quickStart {
		gameCfg := setupUI.Config()
		if *flagMulti {
			gameCfg.Mode = engine.Multiplayer
		}
		startGame(gameCfg)
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		panic(err)
	}
	fleetBoard.Close()
}

// applyFlags overrides the loaded config with command-line flags.
func applyFlags(c *config.Config) {
	if *flagName != "" {
		c.Player.Name = *flagName
	}
	if *flagHost != "" {
		c.Player.Host = *flagHost
	}
	if *flagPort != 0 {
		c.Player.Port = *flagPort
	}
	if *flagListen != "" {
		c.Player.Listen = *flagListen
	}
}

// serve runs the match server until interrupted.
func serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srvCfg := server.DefaultConfig()
	srvCfg.Addr = cfg.Player.Listen
	srvCfg.WSAddr = *flagWS
	srvCfg.MoveTimeout = cfg.Player.MoveTimeoutDuration()
	srvCfg.MatchDuration = cfg.Player.MatchDurationDuration()
	log.Printf("battleship-tui %s serving on %s", Version, srvCfg.Addr)
	return server.New(srvCfg).ListenAndServe(ctx)
}

// startGame starts a game with the given configuration.
func startGame(gameCfg engine.GameConfig) {
	if err := config.ValidateName(gameCfg.PlayerName); err != nil {
		showError(err)
		return
	}
	if *flagSeed != 0 {
		gameCfg.Seed = *flagSeed
	}

	var eng engine.GameEngine
	if gameCfg.Mode == engine.Multiplayer {
		eng = remote.NewRemoteEngine(gameCfg, messages)
	} else {
		eng = local.NewLocalEngine(gameCfg, messages)
	}

	messages.Clear()
	if err := fleetBoard.ConnectEngine(eng); err != nil {
		rootPage.SwitchToPage("setup")
		showError(fmt.Errorf("failed to start game: %w", err))
		return
	}
	rootPage.SwitchToPage("gameview")
	app.SetFocus(fleetBoard.Box)
}

// leaveGame closes the running game and returns to the setup screen.
func leaveGame() {
	fleetBoard.Close()
	rootPage.SwitchToPage("setup")
}

// showError displays err in a modal over the current page.
func showError(err error) {
	modal := tview.NewModal().
		SetText(err.Error()).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("error")
		})
	rootPage.AddPage("error", modal, true, true)
}
