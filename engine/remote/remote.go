// Package remote provides a multiplayer engine that plays through a match
// server using the line protocol.
package remote

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"battleship-tui/board"
	"battleship-tui/engine"
	"battleship-tui/game"
	"battleship-tui/protocol"
	"battleship-tui/types"
)

var debugLog *log.Logger

func init() {
	var w io.Writer = io.Discard
	if f, err := os.Create("/tmp/battleship-debug.log"); err == nil {
		w = f
	}
	debugLog = log.New(w, "", log.Ltime|log.Lmicroseconds)
}

// DialTimeout bounds connection setup.
const DialTimeout = 5 * time.Second

// ConnectError reports that the server could not be reached.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("server %s unavailable: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// RemoteEngine implements the GameEngine interface against a match server.
type RemoteEngine struct {
	config engine.GameConfig
	view   engine.View
	conn   protocol.Conn

	mu       sync.Mutex
	name     string
	own      *board.Board
	enemy    *board.EnemyBoard
	state    *types.GameState
	myTurn   bool
	gameOver bool
	closing  bool

	moveCallback func(ev types.MoveEvent, state *types.GameState)
	endCallback  func(outcome string)
}

// NewRemoteEngine creates an engine that joins the server named in cfg.
// view.Prompt is used when the server rejects the player's name.
func NewRemoteEngine(cfg engine.GameConfig, view engine.View) *RemoteEngine {
	return &RemoteEngine{
		config: cfg,
		view:   view,
		name:   cfg.PlayerName,
		enemy:  board.NewEnemyBoard(),
		state:  types.NewGameState(cfg.PlayerName),
	}
}

// Connect deals the fleet, dials the server and sends HANDSHAKE. The rest
// of the match is driven by messages from the server.
func (e *RemoteEngine) Connect() error {
	seed := e.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	own, err := board.Generate(rand.New(rand.NewSource(seed)))
	if err != nil {
		return fmt.Errorf("failed to deal fleet: %w", err)
	}

	conn, err := dial(e.config)
	if err != nil {
		return err
	}
	debugLog.Printf("Connect: connected to %s as %q", conn.RemoteAddr(), e.name)

	e.mu.Lock()
	e.own = own
	e.conn = conn
	e.state.Own = own.Grid()
	e.mu.Unlock()

	if err := conn.Send(protocol.HandshakeMsg(e.name)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to send handshake: %w", err)
	}
	e.view.Show("Connected. Waiting for the server...")

	go e.readLoop()
	return nil
}

// dial opens a stream connection, or a websocket for ws:// and wss:// hosts.
func dial(cfg engine.GameConfig) (protocol.Conn, error) {
	if strings.HasPrefix(cfg.Host, "ws://") || strings.HasPrefix(cfg.Host, "wss://") {
		dialer := websocket.Dialer{HandshakeTimeout: DialTimeout}
		ws, _, err := dialer.Dial(cfg.Host, nil)
		if err != nil {
			return nil, &ConnectError{Addr: cfg.Host, Err: err}
		}
		return protocol.NewWebSocketConn(ws), nil
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c, err := net.DialTimeout("tcp", addr, DialTimeout)
	if err != nil {
		return nil, &ConnectError{Addr: addr, Err: err}
	}
	return protocol.NewStreamConn(c), nil
}

func (e *RemoteEngine) readLoop() {
	for {
		m, err := e.conn.Receive()
		if err != nil {
			e.mu.Lock()
			quiet := e.closing || e.gameOver
			e.mu.Unlock()
			if !quiet {
				debugLog.Printf("readLoop: %v", err)
				e.fail(err)
				e.conn.Close()
			}
			return
		}
		debugLog.Printf("readLoop: received '%s'", m)
		if err := e.handle(m); err != nil {
			debugLog.Printf("readLoop: %v", err)
			e.fail(err)
			e.conn.Close()
			return
		}
	}
}

func (e *RemoteEngine) handle(m protocol.Message) error {
	switch m.Type {
	case protocol.Handshake:
		e.view.Show("Waiting for an opponent...")
	case protocol.NameExists:
		return e.rename()
	case protocol.EnemyName:
		e.mu.Lock()
		e.state.EnemyName = m.Name
		tokens := e.own.Encode()
		e.mu.Unlock()
		e.view.Show(fmt.Sprintf("Playing against %s.", m.Name))
		return e.conn.Send(protocol.ClientBoardMsg(tokens))
	case protocol.Setup:
		e.mu.Lock()
		e.myTurn = m.Name == e.name
		e.state.Phase = "playing"
		e.state.MyTurn = e.myTurn
		myTurn := e.myTurn
		e.mu.Unlock()
		if myTurn {
			e.view.Show("Coin flip: you go first. " + game.MsgYourMove)
		} else {
			e.view.Show(fmt.Sprintf("Coin flip: %s goes first.", m.Name))
		}
	case protocol.Update:
		e.applyUpdate(m)
	case protocol.GameOver:
		e.finish(m)
	default:
		return &protocol.ProtocolError{Line: m.Encode(), Reason: "unexpected message from server"}
	}
	return nil
}

// rename asks the player for a new name and retries the handshake.
func (e *RemoteEngine) rename() error {
	question := fmt.Sprintf("The name %q is taken. Pick another:", e.name)
	for {
		name, err := e.view.Prompt(question)
		if err != nil {
			return fmt.Errorf("no new name: %w", err)
		}
		name = strings.TrimSpace(name)
		if name == "" || strings.ContainsAny(name, ";\n") {
			question = "Names must be non-empty and cannot contain ';'. Pick another:"
			continue
		}
		e.mu.Lock()
		e.name = name
		e.state.PlayerName = name
		e.mu.Unlock()
		return e.conn.Send(protocol.HandshakeMsg(name))
	}
}

func (e *RemoteEngine) applyUpdate(m protocol.Message) {
	e.mu.Lock()
	mine := m.Who == e.name
	switch {
	case m.Late:
		e.myTurn = !mine
	case mine:
		e.enemy.MakeMove(m.X, m.Y, m.Hit)
		e.own.AddScore(m.Hit, m.Sunk)
		e.myTurn = m.Hit
		e.state.LastShot = types.BoardPos{X: m.X, Y: m.Y}
	default:
		e.own.MakeMove(m.X, m.Y)
		e.enemy.AddScore(m.Hit, m.Sunk)
		e.myTurn = !m.Hit
		e.state.LastIncoming = types.BoardPos{X: m.X, Y: m.Y}
	}
	e.state.MoveNumber++
	ev := types.MoveEvent{
		Mine:       mine,
		X:          m.X,
		Y:          m.Y,
		Hit:        m.Hit,
		Sunk:       m.Sunk,
		Late:       m.Late,
		MoveNumber: e.state.MoveNumber,
	}
	state := e.snapshotLocked()
	myTurn := e.myTurn
	callback := e.moveCallback
	e.mu.Unlock()

	mr := engine.MoveResult{X: m.X, Y: m.Y, Hit: m.Hit, Sunk: m.Sunk, Late: m.Late}
	if mine {
		e.view.Show(engine.ShotMessage(mr))
	} else {
		e.view.Show(engine.IncomingMessage(mr))
		if myTurn {
			e.view.Show(game.MsgYourMove)
		}
	}

	// Notify callback (outside lock to prevent deadlock)
	if callback != nil {
		callback(ev, state)
	}
}

func (e *RemoteEngine) finish(m protocol.Message) {
	e.mu.Lock()
	var result types.Result
	var reason game.Reason
	switch {
	case !m.WinType:
		result, reason = types.Win, game.Forfeit
		if m.Name != "" && m.Name != e.name {
			result = types.Loss
		}
	case m.Name == "":
		result, reason = types.Tie, game.TimeUp
	default:
		result = types.Loss
		if m.Name == e.name {
			result = types.Win
		}
		reason = game.TimeUp
		if _, hits := e.enemy.Shots(); hits == board.FleetCells || e.own.AllShipsDestroyed() {
			reason = game.FleetDestroyed
		}
	}
	e.gameOver = true
	e.myTurn = false
	e.state.Phase = "finished"
	e.state.Result = result
	e.state.Outcome = engine.OutcomeText(result, reason)
	outcome := e.state.Outcome
	callback := e.endCallback
	e.mu.Unlock()

	e.view.Show(outcome)
	if callback != nil {
		callback(outcome)
	}
}

// fail ends the session after a transport or protocol error.
func (e *RemoteEngine) fail(err error) {
	e.mu.Lock()
	if e.gameOver {
		e.mu.Unlock()
		return
	}
	e.gameOver = true
	e.myTurn = false
	e.state.Phase = "finished"
	var perr *protocol.ProtocolError
	if errors.As(err, &perr) {
		e.state.Outcome = "Session ended: " + perr.Error()
	} else {
		e.state.Outcome = "Connection lost: " + err.Error()
	}
	outcome := e.state.Outcome
	callback := e.endCallback
	e.mu.Unlock()

	e.view.Show(outcome)
	if callback != nil {
		callback(outcome)
	}
}

// snapshotLocked copies the boards into the state.
// Must be called while holding the lock.
func (e *RemoteEngine) snapshotLocked() *types.GameState {
	if e.own != nil {
		e.state.Own = e.own.Grid()
		e.state.MyScore = e.own.Score()
	}
	e.state.Target = e.enemy.Marks()
	e.state.EnemyScore = e.enemy.Score()
	e.state.ShotsFired, e.state.ShotsHit = e.enemy.Shots()
	e.state.MyTurn = e.myTurn && !e.gameOver
	return e.state.Copy()
}

// GetState returns a snapshot of the game.
func (e *RemoteEngine) GetState() *types.GameState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// PlayMove sends a MOVE for (x, y). The outcome arrives as an UPDATE.
func (e *RemoteEngine) PlayMove(x, y int) error {
	e.mu.Lock()
	if e.gameOver || e.conn == nil {
		e.mu.Unlock()
		return engine.ErrGameOver
	}
	if !e.myTurn {
		e.mu.Unlock()
		e.view.Show(game.MsgNotYourTurn)
		return game.ErrNotYourTurn
	}
	if !e.enemy.IsValidMove(x, y) {
		e.mu.Unlock()
		e.view.Show(game.MsgInvalidMove)
		return game.ErrInvalidMove
	}
	// Wait for the server's UPDATE before firing again.
	e.myTurn = false
	conn := e.conn
	e.mu.Unlock()

	debugLog.Printf("PlayMove: firing at %s", board.FormatCoord(x, y))
	if err := conn.Send(protocol.MoveMsgAt(x, y)); err != nil {
		e.fail(err)
		return err
	}
	return nil
}

// IsMyTurn returns true if the server expects our shot.
func (e *RemoteEngine) IsMyTurn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.myTurn && !e.gameOver
}

// OnMove registers a callback for every UPDATE.
func (e *RemoteEngine) OnMove(callback func(ev types.MoveEvent, state *types.GameState)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moveCallback = callback
}

// OnGameEnd registers a callback for GAMEOVER or a lost connection.
func (e *RemoteEngine) OnGameEnd(callback func(outcome string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endCallback = callback
}

// Close sends EXIT if the match is still running and hangs up.
func (e *RemoteEngine) Close() {
	e.mu.Lock()
	if e.closing || e.conn == nil {
		e.mu.Unlock()
		return
	}
	e.closing = true
	running := !e.gameOver
	conn := e.conn
	e.mu.Unlock()

	if running {
		conn.Send(protocol.ExitMsg())
	}
	conn.Close()
}
