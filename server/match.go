package server

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"battleship-tui/board"
	"battleship-tui/game"
	"battleship-tui/protocol"
)

// match is one game between two clients. The server keeps the real
// boards; clients only learn outcomes through UPDATE.
type match struct {
	id      string
	srv     *Server
	players [2]*client
	humans  [2]*game.HumanPlayer
}

func newMatch(s *Server, home, away *client) *match {
	return &match{
		id:      uuid.NewString()[:6],
		srv:     s,
		players: [2]*client{home, away},
	}
}

func (m *match) logf(format string, args ...interface{}) {
	log.Printf("[match %s] "+format, append([]interface{}{m.id}, args...)...)
}

func (m *match) name(s game.Side) string {
	return m.players[s].name
}

func (m *match) broadcast(msg protocol.Message) {
	for _, p := range m.players {
		p.send(msg)
	}
}

func (m *match) run(ctx context.Context) {
	defer func() {
		for _, p := range m.players {
			close(p.quit)
			close(p.finished)
		}
	}()
	m.logf("%s vs %s", m.name(game.Home), m.name(game.Away))

	m.players[game.Home].send(protocol.EnemyNameMsg(m.name(game.Away)))
	m.players[game.Away].send(protocol.EnemyNameMsg(m.name(game.Home)))

	boards, ok := m.collectBoards(ctx)
	if !ok {
		return
	}

	g := game.New(game.Options{
		MatchDuration: m.srv.cfg.MatchDuration,
		PollInterval:  m.srv.cfg.PollInterval,
	})
	for _, s := range []game.Side{game.Home, game.Away} {
		m.humans[s] = game.NewHumanPlayer(g, boards[s], nil, m.srv.cfg.MoveTimeout)
		g.SetPlayer(s, m.humans[s])
	}
	g.OnStart(func(first game.Side) {
		m.logf("%s goes first", m.name(first))
		m.broadcast(protocol.SetupMsg(m.name(first)))
	})
	g.OnMove(func(res game.Result) {
		m.broadcast(protocol.UpdateMsg(res.X, res.Y, res.Shot.Hit, res.Shot.Sunk, res.Late,
			m.name(res.Side), m.name(res.Next)))
	})
	g.OnGameEnd(func(o game.Outcome) {
		winner := ""
		if !o.Tie {
			winner = m.name(o.Winner)
		}
		m.logf("game over: winner %q, score %d-%d", winner, o.Points[game.Home], o.Points[game.Away])
		m.broadcast(protocol.GameOverMsg(winner, o.Reason != game.Forfeit))
	})

	gameCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := g.Start(gameCtx); err != nil {
		m.logf("start: %v", err)
		return
	}

	gone := [2]<-chan struct{}{m.players[game.Home].gone, m.players[game.Away].gone}
	for {
		select {
		case <-g.Done():
			return
		case <-ctx.Done():
			return
		case msg := <-m.players[game.Home].inbox:
			m.handleMessage(g, game.Home, msg)
		case msg := <-m.players[game.Away].inbox:
			m.handleMessage(g, game.Away, msg)
		case <-gone[game.Home]:
			gone[game.Home] = nil
			m.logf("%s left", m.name(game.Home))
			g.Forfeit(game.Home)
		case <-gone[game.Away]:
			gone[game.Away] = nil
			m.logf("%s left", m.name(game.Away))
			g.Forfeit(game.Away)
		}
	}
}

func (m *match) handleMessage(g *game.Game, s game.Side, msg protocol.Message) {
	if msg.Type != protocol.MoveMsg {
		m.logf("%s sent %s during play", m.name(s), msg.Type)
		g.Forfeit(s)
		return
	}
	if err := m.humans[s].Submit(msg.X, msg.Y); err != nil {
		m.logf("%s: move %s rejected: %v", m.name(s), board.FormatCoord(msg.X, msg.Y), err)
	}
}

// collectBoards waits for both CLIENTBOARD messages. A side that leaves,
// misbehaves or runs out of time loses the match.
func (m *match) collectBoards(ctx context.Context) ([2]*board.Board, bool) {
	var boards [2]*board.Board
	timeout := time.NewTimer(m.srv.cfg.MoveTimeout)
	defer timeout.Stop()

	lose := func(s game.Side) ([2]*board.Board, bool) {
		m.players[s.Other()].send(protocol.GameOverMsg(m.name(s.Other()), false))
		return boards, false
	}
	receive := func(s game.Side, msg protocol.Message) bool {
		if msg.Type != protocol.ClientBoard {
			m.logf("%s sent %s instead of a board", m.name(s), msg.Type)
			return false
		}
		b, err := board.Decode(msg.Board)
		if err != nil {
			m.logf("%s sent a bad board: %v", m.name(s), err)
			return false
		}
		boards[s] = b
		return true
	}

	for boards[game.Home] == nil || boards[game.Away] == nil {
		select {
		case <-ctx.Done():
			return boards, false
		case msg := <-m.players[game.Home].inbox:
			if !receive(game.Home, msg) {
				return lose(game.Home)
			}
		case msg := <-m.players[game.Away].inbox:
			if !receive(game.Away, msg) {
				return lose(game.Away)
			}
		case <-m.players[game.Home].gone:
			return lose(game.Home)
		case <-m.players[game.Away].gone:
			return lose(game.Away)
		case <-timeout.C:
			switch {
			case boards[game.Home] == nil && boards[game.Away] == nil:
				m.broadcast(protocol.GameOverMsg("", false))
				return boards, false
			case boards[game.Home] == nil:
				return lose(game.Home)
			default:
				return lose(game.Away)
			}
		}
	}
	return boards, true
}
