package server

import (
	"context"
	"math/rand"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"battleship-tui/board"
	"battleship-tui/protocol"
)

func startServer(t *testing.T, cfg Config) (*Server, string) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := New(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Serve(ctx, l)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return srv, l.Addr().String()
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.MoveTimeout = 5 * time.Second
	cfg.PollInterval = 10 * time.Millisecond
	return cfg
}

type testClient struct {
	t    *testing.T
	conn protocol.Conn
}

func dial(t *testing.T, addr string) *testClient {
	t.Helper()
	c, err := net.DialTimeout("tcp", addr, time.Second)
	require.NoError(t, err)
	tc := &testClient{t: t, conn: protocol.NewStreamConn(c)}
	t.Cleanup(func() { tc.conn.Close() })
	return tc
}

func (c *testClient) send(m protocol.Message) {
	c.t.Helper()
	require.NoError(c.t, c.conn.Send(m))
}

// expect reads the next message and checks its type.
func (c *testClient) expect(typ protocol.Type) protocol.Message {
	c.t.Helper()
	type result struct {
		m   protocol.Message
		err error
	}
	ch := make(chan result, 1)
	go func() {
		m, err := c.conn.Receive()
		ch <- result{m, err}
	}()
	select {
	case r := <-ch:
		require.NoError(c.t, r.err)
		require.Equal(c.t, typ, r.m.Type, "got %s", r.m)
		return r.m
	case <-time.After(5 * time.Second):
		c.t.Fatalf("timed out waiting for %s", typ)
		return protocol.Message{}
	}
}

// pair connects alice and bob and takes them through the handshake.
func pair(t *testing.T, addr string) (*testClient, *testClient) {
	alice := dial(t, addr)
	alice.send(protocol.HandshakeMsg("alice"))
	alice.expect(protocol.Handshake)

	bob := dial(t, addr)
	bob.send(protocol.HandshakeMsg("bob"))
	bob.expect(protocol.Handshake)

	require.Equal(t, "bob", alice.expect(protocol.EnemyName).Name)
	require.Equal(t, "alice", bob.expect(protocol.EnemyName).Name)
	return alice, bob
}

func fleet(t *testing.T, seed int64) *board.Board {
	b, err := board.Generate(rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return b
}

func firstCell(b *board.Board, ship bool) board.Pos {
	for y := 0; y < board.Height; y++ {
		for x := 0; x < board.Width; x++ {
			if b.At(x, y).IsShip() == ship {
				return board.Pos{X: x, Y: y}
			}
		}
	}
	return board.Pos{X: -1, Y: -1}
}

func TestNameExists(t *testing.T) {
	_, addr := startServer(t, testConfig())

	alice := dial(t, addr)
	alice.send(protocol.HandshakeMsg("alice"))
	alice.expect(protocol.Handshake)

	impostor := dial(t, addr)
	impostor.send(protocol.HandshakeMsg("alice"))
	impostor.expect(protocol.NameExists)
	impostor.send(protocol.HandshakeMsg("alice2"))
	impostor.expect(protocol.Handshake)

	require.Equal(t, "alice2", alice.expect(protocol.EnemyName).Name)
	require.Equal(t, "alice", impostor.expect(protocol.EnemyName).Name)
}

func TestMatchFlow(t *testing.T) {
	srv, addr := startServer(t, testConfig())
	alice, bob := pair(t, addr)

	boards := map[string]*board.Board{"alice": fleet(t, 1), "bob": fleet(t, 2)}
	alice.send(protocol.ClientBoardMsg(boards["alice"].Encode()))
	bob.send(protocol.ClientBoardMsg(boards["bob"].Encode()))

	first := alice.expect(protocol.Setup).Name
	require.Equal(t, first, bob.expect(protocol.Setup).Name)
	require.Equal(t, 1, srv.Matches())

	clients := map[string]*testClient{"alice": alice, "bob": bob}
	second := "bob"
	if first == "bob" {
		second = "alice"
	}

	// A miss passes the turn.
	water := firstCell(boards[second], false)
	clients[first].send(protocol.MoveMsgAt(water.X, water.Y))
	for _, c := range clients {
		u := c.expect(protocol.Update)
		require.Equal(t, water.X, u.X)
		require.Equal(t, water.Y, u.Y)
		require.False(t, u.Hit)
		require.False(t, u.Late)
		require.Equal(t, first, u.Who)
		require.Equal(t, second, u.Next)
	}

	// Out of turn moves are ignored.
	clients[first].send(protocol.MoveMsgAt(water.X, water.Y))

	// A hit keeps it.
	ship := firstCell(boards[first], true)
	clients[second].send(protocol.MoveMsgAt(ship.X, ship.Y))
	for _, c := range clients {
		u := c.expect(protocol.Update)
		require.True(t, u.Hit)
		require.Equal(t, second, u.Who)
		require.Equal(t, second, u.Next)
	}

	clients[second].send(protocol.ExitMsg())
	over := clients[first].expect(protocol.GameOver)
	require.Equal(t, first, over.Name)
	require.False(t, over.WinType)
}

func TestLateMove(t *testing.T) {
	cfg := testConfig()
	cfg.MoveTimeout = 100 * time.Millisecond
	_, addr := startServer(t, cfg)
	alice, bob := pair(t, addr)
	alice.send(protocol.ClientBoardMsg(fleet(t, 3).Encode()))
	bob.send(protocol.ClientBoardMsg(fleet(t, 4).Encode()))

	first := alice.expect(protocol.Setup).Name
	bob.expect(protocol.Setup)

	u := alice.expect(protocol.Update)
	require.True(t, u.Late)
	require.False(t, u.Hit)
	require.Equal(t, first, u.Who)
	require.NotEqual(t, first, u.Next)
}

func TestBadBoardLoses(t *testing.T) {
	_, addr := startServer(t, testConfig())
	alice, bob := pair(t, addr)

	water := make([]string, board.Width*board.Height)
	for i := range water {
		water[i] = "WATER"
	}
	alice.send(protocol.ClientBoardMsg(fleet(t, 5).Encode()))
	bob.send(protocol.ClientBoardMsg(water))

	over := alice.expect(protocol.GameOver)
	require.Equal(t, "alice", over.Name)
	require.False(t, over.WinType)
}

func TestMatchDeadlineTie(t *testing.T) {
	cfg := testConfig()
	cfg.MatchDuration = 200 * time.Millisecond
	_, addr := startServer(t, cfg)
	alice, bob := pair(t, addr)
	alice.send(protocol.ClientBoardMsg(fleet(t, 6).Encode()))
	bob.send(protocol.ClientBoardMsg(fleet(t, 7).Encode()))
	alice.expect(protocol.Setup)
	bob.expect(protocol.Setup)

	for _, c := range []*testClient{alice, bob} {
		over := c.expect(protocol.GameOver)
		require.Empty(t, over.Name)
		require.True(t, over.WinType)
	}
}

func TestWebSocketPlayer(t *testing.T) {
	srv, addr := startServer(t, testConfig())
	hs := httptest.NewServer(srv)
	defer hs.Close()

	alice := dial(t, addr)
	alice.send(protocol.HandshakeMsg("alice"))
	alice.expect(protocol.Handshake)

	url := "ws" + strings.TrimPrefix(hs.URL, "http") + WebSocketPath
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	bob := &testClient{t: t, conn: protocol.NewWebSocketConn(ws)}
	defer bob.conn.Close()

	bob.send(protocol.HandshakeMsg("bob"))
	bob.expect(protocol.Handshake)
	require.Equal(t, "alice", bob.expect(protocol.EnemyName).Name)
	require.Equal(t, "bob", alice.expect(protocol.EnemyName).Name)

	bob.send(protocol.ExitMsg())
	over := alice.expect(protocol.GameOver)
	require.Equal(t, "alice", over.Name)
	require.False(t, over.WinType)
}
