// Package server hosts multiplayer matches. Clients connect over TCP or a
// websocket, pick a name, and are paired in arrival order.
package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"battleship-tui/game"
	"battleship-tui/protocol"
)

// WebSocketPath is where the websocket endpoint is mounted.
const WebSocketPath = "/battleship"

// Config holds server settings.
type Config struct {
	Addr          string // TCP listen address
	WSAddr        string // HTTP listen address for websockets, empty to disable
	MoveTimeout   time.Duration
	MatchDuration time.Duration
	PollInterval  time.Duration
}

// DefaultConfig returns the settings used by -serve.
func DefaultConfig() Config {
	return Config{
		Addr:          ":8888",
		MoveTimeout:   game.DefaultMoveTimeout,
		MatchDuration: game.DefaultMatchDuration,
		PollInterval:  game.DefaultPollInterval,
	}
}

// Server pairs clients into matches.
type Server struct {
	cfg      Config
	upgrader websocket.Upgrader

	mu      sync.Mutex
	waiting *client
	matches map[string]*match

	wg sync.WaitGroup
}

// New creates a server.
func New(cfg Config) *Server {
	if cfg.MoveTimeout <= 0 {
		cfg.MoveTimeout = game.DefaultMoveTimeout
	}
	if cfg.MatchDuration <= 0 {
		cfg.MatchDuration = game.DefaultMatchDuration
	}
	return &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		matches: make(map[string]*match),
	}
}

// ListenAndServe listens on the configured addresses until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	log.Printf("Listening for players on %s...", l.Addr())

	if s.cfg.WSAddr != "" {
		mux := http.NewServeMux()
		mux.Handle(WebSocketPath, s)
		httpSrv := &http.Server{Addr: s.cfg.WSAddr, Handler: mux}
		go func() {
			log.Printf("Listening for websocket players on %s%s...", s.cfg.WSAddr, WebSocketPath)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Println(err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpSrv.Shutdown(shutdownCtx)
		}()
	}
	return s.Serve(ctx, l)
}

// Serve accepts stream connections on l until ctx is done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	go func() {
		<-ctx.Done()
		l.Close()
	}()
	for {
		c, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.wg.Wait()
				return nil
			}
			return err
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, protocol.NewStreamConn(c))
		}()
	}
}

// ServeHTTP upgrades the request to a websocket and serves one client.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	s.handle(r.Context(), protocol.NewWebSocketConn(ws))
}

// Matches returns the number of matches in progress.
func (s *Server) Matches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

// handle runs one connection from HANDSHAKE until its match is over.
func (s *Server) handle(ctx context.Context, conn protocol.Conn) {
	defer conn.Close()

	c := newClient(conn)
	opponent, ok := s.join(c)
	if !ok {
		return
	}
	if err := conn.Send(protocol.HandshakeAck()); err != nil {
		log.Printf("[%s] %v", c.id, err)
		s.leave(c)
		return
	}
	go c.readLoop()

	if opponent != nil {
		m := newMatch(s, opponent, c)
		s.track(m, true)
		m.run(ctx)
		s.track(m, false)
		return
	}

	log.Printf("[%s] %s is waiting for an opponent", c.id, c.name)
	select {
	case <-c.finished:
	case <-c.gone:
		if !s.leave(c) {
			<-c.finished
		}
	case <-ctx.Done():
		s.leave(c)
	}
}

// join reads HANDSHAKE lines until the name is accepted. It returns the
// waiting opponent, or nil when c becomes the waiting client.
func (s *Server) join(c *client) (*client, bool) {
	for {
		m, err := c.conn.Receive()
		if err != nil {
			log.Printf("[%s] handshake: %v", c.id, err)
			return nil, false
		}
		if m.Type == protocol.Exit {
			return nil, false
		}
		if m.Type != protocol.Handshake || m.Name == "" {
			log.Printf("[%s] expected HANDSHAKE, got %s", c.id, m.Type)
			return nil, false
		}

		s.mu.Lock()
		if s.waiting != nil && s.waiting.isGone() {
			s.waiting = nil
		}
		if s.waiting != nil && s.waiting.name == m.Name {
			s.mu.Unlock()
			if err := c.conn.Send(protocol.NameExistsMsg()); err != nil {
				return nil, false
			}
			continue
		}
		c.name = m.Name
		opponent := s.waiting
		if opponent == nil {
			s.waiting = c
		} else {
			s.waiting = nil
		}
		s.mu.Unlock()
		return opponent, true
	}
}

// leave removes c from the lobby and reports whether it was still there.
func (s *Server) leave(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waiting == c {
		s.waiting = nil
		return true
	}
	return false
}

func (s *Server) track(m *match, running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if running {
		s.matches[m.id] = m
	} else {
		delete(s.matches, m.id)
	}
}

// client is one connected player.
type client struct {
	id   string
	name string
	conn protocol.Conn

	inbox    chan protocol.Message
	gone     chan struct{} // closed when the reader stops
	quit     chan struct{} // closed when the match drops the client
	finished chan struct{} // closed when the client's match is over
	err      error
}

func newClient(conn protocol.Conn) *client {
	return &client{
		id:       uuid.NewString()[:10],
		conn:     conn,
		inbox:    make(chan protocol.Message, 16),
		gone:     make(chan struct{}),
		quit:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// readLoop forwards messages to inbox until EXIT or a read error.
func (c *client) readLoop() {
	defer close(c.gone)
	for {
		m, err := c.conn.Receive()
		if err != nil {
			c.err = err
			return
		}
		if m.Type == protocol.Exit {
			return
		}
		select {
		case c.inbox <- m:
		case <-c.quit:
			return
		}
	}
}

func (c *client) isGone() bool {
	select {
	case <-c.gone:
		return true
	default:
		return false
	}
}

func (c *client) send(m protocol.Message) {
	if err := c.conn.Send(m); err != nil {
		log.Printf("[%s] %v", c.id, err)
	}
}
