// Package web serves a read-only spectator feed of running games over
// WebSocket. Each game publishes snapshots to its own channel; spectators
// subscribe to one channel by name.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/star-strike/internal/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// DefaultRate is the snapshot rate per channel when none is configured.
	DefaultRate = 15
)

// Feed events.
const (
	EventSnapshot = "snapshot"
	EventEnded    = "session_ended"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Spectating is read-only, so any origin may watch.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Message is one frame of the feed.
type Message struct {
	Session  string           `json:"session"`
	Event    string           `json:"event"`
	Snapshot *engine.Snapshot `json:"snapshot,omitempty"`
}

// Client is one connected spectator.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	session string
}

type envelope struct {
	session string
	data    []byte
	final   bool // last frame of the session; its spectators are released after it
}

// Hub fans snapshots out to the spectators of each channel.
type Hub struct {
	// Run loop state.
	sessions   map[string]map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu       sync.Mutex
	watchers map[string]int
	channels map[string]struct{}

	interval time.Duration
	clock    func() time.Time
	logger   *log.Logger
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(l *log.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithRate caps snapshots per second on each channel.
func WithRate(perSecond int) Option {
	return func(h *Hub) {
		if perSecond > 0 {
			h.interval = time.Second / time.Duration(perSecond)
		}
	}
}

// WithClock overrides time.Now for throttling.
func WithClock(clock func() time.Time) Option {
	return func(h *Hub) {
		h.clock = clock
	}
}

// NewHub creates a hub. Call Run to start delivering messages.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan envelope, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		watchers:   make(map[string]int),
		channels:   make(map[string]struct{}),
		interval:   time.Second / DefaultRate,
		clock:      time.Now,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run starts the hub's event loop and returns when ctx is done.
// It must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.sessions {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return

		case client := <-h.register:
			// The session may have ended between the handshake and now.
			if !h.isOpen(client.session) {
				close(client.send)
				continue
			}
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

// registerClient adds a client to a session.
func (h *Hub) registerClient(client *Client) {
	if h.sessions[client.session] == nil {
		h.sessions[client.session] = make(map[*Client]bool)
	}
	h.sessions[client.session][client] = true

	h.mu.Lock()
	h.watchers[client.session]++
	h.mu.Unlock()

	h.logger.Info("spectator joined", "session", client.session, "watchers", len(h.sessions[client.session]))
}

// unregisterClient removes a client from a session.
func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.sessions[client.session]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.sessions, client.session)
	}

	h.mu.Lock()
	if h.watchers[client.session]--; h.watchers[client.session] <= 0 {
		delete(h.watchers, client.session)
	}
	h.mu.Unlock()

	h.logger.Info("spectator left", "session", client.session, "watchers", len(clients))
}

// deliver sends data to every client of a session. Slow clients are dropped.
// After a final envelope every client is unregistered, which makes its
// writePump flush the queue and send a close frame.
func (h *Hub) deliver(env envelope) {
	for client := range h.sessions[env.session] {
		select {
		case client.send <- env.data:
		default:
			h.unregisterClient(client)
		}
	}
	if env.final {
		for client := range h.sessions[env.session] {
			h.unregisterClient(client)
		}
	}
}

// Watching reports how many spectators follow a session.
func (h *Hub) Watching(session string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.watchers[session]
}

// Sessions lists the open channels in name order.
func (h *Hub) Sessions() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.channels))
	for name := range h.channels {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (h *Hub) isOpen(session string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.channels[session]
	return ok
}

// Channel opens a publishing channel for one game session.
func (h *Hub) Channel(session string) *Channel {
	h.mu.Lock()
	h.channels[session] = struct{}{}
	h.mu.Unlock()
	return &Channel{hub: h, session: session, lastPhase: -1}
}

// send queues a message without blocking the game loop. Snapshots are
// dropped when the backlog is full; a final message is handed to a goroutine
// instead so spectators are always released.
func (h *Hub) send(msg Message, final bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Warn("cannot encode feed message", "session", msg.Session, "err", err)
		return
	}
	env := envelope{session: msg.Session, data: data, final: final}
	select {
	case h.broadcast <- env:
	default:
		if !final {
			h.logger.Debug("feed backlog full, frame dropped", "session", msg.Session)
			return
		}
		go func() {
			select {
			case h.broadcast <- env:
			case <-h.done:
			}
		}()
	}
}

// Channel publishes one session's snapshots at the hub's rate.
// It satisfies the terminal UI's publisher interface.
type Channel struct {
	hub       *Hub
	session   string
	mu        sync.Mutex
	last      time.Time
	lastPhase engine.Phase
	closed    bool
}

// Session returns the channel name.
func (c *Channel) Session() string {
	return c.session
}

// Publish forwards a snapshot when someone is watching and the rate allows.
// Phase changes are always forwarded.
func (c *Channel) Publish(snap engine.Snapshot) {
	if c.hub.Watching(c.session) == 0 {
		return
	}

	c.mu.Lock()
	now := c.hub.clock()
	due := snap.Phase != c.lastPhase || now.Sub(c.last) >= c.hub.interval
	if c.closed || !due {
		c.mu.Unlock()
		return
	}
	c.last, c.lastPhase = now, snap.Phase
	c.mu.Unlock()

	c.hub.send(Message{Session: c.session, Event: EventSnapshot, Snapshot: &snap}, false)
}

// Close removes the channel, tells its spectators the game ended and then
// disconnects them.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.hub.mu.Lock()
	delete(c.hub.channels, c.session)
	c.hub.mu.Unlock()

	c.hub.send(Message{Session: c.session, Event: EventEnded}, true)
}

// ServeWS upgrades a request and subscribes it to session.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, session string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, 256),
		session: session,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// Handler routes /ws?session=NAME to the feed and /sessions to the
// channel list. A missing session name picks the only open channel; a name
// with no open channel is 404.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		session := r.URL.Query().Get("session")
		if session == "" {
			sessions := h.Sessions()
			if len(sessions) != 1 {
				http.Error(w, "session query parameter required", http.StatusBadRequest)
				return
			}
			session = sessions[0]
		} else if !h.isOpen(session) {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}
		h.ServeWS(w, r, session)
	})
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck // Client may have gone away
		json.NewEncoder(w).Encode(h.Sessions())
	})
	return mux
}

// ListenAndServe runs the hub and an HTTP server on addr until ctx is done.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go h.Run(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		//nolint:errcheck // Best-effort shutdown
		srv.Shutdown(shutdownCtx)
	}()

	h.logger.Info("spectator feed listening", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// readPump keeps the connection alive and notices when the peer leaves.
// Spectators never send anything meaningful.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // Deadline errors surface on the next read
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket closed", "session", c.session, "err", err)
			}
			return
		}
	}
}

// writePump sends queued frames, one WebSocket message per frame.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			//nolint:errcheck // Deadline errors surface on the write
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				//nolint:errcheck // Peer may already be gone
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			//nolint:errcheck // Deadline errors surface on the write
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
