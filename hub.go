// Food Fest Games
//
// Every visitor gets a session, identified by a cookie. All browser tabs
// sharing that cookie connect to the same hub over a WebSocket, and the
// hub is the only goroutine that touches the session's game state.
//
// Flow:
// - The browser sends one action per message ("login", "select", "number_guess", ...)
// - The hub applies it through the session router
// - The hub pushes the complete re-rendered view to every tab of the session
// - Idle sessions are reaped after --session-timeout, discarding their games

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/foodfest/session"
)

// ViewMessage carries the full state of the session.
type ViewMessage struct {
	Type string `json:"type"` // "view"
	session.View
}

// SimpleMessage is for transient notifications ("busy").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Client struct {
	conn      *websocket.Conn
	send      chan any
	sessionID string
}

type actionRequest struct {
	client *Client
	action session.Action
}

type Hub struct {
	id      string
	session *session.Session
	arcade  *session.Router
	sounds  *soundLibrary

	ctx    context.Context
	cancel context.CancelFunc

	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	actions  chan actionRequest
	done     chan struct{}

	closeOnce  sync.Once
	mu         sync.RWMutex
	closed     bool
	lastActive time.Time
}

func newHub(id string, arcade *session.Router, sounds *soundLibrary) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		id:         id,
		session:    session.New(id),
		arcade:     arcade,
		sounds:     sounds,
		ctx:        ctx,
		cancel:     cancel,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		actions:    make(chan actionRequest),
		done:       make(chan struct{}),
		lastActive: time.Now(),
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.closed {
				close(c.send)
				_ = c.conn.Close()
				h.mu.Unlock()
				continue
			}
			h.lastActive = time.Now()
			h.clients[c] = true
			h.sendLocked(c, h.viewMessage(""))
			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case req := <-h.actions:
			h.handleAction(cfg, req)
		}
	}
}

// handleAction runs on the hub goroutine. The session is never shared, so
// h.mu is only held while talking to clients.
func (h *Hub) handleAction(cfg *Config, req actionRequest) {
	h.mu.Lock()
	h.lastActive = time.Now()
	if req.action.Type == session.ActionQuizGenerate {
		h.broadcastLocked(SimpleMessage{
			Type:    "busy",
			Message: "Generating quiz questions...",
		})
	}
	h.mu.Unlock()

	res, err := h.arcade.Dispatch(h.ctx, h.session, req.action)
	if err != nil {
		logf(cfg, "SESSION: %s rejected %q: %v", shortID(h.id), req.action.Type, err)
	} else {
		logf(cfg, "SESSION: %s applied %q", shortID(h.id), req.action.Type)
	}

	h.mu.Lock()
	h.lastActive = time.Now()
	h.broadcastLocked(h.viewMessage(h.sounds.URL(res.Cue)))
	h.mu.Unlock()
}

func (h *Hub) viewMessage(sound string) ViewMessage {
	v := h.arcade.Render(h.session)
	v.Sound = sound

	return ViewMessage{Type: "view", View: v}
}

// sendLocked assumes h.mu is already held.
func (h *Hub) sendLocked(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcastLocked(msg any) {
	for client := range h.clients {
		h.sendLocked(client, msg)
	}
}

// closeAll disconnects all clients of this hub and stops it (used by reaper).
func (h *Hub) closeAll() {
	h.closeOnce.Do(func() {
		h.cancel()
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		h.closed = true
		for c := range h.clients {
			close(c.send)
			_ = c.conn.Close()
			delete(h.clients, c)
		}
	})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const sessionCookieName = "foodfest_id"

// getOrSetSessionID returns the session ID from the request cookie, or
// sets a fresh one on w.
func getOrSetSessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}

	id := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// HubManager holds a hub per session ID.
type HubManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration

	arcade *session.Router
	sounds *soundLibrary

	stop     chan struct{}
	stopOnce sync.Once
}

func newHubManager(cfg *Config, arcade *session.Router, sounds *soundLibrary) *HubManager {
	hm := &HubManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
		arcade:      arcade,
		sounds:      sounds,
		stop:        make(chan struct{}),
	}
	if hm.idleTimeout > 0 {
		go hm.reaperLoop(cfg)
	}
	return hm
}

func (hm *HubManager) getHub(cfg *Config, id string) *Hub {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	if hub, ok := hm.hubs[id]; ok {
		return hub
	}

	hub := newHub(id, hm.arcade, hm.sounds)
	hm.hubs[id] = hub
	go hub.run(cfg)

	logf(cfg, "SESSION: Started %s", shortID(id))

	return hub
}

func (hm *HubManager) count() int {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	return len(hm.hubs)
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (hm *HubManager) reaperLoop(cfg *Config) {
	ticker := time.NewTicker(hm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-hm.stop:
			return
		case <-ticker.C:
			hm.reap(cfg, time.Now().Add(-hm.idleTimeout))
		}
	}
}

func (hm *HubManager) reap(cfg *Config, cutoff time.Time) {
	hm.mu.Lock()
	defer hm.mu.Unlock()

	for id, hub := range hm.hubs {
		hub.mu.RLock()
		last := hub.lastActive
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(hm.hubs, id)
			go hub.closeAll()
			logf(cfg, "SESSION: Ended idle session %s", shortID(id))
		}
	}
}

// Close stops the reaper and ends every session.
func (hm *HubManager) Close() {
	hm.stopOnce.Do(func() { close(hm.stop) })

	hm.mu.Lock()
	defer hm.mu.Unlock()

	for id, hub := range hm.hubs {
		delete(hm.hubs, id)
		hub.closeAll()
	}
}

// serveWS attaches the connection to the hub of the caller's session.
func serveWS(cfg *Config, hm *HubManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sessionID := getOrSetSessionID(w, r)

		// The upgrade response is written directly to the connection, so
		// a freshly issued cookie has to be passed along explicitly.
		var header http.Header
		if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
			header = http.Header{"Set-Cookie": cookies}
		}

		conn, err := upgrader.Upgrade(w, r, header)
		if err != nil {
			logf(cfg, "SERVE: WebSocket upgrade failed for %s: %v", realIP(r), err)
			return
		}
		// Clear the server's read/write timeouts; the session outlives them.
		_ = conn.NetConn().SetDeadline(time.Time{})
		conn.SetReadLimit(4096)

		client := &Client{
			conn:      conn,
			send:      make(chan any, 8),
			sessionID: sessionID,
		}

		hub := hm.getHub(cfg, sessionID)

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var action session.Action
		if err := json.Unmarshal(data, &action); err != nil {
			continue
		}

		select {
		case h.actions <- actionRequest{client: c, action: action}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
