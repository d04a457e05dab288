// Package realtime fans board events out to the websocket clients watching
// a project.
package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Event is the JSON frame pushed to subscribers.
type Event struct {
	Type      string `json:"type"`
	ProjectID uint   `json:"project_id"`
	Data      any    `json:"data,omitempty"`
}

// Conn is the subset of *websocket.Conn the hub writes to.
type Conn interface {
	WriteJSON(v any) error
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type client struct {
	conn   Conn
	userID uint

	// gorilla allows one concurrent writer per connection
	mu sync.Mutex
}

func (c *client) write(fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return fn()
}

func (c *client) send(event Event) error {
	return c.write(func() error {
		return c.conn.WriteJSON(event)
	})
}

func (c *client) close(reason string) {
	_ = c.write(func() error {
		return c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	})
	_ = c.conn.Close()
}

// Hub tracks the open connections of every project.
type Hub struct {
	mu       sync.RWMutex
	projects map[uint]map[*client]struct{}
	logger   *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		projects: make(map[uint]map[*client]struct{}),
		logger:   logger.With("component", "realtime"),
	}
}

func (h *Hub) register(projectID, userID uint, conn Conn) *client {
	c := &client{conn: conn, userID: userID}

	h.mu.Lock()
	if h.projects[projectID] == nil {
		h.projects[projectID] = make(map[*client]struct{})
	}
	h.projects[projectID][c] = struct{}{}
	h.mu.Unlock()

	return c
}

// unregister reports whether c was still registered.
func (h *Hub) unregister(projectID uint, c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.projects[projectID]
	if !ok {
		return false
	}
	if _, ok := clients[c]; !ok {
		return false
	}

	delete(clients, c)
	if len(clients) == 0 {
		delete(h.projects, projectID)
	}
	return true
}

// detach removes and returns the clients of the project that match.
func (h *Hub) detach(projectID uint, match func(*client) bool) []*client {
	h.mu.Lock()
	defer h.mu.Unlock()

	var removed []*client
	for c := range h.projects[projectID] {
		if match(c) {
			delete(h.projects[projectID], c)
			removed = append(removed, c)
		}
	}
	if len(h.projects[projectID]) == 0 {
		delete(h.projects, projectID)
	}

	return removed
}

func (h *Hub) snapshot(projectID uint) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := make([]*client, 0, len(h.projects[projectID]))
	for c := range h.projects[projectID] {
		clients = append(clients, c)
	}
	return clients
}

// Broadcast sends an event to every client of the project. Clients that
// fail to receive it are dropped.
func (h *Hub) Broadcast(projectID uint, eventType string, data any) {
	event := Event{Type: eventType, ProjectID: projectID, Data: data}

	for _, c := range h.snapshot(projectID) {
		if err := c.send(event); err != nil {
			h.logger.Warn("dropping websocket client", "project_id", projectID, "user_id", c.userID, "error", err)
			if h.unregister(projectID, c) {
				_ = c.conn.Close()
			}
		}
	}
}

// CloseProject sends a final event and disconnects every client of the
// project.
func (h *Hub) CloseProject(projectID uint, eventType string) {
	event := Event{Type: eventType, ProjectID: projectID}

	for _, c := range h.detach(projectID, func(*client) bool { return true }) {
		_ = c.send(event)
		c.close("project closed")
	}
}

// DisconnectUser closes the connections a user holds on the project, used
// once they stop being a member.
func (h *Hub) DisconnectUser(projectID, userID uint) {
	removed := h.detach(projectID, func(c *client) bool { return c.userID == userID })

	for _, c := range removed {
		c.close("membership revoked")
	}
}

// Count returns the number of open connections on the project. It is an
// introspection accessor and no delivery path depends on it.
func (h *Hub) Count(projectID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.projects[projectID])
}
