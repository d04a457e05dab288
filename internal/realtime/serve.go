package realtime

import (
	"time"

	"github.com/gorilla/websocket"
)

// Serve registers conn on the project and blocks until the client goes
// away or the hub disconnects it. Incoming frames are only used to keep
// the connection alive.
func (h *Hub) Serve(conn *websocket.Conn, projectID, userID uint) {
	c := h.register(projectID, userID, conn)
	logger := h.logger.With("project_id", projectID, "user_id", userID)

	defer func() {
		if h.unregister(projectID, c) {
			_ = conn.Close()
		}
		logger.Debug("websocket connection closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Warn("failed to set initial read deadline", "error", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := c.send(Event{Type: "connected", ProjectID: projectID}); err != nil {
		logger.Warn("failed to send welcome message", "error", err)
		return
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				err := c.write(func() error {
					return conn.WriteMessage(websocket.PingMessage, nil)
				})
				if err != nil {
					logger.Debug("ping failed", "error", err)
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", "error", err)
			}
			return
		}
	}
}
