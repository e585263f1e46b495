package hub

import (
	"time"

	"github.com/fasthttp/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// controlMessage is the only inbound frame observers may send. The push
// channel is otherwise server-to-client only.
type controlMessage struct {
	Action string `json:"action"`
	Group  string `json:"group"`
}

// ServeConn registers a websocket connection with the hub and pumps it
// until the transport drops. It blocks for the connection's lifetime and
// deregisters on any read or write failure, with no close handshake
// required from the observer.
func (h *Hub) ServeConn(ws *websocket.Conn) {
	c := h.Register()
	defer func() {
		h.Unregister(c.ID)
		ws.Close()
	}()

	go h.writePump(c, ws)
	h.readPump(c, ws)
}

// readPump consumes inbound control frames (group join/leave) and keeps
// pong-based liveness. Any error ends the connection.
func (h *Hub) readPump(c *Connection, ws *websocket.Conn) {
	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg controlMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("observer read failed",
					zap.String("connection_id", c.ID), zap.Error(err))
			}
			return
		}

		switch msg.Action {
		case "join":
			h.Join(msg.Group, c.ID)
		case "leave":
			h.Leave(msg.Group, c.ID)
		default:
			h.logger.Debug("ignoring unknown observer action",
				zap.String("connection_id", c.ID),
				zap.String("action", msg.Action),
			)
		}
	}
}

// writePump drains the connection's send buffer and pings periodically.
func (h *Hub) writePump(c *Connection, ws *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case payload := <-c.Send:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
