package hub

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/events"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/validator"
	"ctchen222/Tic-Tac-Toe-Terminal/pkg/proto"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

// Upgrader accepts spectator connections from any origin; access is
// controlled by the spectator token instead.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one spectator connection.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	// closing is written before the close frame; set by the hub before it
	// closes send.
	closing []byte
}

// closeWith records why the hub is dropping c and closes its queue.
func (c *Client) closeWith(code, reason string) {
	c.closing = errorEvent(code, reason)
	close(c.send)
}

// errorEvent encodes an error event, or returns nil if that fails.
func errorEvent(code, reason string) []byte {
	msg := proto.ErrorMessage{Code: code, Reason: reason}
	if err := validator.Struct(msg); err != nil {
		slog.Error("Invalid spectator error message", "code", code, "error", err)
		return nil
	}
	ev, err := events.New(events.TypeError, msg)
	if err != nil {
		return nil
	}
	data, err := ev.Encode()
	if err != nil {
		return nil
	}
	return data
}

// trySend is only called from the hub's Run goroutine.
func (c *Client) trySend(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// ServeWS upgrades the request and streams events to the new spectator
// until either side closes the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "hub.ServeWS", trace.WithAttributes(
		attribute.String("http.url", r.URL.Path),
	))
	defer span.End()

	conn, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	c := &Client{
		id:   uuid.New().String(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	span.SetAttributes(attribute.String("spectator.id", c.id))

	select {
	case h.register <- c:
	case <-h.done:
		if data := errorEvent(proto.ErrorShutdown, "spectator feed stopped"); data != nil {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.TextMessage, data)
		}
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump(context.WithoutCancel(ctx))
}

// readPump discards anything the spectator sends and unregisters the client
// once the connection fails.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "Spectator connection error", "spectator.id", c.id, "error", err)
			}
			return
		}
	}
}

// writePump sends queued events and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				if c.closing != nil {
					c.conn.WriteMessage(websocket.TextMessage, c.closing)
				}
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
