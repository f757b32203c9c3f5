package hub

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/events"
	"ctchen222/Tic-Tac-Toe-Terminal/pkg/proto"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hub")

const broadcastBuffer = 16

// Hub fans spectator events out to every connected websocket client. It
// never touches a board; it only sees messages built from snapshots.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu         sync.RWMutex
	latest     *proto.SnapshotMessage
	latestData []byte
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// disconnects every client. Run must be called once.
func (h *Hub) Run(ctx context.Context) {
	slog.InfoContext(ctx, "Spectator hub started")
	defer func() {
		close(h.done)
		for c := range h.clients {
			delete(h.clients, c)
			c.closeWith(proto.ErrorShutdown, "spectator feed stopped")
		}
		slog.InfoContext(ctx, "Spectator hub stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = true
			if data := h.latestEncoded(); data != nil {
				c.trySend(data)
			}
			slog.InfoContext(ctx, "Spectator connected", "spectator.id", c.id, "spectators.count", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				slog.InfoContext(ctx, "Spectator disconnected", "spectator.id", c.id, "spectators.count", len(h.clients))
			}

		case data := <-h.broadcast:
			h.fanOut(ctx, data)
		}
	}
}

// fanOut queues data for every client and drops the ones too slow to keep
// up. Only called from Run.
func (h *Hub) fanOut(ctx context.Context, data []byte) {
	for c := range h.clients {
		if !c.trySend(data) {
			delete(h.clients, c)
			c.closeWith(proto.ErrorSlowConsumer, "spectator fell behind the game")
			slog.WarnContext(ctx, "Dropped slow spectator", "spectator.id", c.id)
		}
	}
}

// Publish queues ev for every client. It never blocks; when the queue is
// full the event is dropped and false is returned.
func (h *Hub) Publish(ctx context.Context, ev events.Event) bool {
	_, span := tracer.Start(ctx, "hub.Publish", trace.WithAttributes(
		attribute.String("event.type", ev.Type),
	))
	defer span.End()

	data, err := ev.Encode()
	if err != nil {
		slog.ErrorContext(ctx, "Could not encode spectator event", "event.type", ev.Type, "error", err)
		span.RecordError(err)
		return false
	}
	if ev.Type == events.TypeSnapshot {
		h.mu.Lock()
		h.latestData = data
		h.mu.Unlock()
	}

	select {
	case h.broadcast <- data:
		return true
	default:
		slog.WarnContext(ctx, "Spectator queue full, dropping event", "event.type", ev.Type)
		span.SetAttributes(attribute.Bool("event.dropped", true))
		return false
	}
}

// Latest returns the most recent snapshot, if any was rendered.
func (h *Hub) Latest() (proto.SnapshotMessage, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.latest == nil {
		return proto.SnapshotMessage{}, false
	}
	return *h.latest, true
}

func (h *Hub) setLatest(msg proto.SnapshotMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = &msg
}

func (h *Hub) latestEncoded() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latestData
}
