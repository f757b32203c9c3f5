package hub

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/events"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/match"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/validator"
	"ctchen222/Tic-Tac-Toe-Terminal/pkg/proto"
	"fmt"
)

// Renderer publishes match snapshots to spectators. It implements
// match.Renderer and never blocks the game.
type Renderer struct {
	hub *Hub
}

// NewRenderer creates a renderer that feeds h.
func NewRenderer(h *Hub) *Renderer {
	return &Renderer{hub: h}
}

// Render implements match.Renderer.
func (r *Renderer) Render(ctx context.Context, snap match.Snapshot) error {
	msg := proto.NewSnapshotMessage(snap)
	if err := validator.Struct(msg); err != nil {
		return fmt.Errorf("invalid spectator snapshot: %w", err)
	}

	ev, err := events.New(events.TypeSnapshot, msg)
	if err != nil {
		return err
	}
	r.hub.setLatest(msg)
	r.hub.Publish(ctx, ev)

	if snap.Status.Over() {
		finished, err := events.New(events.TypeMatchFinished, events.MatchFinishedPayload{
			MatchID: snap.MatchID,
			Outcome: msg.Status,
			Winner:  msg.Winner,
		})
		if err != nil {
			return err
		}
		r.hub.Publish(ctx, finished)
	}
	return nil
}
