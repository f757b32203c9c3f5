package match

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
	"errors"
)

//go:generate mockgen -destination=../mocks/mock_renderer.go -package=mocks ctchen222/Tic-Tac-Toe-Terminal/internal/match Renderer

// Snapshot is an immutable view of a match handed to renderers after every
// change. Board is a copy, so renderers may keep it.
type Snapshot struct {
	MatchID  string
	Board    game.Board
	Status   game.Status
	Next     game.Player
	LastMove *game.Position
	Notice   string
	PlayerX  string
	PlayerO  string
}

// Renderer presents snapshots. It never sees the live board.
type Renderer interface {
	Render(ctx context.Context, snap Snapshot) error
}

// MultiRenderer renders every snapshot on each of its renderers in order.
type MultiRenderer []Renderer

// Render calls every renderer and joins their errors.
func (m MultiRenderer) Render(ctx context.Context, snap Snapshot) error {
	var errs []error
	for _, r := range m {
		if err := r.Render(ctx, snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RendererFunc adapts a function to a Renderer.
type RendererFunc func(ctx context.Context, snap Snapshot) error

func (f RendererFunc) Render(ctx context.Context, snap Snapshot) error {
	return f(ctx, snap)
}
