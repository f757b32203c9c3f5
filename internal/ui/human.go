package ui

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/player"
	"log/slog"

	"github.com/gdamore/tcell/v2"
)

const controlsLine = "←↑↓→ move   Enter place   q quit"

// HumanActor lets a person pick a cell with the arrow keys. It implements
// player.Actor.
type HumanActor struct {
	term *Terminal

	// The cursor survives a rejected move within the same turn.
	turn   int
	cursor game.Position
	active bool
}

// NewHumanActor reads moves from term.
func NewHumanActor(term *Terminal) *HumanActor {
	return &HumanActor{term: term}
}

// NextMove moves a cursor over the board until Enter is pressed. The cursor
// starts in the centre and stops at the edges. q, Esc and Ctrl-C return
// player.ErrQuit. The returned cell may be occupied; the caller validates it.
func (h *HumanActor) NextMove(ctx context.Context, board game.Board, mark game.Player) (game.Position, error) {
	if !h.active || h.turn != board.TurnCount() {
		h.cursor = game.Pos(1, 1)
	}
	h.turn = board.TurnCount()
	h.active = true

	defer h.term.setCursor(nil)

	for {
		cursor := h.cursor
		h.term.setCursor(&cursor)

		ev, err := h.term.nextKey(ctx)
		if err != nil {
			return game.Position{}, err
		}
		if isQuit(ev) {
			slog.InfoContext(ctx, "Player asked to quit", "player.mark", mark.String())
			return game.Position{}, player.ErrQuit
		}

		switch ev.Key() {
		case tcell.KeyUp:
			h.cursor.Row = max(h.cursor.Row-1, game.BorderMin)
		case tcell.KeyDown:
			h.cursor.Row = min(h.cursor.Row+1, game.BorderMax)
		case tcell.KeyLeft:
			h.cursor.Col = max(h.cursor.Col-1, game.BorderMin)
		case tcell.KeyRight:
			h.cursor.Col = min(h.cursor.Col+1, game.BorderMax)
		case tcell.KeyEnter:
			return h.cursor, nil
		}
	}
}
