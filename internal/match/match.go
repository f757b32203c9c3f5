package match

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/player"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("match")
	meter  = otel.Meter("match")
)

// ErrMatchOver is returned by Step once the board is won or drawn.
var ErrMatchOver = errors.New("match is over")

// Match owns the board of one game and alternates between the two players
// until the evaluator reports a win or a draw.
type Match struct {
	ID string

	players  [2]*player.Player
	board    game.Board
	status   game.Status
	lastMove *game.Position
	renderer Renderer

	completed metric.Int64Counter
	moves     metric.Int64Counter
}

// New creates a match on an empty board. x opens. The players' marks are
// overwritten to match their seats. A nil renderer discards snapshots.
func New(x, o *player.Player, renderer Renderer) *Match {
	x.Mark = game.PlayerX
	o.Mark = game.PlayerO

	m := &Match{
		ID:       uuid.New().String(),
		players:  [2]*player.Player{x, o},
		board:    game.EmptyBoard(),
		renderer: renderer,
	}
	m.completed = counter("tictactoe.matches.completed", "Number of matches that ended in a win or a draw")
	m.moves = counter("tictactoe.moves", "Number of moves applied to a board")
	return m
}

func counter(name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		slog.Warn("Could not create counter, using no-op", "metric.name", name, "error", err)
		return noop.Int64Counter{}
	}
	return c
}

// Board returns a copy of the current board.
func (m *Match) Board() game.Board {
	return m.board
}

// Status returns the evaluation of the current board.
func (m *Match) Status() game.Status {
	return m.status
}

// Player returns the player seated on mark.
func (m *Match) Player(mark game.Player) *player.Player {
	if !mark.Valid() {
		return nil
	}
	return m.players[mark-1]
}

// Winner returns the winning player, or nil for a draw or a running game.
func (m *Match) Winner() *player.Player {
	if m.status.Outcome != game.Win {
		return nil
	}
	return m.Player(m.status.Winner)
}

// Snapshot captures the current state together with an optional notice.
func (m *Match) Snapshot(notice string) Snapshot {
	snap := Snapshot{
		MatchID: m.ID,
		Board:   m.board,
		Status:  m.status,
		Notice:  notice,
		PlayerX: m.players[0].Name,
		PlayerO: m.players[1].Name,
	}
	if !m.status.Over() {
		snap.Next = m.board.Next()
	}
	if m.lastMove != nil {
		last := *m.lastMove
		snap.LastMove = &last
	}
	return snap
}

// Play renders the opening board and runs turns until the game is won or
// drawn. It returns the final status. When a player quits, the returned error
// wraps player.ErrQuit and the status is still Running.
func (m *Match) Play(ctx context.Context) (game.Status, error) {
	ctx, span := tracer.Start(ctx, "match.Play", trace.WithAttributes(
		attribute.String("match.id", m.ID),
		attribute.String("player.x", m.players[0].ID),
		attribute.String("player.o", m.players[1].ID),
	))
	defer span.End()

	slog.InfoContext(ctx, "Match started", "match.id", m.ID, "player.x", m.players[0].Name, "player.o", m.players[1].Name)

	if err := m.render(ctx, ""); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not render board")
		return m.status, err
	}

	for !m.status.Over() {
		if err := m.Step(ctx); err != nil {
			if errors.Is(err, player.ErrQuit) {
				slog.InfoContext(ctx, "Match abandoned", "match.id", m.ID, "turn", m.board.TurnCount())
				span.SetAttributes(attribute.String("match.outcome", "quit"))
				return m.status, err
			}
			slog.ErrorContext(ctx, "Match aborted", "match.id", m.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Match aborted")
			return m.status, err
		}
	}

	outcome := outcomeLabel(m.status)
	m.completed.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	span.SetAttributes(attribute.String("match.outcome", outcome))
	slog.InfoContext(ctx, "Match finished", "match.id", m.ID, "match.outcome", outcome, "turns", m.board.TurnCount())
	return m.status, nil
}

// Step plays exactly one turn: it asks the side to move for a position,
// validates it, applies it and renders the result. A human picking an
// occupied cell is told so and asked again without any change to the board.
// An illegal move from the computer is fatal.
func (m *Match) Step(ctx context.Context) error {
	if m.status.Over() {
		return ErrMatchOver
	}

	mark := m.board.Next()
	current := m.Player(mark)

	ctx, span := tracer.Start(ctx, "match.turn", trace.WithAttributes(
		attribute.String("match.id", m.ID),
		attribute.Int("match.turn", m.board.TurnCount()),
		attribute.String("player.id", current.ID),
		attribute.String("player.mark", mark.String()),
		attribute.Bool("player.bot", current.IsBot),
	))
	defer span.End()

	for {
		pos, err := current.Actor.NextMove(ctx, m.board, mark)
		if err != nil {
			if !errors.Is(err, player.ErrQuit) {
				span.RecordError(err)
				span.SetStatus(codes.Error, "Actor failed")
			}
			return fmt.Errorf("player %s: %w", current.Name, err)
		}

		if err := game.Check(m.board, pos); err != nil {
			if current.IsBot {
				err = fmt.Errorf("computer chose %s: %w", pos, err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "Computer chose an illegal move")
				return err
			}
			slog.DebugContext(ctx, "Rejected move", "player.id", current.ID, "move", pos.String(), "error", err)
			if err := m.render(ctx, rejection(pos, err)); err != nil {
				return err
			}
			continue
		}

		next, err := m.board.Place(pos, mark.Cell())
		if err != nil {
			return err
		}
		m.board = next
		m.lastMove = &pos
		m.status = game.Evaluate(m.board)

		m.moves.Add(ctx, 1, metric.WithAttributes(attribute.String("actor", actorKind(current))))
		span.SetAttributes(attribute.Int("move.row", pos.Row), attribute.Int("move.col", pos.Col))
		slog.DebugContext(ctx, "Move applied", "match.id", m.ID, "player.mark", mark.String(), "move", pos.String(), "status", m.status.String())

		return m.render(ctx, "")
	}
}

func (m *Match) render(ctx context.Context, notice string) error {
	if m.renderer == nil {
		return nil
	}
	if err := m.renderer.Render(ctx, m.Snapshot(notice)); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func rejection(pos game.Position, err error) string {
	if errors.Is(err, game.ErrOutOfRange) {
		return fmt.Sprintf("%s is not on the board. Try again.", pos)
	}
	return fmt.Sprintf("Cell %s is already taken. Choose an empty cell.", pos)
}

func actorKind(p *player.Player) string {
	if p.IsBot {
		return "computer"
	}
	return "human"
}

func outcomeLabel(s game.Status) string {
	switch s.Outcome {
	case game.Win:
		return "win_" + s.Winner.String()
	case game.Draw:
		return "draw"
	default:
		return "running"
	}
}
