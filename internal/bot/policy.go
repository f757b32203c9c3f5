package bot

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MissChance is the probability that a Medium opponent ignores a win or block
// check and plays randomly instead.
const MissChance = 0.6

var tracer = otel.Tracer("bot")

// ErrPolicyPrecondition marks a call the policy cannot honour: a full board,
// an invalid side or an unknown difficulty. It indicates a programming error.
var ErrPolicyPrecondition = errors.New("policy precondition violated")

// Rand is the source of randomness used by the policy. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Decision is a chosen position together with the layer that produced it.
type Decision struct {
	Position game.Position
	Layer    string
}

type step struct {
	layer      Layer
	missChance float64
}

// Policy is an ordered list of layers, each optionally guarded by a miss
// gate, followed by a fallback. The first layer to produce a position wins;
// a missed gate skips the remaining layers and goes straight to the fallback.
type Policy struct {
	difficulty Difficulty
	steps      []step
	fallback   Layer
	rng        Rand
}

// NewPolicy builds the pipeline for d. A nil rng uses the process-wide source.
func NewPolicy(d Difficulty, rng Rand) (*Policy, error) {
	if rng == nil {
		rng = globalRand{}
	}

	p := &Policy{difficulty: d, fallback: RandomLayer{}, rng: rng}
	switch d {
	case Easy:
	case Medium:
		p.steps = []step{
			{layer: WinLayer{}, missChance: MissChance},
			{layer: BlockLayer{}, missChance: MissChance},
		}
	case Hard:
		p.steps = []step{
			{layer: WinLayer{}},
			{layer: BlockLayer{}},
			{layer: PositionalLayer{}},
		}
	default:
		return nil, fmt.Errorf("unknown difficulty %q: %w", d, ErrPolicyPrecondition)
	}
	return p, nil
}

// Difficulty returns the tier this policy was built for.
func (p *Policy) Difficulty() Difficulty {
	return p.difficulty
}

// Layers returns the layer names in evaluation order, fallback last.
func (p *Policy) Layers() []string {
	names := make([]string, 0, len(p.steps)+1)
	for _, s := range p.steps {
		names = append(names, s.layer.Name())
	}
	return append(names, p.fallback.Name())
}

// ChooseMove returns a position where game.IsValid holds for board.
func (p *Policy) ChooseMove(ctx context.Context, board game.Board, self game.Player) (game.Position, error) {
	d, err := p.Decide(ctx, board, self)
	if err != nil {
		return game.Position{}, err
	}
	return d.Position, nil
}

// Decide runs the pipeline and reports which layer fired.
func (p *Policy) Decide(ctx context.Context, board game.Board, self game.Player) (Decision, error) {
	ctx, span := tracer.Start(ctx, "bot.ChooseMove", trace.WithAttributes(
		attribute.String("bot.difficulty", string(p.difficulty)),
		attribute.String("bot.mark", self.String()),
		attribute.Int("board.turn", board.TurnCount()),
	))
	defer span.End()

	if err := checkPreconditions(board, self); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Policy precondition violated")
		return Decision{}, err
	}

	decision, ok := p.run(board, self)
	if !ok {
		// Unreachable with at least one empty cell.
		err := fmt.Errorf("no layer produced a move: %w", ErrPolicyPrecondition)
		span.RecordError(err)
		span.SetStatus(codes.Error, "No move produced")
		return Decision{}, err
	}

	span.SetAttributes(
		attribute.String("bot.layer", decision.Layer),
		attribute.Int("move.row", decision.Position.Row),
		attribute.Int("move.col", decision.Position.Col),
	)
	slog.DebugContext(ctx, "Bot chose move", "bot.difficulty", p.difficulty, "bot.layer", decision.Layer, "move", decision.Position.String())
	return decision, nil
}

func (p *Policy) run(board game.Board, self game.Player) (Decision, bool) {
	for _, s := range p.steps {
		if s.missChance > 0 && p.rng.Float64() < s.missChance {
			break
		}
		if pos, ok := s.layer.Choose(board, self, p.rng); ok {
			return Decision{Position: pos, Layer: s.layer.Name()}, true
		}
	}
	pos, ok := p.fallback.Choose(board, self, p.rng)
	return Decision{Position: pos, Layer: p.fallback.Name()}, ok
}

// ChooseMove builds a policy for d and asks it for one move.
func ChooseMove(ctx context.Context, board game.Board, d Difficulty, self game.Player, rng Rand) (game.Position, error) {
	p, err := NewPolicy(d, rng)
	if err != nil {
		return game.Position{}, err
	}
	return p.ChooseMove(ctx, board, self)
}

func checkPreconditions(board game.Board, self game.Player) error {
	if !self.Valid() {
		return fmt.Errorf("invalid side %d: %w", self, ErrPolicyPrecondition)
	}
	for r := range game.Size {
		for c := range game.Size {
			if cell := board[r][c]; cell != game.Empty && cell != game.X && cell != game.O {
				return fmt.Errorf("malformed cell %d at %s: %w", cell, game.Pos(r, c), ErrPolicyPrecondition)
			}
		}
	}
	if status := game.Evaluate(board); status.Outcome == game.Win {
		return fmt.Errorf("game already won by %s: %w", status.Winner, ErrPolicyPrecondition)
	}
	if board.Full() {
		return fmt.Errorf("board is full: %w", ErrPolicyPrecondition)
	}
	return nil
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }
