package bot

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/player"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Computer is the player.Actor for the computer opponent. It waits for the
// configured thinking time and then asks its policy for a move.
type Computer struct {
	policy *Policy
	delay  time.Duration
}

// NewComputer wraps a policy as an actor.
func NewComputer(policy *Policy, delay time.Duration) *Computer {
	return &Computer{policy: policy, delay: delay}
}

// NextMove implements player.Actor.
func (c *Computer) NextMove(ctx context.Context, board game.Board, mark game.Player) (game.Position, error) {
	if c.delay > 0 {
		slog.DebugContext(ctx, "Bot is thinking...", "bot.mark", mark.String(), "delay", c.delay)
		timer := time.NewTimer(c.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return game.Position{}, ctx.Err()
		case <-timer.C:
		}
	}
	return c.policy.ChooseMove(ctx, board, mark)
}

// NewBotPlayer creates a player instance that is a bot.
func NewBotPlayer(difficulty Difficulty, rng Rand, delay time.Duration) (*player.Player, error) {
	policy, err := NewPolicy(difficulty, rng)
	if err != nil {
		return nil, err
	}
	return &player.Player{
		ID:    "bot-" + uuid.New().String()[:8],
		Name:  "Computer (" + string(difficulty) + ")",
		Actor: NewComputer(policy, delay),
		IsBot: true,
	}, nil
}
