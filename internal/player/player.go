package player

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
	"errors"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../mocks/mock_actor.go -package=mocks ctchen222/Tic-Tac-Toe-Terminal/internal/player Actor

// ErrQuit is returned by an Actor when the user asked to leave the game.
var ErrQuit = errors.New("quit requested")

// Actor decides where a player moves. Human actors read input, computer
// actors consult the opponent policy.
type Actor interface {
	NextMove(ctx context.Context, board game.Board, mark game.Player) (game.Position, error)
}

// Player represents one side of a match.
type Player struct {
	ID    string
	Name  string
	Mark  game.Player
	Actor Actor
	IsBot bool
}

// NewPlayer creates a human-controlled player with a fresh ID.
func NewPlayer(name string, actor Actor) *Player {
	return &Player{
		ID:    uuid.New().String(),
		Name:  name,
		Actor: actor,
	}
}
