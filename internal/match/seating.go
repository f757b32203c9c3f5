package match

import (
	"ctchen222/Tic-Tac-Toe-Terminal/internal/bot"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/player"
	"math/rand/v2"
	"time"
)

// Seats builds the two players for opts and returns them as (X, O).
// Every human seat is driven by human. In single-player mode the computer
// uses rng and waits thinkTime before each move.
func Seats(opts Options, human player.Actor, rng bot.Rand, thinkTime time.Duration) (x, o *player.Player, err error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	if opts.Mode == Multi {
		return player.NewPlayer("Player 1", human), player.NewPlayer("Player 2", human), nil
	}

	computer, err := bot.NewBotPlayer(opts.Difficulty, rng, thinkTime)
	if err != nil {
		return nil, nil, err
	}
	you := player.NewPlayer("You", human)

	if computerOpens(opts.FirstMover, rng) {
		return computer, you, nil
	}
	return you, computer, nil
}

func computerOpens(f FirstMover, rng bot.Rand) bool {
	switch f {
	case ComputerFirst:
		return true
	case RandomFirst:
		if rng == nil {
			return coinFlip()
		}
		return rng.IntN(2) == 1
	default:
		return false
	}
}

func coinFlip() bool {
	return rand.IntN(2) == 1
}
