package match

import (
	"ctchen222/Tic-Tac-Toe-Terminal/internal/bot"
	"errors"
	"fmt"
)

// ErrInvalidOption is returned when a mode or first-mover value is unknown.
var ErrInvalidOption = errors.New("invalid match option")

// Mode selects who sits on the two sides of the board.
type Mode string

const (
	// Single pits one human against the computer.
	Single Mode = "single"
	// Multi is two humans sharing one terminal.
	Multi Mode = "multi"
)

// Modes lists the supported modes in menu order.
var Modes = []Mode{Single, Multi}

// FirstMover decides which side of a single-player match opens. The opener
// always plays X.
type FirstMover string

const (
	HumanFirst    FirstMover = "human"
	ComputerFirst FirstMover = "computer"
	RandomFirst   FirstMover = "random"
)

// Options is fixed before the first turn and never changes during a match.
type Options struct {
	Mode       Mode
	Difficulty bot.Difficulty
	FirstMover FirstMover
}

// DefaultOptions is a single-player game against an Easy computer with the
// human opening.
func DefaultOptions() Options {
	return Options{Mode: Single, Difficulty: bot.Easy, FirstMover: HumanFirst}
}

// Validate checks that every field holds a known value. Difficulty is only
// required in single-player mode.
func (o Options) Validate() error {
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	if o.Mode == Multi {
		return nil
	}
	if _, err := bot.ParseDifficulty(string(o.Difficulty)); err != nil {
		return err
	}
	if _, err := ParseFirstMover(string(o.FirstMover)); err != nil {
		return err
	}
	return nil
}

// ParseMode accepts "single" or "multi".
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Single, Multi:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q: %w", s, ErrInvalidOption)
	}
}

// ParseFirstMover accepts "human", "computer" or "random". An empty string
// means the human opens.
func ParseFirstMover(s string) (FirstMover, error) {
	switch f := FirstMover(s); f {
	case "":
		return HumanFirst, nil
	case HumanFirst, ComputerFirst, RandomFirst:
		return f, nil
	default:
		return "", fmt.Errorf("unknown first mover %q: %w", s, ErrInvalidOption)
	}
}
