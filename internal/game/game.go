package game

import (
	"errors"
	"fmt"
)

// Cell is the content of one square of the board.
type Cell uint8

// Player is one of the two sides. Each player places exactly one kind of cell.
type Player uint8

const (
	Empty Cell = iota
	X
	O
)

const (
	PlayerX Player = iota + 1
	PlayerO
)

// Board boundaries
const (
	BorderMin = 0 // First index of the board
	BorderMax = 2 // Last index of the board
	Size      = BorderMax + 1
)

var (
	ErrOutOfRange  = errors.New("position out of range")
	ErrIllegalMove = errors.New("cell already occupied")
)

// Mark returns the text form used on the wire and in logs ("X", "O" or "").
func (c Cell) Mark() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

func (c Cell) String() string {
	if c == Empty {
		return "Empty"
	}
	return c.Mark()
}

// Player returns the owner of a non-empty cell.
func (c Cell) Player() (Player, bool) {
	switch c {
	case X:
		return PlayerX, true
	case O:
		return PlayerO, true
	default:
		return 0, false
	}
}

// Cell returns the cell value this player places.
func (p Player) Cell() Cell {
	switch p {
	case PlayerX:
		return X
	case PlayerO:
		return O
	default:
		return Empty
	}
}

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Valid reports whether p is X or O.
func (p Player) Valid() bool {
	return p == PlayerX || p == PlayerO
}

func (p Player) String() string {
	return p.Cell().Mark()
}

// ParsePlayer converts "X" or "O" into a Player.
func ParsePlayer(s string) (Player, error) {
	switch s {
	case "X", "x":
		return PlayerX, nil
	case "O", "o":
		return PlayerO, nil
	default:
		return 0, fmt.Errorf("unknown player %q", s)
	}
}

// Position addresses a cell by row and column.
type Position struct {
	Row int
	Col int
}

// Pos is shorthand for Position{Row: row, Col: col}.
func Pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

// InRange reports whether both coordinates are on the board.
func (p Position) InRange() bool {
	return inRange(p.Row) && inRange(p.Col)
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func inRange(i int) bool {
	return i >= BorderMin && i <= BorderMax
}
