package game

import "fmt"

// Board is a 3x3 grid of cells indexed [row][col]. It is a value type: every
// placement returns a new Board and the receiver is never modified.
type Board [Size][Size]Cell

// Line is an ordered triple of cells taken from one row, column or diagonal.
type Line [Size]Cell

// Diagonal selects one of the two diagonals of the board.
type Diagonal uint8

const (
	TopLeftToBottomRight Diagonal = iota
	TopRightToBottomLeft
)

// Lines holds the positions of all eight lines in scan order: rows 0..2,
// columns 0..2, then the two diagonals.
var Lines = [8][Size]Position{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// EmptyBoard returns a board with every cell Empty.
func EmptyBoard() Board {
	return Board{}
}

// Place returns a copy of b with pos set to c. Occupancy is not checked here;
// use IsValid before placing a player's move.
func (b Board) Place(pos Position, c Cell) (Board, error) {
	if !pos.InRange() {
		return b, fmt.Errorf("place %s: %w", pos, ErrOutOfRange)
	}
	b[pos.Row][pos.Col] = c
	return b, nil
}

// At returns the cell at pos.
func (b Board) At(pos Position) (Cell, error) {
	if !pos.InRange() {
		return Empty, fmt.Errorf("cell %s: %w", pos, ErrOutOfRange)
	}
	return b[pos.Row][pos.Col], nil
}

// Row returns the cells of row i from left to right.
func (b Board) Row(i int) (Line, error) {
	if !inRange(i) {
		return Line{}, fmt.Errorf("row %d: %w", i, ErrOutOfRange)
	}
	return b.line(Lines[i]), nil
}

// Column returns the cells of column i from top to bottom.
func (b Board) Column(i int) (Line, error) {
	if !inRange(i) {
		return Line{}, fmt.Errorf("column %d: %w", i, ErrOutOfRange)
	}
	return b.line(Lines[Size+i]), nil
}

// Diagonal returns the cells of diagonal d, starting from the top row.
func (b Board) Diagonal(d Diagonal) (Line, error) {
	switch d {
	case TopLeftToBottomRight:
		return b.line(Lines[6]), nil
	case TopRightToBottomLeft:
		return b.line(Lines[7]), nil
	default:
		return Line{}, fmt.Errorf("diagonal %d: %w", d, ErrOutOfRange)
	}
}

// TurnCount returns the number of occupied cells.
func (b Board) TurnCount() int {
	n := 0
	for r := range Size {
		for c := range Size {
			if b[r][c] != Empty {
				n++
			}
		}
	}
	return n
}

// Full reports whether no Empty cell remains.
func (b Board) Full() bool {
	return b.TurnCount() == Size*Size
}

// Next infers the player to move from the number of occupied cells.
// X always moves first.
func (b Board) Next() Player {
	if b.TurnCount()%2 == 0 {
		return PlayerX
	}
	return PlayerO
}

// EmptyCells lists the unoccupied positions in row-major order.
func (b Board) EmptyCells() []Position {
	var cells []Position
	for r := range Size {
		for c := range Size {
			if b[r][c] == Empty {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// Marks converts the board to rows of "X", "O" and "" strings.
func (b Board) Marks() [][]string {
	rows := make([][]string, Size)
	for r := range Size {
		rows[r] = make([]string, Size)
		for c := range Size {
			rows[r][c] = b[r][c].Mark()
		}
	}
	return rows
}

// ParseBoard builds a board from rows of marks. Anything other than X or O
// (case-insensitive) is read as Empty.
func ParseBoard(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("want %d rows, got %d: %w", Size, len(rows), ErrOutOfRange)
	}
	for r, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("row %d has %d cells: %w", r, len(row), ErrOutOfRange)
		}
		for c, ch := range row {
			switch ch {
			case 'X', 'x':
				b[r][c] = X
			case 'O', 'o':
				b[r][c] = O
			}
		}
	}
	return b, nil
}

func (b Board) line(ps [Size]Position) Line {
	return Line{b[ps[0].Row][ps[0].Col], b[ps[1].Row][ps[1].Col], b[ps[2].Row][ps[2].Col]}
}
