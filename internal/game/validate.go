package game

import "fmt"

// IsValid reports whether pos is on the board and unoccupied.
func IsValid(b Board, pos Position) bool {
	return Check(b, pos) == nil
}

// Check explains why a move at pos is not allowed, or returns nil.
func Check(b Board, pos Position) error {
	if !pos.InRange() {
		return fmt.Errorf("move %s: %w", pos, ErrOutOfRange)
	}
	if b[pos.Row][pos.Col] != Empty {
		return fmt.Errorf("move %s: %w", pos, ErrIllegalMove)
	}
	return nil
}
