package bot

import (
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
)

var (
	center  = game.Pos(1, 1)
	corners = [4]game.Position{{Row: 0, Col: 0}, {Row: 0, Col: 2}, {Row: 2, Col: 0}, {Row: 2, Col: 2}}
	edges   = [4]game.Position{{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 2}, {Row: 2, Col: 1}}
)

// Layer is one rule of the decision pipeline. It either picks a position or
// reports false so the next layer runs.
type Layer interface {
	Name() string
	Choose(board game.Board, self game.Player, rng Rand) (game.Position, bool)
}

// WinLayer completes a line of the computer's own pieces.
type WinLayer struct{}

func (WinLayer) Name() string { return "win" }

func (WinLayer) Choose(board game.Board, self game.Player, _ Rand) (game.Position, bool) {
	return findWinningMove(board, self.Cell())
}

// BlockLayer occupies the cell that would complete the opponent's line.
type BlockLayer struct{}

func (BlockLayer) Name() string { return "block" }

func (BlockLayer) Choose(board game.Board, self game.Player, _ Rand) (game.Position, bool) {
	return findWinningMove(board, self.Opponent().Cell())
}

// PositionalLayer applies the fixed opening and corner heuristics:
// centre, then an edge against opposite corners, then the corner opposite an
// opponent corner.
type PositionalLayer struct{}

func (PositionalLayer) Name() string { return "positional" }

func (PositionalLayer) Choose(board game.Board, self game.Player, _ Rand) (game.Position, bool) {
	if game.IsValid(board, center) {
		return center, true
	}

	opponent := self.Opponent().Cell()

	if hasOppositeCorners(board, opponent) {
		for _, edge := range edges {
			if game.IsValid(board, edge) {
				return edge, true
			}
		}
	}

	for _, corner := range corners {
		if board[corner.Row][corner.Col] != opponent {
			continue
		}
		if opp := oppositeCorner(corner); game.IsValid(board, opp) {
			return opp, true
		}
	}

	return game.Position{}, false
}

// RandomLayer picks uniformly among the empty cells.
type RandomLayer struct{}

func (RandomLayer) Name() string { return "random" }

func (RandomLayer) Choose(board game.Board, _ game.Player, rng Rand) (game.Position, bool) {
	available := board.EmptyCells()
	if len(available) == 0 {
		return game.Position{}, false
	}
	return available[rng.IntN(len(available))], true
}

// findWinningMove scans rows, columns, then diagonals and returns the empty
// cell of the first line holding two of mark and one empty cell.
func findWinningMove(board game.Board, mark game.Cell) (game.Position, bool) {
	for _, line := range game.Lines {
		var marks, empties int
		var gap game.Position
		for _, pos := range line {
			switch board[pos.Row][pos.Col] {
			case mark:
				marks++
			case game.Empty:
				empties++
				gap = pos
			}
		}
		if marks == 2 && empties == 1 {
			return gap, true
		}
	}
	return game.Position{}, false
}

func hasOppositeCorners(board game.Board, mark game.Cell) bool {
	for _, corner := range corners[:2] {
		opp := oppositeCorner(corner)
		if board[corner.Row][corner.Col] == mark && board[opp.Row][opp.Col] == mark {
			return true
		}
	}
	return false
}

func oppositeCorner(corner game.Position) game.Position {
	return game.Pos(game.BorderMax-corner.Row, game.BorderMax-corner.Col)
}
