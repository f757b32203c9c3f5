package bot

import (
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
	"testing"
)

func board(t *testing.T, rows ...string) game.Board {
	t.Helper()
	b, err := game.ParseBoard(rows...)
	if err != nil {
		t.Fatalf("ParseBoard(%q) failed: %v", rows, err)
	}
	return b
}

// moveIn is a helper function to check if a move is in a list of expected moves.
func moveIn(move game.Position, list []game.Position) bool {
	for _, item := range list {
		if item == move {
			return true
		}
	}
	return false
}

func TestFindWinningMove(t *testing.T) {
	tests := []struct {
		name      string
		board     []string
		mark      game.Cell
		want      game.Position
		wantFound bool
	}{
		{
			name:  "No winning move - empty board",
			board: []string{"...", "...", "..."},
			mark:  game.X,
		},
		{
			name:  "X can win - first row",
			board: []string{"XX.", "OO.", "..."},
			mark:  game.X,
			want:  game.Pos(0, 2), wantFound: true,
		},
		{
			name:  "O can win - second column",
			board: []string{"XO.", "XO.", "..."},
			mark:  game.O,
			want:  game.Pos(2, 1), wantFound: true,
		},
		{
			name:  "X can win - gap in the middle of a row",
			board: []string{"X.X", ".O.", "..O"},
			mark:  game.X,
			want:  game.Pos(0, 1), wantFound: true,
		},
		{
			name:  "X can win - main diagonal",
			board: []string{"X..", ".X.", "..."},
			mark:  game.X,
			want:  game.Pos(2, 2), wantFound: true,
		},
		{
			name:  "O can win - anti-diagonal",
			board: []string{"..O", ".O.", "..."},
			mark:  game.O,
			want:  game.Pos(2, 0), wantFound: true,
		},
		{
			name:  "Rows are scanned before columns",
			board: []string{"X..", "XX.", "..."},
			mark:  game.X,
			want:  game.Pos(1, 2), wantFound: true,
		},
		{
			name:  "Blocked line is not a win",
			board: []string{"XXO", "...", "..."},
			mark:  game.X,
		},
		{
			name:  "Full board, no win possible",
			board: []string{"XOX", "OXO", "OXO"},
			mark:  game.X,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := findWinningMove(board(t, tt.board...), tt.mark)
			if found != tt.wantFound || (found && got != tt.want) {
				t.Errorf("findWinningMove() got (%v, %v), want (%v, %v)", got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestPositionalLayer(t *testing.T) {
	tests := []struct {
		name      string
		board     []string
		self      game.Player
		want      game.Position
		wantFound bool
	}{
		{
			name:  "Take center",
			board: []string{"X..", "...", "..."},
			self:  game.PlayerO,
			want:  game.Pos(1, 1), wantFound: true,
		},
		{
			name:  "Opponent holds opposite corners - take first edge",
			board: []string{"X..", ".O.", "..X"},
			self:  game.PlayerO,
			want:  game.Pos(0, 1), wantFound: true,
		},
		{
			name:  "Opponent holds anti-diagonal corners - skip taken edge",
			board: []string{".OX", ".O.", "X.."},
			self:  game.PlayerO,
			want:  game.Pos(1, 0), wantFound: true,
		},
		{
			name:  "Opponent holds one corner - take the opposite one",
			board: []string{"..X", ".O.", "..."},
			self:  game.PlayerO,
			want:  game.Pos(2, 0), wantFound: true,
		},
		{
			name:  "Opposite corner taken - try the next opponent corner",
			board: []string{"X.X", ".O.", "..O"},
			self:  game.PlayerO,
			want:  game.Pos(2, 0), wantFound: true,
		},
		{
			name:  "Same-column corners are not opposite",
			board: []string{"X..", ".O.", "X.."},
			self:  game.PlayerO,
			want:  game.Pos(2, 2), wantFound: true,
		},
		{
			name:  "Computer as X mirrors the rules",
			board: []string{"O..", ".X.", "..."},
			self:  game.PlayerX,
			want:  game.Pos(2, 2), wantFound: true,
		},
		{
			name:  "Nothing applies - fall through",
			board: []string{".X.", ".O.", "..."},
			self:  game.PlayerO,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := PositionalLayer{}.Choose(board(t, tt.board...), tt.self, nil)
			if found != tt.wantFound || (found && got != tt.want) {
				t.Errorf("PositionalLayer.Choose() got (%v, %v), want (%v, %v)", got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestRandomLayer(t *testing.T) {
	t.Run("Only one spot left", func(t *testing.T) {
		b := board(t, "XOX", "OXO", "X.O")
		got, ok := RandomLayer{}.Choose(b, game.PlayerX, &scriptedRand{t: t})
		if !ok || got != game.Pos(2, 1) {
			t.Errorf("RandomLayer should pick the only available spot (2,1), but got %v, %v", got, ok)
		}
	})

	t.Run("Index selects among empty cells in row-major order", func(t *testing.T) {
		b := board(t, "X..", ".O.", "...")
		rng := &scriptedRand{t: t, ints: []int{3}}
		got, ok := RandomLayer{}.Choose(b, game.PlayerX, rng)
		// Empty cells: (0,1) (0,2) (1,0) (1,2) ...
		if !ok || got != game.Pos(1, 2) {
			t.Errorf("RandomLayer picked %v, want (1,2)", got)
		}
		if rng.lastN != 7 {
			t.Errorf("RandomLayer sampled from %d cells, want 7", rng.lastN)
		}
	})

	t.Run("Full board", func(t *testing.T) {
		b := board(t, "XOX", "OXO", "XOX")
		if _, ok := (RandomLayer{}).Choose(b, game.PlayerX, &scriptedRand{t: t}); ok {
			t.Error("RandomLayer on a full board should report no move")
		}
	})
}
