package bot

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed values so gates and fallbacks are deterministic.
// Float64 fails the test when no value is left, which proves a tier never
// rolled a miss gate.
type scriptedRand struct {
	t          *testing.T
	floats     []float64
	ints       []int
	floatCalls int
	intCalls   int
	lastN      int
}

func (r *scriptedRand) Float64() float64 {
	if r.floatCalls >= len(r.floats) {
		r.t.Fatalf("unexpected Float64 call #%d", r.floatCalls+1)
	}
	v := r.floats[r.floatCalls]
	r.floatCalls++
	return v
}

func (r *scriptedRand) IntN(n int) int {
	r.lastN = n
	v := 0
	if r.intCalls < len(r.ints) {
		v = r.ints[r.intCalls]
	}
	r.intCalls++
	return v % n
}

func decide(t *testing.T, d Difficulty, b game.Board, self game.Player, rng Rand) Decision {
	t.Helper()
	p, err := NewPolicy(d, rng)
	require.NoError(t, err)
	got, err := p.Decide(context.Background(), b, self)
	require.NoError(t, err)
	return got
}

func TestHardLayerPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		board     []string
		want      []game.Position
		wantLayer string
	}{
		{
			name:      "Win beats block",
			board:     []string{"XX.", "OO.", "..."},
			want:      []game.Position{game.Pos(1, 2)},
			wantLayer: "win",
		},
		{
			name:      "Block the opponent row",
			board:     []string{"XX.", "...", "..."},
			want:      []game.Position{game.Pos(0, 2)},
			wantLayer: "block",
		},
		{
			name:      "Empty board takes center",
			board:     []string{"...", "...", "..."},
			want:      []game.Position{game.Pos(1, 1)},
			wantLayer: "positional",
		},
		{
			name:      "Opposite corners around our center take an edge",
			board:     []string{"X..", ".O.", "..X"},
			want:      []game.Position{game.Pos(0, 1), game.Pos(1, 0), game.Pos(1, 2), game.Pos(2, 1)},
			wantLayer: "positional",
		},
		{
			name:      "Opposite corners with an empty center are a block first",
			board:     []string{"X..", "...", "..X"},
			want:      []game.Position{game.Pos(1, 1)},
			wantLayer: "block",
		},
		{
			name:      "Single opponent corner gives the opposite corner",
			board:     []string{"...", ".O.", "X.."},
			want:      []game.Position{game.Pos(0, 2)},
			wantLayer: "positional",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Hard never rolls a gate: scriptedRand fails on Float64.
			got := decide(t, Hard, board(t, tt.board...), game.PlayerO, &scriptedRand{t: t})
			assert.True(t, moveIn(got.Position, tt.want), "got %v, want one of %v", got.Position, tt.want)
			assert.Equal(t, tt.wantLayer, got.Layer)
		})
	}
}

func TestHardFallsBackToRandom(t *testing.T) {
	// Center taken, no corners held by X, no threats.
	b := board(t, ".X.", ".O.", "...")
	rng := &scriptedRand{t: t, ints: []int{0}}

	got := decide(t, Hard, b, game.PlayerO, rng)

	assert.Equal(t, "random", got.Layer)
	assert.Equal(t, game.Pos(0, 0), got.Position)
	assert.Equal(t, 1, rng.intCalls)
}

func TestEasyNeverChecksWinOrBlock(t *testing.T) {
	// O can win at (1,2) and must block at (0,2); Easy ignores both.
	b := board(t, "XX.", "OO.", "...")
	// Empty cells: (0,2) (1,2) (2,0) (2,1) (2,2); index 4 is (2,2).
	rng := &scriptedRand{t: t, ints: []int{4}}

	got := decide(t, Easy, b, game.PlayerO, rng)

	assert.Equal(t, "random", got.Layer)
	assert.Equal(t, game.Pos(2, 2), got.Position)
	assert.Equal(t, 0, rng.floatCalls, "Easy must not roll the miss gate")
}

func TestMediumMissGate(t *testing.T) {
	winBoard := []string{"XX.", "OO.", "..."}
	blockBoard := []string{"XX.", "O..", "..."}
	quietBoard := []string{"...", "...", "..."}

	tests := []struct {
		name       string
		board      []string
		floats     []float64
		ints       []int
		want       game.Position
		wantLayer  string
		wantFloats int
	}{
		{
			name:       "Plays well - takes the win",
			board:      winBoard,
			floats:     []float64{0.9},
			want:       game.Pos(1, 2),
			wantLayer:  "win",
			wantFloats: 1,
		},
		{
			name:       "Misses the first gate - straight to random",
			board:      winBoard,
			floats:     []float64{0.1},
			ints:       []int{0},
			want:       game.Pos(0, 2),
			wantLayer:  "random",
			wantFloats: 1,
		},
		{
			name:       "Plays well twice - blocks",
			board:      blockBoard,
			floats:     []float64{0.9, 0.6},
			want:       game.Pos(0, 2),
			wantLayer:  "block",
			wantFloats: 2,
		},
		{
			name:       "Misses the second gate - random instead of block",
			board:      blockBoard,
			floats:     []float64{0.9, 0.59},
			ints:       []int{2},
			want:       game.Pos(1, 2),
			wantLayer:  "random",
			wantFloats: 2,
		},
		{
			name:       "No win or block - random, never the positional heuristic",
			board:      quietBoard,
			floats:     []float64{0.9, 0.9},
			ints:       []int{0},
			want:       game.Pos(0, 0),
			wantLayer:  "random",
			wantFloats: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := &scriptedRand{t: t, floats: tt.floats, ints: tt.ints}
			got := decide(t, Medium, board(t, tt.board...), game.PlayerO, rng)
			assert.Equal(t, tt.want, got.Position)
			assert.Equal(t, tt.wantLayer, got.Layer)
			assert.Equal(t, tt.wantFloats, rng.floatCalls)
		})
	}
}

// reachableBoards walks every position reachable by alternating play from
// the empty board and returns the ones that are still running.
func reachableBoards() []game.Board {
	seen := make(map[game.Board]bool)
	var running []game.Board
	var walk func(b game.Board)
	walk = func(b game.Board) {
		if seen[b] {
			return
		}
		seen[b] = true
		if game.Evaluate(b).Over() {
			return
		}
		running = append(running, b)
		for _, pos := range b.EmptyCells() {
			next, _ := b.Place(pos, b.Next().Cell())
			walk(next)
		}
	}
	walk(game.EmptyBoard())
	return running
}

func TestChooseMoveAlwaysValid(t *testing.T) {
	boards := reachableBoards()
	require.NotEmpty(t, boards)

	rng := rand.New(rand.NewPCG(1, 2))
	for _, d := range Difficulties {
		p, err := NewPolicy(d, rng)
		require.NoError(t, err)
		for _, b := range boards {
			self := b.Next()
			pos, err := p.ChooseMove(context.Background(), b, self)
			if err != nil {
				t.Fatalf("%s: ChooseMove(%v) failed: %v", d, b, err)
			}
			if !game.IsValid(b, pos) {
				t.Fatalf("%s: ChooseMove(%v) returned invalid %v", d, b, pos)
			}
		}
	}
}

func TestHardPrecedenceOnReachableBoards(t *testing.T) {
	p, err := NewPolicy(Hard, rand.New(rand.NewPCG(3, 4)))
	require.NoError(t, err)

	for _, b := range reachableBoards() {
		self := b.Next()
		got, err := p.Decide(context.Background(), b, self)
		require.NoError(t, err)

		if win, ok := findWinningMove(b, self.Cell()); ok {
			if got.Position != win || got.Layer != "win" {
				t.Fatalf("board %v: got %+v, want win at %v", b, got, win)
			}
			continue
		}
		if block, ok := findWinningMove(b, self.Opponent().Cell()); ok {
			if got.Position != block || got.Layer != "block" {
				t.Fatalf("board %v: got %+v, want block at %v", b, got, block)
			}
		}
	}
}

func TestPolicyPreconditions(t *testing.T) {
	full := board(t, "XOX", "XOO", "OXX")
	won := board(t, "XXX", "OO.", "...")
	var malformed game.Board
	malformed[0][0] = game.Cell(9)

	tests := []struct {
		name string
		call func() error
	}{
		{"Full board", func() error {
			_, err := ChooseMove(context.Background(), full, Hard, game.PlayerO, nil)
			return err
		}},
		{"Game already won", func() error {
			_, err := ChooseMove(context.Background(), won, Hard, game.PlayerO, nil)
			return err
		}},
		{"Invalid side", func() error {
			_, err := ChooseMove(context.Background(), game.EmptyBoard(), Hard, game.Player(0), nil)
			return err
		}},
		{"Unknown difficulty", func() error {
			_, err := ChooseMove(context.Background(), game.EmptyBoard(), Difficulty("impossible"), game.PlayerO, nil)
			return err
		}},
		{"Malformed cell", func() error {
			_, err := ChooseMove(context.Background(), malformed, Easy, game.PlayerO, nil)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), ErrPolicyPrecondition)
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range Difficulties {
		got, err := ParseDifficulty(string(d))
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	_, err := ParseDifficulty("expert")
	assert.ErrorIs(t, err, ErrPolicyPrecondition)
}

func TestPolicyLayers(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		want       []string
	}{
		{Easy, []string{"random"}},
		{Medium, []string{"win", "block", "random"}},
		{Hard, []string{"win", "block", "positional", "random"}},
	}
	for _, tt := range tests {
		p, err := NewPolicy(tt.difficulty, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.Layers(), tt.difficulty)
		assert.Equal(t, tt.difficulty, p.Difficulty())
	}
}
