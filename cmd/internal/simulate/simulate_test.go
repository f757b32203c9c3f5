package simulate

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/bot"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateTalliesEveryGame(t *testing.T) {
	stats, err := Simulate(context.Background(), Config{Games: 60, Threads: 4, X: bot.Hard, O: bot.Easy, Seed: 7})
	require.NoError(t, err)

	assert.Equal(t, 60, stats.Games)
	assert.Equal(t, stats.Games, stats.XWins+stats.OWins+stats.Draws)
	assert.GreaterOrEqual(t, stats.Moves, 5*stats.Games)
	assert.LessOrEqual(t, stats.Moves, 9*stats.Games)
	assert.Greater(t, stats.XWins, stats.OWins)
}

func TestSimulateIsReproducible(t *testing.T) {
	cfg := Config{Games: 40, X: bot.Medium, O: bot.Medium, Seed: 42}

	cfg.Threads = 1
	first, err := Simulate(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Threads = 8
	second, err := Simulate(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimulateHardAsSecondOutplaysEasy(t *testing.T) {
	stats, err := Simulate(context.Background(), Config{Games: 30, Threads: 2, X: bot.Easy, O: bot.Hard, Seed: 3})
	require.NoError(t, err)
	assert.Greater(t, stats.OWins+stats.Draws, stats.XWins)
}

func TestSimulateRejectsEmptyBatch(t *testing.T) {
	_, err := Simulate(context.Background(), Config{Games: 0, X: bot.Easy, O: bot.Easy})
	assert.Error(t, err)
}

func TestSimulateStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Simulate(ctx, Config{Games: 10, Threads: 1, X: bot.Easy, O: bot.Easy, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
