package play

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/bot"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/config"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/match"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/player"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/repository"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/ui"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScreen struct {
	selects  []string
	answers  []int
	offered  []int
	again    []bool
	rendered int
}

func (f *fakeScreen) Render(context.Context, match.Snapshot) error {
	f.rendered++
	return nil
}

func (f *fakeScreen) Welcome(context.Context) error { return nil }

func (f *fakeScreen) Select(_ context.Context, title string, _ []string, selected int) (int, error) {
	f.selects = append(f.selects, title)
	f.offered = append(f.offered, selected)
	if len(f.answers) == 0 {
		return 0, player.ErrQuit
	}
	answer := f.answers[0]
	f.answers = f.answers[1:]
	return answer, nil
}

func (f *fakeScreen) GameOver(context.Context) (bool, error) {
	if len(f.again) == 0 {
		return false, nil
	}
	again := f.again[0]
	f.again = f.again[1:]
	return again, nil
}

func openStore(t *testing.T) repository.SettingsRepository {
	t.Helper()
	store, err := repository.Open(context.Background(), config.Settings{
		Store:      "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "settings.db"),
		Profile:    "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestChooseOptionsAsksAndRemembers(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	screen := &fakeScreen{answers: []int{0, 2}}
	s := &Session{Screen: screen, Settings: store, Profile: "test", Game: config.Game{FirstMover: "computer"}}

	opts, err := s.chooseOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, match.Options{Mode: match.Single, Difficulty: bot.Hard, FirstMover: match.ComputerFirst}, opts)
	assert.Equal(t, []string{"Select game mode", "Select difficulty"}, screen.selects)
	assert.Equal(t, []int{-1, -1}, screen.offered)

	saved, err := store.Load(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, repository.Settings{Mode: "single", Difficulty: "hard", FirstMover: "computer"}, saved)

	// The next session preselects what was chosen last time.
	screen = &fakeScreen{answers: []int{0, 2}}
	s.Screen = screen
	_, err = s.chooseOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, screen.offered)
}

func TestChooseOptionsFromConfigSkipsMenus(t *testing.T) {
	screen := &fakeScreen{}
	s := &Session{
		Screen:   screen,
		Settings: repository.NopSettingsRepository{},
		Game:     config.Game{Mode: "single", Difficulty: "medium", FirstMover: "human"},
	}

	opts, err := s.chooseOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, match.Single, opts.Mode)
	assert.Equal(t, bot.Medium, opts.Difficulty)
	assert.Empty(t, screen.selects)
}

func TestChooseOptionsMultiSkipsDifficulty(t *testing.T) {
	screen := &fakeScreen{answers: []int{1}}
	s := &Session{Screen: screen, Settings: repository.NopSettingsRepository{}, Game: config.Game{FirstMover: "human"}}

	opts, err := s.chooseOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, match.Multi, opts.Mode)
	assert.Equal(t, []string{"Select game mode"}, screen.selects)
}

func TestChooseOptionsRejectsBadConfig(t *testing.T) {
	s := &Session{Screen: &fakeScreen{}, Settings: repository.NopSettingsRepository{}, Game: config.Game{Mode: "solo"}}
	_, err := s.chooseOptions(context.Background())
	assert.ErrorIs(t, err, match.ErrInvalidOption)
}

func TestRunQuitFromMenuIsClean(t *testing.T) {
	s := &Session{Screen: &fakeScreen{}, Settings: repository.NopSettingsRepository{}, Game: config.Game{FirstMover: "human"}}
	assert.NoError(t, s.Run(context.Background()))
}

func TestRunPlaysUntilRematchDeclined(t *testing.T) {
	policy, err := bot.NewPolicy(bot.Hard, nil)
	require.NoError(t, err)

	// Both seats of a two player game are driven by the computer.
	screen := &fakeScreen{answers: []int{1}, again: []bool{true, false}}
	s := &Session{
		Screen:   screen,
		Human:    bot.NewComputer(policy, 0),
		Settings: repository.NopSettingsRepository{},
		Game:     config.Game{FirstMover: "human"},
	}

	require.NoError(t, s.Run(context.Background()))
	// Two full matches of at least five moves each, plus the opening render.
	assert.GreaterOrEqual(t, screen.rendered, 2*6)
}

func postKeys(t *testing.T, s tcell.SimulationScreen, evs ...*tcell.EventKey) {
	t.Helper()
	go func() {
		for _, ev := range evs {
			for s.PostEvent(ev) != nil {
				time.Sleep(time.Millisecond)
			}
		}
	}()
}

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }
func char(r rune) *tcell.EventKey     { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func TestRunTwoPlayersOnTerminal(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 24)
	term := ui.New(s)
	t.Cleanup(term.Close)

	store := openStore(t)
	postKeys(t, s,
		key(tcell.KeyEnter),                     // welcome
		key(tcell.KeyDown), key(tcell.KeyEnter), // two players
		key(tcell.KeyEnter),                   // X (1,1)
		key(tcell.KeyUp), key(tcell.KeyEnter), // O (0,1)
		key(tcell.KeyUp), key(tcell.KeyLeft), key(tcell.KeyEnter), // X (0,0)
		key(tcell.KeyDown), key(tcell.KeyEnter), // O (2,1)
		key(tcell.KeyDown), key(tcell.KeyRight), key(tcell.KeyEnter), // X (2,2)
		char('n'),
	)

	session := &Session{
		Screen:   term,
		Human:    ui.NewHumanActor(term),
		Settings: store,
		Profile:  "test",
		Game:     config.Game{FirstMover: "human"},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, session.Run(ctx))

	saved, err := store.Load(context.Background(), "test")
	require.NoError(t, err)
	assert.Equal(t, "multi", saved.Mode)
	assert.Empty(t, saved.Difficulty)
}
