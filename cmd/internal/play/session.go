package play

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/bot"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/config"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/match"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/player"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/repository"
	"errors"
	"log/slog"
	"slices"
	"time"
)

// Screen is the part of the terminal a session drives.
type Screen interface {
	match.Renderer
	Welcome(ctx context.Context) error
	Select(ctx context.Context, title string, options []string, selected int) (int, error)
	GameOver(ctx context.Context) (bool, error)
}

var (
	modeLabels = map[match.Mode]string{
		match.Single: "Single player (vs computer)",
		match.Multi:  "Two players (same terminal)",
	}
	difficultyLabels = map[bot.Difficulty]string{
		bot.Easy:   "Easy",
		bot.Medium: "Medium",
		bot.Hard:   "Hard",
	}
)

// Terminal is a Screen that can also show a plain message.
type Terminal interface {
	Screen
	Message(ctx context.Context, lines ...string) error
}

// Session runs matches on one terminal until the player stops.
type Session struct {
	Screen    Screen
	Human     player.Actor
	Renderer  match.Renderer
	Settings  repository.SettingsRepository
	Profile   string
	Game      config.Game
	ThinkTime time.Duration
	Rand      bot.Rand
}

// Run shows the welcome screen, asks for missing options and plays until the
// player declines a rematch or quits.
func (s *Session) Run(ctx context.Context) error {
	if err := s.Screen.Welcome(ctx); err != nil {
		return ignoreQuit(err)
	}

	opts, err := s.chooseOptions(ctx)
	if err != nil {
		return ignoreQuit(err)
	}

	renderer := s.Renderer
	if renderer == nil {
		renderer = s.Screen
	}

	for {
		x, o, err := match.Seats(opts, s.Human, s.Rand, s.ThinkTime)
		if err != nil {
			return err
		}

		m := match.New(x, o, renderer)
		status, err := m.Play(ctx)
		if err != nil {
			return ignoreQuit(err)
		}
		slog.InfoContext(ctx, "Game over", "match.id", m.ID, "status", status.String())

		again, err := s.Screen.GameOver(ctx)
		if err != nil {
			return ignoreQuit(err)
		}
		if !again {
			return nil
		}
	}
}

// chooseOptions fills the mode and difficulty from config or, when unset,
// from menus preselected with the remembered choice.
func (s *Session) chooseOptions(ctx context.Context) (match.Options, error) {
	remembered, err := s.Settings.Load(ctx, s.Profile)
	if err != nil {
		slog.WarnContext(ctx, "Could not load remembered settings", "profile", s.Profile, "error", err)
	}

	opts := match.DefaultOptions()
	if opts.FirstMover, err = match.ParseFirstMover(s.Game.FirstMover); err != nil {
		return opts, err
	}

	if s.Game.Mode != "" {
		if opts.Mode, err = match.ParseMode(s.Game.Mode); err != nil {
			return opts, err
		}
	} else {
		i, err := s.Screen.Select(ctx, "Select game mode", labels(match.Modes, modeLabels),
			slices.Index(match.Modes, match.Mode(remembered.Mode)))
		if err != nil {
			return opts, err
		}
		opts.Mode = match.Modes[i]
	}

	if opts.Mode == match.Single {
		if s.Game.Difficulty != "" {
			if opts.Difficulty, err = bot.ParseDifficulty(s.Game.Difficulty); err != nil {
				return opts, err
			}
		} else {
			i, err := s.Screen.Select(ctx, "Select difficulty", labels(bot.Difficulties, difficultyLabels),
				slices.Index(bot.Difficulties, bot.Difficulty(remembered.Difficulty)))
			if err != nil {
				return opts, err
			}
			opts.Difficulty = bot.Difficulties[i]
		}
	}

	saved := repository.Settings{Mode: string(opts.Mode), FirstMover: string(opts.FirstMover)}
	if opts.Mode == match.Single {
		saved.Difficulty = string(opts.Difficulty)
	}
	if err := s.Settings.Save(ctx, s.Profile, saved); err != nil {
		slog.WarnContext(ctx, "Could not remember settings", "profile", s.Profile, "error", err)
	}

	slog.InfoContext(ctx, "Options chosen", "mode", opts.Mode, "difficulty", opts.Difficulty, "first_mover", opts.FirstMover)
	return opts, nil
}

func labels[T comparable](values []T, names map[T]string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = names[v]
	}
	return out
}

func ignoreQuit(err error) error {
	if errors.Is(err, player.ErrQuit) {
		return nil
	}
	return err
}
