package play

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/config"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/hub"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/logger"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/match"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/player"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/repository"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/server"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/telemetry"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/ui"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

type Command struct {
	configPath string
	mode       string
	difficulty string
	first      string
	think      time.Duration
	spectate   bool
}

func (*Command) Name() string     { return "play" }
func (*Command) Synopsis() string { return "Play tic-tac-toe in the terminal" }
func (*Command) Usage() string {
	return `play [flags]

Play against the computer or a friend on the same keyboard.
Options left unset are asked for in a menu.

Environment:
` + config.Usage()
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.StringVar(&c.configPath, "config", "", "YAML config file")
	flags.StringVar(&c.mode, "mode", "", "game mode (single|multi)")
	flags.StringVar(&c.difficulty, "difficulty", "", "computer difficulty (easy|medium|hard)")
	flags.StringVar(&c.first, "first", "", "who moves first in single player (human|computer|random)")
	flags.DurationVar(&c.think, "think", -1, "computer thinking delay")
	flags.BoolVar(&c.spectate, "spectate", false, "serve a read-only web view of the game")
}

func (c *Command) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	closeLog, err := logger.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeLog()

	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		slog.Error("Failed to initialize OpenTelemetry", "error", err)
		fmt.Fprintf(os.Stderr, "telemetry: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			slog.Error("Failed to shut down OpenTelemetry", "error", err)
		}
	}()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Session ended with error", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// loadConfig reads the config and lets flags override it.
func (c *Command) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.mode != "" {
		cfg.Game.Mode = c.mode
	}
	if c.difficulty != "" {
		cfg.Game.Difficulty = c.difficulty
	}
	if c.first != "" {
		cfg.Game.FirstMover = c.first
	}
	if c.think >= 0 {
		cfg.Game.ThinkTime = c.think
	}
	if c.spectate {
		cfg.Spectator.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := repository.Open(ctx, cfg.Settings)
	if err != nil {
		slog.WarnContext(ctx, "Settings store unavailable, choices will not be remembered", "store", cfg.Settings.Store, "error", err)
		store = repository.NopSettingsRepository{}
	}
	defer store.Close()

	term, err := ui.Open()
	if err != nil {
		return err
	}
	defer term.Close()

	return serve(ctx, cfg, term, ui.NewHumanActor(term), store)
}

// serve runs a session on term and, when enabled, the spectator feed next
// to it. It returns once the session ends and the feed has shut down.
func serve(ctx context.Context, cfg *config.Config, term Terminal, human player.Actor, store repository.SettingsRepository) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var renderer match.Renderer = term
	if cfg.Spectator.Enabled {
		feed, err := startSpectator(ctx, g, cfg, term)
		if err != nil {
			cancel()
			return errors.Join(ignoreQuit(err), g.Wait())
		}
		renderer = match.MultiRenderer{term, feed}
	}

	s := &Session{
		Screen:    term,
		Human:     human,
		Renderer:  renderer,
		Settings:  store,
		Profile:   cfg.Settings.Profile,
		Game:      cfg.Game,
		ThinkTime: cfg.Game.ThinkTime,
	}
	g.Go(func() error {
		defer cancel()
		return s.Run(ctx)
	})
	return g.Wait()
}

// startSpectator starts the hub and the web server in g, shows the
// spectator links on term and returns the renderer that feeds the hub.
func startSpectator(ctx context.Context, g *errgroup.Group, cfg *config.Config, term Terminal) (match.Renderer, error) {
	tokens, err := server.NewTokenIssuer(cfg.Spectator.Secret, cfg.Spectator.TokenTTL)
	if err != nil {
		return nil, err
	}
	token, err := tokens.Issue(cfg.Settings.Profile)
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", cfg.Spectator.Addr)
	if err != nil {
		return nil, fmt.Errorf("spectator listen: %w", err)
	}

	h := hub.NewHub()
	srv := server.NewServer(h, tokens)
	srv.RegisterHandlers()

	g.Go(func() error {
		h.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return srv.Serve(ctx, ln)
	})

	addr := ln.Addr().String()
	slog.InfoContext(ctx, "Spectator view enabled", "addr", addr)
	if err := term.Message(ctx,
		"Spectators can watch at:",
		fmt.Sprintf("http://%s/api/game?token=%s", addr, token),
		fmt.Sprintf("ws://%s/ws?token=%s", addr, token),
	); err != nil {
		return nil, err
	}
	return hub.NewRenderer(h), nil
}
