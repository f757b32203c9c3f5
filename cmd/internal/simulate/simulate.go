package simulate

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/bot"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/config"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/game"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/logger"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/match"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

// Config describes a batch of computer-vs-computer games.
type Config struct {
	Games   int
	Threads int
	X, O    bot.Difficulty
	Seed    uint64
}

// Stats tallies the outcomes of a batch.
type Stats struct {
	Games int
	XWins int
	OWins int
	Draws int
	Moves int
}

func (s *Stats) add(status game.Status, moves int) {
	s.Games++
	s.Moves += moves
	switch {
	case status.Outcome == game.Draw:
		s.Draws++
	case status.Winner == game.PlayerX:
		s.XWins++
	default:
		s.OWins++
	}
}

// Simulate plays cfg.Games matches concurrently. Game i draws from its own
// generator seeded with (cfg.Seed, i), so a batch is reproducible regardless
// of scheduling.
func Simulate(ctx context.Context, cfg Config) (Stats, error) {
	if cfg.Games <= 0 {
		return Stats{}, errors.New("games must be positive")
	}
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}

	var (
		mu    sync.Mutex
		stats Stats
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Threads)
	for i := range cfg.Games {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
			x, err := bot.NewBotPlayer(cfg.X, rng, 0)
			if err != nil {
				return err
			}
			o, err := bot.NewBotPlayer(cfg.O, rng, 0)
			if err != nil {
				return err
			}

			m := match.New(x, o, nil)
			status, err := m.Play(ctx)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			moves := m.Board().TurnCount()

			mu.Lock()
			defer mu.Unlock()
			stats.add(status, moves)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

type Command struct {
	games   int
	threads int
	x, o    string
	seed    uint64
	verbose bool
}

func (*Command) Name() string     { return "simulate" }
func (*Command) Synopsis() string { return "Play the computer against itself" }
func (*Command) Usage() string {
	return `simulate [flags]

Play a batch of computer-vs-computer games and report the results.
`
}

func (c *Command) SetFlags(flags *flag.FlagSet) {
	flags.IntVar(&c.games, "games", 100, "number of games to play")
	flags.IntVar(&c.threads, "threads", runtime.GOMAXPROCS(0), "number of games to play in parallel")
	flags.StringVar(&c.x, "x", "hard", "difficulty of the computer playing X")
	flags.StringVar(&c.o, "o", "easy", "difficulty of the computer playing O")
	flags.Uint64Var(&c.seed, "seed", 0, "random seed (0 picks one)")
	flags.BoolVar(&c.verbose, "v", false, "log every game to stderr")
}

func (c *Command) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	level := "warn"
	if c.verbose {
		level = "debug"
	}
	closeLog, err := logger.Init(config.Log{Level: level, File: "-"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeLog()

	x, err := bot.ParseDifficulty(c.x)
	if err != nil {
		fmt.Fprintf(os.Stderr, "-x: %v\n", err)
		return subcommands.ExitUsageError
	}
	o, err := bot.ParseDifficulty(c.o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "-o: %v\n", err)
		return subcommands.ExitUsageError
	}
	seed := c.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	start := time.Now()
	stats, err := Simulate(ctx, Config{Games: c.games, Threads: c.threads, X: x, O: o, Seed: seed})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "seed\t%d\n", seed)
	fmt.Fprintf(w, "games\t%d\t%s\n", stats.Games, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(w, "X (%s)\t%d\t%s\n", x, stats.XWins, percent(stats.XWins, stats.Games))
	fmt.Fprintf(w, "O (%s)\t%d\t%s\n", o, stats.OWins, percent(stats.OWins, stats.Games))
	fmt.Fprintf(w, "draws\t%d\t%s\n", stats.Draws, percent(stats.Draws, stats.Games))
	fmt.Fprintf(w, "avg moves\t%.2f\n", float64(stats.Moves)/float64(stats.Games))
	w.Flush()

	return subcommands.ExitSuccess
}

func percent(n, total int) string {
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}
