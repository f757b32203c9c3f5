package main

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/cmd/internal/play"
	"ctchen222/Tic-Tac-Toe-Terminal/cmd/internal/simulate"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&play.Command{}, "")
	subcommands.Register(&simulate.Command{}, "")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := subcommands.Execute(ctx)
	stop()
	os.Exit(int(status))
}
