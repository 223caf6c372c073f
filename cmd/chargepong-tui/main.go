// Command chargepong-tui plays a match in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/chargepong/config"
	"github.com/plus3/chargepong/pong"
	"github.com/plus3/chargepong/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "chargepong-tui:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.FromArgs("chargepong-tui", args)
	if err != nil {
		return err
	}

	// The screen owns the terminal, so logs go to a file when asked for.
	logger, err := cfg.Logger(io.Discard)
	if err != nil {
		return err
	}
	if path := os.Getenv("CHARGEPONG_LOG"); path != "" {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer file.Close()
		if logger, err = cfg.Logger(file); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	game := pong.NewGame(pong.WithLogger(logger))
	term := tui.New(screen, game,
		tui.WithLogger(logger),
		tui.WithTPS(cfg.TPS),
		tui.WithHold(cfg.TUI.Hold),
	)
	return term.Run(ctx)
}
