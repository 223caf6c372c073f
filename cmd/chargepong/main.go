// Command chargepong opens a window and plays one local two-player match.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/plus3/chargepong/audio"
	"github.com/plus3/chargepong/config"
	debugui_ebiten "github.com/plus3/chargepong/ecs/debugui/ebiten"
	"github.com/plus3/chargepong/ebitenhost"
	"github.com/plus3/chargepong/pong"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "chargepong:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.FromArgs("chargepong", args)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	sounds := audio.NewSoundManager(cfg.Audio.Volume, cfg.Audio.Mute)
	if err := sounds.Initialize(); err != nil {
		logger.Warn("audio disabled", "err", err)
	}
	defer sounds.Cleanup()

	gameOpts := []pong.Option{pong.WithLogger(logger)}
	hostOpts := []ebitenhost.Option{
		ebitenhost.WithLogger(logger),
		ebitenhost.WithTPS(cfg.TPS),
		ebitenhost.WithEventListener(sounds.Handle),
	}
	if cfg.Debug {
		gameOpts = append(gameOpts, ebitenhost.DebugOptions()...)
		hostOpts = append(hostOpts, ebitenhost.WithImgui(debugui_ebiten.NewImguiBackend()))
	}

	game := pong.NewGame(gameOpts...)
	host := ebitenhost.New(game, hostOpts...)
	return host.Run(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
}
