// Command pong-soak plays matches headlessly with random input and reports
// update timings, match totals and memory use.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/gogpu/gg"
	"github.com/plus3/chargepong/pong"
	"github.com/plus3/chargepong/snapshot"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "Wall-clock limit for the run.")
	frames := flag.Int("frames", 216000, "Maximum number of game updates.")
	tps := flag.Int("tps", 60, "Game updates per simulated second.")
	seed := flag.Uint64("seed", 1, "Seed for the random input.")
	snapshotPath := flag.String("snapshot", "", "Write the final frame as PNG to this path.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	verbose := flag.Bool("v", false, "Log every shot and hit.")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	gg.SetLogger(logger)

	if *tps <= 0 {
		logger.Error("tps must be positive", "tps", *tps)
		os.Exit(2)
	}

	game := pong.NewGame(pong.WithLogger(logger))
	input := newRandomInput(rand.New(rand.NewPCG(*seed, *seed)))

	report := &Report{
		Duration:       *duration,
		MaxFrames:      *frames,
		TPS:            *tps,
		Seed:           *seed,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("soak started", "duration", *duration, "frames", *frames, "seed", *seed)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	dt := 1 / float64(*tps)
	startTime := time.Now()

Loop:
	for report.TotalUpdates < int64(*frames) {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		input.drive(game)

		updateStart := time.Now()
		game.Update(dt)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		report.TotalUpdates++

		report.Match.Record(game.DrainEvents())
		if side, lost := game.Loser(); lost {
			report.Match.Decided(side)
			logger.Debug("match decided", "loser", side, "matches", report.Match.Matches)
			game.Reset()
		}
	}

	report.TotalTime = time.Since(startTime)
	report.SimulatedTime = time.Duration(float64(report.TotalUpdates) * dt * float64(time.Second))
	report.Entities = game.Storage().Count()
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	logger.Info("soak finished", "updates", report.TotalUpdates, "elapsed", report.TotalTime)

	if *snapshotPath != "" {
		if err := snapshot.Save(*snapshotPath, game.Frame(800, 600)); err != nil {
			logger.Error("snapshot failed", "err", err)
			os.Exit(1)
		}
		logger.Info("snapshot written", "path", *snapshotPath)
	}

	fmt.Println("--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Error("report failed", "err", err)
		os.Exit(1)
	}
	fmt.Println("--- End of Report ---")
}
