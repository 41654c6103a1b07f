// Command arena-tty runs a local round in the terminal: a top-down radar,
// keyboard flight controls and synthesized sound cues.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dogfight-arena/internal/audio"
	"dogfight-arena/internal/config"
	"dogfight-arena/internal/data"
	"dogfight-arena/internal/radar"
	"dogfight-arena/internal/round"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "path to TOML config (env "+config.EnvPath+")")
	mode := flag.String("mode", "player", "initial menu selection: ai, player or mixed")
	logPath := flag.String("log", "arena-tty.log", "log file; the terminal is taken by the radar")
	mute := flag.Bool("mute", false, "start without sound")
	volume := flag.Float64("volume", 0.6, "cue volume in [0,1]")
	fps := flag.Int("fps", 30, "radar frames per second")
	flag.Parse()

	var cfg *config.Config
	if path := config.Resolve(*cfgPath); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}
	selected, err := round.ParseMode(*mode)
	if err != nil {
		return err
	}

	log, err := config.NewLogger(cfg.Logging, *logPath)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	aiTables, err := data.LoadAITables(cfg.AI.TablesPath)
	if err != nil {
		return fmt.Errorf("load ai tables: %w", err)
	}
	ctrl, err := round.New(cfg, aiTables, log)
	if err != nil {
		return fmt.Errorf("round controller: %w", err)
	}

	player := audio.NewPlayer(log, *volume)
	if !*mute {
		// a missing audio device is not fatal
		if err := player.Init(); err != nil {
			log.Warn("audio unavailable", zap.Error(err))
		}
	}
	defer player.Close()
	ctrl.AddSink(player)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()

	app := radar.NewApp(ctrl, screen, player, log, *fps)
	app.Radar().Mode = selected
	if *mute {
		app.Apply(radar.Action{Kind: radar.ActMute}, time.Now())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctrl.Run(gctx) })
	g.Go(func() error {
		// quitting the radar ends the round loop too
		defer cancel()
		return app.Run(gctx)
	})
	return g.Wait()
}
