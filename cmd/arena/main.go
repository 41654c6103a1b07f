// Command arena runs the dogfight simulation headless and serves the
// websocket gateway for renderers and remote pilots.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"dogfight-arena/internal/config"
	"dogfight-arena/internal/data"
	"dogfight-arena/internal/gateway"
	"dogfight-arena/internal/round"

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
	mode := flag.String("mode", "", "round mode override: ai, player or mixed")
	tables := flag.String("tables", "", "AI tables YAML override")
	flag.Parse()

	cfg, err := loadConfig(config.Resolve(*cfgPath))
	if err != nil {
		return err
	}
	if *mode != "" {
		cfg.Round.Mode = *mode
	}
	if *tables != "" {
		cfg.AI.TablesPath = *tables
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	m := round.Mode(cfg.Round.Mode)
	if m.HasHuman() && !cfg.Gateway.Enabled {
		return fmt.Errorf("%w: round.mode %q needs the gateway for pilot input", config.ErrInvalid, cfg.Round.Mode)
	}

	log, err := config.NewLogger(cfg.Logging)
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Gateway.Enabled {
		hub := gateway.NewHub(ctrl, cfg.Gateway, log)
		ctrl.AddSink(hub)
		srv := gateway.NewServer(cfg.Gateway, hub)

		g.Go(func() error { return hub.Run(gctx) })
		g.Go(func() error {
			log.Info("gateway listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("gateway: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), cfg.Round.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				return fmt.Errorf("gateway shutdown: %w", err)
			}
			return nil
		})
	}

	if m.HasHuman() {
		log.Info("waiting in menu for a pilot", zap.String("mode", cfg.Round.Mode))
	} else if err := ctrl.StartBattle(m); err != nil {
		return err
	}

	g.Go(func() error { return ctrl.Run(gctx) })

	err = g.Wait()
	log.Info("arena stopped", zap.String("state", ctrl.State().String()))
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
