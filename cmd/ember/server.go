// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/embermud/ember/internal/auth"
	"github.com/embermud/ember/internal/command"
	"github.com/embermud/ember/internal/command/handlers"
	"github.com/embermud/ember/internal/config"
	"github.com/embermud/ember/internal/game"
	"github.com/embermud/ember/internal/logging"
	"github.com/embermud/ember/internal/network"
	"github.com/embermud/ember/internal/observability"
)

// newServerCmd creates the server subcommand with all flags configured.
func newServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the game server (telnet listener + simulation loop)",
		Long: `Start the game server: the telnet connection layer and the
fixed-rate simulation loop it feeds. Authentication is delegated to the
credential service configured with --auth-url.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("telnet-addr", config.DefaultTelnetAddr, "telnet listen address")
	cmd.Flags().String("auth-url", config.DefaultAuthURL, "credential service base URL")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")

	return cmd
}

// runServer starts the game server and blocks until shutdown.
func runServer(ctx context.Context, cfg *config.Config) error {
	logging.SetDefault("ember-server", version, cfg.LogFormat)

	slog.Info("starting game server",
		"telnet_addr", cfg.TelnetAddr,
		"auth_url", cfg.AuthURL,
		"tick_rate", game.TickRate,
	)

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	server := network.NewServer()
	world := game.NewWorld(server)
	loop := newGameLoop(world, auth.NewClient(cfg.AuthURL))

	// Start observability server if configured
	var obsServer *observability.Server
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			return server.Addr() != ""
		})
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return err
		}
		go func() {
			if obsErr := <-obsErrCh; obsErr != nil {
				slog.Error("observability server error", "error", obsErr)
			}
		}()
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		server.Listen(ctx, cfg.TelnetAddr)
		return nil
	})
	g.Go(func() error {
		return loop.Run(ctx)
	})

	<-ctx.Done()
	slog.Info("shutting down...")

	if err := g.Wait(); err != nil {
		slog.Warn("error during shutdown", "error", err)
	}

	if obsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// newGameLoop assembles the tick order. Ingestion first, then game logic,
// then the lost-connection reap, prompt, and outbox delivery. Reaping
// after the input systems lets a final line flushed at EOF still act.
func newGameLoop(world *game.World, credentials auth.CredentialClient) *game.Loop {
	registry := command.NewRegistry()
	handlers.RegisterAll(registry)
	dispatcher := command.NewDispatcher(registry)

	loop := game.NewLoop(world)
	for _, system := range []game.System{
		game.HandleIncoming,
		game.HandleLost,
		game.HandleEvents,
		game.HandleInbox,
		game.HandleNetworkEvents,
		auth.NewSystem(credentials),
		game.EmitPromptOnInput,
		game.UpdateWorldTime,
		dispatcher.System(),
		game.ReapDisconnected,
		game.SendPrompt,
		game.HandleOutbox,
	} {
		loop.AddSystem(system)
	}
	return loop
}
