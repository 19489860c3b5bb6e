// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/embermud/ember/internal/authd"
	"github.com/embermud/ember/internal/authd/postgres"
	"github.com/embermud/ember/internal/config"
	"github.com/embermud/ember/internal/logging"
)

// newAuthdCmd creates the authd subcommand.
func newAuthdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authd",
		Short: "Start the credential service",
		Long: `Start the HTTP credential service the game server authenticates
against. Accounts live in PostgreSQL when --database-url is set, otherwise
in memory (accounts are lost on restart).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runAuthd(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("authd-addr", config.DefaultAuthdAddr, "HTTP listen address")
	cmd.Flags().String("database-url", "", "PostgreSQL URL (empty = in-memory accounts)")
	cmd.Flags().String("token-secret", "", "HMAC secret for session tokens")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")

	return cmd
}

// runAuthd starts the credential service and blocks until shutdown.
func runAuthd(ctx context.Context, cfg *config.Config) error {
	logging.SetDefault("ember-authd", version, cfg.LogFormat)

	if cfg.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("token_secret is required (flag, EMBER_TOKEN_SECRET, or config file)")
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var users authd.UserRepository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return oops.Code("DB_CONNECT_FAILED").With("operation", "create connection pool").Wrap(err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return oops.Code("DB_CONNECT_FAILED").With("operation", "ping database").Wrap(err)
		}
		users = postgres.NewUserRepository(pool)
		slog.Info("using postgres account storage")
	} else {
		users = authd.NewMemoryUserRepository()
		slog.Warn("using in-memory account storage; accounts are lost on restart")
	}

	tokens, err := authd.NewJWTIssuer(cfg.TokenSecret)
	if err != nil {
		return err
	}

	service, err := authd.NewService(users, authd.NewArgon2idHasher(), tokens)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.AuthdAddr,
		Handler:           authd.NewRouter(service, slog.Default()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("credential service listening", "addr", cfg.AuthdAddr)
		if serveErr := httpSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	select {
	case err := <-errCh:
		return oops.Code("AUTHD_SERVE_FAILED").With("addr", cfg.AuthdAddr).Wrap(err)
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("error stopping credential service", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
