// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package main

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quiver-dev/quiver/internal/server"
)

func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			addr := cfg.Server.Listen
			if listen != "" {
				addr = listen
			}

			srv, err := server.New(server.Config{
				ListenAddr:   addr,
				CORSOrigins:  cfg.Server.CORSOrigins,
				DefaultModel: cfg.DefaultModel,
			}, st)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("quiver API listening", "addr", addr)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")

	return cmd
}
