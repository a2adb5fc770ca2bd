// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quiver-dev/quiver/internal/config"
	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

// NewRootCmd creates the root quiver command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quiver",
		Short:         "Quiver — embedding-vector store and similarity search",
		Long:          "Quiver persists embedding vectors in named collections and ranks them by cosine similarity.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initViper(cmd); err != nil {
				return err
			}
			setupLogging(viper.GetBool("verbose"))
			return nil
		},
	}

	// Global flags — these map to viper keys via initViper.
	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().StringP("database", "d", "", "path to the sqlite database")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	// Register subcommands
	root.AddCommand(
		newEmbedCmd(),
		newEmbedMultiCmd(),
		newVectorCmd(),
		newSimilarCmd(),
		newCollectionsCmd(),
		newModelsCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return root
}

// initViper sets up the global Viper with defaults, env bindings, flag
// bindings, and optional config file so the standard precedence
// (flag > env > file > defaults) is handled uniformly.
func initViper(cmd *cobra.Command) error {
	v := viper.GetViper()

	config.SetDefaults(v)
	config.SetupEnv(v)

	if cfgFile, _ := cmd.Flags().GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return quiverr.Errorf(quiverr.CodeConfigLoadReadFailure, "reading config file: %w", err)
		}
	} else {
		// Auto-discover quiver.yaml from standard locations.
		// Note: SetConfigType is intentionally omitted. When set, Viper
		// falls back to trying the bare config name without extension,
		// which collides with the ./quiver binary in the project root.
		v.SetConfigName("quiver")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/quiver")
		v.AddConfigPath("/etc/quiver")
		// No config file is fine — defaults and env vars still apply.
		// Parse or permission errors must surface.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return quiverr.Errorf(quiverr.CodeConfigLoadReadFailure, "reading config: %w", err)
			}
		}
	}

	// Bind persistent flags to viper keys.
	if err := v.BindPFlag("db_path", cmd.Root().PersistentFlags().Lookup("database")); err != nil {
		return quiverr.Errorf(quiverr.CodeCLISetupFailure, "binding database flag: %w", err)
	}
	if err := v.BindPFlag("verbose", cmd.Root().PersistentFlags().Lookup("verbose")); err != nil {
		return quiverr.Errorf(quiverr.CodeCLISetupFailure, "binding verbose flag: %w", err)
	}

	return nil
}

// setupLogging routes slog to stderr so command output on stdout stays
// machine-readable.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
