// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package main

import (
	"bufio"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/quiver-dev/quiver/internal/embed"
	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

func newVectorCmd() *cobra.Command {
	var (
		modelID   string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "vector [text...]",
		Short: "Embed text and print the raw vectors without storing them",
		Long: `Embed each argument (or each stdin line when no arguments are given)
and print one JSON vector per line. Inputs are batched through the
model, so large stdin streams stay bounded in memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reg, err := buildRegistry(cfg)
			if err != nil {
				return err
			}

			if modelID == "" {
				modelID = cfg.DefaultModel
			}
			m, err := reg.Get(modelID)
			if err != nil {
				return err
			}

			inputs := make([]embed.Input, 0, len(args))
			for _, a := range args {
				inputs = append(inputs, embed.TextInput(a))
			}
			if len(inputs) == 0 {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					inputs = append(inputs, embed.TextInput(sc.Text()))
				}
				if err := sc.Err(); err != nil {
					return quiverr.Wrapf(err, quiverr.CodeCLIInputInvalid, "reading stdin")
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for vec, err := range embed.Stream(cmd.Context(), m, inputs, batchSize) {
				if err != nil {
					return err
				}
				if err := enc.Encode(vec); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelID, "model", "m", "", "model ID (default from config)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "inputs per model call (default 100)")

	return cmd
}
