// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available embedding models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reg, err := buildRegistry(cfg)
			if err != nil {
				return err
			}

			for _, id := range reg.IDs() {
				m, err := reg.Get(id)
				if err != nil {
					return err
				}
				kinds := "text"
				if m.SupportsBinary() {
					if m.SupportsText() {
						kinds = "text+binary"
					} else {
						kinds = "binary"
					}
				}
				marker := " "
				if id == cfg.DefaultModel {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%dd\t%s\n", marker, id, m.Dimensions(), kinds)
			}
			return nil
		},
	}
}
