// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCollectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Manage collections",
	}
	cmd.AddCommand(
		newCollectionsListCmd(),
		newCollectionsDeleteCmd(),
		newCollectionsCountCmd(),
	)
	return cmd
}

func newCollectionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections with their bound model and record count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			cols, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, col := range cols {
				n, err := st.Count(cmd.Context(), col.Name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", col.Name, col.ModelID, n)
			}
			return nil
		},
	}
}

func newCollectionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a collection and all its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newCollectionsCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <name>",
		Short: "Count records in a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Count(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
