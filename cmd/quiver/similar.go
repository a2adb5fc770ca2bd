// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quiver-dev/quiver/internal/store"
	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

func newSimilarCmd() *cobra.Command {
	var (
		byID   string
		byVec  string
		number int
	)

	cmd := &cobra.Command{
		Use:   "similar <collection> [query text...]",
		Short: "Rank stored records against a query",
		Long: `Rank every record in a collection by cosine similarity against the
query and print the best matches as JSON lines, highest score first.
The query is text (embedded with the collection's model), --id (the
stored vector of that record, which is excluded from the results), or
--vector (a raw JSON array).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := args[0]
			query := strings.Join(args[1:], " ")

			set := 0
			if query != "" {
				set++
			}
			if byID != "" {
				set++
			}
			if byVec != "" {
				set++
			}
			if set != 1 {
				return quiverr.New(quiverr.CodeCLIInputInvalid,
					"exactly one of query text, --id, or --vector is required")
			}

			_, _, st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			var results []store.Result
			switch {
			case byID != "":
				results, err = st.SimilarByID(cmd.Context(), collection, byID, number)
			case byVec != "":
				var vec []float32
				if err := json.Unmarshal([]byte(byVec), &vec); err != nil {
					return quiverr.Wrapf(err, quiverr.CodeCLIInputInvalid, "parsing --vector")
				}
				results, err = st.SimilarByVector(cmd.Context(), collection, vec, number, "")
			default:
				results, err = st.Similar(cmd.Context(), collection, query, number)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, r := range results {
				if err := enc.Encode(r); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&byID, "id", "", "rank against the stored vector of this record")
	cmd.Flags().StringVar(&byVec, "vector", "", "rank against this raw vector, a JSON array")
	cmd.Flags().IntVarP(&number, "number", "n", 0, "max results (default 10)")

	return cmd
}
