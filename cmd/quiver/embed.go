// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quiver-dev/quiver/internal/embed"
	"github.com/quiver-dev/quiver/internal/store"
	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

func newEmbedCmd() *cobra.Command {
	var (
		modelID  string
		input    string
		meta     string
		storeIt  bool
		asBinary bool
	)

	cmd := &cobra.Command{
		Use:   "embed <collection> <id> [content]",
		Short: "Embed content and store it under an ID",
		Long: `Embed content with the collection's bound model and store the vector
under the given ID. Content comes from the argument, --input, or stdin.
The collection is created on first use, bound to --model (or the
configured default). Re-embedding an existing ID overwrites the record.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection, id := args[0], args[1]

			data, err := readContent(cmd, args, input)
			if err != nil {
				return err
			}

			var metadata map[string]any
			if meta != "" {
				if err := json.Unmarshal([]byte(meta), &metadata); err != nil {
					return quiverr.Wrapf(err, quiverr.CodeCLIInputInvalid, "parsing --metadata")
				}
			}

			cfg, _, st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if modelID == "" {
				modelID = cfg.DefaultModel
			}
			if _, err := st.GetOrCreate(cmd.Context(), collection, modelID); err != nil {
				return err
			}

			in := embed.TextInput(string(data))
			if asBinary {
				in = embed.BinaryInput(data)
			}
			err = st.Embed(cmd.Context(), collection, id, in, metadata, store.EmbedOptions{StoreContent: storeIt})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "embedded %s/%s\n", collection, id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelID, "model", "m", "", "model ID used when the collection is created by this call")
	cmd.Flags().StringVarP(&input, "input", "i", "", "read content from this file instead of the argument or stdin")
	cmd.Flags().StringVar(&meta, "metadata", "", "JSON object stored alongside the record")
	cmd.Flags().BoolVar(&storeIt, "store", false, "persist the content alongside the vector")
	cmd.Flags().BoolVar(&asBinary, "binary", false, "embed the content through the binary path")

	return cmd
}

// readContent resolves embed content with the precedence
// argument > --input file > stdin.
func readContent(cmd *cobra.Command, args []string, input string) ([]byte, error) {
	if len(args) > 2 {
		return []byte(args[2]), nil
	}
	if input != "" {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, quiverr.Wrapf(err, quiverr.CodeCLIInputInvalid, "reading %s", input)
		}
		return data, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, quiverr.Wrapf(err, quiverr.CodeCLIInputInvalid, "reading stdin")
	}
	return data, nil
}
