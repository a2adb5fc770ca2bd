// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quiver Contributors

package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quiver-dev/quiver/internal/ingest"
	quiverr "github.com/quiver-dev/quiver/pkg/errors"
)

func newEmbedMultiCmd() *cobra.Command {
	var (
		modelID   string
		format    string
		input     string
		filesRoot string
		pattern   string
		sqlQuery  string
		sqlDB     string
		prefix    string
		batchSize int
		storeIt   bool
		asBinary  bool
		encodings []string
	)

	cmd := &cobra.Command{
		Use:   "embed-multi <collection>",
		Short: "Embed many items from a file, query, or directory tree",
		Long: `Bulk-embed items into a collection. Sources:

  --input FILE     csv, tsv, json, or ndjson rows (default stdin; format
                   inferred from the extension, override with --format)
  --files ROOT     every file under ROOT, relative path as the item ID;
                   --pattern filters by glob
  --sql QUERY      rows from a sqlite database (--sql-db, default the
                   quiver database); first column is the ID

Items are embedded in batches, each batch committed atomically.
Unchanged content is detected by hash and not re-embedded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := args[0]

			modes := 0
			if filesRoot != "" {
				modes++
			}
			if sqlQuery != "" {
				modes++
			}
			if modes > 1 {
				return quiverr.New(quiverr.CodeCLIInputInvalid, "--files and --sql are mutually exclusive")
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

			opts := ingest.Options{
				Prefix:       prefix,
				BatchSize:    batchSize,
				StoreContent: storeIt,
				Binary:       asBinary,
				Encodings:    encodings,
			}
			if opts.BatchSize == 0 {
				opts.BatchSize = cfg.BatchSize
			}
			if len(opts.Encodings) == 0 {
				opts.Encodings = cfg.Encodings
			}

			p := ingest.New(st, slog.Default())

			var report *ingest.Report
			switch {
			case filesRoot != "":
				report, err = p.Files(cmd.Context(), collection, filesRoot, pattern, opts)
			case sqlQuery != "":
				report, err = runSQLIngest(cmd, p, collection, sqlQuery, sqlDB, cfg.DBPath, opts)
			default:
				report, err = runReaderIngest(cmd, p, collection, input, format, opts)
			}
			if report != nil {
				printReport(cmd, report)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&modelID, "model", "m", "", "model ID used when the collection is created by this call")
	cmd.Flags().StringVar(&format, "format", "", "input format: csv, tsv, json, or ndjson")
	cmd.Flags().StringVarP(&input, "input", "i", "", "read rows from this file instead of stdin")
	cmd.Flags().StringVar(&filesRoot, "files", "", "ingest every file under this directory")
	cmd.Flags().StringVar(&pattern, "pattern", "", "glob filter for --files, matched against the relative path or base name")
	cmd.Flags().StringVar(&sqlQuery, "sql", "", "ingest rows returned by this sqlite query")
	cmd.Flags().StringVar(&sqlDB, "sql-db", "", "sqlite database for --sql (default the quiver database)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "prepend this prefix to every item ID")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "items per committed batch (default from config)")
	cmd.Flags().BoolVar(&storeIt, "store", false, "persist content alongside the vectors")
	cmd.Flags().BoolVar(&asBinary, "binary", false, "embed content through the binary path")
	cmd.Flags().StringSliceVar(&encodings, "encoding", nil, "ordered decode chain for --files (default from config)")

	return cmd
}

func runReaderIngest(cmd *cobra.Command, p *ingest.Pipeline, collection, input, format string, opts ingest.Options) (*ingest.Report, error) {
	var r io.Reader = cmd.InOrStdin()
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return nil, quiverr.Wrapf(err, quiverr.CodeCLIInputInvalid, "opening %s", input)
		}
		defer f.Close()
		r = f

		if format == "" {
			format = strings.TrimPrefix(filepath.Ext(input), ".")
		}
	}
	if format == "" {
		format = "csv"
	}

	ctx := cmd.Context()
	switch format {
	case "csv":
		return p.CSV(ctx, collection, r, ',', opts)
	case "tsv":
		return p.CSV(ctx, collection, r, '\t', opts)
	case "json":
		return p.JSON(ctx, collection, r, opts)
	case "ndjson", "jsonl":
		return p.NDJSON(ctx, collection, r, opts)
	default:
		return nil, quiverr.Errorf(quiverr.CodeCLIInputInvalid, "unknown format %q", format)
	}
}

func runSQLIngest(cmd *cobra.Command, p *ingest.Pipeline, collection, query, dbPath, defaultDB string, opts ingest.Options) (*ingest.Report, error) {
	if dbPath == "" {
		dbPath = defaultDB
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, quiverr.Wrapf(err, quiverr.CodeCLIInputInvalid, "opening %s", dbPath)
	}
	defer db.Close()

	rows, err := db.QueryContext(cmd.Context(), query)
	if err != nil {
		return nil, quiverr.Wrapf(err, quiverr.CodeCLIInputInvalid, "running query")
	}
	defer rows.Close()

	return p.SQLRows(cmd.Context(), collection, rows, opts)
}

func printReport(cmd *cobra.Command, report *ingest.Report) {
	fmt.Fprintf(cmd.OutOrStdout(), "stored %d, reused %d, skipped %d\n",
		report.Stored, report.Reused, len(report.Skipped))
	for _, s := range report.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", s.ID, s.Reason)
	}
}
