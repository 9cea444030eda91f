package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-qc/internal/calls"
	"github.com/inodb/vibe-qc/internal/duckdb"
	"github.com/inodb/vibe-qc/internal/output"
	"github.com/inodb/vibe-qc/internal/wide"
)

func newReshapeCmd(a *app) *cobra.Command {
	var (
		outputFile string
		storePath  string
		fresh      bool
	)

	cmd := &cobra.Command{
		Use:   "reshape <calls.tsv>",
		Short: "Pivot per-sample calls into one row per variant",
		Long: `Read the headerless 11-column calls table (chr, pos, ref, alt, sample, gene,
transcript, protein, genotype, hq_depth, vaf) and write the wide table with one
0/1 column per sample. Samples without an observation are written as NA.`,
		Example: `  vibe-qc reshape calls.tsv > wide.tsv
  vibe-qc reshape -o wide.tsv --store qc.duckdb calls.tsv.gz
  cat calls.tsv | vibe-qc reshape -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.loadCalls(args[0])
			if err != nil {
				return err
			}

			if storePath != "" {
				if err := a.storeCalls(storePath, args[0], records, fresh); err != nil {
					return err
				}
			}

			tbl, err := wide.Reshape(records)
			if err != nil {
				return err
			}
			partial := 0
			for _, row := range tbl.Rows {
				if row.Observed() < len(tbl.Samples) {
					partial++
				}
			}
			a.logger.Info("reshaped calls",
				zap.Int("variants", len(tbl.Rows)),
				zap.Int("samples", len(tbl.Samples)),
				zap.Int("partial_variants", partial))

			return writeOutput(cmd.OutOrStdout(), outputFile, func(w io.Writer) error {
				ww := output.NewWideWriter(w)
				if err := ww.Write(tbl); err != nil {
					return err
				}
				return ww.Flush()
			})
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&storePath, "store", "", "also load the calls into this DuckDB file")
	cmd.Flags().BoolVar(&fresh, "fresh", false, "clear every earlier load from the store first")

	return cmd
}

// loadCalls reads the long table and logs its size.
func (a *app) loadCalls(path string) ([]*calls.Record, error) {
	records, err := calls.LoadFile(path)
	if err != nil {
		return nil, err
	}
	a.logger.Info("loaded calls", zap.String("path", path), zap.Int("rows", len(records)))
	return records, nil
}

// storeCalls writes records into the DuckDB store, replacing any earlier
// load of the same file. Unchanged files are skipped unless fresh empties
// the store first.
func (a *app) storeCalls(storePath, source string, records []*calls.Record, fresh bool) error {
	s, err := duckdb.Open(storePath)
	if err != nil {
		return err
	}
	defer s.Close()

	if fresh {
		if err := s.ClearCalls(); err != nil {
			return fmt.Errorf("clear store: %w", err)
		}
	}

	var fp duckdb.FileFingerprint
	if source != "-" {
		fp, err = duckdb.StatFile(source)
		if err != nil {
			return fmt.Errorf("stat %s: %w", source, err)
		}
		current, err := s.SourceCurrent(fp)
		if err != nil {
			return err
		}
		if current {
			a.logger.Info("calls already stored, skipping", zap.String("path", source))
			return nil
		}
	}

	if err := s.DeleteSource(source); err != nil {
		return err
	}
	if err := s.WriteCalls(source, records); err != nil {
		return err
	}
	if source != "-" {
		if err := s.RecordSource(fp, len(records)); err != nil {
			return err
		}
	}
	total, err := s.CallCount()
	if err != nil {
		return err
	}
	a.logger.Info("stored calls",
		zap.String("store", storePath),
		zap.Int("rows", len(records)),
		zap.Int64("store_rows", total))
	return nil
}

// writeOutput runs write against stdout or a created file.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
