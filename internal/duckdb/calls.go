package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-qc/internal/calls"
)

// SampleStats summarises one sample's calls.
type SampleStats struct {
	Sample    string
	Rows      int64
	Called    int64
	MeanDepth float64
}

// WriteCalls batch-inserts long-table records using the Appender API.
// source tags the rows so a reload can replace them.
func (s *Store) WriteCalls(source string, records []*calls.Record) error {
	if len(records) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variant_calls")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range records {
		if err := appender.AppendRow(
			source, r.Chrom, r.Pos, r.Ref, r.Alt, r.Sample,
			r.Gene, r.Transcript, r.Protein, r.Genotype,
			r.HQDepth, r.VAF, r.VAFNumeric,
			r.VarKey, r.VarHGVS, int64(r.BoolGenotype),
		); err != nil {
			return fmt.Errorf("append call: %w", err)
		}
	}

	return appender.Flush()
}

// DeleteSource removes every call loaded from source.
func (s *Store) DeleteSource(source string) error {
	if _, err := s.db.Exec("DELETE FROM variant_calls WHERE source=?", source); err != nil {
		return fmt.Errorf("delete calls: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM sources WHERE path=?", source); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}

// ClearCalls removes all stored calls and sources.
func (s *Store) ClearCalls() error {
	if _, err := s.db.Exec("DELETE FROM variant_calls"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM sources")
	return err
}

// CallCount returns the number of stored calls.
func (s *Store) CallCount() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM variant_calls").Scan(&n); err != nil {
		return 0, fmt.Errorf("count calls: %w", err)
	}
	return n, nil
}

// LookupVariant returns the stored calls for a var_key in sample order.
func (s *Store) LookupVariant(varKey string) ([]*calls.Record, error) {
	rows, err := s.db.Query(`SELECT
		chrom, pos, ref, alt, sample, gene, transcript, protein,
		genotype, hq_depth, vaf, vaf_numeric, var_key, var_hgvs, bool_genotype
		FROM variant_calls
		WHERE var_key=?
		ORDER BY sample`, varKey)
	if err != nil {
		return nil, fmt.Errorf("query variant: %w", err)
	}
	defer rows.Close()

	var out []*calls.Record
	for rows.Next() {
		var r calls.Record
		var called int64
		if err := rows.Scan(
			&r.Chrom, &r.Pos, &r.Ref, &r.Alt, &r.Sample, &r.Gene, &r.Transcript, &r.Protein,
			&r.Genotype, &r.HQDepth, &r.VAF, &r.VAFNumeric, &r.VarKey, &r.VarHGVS, &called,
		); err != nil {
			return nil, fmt.Errorf("scan call: %w", err)
		}
		r.BoolGenotype = int(called)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calls: %w", err)
	}
	return out, nil
}

// SampleSummary returns per-sample row counts, called counts and mean depth.
func (s *Store) SampleSummary() ([]SampleStats, error) {
	rows, err := s.db.Query(`SELECT
		sample,
		COUNT(*),
		CAST(SUM(bool_genotype) AS BIGINT),
		AVG(hq_depth)
		FROM variant_calls
		GROUP BY sample
		ORDER BY sample`)
	if err != nil {
		return nil, fmt.Errorf("query sample summary: %w", err)
	}
	defer rows.Close()

	var out []SampleStats
	for rows.Next() {
		var st SampleStats
		if err := rows.Scan(&st.Sample, &st.Rows, &st.Called, &st.MeanDepth); err != nil {
			return nil, fmt.Errorf("scan sample summary: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample summary: %w", err)
	}
	return out, nil
}
