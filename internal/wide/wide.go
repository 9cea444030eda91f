// Package wide pivots long-table variant calls into one row per variant
// with one called/not-called cell per sample.
package wide

import (
	"errors"
	"fmt"

	"github.com/inodb/vibe-qc/internal/calls"
)

// DefaultColour is the placeholder concordance colour set before any
// concordance has been assigned.
const DefaultColour = "black"

// ErrDuplicateObservation is returned when a sample is observed twice for
// the same variant row, which leaves the pivot cell ambiguous.
var ErrDuplicateObservation = errors.New("duplicate observation")

// DuplicateObservationError identifies the colliding cell.
type DuplicateObservationError struct {
	VarKey string
	Sample string
	Lines  [2]int // 1-based positions of the two records in the input slice
}

func (e *DuplicateObservationError) Error() string {
	return fmt.Sprintf("duplicate observation for sample %q at variant %s (records %d and %d)",
		e.Sample, e.VarKey, e.Lines[0], e.Lines[1])
}

func (e *DuplicateObservationError) Unwrap() error {
	return ErrDuplicateObservation
}

// Key holds the non-sample columns that identify a wide row.
type Key struct {
	Chrom          string
	Pos            string
	Ref            string
	Alt            string
	Gene           string
	Transcript     string
	Protein        string
	VarKey         string
	VarHGVS        string
	ConcordanceCol string
}

// Row is one variant with its per-sample calls.
type Row struct {
	Key
	calls map[string]int
}

// Call returns the sample's bool_genotype. ok is false when the sample has
// no observation for this variant, which is distinct from a 0 (not called).
func (r *Row) Call(sample string) (value int, ok bool) {
	value, ok = r.calls[sample]
	return value, ok
}

// Observed returns the number of samples with a value in this row.
func (r *Row) Observed() int {
	return len(r.calls)
}

// Table is the wide layout: rows in first-seen variant order and sample
// columns in first-seen sample order.
type Table struct {
	Samples []string
	Rows    []*Row
}

// Reshape pivots long records into a wide table. Every row starts with
// ConcordanceCol set to DefaultColour.
func Reshape(records []*calls.Record) (*Table, error) {
	t := &Table{}
	index := make(map[Key]int)
	seenSample := make(map[string]bool)
	firstLine := make(map[Key]map[string]int)

	for i, r := range records {
		k := Key{
			Chrom:          r.Chrom,
			Pos:            r.PosText(),
			Ref:            r.Ref,
			Alt:            r.Alt,
			Gene:           r.Gene,
			Transcript:     r.Transcript,
			Protein:        r.Protein,
			VarKey:         r.VarKey,
			VarHGVS:        r.VarHGVS,
			ConcordanceCol: DefaultColour,
		}

		if !seenSample[r.Sample] {
			seenSample[r.Sample] = true
			t.Samples = append(t.Samples, r.Sample)
		}

		idx, ok := index[k]
		if !ok {
			idx = len(t.Rows)
			index[k] = idx
			t.Rows = append(t.Rows, &Row{Key: k, calls: make(map[string]int)})
			firstLine[k] = make(map[string]int)
		}

		row := t.Rows[idx]
		if _, dup := row.calls[r.Sample]; dup {
			return nil, &DuplicateObservationError{
				VarKey: r.VarKey,
				Sample: r.Sample,
				Lines:  [2]int{firstLine[k][r.Sample], i + 1},
			}
		}
		row.calls[r.Sample] = r.BoolGenotype
		firstLine[k][r.Sample] = i + 1
	}

	return t, nil
}

// Observation is one (variant, sample, bool_genotype) triple.
type Observation struct {
	VarKey       string
	Sample       string
	BoolGenotype int
}

// Melt expands the table back into observations, row by row and sample by
// sample. Absent cells produce no observation.
func (t *Table) Melt() []Observation {
	var out []Observation
	for _, row := range t.Rows {
		for _, s := range t.Samples {
			if v, ok := row.calls[s]; ok {
				out = append(out, Observation{VarKey: row.VarKey, Sample: s, BoolGenotype: v})
			}
		}
	}
	return out
}

// Clone returns a deep copy so a colourer can return a modified table
// without touching its input.
func (t *Table) Clone() *Table {
	c := &Table{
		Samples: append([]string(nil), t.Samples...),
		Rows:    make([]*Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		cells := make(map[string]int, len(row.calls))
		for s, v := range row.calls {
			cells[s] = v
		}
		c.Rows[i] = &Row{Key: row.Key, calls: cells}
	}
	return c
}

// Projection maps var_key to concordance colour. When several rows share a
// var_key (differing labels), the first row wins.
func (t *Table) Projection() map[string]string {
	p := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		if _, ok := p[row.VarKey]; !ok {
			p[row.VarKey] = row.ConcordanceCol
		}
	}
	return p
}
