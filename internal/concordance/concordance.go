// Package concordance defines the seam through which an external step
// assigns per-variant concordance colours to a wide table.
package concordance

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inodb/vibe-qc/internal/wide"
)

// ErrContractViolation is returned when a colourer changes the row count or
// leaves a row without a colour.
var ErrContractViolation = errors.New("colourer contract violation")

// Colourer returns a copy of t with ConcordanceCol populated for every row.
type Colourer interface {
	Colour(t *wide.Table) (*wide.Table, error)
}

// Func adapts a plain function to the Colourer interface.
type Func func(t *wide.Table) (*wide.Table, error)

// Colour calls f(t).
func (f Func) Colour(t *wide.Table) (*wide.Table, error) {
	return f(t)
}

// Identity keeps whatever colours the table already has.
var Identity Colourer = Func(func(t *wide.Table) (*wide.Table, error) {
	return t.Clone(), nil
})

// Apply runs c over t and checks the result keeps the same rows and gives
// each one a colour.
func Apply(c Colourer, t *wide.Table) (*wide.Table, error) {
	out, err := c.Colour(t)
	if err != nil {
		return nil, fmt.Errorf("assign concordance colours: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: nil table", ErrContractViolation)
	}
	if len(out.Rows) != len(t.Rows) {
		return nil, fmt.Errorf("%w: %d rows in, %d rows out", ErrContractViolation, len(t.Rows), len(out.Rows))
	}
	for _, row := range out.Rows {
		if row.ConcordanceCol == "" {
			return nil, fmt.Errorf("%w: no colour for %s", ErrContractViolation, row.VarKey)
		}
	}
	return out, nil
}

// MapColourer sets colours from a var_key -> colour table computed elsewhere.
// Variants not in the map keep their current colour.
type MapColourer map[string]string

// Colour returns a copy of t with mapped colours applied.
func (m MapColourer) Colour(t *wide.Table) (*wide.Table, error) {
	out := t.Clone()
	for _, row := range out.Rows {
		if c, ok := m[row.VarKey]; ok {
			row.ConcordanceCol = c
		}
	}
	return out, nil
}

// ReadMap reads a two-column var_key<TAB>colour table. Blank lines and
// lines starting with '#' are skipped.
func ReadMap(r io.Reader) (MapColourer, error) {
	m := make(MapColourer)
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
			return nil, fmt.Errorf("colour map line %d: expected var_key and colour", lineNumber)
		}
		m[fields[0]] = fields[1]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read colour map: %w", err)
	}
	return m, nil
}

// LoadMap reads a colour map from a file.
func LoadMap(path string) (MapColourer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open colour map: %w", err)
	}
	defer f.Close()
	return ReadMap(f)
}
