// Package format splits GATK-style combined FORMAT values (GT:AD:DP:GQ)
// into typed genotype, depth and quality fields.
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMalformedFormatField is returned when a value has fewer than four
	// colon-separated segments.
	ErrMalformedFormatField = errors.New("malformed format field")
	// ErrMalformedAlleleDepth is returned when the AD segment is not exactly
	// two comma-separated counts.
	ErrMalformedAlleleDepth = errors.New("malformed allele depth")
	// ErrInvalidNumber is returned when a depth or quality is not an integer.
	ErrInvalidNumber = errors.New("invalid number")
)

// Segment positions within a combined FORMAT value.
const (
	segGenotype = iota
	segAlleleDepth
	segDepth
	segQuality

	minSegments
)

// Fields is the split form of one FORMAT value.
type Fields struct {
	Genotype        string
	AlleleDepth     string // raw "ref,alt"
	RefDepth        int
	AltDepth        int
	VAF             float64 // percent; NaN when RefDepth+AltDepth == 0
	ReportedDepth   int
	GenotypeQuality int
}

// FieldError wraps a split failure with the offending value and its row.
type FieldError struct {
	Row   int // 0-based; -1 for a single value
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("format_vals %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("format_vals row %d %q: %v", e.Row, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Split parses one combined FORMAT value such as "0/1:7,3:10:40".
// Segments beyond the fourth are ignored.
func Split(formatVals string) (Fields, error) {
	segs := strings.Split(formatVals, ":")
	if len(segs) < minSegments {
		return Fields{}, fieldErr(formatVals, fmt.Errorf("%w: expected %d segments, found %d",
			ErrMalformedFormatField, minSegments, len(segs)))
	}

	f := Fields{
		Genotype:    segs[segGenotype],
		AlleleDepth: segs[segAlleleDepth],
	}

	ad := strings.Split(f.AlleleDepth, ",")
	if len(ad) != 2 {
		return Fields{}, fieldErr(formatVals, fmt.Errorf("%w: expected 2 counts in %q, found %d",
			ErrMalformedAlleleDepth, f.AlleleDepth, len(ad)))
	}

	var err error
	if f.RefDepth, err = parseInt("ref depth", ad[0]); err != nil {
		return Fields{}, fieldErr(formatVals, err)
	}
	if f.AltDepth, err = parseInt("alt depth", ad[1]); err != nil {
		return Fields{}, fieldErr(formatVals, err)
	}
	if f.ReportedDepth, err = parseInt("depth", segs[segDepth]); err != nil {
		return Fields{}, fieldErr(formatVals, err)
	}
	if f.GenotypeQuality, err = parseInt("genotype quality", segs[segQuality]); err != nil {
		return Fields{}, fieldErr(formatVals, err)
	}

	f.VAF = AlleleFraction(f.RefDepth, f.AltDepth)
	return f, nil
}

// AlleleFraction returns alt/(ref+alt) as a percentage. A zero total gives
// NaN rather than an error.
func AlleleFraction(ref, alt int) float64 {
	total := ref + alt
	if total == 0 {
		return math.NaN()
	}
	return float64(alt) / float64(total) * 100
}

func parseInt(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidNumber, name, s)
	}
	return n, nil
}

func fieldErr(value string, err error) *FieldError {
	return &FieldError{Row: -1, Value: value, Err: err}
}
