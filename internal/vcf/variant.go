// Package vcf reads per-sample FORMAT values from VCF files.
package vcf

import (
	"strconv"
	"strings"

	"github.com/inodb/vibe-qc/internal/calls"
)

// FormatKeys are the FORMAT keys combined into a format_vals value, in order.
var FormatKeys = []string{"GT", "AD", "DP", "GQ"}

// Variant represents a single VCF data line with its sample columns.
type Variant struct {
	Chrom   string   // Chromosome name (e.g., "12", "chr12")
	Pos     int64    // 1-based genomic position
	ID      string   // Variant identifier (e.g., rs ID)
	Ref     string   // Reference allele
	Alt     string   // Alternate allele(s), comma-separated
	Filter  string   // Filter status (PASS or filter name)
	Format  []string // FORMAT keys, e.g. ["GT", "AD", "DP", "GQ"]
	Samples []string // raw sample columns, parallel to the header sample names
}

// VarKey returns the chr_pos_ref_alt join key used by the calls tables.
func (v *Variant) VarKey() string {
	return calls.FormatVarKey(v.Chrom, strconv.FormatInt(v.Pos, 10), v.Ref, v.Alt)
}

// SampleValue returns the value of a FORMAT key for sample column i.
// Missing keys and trailing dropped fields return "".
func (v *Variant) SampleValue(i int, key string) string {
	if i < 0 || i >= len(v.Samples) {
		return ""
	}
	vals := strings.Split(v.Samples[i], ":")
	for k, name := range v.Format {
		if name == key {
			if k < len(vals) {
				return vals[k]
			}
			return ""
		}
	}
	return ""
}

// MissingAlleleDepth reports whether sample i has no AD value, as in a
// GATK no-call written "./.:.:.:.".
func (v *Variant) MissingAlleleDepth(i int) bool {
	ad := v.SampleValue(i, "AD")
	return ad == "" || ad == "."
}

// FormatVals returns sample i's GT:AD:DP:GQ value, reordered to FormatKeys
// regardless of the FORMAT column's order.
func (v *Variant) FormatVals(i int) string {
	parts := make([]string, len(FormatKeys))
	for k, key := range FormatKeys {
		parts[k] = v.SampleValue(i, key)
	}
	return strings.Join(parts, ":")
}
