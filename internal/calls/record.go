// Package calls loads per-sample variant calls from the QC long-table TSV.
package calls

import (
	"strconv"
	"strings"
)

// Column positions of the headerless long-table TSV.
const (
	ColChrom = iota
	ColPos
	ColRef
	ColAlt
	ColSample
	ColGene
	ColTranscript
	ColProtein
	ColGenotype
	ColHQDepth
	ColVAF

	NumColumns
)

// Columns names the positional columns in file order.
var Columns = [NumColumns]string{
	"chr", "pos", "ref", "alt", "sample", "gene", "transcript",
	"protein", "genotype", "hq_depth", "vaf",
}

// calledGenotypes are the heterozygous and homozygous-alternate calls.
// Phase is ignored: 0|1 and 1|0 are both called.
var calledGenotypes = map[string]bool{
	"0/1": true,
	"1/1": true,
	"0|1": true,
	"1|0": true,
	"1|1": true,
}

// Record is one (variant, sample) observation of the long table.
type Record struct {
	Chrom      string
	Pos        int64
	Ref        string
	Alt        string
	Sample     string
	Gene       string
	Transcript string
	Protein    string
	Genotype   string  // e.g. "0/1", "1|1"
	HQDepth    float64 // high-quality read depth
	VAF        string  // percentage as written, e.g. "12.5%"

	VAFNumeric   float64
	VarKey       string // chr_pos_ref_alt
	VarHGVS      string // gene;transcript;protein
	BoolGenotype int    // 1 if the genotype is called, else 0

	posText string
}

// FormatVarKey joins a locus and allele pair into the variant join key.
func FormatVarKey(chrom, pos, ref, alt string) string {
	return chrom + "_" + pos + "_" + ref + "_" + alt
}

// FormatHGVSLabel builds the gene;transcript;protein display label.
func FormatHGVSLabel(gene, transcript, protein string) string {
	return gene + ";" + transcript + ";" + protein
}

// IsCalled reports whether gt is a heterozygous or homozygous-alternate call.
func IsCalled(gt string) bool {
	return calledGenotypes[gt]
}

// BoolGenotype returns 1 for a called genotype and 0 otherwise.
func BoolGenotype(gt string) int {
	if IsCalled(gt) {
		return 1
	}
	return 0
}

// PosText returns the position exactly as it appeared in the input.
func (r *Record) PosText() string {
	if r.posText == "" {
		return strconv.FormatInt(r.Pos, 10)
	}
	return r.posText
}

// Derive fills VarKey, VarHGVS and BoolGenotype from the raw columns.
// VAFNumeric is left alone; it is set by the parser or by ParseVAF.
func (r *Record) Derive() {
	r.VarKey = FormatVarKey(r.Chrom, r.PosText(), r.Ref, r.Alt)
	r.VarHGVS = FormatHGVSLabel(r.Gene, r.Transcript, r.Protein)
	r.BoolGenotype = BoolGenotype(r.Genotype)
}

func stripPercent(s string) string {
	return strings.ReplaceAll(s, "%", "")
}
