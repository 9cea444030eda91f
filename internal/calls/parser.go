package calls

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrMalformedRow is returned for a data line with fewer than NumColumns fields.
	ErrMalformedRow = errors.New("malformed row")
	// ErrInvalidNumber is returned when a numeric column holds non-numeric text.
	ErrInvalidNumber = errors.New("invalid number")
)

// Parser reads long-table records from a headerless TSV stream.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// NewParser creates a parser for the given file.
// Gzipped input is detected from the magic bytes; "-" reads stdin.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calls file: %w", err)
	}

	p := &Parser{file: file}

	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read calls file: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek calls file: %w", err)
	}

	// gzip magic number (0x1f, 0x8b)
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser over r.
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// Next reads the next record.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read calls line: %w", err)
		}
		if line == "" && err == io.EOF {
			return nil, nil
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}

		return p.parseLine(line)
	}
}

// parseLine splits a data line into a Record and computes the derived fields.
func (p *Parser) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < NumColumns {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Column:  -1,
			Message: fmt.Sprintf("expected %d columns, found %d", NumColumns, len(fields)),
			Err:     ErrMalformedRow,
		}
	}

	pos, err := strconv.ParseInt(fields[ColPos], 10, 64)
	if err != nil {
		return nil, p.numberError(ColPos, fields[ColPos])
	}

	depth, err := strconv.ParseFloat(strings.TrimSpace(fields[ColHQDepth]), 64)
	if err != nil || math.IsNaN(depth) || math.IsInf(depth, 0) {
		return nil, p.numberError(ColHQDepth, fields[ColHQDepth])
	}

	vaf, err := ParseVAF(fields[ColVAF])
	if err != nil {
		return nil, p.numberError(ColVAF, fields[ColVAF])
	}

	r := &Record{
		Chrom:      fields[ColChrom],
		Pos:        pos,
		Ref:        fields[ColRef],
		Alt:        fields[ColAlt],
		Sample:     fields[ColSample],
		Gene:       fields[ColGene],
		Transcript: fields[ColTranscript],
		Protein:    fields[ColProtein],
		Genotype:   fields[ColGenotype],
		HQDepth:    depth,
		VAF:        fields[ColVAF],
		VAFNumeric: vaf,
		posText:    fields[ColPos],
	}
	r.Derive()

	return r, nil
}

func (p *Parser) numberError(col int, value string) *ParseError {
	return &ParseError{
		Line:    p.lineNumber,
		Column:  col,
		Message: fmt.Sprintf("invalid %s: %q", Columns[col], value),
		Err:     ErrInvalidNumber,
	}
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// Load reads every record from r, preserving input order.
// The first malformed line aborts the load.
func Load(r io.Reader) ([]*Record, error) {
	return readAll(NewParserFromReader(r))
}

// LoadFile reads every record from the file at path.
func LoadFile(path string) ([]*Record, error) {
	p, err := NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return readAll(p)
}

func readAll(p *Parser) ([]*Record, error) {
	var records []*Record
	for {
		r, err := p.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return records, nil
		}
		records = append(records, r)
	}
}

// ParseVAF strips every '%' from s and parses the remainder as a float.
// "12.5%" and "12.5" both yield 12.5.
func ParseVAF(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(stripPercent(s)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: vaf %q", ErrInvalidNumber, s)
	}
	return v, nil
}

// ParseError represents an error while reading the long table, with line context.
type ParseError struct {
	Line    int
	Column  int // -1 when the whole row is at fault
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("calls parse error at line %d: %s", e.Line, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
