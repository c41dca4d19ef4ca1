// Package csvimport reads bulk exclusivity assignments from CSV files.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads a header row followed by data rows keyed by header name.
type Parser struct {
	delimiter  rune
	headerMap  map[string]int
	headers    []string
	currentRow int
	reader     *csv.Reader
}

// ParserOption is a functional option for Parser configuration
type ParserOption func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// NewParser strips a UTF-8 BOM and rejects empty or non UTF-8 input.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		delimiter: ',',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)
	bom, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bom) == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	head, err := buf.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(strings.TrimSpace(string(head))) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(head) {
		return nil, ErrInvalidEncoding
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1
	return p, nil
}

// ParseHeader reads the header row. Header names are matched case-insensitively.
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	p.headers = make([]string, len(record))
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		p.headers[i] = name
		if name != "" {
			p.headerMap[name] = i
		}
	}
	if len(p.headerMap) == 0 {
		return ErrMissingHeader
	}
	p.currentRow = 1
	return nil
}

// Headers returns the normalized header names
func (p *Parser) Headers() []string {
	return p.headers
}

// MissingHeaders returns the required headers absent from the file.
func (p *Parser) MissingHeaders(required ...string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.headerMap[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data row. LineNumber counts the header as line 1.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next row or io.EOF.
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.currentRow++
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}
	row := &Row{
		LineNumber: p.currentRow,
		Data:       make(map[string]string, len(p.headers)),
	}
	for i, header := range p.headers {
		if header == "" {
			continue
		}
		value := ""
		if i < len(record) {
			value = strings.TrimSpace(record[i])
		}
		row.Data[header] = value
	}
	return row, nil
}
