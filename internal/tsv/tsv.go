// Package tsv reads and writes the tab-separated transcript tables exchanged
// between the export and scoring tools.
package tsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Table holds a parsed TSV file: one header row plus data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Read parses tab-delimited data with a mandatory header row. Rows may have
// varying widths; width is validated when fields are resolved.
func Read(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse tsv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("tsv input is empty, expected a header row")
	}
	return Table{Header: records[0], Rows: records[1:]}, nil
}

// ReadFile parses the TSV file at path.
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open tsv: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Column returns the index of a named header column.
func (t Table) Column(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("tsv is missing required column %q (header: %v)", name, t.Header)
}

// Pair is one scoring row: sample identifier, reference text, hypothesis text.
type Pair struct {
	ID         string
	Target     string
	Hypothesis string
}

// Pairs extracts (file_path, target, hypothesis) triples, with the hypothesis
// column name supplied by the caller. A row too short to carry all three
// fields is invalid input and aborts extraction immediately.
func (t Table) Pairs(hypothesisColumn string) ([]Pair, error) {
	cols := []string{"file_path", "target", hypothesisColumn}
	indices := make([]int, len(cols))
	for i, c := range cols {
		idx, err := t.Column(c)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}

	pairs := make([]Pair, 0, len(t.Rows))
	for n, row := range t.Rows {
		for _, idx := range indices {
			if idx >= len(row) {
				return nil, fmt.Errorf("tsv row %d has %d fields, need at least %d", n+1, len(row), idx+1)
			}
		}
		pairs = append(pairs, Pair{
			ID:         row[indices[0]],
			Target:     row[indices[1]],
			Hypothesis: row[indices[2]],
		})
	}
	return pairs, nil
}

// Write emits a header row followed by data rows, tab-delimited.
func Write(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write tsv header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write tsv rows: %w", err)
	}
	writer.Flush()
	return writer.Error()
}
