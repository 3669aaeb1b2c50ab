package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/kilianp07/legassign/core/assign"
)

const utf8BOM = "\ufeff"

func decoderFor(enc string) (*encoding.Decoder, error) {
	switch normalizeEncoding(enc) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin-1", "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}
}

// recordReader serves pre-read records to gocsv. It satisfies gocsv.CSVReader.
type recordReader struct {
	records [][]string
	pos     int
}

func (r *recordReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	rec := r.records[r.pos]
	r.pos++
	return rec, nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	rest := r.records[r.pos:]
	r.pos = len(r.records)
	return rest, nil
}

// rawTable holds the records of a file with the physical line each record
// starts on. Blank lines and quoted line breaks make the two diverge.
type rawTable struct {
	records [][]string
	lines   []int
}

// line returns the file line of data row i, the header excluded.
func (t rawTable) line(i int) int { return t.lines[i+1] }

// readRecords decodes r and returns all records with a cleaned header row.
func (l *Loader) readRecords(name string, r io.Reader) (rawTable, error) {
	if l.dec != nil {
		r = transform.NewReader(r, l.dec)
	}
	cr := csv.NewReader(r)
	cr.Comma = l.cfg.comma()
	cr.TrimLeadingSpace = true
	var t rawTable
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return rawTable{}, &assign.ParseError{File: name, Row: pe.Line, Err: pe.Err}
			}
			return rawTable{}, &assign.ParseError{File: name, Err: err}
		}
		line, _ := cr.FieldPos(0)
		t.records = append(t.records, rec)
		t.lines = append(t.lines, line)
	}
	if len(t.records) == 0 {
		return rawTable{}, &assign.ParseError{File: name, Err: errors.New("empty file")}
	}
	header := t.records[0]
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		header[i] = strings.TrimSpace(h)
	}
	return t, nil
}

func requireColumns(name string, header []string, cols ...string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, c := range cols {
		if !have[c] {
			return &assign.ParseError{File: name, Column: c, Err: assign.ErrMissingColumn}
		}
	}
	return nil
}
