package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mholt/archiver"
	"github.com/mitchellh/go-homedir"
)

// gzipExt marks files that are read and written gzip-compressed.
const gzipExt = ".gz"

// ReadCSV reads a table from CSV. The first record names the columns. Empty fields become nil and everything else is
// kept as a string, numbers included, so that digit-only values such as card numbers are still seen by spotters.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return New(), nil
	}

	t := New(records[0]...)
	t.Rows = make([][]Cell, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]Cell, len(rec))
		for j, field := range rec {
			row[j] = parseField(field)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func parseField(field string) Cell {
	if field == "" {
		return nil
	}
	return field
}

// WriteCSV writes the table as CSV, header first.
func WriteCSV(w io.Writer, t *Table) error {
	if err := t.Validate(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, cell := range row {
			record[j] = formatCell(cell)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// LoadFile reads a CSV table from path. A leading "~" is expanded to the user's home directory, and files ending in
// ".gz" are decompressed.
func LoadFile(path string) (*Table, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.HasSuffix(p, gzipExt) {
		return ReadCSV(f)
	}

	buf := new(bytes.Buffer)
	if err := archiver.NewGz().Decompress(f, buf); err != nil {
		return nil, fmt.Errorf("decompressing %s: %w", p, err)
	}
	return ReadCSV(buf)
}

// SaveFile writes the table to path as CSV, creating or truncating the file. A leading "~" is expanded to the user's
// home directory, and files ending in ".gz" are compressed.
func SaveFile(path string, t *Table) error {
	p, err := homedir.Expand(path)
	if err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := WriteCSV(buf, t); err != nil {
		return err
	}

	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.HasSuffix(p, gzipExt) {
		if err := archiver.NewGz().Compress(buf, f); err != nil {
			return fmt.Errorf("compressing %s: %w", p, err)
		}
		return f.Close()
	}
	if _, err := io.Copy(f, buf); err != nil {
		return err
	}
	return f.Close()
}
