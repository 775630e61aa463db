package table

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/specialistvlad/expgrid/internal/ctxlog"
	"github.com/specialistvlad/expgrid/internal/experiment"
)

var (
	// ErrNotFound is returned when the table file does not exist.
	ErrNotFound = errors.New("table file not found")
	// ErrNoHeader is returned when the first record is not recognised as a header.
	ErrNoHeader = errors.New("the input table does not have a header")
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// ReadFile reads an experiment table from disk. See Parse.
func ReadFile(ctx context.Context, path string) ([]experiment.Row, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Reading experiment table.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %s does not exist: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read table %s: %w", path, err)
	}

	rows, err := Parse(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Parse sniffs the dialect of data, checks that it starts with a header
// naming the required columns and returns one Row per record, in order.
func Parse(ctx context.Context, data []byte) ([]experiment.Row, error) {
	logger := ctxlog.FromContext(ctx)

	sample := data
	truncated := len(data) > SampleSize
	if truncated {
		sample = data[:SampleSize]
	}

	dialect, err := Sniff(sample, truncated)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoHeader, err)
	}
	logger.Debug("Sniffed table dialect.", "delimiter", string(dialect.Delimiter), "skip_initial_space", dialect.SkipInitialSpace)

	probe := readAll(newReader(strings.NewReader(strings.Join(sampleLines(sample, truncated), "\n")), dialect))
	if !HasHeader(probe) {
		return nil, ErrNoHeader
	}

	r := newReader(bytes.NewReader(data), dialect)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if err := checkColumns(header); err != nil {
		return nil, err
	}

	var rows []experiment.Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse table: %w", err)
		}

		line, _ := r.FieldPos(0)
		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				fields[name] = record[i]
			} else {
				fields[name] = ""
			}
		}

		row, err := experiment.FromRecord(len(rows), line, fields)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	logger.Debug("Experiment table parsed.", "rows", len(rows))
	return rows, nil
}

func newReader(r io.Reader, d Dialect) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = d.Delimiter
	cr.TrimLeadingSpace = d.SkipInitialSpace
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// readAll returns the records read before the first error.
func readAll(r *csv.Reader) [][]string {
	var records [][]string
	for {
		record, err := r.Read()
		if err != nil {
			return records
		}
		records = append(records, record)
	}
}

func checkColumns(header []string) error {
	present := make(map[string]struct{}, len(header))
	for _, name := range header {
		present[name] = struct{}{}
	}
	var missing []string
	for _, col := range experiment.Columns {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}
