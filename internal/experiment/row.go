package experiment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Column names every experiment table must carry in its header.
const (
	ColumnFilename = "filename"
	ColumnTool     = "tool"
	ColumnInit     = "init"
	ColumnNext     = "next"
	ColumnInv      = "inv"
	ColumnArgs     = "args"
)

// Columns lists the required columns in their canonical order.
var Columns = []string{ColumnFilename, ColumnTool, ColumnInit, ColumnNext, ColumnInv, ColumnArgs}

var (
	// ErrNoFilename is returned for a row whose filename cell is blank.
	ErrNoFilename = errors.New("filename must not be blank")
	// ErrBadArgs is returned for a row whose args cell is not a valid sequence of shell words.
	ErrBadArgs = errors.New("args is not a valid shell word sequence")
)

// Row is a single experiment as read from the table. Optional fields are
// blank when the corresponding cell was empty.
type Row struct {
	Index int // 0-based position among data rows; names the output directory
	Line  int // 1-based line of the record in the source table

	Filename string
	Tool     string
	Init     string
	Next     string
	Inv      string
	Args     string
}

// FromRecord builds a Row from a header-keyed record. Missing keys are
// treated as blank cells.
func FromRecord(index, line int, record map[string]string) (Row, error) {
	row := Row{
		Index:    index,
		Line:     line,
		Filename: record[ColumnFilename],
		Tool:     record[ColumnTool],
		Init:     record[ColumnInit],
		Next:     record[ColumnNext],
		Inv:      record[ColumnInv],
		Args:     record[ColumnArgs],
	}
	if err := row.Validate(); err != nil {
		return Row{}, err
	}
	return row, nil
}

// Validate checks the invariants that do not depend on the filesystem.
func (r Row) Validate() error {
	if Blank(r.Filename) {
		return fmt.Errorf("row %d (line %d): %w", r.Index, r.Line, ErrNoFilename)
	}
	if _, err := shellquote.Split(r.Args); err != nil {
		return fmt.Errorf("row %d (line %d): %w: %v", r.Index, r.Line, ErrBadArgs, err)
	}
	return nil
}

// Blank reports whether a cell carries no value.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
