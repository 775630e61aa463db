package table

import (
	"errors"
	"strconv"
	"strings"

	"github.com/specialistvlad/expgrid/internal/experiment"
)

// maxHeaderProbe bounds how many records after the first are used to infer
// column types.
const maxHeaderProbe = 20

type typeKind int

const (
	kindInt typeKind = iota
	kindFloat
	kindComplex
	kindLength
)

// cellType is the inferred type of a cell. Cells that are not numeric are
// typed by their length.
type cellType struct {
	kind   typeKind
	length int
}

func inferType(cell string) cellType {
	s := strings.TrimSpace(cell)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil || errors.Is(err, strconv.ErrRange) {
		return cellType{kind: kindInt}
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil || errors.Is(err, strconv.ErrRange) {
		return cellType{kind: kindFloat}
	}
	if _, err := strconv.ParseComplex(s, 128); err == nil {
		return cellType{kind: kindComplex}
	}
	return cellType{kind: kindLength, length: len(cell)}
}

// matches reports whether a header cell looks like a value of type t.
func (t cellType) matches(cell string) bool {
	if t.kind == kindLength {
		return len(cell) == t.length
	}
	got := inferType(cell)
	if got.kind == kindLength {
		return false
	}
	// An int parses as float and complex too.
	return got.kind <= t.kind
}

// namesRequiredColumns reports whether the record carries every column name
// an experiment table needs.
func namesRequiredColumns(record []string) bool {
	names := make(map[string]struct{}, len(record))
	for _, cell := range record {
		names[strings.TrimSpace(cell)] = struct{}{}
	}
	for _, col := range experiment.Columns {
		if _, ok := names[col]; !ok {
			return false
		}
	}
	return true
}

// HasHeader decides whether the first record is a header. A record naming
// all required columns is one. Otherwise columns vote: each column whose
// values share one type votes for a header when the first record's cell does
// not fit that type, and against it when it does.
func HasHeader(records [][]string) bool {
	if len(records) == 0 {
		return false
	}
	header := records[0]
	if namesRequiredColumns(header) {
		return true
	}

	columns := len(header)
	types := make(map[int]*cellType, columns)
	for i := 0; i < columns; i++ {
		types[i] = nil
	}

	checked := 0
	for _, record := range records[1:] {
		if checked > maxHeaderProbe {
			break
		}
		checked++
		if len(record) != columns {
			continue
		}
		for col, known := range types {
			t := inferType(record[col])
			switch {
			case known == nil:
				types[col] = &t
			case *known != t:
				delete(types, col)
			}
		}
	}

	votes := 0
	for col, t := range types {
		if t == nil || !t.matches(header[col]) {
			votes++
		} else {
			votes--
		}
	}
	return votes > 0
}
