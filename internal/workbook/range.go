package workbook

import (
	"strings"

	"fjacquet/rolling-pl/internal/mapperror"

	"github.com/xuri/excelize/v2"
)

// Range is a parsed rectangular cell range, 1-based and inclusive.
type Range struct {
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// ParseRange parses an A1-style range reference like "A8:F200". A single
// cell reference is accepted as a one-cell range.
func ParseRange(ref string) (Range, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return Range{}, &mapperror.RangeError{Range: ref, Reason: "empty range"}
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) > 2 {
		return Range{}, &mapperror.RangeError{Range: ref, Reason: "more than one ':' separator"}
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Range{}, &mapperror.RangeError{Range: ref, Reason: err.Error()}
	}

	endCol, endRow := startCol, startRow
	if len(parts) == 2 {
		endCol, endRow, err = excelize.CellNameToCoordinates(parts[1])
		if err != nil {
			return Range{}, &mapperror.RangeError{Range: ref, Reason: err.Error()}
		}
	}

	if endCol < startCol || endRow < startRow {
		return Range{}, &mapperror.RangeError{Range: ref, Reason: "end cell precedes start cell"}
	}

	return Range{StartCol: startCol, StartRow: startRow, EndCol: endCol, EndRow: endRow}, nil
}

// Rows returns the number of rows the range spans.
func (r Range) Rows() int {
	return r.EndRow - r.StartRow + 1
}

// Cols returns the number of columns the range spans.
func (r Range) Cols() int {
	return r.EndCol - r.StartCol + 1
}
