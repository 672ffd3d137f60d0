// Package statement merges aggregated totals into the rolling statement
// workbook. Each destination cell is combined with its prior content, so a
// write never destroys a value or formula already in the statement.
package statement

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fjacquet/rolling-pl/internal/logging"
	"fjacquet/rolling-pl/internal/mapperror"
	"fjacquet/rolling-pl/internal/models"
	"fjacquet/rolling-pl/internal/workbook"
)

// CellRef locates the destination cell for one target category.
type CellRef struct {
	Sheet string
	Cell  string
}

// CellWrite records one successful cell merge. Written holds the display
// form of what landed in the cell, formulas with their leading "=".
type CellWrite struct {
	Category string
	Sheet    string
	Cell     string
	Written  string
}

// Report is the outcome of one write pass. Per-cell errors are collected
// here rather than aborting the pass; one bad cell does not block the rest.
type Report struct {
	ID      string
	Written []CellWrite
	Errors  []error
}

// Failed reports whether any cell write failed.
func (r *Report) Failed() bool {
	return len(r.Errors) > 0
}

// Writer merges totals into a destination workbook.
type Writer struct {
	wb        *workbook.Workbook
	maxLength int
	logger    logging.Logger
}

// NewWriter creates a Writer over an open workbook. maxLength bounds the
// merged formula text including its leading "=".
func NewWriter(wb *workbook.Workbook, maxLength int, logger logging.Logger) *Writer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Writer{wb: wb, maxLength: maxLength, logger: logger}
}

// WriteTotals merges each aggregated total into its category's destination
// cell and saves the workbook. Categories are processed in sorted order so
// repeated runs touch cells deterministically. Totals without a destination
// cell are reported as unmapped, not written anywhere. A cancelled context
// stops the pass after the current cell; completed cells stay written.
func (w *Writer) WriteTotals(ctx context.Context, totals map[string]decimal.Decimal, cells map[string]CellRef) (*Report, error) {
	report := &Report{ID: uuid.New().String()}

	categories := make([]string, 0, len(totals))
	for category := range totals {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		if err := ctx.Err(); err != nil {
			if len(report.Written) > 0 {
				if saveErr := w.wb.Save(); saveErr != nil {
					report.Errors = append(report.Errors, saveErr)
				}
			}
			return report, err
		}

		ref, ok := cells[category]
		if !ok {
			report.Errors = append(report.Errors, &mapperror.UnmappedCategoryError{Category: category})
			continue
		}

		written, err := w.mergeCell(ref, totals[category])
		if err != nil {
			w.logger.WithError(err).Warn("cell write failed",
				logging.F("category", category), logging.F("cell", ref.Cell))
			report.Errors = append(report.Errors, err)
			continue
		}
		report.Written = append(report.Written, CellWrite{
			Category: category,
			Sheet:    ref.Sheet,
			Cell:     ref.Cell,
			Written:  written,
		})
	}

	if len(report.Written) > 0 {
		if err := w.wb.Save(); err != nil {
			return report, err
		}
	}

	w.logger.Info("statement write finished",
		logging.F("report_id", report.ID),
		logging.F("written", len(report.Written)),
		logging.F("errors", len(report.Errors)))
	return report, nil
}

// mergeCell combines one total with the cell's current content and writes
// the result. It returns the display form of what was written.
func (w *Writer) mergeCell(ref CellRef, total decimal.Decimal) (string, error) {
	formula, err := w.wb.CellFormula(ref.Sheet, ref.Cell)
	if err != nil {
		return "", err
	}
	if formula != "" {
		merged := fmt.Sprintf("(%s)+%s", formula, renderTotal(total))
		return w.writeFormula(ref, merged)
	}

	value, err := w.wb.CellValue(ref.Sheet, ref.Cell)
	if err != nil {
		return "", err
	}
	if value == "" {
		f, _ := total.Float64()
		if err := w.wb.WriteCellValue(ref.Sheet, ref.Cell, f); err != nil {
			return "", err
		}
		return total.String(), nil
	}

	prior, err := models.ParseAmount(value)
	if err != nil {
		return "", &mapperror.NonNumericCellError{Cell: ref.Cell, Content: value}
	}
	merged := fmt.Sprintf("%s+%s", prior.String(), renderTotal(total))
	return w.writeFormula(ref, merged)
}

// writeFormula checks the merged formula against the length limit and
// writes it. The limit applies to the display form including the "=".
func (w *Writer) writeFormula(ref CellRef, formula string) (string, error) {
	display := "=" + formula
	if len(display) > w.maxLength {
		return "", &mapperror.FormulaLengthError{Cell: ref.Cell, Length: len(display), Limit: w.maxLength}
	}
	if err := w.wb.WriteCellFormula(ref.Sheet, ref.Cell, formula); err != nil {
		return "", err
	}
	return display, nil
}

// renderTotal renders a total as a formula operand. Negative totals are
// parenthesized so the merged formula never reads "+-".
func renderTotal(total decimal.Decimal) string {
	if total.IsNegative() {
		return "(" + total.String() + ")"
	}
	return total.String()
}
