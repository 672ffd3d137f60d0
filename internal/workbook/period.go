package workbook

import (
	"regexp"
	"strings"

	"fjacquet/rolling-pl/internal/mapperror"
)

// headerScanRows bounds the period search: period labels live in the top
// header rows of both source and rolling sheets.
const headerScanRows = 10

// periodPattern recognizes labels like "Jun 2025 Actual", "January 2024"
// or "Sep 2025 Budget".
var periodPattern = regexp.MustCompile(
	`(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4}(\s+(actual|budget|forecast))?$`)

// DetectPeriodColumn scans the sheet's header rows for a reporting-period
// label and returns its 1-based column index. With a non-empty label only
// a case-insensitive exact match counts; with an empty label the first
// cell matching the period pattern wins. A missing period is reported as
// PeriodNotFoundError, a valid outcome the caller can surface.
func (w *Workbook) DetectPeriodColumn(sheet, label string) (int, error) {
	if err := w.refresh(); err != nil {
		return 0, err
	}
	if err := w.checkSheet(sheet); err != nil {
		return 0, err
	}

	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return 0, &mapperror.SheetNotFoundError{Workbook: w.path, Sheet: sheet}
	}

	limit := len(rows)
	if limit > headerScanRows {
		limit = headerScanRows
	}

	want := strings.TrimSpace(label)
	for rowIdx := 0; rowIdx < limit; rowIdx++ {
		for colIdx, raw := range rows[rowIdx] {
			value := strings.TrimSpace(raw)
			if value == "" {
				continue
			}
			if want != "" {
				if strings.EqualFold(value, want) {
					return colIdx + 1, nil
				}
				continue
			}
			if periodPattern.MatchString(value) {
				return colIdx + 1, nil
			}
		}
	}

	return 0, &mapperror.PeriodNotFoundError{Sheet: sheet, Label: want}
}
