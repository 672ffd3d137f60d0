// Package workbook is the spreadsheet accessor of the mapping engine. It
// reads rectangular ranges as ordered row records, reads raw formulas for
// merge decisions, writes single cells without touching anything else, and
// locates the reporting-period column in a header row.
package workbook

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"fjacquet/rolling-pl/internal/logging"
	"fjacquet/rolling-pl/internal/mapperror"

	"github.com/xuri/excelize/v2"
)

// Row is one extracted range row: the key is the first column's evaluated
// text, the values are the remaining columns in order.
type Row struct {
	// SheetRow is the 1-based workbook row this record came from.
	SheetRow int
	Key      string
	Values   []string
}

// ProjectSheet names a project discovered in a workbook sheet.
type ProjectSheet struct {
	Sheet string
	Name  string
}

// Workbook wraps an xlsx file. Reads are served from a per-range cache
// keyed by the file's modification time; a changed file on disk drops the
// cache and reopens the workbook, since stale reads are a correctness bug.
type Workbook struct {
	path   string
	file   *excelize.File
	mtime  time.Time
	cache  map[string][]Row
	logger logging.Logger
}

// Open opens a workbook for reading and writing.
func Open(path string, logger logging.Logger) (*Workbook, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &mapperror.FileAccessError{Path: path, Err: err}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &mapperror.FileAccessError{Path: path, Err: err}
	}

	return &Workbook{
		path:   path,
		file:   f,
		mtime:  info.ModTime(),
		cache:  make(map[string][]Row),
		logger: logger,
	}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

// Path returns the workbook file path.
func (w *Workbook) Path() string {
	return w.path
}

// refresh reopens the workbook and clears the read cache if the file on
// disk changed since it was opened.
func (w *Workbook) refresh() error {
	info, err := os.Stat(w.path)
	if err != nil {
		return &mapperror.FileAccessError{Path: w.path, Err: err}
	}
	if info.ModTime().Equal(w.mtime) {
		return nil
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return &mapperror.FileAccessError{Path: w.path, Err: err}
	}
	_ = w.file.Close()
	w.file = f
	w.mtime = info.ModTime()
	w.cache = make(map[string][]Row)
	w.logger.Debug("workbook changed on disk, cache invalidated", logging.F("path", w.path))
	return nil
}

func (w *Workbook) checkSheet(sheet string) error {
	idx, err := w.file.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return &mapperror.SheetNotFoundError{Workbook: w.path, Sheet: sheet}
	}
	return nil
}

// SheetNames returns the workbook's sheet names in file order.
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// ReadRange reads a rectangular range from a sheet into ordered rows of
// evaluated (cached-result) cell values. Cancelling the context abandons
// the read; nothing partial is returned.
func (w *Workbook) ReadRange(ctx context.Context, sheet, rangeRef string) ([]Row, error) {
	if err := w.refresh(); err != nil {
		return nil, err
	}
	if err := w.checkSheet(sheet); err != nil {
		return nil, err
	}

	rng, err := ParseRange(rangeRef)
	if err != nil {
		return nil, err
	}

	cacheKey := sheet + "!" + rangeRef
	if rows, ok := w.cache[cacheKey]; ok {
		return rows, nil
	}

	rows := make([]Row, 0, rng.Rows())
	for rowNum := rng.StartRow; rowNum <= rng.EndRow; rowNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key, err := w.cellValue(sheet, rng.StartCol, rowNum)
		if err != nil {
			return nil, err
		}
		values := make([]string, 0, rng.Cols()-1)
		for colNum := rng.StartCol + 1; colNum <= rng.EndCol; colNum++ {
			v, err := w.cellValue(sheet, colNum, rowNum)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		rows = append(rows, Row{SheetRow: rowNum, Key: key, Values: values})
	}

	w.cache[cacheKey] = rows
	return rows, nil
}

func (w *Workbook) cellValue(sheet string, col, row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("bad cell coordinates (%d,%d): %w", col, row, err)
	}
	value, err := w.file.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("error reading cell %s!%s: %w", sheet, cell, err)
	}
	return strings.TrimSpace(value), nil
}

// CellValue returns the evaluated value of a single cell.
func (w *Workbook) CellValue(sheet, cell string) (string, error) {
	if err := w.refresh(); err != nil {
		return "", err
	}
	if err := w.checkSheet(sheet); err != nil {
		return "", err
	}
	value, err := w.file.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("error reading cell %s!%s: %w", sheet, cell, err)
	}
	return strings.TrimSpace(value), nil
}

// CellFormula returns the raw formula text of a cell, without a leading
// "=", or "" when the cell holds no formula. Merge decisions need the raw
// formula rather than its evaluated result.
func (w *Workbook) CellFormula(sheet, cell string) (string, error) {
	if err := w.refresh(); err != nil {
		return "", err
	}
	if err := w.checkSheet(sheet); err != nil {
		return "", err
	}
	formula, err := w.file.GetCellFormula(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("error reading formula of %s!%s: %w", sheet, cell, err)
	}
	return formula, nil
}

// WriteCellValue writes a literal value into one cell, leaving every other
// cell and all formatting untouched. The change is buffered until Save.
func (w *Workbook) WriteCellValue(sheet, cell string, value interface{}) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	if err := w.file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("error writing cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// WriteCellFormula writes a formula into one cell. The formula text is
// given without a leading "=". The change is buffered until Save.
func (w *Workbook) WriteCellFormula(sheet, cell, formula string) error {
	if err := w.checkSheet(sheet); err != nil {
		return err
	}
	if err := w.file.SetCellFormula(sheet, cell, formula); err != nil {
		return fmt.Errorf("error writing formula to %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// Save flushes buffered cell writes back to the file and drops the read
// cache so subsequent reads observe the new content.
func (w *Workbook) Save() error {
	if err := w.file.Save(); err != nil {
		return fmt.Errorf("error saving workbook '%s': %w", w.path, err)
	}
	info, err := os.Stat(w.path)
	if err == nil {
		w.mtime = info.ModTime()
	}
	w.cache = make(map[string][]Row)
	return nil
}

// ScanProjects discovers projects in a source workbook: each sheet whose
// cell A1 holds a non-empty value names one project.
func (w *Workbook) ScanProjects() ([]ProjectSheet, error) {
	if err := w.refresh(); err != nil {
		return nil, err
	}

	var projects []ProjectSheet
	for _, sheet := range w.file.GetSheetList() {
		name, err := w.file.GetCellValue(sheet, "A1")
		if err != nil {
			w.logger.WithError(err).Warn("skipping unreadable sheet", logging.F("sheet", sheet))
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		projects = append(projects, ProjectSheet{Sheet: sheet, Name: name})
	}
	return projects, nil
}
