// Package mapperror defines the typed error kinds surfaced by the
// account-mapping engine. Each error carries enough context (project,
// range, offending cell) for the caller to display or log.
package mapperror

import "fmt"

// FileAccessError indicates a workbook could not be opened or read
// (locked, missing, or unreadable).
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot access workbook '%s': %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// RangeError indicates a malformed or out-of-bounds range specification.
type RangeError struct {
	Range  string
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range '%s': %s", e.Range, e.Reason)
}

// SheetNotFoundError indicates the named sheet does not exist in the workbook.
type SheetNotFoundError struct {
	Workbook string
	Sheet    string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet '%s' not found in workbook '%s'", e.Sheet, e.Workbook)
}

// DuplicateDescriptionError indicates the source range contains two
// identical account descriptions. Identity is the description, so this is
// a caller error in the source data.
type DuplicateDescriptionError struct {
	Description string
	FirstRow    int
	SecondRow   int
}

func (e *DuplicateDescriptionError) Error() string {
	return fmt.Sprintf("duplicate account description '%s' (rows %d and %d)",
		e.Description, e.FirstRow, e.SecondRow)
}

// UnmappedCategoryError indicates an aggregated total references a
// category absent from the destination's known category list.
type UnmappedCategoryError struct {
	Category string
}

func (e *UnmappedCategoryError) Error() string {
	return fmt.Sprintf("target category '%s' not present in destination", e.Category)
}

// FormulaLengthError indicates a merged formula would exceed the host
// format's maximum formula length. The cell write is failed rather than
// truncated.
type FormulaLengthError struct {
	Cell   string
	Length int
	Limit  int
}

func (e *FormulaLengthError) Error() string {
	return fmt.Sprintf("merged formula for cell %s is %d characters, exceeds limit of %d",
		e.Cell, e.Length, e.Limit)
}

// NonNumericCellError indicates the destination cell for a merge target
// holds non-numeric text. The cell is left untouched.
type NonNumericCellError struct {
	Cell    string
	Content string
}

func (e *NonNumericCellError) Error() string {
	return fmt.Sprintf("cell %s holds non-numeric content '%s', cannot merge a total into it",
		e.Cell, e.Content)
}

// SettingsError indicates the persisted project settings file is malformed
// or violates a schema invariant. Malformed entries are rejected at load
// time rather than propagated as missing data.
type SettingsError struct {
	Path    string
	Project string
	Reason  string
}

func (e *SettingsError) Error() string {
	if e.Project != "" {
		return fmt.Sprintf("invalid settings in '%s' for project '%s': %s", e.Path, e.Project, e.Reason)
	}
	return fmt.Sprintf("invalid settings in '%s': %s", e.Path, e.Reason)
}

// PeriodNotFoundError indicates no column matching the requested reporting
// period label could be located in the sheet's header rows. This is a
// valid, reportable outcome rather than a crash.
type PeriodNotFoundError struct {
	Sheet string
	Label string
}

func (e *PeriodNotFoundError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("no period column detected in sheet '%s'", e.Sheet)
	}
	return fmt.Sprintf("period column '%s' not found in sheet '%s'", e.Label, e.Sheet)
}
