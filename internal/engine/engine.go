// Package engine orchestrates the mapping pipeline: extract source
// accounts and target categories, resolve or reconcile mappings, pull
// period amounts, aggregate by target, and write the rolling statement.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fjacquet/rolling-pl/internal/config"
	"fjacquet/rolling-pl/internal/logging"
	"fjacquet/rolling-pl/internal/mapperror"
	"fjacquet/rolling-pl/internal/models"
	"fjacquet/rolling-pl/internal/reconciler"
	"fjacquet/rolling-pl/internal/resolver"
	"fjacquet/rolling-pl/internal/similarity"
	"fjacquet/rolling-pl/internal/statement"
	"fjacquet/rolling-pl/internal/store"
	"fjacquet/rolling-pl/internal/workbook"
)

// Session binds the configuration, the project store, and a shared
// similarity scorer for the lifetime of one command invocation.
type Session struct {
	cfg    *config.Config
	store  *store.ProjectStore
	scorer *similarity.Scorer
	logger logging.Logger
}

// NewSession creates a Session. The store must already be loaded.
func NewSession(cfg *config.Config, st *store.ProjectStore, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Session{
		cfg:    cfg,
		store:  st,
		scorer: similarity.NewScorer(),
		logger: logger,
	}
}

// Store exposes the underlying project store.
func (s *Session) Store() *store.ProjectStore {
	return s.store
}

func (s *Session) openSource() (*workbook.Workbook, error) {
	source, _ := s.store.Workbooks()
	if source == "" {
		return nil, fmt.Errorf("no source workbook configured, run 'projects scan' with --source")
	}
	return workbook.Open(source, s.logger)
}

func (s *Session) openTarget() (*workbook.Workbook, error) {
	_, target := s.store.Workbooks()
	if target == "" {
		return nil, fmt.Errorf("no target workbook configured, run 'projects scan' with --target")
	}
	return workbook.Open(target, s.logger)
}

func (s *Session) project(name string) (*models.Project, error) {
	if name == "" {
		return s.store.Current()
	}
	p, ok := s.store.Project(name)
	if !ok {
		return nil, fmt.Errorf("project '%s' not found", name)
	}
	return p, nil
}

// ScanProjects discovers projects in the source workbook and registers any
// that are new. Existing projects keep their saved ranges and mappings.
func (s *Session) ScanProjects(ctx context.Context) ([]workbook.ProjectSheet, error) {
	wb, err := s.openSource()
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found, err := wb.ScanProjects()
	if err != nil {
		return nil, err
	}
	for _, ps := range found {
		if _, err := s.store.EnsureProject(ps.Name, ps.Sheet); err != nil {
			return nil, err
		}
	}
	s.logger.Info("source workbook scanned", logging.F("projects", len(found)))
	return found, nil
}

// ExtractAccounts reads the project's source range into account records.
// Blank key cells are skipped; a repeated description aborts the extraction
// with a DuplicateDescriptionError, since the description is the record's
// identity.
func (s *Session) ExtractAccounts(ctx context.Context, wb *workbook.Workbook, p *models.Project) ([]models.AccountRecord, error) {
	if p.SourceRange == "" {
		return nil, fmt.Errorf("project '%s' has no source range configured", p.Name)
	}

	rows, err := wb.ReadRange(ctx, p.SourceSheet, p.SourceRange)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	records := make([]models.AccountRecord, 0, len(rows))
	for _, row := range rows {
		description := row.Key
		if description == "" {
			continue
		}
		if firstRow, ok := seen[description]; ok {
			return nil, &mapperror.DuplicateDescriptionError{
				Description: description,
				FirstRow:    firstRow,
				SecondRow:   row.SheetRow,
			}
		}
		seen[description] = row.SheetRow
		records = append(records, models.AccountRecord{
			Description: description,
			RowOrder:    len(records),
			SheetRow:    row.SheetRow,
			IsSubtotal:  models.IsSubtotalDescription(description, s.cfg.Mapping.SubtotalMarkers),
		})
	}
	return records, nil
}

// ExtractTargets reads the project's target range into the fixed category
// list. A repeated category name keeps its first occurrence; later
// duplicates are dropped with a warning, because target rows drive cell
// placement and the first row is the canonical one.
func (s *Session) ExtractTargets(ctx context.Context, wb *workbook.Workbook, p *models.Project) ([]models.TargetCategory, error) {
	if p.TargetRange == "" {
		return nil, fmt.Errorf("project '%s' has no target range configured", p.Name)
	}

	rows, err := wb.ReadRange(ctx, p.TargetSheet, p.TargetRange)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	targets := make([]models.TargetCategory, 0, len(rows))
	for _, row := range rows {
		name := row.Key
		if name == "" {
			continue
		}
		if seen[name] {
			s.logger.Warn("duplicate target category, keeping first occurrence",
				logging.F("project", p.Name), logging.F("category", name), logging.F("row", row.SheetRow))
			continue
		}
		seen[name] = true
		targets = append(targets, models.TargetCategory{Name: name, RowOrder: len(targets)})
	}
	return targets, nil
}

// GenerateMappings runs a full automatic resolution for the project and
// merges the result into its mapping table. Manual entries in the existing
// table survive unchanged.
func (s *Session) GenerateMappings(ctx context.Context, projectName string) (*models.MappingTable, error) {
	p, err := s.project(projectName)
	if err != nil {
		return nil, err
	}

	accounts, targets, err := s.extractBoth(ctx, p)
	if err != nil {
		return nil, err
	}

	resolved := resolver.Resolve(accounts, targets, s.scorer)
	if err := s.store.ApplyResolved(p.Name, resolved); err != nil {
		return nil, err
	}
	s.logger.Info("mappings generated",
		logging.F("project", p.Name), logging.F("entries", resolved.Len()))
	return resolved, nil
}

// Reconcile integrates newly appeared source accounts into the project's
// existing table without touching entries already present. It returns the
// descriptions that were added.
func (s *Session) Reconcile(ctx context.Context, projectName string) ([]string, error) {
	p, err := s.project(projectName)
	if err != nil {
		return nil, err
	}

	accounts, targets, err := s.extractBoth(ctx, p)
	if err != nil {
		return nil, err
	}

	var added []string
	err = s.store.UpdateProject(p.Name, func(proj *models.Project) error {
		added = reconciler.Reconcile(proj.Mappings, accounts, targets, s.scorer)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("reconciliation finished",
		logging.F("project", p.Name), logging.F("added", len(added)))
	return added, nil
}

func (s *Session) extractBoth(ctx context.Context, p *models.Project) ([]models.AccountRecord, []models.TargetCategory, error) {
	sourceWB, err := s.openSource()
	if err != nil {
		return nil, nil, err
	}
	defer sourceWB.Close()

	accounts, err := s.ExtractAccounts(ctx, sourceWB, p)
	if err != nil {
		return nil, nil, err
	}

	targetWB, err := s.openTarget()
	if err != nil {
		return nil, nil, err
	}
	defer targetWB.Close()

	targets, err := s.ExtractTargets(ctx, targetWB, p)
	if err != nil {
		return nil, nil, err
	}
	return accounts, targets, nil
}

// ExtractAmounts locates the reporting-period column in the source sheet
// and reads each account's amount for that period, persisting the amounts
// into the project state. Cells that are blank or non-numeric yield a
// record without an amount rather than zero. The returned records carry
// the per-account amounts for display.
func (s *Session) ExtractAmounts(ctx context.Context, projectName, periodLabel string) ([]models.AccountRecord, error) {
	p, err := s.project(projectName)
	if err != nil {
		return nil, err
	}

	wb, err := s.openSource()
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	accounts, err := s.ExtractAccounts(ctx, wb, p)
	if err != nil {
		return nil, err
	}

	periodCol, err := wb.DetectPeriodColumn(p.SourceSheet, periodLabel)
	if err != nil {
		return nil, err
	}

	amounts := make(map[string]decimal.Decimal)
	for i := range accounts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		account := &accounts[i]
		cell, err := excelize.CoordinatesToCellName(periodCol, account.SheetRow)
		if err != nil {
			return nil, err
		}
		value, err := wb.CellValue(p.SourceSheet, cell)
		if err != nil {
			return nil, err
		}
		if value == "" {
			continue
		}
		amount, err := models.ParseAmount(value)
		if err != nil {
			s.logger.Warn("skipping non-numeric amount cell",
				logging.F("project", p.Name), logging.F("cell", cell), logging.F("value", value))
			continue
		}
		account.Amount = amount
		account.HasAmount = true
		amounts[account.Description] = amount
	}

	err = s.store.UpdateProject(p.Name, func(proj *models.Project) error {
		proj.MonthlyAmounts = amounts
		proj.TargetPeriodLabel = strings.TrimSpace(periodLabel)
		proj.Workflow.AmountsExtracted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("amounts extracted",
		logging.F("project", p.Name), logging.F("amounts", len(amounts)))
	return accounts, nil
}

// Aggregate sums the project's extracted amounts by mapped target
// category. Subtotal entries and entries without a target are excluded, so
// a subtotal row can never be double-counted into a category.
func (s *Session) Aggregate(projectName string) (map[string]decimal.Decimal, error) {
	p, err := s.project(projectName)
	if err != nil {
		return nil, err
	}
	if !p.Workflow.AmountsExtracted {
		return nil, fmt.Errorf("project '%s' has no extracted amounts, run 'aggregate' after 'amounts'", p.Name)
	}

	totals := make(map[string]decimal.Decimal)
	for _, description := range p.Mappings.Descriptions() {
		entry, _ := p.Mappings.Get(description)
		if entry.TargetCategory == "" || entry.Confidence == models.ConfidenceNone {
			continue
		}
		amount, ok := p.MonthlyAmounts[description]
		if !ok {
			continue
		}
		totals[entry.TargetCategory] = totals[entry.TargetCategory].Add(amount)
	}

	err = s.store.UpdateProject(p.Name, func(proj *models.Project) error {
		proj.AggregatedTotals = totals
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("amounts aggregated",
		logging.F("project", p.Name), logging.F("categories", len(totals)))
	return totals, nil
}

// WriteStatement merges the project's aggregated totals into the target
// workbook: each category's total lands in the cell at the intersection of
// its target-range row and the reporting-period column. A non-empty
// outputPath writes into that workbook instead of the configured target.
// Per-cell failures are batched into the returned report; only a failure
// that prevents the whole pass returns an error.
func (s *Session) WriteStatement(ctx context.Context, projectName, outputPath string) (*statement.Report, error) {
	p, err := s.project(projectName)
	if err != nil {
		return nil, err
	}
	if len(p.AggregatedTotals) == 0 {
		return nil, fmt.Errorf("project '%s' has no aggregated totals, run 'aggregate' first", p.Name)
	}

	var wb *workbook.Workbook
	if outputPath != "" {
		wb, err = workbook.Open(outputPath, s.logger)
	} else {
		wb, err = s.openTarget()
	}
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	periodCol, err := wb.DetectPeriodColumn(p.TargetSheet, p.TargetPeriodLabel)
	if err != nil {
		return nil, err
	}

	rows, err := wb.ReadRange(ctx, p.TargetSheet, p.TargetRange)
	if err != nil {
		return nil, err
	}
	cells := make(map[string]statement.CellRef)
	for _, row := range rows {
		if row.Key == "" {
			continue
		}
		if _, ok := cells[row.Key]; ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(periodCol, row.SheetRow)
		if err != nil {
			return nil, err
		}
		cells[row.Key] = statement.CellRef{Sheet: p.TargetSheet, Cell: cell}
	}

	writer := statement.NewWriter(wb, s.cfg.Statement.MaxFormulaLength, s.logger)
	report, err := writer.WriteTotals(ctx, p.AggregatedTotals, cells)
	if err != nil {
		return report, err
	}

	if len(report.Written) > 0 {
		if err := s.store.UpdateProject(p.Name, func(proj *models.Project) error {
			proj.Workflow.StatementWritten = true
			return nil
		}); err != nil {
			return report, err
		}
	}
	return report, nil
}

// SetManual records a user-confirmed mapping for a description in the
// project's table. Manual entries are permanent until explicitly cleared.
func (s *Session) SetManual(projectName, description, targetCategory string) error {
	p, err := s.project(projectName)
	if err != nil {
		return err
	}
	return s.store.SetManual(p.Name, description, targetCategory)
}

// ClearManual removes a manual edit by re-resolving the description
// against the current target list and storing the automatic result.
func (s *Session) ClearManual(ctx context.Context, projectName, description string) (models.MappingEntry, error) {
	p, err := s.project(projectName)
	if err != nil {
		return models.MappingEntry{}, err
	}

	wb, err := s.openTarget()
	if err != nil {
		return models.MappingEntry{}, err
	}
	defer wb.Close()

	targets, err := s.ExtractTargets(ctx, wb, p)
	if err != nil {
		return models.MappingEntry{}, err
	}

	var entry models.MappingEntry
	if models.IsSubtotalDescription(description, s.cfg.Mapping.SubtotalMarkers) {
		entry = models.SubtotalEntry()
	} else {
		entry = resolver.ResolveOne(description, targets, s.scorer).Entry()
	}
	if err := s.store.SetAutomatic(p.Name, description, entry); err != nil {
		return models.MappingEntry{}, err
	}
	return entry, nil
}
