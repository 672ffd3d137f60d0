package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// The persisted settings schema stores amounts as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// WorkflowFlags records which pipeline steps have completed for a project.
type WorkflowFlags struct {
	MappingsGenerated bool `json:"mappings_generated"`
	AmountsExtracted  bool `json:"amounts_extracted"`
	StatementWritten  bool `json:"statement_written"`
}

// Project is the per-project state persisted in the settings file. One
// project is active at a time; a project exclusively owns its mapping
// table and is never shared.
type Project struct {
	Name              string                     `json:"-"`
	SourceSheet       string                     `json:"source_sheet"`
	TargetSheet       string                     `json:"target_sheet"`
	SourceRange       string                     `json:"source_range"`
	TargetRange       string                     `json:"target_range"`
	Mappings          *MappingTable              `json:"mappings"`
	MonthlyAmounts    map[string]decimal.Decimal `json:"monthly_amounts"`
	AggregatedTotals  map[string]decimal.Decimal `json:"aggregated_totals"`
	TargetPeriodLabel string                     `json:"target_period_label"`
	Workflow          WorkflowFlags              `json:"workflow"`
}

// NewProject creates an empty project bound to a source sheet.
func NewProject(name, sourceSheet string) *Project {
	return &Project{
		Name:             name,
		SourceSheet:      sourceSheet,
		Mappings:         NewMappingTable(),
		MonthlyAmounts:   make(map[string]decimal.Decimal),
		AggregatedTotals: make(map[string]decimal.Decimal),
	}
}

// EnsureInitialized backfills nil collections after a JSON load.
func (p *Project) EnsureInitialized() {
	if p.Mappings == nil {
		p.Mappings = NewMappingTable()
	}
	if p.MonthlyAmounts == nil {
		p.MonthlyAmounts = make(map[string]decimal.Decimal)
	}
	if p.AggregatedTotals == nil {
		p.AggregatedTotals = make(map[string]decimal.Decimal)
	}
}

// Reset clears mapping and amount state while keeping the sheet and range
// configuration, so a project can be regenerated from scratch without
// re-entering its ranges.
func (p *Project) Reset() {
	p.Mappings = NewMappingTable()
	p.MonthlyAmounts = make(map[string]decimal.Decimal)
	p.AggregatedTotals = make(map[string]decimal.Decimal)
	p.TargetPeriodLabel = ""
	p.Workflow = WorkflowFlags{}
}
