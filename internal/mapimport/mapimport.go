// Package mapimport loads and saves mapping tables as flat files, for
// seeding a project from a legacy mapping export and for handing mappings
// to spreadsheet users for review.
package mapimport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"fjacquet/rolling-pl/internal/models"
)

// MappingRecord is one row of an exchanged mapping file.
type MappingRecord struct {
	SourceDescription string  `csv:"source_description" yaml:"source_description"`
	TargetCategory    string  `csv:"target_category" yaml:"target_category"`
	Confidence        string  `csv:"confidence" yaml:"confidence"`
	Similarity        float64 `csv:"similarity" yaml:"similarity"`
	ManuallyEdited    bool    `csv:"manually_edited" yaml:"manually_edited"`
}

// LoadFile reads a mapping table from a CSV or YAML file, chosen by
// extension. Records keep their file order, and a file repeating a source
// description is rejected.
func LoadFile(path string) (*models.MappingTable, error) {
	var records []MappingRecord
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = loadCSV(path)
	case ".yaml", ".yml":
		records, err = loadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported mapping file format '%s'", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	table := models.NewMappingTable()
	for i, record := range records {
		description := strings.TrimSpace(record.SourceDescription)
		if description == "" {
			return nil, fmt.Errorf("record %d has an empty source description", i+1)
		}
		if table.Has(description) {
			return nil, fmt.Errorf("duplicate source description '%s' in mapping file", description)
		}
		entry := models.MappingEntry{
			TargetCategory: strings.TrimSpace(record.TargetCategory),
			Confidence:     models.Confidence(record.Confidence),
			Similarity:     record.Similarity,
			ManuallyEdited: record.ManuallyEdited,
		}
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("record '%s': %w", description, err)
		}
		table.Set(description, entry)
	}
	return table, nil
}

func loadCSV(path string) ([]MappingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening mapping file: %w", err)
	}
	defer f.Close()

	var records []MappingRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("error parsing mapping CSV: %w", err)
	}
	return records, nil
}

func loadYAML(path string) ([]MappingRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening mapping file: %w", err)
	}

	var records []MappingRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error parsing mapping YAML: %w", err)
	}
	return records, nil
}

// ExportCSV writes a mapping table to a CSV file in table order.
func ExportCSV(path string, table *models.MappingTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating export file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(tableRecords(table), f); err != nil {
		return fmt.Errorf("error writing mapping CSV: %w", err)
	}
	return nil
}

// ExportYAML writes a mapping table to a YAML file in table order.
func ExportYAML(path string, table *models.MappingTable) error {
	data, err := yaml.Marshal(tableRecords(table))
	if err != nil {
		return fmt.Errorf("error encoding mapping YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing export file: %w", err)
	}
	return nil
}

func tableRecords(table *models.MappingTable) *[]MappingRecord {
	records := make([]MappingRecord, 0, table.Len())
	for _, description := range table.Descriptions() {
		entry, _ := table.Get(description)
		records = append(records, MappingRecord{
			SourceDescription: description,
			TargetCategory:    entry.TargetCategory,
			Confidence:        string(entry.Confidence),
			Similarity:        entry.Similarity,
			ManuallyEdited:    entry.ManuallyEdited,
		})
	}
	return &records
}
