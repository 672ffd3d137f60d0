package mapimport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/rolling-pl/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFileCSV(t *testing.T) {
	path := writeFile(t, "mappings.csv",
		"source_description,target_category,confidence,similarity,manually_edited\n"+
			"Office Rent,Rent,High,95,false\n"+
			"Alpha Fee,Fees,Manual,100,true\n")

	table, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Office Rent", "Alpha Fee"}, table.Descriptions())

	entry, _ := table.Get("Alpha Fee")
	assert.Equal(t, models.ConfidenceManual, entry.Confidence)
	assert.True(t, entry.ManuallyEdited)
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "mappings.yaml", `
- source_description: Office Rent
  target_category: Rent
  confidence: High
  similarity: 95
  manually_edited: false
- source_description: Electricity
  target_category: Utilities
  confidence: Medium
  similarity: 70
  manually_edited: false
`)

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Office Rent", "Electricity"}, table.Descriptions())
}

func TestLoadFileRejectsDuplicates(t *testing.T) {
	path := writeFile(t, "mappings.csv",
		"source_description,target_category,confidence,similarity,manually_edited\n"+
			"Office Rent,Rent,High,95,false\n"+
			"Office Rent,Fees,Low,45,false\n")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadFileRejectsInvalidEntries(t *testing.T) {
	path := writeFile(t, "mappings.csv",
		"source_description,target_category,confidence,similarity,manually_edited\n"+
			"Office Rent,Rent,Certain,95,false\n")

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "mappings.txt", "whatever")
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestExportCSVRoundTrip(t *testing.T) {
	table := models.NewMappingTable()
	table.Set("Zebra Expense", models.MappingEntry{TargetCategory: "Misc", Confidence: models.ConfidenceLow, Similarity: 42})
	table.Set("Office Rent", models.MappingEntry{TargetCategory: "Rent", Confidence: models.ConfidenceHigh, Similarity: 95})

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ExportCSV(path, table))

	restored, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, table.Descriptions(), restored.Descriptions())
}

func TestExportYAMLRoundTrip(t *testing.T) {
	table := models.NewMappingTable()
	table.Set("Office Rent", models.MappingEntry{TargetCategory: "Rent", Confidence: models.ConfidenceHigh, Similarity: 95})

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, ExportYAML(path, table))

	restored, err := LoadFile(path)
	require.NoError(t, err)

	entry, ok := restored.Get("Office Rent")
	require.True(t, ok)
	assert.Equal(t, "Rent", entry.TargetCategory)
	assert.Equal(t, 95.0, entry.Similarity)
}
