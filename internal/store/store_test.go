package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/rolling-pl/internal/logging"
	"fjacquet/rolling-pl/internal/mapperror"
	"fjacquet/rolling-pl/internal/models"
)

func newTestStore(t *testing.T) *ProjectStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project_settings.json")
	s := NewProjectStore(path, logging.NewMockLogger())
	require.NoError(t, s.Load())
	return s
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	s := newTestStore(t)
	assert.Empty(t, s.ProjectNames())
	assert.Empty(t, s.CurrentName())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project_settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := NewProjectStore(path, logging.NewMockLogger())
	err := s.Load()
	require.Error(t, err)

	var settingsErr *mapperror.SettingsError
	assert.ErrorAs(t, err, &settingsErr)
}

func TestLoadRejectsDanglingCurrentProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project_settings.json")
	payload := `{"current_project":"ghost","projects":{}}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	s := NewProjectStore(path, logging.NewMockLogger())
	assert.Error(t, s.Load())
}

func TestEnsureProjectPersistsAndReloads(t *testing.T) {
	s := newTestStore(t)
	p, err := s.EnsureProject("lakeside", "Lakeside")
	require.NoError(t, err)
	p2, err := s.EnsureProject("lakeside", "Lakeside")
	require.NoError(t, err)
	assert.Same(t, p, p2)

	// First project becomes current automatically.
	assert.Equal(t, "lakeside", s.CurrentName())

	reloaded := NewProjectStore(s.Path(), logging.NewMockLogger())
	require.NoError(t, reloaded.Load())
	got, ok := reloaded.Project("lakeside")
	require.True(t, ok)
	assert.Equal(t, "Lakeside", got.SourceSheet)
	assert.Equal(t, "lakeside", got.Name)
}

func TestMutationsPersistImmediately(t *testing.T) {
	s := newTestStore(t)
	_, err := s.EnsureProject("lakeside", "Lakeside")
	require.NoError(t, err)

	require.NoError(t, s.SetManual("lakeside", "Office Rent", "Rent"))

	// A fresh store sees the edit without any explicit save call.
	reloaded := NewProjectStore(s.Path(), logging.NewMockLogger())
	require.NoError(t, reloaded.Load())
	p, _ := reloaded.Project("lakeside")
	entry, ok := p.Mappings.Get("Office Rent")
	require.True(t, ok)
	assert.Equal(t, models.ConfidenceManual, entry.Confidence)
	assert.True(t, entry.ManuallyEdited)
	assert.Equal(t, 100.0, entry.Similarity)
}

func TestApplyResolvedKeepsManualEntries(t *testing.T) {
	s := newTestStore(t)
	_, err := s.EnsureProject("lakeside", "Lakeside")
	require.NoError(t, err)
	require.NoError(t, s.SetManual("lakeside", "Office Rent", "Rent"))

	resolved := models.NewMappingTable()
	resolved.Set("Office Rent", models.MappingEntry{TargetCategory: "Utilities", Confidence: models.ConfidenceHigh, Similarity: 85})
	resolved.Set("Electricity", models.MappingEntry{TargetCategory: "Utilities", Confidence: models.ConfidenceMedium, Similarity: 70})
	require.NoError(t, s.ApplyResolved("lakeside", resolved))

	p, _ := s.Project("lakeside")
	manual, _ := p.Mappings.Get("Office Rent")
	assert.Equal(t, "Rent", manual.TargetCategory, "manual entry must survive regeneration")
	assert.True(t, manual.ManuallyEdited)

	auto, ok := p.Mappings.Get("Electricity")
	require.True(t, ok)
	assert.Equal(t, "Utilities", auto.TargetCategory)
	assert.True(t, p.Workflow.MappingsGenerated)
}

func TestApplyResolvedRejectsManualInput(t *testing.T) {
	s := newTestStore(t)
	_, err := s.EnsureProject("lakeside", "Lakeside")
	require.NoError(t, err)

	resolved := models.NewMappingTable()
	resolved.Set("A", models.MappingEntry{TargetCategory: "Rent", Confidence: models.ConfidenceManual, Similarity: 100, ManuallyEdited: true})
	assert.Error(t, s.ApplyResolved("lakeside", resolved))
}

func TestImportTableOnlyIntoEmptyTable(t *testing.T) {
	s := newTestStore(t)
	_, err := s.EnsureProject("lakeside", "Lakeside")
	require.NoError(t, err)
	require.NoError(t, s.SetManual("lakeside", "A", "Foo"))

	incoming := models.NewMappingTable()
	incoming.Set("A", models.MappingEntry{TargetCategory: "Bar", Confidence: models.ConfidenceHigh, Similarity: 90})
	incoming.Set("B", models.MappingEntry{TargetCategory: "Baz", Confidence: models.ConfidenceHigh, Similarity: 88})

	applied, err := s.ImportTable("lakeside", incoming)
	require.NoError(t, err)
	assert.False(t, applied, "imports never merge into a non-empty table")

	p, _ := s.Project("lakeside")
	entry, _ := p.Mappings.Get("A")
	assert.Equal(t, "Foo", entry.TargetCategory)
	assert.False(t, p.Mappings.Has("B"))
}

func TestImportTableWholesaleIntoEmptyTable(t *testing.T) {
	s := newTestStore(t)
	_, err := s.EnsureProject("lakeside", "Lakeside")
	require.NoError(t, err)

	incoming := models.NewMappingTable()
	incoming.Set("B", models.MappingEntry{TargetCategory: "Baz", Confidence: models.ConfidenceHigh, Similarity: 88})
	incoming.Set("A", models.MappingEntry{TargetCategory: "Bar", Confidence: models.ConfidenceLow, Similarity: 45})

	applied, err := s.ImportTable("lakeside", incoming)
	require.NoError(t, err)
	assert.True(t, applied)

	p, _ := s.Project("lakeside")
	assert.Equal(t, []string{"B", "A"}, p.Mappings.Descriptions())
}

func TestSetAutomaticRefusesManualState(t *testing.T) {
	s := newTestStore(t)
	_, err := s.EnsureProject("lakeside", "Lakeside")
	require.NoError(t, err)
	require.NoError(t, s.SetManual("lakeside", "A", "Rent"))

	bad := models.MappingEntry{TargetCategory: "Rent", Confidence: models.ConfidenceManual, Similarity: 100, ManuallyEdited: true}
	assert.Error(t, s.SetAutomatic("lakeside", "A", bad))

	good := models.MappingEntry{TargetCategory: "Rent", Confidence: models.ConfidenceHigh, Similarity: 85}
	require.NoError(t, s.SetAutomatic("lakeside", "A", good))

	p, _ := s.Project("lakeside")
	entry, _ := p.Mappings.Get("A")
	assert.False(t, entry.ManuallyEdited)
}

func TestUpdateProjectErrorWritesNothing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.EnsureProject("lakeside", "Lakeside")
	require.NoError(t, err)

	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	updateErr := s.UpdateProject("lakeside", func(p *models.Project) error {
		p.SourceRange = "A1:B2"
		return assert.AnError
	})
	require.Error(t, updateErr)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after, "a failed mutation must not reach disk")
}

func TestRemoveProjectReassignsCurrent(t *testing.T) {
	s := newTestStore(t)
	_, err := s.EnsureProject("alpha", "Alpha")
	require.NoError(t, err)
	_, err = s.EnsureProject("beta", "Beta")
	require.NoError(t, err)
	require.NoError(t, s.SelectProject("beta"))

	require.NoError(t, s.RemoveProject("beta"))
	assert.Equal(t, "alpha", s.CurrentName())
}

func TestSettingsFileShape(t *testing.T) {
	s := newTestStore(t)
	_, err := s.EnsureProject("lakeside", "Lakeside")
	require.NoError(t, err)
	require.NoError(t, s.SetWorkbooks("pl.xlsx", "rolling.xlsx"))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "current_project")
	assert.Contains(t, raw, "source_workbook_path")
	assert.Contains(t, raw, "target_workbook_path")
	assert.Contains(t, raw, "projects")
}
