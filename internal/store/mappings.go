package store

import (
	"fmt"

	"fjacquet/rolling-pl/internal/logging"
	"fjacquet/rolling-pl/internal/models"
)

// ApplyResolved merges a freshly resolved mapping table into the project.
// Manually edited entries are kept untouched; automatic entries are
// replaced by their newly resolved counterparts; descriptions not yet in
// the table are appended in resolved order. This is the only way automatic
// resolution reaches the persisted table, and it can never downgrade a
// manual entry.
func (s *ProjectStore) ApplyResolved(project string, resolved *models.MappingTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.set.Projects[project]
	if !ok {
		return fmt.Errorf("project '%s' not found", project)
	}

	kept := 0
	for _, description := range resolved.Descriptions() {
		if existing, ok := p.Mappings.Get(description); ok && existing.ManuallyEdited {
			kept++
			continue
		}
		entry, _ := resolved.Get(description)
		if entry.ManuallyEdited {
			return fmt.Errorf("resolved table for '%s' carries a manual entry for '%s'", project, description)
		}
		p.Mappings.Set(description, entry)
	}
	p.Workflow.MappingsGenerated = true

	if kept > 0 {
		s.logger.Debug("manual entries preserved during resolve",
			logging.F("project", project), logging.F("count", kept))
	}
	return s.save()
}

// ImportTable applies an externally supplied mapping table (a legacy
// import). The import is taken wholesale only when the project's existing
// table is completely empty; a non-empty table is never merged key-by-key,
// which prevents a stale import from silently reverting confirmed
// mappings. Returns whether the import was applied.
func (s *ProjectStore) ImportTable(project string, incoming *models.MappingTable) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.set.Projects[project]
	if !ok {
		return false, fmt.Errorf("project '%s' not found", project)
	}

	if p.Mappings.Len() > 0 {
		s.logger.Warn("import skipped: project already has mappings",
			logging.F("project", project), logging.F("existing", p.Mappings.Len()))
		return false, nil
	}

	if err := incoming.Validate(); err != nil {
		return false, fmt.Errorf("imported table rejected: %w", err)
	}

	p.Mappings = incoming.Clone()
	p.Workflow.MappingsGenerated = true
	s.logger.Info("mapping table imported",
		logging.F("project", project), logging.F("entries", incoming.Len()))
	return true, s.save()
}

// SetManual records a user-confirmed mapping for a description. Manual
// entries carry Manual confidence and similarity 100 and are permanent:
// no automatic regeneration may alter them. Unknown descriptions are
// appended so a user can pre-confirm an account before it first appears.
func (s *ProjectStore) SetManual(project, description, targetCategory string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.set.Projects[project]
	if !ok {
		return fmt.Errorf("project '%s' not found", project)
	}

	p.Mappings.Set(description, models.MappingEntry{
		TargetCategory: targetCategory,
		Confidence:     models.ConfidenceManual,
		Similarity:     100.0,
		ManuallyEdited: true,
	})
	s.logger.Info("manual mapping set",
		logging.F("project", project),
		logging.F("description", description),
		logging.F("target", targetCategory))
	return s.save()
}

// SetAutomatic replaces a single entry with an automatic one. This is the
// explicit user action that clears a manual edit; the entry must not claim
// manual state.
func (s *ProjectStore) SetAutomatic(project, description string, entry models.MappingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.set.Projects[project]
	if !ok {
		return fmt.Errorf("project '%s' not found", project)
	}
	if entry.ManuallyEdited || entry.Confidence == models.ConfidenceManual {
		return fmt.Errorf("SetAutomatic cannot record manual state for '%s'", description)
	}
	if !p.Mappings.Has(description) {
		return fmt.Errorf("no mapping entry for '%s' in project '%s'", description, project)
	}

	p.Mappings.Set(description, entry)
	return s.save()
}
