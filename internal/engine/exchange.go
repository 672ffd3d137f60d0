package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/rolling-pl/internal/logging"
	"fjacquet/rolling-pl/internal/mapimport"
)

// ImportMappings loads a legacy mapping file into the project. The import
// applies only when the project's table is still empty; the returned bool
// reports whether it was applied.
func (s *Session) ImportMappings(projectName, path string) (bool, error) {
	p, err := s.project(projectName)
	if err != nil {
		return false, err
	}

	table, err := mapimport.LoadFile(path)
	if err != nil {
		return false, err
	}

	applied, err := s.store.ImportTable(p.Name, table)
	if err != nil {
		return false, err
	}
	if applied {
		s.logger.Info("mapping file imported",
			logging.F("project", p.Name), logging.F("file", path), logging.F("entries", table.Len()))
	}
	return applied, nil
}

// ExportMappings writes the project's mapping table to a CSV or YAML file,
// chosen by extension.
func (s *Session) ExportMappings(projectName, path string) error {
	p, err := s.project(projectName)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = mapimport.ExportCSV(path, p.Mappings)
	case ".yaml", ".yml":
		err = mapimport.ExportYAML(path, p.Mappings)
	default:
		return fmt.Errorf("unsupported export format '%s'", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	s.logger.Info("mapping table exported",
		logging.F("project", p.Name), logging.F("file", path), logging.F("entries", p.Mappings.Len()))
	return nil
}
