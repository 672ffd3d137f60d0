// Package store persists project settings and mapping tables.
//
// Every mutation writes the whole settings file through immediately; there
// is no separate save step. Writes go to a temporary file first and are
// renamed into place, so a crash between mutation and write leaves the
// prior persisted state intact.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"fjacquet/rolling-pl/internal/fileutils"
	"fjacquet/rolling-pl/internal/logging"
	"fjacquet/rolling-pl/internal/mapperror"
	"fjacquet/rolling-pl/internal/models"
)

// Settings is the root of the persisted settings file.
type Settings struct {
	CurrentProject string                     `json:"current_project"`
	SourceWorkbook string                     `json:"source_workbook_path"`
	TargetWorkbook string                     `json:"target_workbook_path"`
	Projects       map[string]*models.Project `json:"projects"`
}

// ProjectStore owns the settings file for all projects. All mutating
// methods persist the full settings before returning.
type ProjectStore struct {
	path   string
	mu     sync.Mutex
	set    Settings
	logger logging.Logger
}

// NewProjectStore creates a store bound to a settings file path. Call
// Load before use.
func NewProjectStore(path string, logger logging.Logger) *ProjectStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &ProjectStore{
		path:   path,
		set:    Settings{Projects: make(map[string]*models.Project)},
		logger: logger,
	}
}

// Path returns the settings file path.
func (s *ProjectStore) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields empty settings, not
// an error. Malformed files or entries violating the schema invariants
// are rejected with context rather than silently defaulted.
func (s *ProjectStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("settings file not found, starting empty", logging.F("path", s.path))
			s.set = Settings{Projects: make(map[string]*models.Project)}
			return nil
		}
		return fmt.Errorf("error reading settings file: %w", err)
	}

	var set Settings
	if err := json.Unmarshal(data, &set); err != nil {
		return &mapperror.SettingsError{Path: s.path, Reason: err.Error()}
	}
	if set.Projects == nil {
		set.Projects = make(map[string]*models.Project)
	}

	for name, project := range set.Projects {
		if project == nil {
			return &mapperror.SettingsError{Path: s.path, Project: name, Reason: "null project entry"}
		}
		project.Name = name
		project.EnsureInitialized()
		if err := project.Mappings.Validate(); err != nil {
			return &mapperror.SettingsError{Path: s.path, Project: name, Reason: err.Error()}
		}
	}

	if set.CurrentProject != "" {
		if _, ok := set.Projects[set.CurrentProject]; !ok {
			return &mapperror.SettingsError{
				Path:   s.path,
				Reason: fmt.Sprintf("current_project '%s' has no project entry", set.CurrentProject),
			}
		}
	}

	s.set = set
	s.logger.Debug("settings loaded",
		logging.F("path", s.path), logging.F("projects", len(set.Projects)))
	return nil
}

// save persists the full settings atomically. Callers must hold the lock.
func (s *ProjectStore) save() error {
	data, err := json.MarshalIndent(&s.set, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling settings: %w", err)
	}
	if err := fileutils.AtomicWriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("error writing settings file: %w", err)
	}
	return nil
}

// ProjectNames returns all project names, sorted.
func (s *ProjectStore) ProjectNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.set.Projects))
	for name := range s.set.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Project returns the project with the given name.
func (s *ProjectStore) Project(name string) (*models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.set.Projects[name]
	return p, ok
}

// Current returns the currently selected project.
func (s *ProjectStore) Current() (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set.CurrentProject == "" {
		return nil, fmt.Errorf("no project selected")
	}
	p, ok := s.set.Projects[s.set.CurrentProject]
	if !ok {
		return nil, fmt.Errorf("current project '%s' not found", s.set.CurrentProject)
	}
	return p, nil
}

// CurrentName returns the name of the selected project, or "".
func (s *ProjectStore) CurrentName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.CurrentProject
}

// SelectProject makes the named project current and persists the choice.
func (s *ProjectStore) SelectProject(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.set.Projects[name]; !ok {
		return fmt.Errorf("project '%s' not found", name)
	}
	s.set.CurrentProject = name
	return s.save()
}

// SetWorkbooks records the source and target workbook paths. Empty
// arguments leave the stored value unchanged.
func (s *ProjectStore) SetWorkbooks(source, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if source != "" {
		s.set.SourceWorkbook = source
	}
	if target != "" {
		s.set.TargetWorkbook = target
	}
	return s.save()
}

// Workbooks returns the stored source and target workbook paths.
func (s *ProjectStore) Workbooks() (source, target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.SourceWorkbook, s.set.TargetWorkbook
}

// EnsureProject returns the named project, creating and persisting it if
// new. An existing project keeps its saved state; only the source sheet is
// refreshed, since sheet names can change between workbook revisions.
func (s *ProjectStore) EnsureProject(name, sourceSheet string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.set.Projects[name]; ok {
		if sourceSheet != "" && p.SourceSheet != sourceSheet {
			p.SourceSheet = sourceSheet
			if err := s.save(); err != nil {
				return nil, err
			}
		}
		return p, nil
	}

	p := models.NewProject(name, sourceSheet)
	s.set.Projects[name] = p
	if s.set.CurrentProject == "" {
		s.set.CurrentProject = name
	}
	if err := s.save(); err != nil {
		return nil, err
	}
	s.logger.Info("project created", logging.F("project", name), logging.F("sheet", sourceSheet))
	return p, nil
}

// UpdateProject applies a mutation to the named project and persists the
// settings. If the mutation returns an error nothing is written.
func (s *ProjectStore) UpdateProject(name string, mutate func(*models.Project) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.set.Projects[name]
	if !ok {
		return fmt.Errorf("project '%s' not found", name)
	}
	if err := mutate(p); err != nil {
		return err
	}
	return s.save()
}

// ResetProject clears a project's mapping and amount state while keeping
// its range configuration, then persists.
func (s *ProjectStore) ResetProject(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.set.Projects[name]
	if !ok {
		return fmt.Errorf("project '%s' not found", name)
	}
	p.Reset()
	s.logger.Info("project reset", logging.F("project", name))
	return s.save()
}

// RemoveProject deletes a project. If it was current, another project (if
// any) becomes current.
func (s *ProjectStore) RemoveProject(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.set.Projects[name]; !ok {
		return fmt.Errorf("project '%s' not found", name)
	}
	delete(s.set.Projects, name)
	if s.set.CurrentProject == name {
		s.set.CurrentProject = ""
		remaining := make([]string, 0, len(s.set.Projects))
		for n := range s.set.Projects {
			remaining = append(remaining, n)
		}
		sort.Strings(remaining)
		if len(remaining) > 0 {
			s.set.CurrentProject = remaining[0]
		}
	}
	return s.save()
}
