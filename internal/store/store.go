// Package store loads and saves the budget-category mapping table: which
// observed Up categories count towards each recommended budget category.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/up-budget/internal/logging"
	"fjacquet/up-budget/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultMappingFile is used when no file name is configured.
const DefaultMappingFile = "budget_mapping.yaml"

// MappingFile is the on-disk layout of the mapping table.
type MappingFile struct {
	Mappings map[string][]string `yaml:"mappings"`
}

// MappingStore manages loading and saving of the mapping table.
type MappingStore struct {
	File   string
	logger logging.Logger
}

// NewMappingStore creates a store for the given file name or path.
func NewMappingStore(file string, logger logging.Logger) *MappingStore {
	if file == "" {
		file = DefaultMappingFile
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &MappingStore{File: file, logger: logger}
}

// FindConfigFile looks for a file in the standard locations.
func (s *MappingStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "up-budget", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadMappings reads the mapping table. A missing file yields a nil map and
// no error so callers can apply the built-in defaults.
func (s *MappingStore) LoadMappings() (map[string][]string, error) {
	filePath, err := s.FindConfigFile(s.File)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Budget mapping file not found, using defaults",
				logging.F("file", s.File))
			return nil, nil
		}
		return nil, fmt.Errorf("error resolving budget mapping file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading budget mapping file: %w", err)
	}

	var file MappingFile
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Mappings) > 0 {
		s.logger.Debug("Loaded budget mappings",
			logging.F(logging.FieldCount, len(file.Mappings)),
			logging.F("file", filePath))
		return clean(file.Mappings), nil
	}

	// Also accept a bare map without the top-level key.
	var bare map[string][]string
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("error parsing budget mapping file %s: %w", filePath, err)
	}
	s.logger.Debug("Loaded budget mappings from bare map",
		logging.F(logging.FieldCount, len(bare)),
		logging.F("file", filePath))
	return clean(bare), nil
}

// SaveMappings writes the mapping table, creating parent directories as
// needed. An existing file is overwritten in place.
func (s *MappingStore) SaveMappings(mappings map[string][]string) (string, error) {
	filePath, err := s.FindConfigFile(s.File)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("error resolving budget mapping file: %w", err)
		}
		filePath = s.File
	}

	if err := os.MkdirAll(filepath.Dir(filePath), models.PermissionDirectory); err != nil {
		return "", fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(MappingFile{Mappings: clean(mappings)})
	if err != nil {
		return "", fmt.Errorf("error marshaling budget mappings: %w", err)
	}
	if err := os.WriteFile(filePath, data, models.PermissionDataFile); err != nil {
		return "", fmt.Errorf("error writing budget mappings: %w", err)
	}

	s.logger.Debug("Saved budget mappings",
		logging.F(logging.FieldCount, len(mappings)),
		logging.F("file", filePath))
	return filePath, nil
}

// clean trims names and drops empty ones. List order is match priority and is
// preserved.
func clean(mappings map[string][]string) map[string][]string {
	out := make(map[string][]string, len(mappings))
	for category, names := range mappings {
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		kept := make([]string, 0, len(names))
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				kept = append(kept, name)
			}
		}
		out[category] = kept
	}
	return out
}

// Categories returns the mapped budget categories in sorted order.
func Categories(mappings map[string][]string) []string {
	keys := make([]string, 0, len(mappings))
	for k := range mappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
