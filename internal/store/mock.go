package store

// MockMappingStore is an in-memory mapping store for tests.
type MockMappingStore struct {
	Mappings map[string][]string

	LoadError error
	SaveError error
}

// LoadMappings returns a copy of the configured mappings.
func (m *MockMappingStore) LoadMappings() (map[string][]string, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.Mappings == nil {
		return nil, nil
	}
	result := make(map[string][]string, len(m.Mappings))
	for k, v := range m.Mappings {
		result[k] = append([]string(nil), v...)
	}
	return result, nil
}

// SaveMappings replaces the stored mappings.
func (m *MockMappingStore) SaveMappings(mappings map[string][]string) (string, error) {
	if m.SaveError != nil {
		return "", m.SaveError
	}
	m.Mappings = clean(mappings)
	return "/mock/path/" + DefaultMappingFile, nil
}
