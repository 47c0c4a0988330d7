package persona

// Store exposes preset retrieval for HTTP handlers and the dialogue pipeline.
type Store interface {
	List() []Preset
	FindByKind(kind string) (Preset, bool)
}

// MemoryStore implements Store with a read-only in-memory slice.
type MemoryStore struct {
	items []Preset
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied presets.
func NewMemoryStore(items []Preset) *MemoryStore {
	return &MemoryStore{items: append([]Preset(nil), items...)}
}

// List returns the preset table in display order.
func (s *MemoryStore) List() []Preset {
	return append([]Preset(nil), s.items...)
}

// FindByKind looks up a preset by its kind.
func (s *MemoryStore) FindByKind(kind string) (Preset, bool) {
	for _, item := range s.items {
		if item.Kind == kind {
			return item, true
		}
	}
	return Preset{}, false
}
