package resource

// Store resolves audio-cue labels for the check-in workflow.
type Store interface {
	List() []Track
	Resolve(label string) string
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items    []Track
	fallback string
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied tracks.
// A track labelled DefaultLabel overrides DefaultLocator.
func NewMemoryStore(items []Track) *MemoryStore {
	store := &MemoryStore{
		items:    append([]Track(nil), items...),
		fallback: DefaultLocator,
	}
	for _, item := range items {
		if item.Label == DefaultLabel && item.Locator != "" {
			store.fallback = item.Locator
		}
	}
	return store
}

// List returns the configured tracks.
func (s *MemoryStore) List() []Track {
	return append([]Track(nil), s.items...)
}

// Resolve looks up a label and degrades to the default locator.
func (s *MemoryStore) Resolve(label string) string {
	for _, item := range s.items {
		if item.Label == label && item.Label != DefaultLabel {
			return item.Locator
		}
	}
	return s.fallback
}
