package repository

// StoreOption applies a configuration option to the MemStore.
type StoreOption func(*MemStore)

// WithIDGenerator replaces the ID generator. Tests use this for
// deterministic record IDs.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *MemStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}
