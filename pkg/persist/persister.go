package persist

// Persister handles I/O for a specific state type at a fixed path.
type Persister[T any] struct {
	path  string
	codec Codec
}

// NewPersister creates a persister for the file at path.
func NewPersister[T any](path string, codec Codec) *Persister[T] {
	return &Persister[T]{path: path, codec: codec}
}

// Path returns the file the persister reads and writes.
func (p *Persister[T]) Path() string {
	return p.path
}

// Save writes state.
func (p *Persister[T]) Save(state *T) error {
	return SaveFile(p.path, p.codec, state)
}

// Load reads the stored state.
func (p *Persister[T]) Load() (*T, error) {
	var state T

	if err := LoadFile(p.path, p.codec, &state); err != nil {
		return nil, err
	}

	return &state, nil
}
