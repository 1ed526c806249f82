package staging

type memoryBackend[R any] struct {
	index map[string]int
	ids   []string
	recs  []R
}

// NewMemory creates a store that keeps records on the heap.
func NewMemory[R any](opts ...Option[R]) *Store[R] {
	return newStore[R](&memoryBackend[R]{index: make(map[string]int)}, Empty, opts)
}

func (m *memoryBackend[R]) put(id string, rec R, merge func(old, rec R) R) error {
	if i, ok := m.index[id]; ok {
		if merge != nil {
			rec = merge(m.recs[i], rec)
		}
		m.recs[i] = rec
		return nil
	}
	m.index[id] = len(m.ids)
	m.ids = append(m.ids, id)
	m.recs = append(m.recs, rec)
	return nil
}

func (m *memoryBackend[R]) get(id string) (R, bool, error) {
	i, ok := m.index[id]
	if !ok {
		var zero R
		return zero, false, nil
	}
	return m.recs[i], true, nil
}

func (m *memoryBackend[R]) each(fn func(id string, rec R) error) error {
	for i, id := range m.ids {
		if err := fn(id, m.recs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryBackend[R]) len() (int, error) { return len(m.ids), nil }

func (m *memoryBackend[R]) seal() error { return nil }

func (m *memoryBackend[R]) close() error {
	m.index = nil
	m.ids = nil
	m.recs = nil
	return nil
}
