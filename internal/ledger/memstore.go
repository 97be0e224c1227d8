package ledger

// MemStore is an in-memory Store. Blocks do not survive the process; this
// is the default backing when no durable ledger path is configured, and is
// used throughout the tests.
type MemStore struct {
	blocks []Block
}

// NewMemStore creates an empty in-memory block store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) AppendBlock(b Block) error {
	s.blocks = append(s.blocks, b)
	return nil
}

func (s *MemStore) LoadBlocks() ([]Block, error) {
	out := make([]Block, len(s.blocks))
	copy(out, s.blocks)
	return out, nil
}

func (s *MemStore) Close() error { return nil }

// Compile-time interface check.
var _ Store = (*MemStore)(nil)
