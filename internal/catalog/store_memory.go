package catalog

import (
	"encoding/json"
	"io/fs"
	"sync"

	"CatalogStore/internal/storage"
)

// MemBackend keeps the encoded document in memory. It serves the self-test and
// any run that must not touch the disk.
type MemBackend struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemBackend() *MemBackend {
	return &MemBackend{}
}

func (b *MemBackend) Load(v any) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.data == nil {
		return fs.ErrNotExist
	}
	return json.Unmarshal(b.data, v)
}

func (b *MemBackend) Save(v any) error {
	raw, err := storage.Encode(v)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = raw
	return nil
}

func (b *MemBackend) Ping() error { return nil }

// Bytes returns the last saved document.
func (b *MemBackend) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]byte(nil), b.data...)
}
