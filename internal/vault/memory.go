package vault

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-codeimport/pkg/interfaces"
)

// MemoryReader stores files in-memory for tests and embedded vaults.
type MemoryReader struct {
	mu    sync.RWMutex
	files map[string]string
}

var _ interfaces.FileReader = (*MemoryReader)(nil)

// NewMemoryReader constructs a reader seeded with files. Keys are normalised.
func NewMemoryReader(files map[string]string) *MemoryReader {
	r := &MemoryReader{files: make(map[string]string, len(files))}
	for path, content := range files {
		r.files[Normalize(path)] = content
	}
	return r
}

// Put stores content under path.
func (r *MemoryReader) Put(_ context.Context, path, content string) error {
	key := Normalize(path)
	if key == "/" {
		return ErrPathRequired
	}
	r.mu.Lock()
	r.files[key] = content
	r.mu.Unlock()
	return nil
}

// Delete removes path. Removing a missing path is not an error.
func (r *MemoryReader) Delete(_ context.Context, path string) error {
	r.mu.Lock()
	delete(r.files, Normalize(path))
	r.mu.Unlock()
	return nil
}

// List returns every stored path in order.
func (r *MemoryReader) List(context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.files))
	for path := range r.files {
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

// ReadPlainFile implements interfaces.FileReader.
func (r *MemoryReader) ReadPlainFile(ctx context.Context, path string) (string, bool, error) {
	if err := ensureContext(ctx).Err(); err != nil {
		return "", false, err
	}
	r.mu.RLock()
	content, ok := r.files[path]
	r.mu.RUnlock()
	return content, ok, nil
}
