package blob

import (
	"bytes"
	"context"
	"io"
	"sync"

	errs "github.com/hunt-ops/hunt-manager/pkg/errors"
)

// Memory implements Store in process memory, with the same semantics as
// Local. Tests use it to avoid touching the filesystem.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		blobs: map[string][]byte{},
	}
}

func (m *Memory) Store(ctx context.Context, r io.Reader, originalFilename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", &errs.ErrStorage{Op: "write blob", Sub: err}
	}
	ref := NewRef(originalFilename)

	m.mu.Lock()
	m.blobs[ref] = b
	m.mu.Unlock()

	return ref, nil
}

func (m *Memory) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	b, ok := m.blobs[ref]
	m.mu.RUnlock()

	if !ok {
		return nil, &errs.ErrBlobExist{Ref: ref, Exist: false}
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *Memory) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.blobs, ref)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored blobs, for orphan assertions in tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
