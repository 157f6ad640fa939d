package storage

import "strings"

// MemoryBackend is a map-backed medium with an optional byte quota. It is
// the default substitute for tests and for hosts that persist elsewhere.
type MemoryBackend struct {
	data  map[string][]byte
	quota int // max total bytes (keys + values); 0 means unlimited
	used  int
}

// MemoryOption configures a MemoryBackend.
type MemoryOption func(*MemoryBackend)

// WithQuota caps the total stored bytes. Writes that would exceed the cap
// fail with ErrQuotaExceeded.
func WithQuota(bytes int) MemoryOption {
	return func(b *MemoryBackend) {
		b.quota = bytes
	}
}

// NewMemoryBackend creates an in-memory medium.
func NewMemoryBackend(opts ...MemoryOption) *MemoryBackend {
	b := &MemoryBackend{data: make(map[string][]byte)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *MemoryBackend) Read(key string) ([]byte, bool, error) {
	v, ok := b.data[key]
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

func (b *MemoryBackend) Write(key string, value []byte) error {
	size := len(key) + len(value)
	prev := 0
	if old, ok := b.data[key]; ok {
		prev = len(key) + len(old)
	}
	if b.quota > 0 && b.used-prev+size > b.quota {
		return ErrQuotaExceeded
	}
	b.data[key] = value
	b.used += size - prev
	return nil
}

func (b *MemoryBackend) Delete(key string) error {
	if old, ok := b.data[key]; ok {
		b.used -= len(key) + len(old)
		delete(b.data, key)
	}
	return nil
}

func (b *MemoryBackend) Keys(prefix string) ([]string, error) {
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Used reports the current stored byte total.
func (b *MemoryBackend) Used() int {
	return b.used
}
