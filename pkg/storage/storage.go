// Package storage provides the byte-oriented key-value media the persistent
// store writes through. Implementations are synchronous and report capacity
// exhaustion with ErrQuotaExceeded so the caller can attempt recovery.
package storage

import "errors"

var (
	// ErrQuotaExceeded is returned by Write when the medium is full.
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
)

// Backend is the minimal contract for a storage medium.
type Backend interface {
	// Read returns the raw value for key and whether it exists.
	Read(key string) ([]byte, bool, error)

	// Write stores the raw value under key (upsert).
	Write(key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Keys returns all stored keys with the given prefix, unordered.
	Keys(prefix string) ([]string, error)
}
