// Package store implements the versioned, TTL-aware persistent store all
// higher-level managers read and write through. Every value is wrapped in an
// envelope carrying the schema version, the write timestamp, and an optional
// absolute expiry; invalid records are purged lazily on access.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kundanmehta01/CryptoHub/pkg/logger"
	"github.com/kundanmehta01/CryptoHub/pkg/metrics"
	"github.com/kundanmehta01/CryptoHub/pkg/storage"
)

// SchemaVersion tags every persisted envelope. Records written under a
// different version are treated as absent and purged on read.
const SchemaVersion = "1.2.0"

// DefaultNamespace prefixes every key the store touches on the medium.
const DefaultNamespace = "cryptohub_"

// ErrNotFound is returned by Get when the key is absent, expired,
// schema-stale, or undecodable. The offending record has already been
// removed by the time the error is returned.
var ErrNotFound = errors.New("store: key not found")

type envelope struct {
	Value     json.RawMessage `json:"value"`
	Version   string          `json:"version"`
	Timestamp int64           `json:"timestamp"`
	Expires   *int64          `json:"expires"`
}

// Listener observes writes to a single key. It receives the raw new value,
// or nil when the key was removed. Listeners run synchronously inline with
// the triggering operation and must not write the same key back.
type Listener func(value json.RawMessage)

type subscriber struct {
	id int
	fn Listener
}

// Store is a namespaced envelope store over a byte-oriented Backend.
// It is not safe for concurrent use; the core is single-threaded by design.
type Store struct {
	backend   storage.Backend
	namespace string
	now       func() time.Time
	log       *logger.Logger
	rec       metrics.Recorder
	subs      map[string][]subscriber
	nextSubID int
}

// Option configures a Store.
type Option func(*Store)

// WithNamespace overrides the key prefix.
func WithNamespace(ns string) Option {
	return func(s *Store) { s.namespace = ns }
}

// WithClock overrides the time source, for simulated-time tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(rec metrics.Recorder) Option {
	return func(s *Store) { s.rec = rec }
}

// New creates a Store over the given backend.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		namespace: DefaultNamespace,
		now:       time.Now,
		log:       logger.Nop(),
		rec:       metrics.Noop{},
		subs:      make(map[string][]subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set wraps value in a fresh envelope and persists it. A ttl of zero stores
// the record without expiry. On quota exhaustion the store purges every
// expired record in its namespace and retries once, dropping the new
// record's own TTL bookkeeping on the retry; a failing retry leaves the
// prior value untouched.
func (s *Store) Set(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: marshal %q: %w", key, err)
	}

	env := envelope{
		Value:     raw,
		Version:   SchemaVersion,
		Timestamp: s.now().UnixMilli(),
	}
	if ttl > 0 {
		exp := s.now().Add(ttl).UnixMilli()
		env.Expires = &exp
	}

	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("store: marshal envelope %q: %w", key, err)
	}

	err = s.backend.Write(s.namespace+key, data)
	if errors.Is(err, storage.ErrQuotaExceeded) {
		purged := s.ClearExpired()
		s.log.Warn("store quota exceeded, purged expired records",
			logger.String("key", key), logger.Int("purged", purged))

		// Retry without expiry metadata.
		env.Expires = nil
		data, _ = json.Marshal(env)
		err = s.backend.Write(s.namespace+key, data)
		s.rec.StoreQuotaRecovery(err == nil)
	}
	if err != nil {
		return fmt.Errorf("store: write %q: %w", key, err)
	}

	s.rec.StoreWrite(key)
	s.notify(key, raw)
	return nil
}

// Get reads key into dest. Corrupt, schema-stale, and expired records are
// deleted as a side effect and reported as ErrNotFound.
func (s *Store) Get(key string, dest any) error {
	data, ok, err := s.backend.Read(s.namespace + key)
	if err != nil {
		return fmt.Errorf("store: read %q: %w", key, err)
	}
	if !ok {
		s.rec.StoreRead(key, false)
		return ErrNotFound
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.purge(key, "undecodable envelope")
		return ErrNotFound
	}
	if env.Version != SchemaVersion {
		s.purge(key, "schema version mismatch")
		return ErrNotFound
	}
	if env.Expires != nil && s.now().UnixMilli() > *env.Expires {
		s.purge(key, "expired")
		return ErrNotFound
	}
	if err := json.Unmarshal(env.Value, dest); err != nil {
		s.purge(key, "undecodable value")
		return ErrNotFound
	}

	s.rec.StoreRead(key, true)
	return nil
}

// Has reports whether key holds a currently valid record. Invalid records
// encountered along the way are purged, same as Get.
func (s *Store) Has(key string) bool {
	var raw json.RawMessage
	return s.Get(key, &raw) == nil
}

// Remove deletes key and notifies its listeners with a nil value.
func (s *Store) Remove(key string) error {
	if err := s.backend.Delete(s.namespace + key); err != nil {
		return fmt.Errorf("store: remove %q: %w", key, err)
	}
	s.notify(key, nil)
	return nil
}

// Keys returns all logical key names in the namespace, sorted.
func (s *Store) Keys() []string {
	raw, err := s.backend.Keys(s.namespace)
	if err != nil {
		s.log.Error("store list keys", logger.Error(err))
		return nil
	}
	keys := make([]string, 0, len(raw))
	for _, k := range raw {
		keys = append(keys, strings.TrimPrefix(k, s.namespace))
	}
	sort.Strings(keys)
	return keys
}

// ClearExpired sweeps the whole namespace and deletes every expired,
// schema-stale, or undecodable record. It returns the number purged.
func (s *Store) ClearExpired() int {
	keys, err := s.backend.Keys(s.namespace)
	if err != nil {
		s.log.Error("store expiry sweep", logger.Error(err))
		return 0
	}

	nowMS := s.now().UnixMilli()
	purged := 0
	for _, k := range keys {
		data, ok, err := s.backend.Read(k)
		if err != nil || !ok {
			continue
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			_ = s.backend.Delete(k)
			purged++
			continue
		}
		if env.Version != SchemaVersion || (env.Expires != nil && nowMS > *env.Expires) {
			_ = s.backend.Delete(k)
			purged++
		}
	}
	if purged > 0 {
		s.rec.StorePurged(purged)
	}
	return purged
}

// Clear removes every record in the namespace regardless of TTL or version.
func (s *Store) Clear() error {
	keys, err := s.backend.Keys(s.namespace)
	if err != nil {
		return fmt.Errorf("store: clear: %w", err)
	}
	for _, k := range keys {
		if err := s.backend.Delete(k); err != nil {
			return fmt.Errorf("store: clear %q: %w", k, err)
		}
	}
	return nil
}

// Subscribe registers a listener for key and returns its unsubscribe handle.
func (s *Store) Subscribe(key string, fn Listener) (unsubscribe func()) {
	s.nextSubID++
	id := s.nextSubID
	s.subs[key] = append(s.subs[key], subscriber{id: id, fn: fn})

	return func() {
		entries := s.subs[key]
		for i, sub := range entries {
			if sub.id == id {
				s.subs[key] = append(entries[:i], entries[i+1:]...)
				return
			}
		}
	}
}

// notify invokes listeners for key synchronously. A panicking listener is
// recovered and logged; it never aborts the store operation.
func (s *Store) notify(key string, value json.RawMessage) {
	entries := s.subs[key]
	if len(entries) == 0 {
		return
	}
	snapshot := make([]subscriber, len(entries))
	copy(snapshot, entries)
	for _, sub := range snapshot {
		s.invoke(key, sub, value)
	}
}

func (s *Store) invoke(key string, sub subscriber, value json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("store listener panicked",
				logger.String("key", key), logger.Any("panic", r))
		}
	}()
	sub.fn(value)
}

// purge deletes an invalid record found during a read.
func (s *Store) purge(key, reason string) {
	_ = s.backend.Delete(s.namespace + key)
	s.rec.StoreRead(key, false)
	s.rec.StorePurged(1)
	s.log.Debug("store purged record",
		logger.String("key", key), logger.String("reason", reason))
}

// Now exposes the store's clock so sibling layers share the same time
// source in simulated-time tests.
func (s *Store) Now() time.Time {
	return s.now()
}
