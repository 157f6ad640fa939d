package userdata

import (
	"errors"
	"fmt"

	"github.com/kundanmehta01/CryptoHub/internal/store"
)

// MaxRecentSearches caps the search history length.
const MaxRecentSearches = 10

// RecentSearches keeps a most-recent-first, deduplicated search history.
type RecentSearches struct {
	store *store.Store
	limit int
}

// NewRecentSearches creates a RecentSearches manager over st.
func NewRecentSearches(st *store.Store) *RecentSearches {
	return &RecentSearches{store: st, limit: MaxRecentSearches}
}

// List returns the history, most recent first.
func (r *RecentSearches) List() ([]string, error) {
	var terms []string
	if err := r.store.Get(store.KeyRecentSearches, &terms); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load recent searches: %w", err)
	}
	return terms, nil
}

// Record moves term to the front of the history, deduplicating any earlier
// occurrence and trimming the tail past the cap. Empty terms are ignored.
func (r *RecentSearches) Record(term string) error {
	if term == "" {
		return nil
	}
	terms, err := r.List()
	if err != nil {
		return err
	}
	next := make([]string, 0, len(terms)+1)
	next = append(next, term)
	for _, t := range terms {
		if t == term {
			continue
		}
		next = append(next, t)
	}
	if len(next) > r.limit {
		next = next[:r.limit]
	}
	return r.save(next)
}

// Clear empties the history.
func (r *RecentSearches) Clear() error {
	return r.store.Remove(store.KeyRecentSearches)
}

func (r *RecentSearches) save(terms []string) error {
	if err := r.store.Set(store.KeyRecentSearches, terms, 0); err != nil {
		return fmt.Errorf("save recent searches: %w", err)
	}
	return nil
}
