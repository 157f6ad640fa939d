// Package userdata holds the typed per-user collections: watchlist and
// favorites, display preferences, and the recent-search history. Each
// manager is a thin logical view over the persistent store and rebuilds
// its state from storage on every call.
package userdata

import (
	"errors"
	"fmt"

	"github.com/kundanmehta01/CryptoHub/internal/store"
)

// Watchlist manages the ordered coin watchlist and the favorites list.
type Watchlist struct {
	store *store.Store
}

// NewWatchlist creates a Watchlist over st.
func NewWatchlist(st *store.Store) *Watchlist {
	return &Watchlist{store: st}
}

// List returns the watched coin ids in insertion order.
func (w *Watchlist) List() ([]string, error) {
	return w.load(store.KeyWatchlist)
}

// Add appends coinID to the watchlist unless it is already present.
func (w *Watchlist) Add(coinID string) error {
	return w.add(store.KeyWatchlist, coinID)
}

// Remove drops coinID from the watchlist. Removing an absent id is a no-op.
func (w *Watchlist) Remove(coinID string) error {
	return w.remove(store.KeyWatchlist, coinID)
}

// Contains reports whether coinID is on the watchlist.
func (w *Watchlist) Contains(coinID string) (bool, error) {
	return w.contains(store.KeyWatchlist, coinID)
}

// Favorites returns the favorite coin ids in insertion order.
func (w *Watchlist) Favorites() ([]string, error) {
	return w.load(store.KeyFavorites)
}

// AddFavorite appends coinID to the favorites unless already present.
func (w *Watchlist) AddFavorite(coinID string) error {
	return w.add(store.KeyFavorites, coinID)
}

// RemoveFavorite drops coinID from the favorites.
func (w *Watchlist) RemoveFavorite(coinID string) error {
	return w.remove(store.KeyFavorites, coinID)
}

// IsFavorite reports whether coinID is a favorite.
func (w *Watchlist) IsFavorite(coinID string) (bool, error) {
	return w.contains(store.KeyFavorites, coinID)
}

func (w *Watchlist) load(key string) ([]string, error) {
	var ids []string
	if err := w.store.Get(key, &ids); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return ids, nil
}

func (w *Watchlist) add(key, coinID string) error {
	ids, err := w.load(key)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == coinID {
			return nil
		}
	}
	return w.save(key, append(ids, coinID))
}

func (w *Watchlist) remove(key, coinID string) error {
	ids, err := w.load(key)
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, id := range ids {
		if id != coinID {
			kept = append(kept, id)
		}
	}
	return w.save(key, kept)
}

func (w *Watchlist) contains(key, coinID string) (bool, error) {
	ids, err := w.load(key)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == coinID {
			return true, nil
		}
	}
	return false, nil
}

func (w *Watchlist) save(key string, ids []string) error {
	if err := w.store.Set(key, ids, 0); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
