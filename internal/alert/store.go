package alert

import (
	"errors"
	"fmt"

	"github.com/kundanmehta01/CryptoHub/internal/store"
)

// ErrAlertNotFound is returned for operations on an unknown alert id.
var ErrAlertNotFound = errors.New("alert: not found")

// Store persists the alert collection.
type Store struct {
	store *store.Store
}

// NewStore creates an alert Store over st.
func NewStore(st *store.Store) *Store {
	return &Store{store: st}
}

// List returns all alerts in creation order.
func (s *Store) List() ([]Alert, error) {
	var alerts []Alert
	if err := s.store.Get(store.KeyAlerts, &alerts); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load alerts: %w", err)
	}
	return alerts, nil
}

// Active returns only the alerts eligible for evaluation.
func (s *Store) Active() ([]Alert, error) {
	alerts, err := s.List()
	if err != nil {
		return nil, err
	}
	active := alerts[:0]
	for _, a := range alerts {
		if a.Active {
			active = append(active, a)
		}
	}
	return active, nil
}

// Add appends a new alert.
func (s *Store) Add(a Alert) error {
	alerts, err := s.List()
	if err != nil {
		return err
	}
	return s.save(append(alerts, a))
}

// Update replaces the stored alert with the same id.
func (s *Store) Update(a Alert) error {
	alerts, err := s.List()
	if err != nil {
		return err
	}
	for i := range alerts {
		if alerts[i].ID == a.ID {
			alerts[i] = a
			return s.save(alerts)
		}
	}
	return ErrAlertNotFound
}

// Delete removes the alert with the given id.
func (s *Store) Delete(id string) error {
	alerts, err := s.List()
	if err != nil {
		return err
	}
	kept := alerts[:0]
	found := false
	for _, a := range alerts {
		if a.ID == id {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return ErrAlertNotFound
	}
	return s.save(kept)
}

// Toggle flips an alert's active flag without touching its triggered state.
func (s *Store) Toggle(id string) error {
	return s.mutate(id, func(a *Alert) {
		a.Active = !a.Active
	})
}

// Reset re-arms a triggered alert.
func (s *Store) Reset(id string) error {
	return s.mutate(id, func(a *Alert) {
		a.Active = true
		a.Triggered = false
	})
}

func (s *Store) mutate(id string, fn func(*Alert)) error {
	alerts, err := s.List()
	if err != nil {
		return err
	}
	for i := range alerts {
		if alerts[i].ID == id {
			fn(&alerts[i])
			return s.save(alerts)
		}
	}
	return ErrAlertNotFound
}

func (s *Store) save(alerts []Alert) error {
	if err := s.store.Set(store.KeyAlerts, alerts, 0); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	return nil
}
