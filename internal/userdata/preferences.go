package userdata

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kundanmehta01/CryptoHub/internal/store"
)

// Display preference defaults.
const (
	DefaultTheme    = "dark"
	DefaultCurrency = "usd"
	DefaultLanguage = "en"
)

// ChartPreferences controls how price charts render.
type ChartPreferences struct {
	Interval   string   `json:"interval"`
	Type       string   `json:"type"`
	Indicators []string `json:"indicators,omitempty"`
}

// NotificationSettings controls alert delivery.
type NotificationSettings struct {
	Enabled bool `json:"enabled"`
	Sound   bool `json:"sound"`
	Desktop bool `json:"desktop"`
}

// Preferences manages display settings and session bookkeeping. Updates
// never mutate a loaded value in place; each write builds a fresh value
// merged from the stored one.
type Preferences struct {
	store *store.Store
}

// NewPreferences creates a Preferences manager over st.
func NewPreferences(st *store.Store) *Preferences {
	return &Preferences{store: st}
}

// Theme returns the stored theme, defaulting to DefaultTheme.
func (p *Preferences) Theme() (string, error) {
	return p.getString(store.KeyTheme, DefaultTheme)
}

// SetTheme persists the theme.
func (p *Preferences) SetTheme(theme string) error {
	return p.set(store.KeyTheme, theme)
}

// Currency returns the stored display currency, defaulting to DefaultCurrency.
func (p *Preferences) Currency() (string, error) {
	return p.getString(store.KeyCurrency, DefaultCurrency)
}

// SetCurrency persists the display currency.
func (p *Preferences) SetCurrency(currency string) error {
	return p.set(store.KeyCurrency, currency)
}

// Language returns the stored language, defaulting to DefaultLanguage.
func (p *Preferences) Language() (string, error) {
	return p.getString(store.KeyLanguage, DefaultLanguage)
}

// SetLanguage persists the language.
func (p *Preferences) SetLanguage(lang string) error {
	return p.set(store.KeyLanguage, lang)
}

// Chart returns the stored chart preferences, zero value when unset.
func (p *Preferences) Chart() (ChartPreferences, error) {
	var prefs ChartPreferences
	err := p.get(store.KeyChartPreferences, &prefs)
	return prefs, err
}

// UpdateChart merges the given fields over the stored chart preferences.
// Empty fields in patch keep their stored values.
func (p *Preferences) UpdateChart(patch ChartPreferences) error {
	current, err := p.Chart()
	if err != nil {
		return err
	}
	next := current
	if patch.Interval != "" {
		next.Interval = patch.Interval
	}
	if patch.Type != "" {
		next.Type = patch.Type
	}
	if patch.Indicators != nil {
		next.Indicators = append([]string(nil), patch.Indicators...)
	}
	return p.set(store.KeyChartPreferences, next)
}

// Notifications returns the stored notification settings.
func (p *Preferences) Notifications() (NotificationSettings, error) {
	var settings NotificationSettings
	err := p.get(store.KeyNotificationSettings, &settings)
	return settings, err
}

// SetNotifications persists the notification settings.
func (p *Preferences) SetNotifications(settings NotificationSettings) error {
	return p.set(store.KeyNotificationSettings, settings)
}

// LastVisited returns the last visited view identifier, empty when unset.
func (p *Preferences) LastVisited() (string, error) {
	return p.getString(store.KeyLastVisited, "")
}

// SetLastVisited persists the last visited view identifier.
func (p *Preferences) SetLastVisited(view string) error {
	return p.set(store.KeyLastVisited, view)
}

// Session returns the stored session data map, never nil.
func (p *Preferences) Session() (map[string]json.RawMessage, error) {
	var session map[string]json.RawMessage
	if err := p.get(store.KeySessionData, &session); err != nil {
		return nil, err
	}
	if session == nil {
		session = map[string]json.RawMessage{}
	}
	return session, nil
}

// PutSession merges one entry into the session data. The stored map is
// copied before the merge so a concurrent reader never sees a partial write.
func (p *Preferences) PutSession(key string, value any) error {
	current, err := p.Session()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode session entry %s: %w", key, err)
	}
	next := make(map[string]json.RawMessage, len(current)+1)
	for k, v := range current {
		next[k] = v
	}
	next[key] = raw
	return p.set(store.KeySessionData, next)
}

// ClearSession removes all session data.
func (p *Preferences) ClearSession() error {
	return p.store.Remove(store.KeySessionData)
}

func (p *Preferences) getString(key, fallback string) (string, error) {
	var v string
	if err := p.store.Get(key, &v); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fallback, nil
		}
		return fallback, fmt.Errorf("load %s: %w", key, err)
	}
	return v, nil
}

func (p *Preferences) get(key string, dest any) error {
	if err := p.store.Get(key, dest); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load %s: %w", key, err)
	}
	return nil
}

func (p *Preferences) set(key string, value any) error {
	if err := p.store.Set(key, value, 0); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
