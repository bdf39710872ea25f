package viewer

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Prefs are the viewer settings remembered between sessions.
type Prefs struct {
	Count     int     `yaml:"count"`
	Kind      string  `yaml:"kind"`
	GroupSize int     `yaml:"group_size"`
	Zoom      float64 `yaml:"zoom"`
	ShowHUD   bool    `yaml:"show_hud"`
	Follow    bool    `yaml:"follow"`
}

// DefaultPrefs returns the settings used on first launch.
func DefaultPrefs() Prefs {
	return Prefs{
		Count:     100,
		Kind:      "grid",
		GroupSize: 25,
		Zoom:      1,
		ShowHUD:   true,
	}
}

const (
	prefsObject   = "viewer"
	prefsProperty = "prefs"
)

// PrefsStore loads and saves Prefs through gdata. A store without a
// manager keeps settings in memory only.
type PrefsStore struct {
	gdataManager *gdata.Manager
	prefs        Prefs
	loaded       bool // prefs came from disk rather than DefaultPrefs
}

// OpenPrefsStore opens the per-user data directory for appName. When the
// directory cannot be opened the returned store still works in memory, and
// the error says why.
func OpenPrefsStore(appName string) (*PrefsStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewPrefsStore(nil), fmt.Errorf("open gdata for %s: %w", appName, err)
	}
	return NewPrefsStore(m), nil
}

// NewPrefsStore wraps m and loads any saved prefs. m may be nil.
func NewPrefsStore(m *gdata.Manager) *PrefsStore {
	ps := &PrefsStore{gdataManager: m, prefs: DefaultPrefs()}
	if err := ps.Load(); err != nil {
		log.Printf("[viewer] prefs load failed: %v (using defaults)", err)
	}
	return ps
}

// Load replaces the in-memory prefs with the saved ones, if any. Without
// saved prefs the store falls back to DefaultPrefs and Loaded reports false.
func (ps *PrefsStore) Load() error {
	ps.loaded = false
	if ps.gdataManager == nil || !ps.gdataManager.ObjectPropExists(prefsObject, prefsProperty) {
		ps.prefs = DefaultPrefs()
		return nil
	}
	data, err := ps.gdataManager.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		ps.prefs = DefaultPrefs()
		return fmt.Errorf("load prefs: %w", err)
	}
	loaded := DefaultPrefs()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		ps.prefs = DefaultPrefs()
		return fmt.Errorf("unmarshal prefs: %w", err)
	}
	ps.prefs = loaded
	ps.loaded = true
	return nil
}

// Save writes the in-memory prefs. Without a manager it is a no-op.
func (ps *PrefsStore) Save() error {
	if ps.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(ps.prefs)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := ps.gdataManager.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

// Prefs returns the current settings.
func (ps *PrefsStore) Prefs() Prefs {
	return ps.prefs
}

// SetPrefs replaces the current settings without saving.
func (ps *PrefsStore) SetPrefs(p Prefs) {
	ps.prefs = p
}

// Loaded reports whether the current prefs were read from disk.
func (ps *PrefsStore) Loaded() bool {
	return ps.loaded
}

// Persistent reports whether Save writes to disk.
func (ps *PrefsStore) Persistent() bool {
	return ps.gdataManager != nil
}
