package features

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/wilbur182/marquee/internal/config"
)

// ErrNotInitialized is returned when the feature manager is not initialized.
var ErrNotInitialized = errors.New("feature manager not initialized")

// Feature represents a known feature flag with its default value.
type Feature struct {
	Name        string
	Default     bool
	Description string
}

// Known feature flags - add new features here.
var (
	// CarouselAutoplay advances slides on a timer.
	CarouselAutoplay = Feature{
		Name:        "carousel_autoplay",
		Default:     false,
		Description: "Advance slides automatically on an interval",
	}

	// StyleSwitcher enables the style picker modal.
	StyleSwitcher = Feature{
		Name:        "style_switcher",
		Default:     true,
		Description: "Enable the style switcher modal",
	}

	// SyntaxHighlight colors code slides.
	SyntaxHighlight = Feature{
		Name:        "syntax_highlight",
		Default:     true,
		Description: "Syntax highlight code slides",
	}
)

// allFeatures is the registry of all known features.
var allFeatures = []Feature{
	CarouselAutoplay,
	StyleSwitcher,
	SyntaxHighlight,
}

// defaultValues provides O(1) lookup for feature defaults.
var defaultValues = buildDefaultMap()

func buildDefaultMap() map[string]bool {
	m := make(map[string]bool, len(allFeatures))
	for _, f := range allFeatures {
		m[f.Name] = f.Default
	}
	return m
}

// IsKnownFeature returns true if the feature name is registered.
func IsKnownFeature(name string) bool {
	_, ok := defaultValues[name]
	return ok
}

// ListAll returns all known features with metadata.
// Returns a copy to prevent mutation of internal state.
func ListAll() []Feature {
	result := make([]Feature, len(allFeatures))
	copy(result, allFeatures)
	return result
}

// getDefault returns the default value for a feature.
func getDefault(name string) bool {
	if val, ok := defaultValues[name]; ok {
		return val
	}
	return false // Unknown features default to disabled
}

// FlagStore is a persisted, writable source of flag values.
type FlagStore interface {
	Get(ctx context.Context, name string) (enabled bool, found bool, err error)
	Set(ctx context.Context, name string, enabled bool) error
	Delete(ctx context.Context, name string) error
	All(ctx context.Context) (map[string]bool, error)
}

// ChangeObserver is notified when flag values may have changed.
type ChangeObserver interface {
	FlagsChanged(names ...string)
}

// ObserverFunc adapts a function to ChangeObserver.
type ObserverFunc func(names ...string)

// FlagsChanged calls f(names...).
func (f ObserverFunc) FlagsChanged(names ...string) { f(names...) }

type observer struct {
	o     ChangeObserver
	names []string // empty observes every flag
}

// Manager handles feature flag state. It satisfies Provider.
type Manager struct {
	mu        sync.RWMutex
	cfg       *config.Config
	store     FlagStore
	overrides map[string]bool // CLI overrides take precedence
	logger    *slog.Logger

	// stored is the last store snapshot seen, for RefreshStore.
	stored map[string]bool

	observersMu sync.RWMutex
	observers   []observer
}

var _ Provider = (*Manager)(nil)

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStore attaches a persisted flag store, consulted after CLI overrides.
func WithStore(store FlagStore) ManagerOption {
	return func(m *Manager) {
		m.store = store
	}
}

// WithLogger sets the logger used for store failures.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a feature flag manager over the given config.
func NewManager(cfg *config.Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:       cfg,
		overrides: make(map[string]bool),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "features")
	if m.store != nil {
		stored, err := m.store.All(context.Background())
		if err != nil {
			m.logger.Debug("failed to list flag store", "err", err)
		}
		m.stored = stored
	}
	return m
}

// SetOverride sets a CLI override for a feature flag.
// Overrides take precedence over every other source.
func (m *Manager) SetOverride(name string, enabled bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.overrides[name] = enabled
	m.mu.Unlock()

	m.notifyObservers(name)
}

// IsEnabled checks if a feature is enabled.
// Priority: CLI override > flag store > config > default.
// A nil Manager is an absent provider and reports every flag as disabled.
func (m *Manager) IsEnabled(name string) bool {
	if m == nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.isEnabledLocked(name)
}

// isEnabledLocked checks feature state without acquiring locks (caller must hold lock).
func (m *Manager) isEnabledLocked(name string) bool {
	// Check CLI overrides first
	if enabled, ok := m.overrides[name]; ok {
		return enabled
	}

	// Check the persisted store
	if m.store != nil {
		enabled, found, err := m.store.Get(context.Background(), name)
		if err != nil {
			m.logger.Debug("failed to read flag store", "flag", name, "err", err)
		} else if found {
			return enabled
		}
	}

	// Check config
	if m.cfg != nil && m.cfg.Features.Flags != nil {
		if enabled, ok := m.cfg.Features.Flags[name]; ok {
			return enabled
		}
	}

	// Fall back to default
	return getDefault(name)
}

// List returns all known features, plus any flag set in config or the store,
// with their current enabled state.
func (m *Manager) List() map[string]bool {
	if m == nil {
		result := make(map[string]bool, len(allFeatures))
		for _, f := range allFeatures {
			result[f.Name] = false
		}
		return result
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make(map[string]struct{}, len(allFeatures))
	for _, f := range allFeatures {
		names[f.Name] = struct{}{}
	}
	if m.cfg != nil {
		for name := range m.cfg.Features.Flags {
			names[name] = struct{}{}
		}
	}
	if m.store != nil {
		stored, err := m.store.All(context.Background())
		if err != nil {
			m.logger.Debug("failed to list flag store", "err", err)
		}
		for name := range stored {
			names[name] = struct{}{}
		}
	}
	for name := range m.overrides {
		names[name] = struct{}{}
	}

	result := make(map[string]bool, len(names))
	for name := range names {
		result[name] = m.isEnabledLocked(name)
	}
	return result
}

// Names returns the names from List in sorted order.
func (m *Manager) Names() []string {
	list := m.List()
	names := make([]string, 0, len(list))
	for name := range list {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetEnabled persists a feature flag value. With a flag store attached the value
// goes there; otherwise it is written to the config file.
func (m *Manager) SetEnabled(name string, enabled bool) error {
	if m == nil {
		return ErrNotInitialized
	}

	if err := m.setEnabled(name, enabled); err != nil {
		return err
	}

	m.notifyObservers(name)
	return nil
}

func (m *Manager) setEnabled(name string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Set(context.Background(), name, enabled); err != nil {
			return err
		}
		if m.stored == nil {
			m.stored = make(map[string]bool)
		}
		m.stored[name] = enabled
		return nil
	}

	// SaveFlag re-reads the file so changes made since startup survive.
	flags, err := config.SaveFlag(name, enabled)
	if err != nil {
		return err
	}
	m.setConfigFlagsLocked(flags)
	return nil
}

// Unset removes a persisted flag value so the flag falls back to config, or
// to its default. With a flag store attached the value is deleted there;
// otherwise it is removed from the config file. CLI overrides are untouched.
func (m *Manager) Unset(name string) error {
	if m == nil {
		return ErrNotInitialized
	}

	if err := m.unset(name); err != nil {
		return err
	}

	m.notifyObservers(name)
	return nil
}

func (m *Manager) unset(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Delete(context.Background(), name); err != nil {
			return err
		}
		delete(m.stored, name)
		return nil
	}

	flags, err := config.DeleteFlag(name)
	if err != nil {
		return err
	}
	m.setConfigFlagsLocked(flags)
	return nil
}

// setConfigFlagsLocked swaps in the flags just written to the config file.
func (m *Manager) setConfigFlagsLocked(flags map[string]bool) {
	if m.cfg == nil {
		m.cfg = config.Default()
	}
	m.cfg.Features.Flags = flags
}

// RefreshStore re-reads the flag store and notifies observers of every flag
// whose stored value changed since the last read, such as writes made by
// another process.
func (m *Manager) RefreshStore() {
	if m == nil || m.store == nil {
		return
	}

	m.mu.Lock()
	current, err := m.store.All(context.Background())
	if err != nil {
		m.mu.Unlock()
		m.logger.Warn("failed to refresh flag store", "err", err)
		return
	}
	previous := m.stored
	m.stored = current
	m.mu.Unlock()

	changed := diffFlags(previous, current)
	if len(changed) > 0 {
		m.logger.Debug("flag store changed", "changed", changed)
		m.notifyObservers(changed...)
	}
}

// Reload swaps in a freshly loaded config and notifies observers of every flag
// whose config value differs.
func (m *Manager) Reload(cfg *config.Config) {
	if m == nil || cfg == nil {
		return
	}

	m.mu.Lock()
	var previous map[string]bool
	if m.cfg != nil {
		previous = m.cfg.Features.Flags
	}
	m.cfg = cfg
	m.mu.Unlock()

	changed := diffFlags(previous, cfg.Features.Flags)
	if len(changed) > 0 {
		m.logger.Debug("feature flags reloaded", "changed", changed)
		m.notifyObservers(changed...)
	}
}

func diffFlags(before, after map[string]bool) []string {
	var changed []string
	for name, v := range after {
		if old, ok := before[name]; !ok || old != v {
			changed = append(changed, name)
		}
	}
	for name := range before {
		if _, ok := after[name]; !ok {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}

// RegisterChangeObserver registers o for the given flags, or every flag when
// none are given.
func (m *Manager) RegisterChangeObserver(o ChangeObserver, names ...string) {
	if m == nil || o == nil {
		return
	}
	m.observersMu.Lock()
	defer m.observersMu.Unlock()
	m.observers = append(m.observers, observer{o: o, names: names})
}

// notifyObservers informs all observers of the flags that have changed.
// Must be called without m.mu held.
func (m *Manager) notifyObservers(names ...string) {
	m.observersMu.RLock()
	defer m.observersMu.RUnlock()

	for _, obs := range m.observers {
		changed := intersection(obs.names, names)
		if len(changed) > 0 {
			obs.o.FlagsChanged(changed...)
		}
	}
}

func intersection(observed, changed []string) []string {
	if len(observed) == 0 {
		return changed
	}
	var out []string
	for _, c := range changed {
		for _, o := range observed {
			if c == o {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
