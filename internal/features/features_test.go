package features

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wilbur182/marquee/internal/config"
)

// setupTestConfig sets up a temp config path for tests that write to config.
func setupTestConfig(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	config.SetTestConfigPath(filepath.Join(tmpDir, "config.json"))
	t.Cleanup(config.ResetTestConfigPath)
}

// memStore is an in-memory FlagStore.
type memStore struct {
	mu    sync.Mutex
	flags map[string]bool
	err   error
}

func newMemStore() *memStore {
	return &memStore{flags: make(map[string]bool)}
}

func (s *memStore) Get(_ context.Context, name string) (bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, false, s.err
	}
	v, ok := s.flags[name]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.flags[name] = enabled
	return nil
}

func (s *memStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.flags, name)
	return nil
}

func (s *memStore) All(context.Context) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.flags))
	for k, v := range s.flags {
		out[k] = v
	}
	return out, s.err
}

func TestIsEnabled_DefaultValue(t *testing.T) {
	m := NewManager(config.Default())

	if m.IsEnabled(StyleSwitcher.Name) != StyleSwitcher.Default {
		t.Errorf("expected default value %v for %s", StyleSwitcher.Default, StyleSwitcher.Name)
	}
	if m.IsEnabled(CarouselAutoplay.Name) != CarouselAutoplay.Default {
		t.Errorf("expected default value %v for %s", CarouselAutoplay.Default, CarouselAutoplay.Name)
	}
}

func TestIsEnabled_UnknownFeature(t *testing.T) {
	m := NewManager(config.Default())
	if m.IsEnabled("unknown_feature") {
		t.Error("unknown features should default to false")
	}
}

func TestIsEnabled_NilManager(t *testing.T) {
	var m *Manager
	if m.IsEnabled(StyleSwitcher.Name) {
		t.Error("a nil manager is an absent provider and should report false")
	}
}

func TestIsEnabled_ConfigOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Features.Flags["carousel_autoplay"] = true

	m := NewManager(cfg)
	if !m.IsEnabled("carousel_autoplay") {
		t.Error("config override should enable feature")
	}
}

func TestIsEnabled_CLIOverrideTakesPrecedence(t *testing.T) {
	cfg := config.Default()
	cfg.Features.Flags["carousel_autoplay"] = false

	store := newMemStore()
	store.flags["carousel_autoplay"] = false

	m := NewManager(cfg, WithStore(store))
	m.SetOverride("carousel_autoplay", true)

	if !m.IsEnabled("carousel_autoplay") {
		t.Error("CLI override should take precedence over store and config")
	}
}

func TestIsEnabled_StoreBeatsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Features.Flags["new-checkout"] = false

	store := newMemStore()
	store.flags["new-checkout"] = true

	m := NewManager(cfg, WithStore(store))
	if !m.IsEnabled("new-checkout") {
		t.Error("stored value should take precedence over config")
	}
}

func TestIsEnabled_StoreErrorFallsThrough(t *testing.T) {
	cfg := config.Default()
	cfg.Features.Flags["new-checkout"] = true

	store := newMemStore()
	store.err = errors.New("disk on fire")

	m := NewManager(cfg, WithStore(store))
	if !m.IsEnabled("new-checkout") {
		t.Error("store errors should fall through to config")
	}
}

func TestList(t *testing.T) {
	cfg := config.Default()
	cfg.Features.Flags["new-checkout"] = true
	m := NewManager(cfg)

	list := m.List()
	if len(list) < len(allFeatures)+1 {
		t.Errorf("List should include known and configured flags, got %v", list)
	}
	if _, ok := list[StyleSwitcher.Name]; !ok {
		t.Errorf("expected %s in list", StyleSwitcher.Name)
	}
	if !list["new-checkout"] {
		t.Error("expected configured flag new-checkout to be enabled in list")
	}

	names := m.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Names should be sorted, got %v", names)
		}
	}
}

func TestList_NilManager(t *testing.T) {
	var m *Manager
	for name, enabled := range m.List() {
		if enabled {
			t.Errorf("nil manager should list %s as disabled", name)
		}
	}
}

func TestListAll(t *testing.T) {
	all := ListAll()
	if len(all) == 0 {
		t.Error("ListAll should return at least one feature")
	}

	for _, f := range all {
		if f.Description == "" {
			t.Errorf("feature %s should have description", f.Name)
		}
	}
}

func TestListAllReturnsCopy(t *testing.T) {
	original := ListAll()
	original[0].Name = "modified"

	fresh := ListAll()
	if fresh[0].Name == "modified" {
		t.Error("ListAll should return a copy, not the original slice")
	}
}

func TestIsKnownFeature(t *testing.T) {
	if !IsKnownFeature("style_switcher") {
		t.Error("style_switcher should be a known feature")
	}
	if IsKnownFeature("unknown_feature") {
		t.Error("unknown_feature should not be a known feature")
	}
}

func TestSetOverride_NilManager(t *testing.T) {
	var m *Manager
	// Should not panic
	m.SetOverride("test", true)
}

func TestSetEnabled_NilManager(t *testing.T) {
	var m *Manager
	err := m.SetEnabled("test", true)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestSetEnabled_UpdatesConfig(t *testing.T) {
	setupTestConfig(t)

	cfg := config.Default()
	m := NewManager(cfg)

	if err := m.SetEnabled("carousel_autoplay", true); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}

	if !cfg.Features.Flags["carousel_autoplay"] {
		t.Error("SetEnabled should update in-memory config")
	}

	saved, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !saved.Features.Flags["carousel_autoplay"] {
		t.Error("SetEnabled should persist to the config file")
	}
}

func TestSetEnabled_InitializesNilFlagsMap(t *testing.T) {
	setupTestConfig(t)

	cfg := config.Default()
	cfg.Features.Flags = nil // Force nil map
	m := NewManager(cfg)

	_ = m.SetEnabled("carousel_autoplay", true)

	if cfg.Features.Flags == nil {
		t.Error("SetEnabled should initialize nil Flags map")
	}
}

func TestSetEnabled_WritesStore(t *testing.T) {
	store := newMemStore()
	m := NewManager(config.Default(), WithStore(store))

	if err := m.SetEnabled("new-checkout", true); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if !store.flags["new-checkout"] {
		t.Error("SetEnabled should write to the attached store")
	}
	if !m.IsEnabled("new-checkout") {
		t.Error("stored flag should read back enabled")
	}
}

func TestUnset_Store(t *testing.T) {
	cfg := config.Default()
	cfg.Features.Flags["new-checkout"] = false
	store := newMemStore()
	m := NewManager(cfg, WithStore(store))

	var changed []string
	m.RegisterChangeObserver(ObserverFunc(func(names ...string) {
		changed = append(changed, names...)
	}))

	if err := m.SetEnabled("new-checkout", true); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if err := m.Unset("new-checkout"); err != nil {
		t.Fatalf("Unset: %v", err)
	}

	if _, ok := store.flags["new-checkout"]; ok {
		t.Error("Unset should delete the stored value")
	}
	if m.IsEnabled("new-checkout") {
		t.Error("unset flag should fall back to config")
	}
	if len(changed) != 2 {
		t.Errorf("expected a notification per write, got %v", changed)
	}
}

func TestUnset_ConfigFile(t *testing.T) {
	setupTestConfig(t)

	cfg := config.Default()
	m := NewManager(cfg)

	if err := m.SetEnabled("carousel_autoplay", true); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if err := m.Unset("carousel_autoplay"); err != nil {
		t.Fatalf("Unset: %v", err)
	}

	if m.IsEnabled("carousel_autoplay") != CarouselAutoplay.Default {
		t.Error("unset flag should fall back to its default")
	}
	saved, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := saved.Features.Flags["carousel_autoplay"]; ok {
		t.Error("Unset should remove the flag from the config file")
	}
}

func TestUnset_NilManager(t *testing.T) {
	var m *Manager
	if err := m.Unset("test"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRefreshStore_NotifiesExternalWrites(t *testing.T) {
	store := newMemStore()
	store.flags["style_switcher"] = true
	m := NewManager(config.Default(), WithStore(store))

	var changed []string
	m.RegisterChangeObserver(ObserverFunc(func(names ...string) {
		changed = append(changed, names...)
	}))

	// Our own writes are already known and are not reported again.
	if err := m.SetEnabled("new-checkout", true); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	changed = nil
	m.RefreshStore()
	if len(changed) != 0 {
		t.Errorf("refresh after own write should be quiet, got %v", changed)
	}

	// Another process flips a flag and adds one.
	store.mu.Lock()
	store.flags["style_switcher"] = false
	store.flags["carousel_autoplay"] = true
	store.mu.Unlock()

	m.RefreshStore()
	want := []string{"carousel_autoplay", "style_switcher"}
	if len(changed) != len(want) || changed[0] != want[0] || changed[1] != want[1] {
		t.Errorf("expected %v, got %v", want, changed)
	}
	if m.IsEnabled("style_switcher") {
		t.Error("external write should be visible")
	}
}

func TestRefreshStore_ErrorKeepsSnapshot(t *testing.T) {
	store := newMemStore()
	store.flags["new-checkout"] = true
	m := NewManager(config.Default(), WithStore(store))

	var changed []string
	m.RegisterChangeObserver(ObserverFunc(func(names ...string) {
		changed = append(changed, names...)
	}))

	store.err = errors.New("locked")
	m.RefreshStore()
	store.err = nil
	m.RefreshStore()

	if len(changed) != 0 {
		t.Errorf("a failed read should not report changes, got %v", changed)
	}
}

func TestObservers(t *testing.T) {
	m := NewManager(config.Default())

	var all, autoplayOnly []string
	m.RegisterChangeObserver(ObserverFunc(func(names ...string) {
		all = append(all, names...)
	}))
	m.RegisterChangeObserver(ObserverFunc(func(names ...string) {
		autoplayOnly = append(autoplayOnly, names...)
	}), CarouselAutoplay.Name)

	m.SetOverride("style_switcher", false)
	m.SetOverride("carousel_autoplay", true)

	if len(all) != 2 {
		t.Errorf("catch-all observer should see both changes, got %v", all)
	}
	if len(autoplayOnly) != 1 || autoplayOnly[0] != "carousel_autoplay" {
		t.Errorf("filtered observer should only see carousel_autoplay, got %v", autoplayOnly)
	}
}

func TestReload_NotifiesChangedFlags(t *testing.T) {
	before := config.Default()
	before.Features.Flags["a"] = true
	before.Features.Flags["b"] = true
	m := NewManager(before)

	var changed []string
	m.RegisterChangeObserver(ObserverFunc(func(names ...string) {
		changed = append(changed, names...)
	}))

	after := config.Default()
	after.Features.Flags["a"] = true
	after.Features.Flags["c"] = false
	m.Reload(after)

	want := []string{"b", "c"}
	if len(changed) != len(want) || changed[0] != want[0] || changed[1] != want[1] {
		t.Errorf("expected %v, got %v", want, changed)
	}
	if m.IsEnabled("b") {
		t.Error("reloaded config should drop flag b")
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := NewManager(config.Default(), WithStore(newMemStore()))

	var wg sync.WaitGroup
	const goroutines = 50

	// Concurrent reads and writes
	for i := 0; i < goroutines; i++ {
		wg.Add(4)
		go func() {
			defer wg.Done()
			_ = m.IsEnabled("carousel_autoplay")
		}()
		go func() {
			defer wg.Done()
			m.SetOverride("carousel_autoplay", true)
		}()
		go func() {
			defer wg.Done()
			_ = m.List()
		}()
		go func(val bool) {
			defer wg.Done()
			_ = m.SetEnabled("style_switcher", val)
		}(i%2 == 0)
	}
	wg.Wait()
}
