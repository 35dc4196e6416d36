package carousel

import (
	"sync"
	"sync/atomic"
)

// Observable is the read/write/subscribe surface of a style holder. Components
// that only need to follow or change the style should accept this rather than *Store.
type Observable interface {
	Current() Style
	Set(style Style)
	Update(fn func(Style) Style)
	Subscribe(fn func(Style)) (unsubscribe func())
}

var _ Observable = (*Store)(nil)

type subscription struct {
	fn     func(Style)
	active atomic.Bool
	since  uint64 // last change already delivered by Subscribe
}

type change struct {
	style Style
	seq   uint64
}

// Store holds the current carousel style and pushes every change to its
// subscribers, in the order they subscribed. It is safe for concurrent use.
//
// A Set issued while a notification pass is running, from a subscriber callback
// or from another goroutine, is queued: the value changes immediately, but its
// notification pass runs after the pass in progress has reached every
// subscriber. Subscribers therefore see values in Set order.
//
// A subscriber that panics aborts the pass in progress and the panic reaches
// the caller of Set. Changes queued behind that pass are dropped; the store
// stays usable and the next Set notifies everyone again.
type Store struct {
	mu         sync.Mutex
	value      Style
	seq        uint64
	subs       []*subscription
	pending    []change
	delivering bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithInitialStyle seeds the store with a style other than DefaultStyle.
func WithInitialStyle(style Style) StoreOption {
	return func(s *Store) {
		s.value = style
	}
}

// NewStore creates a store holding DefaultStyle unless an option says otherwise.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{value: DefaultStyle}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the current style.
func (s *Store) Current() Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the current style and notifies all subscribers before returning,
// unless a notification pass is already running (see Store).
func (s *Store) Set(style Style) {
	s.mu.Lock()
	if s.commitLocked(style) {
		s.deliver()
	}
}

// Update sets the style to fn applied to the current style. fn runs under the
// store's lock, so concurrent Updates never lose a write; it must not call back
// into the store.
func (s *Store) Update(fn func(Style) Style) {
	s.mu.Lock()
	if s.commitLocked(s.applyLocked(fn)) {
		s.deliver()
	}
}

// applyLocked returns fn(s.value). If fn panics the lock is released first.
func (s *Store) applyLocked(fn func(Style) Style) Style {
	ok := false
	defer func() {
		if !ok {
			s.mu.Unlock()
		}
	}()
	style := fn(s.value)
	ok = true
	return style
}

// commitLocked records style and queues its notification. It is called with
// s.mu held. It returns true, still holding the lock, when the caller must run
// the notification pass; otherwise it releases the lock.
func (s *Store) commitLocked(style Style) bool {
	s.value = style
	s.seq++
	s.pending = append(s.pending, change{style: style, seq: s.seq})
	if s.delivering {
		s.mu.Unlock()
		return false
	}
	s.delivering = true
	return true
}

// deliver drains the pending queue. It is called with s.mu held and returns
// with it released.
func (s *Store) deliver() {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.pending = nil
			s.delivering = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		subs := make([]*subscription, len(s.subs))
		copy(subs, s.subs)

		// Callbacks run outside the lock so they may call back into the store.
		s.mu.Unlock()
		for _, sub := range subs {
			if sub.active.Load() && next.seq > sub.since {
				sub.fn(next.style)
			}
		}
		s.mu.Lock()
	}

	s.pending = nil
	s.delivering = false
	s.mu.Unlock()
}

// Subscribe registers fn and calls it right away with the current style. Changes
// queued before the subscription are not replayed to it. The returned function
// removes the subscription; calling it more than once is harmless.
func (s *Store) Subscribe(fn func(Style)) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	sub.since = s.seq
	s.subs = append(s.subs, sub)
	current := s.value
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			s.remove(sub)
		})
	}
}

func (s *Store) remove(target *subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subs {
		if sub == target {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of live subscriptions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
