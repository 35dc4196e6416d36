package carousel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	seen []Style
}

func (r *recorder) record(s Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, s)
}

func (r *recorder) values() []Style {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Style, len(r.seen))
	copy(out, r.seen)
	return out
}

func TestStore_InitialValueIsLight(t *testing.T) {
	s := NewStore()
	assert.Equal(t, Light, s.Current())

	var rec recorder
	unsubscribe := s.Subscribe(rec.record)
	defer unsubscribe()

	assert.Equal(t, []Style{Light}, rec.values())
}

func TestStore_WithInitialStyle(t *testing.T) {
	s := NewStore(WithInitialStyle(White))

	var rec recorder
	s.Subscribe(rec.record)

	assert.Equal(t, []Style{White}, rec.values())
}

func TestStore_SubscriberSeesEverySetInOrder(t *testing.T) {
	s := NewStore()

	var rec recorder
	s.Subscribe(rec.record)

	sequence := []Style{Dark, White, White, Light, Dark}
	for _, v := range sequence {
		s.Set(v)
	}

	want := append([]Style{Light}, sequence...)
	assert.Equal(t, want, rec.values())
	assert.Equal(t, Dark, s.Current())
}

func TestStore_NotifiesInSubscriptionOrder(t *testing.T) {
	s := NewStore()

	var order []string
	s.Subscribe(func(Style) { order = append(order, "a") })
	s.Subscribe(func(Style) { order = append(order, "b") })
	s.Subscribe(func(Style) { order = append(order, "c") })
	order = nil

	s.Set(Dark)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

// Scenario: subscribe, set dark, unsubscribe, set white.
func TestStore_UnsubscribeStopsNotifications(t *testing.T) {
	s := NewStore()

	var rec recorder
	unsubscribe := s.Subscribe(rec.record)
	s.Set(Dark)
	unsubscribe()
	s.Set(White)

	assert.Equal(t, []Style{Light, Dark}, rec.values())
	assert.Equal(t, White, s.Current())

	var late recorder
	s.Subscribe(late.record)
	assert.Equal(t, []Style{White}, late.values())
}

func TestStore_UnsubscribeIsIdempotent(t *testing.T) {
	s := NewStore()
	unsubscribe := s.Subscribe(func(Style) {})
	other := s.Subscribe(func(Style) {})
	require.Equal(t, 2, s.Len())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 1, s.Len())

	other()
	assert.Equal(t, 0, s.Len())
}

func TestStore_UpdateMatchesSet(t *testing.T) {
	viaSet := NewStore()
	viaUpdate := NewStore()

	var a, b recorder
	viaSet.Subscribe(a.record)
	viaUpdate.Subscribe(b.record)

	for i := 0; i < 5; i++ {
		viaSet.Set(viaSet.Current().Next())
		viaUpdate.Update(Style.Next)
	}

	assert.Equal(t, a.values(), b.values())
	assert.Equal(t, viaSet.Current(), viaUpdate.Current())
}

func TestStore_ReentrantSetIsQueued(t *testing.T) {
	s := NewStore()

	var first, second recorder
	s.Subscribe(func(v Style) {
		first.record(v)
		if v == Dark {
			s.Set(White)
		}
	})
	s.Subscribe(second.record)

	s.Set(Dark)

	// The second subscriber must see dark before white even though white was
	// set while dark was still being delivered.
	assert.Equal(t, []Style{Light, Dark, White}, first.values())
	assert.Equal(t, []Style{Light, Dark, White}, second.values())
	assert.Equal(t, White, s.Current())
}

func TestStore_UnsubscribeDuringDelivery(t *testing.T) {
	s := NewStore()

	var rec recorder
	var unsubscribeB func()
	s.Subscribe(func(v Style) {
		if v == Dark && unsubscribeB != nil {
			unsubscribeB()
		}
	})
	unsubscribeB = s.Subscribe(rec.record)

	s.Set(Dark)
	s.Set(White)

	assert.Equal(t, []Style{Light}, rec.values())
}

func TestStore_RecoversAfterPanickingSubscriber(t *testing.T) {
	s := NewStore()

	s.Subscribe(func(v Style) {
		if v == Dark {
			panic("boom")
		}
	})
	var rec recorder
	s.Subscribe(rec.record)

	require.PanicsWithValue(t, "boom", func() { s.Set(Dark) })
	assert.Equal(t, Dark, s.Current())

	s.Set(White)
	assert.Equal(t, []Style{Light, White}, rec.values())
	assert.Equal(t, White, s.Current())
}

func TestStore_SubscribeDuringDeliverySkipsOlderChanges(t *testing.T) {
	s := NewStore()

	var late recorder
	s.Subscribe(func(v Style) {
		if v != Dark {
			return
		}
		// Queue two changes, then subscribe while they are still pending.
		s.Set(White)
		s.Set(Light)
		s.Subscribe(late.record)
	})

	s.Set(Dark)

	assert.Equal(t, []Style{Light}, late.values())
	assert.Equal(t, Light, s.Current())

	s.Set(Dark)
	assert.Equal(t, []Style{Light, Dark}, late.values())
}

func TestStore_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	s := NewStore()

	// 301 steps of Next from Light end on Dark only if every step lands.
	const updates = 301
	var wg sync.WaitGroup
	for i := 0; i < updates; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(Style.Next)
		}()
	}
	wg.Wait()

	assert.Equal(t, Dark, s.Current())
}

func TestStore_PanickingUpdateReleasesLock(t *testing.T) {
	s := NewStore()

	require.Panics(t, func() {
		s.Update(func(Style) Style { panic("boom") })
	})

	s.Set(White)
	assert.Equal(t, White, s.Current())
}

func TestStore_IndependentInstances(t *testing.T) {
	a := NewStore()
	b := NewStore()

	a.Set(Dark)
	assert.Equal(t, Dark, a.Current())
	assert.Equal(t, Light, b.Current())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	const goroutines = 50

	for i := 0; i < goroutines; i++ {
		wg.Add(3)
		go func(v Style) {
			defer wg.Done()
			s.Set(v)
		}(Styles()[i%3])
		go func() {
			defer wg.Done()
			unsubscribe := s.Subscribe(func(Style) {})
			unsubscribe()
		}()
		go func() {
			defer wg.Done()
			s.Update(Style.Next)
		}()
	}
	wg.Wait()

	assert.Contains(t, Styles(), s.Current())
	assert.Equal(t, 0, s.Len())
}
