package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/marquee/internal/carousel"
)

// styleSubscription forwards store changes into the Bubble Tea loop. Only the
// latest undelivered style is kept; older ones are dropped.
type styleSubscription struct {
	ch          chan carousel.Style
	done        chan struct{}
	once        sync.Once
	unsubscribe func()
}

func subscribeStyles(store carousel.Observable) *styleSubscription {
	s := &styleSubscription{
		ch:   make(chan carousel.Style, 1),
		done: make(chan struct{}),
	}
	s.unsubscribe = store.Subscribe(s.push)
	return s
}

func (s *styleSubscription) push(style carousel.Style) {
	for {
		select {
		case s.ch <- style:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// wait returns a command that blocks until the next style arrives.
func (s *styleSubscription) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case style := <-s.ch:
			return StyleChangedMsg{Style: style}
		case <-s.done:
			return nil
		}
	}
}

// close unsubscribes from the store and releases a pending wait.
func (s *styleSubscription) close() {
	s.once.Do(func() {
		s.unsubscribe()
		close(s.done)
	})
}
