// Package notifier tells open screens that records changed.
package notifier

import (
	"slices"
	"sync"
)

// Change names the screens whose records changed. A change without screens
// affects every screen, e.g. after the seed file was reloaded.
type Change struct {
	Screens []string
}

// All reports whether the change affects every screen.
func (c Change) All() bool {
	return len(c.Screens) == 0
}

// Affects reports whether a screen must reload.
func (c Change) Affects(screen string) bool {
	return c.All() || slices.Contains(c.Screens, screen)
}

// merge folds a change that was not yet delivered into c.
func (c Change) merge(pending Change) Change {
	if c.All() || pending.All() {
		return Change{}
	}
	out := slices.Clone(pending.Screens)
	for _, s := range c.Screens {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return Change{Screens: out}
}

// Notifier fans changes out to subscribed listeners. Each listener holds at
// most one pending change; a later change is merged into it, so a slow
// listener reloads once for everything it missed.
type Notifier struct {
	mu        sync.Mutex
	listeners map[chan Change]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Change]struct{}),
	}
}

// Subscribe returns a channel that receives changes.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier) Subscribe() chan Change {
	ch := make(chan Change, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Change) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast announces a change of the given screens, or of every screen when
// none are given. It never blocks.
func (n *Notifier) Broadcast(screens ...string) {
	c := Change{Screens: slices.Clone(screens)}

	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.listeners {
		select {
		case ch <- c:
			continue
		default:
		}
		// Only broadcasters send, and they hold the lock, so after taking the
		// pending change out the buffer has room.
		merged := c
		select {
		case pending := <-ch:
			merged = c.merge(pending)
		default:
		}
		ch <- merged
	}
}
