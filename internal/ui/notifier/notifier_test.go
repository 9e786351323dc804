package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch chan Change) Change {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no change received")
		return Change{}
	}
}

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	require.NotNil(t, ch)

	n.mu.Lock()
	assert.Len(t, n.listeners, 1)
	n.mu.Unlock()

	n.Unsubscribe(ch)

	n.mu.Lock()
	assert.Empty(t, n.listeners)
	n.mu.Unlock()

	_, open := <-ch
	assert.False(t, open, "unsubscribe closes the channel")
}

func TestNotifier_BroadcastReachesEveryListener(t *testing.T) {
	n := New()

	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	n.Broadcast("brands", "residences")

	for _, ch := range []chan Change{ch1, ch2} {
		c := receive(t, ch)
		assert.Equal(t, []string{"brands", "residences"}, c.Screens)
		assert.True(t, c.Affects("residences"))
		assert.False(t, c.Affects("leads"))
	}
}

func TestNotifier_BroadcastWithoutScreensAffectsAll(t *testing.T) {
	n := New()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Broadcast()

	c := receive(t, ch)
	assert.True(t, c.All())
	assert.True(t, c.Affects("leads"))
}

func TestNotifier_PendingChangesMerge(t *testing.T) {
	tests := []struct {
		name    string
		first   []string
		second  []string
		want    []string
		wantAll bool
	}{
		{name: "union", first: []string{"brands"}, second: []string{"leads", "brands"}, want: []string{"brands", "leads"}},
		{name: "all then screen", first: nil, second: []string{"leads"}, wantAll: true},
		{name: "screen then all", first: []string{"leads"}, second: nil, wantAll: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New()
			ch := n.Subscribe()
			defer n.Unsubscribe(ch)

			n.Broadcast(tt.first...)
			n.Broadcast(tt.second...)

			c := receive(t, ch)
			assert.Equal(t, tt.wantAll, c.All())
			if !tt.wantAll {
				assert.ElementsMatch(t, tt.want, c.Screens)
			}
			select {
			case extra := <-ch:
				t.Fatalf("expected one merged change, got another: %+v", extra)
			default:
			}
		})
	}
}

func TestNotifier_Broadcast_NonBlocking(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	done := make(chan struct{})
	go func() {
		for range 5 {
			n.Broadcast("users")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Error("Broadcast blocked on a listener that is not reading")
	}
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	const numGoroutines = 10

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Broadcast("amenities")
			n.Unsubscribe(ch)
		}()
	}

	wg.Wait()

	n.mu.Lock()
	assert.Empty(t, n.listeners)
	n.mu.Unlock()
}
