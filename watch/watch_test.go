package watch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docker/go-events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	tags []string
	str  string
}

func tagFilter(t string) events.Matcher {
	return events.MatcherFunc(func(event events.Event) bool {
		testEvent := event.(testEvent)
		for _, itemTag := range testEvent.tags {
			if t == itemTag {
				return true
			}
		}
		return false
	})
}

func TestWatch(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	c1, c1cancel := q.CallbackWatch(tagFilter("t1"))
	defer c1cancel()
	c2, c2cancel := q.CallbackWatch(tagFilter("t2"))
	defer c2cancel()

	q.Publish(testEvent{tags: []string{"t1"}, str: "foo"})
	q.Publish(testEvent{tags: []string{"t2"}, str: "bar"})
	q.Publish(testEvent{tags: []string{"t1", "t2"}, str: "foobar"})
	q.Publish(testEvent{tags: []string{"t3"}, str: "baz"})

	assert.Equal(t, "foo", (<-c1).(testEvent).str)
	assert.Equal(t, "foobar", (<-c1).(testEvent).str)
	assert.Equal(t, "bar", (<-c2).(testEvent).str)
	assert.Equal(t, "foobar", (<-c2).(testEvent).str)

	c1cancel()

	select {
	case _, ok := <-c1:
		if ok {
			t.Fatal("unexpected value on c1")
		}
	default:
		// operation does not proceed after cancel
	}

	q.Publish(testEvent{tags: []string{"t1", "t2"}, str: "foobar"})
	assert.Equal(t, "foobar", (<-c2).(testEvent).str)
}

func TestUnboundedWatcherKeepsOrder(t *testing.T) {
	q := NewQueue()
	defer q.Close()

	c, cancel := q.Watch()
	defer cancel()

	// Nothing reads from c while publishing; Publish must not block.
	for i := 0; i < 1000; i++ {
		q.Publish(i)
	}
	for i := 0; i < 1000; i++ {
		require.Equal(t, i, <-c)
	}
}

func TestLimitDropsWithoutBlocking(t *testing.T) {
	var dropped int64
	q := NewQueue(WithLimit(2), WithDropHandler(func(events.Event) {
		atomic.AddInt64(&dropped, 1)
	}))
	defer q.Close()

	slow, cancelSlow := q.Watch()
	defer cancelSlow()
	fast, cancelFast := q.Watch()
	defer cancelFast()

	done := make(chan struct{})
	received := make([]int, 0, 10)
	go func() {
		defer close(done)
		for len(received) < 10 {
			received = append(received, (<-fast).(int))
		}
	}()

	for i := 0; i < 10; i++ {
		q.Publish(i)
		// let the fast reader keep up so only the slow watcher overflows
		time.Sleep(time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("fast watcher did not receive all events")
	}
	assert.Len(t, received, 10)

	assert.Equal(t, 0, (<-slow).(int))
	assert.Equal(t, 1, (<-slow).(int))
	assert.EqualValues(t, 8, atomic.LoadInt64(&dropped))
}

func TestCloseOutChan(t *testing.T) {
	q := NewQueue(WithCloseOutChan())

	c, cancel := q.Watch()
	q.Publish("a")
	assert.Equal(t, "a", <-c)

	cancel()
	select {
	case _, ok := <-c:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel was not closed after cancel")
	}

	c2, _ := q.Watch()
	require.NoError(t, q.Close())
	select {
	case _, ok := <-c2:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel was not closed after queue close")
	}
}

func TestWatchContext(t *testing.T) {
	q := NewQueue(WithCloseOutChan())
	defer q.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := q.WatchContext(ctx)
	q.Publish("x")
	assert.Equal(t, "x", <-c)

	cancel()
	select {
	case _, ok := <-c:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel was not closed after context cancel")
	}
}

func BenchmarkPublish100(b *testing.B) {
	benchmarkWatch(b, 100, 1, false)
}

func BenchmarkPublish1000Listeners4Publishers(b *testing.B) {
	benchmarkWatch(b, 1000, 4, false)
}

func BenchmarkWatch100(b *testing.B) {
	benchmarkWatch(b, 100, 1, true)
}

func BenchmarkWatch1000Listeners64Publishers(b *testing.B) {
	benchmarkWatch(b, 1000, 64, true)
}

func benchmarkWatch(b *testing.B, nlisteners, npublishers int, waitForWatchers bool) {
	q := NewQueue()
	defer q.Close()
	var (
		watchersAttached  sync.WaitGroup
		watchersRunning   sync.WaitGroup
		publishersRunning sync.WaitGroup
	)

	for i := 0; i < nlisteners; i++ {
		watchersAttached.Add(1)
		watchersRunning.Add(1)
		go func(n int) {
			w, cancel := q.Watch()
			defer cancel()
			watchersAttached.Done()

			for i := 0; i != n; i++ {
				<-w
			}
			if waitForWatchers {
				watchersRunning.Done()
			}
		}(b.N / npublishers * npublishers)
	}

	watchersAttached.Wait()

	b.ResetTimer()

	for i := 0; i < npublishers; i++ {
		publishersRunning.Add(1)
		go func(n int) {
			for i := 0; i < n; i++ {
				q.Publish("myevent")
			}
			publishersRunning.Done()
		}(b.N / npublishers)
	}

	publishersRunning.Wait()

	if waitForWatchers {
		watchersRunning.Wait()
	}
}
