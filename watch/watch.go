package watch

import (
	"context"
	"sync"

	"github.com/docker/go-events"
)

// Queue is the structure used to publish events and watch for them.
//
// By default every watcher gets an unbounded, ordered buffer, so a slow
// watcher never blocks Publish and never misses an event. A queue created
// WithLimit instead gives each watcher a bounded buffer and drops events that
// do not fit.
type Queue struct {
	// limit is the max number of items held in memory for a watcher. Zero
	// means unbounded.
	limit int
	// dropped is invoked for each event discarded by a full watcher.
	dropped func(events.Event)
	// closeOutChan makes watcher channels close when they are cancelled.
	closeOutChan bool

	mu          sync.Mutex
	broadcast   *events.Broadcaster
	cancelFuncs map[events.Sink]func()
}

// NewQueue creates a new publish/subscribe queue which supports watchers.
func NewQueue(options ...func(*Queue) error) *Queue {
	q := &Queue{
		broadcast:   events.NewBroadcaster(),
		cancelFuncs: make(map[events.Sink]func()),
	}

	for _, option := range options {
		if err := option(q); err != nil {
			panic("failed to apply options to queue: " + err.Error())
		}
	}

	return q
}

// WithLimit returns a functional option for a queue that bounds each
// watcher's buffer to limit events. Events written to a full watcher are
// dropped.
func WithLimit(limit int) func(*Queue) error {
	return func(q *Queue) error {
		q.limit = limit
		return nil
	}
}

// WithDropHandler returns a functional option that registers fn to be called
// with every event a bounded watcher had to drop.
func WithDropHandler(fn func(events.Event)) func(*Queue) error {
	return func(q *Queue) error {
		q.dropped = fn
		return nil
	}
}

// WithCloseOutChan returns a functional option for a queue whose watcher
// channels are closed when the watch is cancelled or the queue is closed.
func WithCloseOutChan() func(*Queue) error {
	return func(q *Queue) error {
		q.closeOutChan = true
		return nil
	}
}

// Watch returns a channel which will receive all items published to the
// queue from this point, until cancel is called.
func (q *Queue) Watch() (eventq chan events.Event, cancel func()) {
	return q.CallbackWatch(nil)
}

// WatchContext returns a channel where all items published to the queue will
// be received. The watch is cancelled when the provided context is done.
func (q *Queue) WatchContext(ctx context.Context) (eventq chan events.Event) {
	return q.CallbackWatchContext(ctx, nil)
}

// CallbackWatch returns a channel which will receive all events published to
// the queue from this point that pass the check in the provided callback
// function. The returned cancel function will stop the flow of events.
func (q *Queue) CallbackWatch(matcher events.Matcher) (eventq chan events.Event, cancel func()) {
	ch := events.NewChannel(q.limit)

	var sink events.Sink
	if q.limit > 0 {
		sink = &dropSink{dst: ch, dropped: q.dropped}
	} else {
		sink = events.NewQueue(ch)
	}
	if matcher != nil {
		sink = events.NewFilter(sink, matcher)
	}

	q.broadcast.Add(sink)

	cancelFunc := func() {
		q.broadcast.Remove(sink)
		ch.Close()
		sink.Close()
	}

	externalCancelFunc := func() {
		q.mu.Lock()
		cancelFunc := q.cancelFuncs[sink]
		delete(q.cancelFuncs, sink)
		q.mu.Unlock()

		if cancelFunc != nil {
			cancelFunc()
		}
	}

	q.mu.Lock()
	q.cancelFuncs[sink] = cancelFunc
	q.mu.Unlock()

	if !q.closeOutChan {
		return ch.C, externalCancelFunc
	}

	outChan := make(chan events.Event)
	go func() {
		defer close(outChan)
		for {
			select {
			case <-ch.Done():
				return
			case event := <-ch.C:
				select {
				case outChan <- event:
				case <-ch.Done():
					return
				}
			}
		}
	}()

	return outChan, externalCancelFunc
}

// CallbackWatchContext returns a channel where all items published to the
// queue will be received, filtered by matcher. The watch is cancelled when
// the provided context is done.
func (q *Queue) CallbackWatchContext(ctx context.Context, matcher events.Matcher) (eventq chan events.Event) {
	c, cancel := q.CallbackWatch(matcher)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return c
}

// Publish adds an item to the queue.
func (q *Queue) Publish(item events.Event) {
	q.broadcast.Write(item)
}

// Close closes the queue and frees the associated resources.
func (q *Queue) Close() error {
	// Make sure all watchers have been closed to avoid a deadlock when
	// closing the broadcaster.
	q.mu.Lock()
	for _, cancelFunc := range q.cancelFuncs {
		cancelFunc()
	}
	q.cancelFuncs = make(map[events.Sink]func())
	q.mu.Unlock()

	return q.broadcast.Close()
}
