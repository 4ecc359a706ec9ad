package watch

import (
	"github.com/docker/go-events"
)

// dropSink writes to a buffered channel without ever blocking. Events that do
// not fit in the buffer are handed to dropped and discarded.
type dropSink struct {
	dst     *events.Channel
	dropped func(events.Event)
}

func (s *dropSink) Write(event events.Event) error {
	select {
	case <-s.dst.Done():
		return events.ErrSinkClosed
	default:
	}

	select {
	case s.dst.C <- event:
	default:
		if s.dropped != nil {
			s.dropped(event)
		}
	}
	return nil
}

func (s *dropSink) Close() error {
	return s.dst.Close()
}
