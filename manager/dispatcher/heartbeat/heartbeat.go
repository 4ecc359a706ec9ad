package heartbeat

import (
	"sync"
	"sync/atomic"
	"time"

	"code.cloudfoundry.org/clock"
)

// Heartbeat is simple way to track heartbeats.
type Heartbeat struct {
	timeout int64
	timer   clock.Timer

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates new Heartbeat with specified duration. timeoutFunc will be called
// if timeout for heartbeat is expired. Note that in case of timeout you need to
// call Beat() to reactivate Heartbeat.
func New(clk clock.Clock, timeout time.Duration, timeoutFunc func()) *Heartbeat {
	hb := &Heartbeat{
		timeout: int64(timeout),
		timer:   clk.NewTimer(timeout),
		stop:    make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-hb.timer.C():
				timeoutFunc()
			case <-hb.stop:
				return
			}
		}
	}()
	return hb
}

// Beat resets internal timer to zero. It also can be used to reactivate
// Heartbeat after timeout.
func (hb *Heartbeat) Beat() {
	hb.timer.Reset(time.Duration(atomic.LoadInt64(&hb.timeout)))
}

// Update updates internal timeout to d. It does not do Beat.
func (hb *Heartbeat) Update(d time.Duration) {
	atomic.StoreInt64(&hb.timeout, int64(d))
}

// Stop stops Heartbeat timer.
func (hb *Heartbeat) Stop() {
	hb.stopOnce.Do(func() {
		hb.timer.Stop()
		close(hb.stop)
	})
}
