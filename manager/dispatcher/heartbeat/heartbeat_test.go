package heartbeat

import (
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
)

func TestHeartbeatBeat(t *testing.T) {
	clk := fakeclock.NewFakeClock(time.Now())
	ch := make(chan struct{})
	hb := New(clk, 200*time.Millisecond, func() {
		close(ch)
	})
	for i := 0; i < 4; i++ {
		clk.Increment(100 * time.Millisecond)
		hb.Beat()
	}
	hb.Stop()
	clk.Increment(time.Second)
	select {
	case <-ch:
		t.Fatalf("Heartbeat was expired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHeartbeatTimeout(t *testing.T) {
	clk := fakeclock.NewFakeClock(time.Now())
	ch := make(chan struct{})
	hb := New(clk, 100*time.Millisecond, func() {
		close(ch)
	})
	defer hb.Stop()
	clk.WaitForWatcherAndIncrement(100 * time.Millisecond)
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timeoutFunc wasn't called in timely fashion")
	}
}

func TestHeartbeatReactivate(t *testing.T) {
	clk := fakeclock.NewFakeClock(time.Now())
	ch := make(chan struct{}, 2)
	hb := New(clk, 100*time.Millisecond, func() {
		ch <- struct{}{}
	})
	defer hb.Stop()
	clk.WaitForWatcherAndIncrement(200 * time.Millisecond)
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timeoutFunc wasn't called in timely fashion")
	}
	hb.Beat()
	clk.Increment(200 * time.Millisecond)
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timeoutFunc wasn't called after reactivation")
	}
}

func TestHeartbeatUpdate(t *testing.T) {
	clk := fakeclock.NewFakeClock(time.Now())
	ch := make(chan struct{})
	hb := New(clk, 1*time.Second, func() {
		close(ch)
	})
	defer hb.Stop()
	hb.Update(100 * time.Millisecond)
	hb.Beat()
	clk.WaitForWatcherAndIncrement(200 * time.Millisecond)
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timeoutFunc wasn't called in timely fashion")
	}
}
