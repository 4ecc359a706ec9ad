package dispatcher

import (
	"math/rand"
	"sync"
	"time"
)

type periodChooser struct {
	period  time.Duration
	epsilon time.Duration

	mu   sync.Mutex
	rand *rand.Rand
}

func newPeriodChooser(period, eps time.Duration) *periodChooser {
	return &periodChooser{
		period:  period,
		epsilon: eps,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Choose returns a heartbeat period within epsilon of the configured one, so
// agents registered together do not beat in lockstep.
func (pc *periodChooser) Choose() time.Duration {
	var adj int64
	if pc.epsilon > 0 {
		pc.mu.Lock()
		adj = pc.rand.Int63n(int64(2*pc.epsilon)) - int64(pc.epsilon)
		pc.mu.Unlock()
	}
	return pc.period + time.Duration(adj)
}
