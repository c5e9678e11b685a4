package cli

import (
	"sync"
	"time"
)

// timedResponseTimer polls for a timed response once the announced delay
// has passed. Only the latest schedule is kept.
type timedResponseTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	fire  func()
}

func newTimedResponseTimer(fire func()) *timedResponseTimer {
	return &timedResponseTimer{fire: fire}
}

func (t *timedResponseTimer) Schedule(after time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(after, t.fire)
}

// Cancel drops a pending poll. The user said something, so the timed
// response no longer applies.
func (t *timedResponseTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
