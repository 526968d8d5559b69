package discord

import (
	"sync"
	"time"
)

// restartTimer fires once after the connection has been down for timeout.
// A zero timeout never fires.
type restartTimer struct {
	mu      sync.Mutex
	timeout time.Duration
	timer   *time.Timer
	fire    chan struct{}
}

func newRestartTimer(timeout time.Duration) *restartTimer {
	return &restartTimer{timeout: timeout, fire: make(chan struct{}, 1)}
}

func (t *restartTimer) start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil || t.timeout <= 0 {
		return
	}
	t.timer = time.AfterFunc(t.timeout, func() {
		select {
		case t.fire <- struct{}{}:
		default:
		}
	})
}

func (t *restartTimer) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *restartTimer) fired() <-chan struct{} {
	return t.fire
}
