package insights

import (
	"sync"
	"time"
)

// RotationInterval is how long each slide stays on screen.
const RotationInterval = 4 * time.Second

// Rotator advances a slide index on a fixed interval, wrapping around. It
// owns exactly one timer: manual selection resets it instead of spawning a
// second one, and changing the slide count restarts the cycle. Advances are
// published on Changes; a slow consumer only ever misses intermediate
// positions, never the latest one.
type Rotator struct {
	interval time.Duration
	changes  chan int

	mu     sync.Mutex
	index  int
	count  int
	ticker *time.Ticker
	stop   chan struct{}
}

// NewRotator creates a stopped rotator. A non-positive interval falls back
// to RotationInterval.
func NewRotator(interval time.Duration) *Rotator {
	if interval <= 0 {
		interval = RotationInterval
	}
	return &Rotator{
		interval: interval,
		changes:  make(chan int, 1),
	}
}

// Start begins rotating over count slides. Any previous cycle is stopped
// first, so calling Start again after the slide set changes size restarts
// the rotation cleanly. With one slide or none there is nothing to rotate
// and no timer runs.
func (r *Rotator) Start(count int) {
	r.Stop()

	r.mu.Lock()
	r.count = count
	if r.index >= count {
		r.index = 0
	}
	if count <= 1 {
		r.mu.Unlock()
		return
	}
	r.ticker = time.NewTicker(r.interval)
	r.stop = make(chan struct{})
	ticker, stop := r.ticker, r.stop
	r.mu.Unlock()

	go r.loop(ticker, stop)
}

// Stop tears the timer down. Safe to call repeatedly and on a rotator that
// never started.
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

// Select jumps to the given slide, wrapping out-of-range values, and resets
// the running timer so the selection gets a full interval on screen.
func (r *Rotator) Select(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count > 0 {
		r.index = ((i % r.count) + r.count) % r.count
	}
	if r.ticker != nil {
		r.ticker.Reset(r.interval)
	}
}

// Index returns the current slide position.
func (r *Rotator) Index() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index
}

// Changes delivers the index after each automatic advance.
func (r *Rotator) Changes() <-chan int {
	return r.changes
}

func (r *Rotator) loop(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-ticker.C:
			r.publish(r.advance())
		case <-stop:
			return
		}
	}
}

func (r *Rotator) advance() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count > 0 {
		r.index = (r.index + 1) % r.count
	}
	return r.index
}

func (r *Rotator) publish(idx int) {
	for {
		select {
		case r.changes <- idx:
			return
		default:
			// Drop the stale position so the latest one fits.
			select {
			case <-r.changes:
			default:
			}
		}
	}
}
