package playback

import (
	"sync"
	"time"
)

// Driver runs a Session against a wall-clock ticker. Events and ticks are
// serialized by one mutex. The ticker goroutine only exists while the
// session is running.
type Driver struct {
	interval time.Duration

	mu        sync.Mutex
	session   *Session
	stop      chan struct{}
	done      chan struct{}
	closed    bool
	touched   time.Time
	listeners []chan State
}

// NewDriver wraps s. interval is the wall-clock length of one tick.
func NewDriver(s *Session, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = time.Second
	}
	return &Driver{
		interval: interval,
		session:  s,
		touched:  time.Now(),
	}
}

// State returns a snapshot of the session.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Snapshot()
}

// Start begins the countdown and the ticker.
func (d *Driver) Start() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return d.session.Snapshot()
	}
	d.session.Start()
	if d.session.Running() && d.stop == nil {
		d.stop = make(chan struct{})
		d.done = make(chan struct{})
		go d.loop(d.stop, d.done)
	}
	return d.event()
}

// Pause stops the countdown and the ticker.
func (d *Driver) Pause() State {
	d.mu.Lock()
	d.session.Pause()
	done := d.halt()
	st := d.event()
	d.mu.Unlock()
	wait(done)
	return st
}

// Reset stops the ticker and restores the initial state.
func (d *Driver) Reset() State {
	d.mu.Lock()
	d.session.Reset()
	done := d.halt()
	st := d.event()
	d.mu.Unlock()
	wait(done)
	return st
}

// Select jumps to exercise i without touching the countdown or the ticker.
func (d *Driver) Select(i int) (State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.session.SelectExercise(i); err != nil {
		return d.session.Snapshot(), err
	}
	return d.event(), nil
}

// Subscribe returns a channel receiving a snapshot after every change.
// Slow receivers miss intermediate updates rather than block the ticker;
// the latest snapshot is always delivered.
func (d *Driver) Subscribe() <-chan State {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan State, 8)
	if d.closed {
		close(ch)
		return ch
	}
	d.listeners = append(d.listeners, ch)
	return ch
}

// Unsubscribe stops delivery to a channel returned by Subscribe and closes it.
func (d *Driver) Unsubscribe(ch <-chan State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.listeners {
		if l == ch {
			close(l)
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

// Close stops the ticker and waits for it to exit. After Close returns the
// session is never mutated by a tick again.
func (d *Driver) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.session.Pause()
	done := d.halt()
	for _, ch := range d.listeners {
		close(ch)
	}
	d.listeners = nil
	d.mu.Unlock()
	wait(done)
}

// LastActivity is the time of the last event or tick.
func (d *Driver) LastActivity() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.touched
}

func (d *Driver) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			d.mu.Lock()
			select {
			case <-stop:
				d.mu.Unlock()
				return
			default:
			}
			d.session.Tick()
			d.event()
			if !d.session.Running() {
				d.stop, d.done = nil, nil
				d.mu.Unlock()
				return
			}
			d.mu.Unlock()
		}
	}
}

// halt signals the ticker goroutine to stop and returns its done channel.
// Must be called with mu held.
func (d *Driver) halt() chan struct{} {
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	done := d.done
	d.stop, d.done = nil, nil
	return done
}

// event records activity and notifies listeners. Must be called with mu held.
func (d *Driver) event() State {
	d.touched = time.Now()
	st := d.session.Snapshot()
	for _, ch := range d.listeners {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
	return st
}

func wait(done chan struct{}) {
	if done != nil {
		<-done
	}
}
