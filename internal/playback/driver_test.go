package playback

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestDriver(t *testing.T, n, d int) *Driver {
	t.Helper()
	drv := NewDriver(newTestSession(t, n, d), time.Millisecond)
	t.Cleanup(drv.Close)
	return drv
}

func waitFor(t *testing.T, ch <-chan State, cond func(State) bool) State {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st, ok := <-ch:
			if !ok {
				t.Fatal("subscription closed")
			}
			if cond(st) {
				return st
			}
		case <-timeout:
			t.Fatal("timed out waiting for state")
		}
	}
}

// TestDriverRunsToCompletion verifies the ticker advances through every
// exercise and stops itself at the end.
func TestDriverRunsToCompletion(t *testing.T) {
	drv := newTestDriver(t, 3, 4)
	updates := drv.Subscribe()

	drv.Start()
	st := waitFor(t, updates, func(s State) bool { return s.Complete })

	if st.CurrentIndex != 2 || st.Remaining != 0 || st.Elapsed != 12 || st.Running {
		t.Errorf("final state = %+v", st)
	}

	// The ticker is gone: state stays put.
	time.Sleep(20 * time.Millisecond)
	if got := drv.State(); got.Elapsed != 12 {
		t.Errorf("elapsed moved after completion: %d", got.Elapsed)
	}
}

func TestDriverPauseStopsTicking(t *testing.T) {
	drv := NewDriver(newTestSession(t, 2, 1000), time.Millisecond)
	defer drv.Close()
	updates := drv.Subscribe()

	drv.Start()
	waitFor(t, updates, func(s State) bool { return s.Elapsed >= 3 })
	paused := drv.Pause()
	if paused.Running {
		t.Fatal("still running after Pause")
	}

	time.Sleep(20 * time.Millisecond)
	if got := drv.State(); got.Elapsed != paused.Elapsed {
		t.Errorf("elapsed moved while paused: %d -> %d", paused.Elapsed, got.Elapsed)
	}
}

func TestDriverResetWhileRunning(t *testing.T) {
	drv := NewDriver(newTestSession(t, 2, 1000), time.Millisecond)
	defer drv.Close()
	updates := drv.Subscribe()

	drv.Start()
	waitFor(t, updates, func(s State) bool { return s.Elapsed >= 2 })
	st := drv.Reset()
	if st.CurrentIndex != 0 || st.Remaining != 1000 || st.Elapsed != 0 || st.Running {
		t.Errorf("after reset = %+v", st)
	}
	time.Sleep(10 * time.Millisecond)
	if got := drv.State(); got.Elapsed != 0 {
		t.Errorf("ticker survived reset: elapsed=%d", got.Elapsed)
	}
}

func TestDriverSelect(t *testing.T) {
	drv := newTestDriver(t, 3, 45)
	st, err := drv.Select(2)
	if err != nil {
		t.Fatal(err)
	}
	if st.CurrentIndex != 2 || st.Remaining != 45 {
		t.Errorf("after select = %+v", st)
	}
	if _, err := drv.Select(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

// TestDriverCloseStopsMutation verifies teardown: no tick lands after Close.
func TestDriverCloseStopsMutation(t *testing.T) {
	drv := NewDriver(newTestSession(t, 2, 1000), time.Millisecond)
	updates := drv.Subscribe()
	drv.Start()
	waitFor(t, updates, func(s State) bool { return s.Elapsed >= 1 })

	drv.Close()
	closed := drv.State()
	time.Sleep(20 * time.Millisecond)
	if got := drv.State(); got.Elapsed != closed.Elapsed {
		t.Errorf("elapsed moved after Close: %d -> %d", closed.Elapsed, got.Elapsed)
	}

	// Start after Close is ignored.
	if st := drv.Start(); st.Running {
		t.Error("Start after Close should not run")
	}
	drv.Close()
}

func TestDriverUnsubscribe(t *testing.T) {
	drv := newTestDriver(t, 2, 45)
	kept := drv.Subscribe()
	dropped := drv.Subscribe()

	drv.Unsubscribe(dropped)
	if _, ok := <-dropped; ok {
		t.Fatal("unsubscribed channel still open")
	}

	drv.Select(1)
	if st := waitFor(t, kept, func(State) bool { return true }); st.CurrentIndex != 1 {
		t.Errorf("kept listener got %+v", st)
	}
}

func TestRegistryOpenGetClose(t *testing.T) {
	reg := NewRegistry(45, time.Millisecond, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	id, drv, err := reg.Open(testPlan(2))
	if err != nil {
		t.Fatal(err)
	}
	got, err := reg.Get(id)
	if err != nil || got != drv {
		t.Fatalf("Get = %v, %v", got, err)
	}

	// Re-opening the same plan gives a fresh, independent session.
	id2, drv2, err := reg.Open(testPlan(2))
	if err != nil {
		t.Fatal(err)
	}
	if id2 == id {
		t.Error("session IDs collide")
	}
	if _, err := drv.Select(1); err != nil {
		t.Fatal(err)
	}
	if drv2.State().CurrentIndex != 0 {
		t.Error("second session shares state with the first")
	}

	if err := reg.Close(id); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Get(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get after Close err = %v", err)
	}
	if err := reg.Close(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("double Close err = %v", err)
	}

	reg.CloseAll()
	if reg.Len() != 0 {
		t.Errorf("Len = %d after CloseAll", reg.Len())
	}
}

func TestRegistrySweep(t *testing.T) {
	reg := NewRegistry(45, time.Millisecond, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer reg.CloseAll()

	if _, _, err := reg.Open(testPlan(1)); err != nil {
		t.Fatal(err)
	}
	if n := reg.Sweep(time.Now()); n != 0 {
		t.Errorf("swept %d fresh sessions", n)
	}
	if n := reg.Sweep(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Errorf("swept %d, want 1", n)
	}
	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}
