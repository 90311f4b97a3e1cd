package timer

import (
	"testing"
	"time"
)

func TestManager_ScheduleFires(t *testing.T) {
	manager := NewManager()

	fired := make(chan struct{})
	manager.Schedule(10*time.Millisecond, func() {
		close(fired)
	})

	// The sweep runs every 100ms, so allow a generous margin.
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("Scheduled callback did not fire")
	}
}

func TestManager_CancelPreventsFire(t *testing.T) {
	manager := NewManager()

	fired := make(chan struct{}, 1)
	id := manager.Schedule(300*time.Millisecond, func() {
		fired <- struct{}{}
	})

	if !manager.Cancel(id) {
		t.Fatal("Cancel should report true for a pending task")
	}

	select {
	case <-fired:
		t.Fatal("Canceled callback should not fire")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestManager_CancelUnknown(t *testing.T) {
	manager := NewManager()

	if manager.Cancel(12345) {
		t.Error("Cancel should report false for an unknown task id")
	}
}

func TestManager_OrderedFiring(t *testing.T) {
	manager := NewManager()

	results := make(chan int, 2)
	manager.Schedule(250*time.Millisecond, func() { results <- 2 })
	manager.Schedule(10*time.Millisecond, func() { results <- 1 })

	var got []int
	for len(got) < 2 {
		select {
		case v := <-results:
			got = append(got, v)
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out waiting for callbacks, got %v", got)
		}
	}

	if got[0] != 1 || got[1] != 2 {
		t.Errorf("Expected callbacks in schedule-time order [1 2], got %v", got)
	}
}
