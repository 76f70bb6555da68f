package loop

import (
	"context"
	"testing"
	"time"
)

func TestRegistryTracksSessions(t *testing.T) {
	r := NewRegistry()
	_, done1 := r.Add(context.Background())
	_, done2 := r.Add(context.Background())
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}

	done1()
	done1()
	if r.Len() != 1 {
		t.Errorf("Len() after done = %d, want 1", r.Len())
	}
	done2()
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistryShutdownCancelsAndWaits(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 3; i++ {
		ctx, done := r.Add(context.Background())
		go func() {
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond)
			done()
		}()
	}

	if !r.Shutdown(2 * time.Second) {
		t.Fatal("Shutdown timed out")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d after Shutdown", r.Len())
	}
}

func TestRegistryShutdownTimesOut(t *testing.T) {
	r := NewRegistry()
	_, done := r.Add(context.Background())
	defer done()

	start := time.Now()
	if r.Shutdown(50 * time.Millisecond) {
		t.Fatal("Shutdown reported success with a stuck session")
	}
	if time.Since(start) < 50*time.Millisecond {
		t.Error("Shutdown returned before the timeout")
	}
}

func TestRegistryAddAfterShutdown(t *testing.T) {
	r := NewRegistry()
	r.Shutdown(time.Millisecond)

	ctx, done := r.Add(context.Background())
	defer done()
	if ctx.Err() == nil {
		t.Error("session added after Shutdown is not cancelled")
	}
}
