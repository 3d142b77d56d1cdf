package websearch

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestGate_FirstCallerPassesImmediately(t *testing.T) {
	g := NewGate(time.Second)
	start := time.Now()
	if err := g.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("lone caller was delayed")
	}
}

func TestGate_QueuedCallerBacksOff(t *testing.T) {
	g := NewGate(50 * time.Millisecond)

	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Wait(context.Background())
		<-release
	}()

	// Give the first waiter time to take position 0.
	time.Sleep(10 * time.Millisecond)

	start := time.Now()
	if err := g.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("second caller not throttled, waited %v", elapsed)
	}
	close(release)
	wg.Wait()
}

func TestGate_SequentialCallsSpreadOut(t *testing.T) {
	// WHAT: a second call right after the first returns still backs off.
	// WHY: scrape requests arrive one per tool call; a slot released on
	// return would leave every caller at position 0.
	g := NewGate(50 * time.Millisecond)
	if err := g.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	if err := g.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("sequential caller not throttled, waited %v", elapsed)
	}
}

func TestGate_CancelledContext(t *testing.T) {
	g := NewGate(time.Hour)

	done := make(chan struct{})
	go func() {
		g.Wait(context.Background())
		<-done
	}()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Wait(ctx); err == nil {
		t.Fatal("cancelled wait returned nil")
	}
	close(done)
}
