package lifecycle

import (
	"sync"
	"testing"
	"time"
)

func TestSaverCoalescesWrites(t *testing.T) {
	saver := NewSaver(50 * time.Millisecond)
	defer saver.Close()

	var mu sync.Mutex
	runs := 0
	last := ""
	write := func(value string) func() {
		return func() {
			mu.Lock()
			runs++
			last = value
			mu.Unlock()
		}
	}

	saver.Schedule("key", write("first"))
	saver.Schedule("key", write("second"))
	saver.Schedule("key", write("third"))

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if runs != 1 {
		t.Fatalf("expected 1 coalesced write, got %d", runs)
	}
	if last != "third" {
		t.Fatalf("expected the latest write to win, got %q", last)
	}
}

func TestSaverNeverRunsWriteBeforeItsQuietPeriod(t *testing.T) {
	delay := 5 * time.Millisecond
	saver := NewSaver(delay)

	var mu sync.Mutex
	early := 0

	// Pace schedules right around the firing boundary so replacements
	// race against timers mid-fire. A write consumed by a superseded
	// timer would run before its own quiet period elapsed.
	for i := 0; i < 100; i++ {
		at := time.Now()
		saver.Schedule("key", func() {
			if time.Since(at) < delay {
				mu.Lock()
				early++
				mu.Unlock()
			}
		})
		time.Sleep(delay)
	}
	saver.Close()

	mu.Lock()
	defer mu.Unlock()
	if early != 0 {
		t.Fatalf("%d writes ran before their quiet period elapsed", early)
	}
}

func TestSaverDistinctKeys(t *testing.T) {
	saver := NewSaver(30 * time.Millisecond)
	defer saver.Close()

	var mu sync.Mutex
	ran := map[string]bool{}
	for _, key := range []string{"a", "b"} {
		key := key
		saver.Schedule(key, func() {
			mu.Lock()
			ran[key] = true
			mu.Unlock()
		})
	}

	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if !ran["a"] || !ran["b"] {
		t.Fatalf("expected both keys to run, got %v", ran)
	}
}

func TestSaverFlushRunsImmediately(t *testing.T) {
	saver := NewSaver(time.Hour)
	defer saver.Close()

	ran := false
	saver.Schedule("key", func() { ran = true })
	saver.Flush()
	if !ran {
		t.Fatalf("flush must run pending writes immediately")
	}

	// Flushed writes must not fire again when the timer would have.
	saver.Flush()
}

func TestSaverCloseFlushesAndGoesSynchronous(t *testing.T) {
	saver := NewSaver(time.Hour)

	pending := false
	saver.Schedule("key", func() { pending = true })
	saver.Close()
	if !pending {
		t.Fatalf("close must flush pending writes")
	}

	direct := false
	saver.Schedule("key", func() { direct = true })
	if !direct {
		t.Fatalf("writes after close must run synchronously")
	}
}
