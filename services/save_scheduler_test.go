package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"procure-app/types"
)

var errSaveFailed = errors.New("save failed")

func TestScheduleDebounces(t *testing.T) {
	var calls int32
	var lastPayload atomic.Value
	s := NewSaveScheduler(50*time.Millisecond, func(id types.SnowflakeID, payload interface{}) error {
		atomic.AddInt32(&calls, 1)
		lastPayload.Store(payload)
		return nil
	})
	defer s.Stop()

	// Edits inside the quiet period collapse into one save of the latest
	// payload.
	for i := 0; i < 5; i++ {
		s.Schedule(1, i)
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(120 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 save, got %d", got)
	}
	if got := lastPayload.Load(); got != 4 {
		t.Errorf("expected last payload 4, got %v", got)
	}
}

func TestFlushCancelsPendingTimer(t *testing.T) {
	var calls int32
	s := NewSaveScheduler(50*time.Millisecond, func(id types.SnowflakeID, payload interface{}) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	defer s.Stop()

	s.Schedule(1, "edit")
	if err := s.Flush(1); err != nil {
		t.Fatal(err)
	}

	time.Sleep(120 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly 1 save (flush only), got %d", got)
	}
}

func TestFlushWithoutPendingIsNoop(t *testing.T) {
	var calls int32
	s := NewSaveScheduler(time.Hour, func(id types.SnowflakeID, payload interface{}) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	defer s.Stop()

	if err := s.Flush(1); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("expected no save without a pending payload, got %d", got)
	}
}

func TestSaveSerializesPerComparison(t *testing.T) {
	var active, maxActive int32
	s := NewSaveScheduler(time.Hour, func(id types.SnowflakeID, payload interface{}) error {
		n := atomic.AddInt32(&active, 1)
		for {
			m := atomic.LoadInt32(&maxActive)
			if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		return nil
	})
	defer s.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Save(7, i)
		}(i)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&maxActive); got != 1 {
		t.Errorf("saves for one comparison overlapped: max concurrency %d", got)
	}
}

func TestDifferentComparisonsDoNotBlockEachOther(t *testing.T) {
	started := make(chan types.SnowflakeID, 2)
	release := make(chan struct{})
	s := NewSaveScheduler(time.Hour, func(id types.SnowflakeID, payload interface{}) error {
		started <- id
		<-release
		return nil
	})
	defer s.Stop()

	go s.Save(1, "a")
	go s.Save(2, "b")

	timeout := time.After(time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-timeout:
			t.Fatal("saves for distinct comparisons blocked each other")
		}
	}
	close(release)
}

func TestSaveRetriesOnceOnFailure(t *testing.T) {
	var calls int32
	s := NewSaveScheduler(time.Hour, func(id types.SnowflakeID, payload interface{}) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errSaveFailed
		}
		return nil
	})
	defer s.Stop()

	if err := s.Save(1, "edit"); err != nil {
		t.Errorf("expected retry to recover, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestFailedSaveKeepsPayloadForNextFlush(t *testing.T) {
	var calls int32
	var payloads []interface{}
	var mu sync.Mutex
	s := NewSaveScheduler(time.Hour, func(id types.SnowflakeID, payload interface{}) error {
		mu.Lock()
		payloads = append(payloads, payload)
		mu.Unlock()
		// both attempts of the first save fail, the later flush succeeds
		if atomic.AddInt32(&calls, 1) <= 2 {
			return errSaveFailed
		}
		return nil
	})
	defer s.Stop()

	if err := s.Save(1, "edit"); err == nil {
		t.Fatal("expected error after failed retry")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", got)
	}

	// The edits must still be pending: a later flush re-attempts the same
	// payload instead of reporting success with nothing to write.
	if err := s.Flush(1); err != nil {
		t.Fatalf("expected later flush to succeed, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected a third attempt, got %d", got)
	}
	mu.Lock()
	defer mu.Unlock()
	for i, p := range payloads {
		if p != "edit" {
			t.Errorf("attempt %d saw payload %v, expected the original edit", i+1, p)
		}
	}
}

func TestSuccessfulSaveConsumesPayload(t *testing.T) {
	var calls int32
	s := NewSaveScheduler(time.Hour, func(id types.SnowflakeID, payload interface{}) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	defer s.Stop()

	if err := s.Save(1, "edit"); err != nil {
		t.Fatal(err)
	}
	if err := s.Flush(1); err != nil {
		t.Fatal(err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected consumed payload not to be saved again, got %d calls", got)
	}
}

func TestStopCancelsAllPending(t *testing.T) {
	var calls int32
	s := NewSaveScheduler(30*time.Millisecond, func(id types.SnowflakeID, payload interface{}) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	s.Schedule(1, "a")
	s.Schedule(2, "b")
	s.Stop()

	time.Sleep(80 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("expected no saves after Stop, got %d", got)
	}
}
