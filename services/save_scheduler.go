package services

import (
	"log"
	"sync"
	"time"

	"procure-app/types"
)

// retryDelay is the pause before the single retry of a failed save.
const retryDelay = 250 * time.Millisecond

// SaveFunc persists one pending payload for a cost comparison.
type SaveFunc func(id types.SnowflakeID, payload interface{}) error

// SaveScheduler debounces auto-saves of quantity edits: a save runs after
// a quiet period, and another edit within the window cancels and
// reschedules it (last write wins, no queue of intermediate saves).
// Saves for the same comparison are serialized so a manual save firing
// while a debounced save is in flight cannot interleave writes. The
// pending payload is only discarded after a successful write; a failed
// save keeps the edits for the retry and for any later flush.
type SaveScheduler struct {
	mu    sync.Mutex
	delay time.Duration
	save  SaveFunc

	timers  map[types.SnowflakeID]*time.Timer
	locks   map[types.SnowflakeID]*sync.Mutex
	pending map[types.SnowflakeID]pendingPayload
}

// pendingPayload carries a generation counter so that a payload stored
// while a save is in flight is never discarded by that save's cleanup.
type pendingPayload struct {
	payload interface{}
	gen     uint64
}

func NewSaveScheduler(delay time.Duration, save SaveFunc) *SaveScheduler {
	return &SaveScheduler{
		delay:   delay,
		save:    save,
		timers:  make(map[types.SnowflakeID]*time.Timer),
		locks:   make(map[types.SnowflakeID]*sync.Mutex),
		pending: make(map[types.SnowflakeID]pendingPayload),
	}
}

// Schedule stores the payload and arms (or re-arms) the debounce timer
// for the comparison.
func (s *SaveScheduler) Schedule(id types.SnowflakeID, payload interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setPendingLocked(id, payload)
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		if err := s.runSave(id); err != nil {
			log.Println("Auto-save failed for cost comparison", id, ":", err)
		}
	})
}

// Save stores the payload and persists immediately, cancelling any
// debounced save. Used by the explicit Save button.
func (s *SaveScheduler) Save(id types.SnowflakeID, payload interface{}) error {
	s.mu.Lock()
	s.setPendingLocked(id, payload)
	s.mu.Unlock()
	return s.Flush(id)
}

// Flush cancels any pending debounced save and persists the pending
// payload now. A comparison with nothing pending is a no-op.
func (s *SaveScheduler) Flush(id types.SnowflakeID) error {
	s.mu.Lock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()
	return s.runSave(id)
}

// Stop cancels all pending saves without running them.
func (s *SaveScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *SaveScheduler) setPendingLocked(id types.SnowflakeID, payload interface{}) {
	prev := s.pending[id]
	s.pending[id] = pendingPayload{payload: payload, gen: prev.gen + 1}
}

func (s *SaveScheduler) runSave(id types.SnowflakeID) error {
	lock := s.entityLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	p, ok := s.pending[id]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	err := s.save(id, p.payload)
	if err != nil {
		// one retry for transient failures, with the same payload;
		// validation happens before payloads reach the scheduler, so an
		// error here is never terminal input rejection
		time.Sleep(retryDelay)
		err = s.save(id, p.payload)
	}
	if err != nil {
		// the payload stays pending so the next flush re-attempts it
		return err
	}

	s.mu.Lock()
	if cur, ok := s.pending[id]; ok && cur.gen == p.gen {
		delete(s.pending, id)
	}
	s.mu.Unlock()
	return nil
}

func (s *SaveScheduler) entityLock(id types.SnowflakeID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[id] = l
	return l
}
