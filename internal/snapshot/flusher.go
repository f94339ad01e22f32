package snapshot

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/fanvault/fanvault-be/internal/store"
)

// Flusher writes the state through to the snapshot store off the request
// path. Mutations mark it dirty; a ticker flushes once the debounce window
// has passed, and a cron schedule forces a flush cadence even under constant
// writes. A failed flush is logged and retried on the next tick; it never
// rolls back or fails the in-memory mutation.
type Flusher struct {
	snap     Store
	source   func() *store.State
	debounce time.Duration
	schedule cron.Schedule

	dirty     atomic.Bool
	dirtyAt   atomic.Int64 // unix nanos of the first unflushed mutation
	flushMu   sync.Mutex   // one writer to the durable snapshot at a time
	ticker    *time.Ticker
	done      chan bool
	nextForce time.Time
}

// NewFlusher creates a flusher. cronExpr uses the standard 5-field format
// and bounds how long a dirty state can stay unflushed.
func NewFlusher(snap Store, source func() *store.State, debounce time.Duration, cronExpr string) (*Flusher, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Flusher{
		snap:      snap,
		source:    source,
		debounce:  debounce,
		schedule:  schedule,
		done:      make(chan bool),
		nextForce: schedule.Next(time.Now()),
	}, nil
}

// MarkDirty records that the state changed. Safe to call from inside the
// store's write lock.
func (f *Flusher) MarkDirty() {
	if f.dirty.CompareAndSwap(false, true) {
		f.dirtyAt.Store(time.Now().UnixNano())
	}
}

// Run starts the flush loop. Call in a goroutine.
func (f *Flusher) Run() {
	log.Info().Msg("Starting snapshot flusher")
	f.ticker = time.NewTicker(500 * time.Millisecond)
	defer f.ticker.Stop()

	for {
		select {
		case <-f.done:
			log.Info().Msg("Stopping snapshot flusher")
			return
		case now := <-f.ticker.C:
			f.maybeFlush(now)
		}
	}
}

// Stop terminates the loop and performs a final flush so a clean shutdown
// never loses mutations.
func (f *Flusher) Stop() {
	f.done <- true
	if err := f.Flush(); err != nil {
		log.Error().Err(err).Msg("Final snapshot flush failed")
	}
}

func (f *Flusher) maybeFlush(now time.Time) {
	if !f.dirty.Load() {
		if now.After(f.nextForce) {
			f.nextForce = f.schedule.Next(now)
		}
		return
	}

	dirtySince := time.Unix(0, f.dirtyAt.Load())
	if now.Sub(dirtySince) < f.debounce && now.Before(f.nextForce) {
		return
	}
	if now.After(f.nextForce) {
		f.nextForce = f.schedule.Next(now)
	}
	if err := f.Flush(); err != nil {
		log.Error().Err(err).Msg("Snapshot flush failed; will retry")
	}
}

// Flush writes the current state through to the snapshot store.
func (f *Flusher) Flush() error {
	f.flushMu.Lock()
	defer f.flushMu.Unlock()

	if !f.dirty.Swap(false) {
		return nil
	}
	state := f.source()
	if err := f.snap.Save(state); err != nil {
		// Keep the dirty flag so the next tick retries.
		f.MarkDirty()
		return err
	}
	log.Debug().Msg("Snapshot flushed")
	return nil
}
