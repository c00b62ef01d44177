package scheduler

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Store is the part of the session store the flusher drives.
type Store interface {
	Clear()
}

// Flusher wipes the whole session store on a fixed interval so per-user
// histories never accumulate past the configured horizon. It advertises the
// next wipe time for status reporting and raises an advisory flag while a
// wipe is running; callers may use the flag to hold off new sends, the
// store stays consistent either way.
type Flusher struct {
	cron     *cron.Cron
	store    Store
	interval time.Duration

	nextFlush atomic.Int64
	flushing  atomic.Bool
}

func NewFlusher(store Store, interval time.Duration) *Flusher {
	return &Flusher{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		store:    store,
		interval: interval,
	}
}

// Start publishes the first flush time and schedules the flush cycle.
func (f *Flusher) Start() error {
	f.nextFlush.Store(time.Now().Add(f.interval).Unix())

	_, err := f.cron.AddFunc(fmt.Sprintf("@every %s", f.interval), f.flush)
	if err != nil {
		return fmt.Errorf("failed to schedule session flush: %w", err)
	}

	f.cron.Start()
	log.Printf("session flusher started, next flush at %s", f.NextFlush().Format(time.RFC1123))
	return nil
}

// Stop halts the schedule and waits for a flush in progress to finish.
func (f *Flusher) Stop() {
	ctx := f.cron.Stop()
	<-ctx.Done()
	log.Printf("session flusher stopped")
}

// Flushing reports whether a store wipe is running right now.
func (f *Flusher) Flushing() bool {
	return f.flushing.Load()
}

// NextFlush returns the time of the next scheduled store wipe.
func (f *Flusher) NextFlush() time.Time {
	return time.Unix(f.nextFlush.Load(), 0)
}

func (f *Flusher) flush() {
	f.flushing.Store(true)
	f.store.Clear()
	f.flushing.Store(false)

	f.nextFlush.Store(time.Now().Add(f.interval).Unix())
	log.Printf("flushed all sessions, next flush at %s", f.NextFlush().Format(time.RFC1123))
}
