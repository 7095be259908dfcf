// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{SubstituteEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	c, _ := tagtext.New(tagtext.Options{Hooks: hooks})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/tagtext"
)

// Hooks forwards events to inner on background workers.
// Events are dropped when the queue is full; calls never block.
type Hooks struct {
	inner tagtext.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ tagtext.Hooks = (*Hooks)(nil)

func New(inner tagtext.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close drains queued events and stops the workers. Hooks must not be
// used after Close.
func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Substituted(op tagtext.Op, pos int, r rune) {
	h.try(func() { h.inner.Substituted(op, pos, r) })
}

func (h *Hooks) DecodeRejected(reason string, err error) {
	h.try(func() { h.inner.DecodeRejected(reason, err) })
}
