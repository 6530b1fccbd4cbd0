// Reactive reads: an in-process hub that wakes subscribers after committed
// writes. Each subscription owns a goroutine draining a coalescing signal
// channel, so subscriber callbacks never run under the backend lock.
package sqlite

import (
	"sync"

	"github.com/coilworks/magbook/pkg/types"
)

// watchHub fans out table-write notifications to subscribers.
type watchHub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*subscription
}

type subscription struct {
	tables map[string]bool
	signal chan struct{} // coalescing: capacity 1
	stop   chan struct{}
}

func newWatchHub() *watchHub {
	return &watchHub{subs: make(map[int]*subscription)}
}

// notify wakes every subscriber watching at least one of the tables.
// Non-blocking: a signal already pending covers this write too.
func (h *watchHub) notify(tables ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		for _, t := range tables {
			if !sub.tables[t] {
				continue
			}
			select {
			case sub.signal <- struct{}{}:
			default:
			}
			break
		}
	}
}

// subscribe registers fn to run after writes to the given tables and
// returns a cancel function. fn runs on its own goroutine, serially per
// subscription.
func (h *watchHub) subscribe(tables []string, fn func()) func() {
	sub := &subscription{
		tables: make(map[string]bool, len(tables)),
		signal: make(chan struct{}, 1),
		stop:   make(chan struct{}),
	}
	for _, t := range tables {
		sub.tables[t] = true
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	h.mu.Unlock()

	go func() {
		for {
			select {
			case <-sub.stop:
				return
			case <-sub.signal:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(sub.stop)
		})
	}
}

// Subscribe registers fn to run after any committed write touching one of
// the named tables. The returned function cancels the subscription; it
// must be called when the subscriber goes away.
func (b *Backend) Subscribe(tables []string, fn func()) (func(), error) {
	b.mu.RLock()
	attached := b.attached
	b.mu.RUnlock()
	if !attached {
		return nil, types.ErrStoreDetached
	}
	return b.watch.subscribe(tables, fn), nil
}

// LiveQuery is a reactive read: run re-executes after every write to the
// watched tables and the fresh value is pushed to Updates. Close tears the
// query down; no further values arrive afterwards.
type LiveQuery struct {
	Updates <-chan any

	updates chan any
	cancel  func()
	done    chan struct{}
	closed  sync.Once
}

// NewLiveQuery runs the query once immediately, then again after each
// write to the given tables. Query errors are skipped; the previous value
// stands until a later run succeeds.
func (b *Backend) NewLiveQuery(tables []string, run func() (any, error)) (*LiveQuery, error) {
	lq := &LiveQuery{
		updates: make(chan any, 1),
		done:    make(chan struct{}),
	}
	lq.Updates = lq.updates

	cancel, err := b.Subscribe(tables, func() {
		lq.push(run)
	})
	if err != nil {
		return nil, err
	}
	lq.cancel = cancel

	lq.push(run)
	return lq, nil
}

// push runs the query and delivers the result, dropping a stale undrained
// value in favor of the fresh one.
func (lq *LiveQuery) push(run func() (any, error)) {
	v, err := run()
	if err != nil {
		return
	}
	select {
	case <-lq.done:
		return
	default:
	}
	select {
	case lq.updates <- v:
	default:
		select {
		case <-lq.updates:
		default:
		}
		select {
		case lq.updates <- v:
		default:
		}
	}
}

// Close cancels the subscription. Idempotent. Updates is left open so a
// concurrent in-flight run cannot send on a closed channel; it simply
// stops receiving values.
func (lq *LiveQuery) Close() {
	lq.closed.Do(func() {
		close(lq.done)
		lq.cancel()
	})
}
