package bulkhead

import (
	"container/list"
	"sync"
)

// waiter represents one queued caller. The slot channel has capacity one so
// a handoff never blocks the releasing goroutine.
type waiter struct {
	slot chan struct{}
}

// pool is the per-category slot accounting. Slots are handed directly from
// a releasing caller to the head of the wait queue, so FIFO order holds and
// a freed slot is never stolen by a late arrival.
type pool struct {
	mu       sync.Mutex
	max      int
	inflight int
	queueCap int
	waiters  *list.List
}

func newPool(maxConcurrency, queueCap int) *pool {
	return &pool{
		max:      maxConcurrency,
		queueCap: queueCap,
		waiters:  list.New(),
	}
}

// tryAcquire admits the caller immediately or enqueues it. Returns
// (nil, nil) on immediate admission, a waiter to block on, or
// ErrPoolExhausted when the queue is at cap.
func (p *pool) tryAcquire() (*waiter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.inflight < p.max {
		p.inflight++
		return nil, nil
	}
	if p.queueCap > 0 && p.waiters.Len() >= p.queueCap {
		return nil, ErrPoolExhausted
	}

	w := &waiter{slot: make(chan struct{}, 1)}
	p.waiters.PushBack(w)
	return w, nil
}

// release frees a slot, handing it to the longest-waiting caller if any.
// The in-flight count stays unchanged on a handoff: ownership transfers.
func (p *pool) release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if front := p.waiters.Front(); front != nil {
		p.waiters.Remove(front)
		front.Value.(*waiter).slot <- struct{}{}
		return
	}
	p.inflight--
}

// abandon removes a timed-out or cancelled waiter from the queue. When the
// waiter is already gone its slot was granted concurrently with the
// timeout; the granted slot is surrendered so it is not leaked.
func (p *pool) abandon(w *waiter) {
	p.mu.Lock()
	for e := p.waiters.Front(); e != nil; e = e.Next() {
		if e.Value.(*waiter) == w {
			p.waiters.Remove(e)
			p.mu.Unlock()
			return
		}
	}
	p.mu.Unlock()

	// Not queued anymore: the handoff won the race. Give the slot back.
	select {
	case <-w.slot:
		p.release()
	default:
	}
}

func (p *pool) utilization() (inflight, max, queued int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inflight, p.max, p.waiters.Len()
}
