// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package network

import "sync"

// Queue is an unbounded multi-producer queue drained in batches by a single
// consumer. It bridges the asynchronous socket goroutines and the
// single-threaded simulation tick: producers never block, and the consumer
// never waits. A slow consumer risks unbounded growth; the simulation drains
// every queue once per tick, which keeps that bounded in practice.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends an item. Safe for concurrent use.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// Drain removes and returns all currently queued items in FIFO order.
// Returns nil when empty.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// outbox is the per-connection FIFO of pending writes. Producers are the
// simulation tick and the auth state machine; the consumer is the
// connection's write goroutine, which blocks in next until an item arrives
// or the outbox is closed.
type outbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []pendingWrite
	closed bool
}

func newOutbox() *outbox {
	o := &outbox{}
	o.cond = sync.NewCond(&o.mu)
	return o
}

// push enqueues a write. Returns false if the outbox is already closed.
func (o *outbox) push(w pendingWrite) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	o.items = append(o.items, w)
	o.cond.Signal()
	return true
}

// next blocks until a write is available or the outbox is closed.
// Returns false once closed and drained.
func (o *outbox) next() (pendingWrite, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for len(o.items) == 0 && !o.closed {
		o.cond.Wait()
	}
	if len(o.items) == 0 {
		return pendingWrite{}, false
	}
	w := o.items[0]
	o.items = o.items[1:]
	return w, true
}

// close wakes the consumer. Items already queued are still delivered;
// further pushes are dropped.
func (o *outbox) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	o.cond.Broadcast()
}
