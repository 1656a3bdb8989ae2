package seqqueue

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
)

type Config struct {

	// StartIndex is the first index the queue will ever deliver. Puts for
	// indices below it are rejected as stale for the whole queue lifetime.
	StartIndex int

	// MaxSize is the width of the admission window. At any moment only
	// indices in [next, next+MaxSize-1] may be buffered, where next is the
	// smallest index not yet delivered. A value <= 0 means unbounded.
	//
	// Note that the window bounds by index distance, not by raw count: a
	// buffered index occupies its slot even while smaller indices are
	// still missing, so buffered item count never exceeds MaxSize either.
	MaxSize int
}

func DefaultConfig() Config {
	return Config{
		StartIndex: 0,
		MaxSize:    0, // unbounded
	}
}

func (c *Config) Validate() error {
	if c.StartIndex < 0 {
		return fmt.Errorf("StartIndex must not be negative")
	}

	return nil
}

// Queue is a concurrent safe bounded queue whose Get always returns items in
// strictly increasing index order, independent of the order producers Put
// them. Out-of-order arrivals are buffered until every smaller index has
// been delivered.
type Queue[V any] struct {
	conf Config

	mu sync.Mutex

	// smallest index not yet delivered; only ever increases
	next int

	// buffered items: membership map paired with a min-heap over the same
	// entries, so duplicate checks are O(1) and pop-minimum is O(log n)
	tracker map[int]*Item[V]
	items   *indexMinHeap[V]

	// consumers parked until the item at next arrives, in FIFO order
	getWaiters []chan struct{}

	// producers parked until their index enters the window
	putWaiters *waiterHeap

	stats statCounters
}

// New creates a queue with the given configuration.
func New[V any](conf Config) (*Queue[V], error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return &Queue[V]{
		conf:       conf,
		next:       conf.StartIndex,
		tracker:    make(map[int]*Item[V]),
		items:      &indexMinHeap[V]{},
		putWaiters: &waiterHeap{},
	}, nil
}

// Put inserts value under the given index, blocking while the index lies
// beyond the admission window. It returns nil once the item is buffered,
// ErrStaleIndex or ErrDuplicateIndex immediately when the index can never
// be admitted, and ErrFull (wrapping ctx.Err()) when ctx expires first.
func (q *Queue[V]) Put(ctx context.Context, index int, value V) error {
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		q.mu.Lock()
		err := q.admitLocked(index)
		if err == nil {
			q.insertLocked(index, value)
			q.mu.Unlock()
			q.stats.puts.Add(1)
			return nil
		}
		if err != ErrFull {
			q.mu.Unlock()
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			q.mu.Unlock()
			q.stats.fullFailures.Add(1)
			return fmt.Errorf("%w: %w", ErrFull, ctxErr)
		}

		w := &putWaiter{index: index, granted: make(chan struct{})}
		heap.Push(q.putWaiters, w)
		q.mu.Unlock()

		select {
		case <-w.granted:
			// slot granted; loop re-checks admissibility under the lock
		case <-ctx.Done():
			q.mu.Lock()
			if w.heapIndex >= 0 {
				heap.Remove(q.putWaiters, w.heapIndex)
				q.mu.Unlock()
				q.stats.fullFailures.Add(1)
				return fmt.Errorf("%w: %w", ErrFull, ctx.Err())
			}
			// the grant raced the cancellation and won; take the slot
			q.mu.Unlock()
		}
	}
}

// TryPut inserts value under the given index only if a slot is immediately
// available, else it fails with ErrFull, ErrStaleIndex or ErrDuplicateIndex.
func (q *Queue[V]) TryPut(index int, value V) error {
	q.mu.Lock()
	if err := q.admitLocked(index); err != nil {
		q.mu.Unlock()
		if err == ErrFull {
			q.stats.fullFailures.Add(1)
		}
		return err
	}
	q.insertLocked(index, value)
	q.mu.Unlock()
	q.stats.puts.Add(1)
	return nil
}

// Get removes and returns the item at the smallest undelivered index,
// blocking until that exact index has been put. On ctx expiry it returns
// ErrEmpty wrapping ctx.Err().
func (q *Queue[V]) Get(ctx context.Context) (Item[V], error) {
	if ctx == nil {
		ctx = context.Background()
	}

	for {
		q.mu.Lock()
		if q.readyLocked() {
			item := q.popLocked()
			q.mu.Unlock()
			q.stats.gets.Add(1)
			return item, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			q.mu.Unlock()
			q.stats.emptyFailures.Add(1)
			return zeroValue[Item[V]](), fmt.Errorf("%w: %w", ErrEmpty, ctxErr)
		}

		ready := make(chan struct{})
		q.getWaiters = append(q.getWaiters, ready)
		q.mu.Unlock()

		select {
		case <-ready:
			// front item arrived; loop re-checks under the lock, another
			// consumer may have taken it first
		case <-ctx.Done():
			q.mu.Lock()
			removed := q.removeGetWaiterLocked(ready)
			q.mu.Unlock()
			if removed {
				q.stats.emptyFailures.Add(1)
				return zeroValue[Item[V]](), fmt.Errorf("%w: %w", ErrEmpty, ctx.Err())
			}
			// already woken; the wake must not be lost, so re-check
		}
	}
}

// TryGet removes and returns the item at the smallest undelivered index
// only if it is immediately available, else it fails with ErrEmpty.
func (q *Queue[V]) TryGet() (Item[V], error) {
	q.mu.Lock()
	if !q.readyLocked() {
		q.mu.Unlock()
		q.stats.emptyFailures.Add(1)
		return zeroValue[Item[V]](), ErrEmpty
	}
	item := q.popLocked()
	q.mu.Unlock()
	q.stats.gets.Add(1)
	return item, nil
}

// Len returns the number of buffered (accepted, undelivered) items.
// Advisory only, the count may change before the caller acts on it.
func (q *Queue[V]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracker)
}

// Empty reports whether nothing is deliverable right now, i.e. the next
// undelivered index is absent from the buffer. Advisory only.
func (q *Queue[V]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.readyLocked()
}

// Full reports whether every slot of the admission window is occupied.
// Always false for unbounded queues. Advisory only.
func (q *Queue[V]) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.conf.MaxSize > 0 && len(q.tracker) >= q.conf.MaxSize
}

// NextIndex returns the smallest index not yet delivered. Advisory only.
func (q *Queue[V]) NextIndex() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.next
}

// Stats returns a snapshot of the queue's operation counters.
func (q *Queue[V]) Stats() Stats {
	return q.stats.snapshot()
}

// ResetStats zeroes the operation counters. The queue state itself is
// untouched.
func (q *Queue[V]) ResetStats() {
	q.stats.reset()
}

// admitLocked decides the fate of an incoming index: nil to insert now,
// ErrFull to wait for the window, ErrStaleIndex and ErrDuplicateIndex as
// permanent rejections.
func (q *Queue[V]) admitLocked(index int) error {
	if index < q.next {
		q.stats.staleDrops.Add(1)
		return ErrStaleIndex
	}
	if _, ok := q.tracker[index]; ok {
		q.stats.duplicateDrops.Add(1)
		return ErrDuplicateIndex
	}
	if q.conf.MaxSize > 0 && index > q.next+q.conf.MaxSize-1 {
		return ErrFull
	}
	return nil
}

func (q *Queue[V]) insertLocked(index int, value V) {
	item := &Item[V]{Index: index, Value: value}
	heap.Push(q.items, item)
	q.tracker[index] = item

	if index == q.next {
		q.wakeGetterLocked()
	}
}

// readyLocked reports whether the item at the delivery front is buffered.
// The heap minimum is always >= next, so a Peek suffices.
func (q *Queue[V]) readyLocked() bool {
	front := q.items.Peek()
	return front != nil && front.Index == q.next
}

// popLocked removes the front item and advances the window by one slot,
// waking producers the advance admitted and, if the following index is
// already buffered, the next parked consumer.
func (q *Queue[V]) popLocked() Item[V] {
	item := heap.Pop(q.items).(*Item[V])
	delete(q.tracker, item.Index)
	q.next++

	q.wakeProducersLocked()
	if q.readyLocked() {
		q.wakeGetterLocked()
	}
	return *item
}

func (q *Queue[V]) wakeGetterLocked() {
	if len(q.getWaiters) == 0 {
		return
	}
	close(q.getWaiters[0])
	q.getWaiters = q.getWaiters[1:]
}

// wakeProducersLocked grants slots to every parked producer whose index now
// falls inside the window. A one-slot advance can admit several waiters
// only when they share the ceiling index; the loop handles both cases.
func (q *Queue[V]) wakeProducersLocked() {
	if q.conf.MaxSize <= 0 {
		return
	}
	ceiling := q.next + q.conf.MaxSize - 1
	for {
		w := q.putWaiters.Peek()
		if w == nil || w.index > ceiling {
			return
		}
		heap.Pop(q.putWaiters)
		close(w.granted)
	}
}

func (q *Queue[V]) removeGetWaiterLocked(ready chan struct{}) bool {
	for i, ch := range q.getWaiters {
		if ch == ready {
			q.getWaiters = append(q.getWaiters[:i], q.getWaiters[i+1:]...)
			return true
		}
	}
	return false
}
