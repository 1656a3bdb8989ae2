package seqqueue

// Item is an opaque payload paired with its sequence index.
type Item[V any] struct {
	// core data
	Index int
	Value V

	// meta data
	// position of the item in the index heap
	heapIndex int
}

// putWaiter parks one producer whose index is outside the window. Each
// waiter owns its wake channel; granting closes the channel after the
// waiter is popped from the waiter heap.
type putWaiter struct {
	index   int
	granted chan struct{}

	// position of the waiter in the waiter heap, -1 once popped
	heapIndex int
}
