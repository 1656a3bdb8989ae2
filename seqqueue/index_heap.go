package seqqueue

// indexMinHeap implements a priority queue over buffered items using a
// min-heap with heap.Interface. The smallest index is always at the root,
// so the membership test for the delivery front is a Peek.
type indexMinHeap[V any] []*Item[V]

func (pq indexMinHeap[V]) Len() int { return len(pq) }

func (pq indexMinHeap[V]) Less(i, j int) bool {
	return pq[i].Index < pq[j].Index
}

func (pq indexMinHeap[V]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].heapIndex = i
	pq[j].heapIndex = j
}

func (pq *indexMinHeap[V]) Push(x any) {
	item := x.(*Item[V])
	item.heapIndex = len(*pq)
	*pq = append(*pq, item)
}

func (pq *indexMinHeap[V]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	item.heapIndex = -1
	*pq = old[:n-1]
	return item
}

func (pq indexMinHeap[V]) Peek() *Item[V] {
	if len(pq) == 0 {
		return nil
	}
	return pq[0]
}

// waiterHeap orders blocked producers by the index they are waiting to
// place, so a window advance wakes exactly the producers whose index just
// became admissible.
type waiterHeap []*putWaiter

func (wh waiterHeap) Len() int { return len(wh) }

func (wh waiterHeap) Less(i, j int) bool {
	return wh[i].index < wh[j].index
}

func (wh waiterHeap) Swap(i, j int) {
	wh[i], wh[j] = wh[j], wh[i]
	wh[i].heapIndex = i
	wh[j].heapIndex = j
}

func (wh *waiterHeap) Push(x any) {
	w := x.(*putWaiter)
	w.heapIndex = len(*wh)
	*wh = append(*wh, w)
}

func (wh *waiterHeap) Pop() any {
	old := *wh
	n := len(old)
	w := old[n-1]
	w.heapIndex = -1
	*wh = old[:n-1]
	return w
}

func (wh waiterHeap) Peek() *putWaiter {
	if len(wh) == 0 {
		return nil
	}
	return wh[0]
}
