package routing

// MinHeap is a binary min-heap of values keyed by a float64 priority.
// There is no decrease-key: callers push duplicates and discard stale
// entries when they are extracted.
type MinHeap[T any] struct {
	items []heapItem[T]
}

type heapItem[T any] struct {
	priority float64
	value    T
}

// NewMinHeap returns an empty heap with room for capacity items.
func NewMinHeap[T any](capacity int) *MinHeap[T] {
	return &MinHeap[T]{items: make([]heapItem[T], 0, capacity)}
}

func (h *MinHeap[T]) Len() int { return len(h.items) }

// Insert adds value with the given priority.
func (h *MinHeap[T]) Insert(priority float64, value T) {
	h.items = append(h.items, heapItem[T]{priority, value})
	h.siftUp(len(h.items) - 1)
}

// ExtractMin removes and returns the value with the smallest priority.
// ok is false when the heap is empty.
func (h *MinHeap[T]) ExtractMin() (value T, ok bool) {
	n := len(h.items)
	if n == 0 {
		return value, false
	}
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items[n-1] = heapItem[T]{}
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item.value, true
}

// Reset empties the heap, keeping its backing array.
func (h *MinHeap[T]) Reset() {
	clear(h.items)
	h.items = h.items[:0]
}

func (h *MinHeap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].priority >= h.items[parent].priority {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap[T]) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].priority < h.items[smallest].priority {
			smallest = left
		}
		if right < n && h.items[right].priority < h.items[smallest].priority {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
