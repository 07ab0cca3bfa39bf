package motionplan

import "container/heap"

type queueItem struct {
	index    int
	priority float64
	seq      int
}

// priorityQueue pops the lowest priority first, breaking ties in insertion order.
type priorityQueue struct {
	items []queueItem
	seq   int
}

func (pq *priorityQueue) Len() int { return len(pq.items) }

func (pq *priorityQueue) Less(i, j int) bool {
	if pq.items[i].priority == pq.items[j].priority {
		return pq.items[i].seq < pq.items[j].seq
	}
	return pq.items[i].priority < pq.items[j].priority
}

func (pq *priorityQueue) Swap(i, j int) { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

func (pq *priorityQueue) Push(x interface{}) {
	pq.items = append(pq.items, x.(queueItem))
}

func (pq *priorityQueue) Pop() interface{} {
	old := pq.items
	n := len(old)
	item := old[n-1]
	pq.items = old[:n-1]
	return item
}

func (pq *priorityQueue) push(index int, priority float64) {
	heap.Push(pq, queueItem{index: index, priority: priority, seq: pq.seq})
	pq.seq++
}

func (pq *priorityQueue) pop() (int, float64) {
	item := heap.Pop(pq).(queueItem)
	return item.index, item.priority
}
