package sim

import "container/list"

// SecondChancePager is FIFO with a reprieve: a referenced head frame has its bit cleared
// and moves to the tail instead of being evicted.
type SecondChancePager struct {
	queue *list.List // of *Frame, eviction order front to back
}

// NewSecondChancePager queues every frame of mem in frame order.
func NewSecondChancePager(mem *Memory) *SecondChancePager {
	q := list.New()
	for _, f := range mem.Frames {
		q.PushBack(f)
	}
	return &SecondChancePager{queue: q}
}

func (p *SecondChancePager) SelectVictim(mem *Memory) *Frame {
	front := p.queue.Front()
	f := front.Value.(*Frame)
	for mem.Owner(f).Referenced {
		mem.Owner(f).Referenced = false
		p.queue.MoveToBack(front)
		front = p.queue.Front()
		f = front.Value.(*Frame)
	}
	// the victim goes to the tail: it holds the newly mapped page now
	p.queue.MoveToBack(front)
	return f
}

// Order returns the frame numbers in current eviction order.
func (p *SecondChancePager) Order() []int {
	order := make([]int, 0, p.queue.Len())
	for e := p.queue.Front(); e != nil; e = e.Next() {
		order = append(order, e.Value.(*Frame).Number)
	}
	return order
}
