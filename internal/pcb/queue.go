package pcb

import "container/list"

// Queue is a strict FIFO of *PCB with O(1) enqueue/dequeue and O(1) removal
// of an arbitrary element through its list handle, backed by container/list the way the teacher
// package backs its per-fd reader/writer request queues.
type Queue struct {
	l list.List
}

// Enqueue adds pcb to the tail of the queue and returns the list element
// backing it, which a caller needing targeted removal can hold on to
// instead of re-scanning. (SJF takes its handle from Each instead; MLFQ
// demotion only enqueues and dequeues.)
func (q *Queue) Enqueue(p *PCB) *list.Element {
	return q.l.PushBack(p)
}

// Dequeue removes and returns the head of the queue, or nil if empty.
func (q *Queue) Dequeue() *PCB {
	e := q.l.Front()
	if e == nil {
		return nil
	}
	q.l.Remove(e)
	return e.Value.(*PCB)
}

// Remove detaches elem from the queue and returns the PCB it held. It is a
// no-op returning nil if elem is not in this queue's list; the caller
// decides whether to free/reuse anything, matching remove_queue_elem's
// contract of never freeing the pcb or node itself.
func (q *Queue) Remove(elem *list.Element) *PCB {
	if elem == nil {
		return nil
	}
	n := q.l.Len()
	v := q.l.Remove(elem)
	if q.l.Len() == n || v == nil {
		// container/list leaves a foreign element untouched but still
		// returns its value; report that as "not in this queue".
		return nil
	}
	return v.(*PCB)
}

// Len reports the number of PCBs currently enqueued.
func (q *Queue) Len() int {
	return q.l.Len()
}

// Front returns the head element without removing it, or nil if empty.
func (q *Queue) Front() *list.Element {
	return q.l.Front()
}

// Each calls fn for every PCB currently in the queue, front to back. fn may
// call Remove on elements already visited; removing the element right after
// elem makes Each still call fn on that removed element and then stop,
// skipping the rest. fn must not remove elem itself mid-iteration except
// via the returned bool.
//
// If fn returns false, elem is removed from the queue immediately after fn
// returns, mirroring check_wait_queue's in-loop removal of departed or
// promoted clients.
func (q *Queue) Each(fn func(elem *list.Element, p *PCB) bool) {
	for e := q.l.Front(); e != nil; {
		next := e.Next()
		keep := fn(e, e.Value.(*PCB))
		if !keep {
			q.l.Remove(e)
		}
		e = next
	}
}
