package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	Fixed-capacity object pools for PacketBuffers and Events.
 *
 * Description:	Both pools preallocate their backing storage once, up
 *		front, sized to the worst-case number of packets in
 *		flight (spec.md §9: "commonly 8-16"). Acquire is called
 *		from ISR context and must be O(1) and non-blocking;
 *		Release is called from the consumer task. The free list
 *		in each direction is a single-producer/single-consumer
 *		ring (ring.go), so acquisition never locks and never
 *		recurses into the heap after construction.
 *
 *------------------------------------------------------------------*/

// PacketBufferPool hands out *PacketBuffer values drawn from a fixed
// backing array.
type PacketBufferPool struct {
	storage []PacketBuffer
	free    *ring[*PacketBuffer]
}

// NewPacketBufferPool preallocates capacity PacketBuffers, all initially
// free.
func NewPacketBufferPool(capacity int) *PacketBufferPool {
	var pool = &PacketBufferPool{
		storage: make([]PacketBuffer, capacity),
		free:    newRing[*PacketBuffer](capacity),
	}
	for i := range pool.storage {
		pool.free.push(&pool.storage[i])
	}
	return pool
}

// Acquire takes one buffer from the pool. It returns nil, false if the pool
// is empty; the caller never blocks waiting for one.
func (p *PacketBufferPool) Acquire() (*PacketBuffer, bool) {
	var buf, ok = p.free.pop()
	if !ok {
		return nil, false
	}
	buf.Reset()
	return buf, true
}

// Release returns a buffer to the pool for reuse.
func (p *PacketBufferPool) Release(buf *PacketBuffer) {
	p.free.push(buf)
}

// Available reports the number of buffers currently free.
func (p *PacketBufferPool) Available() int {
	return p.free.len()
}

// EventPool hands out *Event values drawn from a fixed backing array.
type EventPool struct {
	storage []Event
	free    *ring[*Event]
}

// NewEventPool preallocates capacity Events, all initially free.
func NewEventPool(capacity int) *EventPool {
	var pool = &EventPool{
		storage: make([]Event, capacity),
		free:    newRing[*Event](capacity),
	}
	for i := range pool.storage {
		pool.free.push(&pool.storage[i])
	}
	return pool
}

// Acquire takes one event wrapper from the pool.
func (p *EventPool) Acquire() (*Event, bool) {
	var ev, ok = p.free.pop()
	if !ok {
		return nil, false
	}
	ev.reset()
	return ev, true
}

// Release returns an event wrapper to the pool. The caller must have
// already released any PacketBuffer it was carrying.
func (p *EventPool) Release(ev *Event) {
	p.free.push(ev)
}

// Available reports the number of event wrappers currently free.
func (p *EventPool) Available() int {
	return p.free.len()
}
