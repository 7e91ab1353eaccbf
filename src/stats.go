package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	Monotonic resource-exhaustion counters (spec.md §6, §7).
 *
 * Description:	The receive core never propagates an error upward; the
 *		only observable trace of resource exhaustion is one of
 *		these counters. They are incremented from ISR context and
 *		read from anywhere (typically the metrics server), so they
 *		are plain atomics rather than anything lock-based.
 *
 *------------------------------------------------------------------*/

import "sync/atomic"

// Stats holds the receive core's observable failure counters.
type Stats struct {
	EventQueuePushFailures   atomic.Uint64
	EventQueuePopFailures    atomic.Uint64
	RXPacketPoolPopFailures  atomic.Uint64
}

// Reset clears all counters. It is the only thing that ever lowers them.
func (s *Stats) Reset() {
	s.EventQueuePushFailures.Store(0)
	s.EventQueuePopFailures.Store(0)
	s.RXPacketPoolPopFailures.Store(0)
}

// Snapshot is a point-in-time copy suitable for logging or export.
type Snapshot struct {
	EventQueuePushFailures  uint64
	EventQueuePopFailures   uint64
	RXPacketPoolPopFailures uint64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		EventQueuePushFailures:  s.EventQueuePushFailures.Load(),
		EventQueuePopFailures:   s.EventQueuePopFailures.Load(),
		RXPacketPoolPopFailures: s.RXPacketPoolPopFailures.Load(),
	}
}
