package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	Best-effort real-time scheduling for the bit-clock/slot-
 *		timer goroutines.
 *
 * Description:	Locks the calling goroutine to its OS thread and asks
 *		the kernel for SCHED_FIFO at a fixed priority, then locks
 *		all current and future pages to avoid a page fault stalling
 *		the handler mid-bit. None of this is required for
 *		correctness (the ring buffers and atomics are correct
 *		regardless of scheduling delay) but it is what keeps this
 *		software stand-in for "interrupt priority 5" honest under
 *		load. Errors are ignored, not fatal: on a kernel or
 *		container where these calls are refused (no CAP_SYS_NICE),
 *		the receiver still runs, just without the latency
 *		guarantee.
 *
 *------------------------------------------------------------------*/

import (
	"runtime"
	"sync"

	"golang.org/x/sys/unix"
)

// irqPriority is the SCHED_FIFO priority given to the bit-clock and
// slot-timer goroutines, matching their shared interrupt priority 5 in the
// original firmware (spec.md §5).
const irqPriority = 5

// irqPinner applies the real-time setup in pin exactly once for a single
// goroutine.
// gpio.go keeps one irqPinner per ISR-priority handler (bit-clock,
// slot-timer) since LockOSThread only affects the calling goroutine.
type irqPinner struct {
	once sync.Once
}

// pin locks the calling goroutine to its OS thread and applies SCHED_FIFO
// scheduling, the first time it is called.
func (p *irqPinner) pin() {
	p.once.Do(func() {
		runtime.LockOSThread()

		var param = &unix.SchedParam{Priority: irqPriority}
		_ = unix.SchedSetScheduler(0, unix.SCHED_FIFO, param)
		_ = unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
	})
}
