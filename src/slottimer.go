package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	SOTDMA slot boundary tick (spec.md §2 component 7, §6):
 *		informs the Receiver of the current slot index.
 *
 * Description:	AIS divides each minute into 2250 slots of ~26.67ms,
 *		ticking at 37.5Hz. In production this tick comes from the
 *		TIM2-equivalent GPIO line (gpio.go); SlotTimer itself only
 *		owns the slot counter and dispatch, so it can equally be
 *		driven by a software ticker in tests or on hardware without
 *		a dedicated timer line.
 *
 *------------------------------------------------------------------*/

// SlotsPerMinute is the number of SOTDMA slots in one minute.
const SlotsPerMinute = 2250

// SlotTimer tracks the current slot index and notifies a Receiver at each
// boundary.
type SlotTimer struct {
	receiver *Receiver
	slot     uint32
}

// NewSlotTimer creates a timer starting at slot 0.
func NewSlotTimer(r *Receiver) *SlotTimer {
	return &SlotTimer{receiver: r}
}

// Tick notifies the Receiver that slot Slot() has started, then advances the
// counter to the following slot (wrapping at SlotsPerMinute). Called from the
// slot-timer ISR path (spec.md §4.2: "invoked from the slot timer ISR at
// the same priority as onBitClock").
func (t *SlotTimer) Tick() {
	t.receiver.TimeSlotStarted(t.slot)
	t.slot = (t.slot + 1) % SlotsPerMinute
}

// Slot returns the slot index the next Tick will announce.
func (t *SlotTimer) Slot() uint32 {
	return t.slot
}
