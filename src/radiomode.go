package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	Process-wide RECEIVING/TRANSMITTING flag, shared with the
 *		transmit subsystem.
 *
 * Description:	The original firmware keeps this as a bare global
 *		(gRadioState). Per the spec's design notes (§9) it is
 *		re-architected here as a capability passed into the
 *		Receiver: an atomic cell with a single writer (the
 *		transmit subsystem, outside this repo's scope) and many
 *		readers (the bit-clock path, at ISR priority). That makes
 *		the coupling explicit in the Receiver's constructor instead
 *		of implicit through a package-level variable, and lets
 *		tests drive RadioMode without touching global state.
 *
 *------------------------------------------------------------------*/

import "sync/atomic"

// RadioMode is the two-state flag the Receiver reads on every bit clock.
type RadioMode int32

const (
	RadioReceiving RadioMode = iota
	RadioTransmitting
)

// RadioModeCell is a shared, atomically-read/written RadioMode.
type RadioModeCell struct {
	v atomic.Int32
}

// NewRadioModeCell creates a cell initialized to RadioReceiving.
func NewRadioModeCell() *RadioModeCell {
	var c = &RadioModeCell{}
	c.v.Store(int32(RadioReceiving))
	return c
}

// Load reads the current mode. Safe to call from ISR context.
func (c *RadioModeCell) Load() RadioMode {
	return RadioMode(c.v.Load())
}

// Store sets the mode. Called only by the transmit subsystem.
func (c *RadioModeCell) Store(m RadioMode) {
	c.v.Store(int32(m))
}
