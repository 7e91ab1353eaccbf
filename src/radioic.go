package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	The radio IC operations the receive core invokes
 *		(spec.md §4.5, §2 component 1). This is an external
 *		collaborator: the core only specifies the operations it
 *		calls, not the SPI command protocol behind them.
 *
 *------------------------------------------------------------------*/

import "time"

// Documented maximum durations (spec.md §4.5) of the ISR-path radio
// operations. Nothing in this repo measures or enforces them.
const (
	MaxConfigureGPIOsForRXDuration = 140 * time.Microsecond
	MaxSendCmdNoWaitDuration       = 65 * time.Microsecond
	MaxReadRSSIDuration            = 85 * time.Microsecond
)

// StartRXOptions is the parameter block for the START_RX command
// (spec.md §4.5).
type StartRXOptions struct {
	ChannelOrdinal uint8
	Condition      byte
	RXLen          byte
	NextState1     byte
	NextState2     byte
	NextState3     byte
}

// RadioIC is the driver abstraction the receive core requires. All methods
// are called from the bit-clock/slot-timer path and must honor the
// durations documented above; none may block indefinitely.
type RadioIC interface {
	// Configure performs one-time post-reset radio configuration.
	Configure() error

	// ConfigureGPIOsForRX sets GPIO1 to RX data and GPIO3 to RX/TX clock.
	ConfigureGPIOsForRX() error

	// SendCmdNoWait dispatches START_RX without waiting for a reply.
	SendCmdNoWait(opts StartRXOptions) error

	// ReadRSSI synchronously reads the current RSSI value.
	ReadRSSI() (uint8, error)

	// ReadDataBit samples the raw NRZI line level for the current tick.
	ReadDataBit() bool
}
