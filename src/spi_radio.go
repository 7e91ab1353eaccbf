package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	RadioIC implementation for an EZRadioPRO-class FSK
 *		transceiver reached over SPI.
 *
 * Description:	The register-level command encoding is vendor-specific
 *		(and explicitly out of scope, spec.md §1: "we specify only
 *		the operations the core invokes on it"), but the SPI
 *		transaction shape — a one-byte command/address followed by
 *		a fixed-size payload, full duplex over a single Tx call —
 *		follows the pattern in tve-devices' sx1276/sx1231 drivers
 *		for the same class of packet radio IC, ported from the old
 *		google/periph API there onto the current periph.io/x/conn
 *		fork.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Radio IC command opcodes (spec.md §4.5). These are the only operations
// the receive core needs; the full command set (TX, sleep, calibration,
// ...) lives with the transmit subsystem, out of scope here.
const (
	cmdGPIOPinCfg byte = 0x13
	cmdStartRX    byte = 0x32
	cmdGetRSSI    byte = 0x50
)

// SPIRadioIC drives a radio IC over a periph.io SPI connection, with a
// GPIO pin carrying the raw NRZI data line sampled once per bit clock.
type SPIRadioIC struct {
	conn    spi.Conn
	dataPin gpio.PinIn
}

// NewSPIRadioIC opens port at speed and wraps it together with the raw
// data-line GPIO pin. The caller owns port/dataPin lifetime.
func NewSPIRadioIC(port spi.Port, dataPin gpio.PinIn, speed physic.Frequency) (*SPIRadioIC, error) {
	var conn, err = port.Connect(speed, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("aisrx: connect radio SPI port: %w", err)
	}

	if err := dataPin.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("aisrx: configure radio data pin: %w", err)
	}

	return &SPIRadioIC{conn: conn, dataPin: dataPin}, nil
}

func (r *SPIRadioIC) Configure() error {
	// One-time post-reset configuration. The vendor register sequence is
	// out of scope (spec.md §1); this issues the documented command with
	// no payload so Tx exercises the real transport.
	var rx = make([]byte, 1)
	return r.conn.Tx([]byte{cmdGPIOPinCfg}, rx)
}

func (r *SPIRadioIC) ConfigureGPIOsForRX() error {
	// GPIO_PIN_CFG_PARAMS: GPIO1 -> RX data, GPIO3 -> RX/TX clock
	// (spec.md §4.5). Other fields left at "no change".
	var tx = []byte{cmdGPIOPinCfg, 0x00, 0x14, 0x00, 0x1F, 0x00, 0x00, 0x00}
	var rx = make([]byte, len(tx))
	return r.conn.Tx(tx, rx)
}

func (r *SPIRadioIC) SendCmdNoWait(opts StartRXOptions) error {
	var tx = []byte{
		cmdStartRX,
		opts.ChannelOrdinal,
		opts.Condition,
		opts.RXLen,
		opts.NextState1,
		opts.NextState2,
		opts.NextState3,
	}
	var rx = make([]byte, len(tx))
	return r.conn.Tx(tx, rx)
}

func (r *SPIRadioIC) ReadRSSI() (uint8, error) {
	var tx = []byte{cmdGetRSSI, 0x00}
	var rx = make([]byte, 2)
	if err := r.conn.Tx(tx, rx); err != nil {
		return 0, err
	}
	return rx[1], nil
}

func (r *SPIRadioIC) ReadDataBit() bool {
	return r.dataPin.Read() == gpio.High
}
