package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	NRZI decode and HDLC flag framing with bit-destuffing,
 *		one decoded bit at a time (spec.md §4.1).
 *
 * Description:	Ported from the MAIANA firmware's Receiver::processNRZIBit
 *		/ Receiver::addBit (original_source/Receiver.cpp), which
 *		this spec's decoder state machine distills directly.
 *		Unlike the teacher repo's hdlc_rec_bit (which runs one
 *		instance per channel/subchannel/slice for a software
 *		demodulator with speed-error tracking and multiple
 *		slicers), this decoder serves a single hard-wired FSK
 *		radio IC per Receiver, so it carries none of that
 *		machinery — just the preamble template match, the
 *		one-bit-at-a-time destuffer, and the two-way NO_ACTION /
 *		RESTART_RX contract the core dispatches on.
 *
 *------------------------------------------------------------------*/

// decoderState mirrors spec.md's ReceiverState: PREAMBLE_SYNC or IN_PACKET.
type decoderState uint8

const (
	statePreambleSync decoderState = iota
	stateInPacket
)

// decoderAction reports what the Receiver must do after a step. Both
// actionAbort and actionComplete correspond to the spec's single
// RESTART_RX outcome (reset decoder state, reissue START_RX); they are
// split here only so the Receiver knows whether to also deliver the
// attached packet.
type decoderAction uint8

const (
	actionNone decoderAction = iota
	actionAbort
	actionComplete
)

const (
	preambleFlagA uint16 = 0b1010101001111110
	preambleFlagB uint16 = 0b0101010101111110
	hdlcFlag      byte   = 0x7e
	maxOnesRun                  = 7
)

// bitDecoder holds all state for one Receiver's NRZI/HDLC decode. It is
// owned exclusively by the bit-clock path: no field here is touched from
// any other goroutine.
type bitDecoder struct {
	state decoderState

	havePrevRaw bool
	prevRaw     bool

	window  uint16 // BitWindow: rolling 16 bits, MSB = oldest
	onesRun int

	rxByte  byte
	bitCount int
}

// reset puts the decoder back to its just-initialized state (spec.md §8,
// invariant 1): PREAMBLE_SYNC, no buffered bits, no NRZI history.
func (d *bitDecoder) reset() {
	*d = bitDecoder{}
}

// step feeds one raw (pre-NRZI) line sample through the decoder. pkt is the
// PacketBuffer currently attached to the Receiver; step appends completed
// bytes to it and reports the channel on a preamble match via the caller
// (receiver.go), which stamps pkt.Channel itself so the decoder stays
// independent of VHFChannel bookkeeping.
func (d *bitDecoder) step(raw bool, pkt *PacketBuffer) (decoderAction, bool /* matchedPreamble */) {
	if !d.havePrevRaw {
		d.havePrevRaw = true
		d.prevRaw = raw
		return actionNone, false
	}

	var decoded = !(d.prevRaw != raw) // d_n = NOT(prev XOR raw)
	d.prevRaw = raw

	switch d.state {
	case statePreambleSync:
		d.window = (d.window << 1) | b16(decoded)

		if d.window == preambleFlagA || d.window == preambleFlagB {
			d.state = stateInPacket
			return actionNone, true
		}
		return actionNone, false

	default: // stateInPacket
		if pkt.Size() >= MaxAISRXPacketSize {
			return actionAbort, false
		}
		if d.onesRun >= maxOnesRun {
			return actionAbort, false
		}

		d.window = (d.window << 1) | b16(decoded)

		if byte(d.window&0x00ff) == hdlcFlag {
			d.state = statePreambleSync
			return actionComplete, false
		}

		if !d.destuffAndAppend(decoded, pkt) {
			return actionAbort, false
		}
		return actionNone, false
	}
}

// destuffAndAppend applies the bit-destuffing rule and packs surviving
// bits MSB-first into pkt, one byte at a time. It returns false only when
// appending a byte would overflow pkt (oversize abort).
func (d *bitDecoder) destuffAndAppend(bit bool, pkt *PacketBuffer) bool {
	var keep = true

	if bit {
		d.onesRun++
	} else {
		if d.onesRun == 5 {
			keep = false // stuffed bit, discard
		}
		d.onesRun = 0
	}

	if !keep {
		return true
	}

	d.rxByte <<= 1
	if bit {
		d.rxByte |= 1
	}
	d.bitCount++

	if d.bitCount == 8 {
		d.bitCount = 0
		var committed = d.rxByte
		d.rxByte = 0
		if !pkt.AppendByte(committed) {
			return false
		}
	}

	return true
}

func b16(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
