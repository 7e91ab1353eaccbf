package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	The deferred, lower-priority task that drains the
 *		EventQueue (spec.md §4.3, §6): verifies the HDLC FCS and
 *		armors the validated payload into an AIVDM NMEA sentence,
 *		then returns both the Event and its PacketBuffer to their
 *		pools.
 *
 * Description:	Bit-ungrouping into AIS message fields and geographic
 *		interpretation remain explicitly out of scope (spec.md §1
 *		Non-goals); this only does the two things needed to hand a
 *		well-formed sentence to an output sink. Sentence checksum
 *		framing follows the teacher's waypoint.go append_checksum
 *		(XOR of everything between '$'/'!' and '*'); 6-bit AIS
 *		armoring follows the field-packing approach in ais.go's
 *		get_bit/set_bit, applied here to whole-payload armoring
 *		rather than per-field decode.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
)

// Sink receives one fully-assembled NMEA sentence (including the trailing
// CRLF) for a completed, FCS-valid AIS packet.
type Sink interface {
	Send(sentence string) error
}

// Consumer drains events from an EventQueue, verifies and armors them, and
// fans validated sentences out to its sinks.
type Consumer struct {
	queue   *EventQueue
	events  *EventPool
	packets *PacketBufferPool
	stats   *Stats
	sinks   []Sink

	packetLog *PacketLog
	onBadFCS  func(pkt *PacketBuffer)
}

// NewConsumer builds a Consumer draining queue, returning buffers to
// packets/events, and fanning validated sentences to sinks.
func NewConsumer(queue *EventQueue, events *EventPool, packets *PacketBufferPool, stats *Stats, sinks ...Sink) *Consumer {
	return &Consumer{queue: queue, events: events, packets: packets, stats: stats, sinks: sinks}
}

// SetPacketLog attaches a CSV packet log that records every non-empty packet
// handed to the consumer, valid or not. Empty packets are released without a
// log row.
func (c *Consumer) SetPacketLog(pl *PacketLog) {
	c.packetLog = pl
}

// SetBadFCSHandler installs a callback invoked (instead of sink delivery)
// for frames that fail FCS verification — the §9 diagnostic path: such a
// frame gets a packet log row with fcs_ok=false and this callback, and is
// never forwarded. No counter of bad-FCS frames is kept.
func (c *Consumer) SetBadFCSHandler(f func(pkt *PacketBuffer)) {
	c.onBadFCS = f
}

// Run drains the queue until done is closed. It is meant to run in its own
// goroutine, well below ISR priority.
func (c *Consumer) Run(done <-chan struct{}) {
	for {
		for {
			var ev, ok = c.queue.Pop()
			if !ok {
				break
			}
			c.handle(ev)
		}

		if !c.queue.Wait(done) {
			return
		}
	}
}

func (c *Consumer) handle(ev *Event) {
	var pkt = ev.RXPacket
	ev.RXPacket = nil
	c.events.Release(ev)

	defer c.packets.Release(pkt)

	if pkt.Size() == 0 {
		return
	}

	var info, ok = verifyFCS(pkt.Bytes())

	if c.packetLog != nil {
		_ = c.packetLog.Write(pkt, pkt.Slot, ok, 0, false)
	}

	if !ok {
		// Resolves the §9 open question: diagnostic-only, dropped here
		// rather than handed to a sink.
		if c.onBadFCS != nil {
			c.onBadFCS(pkt)
		}
		return
	}

	var sentence, armorErr = EncodeAIVDM(info, pkt.Channel, 0)
	if armorErr != nil {
		return
	}

	for _, sink := range c.sinks {
		_ = sink.Send(sentence)
	}
}

// EncodeAIVDM armors a raw AIS information field into a single-fragment
// !AIVDM sentence for channel.
func EncodeAIVDM(info []byte, channel VHFChannel, fillBits int) (string, error) {
	if fillBits < 0 || fillBits > 5 {
		return "", fmt.Errorf("aisrx: invalid fill bit count %d", fillBits)
	}

	var payload = armor6Bit(info, fillBits)
	var body = fmt.Sprintf("!AIVDM,1,1,,%c,%s,%d", channel.Designation(), payload, fillBits)
	return appendChecksum(body) + "\r\n", nil
}

// armor6Bit packs the bits of data (MSB-first) into AIS's 6-bit ASCII
// armoring: each output character encodes 6 bits, offset by 48 and bumped
// by 8 past 'W' to stay in the printable range the protocol defines.
func armor6Bit(data []byte, fillBits int) string {
	var totalBits = len(data)*8 - fillBits
	if totalBits < 0 {
		totalBits = 0
	}

	var out []byte
	for start := 0; start < totalBits; start += 6 {
		var sextet byte
		for i := 0; i < 6; i++ {
			sextet <<= 1
			var bitIdx = start + i
			if bitIdx < totalBits && getBit(data, bitIdx) {
				sextet |= 1
			}
		}
		out = append(out, armorChar(sextet))
	}
	return string(out)
}

func armorChar(sextet byte) byte {
	var c = sextet + 48
	if c > 87 {
		c += 8
	}
	return c
}

func getBit(data []byte, offset int) bool {
	var byteIdx = offset / 8
	var bitIdx = uint(offset % 8)
	return data[byteIdx]&(0x80>>bitIdx) != 0
}

// appendChecksum appends the NMEA checksum field ("*HH") to sentence,
// computed as the XOR of every byte between the leading '$'/'!' and the
// checksum itself (teacher's waypoint.go append_checksum, generalized to
// accept either sentence starter).
func appendChecksum(sentence string) string {
	var cs byte
	for i := 1; i < len(sentence); i++ {
		cs ^= sentence[i]
	}
	return fmt.Sprintf("%s*%02X", sentence, cs)
}
