package aisrx

/*------------------------------------------------------------------
 *
 * Purpose:	The receive core: runs the NRZI/HDLC decoder on every bit
 *		clock, drives channel switching at slot boundaries, and
 *		hands completed packets to the EventQueue.
 *
 * Description:	Ported from the MAIANA firmware's Receiver class
 *		(original_source/Receiver.cpp) onto the pool/queue/decoder
 *		types above. OnBitClock and TimeSlotStarted are the two
 *		ISR entry points (spec.md §6); they share one priority
 *		level and are documented (not enforced in software) never
 *		to preempt each other — see gpio.go for how that invariant
 *		is realized on real GPIO interrupt lines.
 *
 *------------------------------------------------------------------*/

const sentinelTimeSlot = ^uint32(0)

// slotBitSentinel mirrors SlotBitIndex's reset value (spec.md data model:
// "reset to -1 at each slot boundary").
const slotBitSentinel int32 = -1

// CCASlotBit identifies the slot bit at which clear-channel assessment is
// meaningful (spec.md §4.4), typically just before transmit candidacy
// evaluation.
const CCASlotBit int32 = 256

// RSSIInterleave is the modulus used to spread RSSI sampling across chip
// IDs and slots so no two receivers on a multi-IC board sample in the same
// slot (spec.md §4.4).
const RSSIInterleave uint32 = 17

// Receiver is the core described by spec.md §4.2.
type Receiver struct {
	radio RadioIC
	mode  *RadioModeCell

	packets *PacketBufferPool
	events  *EventPool
	queue   *EventQueue
	noise   *NoiseFloorDetector
	stats   *Stats

	chipID uint32

	decoder bitDecoder
	pkt     *PacketBuffer

	channel     VHFChannel
	nextChannel VHFChannel

	slotBitIndex int32
	timeSlot     uint32
}

// ReceiverConfig bundles a Receiver's collaborators, constructed once at
// station startup and wired together explicitly (spec.md §9: "re-architect
// as a capability passed into the Receiver").
type ReceiverConfig struct {
	Radio   RadioIC
	Mode    *RadioModeCell
	Packets *PacketBufferPool
	Events  *EventPool
	Queue   *EventQueue
	Noise   *NoiseFloorDetector
	Stats   *Stats
	ChipID  uint32
}

// NewReceiver builds a Receiver in its initial state: PREAMBLE_SYNC, no
// packet attached yet (one is drawn from the pool on first use).
func NewReceiver(cfg ReceiverConfig) *Receiver {
	return &Receiver{
		radio:        cfg.Radio,
		mode:         cfg.Mode,
		packets:      cfg.Packets,
		events:       cfg.Events,
		queue:        cfg.Queue,
		noise:        cfg.Noise,
		stats:        cfg.Stats,
		chipID:       cfg.ChipID,
		timeSlot:     sentinelTimeSlot,
		slotBitIndex: slotBitSentinel,
	}
}

// Init configures the radio IC and resets the decoder (spec.md §4.2).
func (r *Receiver) Init() error {
	if err := r.radio.Configure(); err != nil {
		return err
	}
	r.decoder.reset()
	return nil
}

// Channel returns the currently active receive channel.
func (r *Receiver) Channel() VHFChannel {
	return r.channel
}

// inPacket reports whether a packet is currently in progress.
func (r *Receiver) inPacket() bool {
	return r.decoder.state == stateInPacket
}

// StartReceiving configures the radio for reception on channel and resets
// the decoder. Total budget <= 320us; GPIO reconfig <= 140us; command issue
// <= 65us (spec.md §4.2).
func (r *Receiver) StartReceiving(channel VHFChannel, reconfigGPIOs bool) {
	r.channel = channel
	r.nextChannel = channel

	if reconfigGPIOs {
		_ = r.radio.ConfigureGPIOsForRX()
	}

	_ = r.radio.SendCmdNoWait(StartRXOptions{
		ChannelOrdinal: channel.Ordinal(),
	})

	r.decoder.reset()
	if r.pkt != nil {
		r.pkt.Reset()
	}
}

// SwitchToChannel requests a channel change. It is non-blocking and takes
// effect at the next slot boundary while the Receiver is not mid-packet
// (spec.md §4.2, §8 invariant 7).
func (r *Receiver) SwitchToChannel(channel VHFChannel) {
	r.nextChannel = channel
}

// OnBitClock is the ISR entry point triggered on each rising edge of the
// bit-clock line (spec.md §4.2, §6).
func (r *Receiver) OnBitClock() {
	r.slotBitIndex++

	if r.mode.Load() == RadioTransmitting {
		return
	}

	if r.pkt == nil {
		var buf, ok = r.packets.Acquire()
		if !ok {
			r.stats.RXPacketPoolPopFailures.Add(1)
			return
		}
		r.pkt = buf
	}

	var raw = r.radio.ReadDataBit()
	var action, matchedPreamble = r.decoder.step(raw, r.pkt)

	if matchedPreamble {
		r.pkt.Channel = r.channel
	}

	// RESTART_RX stays on the current channel; a switch requested while the
	// packet was in progress remains pending for the next slot boundary.
	var pending = r.nextChannel

	switch action {
	case actionComplete:
		r.deliverPacket()
		r.StartReceiving(r.channel, false)
		r.nextChannel = pending
	case actionAbort:
		r.StartReceiving(r.channel, false)
		r.nextChannel = pending
	default:
		if r.shouldSampleRSSI() {
			r.reportRSSI()
		}
	}
}

// shouldSampleRSSI implements the interleave condition from spec.md §4.4.
func (r *Receiver) shouldSampleRSSI() bool {
	return r.timeSlot != sentinelTimeSlot &&
		r.slotBitIndex != slotBitSentinel &&
		r.timeSlot%RSSIInterleave == r.chipID &&
		r.slotBitIndex == CCASlotBit-1
}

// reportRSSI reads RSSI from the radio (<=85us) and reports it to the
// NoiseFloorDetector. This is the only deliberately long ISR-path operation
// besides StartReceiving (spec.md §4.4).
func (r *Receiver) reportRSSI() {
	var rssi, err = r.radio.ReadRSSI()
	if err != nil {
		return
	}
	r.noise.Report(r.channel.Designation(), rssi)
}

// TimeSlotStarted is invoked from the slot-timer path at the same priority
// as OnBitClock (spec.md §4.2, §6); the two cannot preempt each other.
func (r *Receiver) TimeSlotStarted(slot uint32) {
	r.slotBitIndex = slotBitSentinel
	r.timeSlot = slot

	if r.inPacket() {
		return
	}

	if r.pkt != nil {
		r.pkt.Slot = slot
	}

	if r.channel != r.nextChannel {
		r.StartReceiving(r.nextChannel, false)
	}
}

// deliverPacket hands the attached PacketBuffer off in an Event and draws a
// fresh buffer for the next packet (spec.md §4.3).
func (r *Receiver) deliverPacket() {
	var ev, ok = r.events.Acquire()
	if !ok {
		r.stats.EventQueuePopFailures.Add(1)
		r.pkt.Reset()
		return
	}

	ev.Kind = AISPacketEvent
	ev.RXPacket = r.pkt

	if !r.queue.Push(ev) {
		r.stats.EventQueuePushFailures.Add(1)
	}

	r.pkt = nil

	var buf, gotBuf = r.packets.Acquire()
	if !gotBuf {
		r.stats.RXPacketPoolPopFailures.Add(1)
		return
	}
	r.pkt = buf
}
