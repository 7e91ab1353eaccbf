package aisrx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReceiver(t *testing.T) (*Receiver, *NullRadioIC, *Stats) {
	t.Helper()

	var radio = NewNullRadioIC()
	var stats = &Stats{}
	var r = NewReceiver(ReceiverConfig{
		Radio:   radio,
		Mode:    NewRadioModeCell(),
		Packets: NewPacketBufferPool(4),
		Events:  NewEventPool(4),
		Queue:   NewEventQueue(4),
		Noise:   NewNoiseFloorDetector(),
		Stats:   stats,
		ChipID:  0,
	})

	require.NoError(t, r.Init())
	r.StartReceiving(ChannelA, true)

	return r, radio, stats
}

func TestReceiver_DeliversMinimalPacket(t *testing.T) {
	var r, radio, stats = newTestReceiver(t)

	var payload = []byte{0x01, 0x02, 0x03}
	radio.Feed(buildFrame(payload)...)

	for !radio.Exhausted() {
		r.OnBitClock()
	}

	var ev, ok = r.queue.Pop()
	require.True(t, ok)
	require.NotNil(t, ev.RXPacket)
	assert.Equal(t, payload, ev.RXPacket.Bytes())
	assert.Equal(t, ChannelA, ev.RXPacket.Channel)
	assert.Equal(t, uint64(0), stats.EventQueuePushFailures.Load())
}

func TestReceiver_TXInhibitionStopsSampling(t *testing.T) {
	var r, radio, _ = newTestReceiver(t)
	r.mode.Store(RadioTransmitting)

	radio.Feed(buildFrame([]byte{0xAA})...)

	for i := 0; i < len(radio.bits); i++ {
		r.OnBitClock()
	}

	assert.False(t, radio.Exhausted(), "bits must not be consumed while transmitting")
}

func TestReceiver_PoolStarvationIncrementsCounterInsteadOfPanicking(t *testing.T) {
	var radio = NewNullRadioIC()
	var stats = &Stats{}
	var packets = NewPacketBufferPool(1)

	// Drain the only buffer so the receiver's own acquire fails.
	var _, ok = packets.Acquire()
	require.True(t, ok)

	var r = NewReceiver(ReceiverConfig{
		Radio:   radio,
		Mode:    NewRadioModeCell(),
		Packets: packets,
		Events:  NewEventPool(1),
		Queue:   NewEventQueue(1),
		Noise:   NewNoiseFloorDetector(),
		Stats:   stats,
	})
	require.NoError(t, r.Init())
	r.StartReceiving(ChannelA, true)

	radio.Feed(true)
	r.OnBitClock()

	assert.Equal(t, uint64(1), stats.RXPacketPoolPopFailures.Load())
}

func TestReceiver_ChannelSwitchDefersUntilOutOfPacket(t *testing.T) {
	var r, radio, _ = newTestReceiver(t)

	var payload = []byte{0x11, 0x22}
	radio.Feed(buildFrame(payload)...)

	// Clock through the preamble so the receiver is mid-packet.
	for !radio.Exhausted() && !r.inPacket() {
		r.OnBitClock()
	}
	require.True(t, r.inPacket())

	r.SwitchToChannel(ChannelB)
	// Mid-packet: a slot boundary must not switch channels yet.
	r.TimeSlotStarted(1)
	assert.Equal(t, ChannelA, r.Channel())

	for !radio.Exhausted() {
		r.OnBitClock()
	}

	r.TimeSlotStarted(2)
	assert.Equal(t, ChannelB, r.Channel())
}
