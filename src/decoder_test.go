package aisrx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func feedFrame(t *testing.T, d *bitDecoder, pkt *PacketBuffer, raw []bool) (action decoderAction, matchedPreamble bool, matchedAt int) {
	t.Helper()
	matchedAt = -1
	for i, bit := range raw {
		var step decoderAction
		var matched bool
		step, matched = d.step(bit, pkt)
		if matched {
			matchedPreamble = true
			matchedAt = i
		}
		if step != actionNone {
			return step, matchedPreamble, matchedAt
		}
	}
	return actionNone, matchedPreamble, matchedAt
}

func TestDecoder_MinimalPacketRoundTrip(t *testing.T) {
	var payload = []byte{0x01, 0x02, 0x03, 0xAB, 0xCD}

	var d bitDecoder
	var pkt PacketBuffer

	var raw = buildFrame(payload)
	var action, _, _ = feedFrame(t, &d, &pkt, raw)

	require.Equal(t, actionComplete, action)
	assert.Equal(t, payload, pkt.Bytes())
}

func TestDecoder_StuffedBitsAreRemoved(t *testing.T) {
	// A payload byte of all ones forces stuffing on every run of 5.
	var payload = []byte{0xff, 0xff, 0x00}

	var d bitDecoder
	var pkt PacketBuffer

	var raw = buildFrame(payload)
	var action, _, _ = feedFrame(t, &d, &pkt, raw)

	require.Equal(t, actionComplete, action)
	assert.Equal(t, payload, pkt.Bytes())
}

func TestDecoder_SevenConsecutiveOnesAborts(t *testing.T) {
	var d bitDecoder
	var pkt PacketBuffer

	var decoded = bitsMSBFirst(uint64(preambleFlagA), 16)
	decoded = append(decoded, true, true, true, true, true, true, true, true) // 8 unstuffed ones: onesRun reaches the abort threshold
	var raw = nrziEncode(decoded)

	var action, _, _ = feedFrame(t, &d, &pkt, raw)
	assert.Equal(t, actionAbort, action)
}

func TestDecoder_OversizePacketAborts(t *testing.T) {
	var payload = make([]byte, MaxAISRXPacketSize+1)

	var d bitDecoder
	var pkt PacketBuffer

	var raw = buildFrame(payload)
	var action, _, _ = feedFrame(t, &d, &pkt, raw)
	assert.Equal(t, actionAbort, action)
}

func TestDecoder_NoBytesAppendedBeforePreambleMatch(t *testing.T) {
	var d bitDecoder
	var pkt PacketBuffer

	// Junk bits before the sync word must not leak into the packet buffer.
	var raw = nrziEncode(append([]bool{true, false, true, true, false, false}, bitsMSBFirst(uint64(preambleFlagA), 16)...))

	var action, matched, matchedAt = feedFrame(t, &d, &pkt, raw)
	assert.Equal(t, actionNone, action)
	assert.True(t, matched)
	assert.Equal(t, 0, pkt.Size())
	_ = matchedAt
}

func TestDecoder_PropertyRoundTripsArbitraryPayloads(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var payload = rapid.SliceOfN(rapid.Byte(), 1, MaxAISRXPacketSize-2).Draw(t, "payload")

		var d bitDecoder
		var pkt PacketBuffer

		var raw = buildFrame(payload)

		var gotAction decoderAction
		for _, bit := range raw {
			var action, _ = d.step(bit, &pkt)
			if action != actionNone {
				gotAction = action
				break
			}
		}

		assert.Equal(t, actionComplete, gotAction)
		assert.Equal(t, payload, pkt.Bytes())
	})
}
