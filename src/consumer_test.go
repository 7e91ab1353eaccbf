package aisrx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	sentences []string
}

func (s *recordingSink) Send(sentence string) error {
	s.sentences = append(s.sentences, sentence)
	return nil
}

func frameWithFCS(info []byte) []byte {
	var fcs = fcsCalc(info)
	return append(append([]byte{}, info...), byte(fcs), byte(fcs>>8))
}

func TestVerifyFCS_AcceptsValidFrame(t *testing.T) {
	var info = []byte{0x01, 0x02, 0x03, 0x04}
	var frame = frameWithFCS(info)

	var got, ok = verifyFCS(frame)
	require.True(t, ok)
	assert.Equal(t, info, got)
}

func TestVerifyFCS_RejectsCorruptedFrame(t *testing.T) {
	var info = []byte{0x01, 0x02, 0x03, 0x04}
	var frame = frameWithFCS(info)
	frame[0] ^= 0xFF

	var _, ok = verifyFCS(frame)
	assert.False(t, ok)
}

func TestEncodeAIVDM_ProducesWellFormedSentence(t *testing.T) {
	var info = []byte{0x15, 0x23, 0x45, 0x67, 0x89}

	var sentence, err = EncodeAIVDM(info, ChannelA, 0)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(sentence, "!AIVDM,1,1,,A,"))
	require.True(t, strings.HasSuffix(sentence, "\r\n"))

	var body = strings.TrimSuffix(sentence, "\r\n")
	var star = strings.LastIndex(body, "*")
	require.Greater(t, star, 0)

	var cs byte
	for i := 1; i < star; i++ {
		cs ^= body[i]
	}
	assert.Equal(t, strings.ToUpper(body[star+1:]), strings.ToUpper(sentenceHex(cs)))
}

func sentenceHex(b byte) string {
	const hex = "0123456789ABCDEF"
	return string([]byte{hex[b>>4], hex[b&0xf]})
}

func TestConsumer_DropsBadFCSWithoutReachingSinks(t *testing.T) {
	var queue = NewEventQueue(2)
	var events = NewEventPool(2)
	var packets = NewPacketBufferPool(2)
	var stats = &Stats{}
	var sink = &recordingSink{}

	var badPkt, ok = packets.Acquire()
	require.True(t, ok)
	badPkt.AppendByte(0xDE)
	badPkt.AppendByte(0xAD)
	badPkt.AppendByte(0x00)
	badPkt.AppendByte(0x00) // wrong FCS

	var ev, ok2 = events.Acquire()
	require.True(t, ok2)
	ev.Kind = AISPacketEvent
	ev.RXPacket = badPkt
	queue.Push(ev)

	var c = NewConsumer(queue, events, packets, stats, sink)

	var popped, popOK = queue.Pop()
	require.True(t, popOK)
	c.handle(popped)

	assert.Empty(t, sink.sentences)
	assert.Equal(t, 2, packets.Available(), "the bad-FCS buffer must still be returned to its pool")
}

func TestConsumer_ForwardsValidFrameToSinks(t *testing.T) {
	var queue = NewEventQueue(2)
	var events = NewEventPool(2)
	var packets = NewPacketBufferPool(2)
	var stats = &Stats{}
	var sink = &recordingSink{}

	var info = []byte{0x01, 0x02, 0x03}
	var framed = frameWithFCS(info)

	var pkt, ok = packets.Acquire()
	require.True(t, ok)
	for _, b := range framed {
		pkt.AppendByte(b)
	}
	pkt.Channel = ChannelB

	var ev, ok2 = events.Acquire()
	require.True(t, ok2)
	ev.Kind = AISPacketEvent
	ev.RXPacket = pkt
	queue.Push(ev)

	var c = NewConsumer(queue, events, packets, stats, sink)
	var popped, popOK = queue.Pop()
	require.True(t, popOK)
	c.handle(popped)

	require.Len(t, sink.sentences, 1)
	assert.True(t, strings.Contains(sink.sentences[0], ",,B,"))
}
