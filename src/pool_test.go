package aisrx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacketBufferPool_AcquireReleaseRoundTrip(t *testing.T) {
	var pool = NewPacketBufferPool(2)
	assert.Equal(t, 2, pool.Available())

	var a, ok1 = pool.Acquire()
	require.True(t, ok1)
	var b, ok2 = pool.Acquire()
	require.True(t, ok2)
	assert.Equal(t, 0, pool.Available())

	var _, ok3 = pool.Acquire()
	assert.False(t, ok3, "a drained pool must report failure, not panic or block")

	pool.Release(a)
	assert.Equal(t, 1, pool.Available())
	pool.Release(b)
	assert.Equal(t, 2, pool.Available())
}

func TestPacketBufferPool_AcquireResetsStaleContent(t *testing.T) {
	var pool = NewPacketBufferPool(1)

	var buf, ok = pool.Acquire()
	require.True(t, ok)
	buf.AppendByte(0xFF)
	buf.Channel = ChannelB
	pool.Release(buf)

	var reused, ok2 = pool.Acquire()
	require.True(t, ok2)
	assert.Equal(t, 0, reused.Size())
}

func TestEventPool_AcquireReleaseRoundTrip(t *testing.T) {
	var pool = NewEventPool(1)

	var ev, ok = pool.Acquire()
	require.True(t, ok)
	ev.Kind = AISPacketEvent

	var _, ok2 = pool.Acquire()
	assert.False(t, ok2)

	pool.Release(ev)
	assert.Equal(t, 1, pool.Available())
}
