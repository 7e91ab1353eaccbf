package aisrx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_PushPopOrderAndCapacity(t *testing.T) {
	var q = NewEventQueue(2)

	var e1 = &Event{Kind: AISPacketEvent}
	var e2 = &Event{Kind: AISPacketEvent}
	var e3 = &Event{Kind: AISPacketEvent}

	assert.True(t, q.Push(e1))
	assert.True(t, q.Push(e2))
	assert.False(t, q.Push(e3), "queue of capacity 2 must reject a 3rd push")

	var got, ok = q.Pop()
	require.True(t, ok)
	assert.Same(t, e1, got)
}

func TestEventQueue_WaitWakesOnPush(t *testing.T) {
	var q = NewEventQueue(4)
	var done = make(chan struct{})

	var woke = make(chan bool, 1)
	go func() {
		woke <- q.Wait(done)
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(&Event{Kind: AISPacketEvent})

	select {
	case w := <-woke:
		assert.True(t, w)
	case <-time.After(time.Second):
		t.Fatal("Wait did not wake on push")
	}
}

func TestEventQueue_WaitReturnsFalseWhenDone(t *testing.T) {
	var q = NewEventQueue(4)
	var done = make(chan struct{})
	close(done)

	assert.False(t, q.Wait(done))
}
