package aisrx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_CapacityRoundsUpToPowerOfTwo(t *testing.T) {
	var r = newRing[int](5)
	assert.Equal(t, 8, len(r.buf))
}

func TestRing_PushPopFIFOOrder(t *testing.T) {
	var r = newRing[int](4)

	assert.True(t, r.push(1))
	assert.True(t, r.push(2))
	assert.True(t, r.push(3))

	var v, ok = r.pop()
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = r.pop()
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestRing_FullReportsFalseRatherThanOverwriting(t *testing.T) {
	var r = newRing[int](2)

	assert.True(t, r.push(1))
	assert.True(t, r.push(2))
	assert.False(t, r.push(3), "ring of capacity 2 must reject a 3rd push")

	var v, ok = r.pop()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestRing_EmptyPopReportsFalse(t *testing.T) {
	var r = newRing[int](4)
	var _, ok = r.pop()
	assert.False(t, ok)
}

func TestRing_WrapsAroundCorrectly(t *testing.T) {
	var r = newRing[int](2)

	for i := 0; i < 10; i++ {
		require := assert.New(t)
		require.True(r.push(i))
		var v, ok = r.pop()
		require.True(ok)
		require.Equal(i, v)
	}
}

func TestRing_Len(t *testing.T) {
	var r = newRing[int](4)
	assert.Equal(t, 0, r.len())
	r.push(1)
	r.push(2)
	assert.Equal(t, 2, r.len())
	r.pop()
	assert.Equal(t, 1, r.len())
}
