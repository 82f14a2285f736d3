package types

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMotorMaskMembership(t *testing.T) {
	m := MaskOf(0, 3, 7)

	assert.Equal(t, MotorMask(0b1000_1001), m)
	assert.True(t, m.Has(0))
	assert.True(t, m.Has(3))
	assert.False(t, m.Has(1))
	assert.False(t, m.Has(-1))
	assert.False(t, m.Has(MaxMotors))
	assert.Equal(t, 3, m.Count())
	assert.False(t, m.Empty())
	assert.True(t, MotorMask(0).Empty())
}

func TestMotorMaskIgnoresOutOfRange(t *testing.T) {
	assert.Equal(t, MaskOf(2), MaskOf(2, -1, MaxMotors, 99))
}

func TestMotorMaskAllAscending(t *testing.T) {
	m := MaskOf(31, 4, 0, 15)
	assert.Equal(t, []int{0, 4, 15, 31}, slices.Collect(m.All()))
	assert.Empty(t, slices.Collect(MotorMask(0).All()))
}

func TestMotorMaskAllStopsEarly(t *testing.T) {
	var seen []int
	for i := range MaskOf(1, 2, 3).All() {
		seen = append(seen, i)
		if i == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, seen)
}
