package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTriangleHoldsDCWhenSilenced(t *testing.T) {
	mixer := NewMixer()
	tr := newTriangleChannel(mixer)
	tr.SetEnabled(true)
	tr.WriteControl(0x7F) // no halt, linear reload 127
	tr.WriteTimerLow(10)
	tr.WriteTimerHigh(0x08) // length index 1

	// Advance enough to move off position 0.
	tr.clockLinear()
	for i := 0; i < 50; i++ {
		tr.Process(11, uint32(i)*11)
	}
	posBefore := tr.pos
	ampBefore := tr.amplitude()

	// Force the length counter to zero: position must stop advancing but
	// amplitude must keep returning the held sequence value, never 0,
	// unless the sequence itself happens to be at that step.
	tr.length = 0
	for i := 0; i < 50; i++ {
		tr.Process(11, uint32(i)*11)
	}

	assert.Equal(t, posBefore, tr.pos, "position advanced while length counter was zero")
	assert.Equal(t, ampBefore, tr.amplitude())
	assert.Equal(t, int32(triangleSequence[tr.pos]), tr.amplitude())
}

func TestTriangleLinearCounterGatesAdvance(t *testing.T) {
	mixer := NewMixer()
	tr := newTriangleChannel(mixer)
	tr.SetEnabled(true)
	tr.WriteControl(0x00) // halt clear, linear reload 0
	tr.WriteTimerLow(5)
	tr.WriteTimerHigh(0x08)
	tr.linearReloadFlag = false
	tr.linear = 0

	start := tr.pos
	for i := 0; i < 20; i++ {
		tr.Process(6, uint32(i)*6)
	}
	assert.Equal(t, start, tr.pos, "position advanced with a zero linear counter")
}

func TestTriangleSequenceWraps(t *testing.T) {
	mixer := NewMixer()
	tr := newTriangleChannel(mixer)
	tr.length = 1
	tr.linear = 1
	tr.pos = 31
	tr.divider = 1
	tr.periodCycles = 1
	tr.Process(1, 0)
	assert.Equal(t, uint8(0), tr.pos)
}
