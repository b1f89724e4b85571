package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoiseLFSRShortModeTrajectory(t *testing.T) {
	mixer := NewMixer()
	n := newNoiseChannel(mixer)
	n.mode = true // tap bit 6, "short"/metallic mode
	n.lfsr = 1
	n.divider = 1
	n.periodCycles = 1

	for step := 0; step < 20; step++ {
		before := n.lfsr
		n.Process(1, 0)
		bit := (before ^ (before >> 6)) & 1
		want := (before >> 1) | (bit << 14)
		assert.Equal(t, want, n.lfsr, "step %d diverged from the bit-6 tap formula", step)
	}
}

func TestNoiseLFSRAdvancesPerTick(t *testing.T) {
	mixer := NewMixer()
	n := newNoiseChannel(mixer)
	n.lfsr = 1
	n.mode = false
	n.divider = 5
	n.periodCycles = 5

	before := n.lfsr
	n.Process(5, 0)
	assert.NotEqual(t, before, n.lfsr)

	// seed 1, tap bit 1: bit = (1 ^ (1>>1)) & 1 = 1, so bit 14 is set.
	assert.Equal(t, uint16(1<<14), n.lfsr&(1<<14))
}

func TestNoiseSilencedByLengthCounter(t *testing.T) {
	mixer := NewMixer()
	n := newNoiseChannel(mixer)
	n.lfsr = 2 // bit0 clear so amplitude would otherwise be non-zero
	n.env.constantVolume = true
	n.env.volume = 10
	n.length = 5
	assert.Equal(t, int32(10), n.amplitude())

	n.length = 0
	assert.Equal(t, int32(0), n.amplitude())
}

func TestNoiseSilencedWhenLFSRBit0Set(t *testing.T) {
	mixer := NewMixer()
	n := newNoiseChannel(mixer)
	n.lfsr = 1
	n.env.constantVolume = true
	n.env.volume = 10
	n.length = 5
	assert.Equal(t, int32(0), n.amplitude())
}

func TestNoiseChangeMachineSwapsPeriodTable(t *testing.T) {
	mixer := NewMixer()
	n := newNoiseChannel(mixer)
	// Index 0 is 4 cycles on both machines; index 2 differs.
	n.WritePeriod(0x02)
	ntscPeriod := n.periodCycles

	n.ChangeMachine(MachinePAL)
	n.WritePeriod(0x02)
	palPeriod := n.periodCycles

	assert.NotEqual(t, ntscPeriod, palPeriod)
	assert.Equal(t, uint32(noisePeriodTablePAL[2]), palPeriod)
}
