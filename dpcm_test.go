package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSampleMemory struct {
	data map[uint16]uint8
}

func (m *fakeSampleMemory) ReadSample(addr uint16) uint8 {
	return m.data[addr]
}

func TestDPCMPlaybackDeltaSteps(t *testing.T) {
	mem := &fakeSampleMemory{data: map[uint16]uint8{0xC000: 0xFF}}
	mixer := NewMixer()
	d := newDPCMChannel(mixer, mem)

	d.WriteSampleAddress(0x00) // 0xC000
	d.WriteSampleLength(0x00)  // 1 byte
	d.WriteDirectLoad(64)
	d.SetEnabled(true)
	// A fresh divider sits at 0 and would clock at once; start it one full
	// period out so each Process call below spans exactly one output clock.
	d.divider = d.periodCycles

	for i := 0; i < 8; i++ {
		before := d.delta
		d.Process(d.periodCycles, uint32(i)*d.periodCycles)
		assert.Equal(t, before+2, d.delta, "each set bit should step the DAC by +2")
	}
}

func TestDPCMLoopSaturatesAtUpperBound(t *testing.T) {
	mem := &fakeSampleMemory{data: map[uint16]uint8{0xC000: 0xFF}}
	mixer := NewMixer()
	d := newDPCMChannel(mixer, mem)

	d.WriteSampleAddress(0x00)
	d.WriteSampleLength(0x00)
	d.WriteControl(0x40) // loop enabled, rate index 0
	d.WriteDirectLoad(126)
	d.SetEnabled(true)

	for i := 0; i < 64; i++ {
		d.Process(d.periodCycles, uint32(i)*d.periodCycles)
	}

	assert.LessOrEqual(t, d.delta, int32(127))
	assert.True(t, d.DPCMPlaying(), "looped sample should never exhaust bytesRemaining")
}

func TestDPCMExhaustionWithoutLoopNeverDeliversIRQDirectly(t *testing.T) {
	mem := &fakeSampleMemory{data: map[uint16]uint8{0xC000: 0x00}}
	mixer := NewMixer()
	d := newDPCMChannel(mixer, mem)

	d.WriteSampleAddress(0x00)
	d.WriteSampleLength(0x00) // 1 byte
	d.WriteControl(0x80)      // IRQ enable latch set, loop off
	d.SetEnabled(true)

	for i := 0; i < 8; i++ {
		d.Process(d.periodCycles, uint32(i)*d.periodCycles)
	}

	assert.True(t, d.irqFlag, "latch should still be set internally")
	assert.False(t, d.DPCMPlaying())
	// The core never surfaces this as a delivered CPU interrupt; GetReg
	// and the public API expose no path that fires an IRQ from it.
}

func TestDPCMDirectLoadClampsTo7Bits(t *testing.T) {
	mixer := NewMixer()
	d := newDPCMChannel(mixer, &fakeSampleMemory{data: map[uint16]uint8{}})
	d.WriteDirectLoad(0xFF)
	assert.Equal(t, int32(0x7F), d.delta)
}
