package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVRC6PulseDutyGating(t *testing.T) {
	mixer := NewMixer()
	v := NewVRC6(mixer)
	v.Write(vrc6Pulse1Base, 0x35)   // duty 3, volume 5
	v.Write(vrc6Pulse1Base+1, 0x10) // period low
	v.Write(vrc6Pulse1Base+2, 0x80) // enabled

	assert.True(t, v.pulse1.enabled)
	assert.Equal(t, uint8(3), v.pulse1.duty)
	assert.Equal(t, uint8(5), v.pulse1.volume)
}

func TestVRC6PulseModeBypassesDuty(t *testing.T) {
	mixer := NewMixer()
	v := NewVRC6(mixer)
	v.Write(vrc6Pulse1Base, 0x80|0x0A) // mode bit set, volume 10
	v.Write(vrc6Pulse1Base+2, 0x80)    // enabled, period 0

	v.Process(7, 0)
	assert.Equal(t, int32(10), v.pulse1.lastAmplitude)
}

func TestVRC6SawAccumulatorResetsEveryFourteenSteps(t *testing.T) {
	mixer := NewMixer()
	v := NewVRC6(mixer)
	v.Write(vrc6SawBase, 0x3F)      // max rate
	v.Write(vrc6SawBase+1, 0x00)    // period low 0
	v.Write(vrc6SawBase+2, 0x80)    // enabled, period high 0

	for i := 0; i < 20; i++ {
		v.saw.divider = 1
		v.Process(1, uint32(i))
	}
	assert.LessOrEqual(t, v.saw.step, uint8(13))
}

func TestVRC6SawDisabledEmitsZero(t *testing.T) {
	mixer := NewMixer()
	v := NewVRC6(mixer)
	v.saw.accum = 40
	v.saw.lastAmplitude = 5
	v.saw.enabled = false
	v.Process(7, 0)
	assert.Equal(t, int32(0), v.saw.lastAmplitude)
}
