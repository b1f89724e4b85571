package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPU(t *testing.T) *APU {
	t.Helper()
	a := New(&fakeSampleMemory{data: map[uint16]uint8{}})
	require.True(t, a.SetupSound(44100, 1, MachineNTSC))
	return a
}

func TestAPUResetSilencesEveryChannel(t *testing.T) {
	a := newTestAPU(t)
	assert.Equal(t, uint8(0), a.GetVol(ChanPulse1))
	assert.Equal(t, uint8(0), a.GetVol(ChanPulse2))
	assert.Equal(t, uint8(0), a.GetVol(ChanTriangle))
	assert.Equal(t, uint8(0), a.GetVol(ChanNoise))
	assert.Equal(t, uint8(0), a.GetVol(ChanDPCM))
}

func TestAPUPulseA4NTSCProducesOneFrameOfPCM(t *testing.T) {
	a := newTestAPU(t)

	var captured []int16
	var calls int
	a.SetSink(func(samples []int16, userdata any) {
		calls++
		captured = append(captured, samples...)
	}, nil)

	a.Write(regStatus, 0x01) // enable pulse1
	a.Write(regPulse1Control, 0xBF)
	a.Write(regPulse1TimerLow, 0xFD)
	a.Write(regPulse1TimerHigh, 0x00)

	a.AddCycles(int32(baseFreqNTSC / frameRateNTSC))
	a.Process()

	require.Equal(t, 1, calls)
	// 44100 / 60 == 735 mono samples for one NTSC frame, give or take
	// resampler rounding.
	assert.InDelta(t, 735, len(captured), 2)

	var minV, maxV int16
	for _, s := range captured {
		if s < minV {
			minV = s
		}
		if s > maxV {
			maxV = s
		}
	}
	assert.Greater(t, maxV-minV, int16(100), "expected an audible square tone, not silence")
}

func TestAPUWrite4017Bit7FiresAllRateGroupsImmediately(t *testing.T) {
	a := newTestAPU(t)
	a.Write(regStatus, 0x0F)
	a.Write(regPulse1Control, 0x1F) // halt clear, constant volume, so length actually counts down
	a.Write(regPulse1TimerLow, 100)
	a.Write(regPulse1TimerHigh, 0x08)
	lenBefore := a.pulse1.length

	a.Write(regFrameCounter, 0x80)

	assert.Less(t, a.pulse1.length, lenBefore, "120Hz length clock should have fired immediately")
}

func TestAPUChangeMachineResizesFrame(t *testing.T) {
	a := newTestAPU(t)

	var got int
	a.SetSink(func(samples []int16, userdata any) { got = len(samples) }, nil)

	a.ChangeMachine(MachinePAL)
	a.AddCycles(int32(baseFreqPAL / frameRatePAL))
	a.Process()

	assert.InDelta(t, 882, got, 2) // 44100 / 50, plus or minus resampler rounding
}

func TestAPUExternalReadOpenBusWithNoChipActive(t *testing.T) {
	a := newTestAPU(t)
	assert.Equal(t, uint8(0x90), a.ExternalRead(vrc6Pulse1Base))
}

func TestAPUSetExternalSoundRoundTripMatchesFreshMask(t *testing.T) {
	a := newTestAPU(t)
	a.SetExternalSound(ChipVRC6 | ChipN106)
	a.ExternalWrite(n106AddrPort, 0x00)
	a.ExternalWrite(n106DataPort, 0xAB)

	a.SetExternalSound(0)
	a.SetExternalSound(ChipVRC6 | ChipN106)

	_, ok := a.mixer.lines[ChanVRC6Pulse1]
	assert.True(t, ok)
	a.ExternalWrite(n106AddrPort, 0x00)
	assert.Equal(t, uint8(0), a.ExternalRead(n106DataPort), "N106 RAM should be zeroed by the Reset SetExternalSound triggers")
}

func TestAPUSetChipLevelZeroDBIsIdentity(t *testing.T) {
	a := newTestAPU(t)
	a.SetExternalSound(ChipVRC6)
	before := a.mixer.lines[ChanVRC6Pulse1].gain

	a.SetChipLevel(ChipVRC6, 0)

	assert.Equal(t, before, a.mixer.lines[ChanVRC6Pulse1].gain)
	assert.Equal(t, 1.0, a.mixer.lines[ChanVRC6Pulse1].gain)
}

func TestAPUCyclesProcessedMatchesCyclesAdded(t *testing.T) {
	a := newTestAPU(t)
	a.SetSink(func(samples []int16, userdata any) {}, nil)

	const total = int32(5000000)
	var added int32
	for added < total {
		chunk := int32(12345)
		if added+chunk > total {
			chunk = total - added
		}
		a.AddCycles(chunk)
		added += chunk
		a.Process()
	}
	assert.Equal(t, uint32(0), a.cyclesToRun)
}
