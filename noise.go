package apu

// NoiseChannel is the 2A03 noise channel: a 15-bit linear feedback shift
// register clocked through one of two tap modes.
type NoiseChannel struct {
	mixer *Mixer
	id    ChannelID

	enabled bool

	periodCycles uint32
	divider      uint32
	mode         bool // true selects the short/"metallic" tap (bit 6)

	lfsr uint16

	length uint8
	halt   bool

	env envelope

	lastAmplitude int32

	machine Machine
}

func newNoiseChannel(mixer *Mixer) *NoiseChannel {
	n := &NoiseChannel{mixer: mixer, id: ChanNoise, lfsr: 1}
	n.periodCycles = uint32(noisePeriodTableNTSC[0])
	return n
}

func (n *NoiseChannel) Reset() {
	mixer, id, machine := n.mixer, n.id, n.machine
	*n = NoiseChannel{mixer: mixer, id: id, lfsr: 1, machine: machine}
	n.applyPeriodIndex(0)
}

func (n *NoiseChannel) chunkPeriod() uint32 { return n.periodCycles }

func (n *NoiseChannel) SetEnabled(en bool) {
	n.enabled = en
	if !en {
		n.length = 0
	}
}

// ChangeMachine swaps the noise period table without otherwise
// disturbing channel state.
func (n *NoiseChannel) ChangeMachine(m Machine) {
	n.machine = m
}

func (n *NoiseChannel) periodTable() *[16]uint16 {
	if n.machine == MachinePAL {
		return &noisePeriodTablePAL
	}
	return &noisePeriodTableNTSC
}

func (n *NoiseChannel) applyPeriodIndex(idx uint8) {
	n.periodCycles = uint32(n.periodTable()[idx&0x0F])
}

func (n *NoiseChannel) WriteControl(v uint8) {
	n.halt = v&0x20 != 0
	n.env.loop = n.halt
	n.env.constantVolume = v&0x10 != 0
	n.env.volume = v & 0x0F
}

func (n *NoiseChannel) WritePeriod(v uint8) {
	n.mode = v&0x80 != 0
	n.applyPeriodIndex(v & 0x0F)
}

func (n *NoiseChannel) WriteLength(v uint8) {
	if n.enabled {
		n.length = lengthTable[v>>3]
	}
	n.env.startFlag = true
}

func (n *NoiseChannel) clockEnvelope() { n.env.clock() }

func (n *NoiseChannel) clockLength() {
	if !n.halt && n.length > 0 {
		n.length--
	}
}

func (n *NoiseChannel) amplitude() int32 {
	if n.length == 0 || n.lfsr&1 != 0 {
		return 0
	}
	return int32(n.env.output())
}

func (n *NoiseChannel) emitAt(at uint32) {
	amp := n.amplitude()
	delta := amp - n.lastAmplitude
	if delta != 0 {
		n.mixer.AddDelta(n.id, at, delta)
		n.lastAmplitude = amp
	}
}

func (n *NoiseChannel) Process(cycles uint32, frameTime uint32) {
	ticks := divTick(&n.divider, n.periodCycles, cycles)
	tap := uint16(1)
	if n.mode {
		tap = 6
	}
	for i := uint32(0); i < ticks; i++ {
		bit := (n.lfsr ^ (n.lfsr >> tap)) & 1
		n.lfsr = (n.lfsr >> 1) | (bit << 14)
	}
	n.emitAt(frameTime + cycles)
}

func (n *NoiseChannel) EndFrame(frameEnd uint32) {
	n.emitAt(frameEnd)
}
