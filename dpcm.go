package apu

// SampleMemory is the client-supplied accessor DPCM playback reads
// sample bytes through. A tracker or player backs this with whatever it
// uses for cartridge PRG/sample memory; the core never assumes a memory
// layout beyond the 0x8000-0xFFFF address space real DPCM hardware can
// address.
type SampleMemory interface {
	ReadSample(addr uint16) uint8
}

// DPCMChannel is the 2A03 delta-modulation playback channel.
type DPCMChannel struct {
	mixer *Mixer
	id    ChannelID
	mem   SampleMemory

	enabled bool
	loop    bool

	irqEnabledLatch bool
	irqFlag         bool

	periodCycles uint32
	divider      uint32

	sampleAddress uint16
	sampleLength  uint16

	currentAddress uint16
	bytesRemaining uint16

	bitBuffer   uint8
	bitsLeft    uint8
	bufferEmpty bool

	delta int32

	lastAmplitude int32

	machine Machine
}

func newDPCMChannel(mixer *Mixer, mem SampleMemory) *DPCMChannel {
	d := &DPCMChannel{mixer: mixer, id: ChanDPCM, mem: mem, bufferEmpty: true}
	d.applyRateIndex(0)
	return d
}

func (d *DPCMChannel) Reset() {
	mixer, id, mem, machine := d.mixer, d.id, d.mem, d.machine
	*d = DPCMChannel{mixer: mixer, id: id, mem: mem, bufferEmpty: true, machine: machine}
	d.applyRateIndex(0)
}

func (d *DPCMChannel) chunkPeriod() uint32 { return d.periodCycles }

func (d *DPCMChannel) ChangeMachine(m Machine) { d.machine = m }

func (d *DPCMChannel) rateTable() *[16]uint16 {
	if d.machine == MachinePAL {
		return &dmcRateTablePAL
	}
	return &dmcRateTableNTSC
}

func (d *DPCMChannel) applyRateIndex(idx uint8) {
	d.periodCycles = uint32(d.rateTable()[idx&0x0F])
}

func (d *DPCMChannel) SetEnabled(en bool) {
	d.enabled = en
	if !en {
		d.bytesRemaining = 0
		return
	}
	if d.bytesRemaining == 0 {
		d.currentAddress = d.sampleAddress
		d.bytesRemaining = d.sampleLength
	}
}

func (d *DPCMChannel) WriteControl(v uint8) {
	d.irqEnabledLatch = v&0x80 != 0
	d.loop = v&0x40 != 0
	d.applyRateIndex(v & 0x0F)
	if !d.irqEnabledLatch {
		d.irqFlag = false
	}
}

func (d *DPCMChannel) WriteDirectLoad(v uint8) {
	d.delta = int32(v & 0x7F)
}

func (d *DPCMChannel) WriteSampleAddress(v uint8) {
	d.sampleAddress = 0xC000 + uint16(v)*64
}

func (d *DPCMChannel) WriteSampleLength(v uint8) {
	d.sampleLength = uint16(v)*16 + 1
}

func (d *DPCMChannel) fillBuffer() {
	if !d.bufferEmpty || d.bytesRemaining == 0 {
		return
	}
	d.bitBuffer = d.mem.ReadSample(d.currentAddress)
	d.bitsLeft = 8
	d.bufferEmpty = false
	if d.currentAddress == 0xFFFF {
		d.currentAddress = 0x8000
	} else {
		d.currentAddress++
	}
	d.bytesRemaining--
	if d.bytesRemaining == 0 {
		if d.loop {
			d.currentAddress = d.sampleAddress
			d.bytesRemaining = d.sampleLength
		} else if d.irqEnabledLatch {
			d.irqFlag = true
		}
	}
}

func (d *DPCMChannel) tick() {
	d.fillBuffer()
	if d.bufferEmpty {
		return
	}
	bit := d.bitBuffer & 1
	d.bitBuffer >>= 1
	d.bitsLeft--
	if bit == 1 {
		if d.delta <= 125 {
			d.delta += 2
		}
	} else {
		if d.delta >= 2 {
			d.delta -= 2
		}
	}
	if d.bitsLeft == 0 {
		d.bufferEmpty = true
	}
}

func (d *DPCMChannel) amplitude() int32 { return d.delta }

func (d *DPCMChannel) emitAt(at uint32) {
	amp := d.amplitude()
	delta := amp - d.lastAmplitude
	if delta != 0 {
		d.mixer.AddDelta(d.id, at, delta)
		d.lastAmplitude = amp
	}
}

func (d *DPCMChannel) Process(cycles uint32, frameTime uint32) {
	ticks := divTick(&d.divider, d.periodCycles, cycles)
	for i := uint32(0); i < ticks; i++ {
		d.tick()
	}
	d.emitAt(frameTime + cycles)
}

func (d *DPCMChannel) EndFrame(frameEnd uint32) {
	d.emitAt(frameEnd)
}

// DPCMPlaying reports whether the channel still has sample data queued
// or buffered.
func (d *DPCMChannel) DPCMPlaying() bool {
	return d.bytesRemaining > 0 || !d.bufferEmpty
}

// GetSamplePos returns the current read position as an offset into the
// 0x0000-0x3FFF sample address space (i.e. relative to 0x8000, wrapped
// to 14 bits the way FamiTracker's debug views expect).
func (d *DPCMChannel) GetSamplePos() uint16 {
	return (d.currentAddress - 0x8000) & 0x3FFF
}

// GetDeltaCounter returns the current 7-bit DAC level.
func (d *DPCMChannel) GetDeltaCounter() uint8 {
	return uint8(d.delta)
}
