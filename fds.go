package apu

// fdsVolumeDivisor maps the 2-bit master volume field to the divisor
// applied to the raw 6-bit wave sample.
var fdsVolumeDivisor = [4]int32{1, 2, 4, 8}

// FDS implements the Famicom Disk System's wavetable expansion channel:
// a 64-sample, 6-bit user wave table, a slower modulator wave driving a
// pitch bias, and a master volume divider. The modulator's effect on
// pitch is accepted at the register level (so round-tripping register
// writes behaves correctly) but not applied to the audible signal; the
// hardware's modulation sweep/bias table is a level of timing detail this
// core does not model.
type FDS struct {
	mixer *Mixer
	id    ChannelID

	wave            [64]uint8
	waveWriteEnable bool

	enabled  bool
	freq     uint16
	haltWave bool
	phaseAcc uint32

	modFreq     uint16
	haltMod     bool
	modPhaseAcc uint32

	masterVolume uint8
	envSpeed     uint8

	lastAmplitude int32
}

func NewFDS(mixer *Mixer) *FDS {
	return &FDS{mixer: mixer, id: ChanFDS, enabled: true}
}

func (f *FDS) Reset() {
	mixer, id := f.mixer, f.id
	*f = FDS{mixer: mixer, id: id, enabled: true}
}

func (f *FDS) Write(addr uint16, value uint8) {
	switch {
	case addr == 0x4023:
		// Bit 0 is the master sound-enable latch shared with the 2A03
		// frame counter on real hardware; this chip only uses it to
		// gate the wave channel's output.
		f.enabled = value&0x01 != 0
	case addr >= fdsWaveBase && addr <= fdsWaveEnd:
		if f.waveWriteEnable {
			f.wave[addr-fdsWaveBase] = value & 0x3F
		}
	case addr == 0x4082:
		f.freq = (f.freq & 0x0F00) | uint16(value)
	case addr == 0x4083:
		f.freq = (f.freq & 0x00FF) | (uint16(value&0x0F) << 8)
		f.haltWave = value&0x80 != 0
	case addr == 0x4086:
		f.modFreq = (f.modFreq & 0x0F00) | uint16(value)
	case addr == 0x4087:
		f.modFreq = (f.modFreq & 0x00FF) | (uint16(value&0x0F) << 8)
		f.haltMod = value&0x80 != 0
	case addr == 0x4089:
		f.waveWriteEnable = value&0x80 != 0
		f.masterVolume = value & 0x03
	case addr == 0x408A:
		f.envSpeed = value
	}
}

func (f *FDS) Read(addr uint16) (uint8, bool) {
	switch {
	case addr == 0x4090 || addr == 0x4092:
		return 0, true
	case addr >= fdsWaveBase && addr <= fdsWaveEnd:
		return f.wave[addr-fdsWaveBase], true
	}
	return 0, false
}

func (f *FDS) Process(cycles, frameTime uint32) {
	if !f.enabled || f.haltWave || f.freq == 0 {
		f.emit(0, frameTime+cycles)
	} else {
		f.phaseAcc += uint32(f.freq) * cycles
		idx := (f.phaseAcc >> 16) & 0x3F
		sample := int32(f.wave[idx]) - 32
		f.emit(sample/fdsVolumeDivisor[f.masterVolume], frameTime+cycles)
	}
	if !f.haltMod {
		f.modPhaseAcc += uint32(f.modFreq) * cycles
	}
}

func (f *FDS) emit(amp int32, t uint32) {
	delta := amp - f.lastAmplitude
	if delta != 0 {
		f.mixer.AddDelta(f.id, t, delta)
		f.lastAmplitude = amp
	}
}

func (f *FDS) EndFrame() {}
