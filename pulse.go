package apu

// envelope is the shared decay-envelope unit used by both pulse
// channels and the noise channel.
type envelope struct {
	startFlag      bool
	divider        uint8
	decay          uint8
	loop           bool
	constantVolume bool
	volume         uint8 // also the envelope period when not constant
}

func (e *envelope) clock() {
	if e.startFlag {
		e.startFlag = false
		e.decay = 15
		e.divider = e.volume
		return
	}
	if e.divider == 0 {
		e.divider = e.volume
		if e.decay > 0 {
			e.decay--
		} else if e.loop {
			e.decay = 15
		}
		return
	}
	e.divider--
}

func (e *envelope) output() uint8 {
	if e.constantVolume {
		return e.volume
	}
	return e.decay
}

// sweepUnit implements the pulse frequency sweep, including the
// pulse1/pulse2 negate-polarity asymmetry (pulse1 uses ones' complement,
// pulse2 uses two's complement, so pulse1's target period is one lower).
type sweepUnit struct {
	enabled bool
	period  uint8
	negate  bool
	shift   uint8
	reload  bool
	divider uint8
	mute    bool
}

// PulseChannel is one of the two 2A03 pulse/square channels.
type PulseChannel struct {
	mixer *Mixer
	id    ChannelID
	ones  bool // true for pulse1 (sweep uses ones' complement negate)

	enabled bool

	dutyIndex uint8
	dutyPos   uint8

	period       uint16
	periodCycles uint32
	divider      uint32

	length     uint8
	lengthHalt bool

	env   envelope
	sweep sweepUnit

	sweepTarget int32

	lastAmplitude int32
}

func newPulseChannel(mixer *Mixer, id ChannelID, ones bool) *PulseChannel {
	p := &PulseChannel{mixer: mixer, id: id, ones: ones}
	p.updatePeriodCycles()
	return p
}

func (p *PulseChannel) Reset() {
	mixer, id, ones := p.mixer, p.id, p.ones
	*p = PulseChannel{mixer: mixer, id: id, ones: ones}
	p.updatePeriodCycles()
}

func (p *PulseChannel) updatePeriodCycles() {
	p.periodCycles = 2 * (uint32(p.period) + 1)
}

func (p *PulseChannel) recomputeMute() {
	change := int32(p.period >> p.sweep.shift)
	var target int32
	if p.sweep.negate {
		if p.ones {
			target = int32(p.period) - change - 1
		} else {
			target = int32(p.period) - change
		}
	} else {
		target = int32(p.period) + change
	}
	p.sweepTarget = target
	p.sweep.mute = p.period < 8 || target > 0x7FF
}

// chunkPeriod returns this channel's CPU-cycle tick period, used by APU
// to bound the chunk size shared with the other pulse channel.
func (p *PulseChannel) chunkPeriod() uint32 { return p.periodCycles }

func (p *PulseChannel) SetEnabled(en bool) {
	p.enabled = en
	if !en {
		p.length = 0
	}
}

func (p *PulseChannel) WriteControl(v uint8) {
	p.dutyIndex = v >> 6
	p.lengthHalt = v&0x20 != 0
	p.env.loop = p.lengthHalt
	p.env.constantVolume = v&0x10 != 0
	p.env.volume = v & 0x0F
}

func (p *PulseChannel) WriteSweep(v uint8) {
	p.sweep.enabled = v&0x80 != 0
	p.sweep.period = (v >> 4) & 0x07
	p.sweep.negate = v&0x08 != 0
	p.sweep.shift = v & 0x07
	p.sweep.reload = true
	p.recomputeMute()
}

func (p *PulseChannel) WriteTimerLow(v uint8) {
	p.period = (p.period &^ 0x0FF) | uint16(v)
	p.updatePeriodCycles()
	p.recomputeMute()
}

func (p *PulseChannel) WriteTimerHigh(v uint8) {
	p.period = (p.period & 0x0FF) | (uint16(v&0x07) << 8)
	p.updatePeriodCycles()
	p.recomputeMute()
	p.dutyPos = 0
	p.env.startFlag = true
	if p.enabled {
		p.length = lengthTable[v>>3]
	}
}

func (p *PulseChannel) clockEnvelope() { p.env.clock() }

func (p *PulseChannel) clockLength() {
	if !p.lengthHalt && p.length > 0 {
		p.length--
	}
}

func (p *PulseChannel) clockSweep() {
	p.recomputeMute()
	if p.sweep.divider == 0 && p.sweep.enabled && !p.sweep.mute && p.sweep.shift > 0 {
		p.period = uint16(p.sweepTarget)
		p.updatePeriodCycles()
		p.recomputeMute()
	}
	if p.sweep.divider == 0 || p.sweep.reload {
		p.sweep.divider = p.sweep.period
		p.sweep.reload = false
	} else {
		p.sweep.divider--
	}
}

func (p *PulseChannel) amplitude() int32 {
	if p.length == 0 || p.period < 8 || p.sweep.mute || dutyTable[p.dutyIndex][p.dutyPos] == 0 {
		return 0
	}
	return int32(p.env.output())
}

func (p *PulseChannel) emitAt(t uint32) {
	amp := p.amplitude()
	delta := amp - p.lastAmplitude
	if delta != 0 {
		p.mixer.AddDelta(p.id, t, delta)
		p.lastAmplitude = amp
	}
}

// Process advances the channel by cycles CPU cycles, starting at
// frameTime within the current frame.
func (p *PulseChannel) Process(cycles uint32, frameTime uint32) {
	ticks := divTick(&p.divider, p.periodCycles, cycles)
	if ticks > 0 {
		p.dutyPos = (p.dutyPos + uint8(ticks%8)) & 0x07
	}
	p.emitAt(frameTime + cycles)
}

// EndFrame flushes a final delta reflecting any state change (e.g. a
// length counter reaching zero) that hasn't yet been reflected in the
// mixer at the frame boundary.
func (p *PulseChannel) EndFrame(frameEnd uint32) {
	p.emitAt(frameEnd)
}
