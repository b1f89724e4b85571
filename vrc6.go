package apu

// VRC6 implements Konami's VRC6 mapper sound: two pulse channels without
// sweep, and a sawtooth accumulator channel. Register layout grounded on
// the public VRC6 audio documentation cited in SPEC_FULL.md §4.9.
type VRC6 struct {
	mixer *Mixer

	pulse1, pulse2 vrc6Pulse
	saw            vrc6Saw
}

func NewVRC6(mixer *Mixer) *VRC6 {
	return &VRC6{
		mixer:  mixer,
		pulse1: vrc6Pulse{id: ChanVRC6Pulse1},
		pulse2: vrc6Pulse{id: ChanVRC6Pulse2},
		saw:    vrc6Saw{id: ChanVRC6Saw},
	}
}

func (c *VRC6) Reset() {
	c.pulse1 = vrc6Pulse{id: ChanVRC6Pulse1}
	c.pulse2 = vrc6Pulse{id: ChanVRC6Pulse2}
	c.saw = vrc6Saw{id: ChanVRC6Saw}
}

func (c *VRC6) Write(addr uint16, value uint8) {
	switch addr {
	case vrc6Pulse1Base:
		c.pulse1.writeControl(value)
	case vrc6Pulse1Base + 1:
		c.pulse1.writePeriodLow(value)
	case vrc6Pulse1Base + 2:
		c.pulse1.writePeriodHigh(value)
	case vrc6Pulse2Base:
		c.pulse2.writeControl(value)
	case vrc6Pulse2Base + 1:
		c.pulse2.writePeriodLow(value)
	case vrc6Pulse2Base + 2:
		c.pulse2.writePeriodHigh(value)
	case vrc6SawBase:
		c.saw.writeControl(value)
	case vrc6SawBase + 1:
		c.saw.writePeriodLow(value)
	case vrc6SawBase + 2:
		c.saw.writePeriodHigh(value)
	}
}

func (c *VRC6) Read(addr uint16) (uint8, bool) { return 0, false }

func (c *VRC6) Process(cycles, frameTime uint32) {
	c.pulse1.process(cycles, frameTime, c.mixer)
	c.pulse2.process(cycles, frameTime, c.mixer)
	c.saw.process(cycles, frameTime, c.mixer)
}

func (c *VRC6) EndFrame() {}

type vrc6Pulse struct {
	id ChannelID

	enabled bool
	mode    bool // ignore duty, output constant volume
	duty    uint8
	volume  uint8

	period  uint16
	divider uint32
	pos     uint8

	lastAmplitude int32
}

func (p *vrc6Pulse) writeControl(v uint8) {
	p.mode = v&0x80 != 0
	p.duty = (v >> 4) & 0x07
	p.volume = v & 0x0F
}

func (p *vrc6Pulse) writePeriodLow(v uint8) {
	p.period = (p.period &^ 0x0FF) | uint16(v)
}

func (p *vrc6Pulse) writePeriodHigh(v uint8) {
	p.enabled = v&0x80 != 0
	p.period = (p.period & 0x0FF) | (uint16(v&0x0F) << 8)
}

func (p *vrc6Pulse) process(cycles, frameTime uint32, m *Mixer) {
	if !p.enabled {
		p.emit(m, 0, frameTime+cycles)
		return
	}
	ticks := divTick(&p.divider, uint32(p.period)+1, cycles)
	if ticks > 0 {
		p.pos = (p.pos + uint8(ticks%16)) & 0x0F
	}
	var amp int32
	if p.mode || p.pos <= p.duty {
		amp = int32(p.volume)
	}
	p.emit(m, amp, frameTime+cycles)
}

func (p *vrc6Pulse) emit(m *Mixer, amp int32, t uint32) {
	delta := amp - p.lastAmplitude
	if delta != 0 {
		m.AddDelta(p.id, t, delta)
		p.lastAmplitude = amp
	}
}

type vrc6Saw struct {
	id ChannelID

	enabled bool
	rate    uint8

	period  uint16
	divider uint32

	accum uint8
	step  uint8

	lastAmplitude int32
}

func (s *vrc6Saw) writeControl(v uint8) {
	s.rate = v & 0x3F
}

func (s *vrc6Saw) writePeriodLow(v uint8) {
	s.period = (s.period &^ 0x0FF) | uint16(v)
}

func (s *vrc6Saw) writePeriodHigh(v uint8) {
	s.enabled = v&0x80 != 0
	s.period = (s.period & 0x0FF) | (uint16(v&0x0F) << 8)
	if !s.enabled {
		s.accum = 0
		s.step = 0
	}
}

func (s *vrc6Saw) process(cycles, frameTime uint32, m *Mixer) {
	if !s.enabled {
		s.emit(m, 0, frameTime+cycles)
		return
	}
	ticks := divTick(&s.divider, uint32(s.period)+1, cycles)
	for i := uint32(0); i < ticks; i++ {
		s.step++
		if s.step&1 == 0 {
			s.accum += s.rate
		}
		if s.step >= 14 {
			s.step = 0
			s.accum = 0
		}
	}
	s.emit(m, int32(s.accum>>3), frameTime+cycles)
}

func (s *vrc6Saw) emit(m *Mixer, amp int32, t uint32) {
	delta := amp - s.lastAmplitude
	if delta != 0 {
		m.AddDelta(s.id, t, delta)
		s.lastAmplitude = amp
	}
}
