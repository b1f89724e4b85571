package apu

// N106 implements Namco's 163 wavetable expansion chip: up to 8
// channels, each with its own frequency and wave-table window, sharing
// one 128-byte internal RAM. Only activeCount+1 channels are advanced per
// Process call, each by the full cycle count; the per-channel update rate
// does not drop as more channels are enabled. RAM is addressed through
// 0xF800 (address latch, optionally auto-incrementing) and 0x4800 (data
// port).
type N106 struct {
	mixer *Mixer

	ram           [128]uint8
	addr          uint8
	autoIncrement bool

	channels    [n106ChannelCount]n106Channel
	activeCount uint8
}

type n106Channel struct {
	id ChannelID

	freq       uint32
	phase      uint32
	waveStart  uint8
	waveLength uint16
	volume     uint8

	lastAmplitude int32
}

func NewN106(mixer *Mixer) *N106 {
	n := &N106{mixer: mixer}
	for i := range n.channels {
		n.channels[i].id = ChanN106First + ChannelID(i)
	}
	return n
}

func (c *N106) Reset() {
	mixer := c.mixer
	*c = N106{mixer: mixer}
	for i := range c.channels {
		c.channels[i].id = ChanN106First + ChannelID(i)
	}
}

func (c *N106) Write(addr uint16, value uint8) {
	switch addr {
	case n106AddrPort:
		c.addr = value & 0x7F
		c.autoIncrement = value&0x80 != 0
	case n106DataPort:
		c.writeRAM(value)
	}
}

func (c *N106) writeRAM(value uint8) {
	c.ram[c.addr&0x7F] = value
	c.decodeChannel(c.addr)
	if c.autoIncrement {
		c.addr = (c.addr + 1) & 0x7F
	}
}

// decodeChannel re-derives one channel's register fields from shared RAM
// after a write lands in its 8-byte register block (0x40-0x7F, 8 blocks
// of 8 bytes for the 8 possible channels).
func (c *N106) decodeChannel(addr uint8) {
	if addr < 0x40 {
		return
	}
	ch := (addr - 0x40) / 8
	if int(ch) >= len(c.channels) {
		return
	}
	reg := (addr - 0x40) % 8
	chn := &c.channels[ch]
	switch reg {
	case 0:
		chn.freq = (chn.freq &^ 0xFF) | uint32(c.ram[addr])
	case 2:
		chn.freq = (chn.freq &^ 0xFF00) | (uint32(c.ram[addr]) << 8)
	case 4:
		chn.freq = (chn.freq &^ 0x30000) | (uint32(c.ram[addr]&0x03) << 16)
		chn.waveLength = 256 - uint16(c.ram[addr]&^0x03)
	case 6:
		chn.waveStart = c.ram[addr]
	case 7:
		chn.volume = c.ram[addr] & 0x0F
		if int(ch) == len(c.channels)-1 {
			c.activeCount = (c.ram[addr] >> 4) & 0x07
		}
	}
}

func (c *N106) Read(addr uint16) (uint8, bool) {
	if addr == n106DataPort {
		v := c.ram[c.addr&0x7F]
		if c.autoIncrement {
			c.addr = (c.addr + 1) & 0x7F
		}
		return v, true
	}
	return 0, false
}

func (c *N106) Process(cycles, frameTime uint32) {
	active := int(c.activeCount) + 1
	if active > n106ChannelCount {
		active = n106ChannelCount
	}
	for i := 0; i < active; i++ {
		c.channels[i].process(cycles, frameTime, c.mixer, &c.ram)
	}
	for i := active; i < n106ChannelCount; i++ {
		c.channels[i].silence(cycles, frameTime, c.mixer)
	}
}

func (c *N106) EndFrame() {}

func (ch *n106Channel) process(cycles, frameTime uint32, m *Mixer, ram *[128]uint8) {
	if ch.freq == 0 || ch.waveLength == 0 {
		ch.silence(cycles, frameTime, m)
		return
	}
	span := uint32(ch.waveLength) << 16
	ch.phase = (ch.phase + ch.freq*cycles) % span
	idx := (ch.phase >> 16) % uint32(ch.waveLength)
	raw := ram[(ch.waveStart+uint8(idx))&0x7F]
	sample := int32(raw&0x0F) - 8
	amp := sample * int32(ch.volume) / 15
	ch.emit(m, amp, frameTime+cycles)
}

func (ch *n106Channel) silence(cycles, frameTime uint32, m *Mixer) {
	ch.emit(m, 0, frameTime+cycles)
}

func (ch *n106Channel) emit(m *Mixer, amp int32, t uint32) {
	delta := amp - ch.lastAmplitude
	if delta != 0 {
		m.AddDelta(ch.id, t, delta)
		ch.lastAmplitude = amp
	}
}
