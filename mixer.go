package apu

import "math"

// maxFrameCyclesConst upper-bounds the number of master-clock cycles any
// single frame can span (PAL's ~33252 cycles/frame is the larger of the
// two machines) plus headroom for sequencer/budget drift.
const maxFrameCyclesConst = 40000

// mixFullScale converts the normalized 2A03 mix (0..1.0 before expansion
// chips and filtering) into int16 PCM headroom.
const mixFullScale = 20000.0

// mixerLine is one signed delta-accumulating line, grounded on the
// per-channel gain and accumulation model in §4.7 (data model) and on
// jonathandasilvasantos-2014-alphanes's Mixer, which keeps discrete
// per-source filter/accumulation state rather than summing raw samples
// up front.
type mixerLine struct {
	impulse []int32
	running int32
	gain    float64
}

// Mixer integrates per-channel amplitude deltas on the master-clock
// timeline, combines them with the classic NES non-linear pulse/TND
// formula plus a linear expansion-chip sum, runs the result through a
// low-cut/high-cut filter pair, and resamples down to the host rate.
// The filter coefficients and the non-linear mix formula are grounded on
// other_examples/jonathandasilvasantos-2014-alphanes's apu/mixer.go.
type Mixer struct {
	lines    map[ChannelID]*mixerLine
	chipGain map[Chip]float64

	clockRate  uint32
	sampleRate uint32
	channels   int

	cyclesPerSample float64
	frac            float64

	lowCut, highCut, highDamp, volume int
	lowCutAlpha, highCutAlpha         float64
	volumeScale                       float64

	hpPrevIn, hpPrevOut float64
	lpPrevOut           float64

	pcm     []int16
	pcmCap  int
	pcmLen  int

	vrc7Gain  float64
	vrc7Queue []float64
}

// NewMixer constructs a Mixer with the five fixed 2A03 lines already
// registered at unity gain.
func NewMixer() *Mixer {
	m := &Mixer{
		lines:       make(map[ChannelID]*mixerLine),
		chipGain:    make(map[Chip]float64),
		volumeScale: 1.0,
	}
	for _, id := range []ChannelID{ChanPulse1, ChanPulse2, ChanTriangle, ChanNoise, ChanDPCM} {
		m.lines[id] = &mixerLine{impulse: make([]int32, maxFrameCyclesConst), gain: 1.0}
	}
	return m
}

// AddDelta records a signed amplitude change for a channel at a given
// offset (in master-clock cycles) within the current frame. Channels
// compute the delta themselves from their own last-emitted amplitude;
// the mixer only integrates it.
func (m *Mixer) AddDelta(id ChannelID, time uint32, delta int32) {
	line := m.lines[id]
	if line == nil || delta == 0 {
		return
	}
	if time >= uint32(len(line.impulse)) {
		time = uint32(len(line.impulse)) - 1
	}
	line.impulse[time] += delta
}

// PushVRC7Sample queues one host-rate PCM sample produced directly by
// the VRC7 FM synth, bypassing delta synthesis per §4.1/§4.8.
func (m *Mixer) PushVRC7Sample(sample float64) {
	m.vrc7Queue = append(m.vrc7Queue, sample)
}

// SetVRC7Gain sets VRC7's output gain, stored apart from the per-chip
// delta-line gain table since VRC7 never writes a delta line.
func (m *Mixer) SetVRC7Gain(gain float64) {
	m.vrc7Gain = gain
}

// SetChipGain sets the gain applied to every delta line owned by chip,
// live for lines that already exist and remembered for lines created
// later by SetActiveChips.
func (m *Mixer) SetChipGain(chip Chip, gain float64) {
	m.chipGain[chip] = gain
	for id, line := range m.lines {
		if chipOfChannel(id) == chip {
			line.gain = gain
		}
	}
}

func (m *Mixer) ensureLine(id ChannelID) {
	if _, ok := m.lines[id]; ok {
		return
	}
	gain := 1.0
	if g, ok := m.chipGain[chipOfChannel(id)]; ok {
		gain = g
	}
	m.lines[id] = &mixerLine{impulse: make([]int32, maxFrameCyclesConst), gain: gain}
}

func (m *Mixer) removeLine(id ChannelID) {
	delete(m.lines, id)
}

// SetActiveChips creates or removes the expansion delta lines named by
// mask. The five fixed 2A03 lines are never touched. VRC7 has no delta
// line (it renders direct PCM), so ChipVRC7 is a no-op here.
func (m *Mixer) SetActiveChips(mask Chip) {
	if mask&ChipVRC6 != 0 {
		m.ensureLine(ChanVRC6Pulse1)
		m.ensureLine(ChanVRC6Pulse2)
		m.ensureLine(ChanVRC6Saw)
	} else {
		m.removeLine(ChanVRC6Pulse1)
		m.removeLine(ChanVRC6Pulse2)
		m.removeLine(ChanVRC6Saw)
	}
	if mask&ChipFDS != 0 {
		m.ensureLine(ChanFDS)
	} else {
		m.removeLine(ChanFDS)
	}
	if mask&ChipMMC5 != 0 {
		m.ensureLine(ChanMMC5Pulse1)
		m.ensureLine(ChanMMC5Pulse2)
		m.ensureLine(ChanMMC5PCM)
	} else {
		m.removeLine(ChanMMC5Pulse1)
		m.removeLine(ChanMMC5Pulse2)
		m.removeLine(ChanMMC5PCM)
	}
	if mask&ChipN106 != 0 {
		for i := 0; i < n106ChannelCount; i++ {
			m.ensureLine(ChanN106First + ChannelID(i))
		}
	} else {
		for i := 0; i < n106ChannelCount; i++ {
			m.removeLine(ChanN106First + ChannelID(i))
		}
	}
}

// SetClockRate sets the master clock the delta lines are timestamped
// against and recomputes the cycles-per-host-sample ratio.
func (m *Mixer) SetClockRate(hz uint32) {
	m.clockRate = hz
	m.recomputeRate()
}

func (m *Mixer) recomputeRate() {
	if m.sampleRate == 0 {
		return
	}
	m.cyclesPerSample = float64(m.clockRate) / float64(m.sampleRate)
}

// AllocateBuffer sizes the mixer's output buffer for samplesPerFrame
// mono frames (plus headroom) at the given host sample rate and channel
// count, returning false if the parameters can't produce a usable
// buffer.
func (m *Mixer) AllocateBuffer(samplesPerFrame, sampleRate, channels int) bool {
	if samplesPerFrame <= 0 || sampleRate <= 0 || (channels != 1 && channels != 2) {
		return false
	}
	m.sampleRate = uint32(sampleRate)
	m.channels = channels
	const margin = 64
	m.pcmCap = samplesPerFrame + margin
	m.pcm = make([]int16, m.pcmCap)
	m.pcmLen = 0
	m.recomputeRate()
	m.recomputeFilters()
	return true
}

// UpdateSettings sets the filter/volume parameters applied at FinishBuffer
// time; lowCut/highCut are in Hz, highDamp and volume are 0-100 style
// parameters matching the original CMixer::UpdateSettings contract.
func (m *Mixer) UpdateSettings(lowCut, highCut, highDamp, volume int) {
	m.lowCut = lowCut
	m.highCut = highCut
	m.highDamp = highDamp
	m.volume = volume
	m.recomputeFilters()
}

func (m *Mixer) recomputeFilters() {
	sr := float64(m.sampleRate)
	if sr <= 0 {
		sr = 44100
	}
	if m.lowCut > 0 {
		m.lowCutAlpha = 1.0 - math.Exp(-2.0*math.Pi*float64(m.lowCut)/sr)
	} else {
		m.lowCutAlpha = 0
	}
	cutoff := float64(m.highCut)
	if cutoff <= 0 {
		cutoff = sr / 2
	}
	damp := 1.0 + float64(m.highDamp)/100.0
	alpha := 1.0 - math.Exp(-2.0*math.Pi*cutoff*damp/sr)
	if alpha > 1 {
		alpha = 1
	}
	m.highCutAlpha = alpha
	if m.volume > 0 {
		m.volumeScale = float64(m.volume) / 100.0
	} else {
		m.volumeScale = 1.0
	}
}

// ClearBuffer resets all accumulation and filter state, used by Reset.
func (m *Mixer) ClearBuffer() {
	for _, line := range m.lines {
		line.running = 0
		for i := range line.impulse {
			line.impulse[i] = 0
		}
	}
	m.frac = 0
	m.hpPrevIn, m.hpPrevOut, m.lpPrevOut = 0, 0, 0
	m.pcmLen = 0
	m.vrc7Queue = m.vrc7Queue[:0]
}

// FinishBuffer integrates every line's pending deltas across the given
// number of master-clock cycles, emitting one filtered, resampled host
// sample whenever the fractional cycle accumulator crosses a sample
// boundary. It returns how many host samples were produced.
func (m *Mixer) FinishBuffer(cycles uint32) int {
	if m.cyclesPerSample <= 0 {
		return 0
	}
	produced := 0
	for t := uint32(0); t < cycles; t++ {
		for _, line := range m.lines {
			if t >= uint32(len(line.impulse)) {
				continue
			}
			if d := line.impulse[t]; d != 0 {
				line.running += int32(float64(d) * line.gain)
				line.impulse[t] = 0
			}
		}
		m.frac++
		for m.frac >= m.cyclesPerSample {
			m.frac -= m.cyclesPerSample
			m.emit()
			produced++
		}
	}
	return produced
}

func (m *Mixer) mix2A03() float64 {
	p1 := float64(m.lines[ChanPulse1].running)
	p2 := float64(m.lines[ChanPulse2].running)
	tr := float64(m.lines[ChanTriangle].running)
	no := float64(m.lines[ChanNoise].running)
	dm := float64(m.lines[ChanDPCM].running)

	var pulseOut float64
	if sum := p1 + p2; sum > 0 {
		pulseOut = 95.88 / (8128.0/sum + 100.0)
	}
	var tndOut float64
	if tnd := tr/8227.0 + no/12241.0 + dm/22638.0; tnd > 0 {
		tndOut = 159.79 / (1.0/tnd + 100.0)
	}
	return pulseOut + tndOut
}

// expansionNormalization approximates, per expansion channel, a mixing
// weight that keeps expansion chips roughly balanced against the 2A03
// mix. Real hardware mixing ratios for multi-expansion carts are a
// matter of cartridge analog design this core does not model precisely;
// these weights are a simplification.
func expansionNormalization(id ChannelID) float64 {
	switch id {
	case ChanVRC6Pulse1, ChanVRC6Pulse2:
		return 0.5 / 15.0
	case ChanVRC6Saw:
		return 0.5 / 63.0
	case ChanMMC5Pulse1, ChanMMC5Pulse2:
		return 0.5 / 15.0
	case ChanMMC5PCM:
		return 0.5 / 255.0
	case ChanFDS:
		return 0.5 / 63.0
	default:
		return 0.25 / 15.0
	}
}

func (m *Mixer) mixExpansion() float64 {
	var sum float64
	for id, line := range m.lines {
		switch id {
		case ChanPulse1, ChanPulse2, ChanTriangle, ChanNoise, ChanDPCM:
			continue
		}
		sum += float64(line.running) * expansionNormalization(id)
	}
	return sum
}

func (m *Mixer) emit() {
	mix := m.mix2A03() + m.mixExpansion()
	if len(m.vrc7Queue) > 0 {
		mix += m.vrc7Queue[0] * m.vrc7Gain
		m.vrc7Queue = m.vrc7Queue[1:]
	}

	hp := mix - m.hpPrevIn + (1-m.lowCutAlpha)*m.hpPrevOut
	m.hpPrevIn = mix
	m.hpPrevOut = hp

	lp := m.lpPrevOut + m.highCutAlpha*(hp-m.lpPrevOut)
	m.lpPrevOut = lp

	out := lp * m.volumeScale * mixFullScale
	if out > 32767 {
		out = 32767
	}
	if out < -32768 {
		out = -32768
	}
	m.pushSample(int16(out))
}

func (m *Mixer) pushSample(v int16) {
	if m.pcmLen >= m.pcmCap {
		return
	}
	m.pcm[m.pcmLen] = v
	m.pcmLen++
}

// ReadBuffer copies up to nSamples mono frames into dst, duplicating
// each into left/right when stereo is true, and returns how many frames
// were copied. Any samples not consumed remain queued for the next call.
func (m *Mixer) ReadBuffer(nSamples int, dst []int16, stereo bool) int {
	avail := m.pcmLen
	if nSamples < avail {
		avail = nSamples
	}
	idx := 0
	for i := 0; i < avail; i++ {
		dst[idx] = m.pcm[i]
		idx++
		if stereo {
			dst[idx] = m.pcm[i]
			idx++
		}
	}
	remaining := m.pcmLen - avail
	if remaining > 0 {
		copy(m.pcm, m.pcm[avail:avail+remaining])
	}
	m.pcmLen = remaining
	return avail
}
