package apu

// 2A03 register addresses, as published in NES hardware documentation.
const (
	regPulse1Control    uint16 = 0x4000
	regPulse1Sweep      uint16 = 0x4001
	regPulse1TimerLow   uint16 = 0x4002
	regPulse1TimerHigh  uint16 = 0x4003
	regPulse2Control    uint16 = 0x4004
	regPulse2Sweep      uint16 = 0x4005
	regPulse2TimerLow   uint16 = 0x4006
	regPulse2TimerHigh  uint16 = 0x4007
	regTriangleControl  uint16 = 0x4008
	regTriangleTimerLow uint16 = 0x400A
	regTriangleTimerHi  uint16 = 0x400B
	regNoiseControl     uint16 = 0x400C
	regNoisePeriod      uint16 = 0x400E
	regNoiseLength      uint16 = 0x400F
	regDPCMControl      uint16 = 0x4010
	regDPCMDirectLoad   uint16 = 0x4011
	regDPCMSampleAddr   uint16 = 0x4012
	regDPCMSampleLength uint16 = 0x4013
	regStatus           uint16 = 0x4015
	regFrameCounter     uint16 = 0x4017
)

// Expansion chip address ranges, as published by their respective
// mappers.
const (
	vrc6Pulse1Base uint16 = 0x9000
	vrc6Pulse2Base uint16 = 0xA000
	vrc6SawBase    uint16 = 0xB000

	vrc7AddrPort uint16 = 0x9010
	vrc7DataPort uint16 = 0x9030

	fdsWaveBase uint16 = 0x4040
	fdsWaveEnd  uint16 = 0x407F
	fdsRegBase  uint16 = 0x4080
	fdsRegEnd   uint16 = 0x4092

	mmc5Base uint16 = 0x5000
	mmc5End  uint16 = 0x5015

	n106DataPort uint16 = 0x4800
	n106AddrPort uint16 = 0xF800
)
