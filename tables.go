package apu

// Machine selects the timing base the core runs at.
type Machine int

const (
	MachineNTSC Machine = iota
	MachinePAL
)

// Base clock and frame rates, taken directly from APU.cpp's constants.
const (
	baseFreqNTSC = 1789773
	baseFreqPAL  = 1662607

	frameRateNTSC = 60
	frameRatePAL  = 50

	// sequencerPeriod is the fixed cycle count between frame-sequencer
	// steps, independent of machine.
	sequencerPeriod uint32 = 7458
)

// lengthTable converts a 5-bit length-counter index into its initial
// countdown value.
var lengthTable = [32]uint8{
	0x0A, 0xFE, 0x14, 0x02, 0x28, 0x04, 0x50, 0x06,
	0xA0, 0x08, 0x3C, 0x0A, 0x0E, 0x0C, 0x1A, 0x0E,
	0x0C, 0x10, 0x18, 0x12, 0x30, 0x14, 0x60, 0x16,
	0xC0, 0x18, 0x48, 0x1A, 0x10, 0x1C, 0x20, 0x1E,
}

// dutyTable holds the four pulse duty-cycle waveforms, 8 steps each.
var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

// triangleSequence is the 32-step triangle waveform, ascending then
// descending through all 16 levels.
var triangleSequence = [32]uint8{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
}

// noisePeriodTable gives the timer reload value for each of the 16 noise
// period indices, one table per machine.
var noisePeriodTableNTSC = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

var noisePeriodTablePAL = [16]uint16{
	4, 7, 14, 30, 60, 88, 118, 148, 188, 236, 354, 472, 708, 944, 1890, 3778,
}

// dmcRateTable gives the DPCM output-unit period for each of the 16 rate
// indices, one table per machine.
var dmcRateTableNTSC = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214,
	190, 160, 142, 128, 106, 84, 72, 54,
}

var dmcRateTablePAL = [16]uint16{
	398, 354, 316, 298, 276, 236, 210, 198,
	176, 148, 132, 118, 98, 78, 66, 50,
}
