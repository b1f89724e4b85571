package apu

type sequencerMode uint8

const (
	seq4Step sequencerMode = iota
	seq5Step
)

// FrameSequencer drives the 240Hz/120Hz/60Hz rate groups that clock
// envelopes, sweeps, length counters and (suppressed, see DESIGN.md) the
// frame IRQ. Step numbering and fire patterns follow APU.cpp's
// ClockSequence exactly.
type FrameSequencer struct {
	mode sequencerMode
	step uint8
}

func NewFrameSequencer() *FrameSequencer {
	return &FrameSequencer{mode: seq4Step}
}

func (s *FrameSequencer) Reset() {
	s.mode = seq4Step
	s.step = 0
}

// ClockSequence advances one step and reports which rate groups fire.
func (s *FrameSequencer) ClockSequence() (clk240, clk120, clk60 bool) {
	if s.mode == seq4Step {
		s.step = (s.step + 1) % 4
		switch s.step {
		case 0:
			clk240 = true
		case 1:
			clk240, clk120 = true, true
		case 2:
			clk240 = true
		case 3:
			clk240, clk120, clk60 = true, true, true
		}
		return
	}
	s.step = (s.step + 1) % 5
	switch s.step {
	case 0:
		clk240, clk120 = true, true
	case 1:
		clk240 = true
	case 2:
		clk240, clk120 = true, true
	case 3:
		clk240 = true
	case 4:
		// idle step
	}
	return
}

// WriteMode applies a $4017 write: resets the step counter, and if bit 7
// is set switches to 5-step mode and fires all three rate groups
// immediately.
func (s *FrameSequencer) WriteMode(v uint8) (clk240, clk120, clk60 bool) {
	s.step = 0
	if v&0x80 != 0 {
		s.mode = seq5Step
		return true, true, true
	}
	s.mode = seq4Step
	return false, false, false
}
