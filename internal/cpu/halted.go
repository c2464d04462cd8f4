package cpu

// cyclesPerIdle is one machine cycle of a halted SM83 (four clocks).
const cyclesPerIdle = 4

// Halted stands in for an instruction core: it behaves like a processor
// parked in HALT with IME set. Each step burns one machine cycle; an
// enabled, requested interrupt is acknowledged (its IF bit cleared) and
// costs the 20 clocks of dispatch. It lets the video and timer side of a
// session run without decoding any code.
type Halted struct {
	Ints *Interrupts

	// Serviced counts acknowledged interrupts by bit.
	Serviced [5]int
}

// NewHalted returns a stand-in bound to ints.
func NewHalted(ints *Interrupts) *Halted { return &Halted{Ints: ints} }

func (h *Halted) Step() int {
	p := h.Ints.Pending()
	if p == 0 {
		return cyclesPerIdle
	}
	for bit := 0; bit < 5; bit++ {
		if p&(1<<uint(bit)) != 0 {
			h.Ints.IF &^= 1 << uint(bit)
			h.Serviced[bit]++
			break
		}
	}
	return 20
}
