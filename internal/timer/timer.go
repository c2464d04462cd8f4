package timer

// Timer holds the divider and counter registers at 0xFF04–0xFF07.
//
// Only the divider advances; TIMA, TMA and TAC are stored and read back
// unchanged. Software that waits on a timer overflow will not see one.
type Timer struct {
	div  uint16 // internal 16-bit divider; DIV is its high byte
	tima byte
	tma  byte
	tac  byte
}

func New() *Timer { return &Timer{} }

// Tick advances the divider by the given number of clocks.
func (t *Timer) Tick(cycles int) {
	t.div += uint16(cycles)
}

func (t *Timer) Read(addr uint16) byte {
	switch addr {
	case 0xFF04:
		return byte(t.div >> 8)
	case 0xFF05:
		return t.tima
	case 0xFF06:
		return t.tma
	case 0xFF07:
		return 0xF8 | t.tac&0x07
	default:
		return 0xFF
	}
}

func (t *Timer) Write(addr uint16, value byte) {
	switch addr {
	case 0xFF04:
		t.div = 0
	case 0xFF05:
		t.tima = value
	case 0xFF06:
		t.tma = value
	case 0xFF07:
		t.tac = value & 0x07
	}
}
