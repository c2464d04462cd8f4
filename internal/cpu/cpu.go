package cpu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"

// Processor is the instruction core driving a session. Each Step executes
// one instruction (or one idle period) and returns the machine cycles it
// took; the session feeds that count to every clocked peripheral.
type Processor interface {
	Step() int
}

// Interrupt bit positions shared by IF (0xFF0F) and IE (0xFFFF).
const (
	IntVBlank = 0
	IntSTAT   = 1
	IntTimer  = 2
	IntSerial = 3
	IntJoypad = 4
)

// Interrupts holds the two interrupt-control registers owned by the
// processor side. The bus reads and writes them; peripherals only Request.
type Interrupts struct {
	IF byte
	IE byte
}

// Request raises bit in IF.
func (in *Interrupts) Request(bit int) { in.IF |= 1 << uint(bit&0x1F) }

// Pending returns the enabled and requested bits.
func (in *Interrupts) Pending() byte { return in.IF & in.IE & 0x1F }

// ReadIF returns IF with the unused upper bits reading as 1.
func (in *Interrupts) ReadIF() byte   { return 0xE0 | in.IF&0x1F }
func (in *Interrupts) WriteIF(v byte) { in.IF = v & 0x1F }
func (in *Interrupts) ReadIE() byte   { return in.IE }
func (in *Interrupts) WriteIE(v byte) { in.IE = v }

// Flags is the processor's F register.
type Flags bits.Register

func (f Flags) Zero() bool      { return bits.Register(f).Bit(7) }
func (f Flags) Subtract() bool  { return bits.Register(f).Bit(6) }
func (f Flags) HalfCarry() bool { return bits.Register(f).Bit(5) }
func (f Flags) Carry() bool     { return bits.Register(f).Bit(4) }

// WithZNHC returns flags with all four condition bits replaced. The low
// nibble always reads as zero.
func (f Flags) WithZNHC(z, n, h, c bool) Flags {
	r := bits.Register(0).Set(7, z).Set(6, n).Set(5, h).Set(4, c)
	return Flags(r)
}
