package joypad

import "sync"

// Button bits as held in a pressed mask. The low nibble is the direction
// group, the high nibble the action group, in P1 bit order.
const (
	JoypRight  = 1 << 0
	JoypLeft   = 1 << 1
	JoypUp     = 1 << 2
	JoypDown   = 1 << 3
	JoypA      = 1 << 4
	JoypB      = 1 << 5
	JoypSelect = 1 << 6
	JoypStart  = 1 << 7
)

const intJoypad = 4

// Pad is the P1 register at 0xFF00. The frontend updates the pressed mask
// from its own goroutine while the emulation loop reads the register, so
// both sides go through mu.
type Pad struct {
	mu      sync.Mutex
	sel     byte // bits 4-5 as last written; 0 selects a group
	pressed byte

	request func(bit int)
}

// New returns a pad with nothing pressed and no group selected. request,
// when non-nil, raises the joypad interrupt on a new press in a selected
// group.
func New(request func(bit int)) *Pad {
	return &Pad{sel: 0x30, request: request}
}

// SetPressed replaces the pressed mask.
func (p *Pad) SetPressed(mask byte) {
	p.mu.Lock()
	fresh := mask &^ p.pressed
	p.pressed = mask
	raise := fresh != 0 && p.lines(fresh) != 0x0F
	p.mu.Unlock()
	if raise && p.request != nil {
		p.request(intJoypad)
	}
}

// Pressed returns the current mask.
func (p *Pad) Pressed() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pressed
}

func (p *Pad) Read(addr uint16) byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return 0xC0 | p.sel | p.lines(p.pressed)
}

func (p *Pad) Write(addr uint16, value byte) {
	p.mu.Lock()
	p.sel = value & 0x30
	p.mu.Unlock()
}

// lines returns the active-low input nibble for mask under the current
// selection. Callers hold mu.
func (p *Pad) lines(mask byte) byte {
	var low byte
	if p.sel&0x10 == 0 {
		low |= mask & 0x0F
	}
	if p.sel&0x20 == 0 {
		low |= mask >> 4
	}
	return ^low & 0x0F
}
