package emu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/bus"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cart"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/joypad"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logger"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/serial"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/timer"
)

const logTag = "emu"

// ErrNoProgress is returned when the processor reports a step of zero or
// fewer cycles.
var ErrNoProgress = errors.New("emu: processor made no progress")

type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

func (b Buttons) mask() byte {
	var mask byte
	if b.Right {
		mask |= joypad.JoypRight
	}
	if b.Left {
		mask |= joypad.JoypLeft
	}
	if b.Up {
		mask |= joypad.JoypUp
	}
	if b.Down {
		mask |= joypad.JoypDown
	}
	if b.A {
		mask |= joypad.JoypA
	}
	if b.B {
		mask |= joypad.JoypB
	}
	if b.Select {
		mask |= joypad.JoypSelect
	}
	if b.Start {
		mask |= joypad.JoypStart
	}
	return mask
}

// Machine is one emulated session. It owns the cartridge, the bus, the PPU
// and every peripheral; the bus only borrows them.
//
// Step and RunFrame belong to a single driving goroutine. SetButtons,
// SetLayers, Layers, Frames, LastFrame and BackgroundMap may be called from
// any goroutine.
type Machine struct {
	cfg Config
	log *logger.Logger

	cart   *cart.Cartridge
	bus    *bus.Bus
	ppu    *ppu.PPU
	cpu    cpu.Processor
	ints   *cpu.Interrupts
	timer  *timer.Timer
	serial *serial.Port
	pad    *joypad.Pad

	cycles uint64

	mu         sync.Mutex
	last       ppu.Frame
	frames     uint64
	bgMap      []ppu.Shade
	bgWanted   bool
	onFrame    func(ppu.Frame)
	layers     ppu.Layers
	layersDirt bool
}

// New builds a session. save is the persisted cartridge RAM, boot an
// optional boot image; without one the machine starts in the state the
// boot image would have left behind.
func New(cfg Config, rom, save, boot []byte, log *logger.Logger) (*Machine, error) {
	switch {
	case cfg.Silent:
		log.SetLevel(logger.Silent)
	case cfg.Trace:
		log.Defer(logger.Trace)
	}

	c, err := cart.New(rom, save, log)
	if err != nil {
		return nil, err
	}

	m := &Machine{cfg: cfg, log: log, cart: c, ints: &cpu.Interrupts{}, timer: timer.New()}
	m.serial = serial.New(cfg.SerialEcho, m.ints.Request, log)
	m.pad = joypad.New(m.ints.Request)
	m.ppu = ppu.New(m.ints.Request, log)
	m.ppu.SetLayers(cfg.layers())
	m.ppu.OnFrame(m.deliver)
	m.layers = cfg.layers()

	var opts []bus.Option
	if len(boot) > 0 {
		opts = append(opts, bus.WithBootROM(boot))
	}
	m.bus = bus.New(c, bus.Peripherals{
		Video:      m.ppu,
		Timer:      m.timer,
		Serial:     m.serial,
		Joypad:     m.pad,
		Interrupts: m.ints,
	}, log, opts...)
	m.cpu = cpu.NewHalted(m.ints)

	if len(boot) == 0 {
		m.applyDMGPostBootIO()
		log.Release()
		if err := m.bus.Err(); err != nil {
			return nil, fmt.Errorf("emu: post-boot setup: %w", err)
		}
	}
	return m, nil
}

// applyDMGPostBootIO sets a minimal set of IO registers to DMG post-boot defaults,
// so ROMs can start from PC=0x0100 without a boot ROM and still have LCD enabled.
func (m *Machine) applyDMGPostBootIO() {
	b := m.bus
	// Joypad: no group selected, high bits set
	b.Write(0xFF00, 0xCF)
	// Timers
	b.Write(0xFF05, 0x00) // TIMA
	b.Write(0xFF06, 0x00) // TMA
	b.Write(0xFF07, 0x00) // TAC (disabled)
	// PPU regs (enable LCD, BG/window; default palettes)
	b.Write(0xFF40, 0x91) // LCDC: LCD on, BG on, tile data 8000, BG map 9800, sprites off
	b.Write(0xFF42, 0x00) // SCY
	b.Write(0xFF43, 0x00) // SCX
	b.Write(0xFF45, 0x00) // LYC
	b.Write(0xFF47, 0xFC) // BGP
	b.Write(0xFF48, 0xFF) // OBP0
	b.Write(0xFF49, 0xFF) // OBP1
	b.Write(0xFF4A, 0x00) // WY
	b.Write(0xFF4B, 0x00) // WX
	// IE: none enabled by default
	b.Write(0xFFFF, 0x00)
}

// SetProcessor replaces the instruction core. The default is a halted
// stand-in that only services interrupts.
func (m *Machine) SetProcessor(p cpu.Processor) { m.cpu = p }

// Bus exposes the address space to a processor implementation.
func (m *Machine) Bus() *bus.Bus { return m.bus }

// Interrupts exposes IF/IE to a processor implementation.
func (m *Machine) Interrupts() *cpu.Interrupts { return m.ints }

func (m *Machine) Header() *cart.Header { return m.cart.Header }
func (m *Machine) Cycles() uint64       { return m.cycles }

// Step runs one processor step and feeds its cycles to the clocked
// peripherals. A fatal bus access stops the session: it is returned here
// and from every later call.
func (m *Machine) Step() (int, error) {
	if err := m.bus.Err(); err != nil {
		return 0, err
	}
	n := m.cpu.Step()
	if n <= 0 {
		return 0, fmt.Errorf("%w: step returned %d cycles", ErrNoProgress, n)
	}
	m.timer.Tick(n)
	m.ppu.Tick(m.bus, n)
	if page, ok := m.bus.TakeDMA(); ok {
		m.log.Tracef(logTag, "OAM DMA from %02X00 at cycle %d", page, m.cycles)
	}
	m.cycles += uint64(n)
	return n, m.bus.Err()
}

// RunFrame steps until a frame completes or a frame's worth of cycles has
// passed, whichever comes first. The second bound keeps a session with the
// display off from running forever.
func (m *Machine) RunFrame() error {
	m.applyLayers()
	start := m.ppu.Frames()
	for spent := 0; spent < ppu.FrameCycles; {
		n, err := m.Step()
		if err != nil {
			return err
		}
		spent += n
		if m.ppu.Frames() != start {
			break
		}
	}
	return nil
}

// OnFrame registers fn to receive every completed frame on the driving
// goroutine. The frame is a copy.
func (m *Machine) OnFrame(fn func(ppu.Frame)) {
	m.mu.Lock()
	m.onFrame = fn
	m.mu.Unlock()
}

func (m *Machine) deliver(f ppu.Frame) {
	m.mu.Lock()
	wanted := m.bgWanted
	m.mu.Unlock()
	var bg []ppu.Shade
	if wanted && m.cfg.DebugView && !m.cfg.Headless {
		bg = m.ppu.BackgroundMap(m.bus)
	}
	m.mu.Lock()
	m.last = f
	m.frames = m.ppu.Frames()
	if bg != nil {
		m.bgMap = bg
	}
	fn := m.onFrame
	m.mu.Unlock()
	if fn != nil {
		fn(f)
	}
}

// LastFrame returns the most recently completed frame.
func (m *Machine) LastFrame() ppu.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Frames returns the number of completed frames.
func (m *Machine) Frames() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

// BackgroundMap returns the background plane captured with the last frame,
// or nil when the debug view is off. The plane is only built once some
// frontend has asked for it, so the first call returns nil.
func (m *Machine) BackgroundMap() []ppu.Shade {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bgWanted = true
	if m.bgMap == nil {
		return nil
	}
	return append([]ppu.Shade(nil), m.bgMap...)
}

func (m *Machine) SetButtons(b Buttons) { m.pad.SetPressed(b.mask()) }

// SetLayers changes the visible layers from the next RunFrame on.
func (m *Machine) SetLayers(l ppu.Layers) {
	m.mu.Lock()
	m.layers = l
	m.layersDirt = true
	m.mu.Unlock()
}

func (m *Machine) Layers() ppu.Layers {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layers
}

func (m *Machine) applyLayers() {
	m.mu.Lock()
	if m.layersDirt {
		m.ppu.SetLayers(m.layers)
		m.layersDirt = false
	}
	m.mu.Unlock()
}

// SaveRAM returns the cartridge RAM image to persist, or nil when the
// cartridge has none.
func (m *Machine) SaveRAM() []byte { return m.cart.SaveRAM() }
