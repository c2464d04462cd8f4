package ppu

import (
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logger"
)

const logTag = "ppu"

// InterruptRequester is a callback signature to request IF bits (0:VBlank, 1:STAT).
type InterruptRequester func(bit int)

const (
	intVBlank = 0
	intSTAT   = 1
)

// Mode is the value of STAT bits 0-1.
type Mode byte

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAM
	ModeVRAM
)

// Cycles spent in each mode. Every line is 456 cycles; a frame is 154
// lines.
const (
	oamCycles    = 80
	vramCycles   = 172
	hblankCycles = 204
	lineCycles   = oamCycles + vramCycles + hblankCycles
	visibleLines = 144
	totalLines   = 154

	// FrameCycles is the length of one frame with the display on.
	FrameCycles = lineCycles * totalLines
)

func (m Mode) cycles() int {
	switch m {
	case ModeOAM:
		return oamCycles
	case ModeVRAM:
		return vramCycles
	case ModeHBlank:
		return hblankCycles
	default:
		return lineCycles
	}
}

func (m Mode) String() string {
	switch m {
	case ModeHBlank:
		return "HBlank"
	case ModeVBlank:
		return "VBlank"
	case ModeOAM:
		return "OAM"
	default:
		return "VRAM"
	}
}

// Layers switches individual layers off for debugging. Hidden layers are
// still timed and still move the window line counter.
type Layers struct {
	Background bool
	Window     bool
	Sprites    bool
}

// AllLayers returns every layer visible.
func AllLayers() Layers { return Layers{Background: true, Window: true, Sprites: true} }

// PPU runs the LCD timing and draws scanlines into its frame buffer. VRAM
// and OAM belong to the bus; Tick is handed a Memory to read them.
type PPU struct {
	lcdc Control
	stat byte // enable bits 3-6 only; mode and coincidence are derived
	scy  byte
	scx  byte
	ly   byte
	lyc  byte
	bgp  Palette
	obp0 Palette
	obp1 Palette
	wy   byte
	wx   byte

	mode  Mode
	clock int // cycles spent in the current mode
	// window line counter: rows of the window drawn so far this frame
	winLine int

	fb      FrameBuffer
	frames  uint64
	onFrame func(Frame)
	layers  Layers

	req InterruptRequester
	log *logger.Logger
}

func New(req InterruptRequester, log *logger.Logger) *PPU {
	return &PPU{req: req, log: log, layers: AllLayers(), mode: ModeHBlank}
}

// OnFrame registers fn to receive every completed frame. fn gets a copy
// and may keep it.
func (p *PPU) OnFrame(fn func(Frame)) { p.onFrame = fn }

func (p *PPU) SetLayers(l Layers) { p.layers = l }
func (p *PPU) Layers() Layers     { return p.layers }

func (p *PPU) Mode() Mode           { return p.mode }
func (p *PPU) LY() byte             { return p.ly }
func (p *PPU) LCDC() Control        { return p.lcdc }
func (p *PPU) Frames() uint64       { return p.frames }
func (p *PPU) Buffer() *FrameBuffer { return &p.fb }

func (p *PPU) request(bit int) {
	if p.req != nil {
		p.req(bit)
	}
}

// ReadRegister answers FF40-FF45 and FF47-FF4B.
func (p *PPU) ReadRegister(addr uint16) byte {
	switch addr {
	case 0xFF40:
		return byte(p.lcdc)
	case 0xFF41:
		v := 0x80 | p.stat&0x78 | byte(p.mode)
		if p.ly == p.lyc {
			v |= 1 << 2
		}
		return v
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return byte(p.bgp)
	case 0xFF48:
		return byte(p.obp0)
	case 0xFF49:
		return byte(p.obp1)
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

func (p *PPU) WriteRegister(addr uint16, value byte) {
	switch addr {
	case 0xFF40:
		prev := p.lcdc
		p.lcdc = Control(value)
		switch {
		case prev.DisplayEnabled() && !p.lcdc.DisplayEnabled():
			p.ly, p.clock, p.winLine = 0, 0, 0
			p.mode = ModeHBlank
			p.log.Infof(logTag, "display off")
		case !prev.DisplayEnabled() && p.lcdc.DisplayEnabled():
			p.ly, p.clock, p.winLine = 0, 0, 0
			p.mode = ModeOAM
			p.log.Infof(logTag, "display on")
			p.compareLY()
		}
	case 0xFF41:
		p.stat = value & 0x78
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF44:
		// any write restarts the frame
		p.ly, p.clock, p.winLine = 0, 0, 0
		if p.lcdc.DisplayEnabled() {
			p.mode = ModeOAM
		}
		p.compareLY()
	case 0xFF45:
		p.lyc = value
		p.compareLY()
	case 0xFF47:
		p.bgp = Palette(value)
	case 0xFF48:
		p.obp0 = Palette(value)
	case 0xFF49:
		p.obp1 = Palette(value)
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	}
}

// Tick advances the LCD by the given number of cycles. Nothing happens
// while the display is off.
func (p *PPU) Tick(mem Memory, cycles int) {
	if !p.lcdc.DisplayEnabled() || cycles <= 0 {
		return
	}
	p.clock += cycles
	for p.clock >= p.mode.cycles() {
		p.clock -= p.mode.cycles()
		p.advance(mem)
		if !p.lcdc.DisplayEnabled() {
			return
		}
	}
}

// advance moves to the mode following the current one.
func (p *PPU) advance(mem Memory) {
	switch p.mode {
	case ModeOAM:
		p.setMode(ModeVRAM)
	case ModeVRAM:
		p.renderLine(mem)
		p.setMode(ModeHBlank)
	case ModeHBlank:
		p.ly++
		if int(p.ly) == visibleLines {
			p.setMode(ModeVBlank)
			p.request(intVBlank)
		} else {
			p.setMode(ModeOAM)
		}
		p.compareLY()
	case ModeVBlank:
		p.ly++
		if int(p.ly) == totalLines {
			p.ly = 0
			p.winLine = 0
			p.finishFrame()
			p.setMode(ModeOAM)
		}
		p.compareLY()
	}
}

func (p *PPU) setMode(m Mode) {
	p.mode = m
	var enable uint
	switch m {
	case ModeHBlank:
		enable = statHBlankInt
	case ModeVBlank:
		enable = statVBlankInt
	case ModeOAM:
		enable = statOAMInt
	default:
		return
	}
	if p.stat&(1<<enable) != 0 {
		p.request(intSTAT)
	}
}

func (p *PPU) compareLY() {
	if p.ly == p.lyc && p.stat&(1<<statLYCInt) != 0 {
		p.request(intSTAT)
	}
}

func (p *PPU) finishFrame() {
	p.frames++
	if p.onFrame != nil {
		p.onFrame(p.fb.Snapshot())
	}
	p.fb.Reset()
	p.log.Tracef(logTag, "frame %d done", p.frames)
}
