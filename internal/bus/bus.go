package bus

import (
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logger"
)

const logTag = "bus"

// Cartridge serves 0000-7FFF and A000-BFFF.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// Device is a peripheral answering its own I/O addresses.
type Device interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// Video answers the LCD registers at FF40-FF4B, except FF46.
type Video interface {
	ReadRegister(addr uint16) byte
	WriteRegister(addr uint16, value byte)
}

// InterruptController owns IF (FF0F) and IE (FFFF).
type InterruptController interface {
	ReadIF() byte
	WriteIF(value byte)
	ReadIE() byte
	WriteIE(value byte)
}

// Peripherals are the devices the bus routes I/O to. The bus borrows them;
// the session owns them. A nil entry reads 0xFF and drops writes.
type Peripherals struct {
	Video      Video
	Timer      Device
	Serial     Device
	Joypad     Device
	Interrupts InterruptController
}

// Bus routes the 16-bit address space. It owns VRAM, WRAM, OAM and HRAM,
// all zeroed at construction.
type Bus struct {
	cart Cartridge
	dev  Peripherals
	log  *logger.Logger

	vram [0x2000]byte
	wram [0x2000]byte
	oam  [0xA0]byte
	hram [0x7F]byte

	boot       []byte
	bootActive bool

	dmaReg     byte
	dmaPending bool

	err error
}

// Option configures a Bus.
type Option func(*Bus)

// WithBootROM overlays img on the low 256 bytes until FF50 is written.
func WithBootROM(img []byte) Option {
	return func(b *Bus) {
		if len(img) == 0 {
			return
		}
		n := len(img)
		if n > 0x100 {
			n = 0x100
		}
		b.boot = append([]byte(nil), img[:n]...)
		b.bootActive = true
	}
}

func New(cart Cartridge, dev Peripherals, log *logger.Logger, opts ...Option) *Bus {
	if dev.Video == nil {
		dev.Video = nopVideo{}
	}
	if dev.Timer == nil {
		dev.Timer = nopDevice{}
	}
	if dev.Serial == nil {
		dev.Serial = nopDevice{}
	}
	if dev.Joypad == nil {
		dev.Joypad = nopDevice{}
	}
	if dev.Interrupts == nil {
		dev.Interrupts = nopInterrupts{}
	}
	b := &Bus{cart: cart, dev: dev, log: log}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Err returns the first fatal access, or nil. Once set it never changes.
func (b *Bus) Err() error { return b.err }

// BootActive reports whether the boot overlay is still mapped.
func (b *Bus) BootActive() bool { return b.bootActive }

// TakeDMA reports whether an OAM DMA ran since the last call and from which
// source page. The copy itself has already happened; a caller wanting the
// processor stall can charge it here.
func (b *Bus) TakeDMA() (page byte, ok bool) {
	ok = b.dmaPending
	b.dmaPending = false
	return b.dmaReg, ok
}

func (b *Bus) fault(op string, addr uint16, value byte, err error) {
	if b.err != nil {
		return
	}
	b.err = &AccessError{Op: op, Addr: addr, Value: value, Err: err}
	b.log.Warnf(logTag, "%v", b.err)
}

func (b *Bus) Read(addr uint16) byte {
	switch Classify(addr) {
	case RegionROM0:
		if b.bootActive && int(addr) < len(b.boot) {
			return b.boot[addr]
		}
		return b.cart.Read(addr)
	case RegionROMX, RegionCartRAM:
		return b.cart.Read(addr)
	case RegionVRAM:
		return b.vram[addr-0x8000]
	case RegionWRAM:
		return b.wram[addr-0xC000]
	case RegionEcho:
		return b.wram[addr-0xE000]
	case RegionOAM:
		return b.oam[addr-0xFE00]
	case RegionUnusable:
		b.log.Warnf(logTag, "read of unusable %04X", addr)
		return 0xFF
	case RegionIO:
		return b.readIO(addr)
	case RegionHRAM:
		return b.hram[addr-0xFF80]
	case RegionIE:
		return b.dev.Interrupts.ReadIE()
	}
	b.fault("read", addr, 0, ErrUnmapped)
	return 0xFF
}

func (b *Bus) Write(addr uint16, value byte) {
	switch Classify(addr) {
	case RegionROM0, RegionROMX, RegionCartRAM:
		b.cart.Write(addr, value)
	case RegionVRAM:
		b.vram[addr-0x8000] = value
	case RegionWRAM:
		b.wram[addr-0xC000] = value
	case RegionEcho:
		b.wram[addr-0xE000] = value
	case RegionOAM:
		b.oam[addr-0xFE00] = value
	case RegionUnusable:
		b.log.Warnf(logTag, "write %02X to unusable %04X dropped", value, addr)
	case RegionIO:
		b.writeIO(addr, value)
	case RegionHRAM:
		b.hram[addr-0xFF80] = value
	case RegionIE:
		b.dev.Interrupts.WriteIE(value)
	default:
		b.fault("write", addr, value, ErrUnmapped)
	}
}

// ReadWord reads a little-endian 16-bit value; the high byte comes from
// addr+1, wrapping at FFFF.
func (b *Bus) ReadWord(addr uint16) uint16 {
	lo := b.Read(addr)
	hi := b.Read(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// WriteWord stores v little-endian at addr and addr+1.
func (b *Bus) WriteWord(addr uint16, v uint16) {
	b.Write(addr, byte(v))
	b.Write(addr+1, byte(v>>8))
}

type nopDevice struct{}

func (nopDevice) Read(uint16) byte   { return 0xFF }
func (nopDevice) Write(uint16, byte) {}

type nopVideo struct{}

func (nopVideo) ReadRegister(uint16) byte   { return 0xFF }
func (nopVideo) WriteRegister(uint16, byte) {}

type nopInterrupts struct{}

func (nopInterrupts) ReadIF() byte  { return 0xFF }
func (nopInterrupts) WriteIF(byte)  {}
func (nopInterrupts) ReadIE() byte  { return 0xFF }
func (nopInterrupts) WriteIE(byte)  {}
