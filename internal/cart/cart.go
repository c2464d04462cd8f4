package cart

import (
	"errors"
	"fmt"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logger"
)

var (
	// ErrHeader means the image has no usable header.
	ErrHeader = errors.New("cart: bad header")
	// ErrUnsupportedType is returned for controllers outside {none, MBC1, MBC3}.
	ErrUnsupportedType = errors.New("cart: unsupported cartridge type")
	// ErrSaveSize is returned when a persisted RAM image does not match the
	// size declared by the header.
	ErrSaveSize = errors.New("cart: save RAM size mismatch")
)

const (
	romBankSize = 0x4000
	ramBankSize = 0x2000
	openBus     = 0xFF
	logTag      = "cart"
)

// Kind selects the bank-switching controller. The set is closed; Read and
// Write switch on it directly.
type Kind int

const (
	NoMBC Kind = iota
	MBC1
	MBC3
)

func (k Kind) String() string {
	switch k {
	case NoMBC:
		return "none"
	case MBC1:
		return "MBC1"
	case MBC3:
		return "MBC3"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindFor maps a header cartridge-type byte to a controller.
func KindFor(cartType byte) (Kind, error) {
	switch cartType {
	case 0x00:
		return NoMBC, nil
	case 0x01, 0x02, 0x03:
		return MBC1, nil
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return MBC3, nil
	default:
		return 0, fmt.Errorf("%w: %#02x (%s)", ErrUnsupportedType, cartType, cartTypeString(cartType))
	}
}

// Cartridge owns the ROM image and the external RAM image. Only the bus
// calls Read and Write; addresses are CPU addresses in 0x0000–0x7FFF and
// 0xA000–0xBFFF.
type Cartridge struct {
	Header *Header

	kind Kind
	rom  []byte
	ram  []byte

	romBank    byte // selected bank for 0x4000-0x7FFF
	ramBank    byte
	ramEnabled bool

	// MBC3: 0xA000-0xBFFF maps RAM rather than an RTC register
	ramOverRTC bool
	rtcSelect  byte

	log *logger.Logger
}

// New builds the cartridge described by rom's header. save is the persisted
// RAM image: empty means a fresh zero-filled RAM, otherwise its length must
// equal the header's declared RAM size.
func New(rom, save []byte, log *logger.Logger) (*Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	kind, err := KindFor(h.CartType)
	if err != nil {
		return nil, err
	}

	ram := make([]byte, h.RAMSizeBytes)
	switch {
	case len(save) == 0:
	case len(save) == len(ram):
		copy(ram, save)
	default:
		return nil, fmt.Errorf("%w: got %d bytes, header declares %d", ErrSaveSize, len(save), len(ram))
	}

	c := &Cartridge{
		Header:     h,
		kind:       kind,
		rom:        rom,
		ram:        ram,
		romBank:    1,
		ramOverRTC: true,
		log:        log,
	}
	log.Infof(logTag, "%q type=%s controller=%s rom=%dB ram=%dB", h.Title, h.CartTypeStr, kind, len(rom), len(ram))
	if h.ROMSizeBytes != len(rom) {
		log.Warnf(logTag, "header declares %d ROM bytes, image has %d", h.ROMSizeBytes, len(rom))
	}
	return c, nil
}

// Kind returns the controller variant.
func (c *Cartridge) Kind() Kind { return c.kind }

// ROMBank returns the bank mapped at 0x4000–0x7FFF.
func (c *Cartridge) ROMBank() int { return int(c.romBank) }

// RAMBank returns the selected external RAM bank.
func (c *Cartridge) RAMBank() int { return int(c.ramBank) }

// RAMEnabled reports whether external RAM accepts reads and writes.
func (c *Cartridge) RAMEnabled() bool { return c.ramEnabled }

func (c *Cartridge) Read(addr uint16) byte {
	switch c.kind {
	case MBC1:
		return c.readMBC1(addr)
	case MBC3:
		return c.readMBC3(addr)
	default:
		return c.readROMOnly(addr)
	}
}

func (c *Cartridge) Write(addr uint16, value byte) {
	switch c.kind {
	case MBC1:
		c.writeMBC1(addr, value)
	case MBC3:
		c.writeMBC3(addr, value)
	default:
		c.writeROMOnly(addr, value)
	}
}

// SaveRAM returns a copy of external RAM for persistence. It is nil when the
// cartridge has no RAM.
func (c *Cartridge) SaveRAM() []byte {
	if len(c.ram) == 0 {
		return nil
	}
	out := make([]byte, len(c.ram))
	copy(out, c.ram)
	return out
}

// romAt reads from a 16 KiB bank. Banks past the end of the image wrap, as
// the unconnected high bank lines do on hardware.
func (c *Cartridge) romAt(bank int, addr uint16) byte {
	banks := len(c.rom) / romBankSize
	if banks == 0 {
		if int(addr) < len(c.rom) {
			return c.rom[addr]
		}
		return openBus
	}
	off := (bank%banks)*romBankSize + int(addr&(romBankSize-1))
	return c.rom[off]
}

// ramOffset maps 0xA000–0xBFFF into the RAM image for the selected bank.
func (c *Cartridge) ramOffset(addr uint16) (int, bool) {
	if len(c.ram) == 0 {
		return 0, false
	}
	off := int(addr-0xA000) + ramBankSize*int(c.ramBank)
	return off % len(c.ram), true
}
