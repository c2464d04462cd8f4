package bus

import "fmt"

// Region names one slice of the 16-bit address space.
type Region int

const (
	RegionROM0     Region = iota // 0000-3FFF cartridge, fixed bank
	RegionROMX                   // 4000-7FFF cartridge, switchable bank
	RegionVRAM                   // 8000-9FFF
	RegionCartRAM                // A000-BFFF cartridge RAM
	RegionWRAM                   // C000-DFFF
	RegionEcho                   // E000-FDFF mirror of C000-DDFF
	RegionOAM                    // FE00-FE9F
	RegionUnusable               // FEA0-FEFF
	RegionIO                     // FF00-FF7F
	RegionHRAM                   // FF80-FFFE
	RegionIE                     // FFFF
)

var regionNames = [...]string{
	RegionROM0:     "ROM0",
	RegionROMX:     "ROMX",
	RegionVRAM:     "VRAM",
	RegionCartRAM:  "SRAM",
	RegionWRAM:     "WRAM",
	RegionEcho:     "ECHO",
	RegionOAM:      "OAM",
	RegionUnusable: "UNUSABLE",
	RegionIO:       "IO",
	RegionHRAM:     "HRAM",
	RegionIE:       "IE",
}

func (r Region) String() string {
	if r >= 0 && int(r) < len(regionNames) {
		return regionNames[r]
	}
	return fmt.Sprintf("Region(%d)", int(r))
}

// Cartridge reports whether the region is served by the cartridge.
func (r Region) Cartridge() bool {
	return r == RegionROM0 || r == RegionROMX || r == RegionCartRAM
}

// Classify returns the region an address belongs to. Every address maps to
// exactly one region.
func Classify(addr uint16) Region {
	switch {
	case addr <= 0x3FFF:
		return RegionROM0
	case addr <= 0x7FFF:
		return RegionROMX
	case addr <= 0x9FFF:
		return RegionVRAM
	case addr <= 0xBFFF:
		return RegionCartRAM
	case addr <= 0xDFFF:
		return RegionWRAM
	case addr <= 0xFDFF:
		return RegionEcho
	case addr <= 0xFE9F:
		return RegionOAM
	case addr <= 0xFEFF:
		return RegionUnusable
	case addr <= 0xFF7F:
		return RegionIO
	case addr <= 0xFFFE:
		return RegionHRAM
	default:
		return RegionIE
	}
}
