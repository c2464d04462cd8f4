package cart

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	headerStart = 0x0100
	headerEnd   = 0x014F
)

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// Header is the cartridge metadata at 0x0100–0x014F. It is read once when
// the cartridge is built and never changes afterwards.
type Header struct {
	EntryPoint       [4]byte // 0x0100-0x0103
	LogoOK           bool    // 0x0104-0x0133 matches the boot logo
	Title            string  // 0x0134-0x013E (trimmed ASCII)
	ManufacturerCode string  // 0x013F-0x0142
	CGBFlag          byte    // 0x0143
	NewLicensee      string  // 0x0144-0x0145 (ASCII), if old==0x33
	SGBFlag          byte    // 0x0146
	CartType         byte    // 0x0147
	ROMSizeCode      byte    // 0x0148
	RAMSizeCode      byte    // 0x0149
	Destination      byte    // 0x014A
	OldLicensee      byte    // 0x014B
	ROMVersion       byte    // 0x014C
	HeaderChecksum   byte    // 0x014D
	GlobalChecksum   uint16  // 0x014E-0x014F

	// Decoded helpers
	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	CartTypeStr  string
}

// ParseHeader decodes the header. It fails only when the image is too short
// or a size code is not one the hardware defines.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, fmt.Errorf("%w: image is %d bytes, need at least %d", ErrHeader, len(rom), headerEnd+1)
	}

	h := &Header{
		LogoOK:           true,
		Title:            strings.TrimRight(string(rom[0x0134:0x013F]), "\x00"),
		ManufacturerCode: strings.TrimRight(string(rom[0x013F:0x0143]), "\x00"),
		CGBFlag:          rom[0x0143],
		NewLicensee:      string(rom[0x0144:0x0146]),
		SGBFlag:          rom[0x0146],
		CartType:         rom[0x0147],
		ROMSizeCode:      rom[0x0148],
		RAMSizeCode:      rom[0x0149],
		Destination:      rom[0x014A],
		OldLicensee:      rom[0x014B],
		ROMVersion:       rom[0x014C],
		HeaderChecksum:   rom[0x014D],
		GlobalChecksum:   binary.BigEndian.Uint16(rom[0x014E:0x0150]),
	}
	copy(h.EntryPoint[:], rom[headerStart:headerStart+4])

	// homebrew and test images often leave the logo out; record, don't fail
	for i := range nintendoLogo {
		if rom[0x0104+i] != nintendoLogo[i] {
			h.LogoOK = false
			break
		}
	}

	var ok bool
	if h.ROMSizeBytes, h.ROMBanks, ok = decodeROMSize(h.ROMSizeCode); !ok {
		return nil, fmt.Errorf("%w: ROM size code %#02x", ErrHeader, h.ROMSizeCode)
	}
	if h.RAMSizeBytes, ok = decodeRAMSize(h.RAMSizeCode); !ok {
		return nil, fmt.Errorf("%w: RAM size code %#02x", ErrHeader, h.RAMSizeCode)
	}
	h.CartTypeStr = cartTypeString(h.CartType)

	return h, nil
}

// HeaderChecksumOK runs the boot ROM's checksum over 0x0134–0x014C.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) < 0x014E {
		return false
	}
	var sum byte = 0
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[0x014D]
}

func decodeROMSize(code byte) (size, banks int, ok bool) {
	switch code {
	case 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08:
		banks = 2 << code
		return banks * 0x4000, banks, true
	case 0x52:
		return 1152 * 1024, 72, true
	case 0x53:
		return 1280 * 1024, 80, true
	case 0x54:
		return 1536 * 1024, 96, true
	default:
		return 0, 0, false
	}
}

func decodeRAMSize(code byte) (int, bool) {
	switch code {
	case 0x00:
		return 0, true
	case 0x01:
		return 2 * 1024, true
	case 0x02:
		return 8 * 1024, true
	case 0x03:
		return 32 * 1024, true
	case 0x04:
		return 128 * 1024, true
	case 0x05:
		return 64 * 1024, true
	default:
		return 0, false
	}
}

func cartTypeString(code byte) string {
	switch code {
	case 0x00:
		return "ROM ONLY"
	case 0x01:
		return "MBC1"
	case 0x02:
		return "MBC1+RAM"
	case 0x03:
		return "MBC1+RAM+BATTERY"
	case 0x05, 0x06:
		return "MBC2 (variants)"
	case 0x0F:
		return "MBC3+TIMER+BATTERY"
	case 0x10:
		return "MBC3+TIMER+RAM+BATTERY"
	case 0x11:
		return "MBC3"
	case 0x12:
		return "MBC3+RAM"
	case 0x13:
		return "MBC3+RAM+BATTERY"
	case 0x15, 0x16, 0x17:
		return "MBC4 (variants)"
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return "MBC5 (variants)"
	default:
		return "Other/unknown"
	}
}
