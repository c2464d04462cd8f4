package ppu

import "fmt"

// Memory is read access to the address space. The PPU sees VRAM and OAM
// only through it.
type Memory interface {
	Read(addr uint16) byte
}

const tileBytes = 16

// Tile is a decoded 8x8 or 8x16 tile of 2-bit colour indices.
type Tile struct {
	pix  [16][8]byte
	tall bool
}

// DecodeTile reads a tile whose first row is at addr. Each row is two
// bytes, low bit-plane first; bit 7 is the leftmost pixel. A tall tile
// reads 32 bytes.
func DecodeTile(mem Memory, addr uint16, tall bool) Tile {
	t := Tile{tall: tall}
	for y := 0; y < t.Height(); y++ {
		lo := mem.Read(addr + uint16(y*2))
		hi := mem.Read(addr + uint16(y*2) + 1)
		for x := 0; x < 8; x++ {
			t.pix[y][x] = colorIndex(lo, hi, 7-uint(x))
		}
	}
	return t
}

func (t Tile) Height() int {
	if t.tall {
		return 16
	}
	return 8
}

// At returns the colour index at (x, y). Coordinates outside the tile
// panic.
func (t Tile) At(x, y int) byte {
	if x < 0 || x >= 8 || y < 0 || y >= t.Height() {
		panic(fmt.Sprintf("ppu: tile pixel (%d,%d) out of range", x, y))
	}
	return t.pix[y][x]
}

func colorIndex(lo, hi byte, bit uint) byte {
	return (hi>>bit)&1<<1 | (lo>>bit)&1
}

// tileAddr returns the address of a background or window tile. With
// unsigned addressing tiles start at 0x8000; otherwise the index is signed
// and tile 0 sits at 0x9000.
func tileAddr(index byte, unsigned bool) uint16 {
	if unsigned {
		return 0x8000 + uint16(index)*tileBytes
	}
	return 0x9000 + uint16(int8(index))*tileBytes
}
