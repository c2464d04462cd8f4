package ppu

import "github.com/FabianRolfMatthiasNoll/gbcore/internal/bits"

// Control is the LCDC register (FF40).
type Control bits.Register

func (c Control) DisplayEnabled() bool    { return bits.Register(c).Bit(7) }
func (c Control) WindowTileMapHigh() bool { return bits.Register(c).Bit(6) }
func (c Control) WindowEnabled() bool     { return bits.Register(c).Bit(5) }
func (c Control) TileData8000() bool      { return bits.Register(c).Bit(4) }
func (c Control) BGTileMapHigh() bool     { return bits.Register(c).Bit(3) }
func (c Control) TallSprites() bool       { return bits.Register(c).Bit(2) }
func (c Control) SpritesEnabled() bool    { return bits.Register(c).Bit(1) }
func (c Control) BackgroundEnabled() bool { return bits.Register(c).Bit(0) }

func (c Control) bgMap() uint16 {
	if c.BGTileMapHigh() {
		return 0x9C00
	}
	return 0x9800
}

func (c Control) windowMap() uint16 {
	if c.WindowTileMapHigh() {
		return 0x9C00
	}
	return 0x9800
}

// STAT enable bits (FF41).
const (
	statHBlankInt = 3
	statVBlankInt = 4
	statOAMInt    = 5
	statLYCInt    = 6
)
