package ppu

import "sort"

const (
	oamBase        = 0xFE00
	oamSlots       = 40
	spritesPerLine = 10

	// MapSize is the side of the 32x32-tile background plane in pixels.
	MapSize = 256
)

// renderLine draws scanline LY: background, then window, then sprites.
func (p *PPU) renderLine(mem Memory) {
	y := int(p.ly)
	if y >= visibleLines {
		return
	}
	// raw colour indices of the background/window, for sprite priority
	var bg [Width]byte
	var win [Width]bool

	on := p.lcdc.BackgroundEnabled()
	if on {
		f := newRowFetcher(mem, p.lcdc.bgMap(), p.lcdc.TileData8000(), (y+int(p.scy))&0xFF, int(p.scx)>>3)
		f.skip(int(p.scx) & 7)
		for x := 0; x < Width; x++ {
			bg[x] = f.next()
		}
		p.drawWindow(mem, &bg, &win)
	}

	for x := 0; x < Width; x++ {
		shade := White
		visible := p.layers.Background
		if win[x] {
			visible = p.layers.Window
		}
		if on && visible {
			shade = p.bgp.Map(bg[x])
		} else {
			// a hidden layer does not cover sprites either
			bg[x] = 0
		}
		p.fb.SetPixel(x, y, shade)
	}
	if p.lcdc.SpritesEnabled() && p.layers.Sprites {
		p.drawSprites(mem, y, &bg)
	}
}

// drawWindow overlays the window on bg when it covers the current line.
// The window starts at WX-7 and draws its own rows in order, so a window
// hidden for some lines resumes where it left off.
func (p *PPU) drawWindow(mem Memory, bg *[Width]byte, win *[Width]bool) {
	if !p.lcdc.WindowEnabled() || p.ly < p.wy || p.wx > 166 {
		return
	}
	start := int(p.wx) - 7
	f := newRowFetcher(mem, p.lcdc.windowMap(), p.lcdc.TileData8000(), p.winLine, 0)
	if start < 0 {
		f.skip(-start)
		start = 0
	}
	for x := start; x < Width; x++ {
		bg[x] = f.next()
		win[x] = true
	}
	p.winLine++
}

type sprite struct {
	y, x  int
	tile  byte
	attr  byte
	index int
}

func (s sprite) behindBG() bool { return s.attr&0x80 != 0 }
func (s sprite) flipY() bool    { return s.attr&0x40 != 0 }
func (s sprite) flipX() bool    { return s.attr&0x20 != 0 }
func (s sprite) obp1() bool     { return s.attr&0x10 != 0 }

// lineSprites returns up to ten sprites covering line y in OAM order.
func lineSprites(mem Memory, y int, height int) []sprite {
	out := make([]sprite, 0, spritesPerLine)
	for i := 0; i < oamSlots && len(out) < spritesPerLine; i++ {
		a := uint16(oamBase + i*4)
		s := sprite{
			y:     int(mem.Read(a)) - 16,
			x:     int(mem.Read(a+1)) - 8,
			tile:  mem.Read(a + 2),
			attr:  mem.Read(a + 3),
			index: i,
		}
		if y >= s.y && y < s.y+height {
			out = append(out, s)
		}
	}
	return out
}

// drawSprites draws the sprites on line y. Where sprites overlap, the one
// with the smaller X owns the pixel, then the lower OAM index. The owner's
// behind-BG bit decides against the background; a hidden owner does not
// let a lower-priority sprite through.
func (p *PPU) drawSprites(mem Memory, y int, bg *[Width]byte) {
	height := 8
	if p.lcdc.TallSprites() {
		height = 16
	}
	sprites := lineSprites(mem, y, height)
	sort.Slice(sprites, func(i, j int) bool {
		if sprites[i].x != sprites[j].x {
			return sprites[i].x < sprites[j].x
		}
		return sprites[i].index < sprites[j].index
	})

	var owned [Width]bool
	for _, s := range sprites {
		tile := s.tile
		if height == 16 {
			tile &= 0xFE
		}
		t := DecodeTile(mem, 0x8000+uint16(tile)*tileBytes, height == 16)
		row := y - s.y
		if s.flipY() {
			row = height - 1 - row
		}
		pal := p.obp0
		if s.obp1() {
			pal = p.obp1
		}
		for col := 0; col < 8; col++ {
			x := s.x + col
			if x < 0 || x >= Width || owned[x] {
				continue
			}
			tx := col
			if s.flipX() {
				tx = 7 - col
			}
			ci := t.At(tx, row)
			if ci == 0 {
				continue
			}
			owned[x] = true
			if s.behindBG() && bg[x] != 0 {
				continue
			}
			p.fb.SetPixel(x, y, pal.Map(ci))
		}
	}
}

// BackgroundMap draws the whole 256x256 background plane selected by LCDC
// through BGP, row-major. It is a debugging view and ignores scroll.
func (p *PPU) BackgroundMap(mem Memory) []Shade {
	out := make([]Shade, MapSize*MapSize)
	for y := 0; y < MapSize; y++ {
		f := newRowFetcher(mem, p.lcdc.bgMap(), p.lcdc.TileData8000(), y, 0)
		for x := 0; x < MapSize; x++ {
			out[y*MapSize+x] = p.bgp.Map(f.next())
		}
	}
	return out
}
