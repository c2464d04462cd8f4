package ppu

import "testing"

// solidTile fills tile n (0x8000 addressing) with colour index ci.
func solidTile(mem mockVRAM, n int, ci byte) {
	var lo, hi byte
	if ci&1 != 0 {
		lo = 0xFF
	}
	if ci&2 != 0 {
		hi = 0xFF
	}
	for row := 0; row < 8; row++ {
		mem[uint16(0x8000+n*16+row*2)] = lo
		mem[uint16(0x8000+n*16+row*2+1)] = hi
	}
}

func setSprite(mem mockVRAM, slot int, y, x int, tile, attr byte) {
	a := uint16(0xFE00 + slot*4)
	mem[a] = byte(y + 16)
	mem[a+1] = byte(x + 8)
	mem[a+2] = tile
	mem[a+3] = attr
}

// renderAt draws line y with the current registers.
func renderAt(p *PPU, mem Memory, y int) {
	p.ly = byte(y)
	p.renderLine(mem)
}

func linePPU(lcdc byte) *PPU {
	p := newTestPPU(nil)
	p.WriteRegister(0xFF47, 0xE4)
	p.WriteRegister(0xFF48, 0xE4)
	p.WriteRegister(0xFF49, 0x1B)
	p.lcdc = Control(lcdc)
	return p
}

func TestBackgroundScrollWraps(t *testing.T) {
	mem := mockVRAM{}
	solidTile(mem, 1, 1)
	solidTile(mem, 2, 2)
	solidTile(mem, 3, 3)
	mem[0x9800+31] = 1      // row 0, last column
	mem[0x9800+0] = 2       // row 0, first column
	mem[0x9800+31*32+0] = 3 // last row, first column

	p := linePPU(0x91)
	p.WriteRegister(0xFF43, 252) // SCX
	renderAt(p, mem, 0)
	for x := 0; x < 4; x++ {
		if got := p.fb.Pixel(x, 0); got != LightGray {
			t.Fatalf("x=%d got %d want column 31 (1)", x, got)
		}
	}
	for x := 4; x < 12; x++ {
		if got := p.fb.Pixel(x, 0); got != DarkGray {
			t.Fatalf("x=%d got %d want wrapped column 0 (2)", x, got)
		}
	}

	p.WriteRegister(0xFF43, 0)
	p.WriteRegister(0xFF42, 250) // SCY: line 6 is map row 0, line 5 is row 255
	renderAt(p, mem, 5)
	if got := p.fb.Pixel(0, 5); got != Black {
		t.Fatalf("vertical wrap got %d want map row 31 (3)", got)
	}
	renderAt(p, mem, 6)
	if got := p.fb.Pixel(0, 6); got != DarkGray {
		t.Fatalf("vertical wrap got %d want map row 0 (2)", got)
	}
}

func TestBackgroundDisabledIsWhite(t *testing.T) {
	mem := mockVRAM{}
	solidTile(mem, 0, 3)
	p := linePPU(0x90)
	renderAt(p, mem, 0)
	for x := 0; x < Width; x++ {
		if got := p.fb.Pixel(x, 0); got != White {
			t.Fatalf("x=%d got %d want white", x, got)
		}
	}
}

func TestWindowStartsAtWXMinus7(t *testing.T) {
	mem := mockVRAM{}
	solidTile(mem, 1, 3)
	for i := uint16(0); i < 32*32; i++ {
		mem[0x9C00+i] = 1 // window map at 9C00 all black tiles
	}
	p := linePPU(0x91 | 0x20 | 0x40)
	p.WriteRegister(0xFF4A, 10)
	p.WriteRegister(0xFF4B, 27)

	renderAt(p, mem, 9)
	if got := p.fb.Pixel(30, 9); got != White {
		t.Fatalf("window drawn above WY: %d", got)
	}
	if p.winLine != 0 {
		t.Fatalf("window line counter moved above WY: %d", p.winLine)
	}

	renderAt(p, mem, 10)
	if got := p.fb.Pixel(19, 10); got != White {
		t.Fatalf("x=19 got %d want background", got)
	}
	if got := p.fb.Pixel(20, 10); got != Black {
		t.Fatalf("x=20 got %d want window", got)
	}
	if p.winLine != 1 {
		t.Fatalf("window line counter got %d want 1", p.winLine)
	}

	// WX beyond the screen keeps the window hidden and the counter still
	p.WriteRegister(0xFF4B, 200)
	renderAt(p, mem, 11)
	if got := p.fb.Pixel(159, 11); got != White || p.winLine != 1 {
		t.Fatalf("WX=200: pixel %d counter %d", got, p.winLine)
	}
}

func TestWindowNeedsBackgroundEnable(t *testing.T) {
	mem := mockVRAM{}
	solidTile(mem, 1, 3)
	mem[0x9800] = 1
	p := linePPU(0x80 | 0x10 | 0x20) // window on, BG off
	p.WriteRegister(0xFF4A, 0)
	p.WriteRegister(0xFF4B, 7)
	renderAt(p, mem, 0)
	if got := p.fb.Pixel(0, 0); got != White {
		t.Fatalf("window drawn with BG disabled: %d", got)
	}
}

func TestSpritePriority(t *testing.T) {
	mem := mockVRAM{}
	solidTile(mem, 1, 1) // colour 1
	solidTile(mem, 2, 3) // colour 3

	t.Run("lower X wins", func(t *testing.T) {
		m := cloneMem(mem)
		setSprite(m, 0, 0, 24, 1, 0)
		setSprite(m, 1, 0, 20, 2, 0)
		p := linePPU(0x93)
		renderAt(p, m, 0)
		if got := p.fb.Pixel(24, 0); got != Black {
			t.Fatalf("overlap at x=24 got %d want sprite at X=20 (black)", got)
		}
		if got := p.fb.Pixel(30, 0); got != LightGray {
			t.Fatalf("x=30 got %d want sprite at X=24", got)
		}
	})
	t.Run("same X lower index wins", func(t *testing.T) {
		m := cloneMem(mem)
		setSprite(m, 3, 0, 40, 1, 0)
		setSprite(m, 7, 0, 40, 2, 0)
		p := linePPU(0x93)
		renderAt(p, m, 0)
		if got := p.fb.Pixel(40, 0); got != LightGray {
			t.Fatalf("x=40 got %d want slot 3 (light)", got)
		}
	})
	t.Run("behind background", func(t *testing.T) {
		m := cloneMem(mem)
		solidTile(m, 0, 0)
		m[0x9800+5] = 1 // BG colour 1 at x 40-47
		setSprite(m, 0, 0, 36, 2, 0x80)
		p := linePPU(0x93)
		renderAt(p, m, 0)
		if got := p.fb.Pixel(38, 0); got != Black {
			t.Fatalf("sprite over BG colour 0 got %d want black", got)
		}
		if got := p.fb.Pixel(41, 0); got != LightGray {
			t.Fatalf("sprite behind BG colour 1 got %d want BG", got)
		}
	})
	t.Run("transparent pixels fall through", func(t *testing.T) {
		m := cloneMem(mem)
		m[0x8030] = 0xF0 // tile 3: left half colour 1
		setSprite(m, 0, 0, 60, 3, 0)
		setSprite(m, 1, 0, 62, 2, 0)
		p := linePPU(0x93)
		renderAt(p, m, 0)
		if got := p.fb.Pixel(63, 0); got != LightGray {
			t.Fatalf("x=63 got %d want slot 0", got)
		}
		if got := p.fb.Pixel(65, 0); got != Black {
			t.Fatalf("x=65 got %d want slot 1 through transparency", got)
		}
	})
}

func TestSpriteAttributes(t *testing.T) {
	mem := mockVRAM{}
	mem[0x8010] = 0x80                // tile 1 row 0: leftmost pixel colour 1
	setSprite(mem, 0, 0, 8, 1, 0x20)  // X flip
	setSprite(mem, 1, 0, 30, 1, 0x40) // Y flip: row 0 lands on line 7
	setSprite(mem, 2, 0, 50, 1, 0x10) // OBP1
	p := linePPU(0x93)

	renderAt(p, mem, 0)
	if got := p.fb.Pixel(15, 0); got != LightGray {
		t.Fatalf("x-flipped pixel at 15 got %d", got)
	}
	if got := p.fb.Pixel(8, 0); got != White {
		t.Fatalf("x-flipped sprite left edge got %d", got)
	}
	if got := p.fb.Pixel(30, 0); got != White {
		t.Fatalf("y-flipped sprite drew row 0 on line 0")
	}
	if got := p.fb.Pixel(50, 0); got != DarkGray {
		t.Fatalf("OBP1 sprite got %d want 1B-mapped colour 1 (2)", got)
	}
	renderAt(p, mem, 7)
	if got := p.fb.Pixel(30, 7); got != LightGray {
		t.Fatalf("y-flipped pixel on line 7 got %d", got)
	}
}

func TestTallSprites(t *testing.T) {
	mem := mockVRAM{}
	solidTile(mem, 4, 1)
	solidTile(mem, 5, 3)
	setSprite(mem, 0, 0, 0, 5, 0) // tile 5 is forced to the pair 4/5
	p := linePPU(0x93 | 0x04)

	renderAt(p, mem, 3)
	if got := p.fb.Pixel(0, 3); got != LightGray {
		t.Fatalf("top half got %d want tile 4", got)
	}
	renderAt(p, mem, 12)
	if got := p.fb.Pixel(0, 12); got != Black {
		t.Fatalf("bottom half got %d want tile 5", got)
	}
	renderAt(p, mem, 16)
	if got := p.fb.Pixel(0, 16); got != White {
		t.Fatalf("below sprite got %d", got)
	}
}

func TestTenSpritesPerLine(t *testing.T) {
	mem := mockVRAM{}
	solidTile(mem, 1, 3)
	for i := 0; i < 12; i++ {
		setSprite(mem, i, 0, i*10, 1, 0)
	}
	p := linePPU(0x93)
	renderAt(p, mem, 0)
	if got := p.fb.Pixel(90, 0); got != Black {
		t.Fatalf("tenth sprite missing: %d", got)
	}
	if got := p.fb.Pixel(100, 0); got != White {
		t.Fatalf("eleventh sprite drawn: %d", got)
	}
}

func TestLayersToggle(t *testing.T) {
	mem := mockVRAM{}
	solidTile(mem, 0, 3)
	solidTile(mem, 1, 1)
	setSprite(mem, 0, 0, 0, 1, 0)
	p := linePPU(0x93)
	p.SetLayers(Layers{Background: false, Window: true, Sprites: true})
	renderAt(p, mem, 0)
	if got := p.fb.Pixel(20, 0); got != White {
		t.Fatalf("hidden background drawn: %d", got)
	}
	if got := p.fb.Pixel(0, 0); got != LightGray {
		t.Fatalf("sprite missing with background hidden: %d", got)
	}
	p.SetLayers(Layers{Background: true})
	renderAt(p, mem, 0)
	if got := p.fb.Pixel(0, 0); got != Black {
		t.Fatalf("hidden sprite drawn: %d", got)
	}
}

func TestHiddenBackgroundDoesNotCoverSprites(t *testing.T) {
	mem := mockVRAM{}
	solidTile(mem, 0, 3)
	solidTile(mem, 1, 1)
	setSprite(mem, 0, 0, 0, 1, 0x80) // behind BG, over BG colour 3
	p := linePPU(0x93)
	renderAt(p, mem, 0)
	if got := p.fb.Pixel(0, 0); got != Black {
		t.Fatalf("behind-BG sprite over visible background got %d want BG", got)
	}
	p.SetLayers(Layers{Window: true, Sprites: true})
	renderAt(p, mem, 0)
	if got := p.fb.Pixel(0, 0); got != LightGray {
		t.Fatalf("behind-BG sprite with background hidden got %d want sprite", got)
	}
}

func TestBackgroundMap(t *testing.T) {
	mem := mockVRAM{}
	solidTile(mem, 1, 2)
	mem[0x9800+32*31+31] = 1 // bottom-right tile
	p := linePPU(0x91)
	p.WriteRegister(0xFF43, 100) // scroll is ignored
	bg := p.BackgroundMap(mem)
	if len(bg) != MapSize*MapSize {
		t.Fatalf("len got %d", len(bg))
	}
	if got := bg[255*MapSize+255]; got != DarkGray {
		t.Fatalf("bottom-right got %d want 2", got)
	}
	if got := bg[0]; got != White {
		t.Fatalf("top-left got %d want 0", got)
	}
}

func cloneMem(m mockVRAM) mockVRAM {
	out := mockVRAM{}
	for k, v := range m {
		out[k] = v
	}
	return out
}
