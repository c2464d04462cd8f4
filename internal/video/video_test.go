package video

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

func TestLookup(t *testing.T) {
	p, err := Lookup("")
	if err != nil {
		t.Fatalf("default palette: %v", err)
	}
	if p != palettes[DefaultPalette] {
		t.Fatalf("empty name did not select %s", DefaultPalette)
	}
	if _, err := Lookup("sepia"); err == nil {
		t.Fatalf("expected error for unknown palette")
	}
	if names := Names(); len(names) != len(palettes) || names[0] != "gray" {
		t.Fatalf("Names got %v", names)
	}
}

func TestFrameRGBA(t *testing.T) {
	p, _ := Lookup("gray")
	var f ppu.Frame
	f[0][0] = ppu.Black
	f[0][1] = ppu.LightGray
	f[ppu.Height-1][ppu.Width-1] = ppu.DarkGray

	pix := p.FrameRGBA(&f)
	if len(pix) != ppu.Width*ppu.Height*4 {
		t.Fatalf("len got %d", len(pix))
	}
	check := func(x, y int, want color.RGBA) {
		t.Helper()
		i := (y*ppu.Width + x) * 4
		got := color.RGBA{pix[i], pix[i+1], pix[i+2], pix[i+3]}
		if got != want {
			t.Fatalf("(%d,%d) got %v want %v", x, y, got, want)
		}
	}
	check(0, 0, color.RGBA{0, 0, 0, 0xFF})
	check(1, 0, color.RGBA{0xAA, 0xAA, 0xAA, 0xFF})
	check(2, 0, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF})
	check(ppu.Width-1, ppu.Height-1, color.RGBA{0x55, 0x55, 0x55, 0xFF})

	img := p.Image(&f)
	if img.Bounds().Dx() != ppu.Width || img.Bounds().Dy() != ppu.Height {
		t.Fatalf("image bounds %v", img.Bounds())
	}
	if c := img.RGBAAt(0, 0); c != (color.RGBA{0, 0, 0, 0xFF}) {
		t.Fatalf("image (0,0) got %v", c)
	}
}

func TestChecksumTracksContent(t *testing.T) {
	p, _ := Lookup("green")
	var a, b ppu.Frame
	if p.Checksum(&a) != p.Checksum(&b) {
		t.Fatalf("equal frames gave different checksums")
	}
	b[10][10] = ppu.Black
	if p.Checksum(&a) == p.Checksum(&b) {
		t.Fatalf("checksum ignored a pixel change")
	}
	g, _ := Lookup("gray")
	if p.Checksum(&a) == g.Checksum(&a) {
		t.Fatalf("checksum ignored the palette")
	}
}

func TestWritePNG(t *testing.T) {
	p, _ := Lookup("gray")
	var f ppu.Frame
	f[5][7] = ppu.DarkGray
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := WritePNG(path, p, &f); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	in, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	img, err := png.Decode(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := img.At(7, 5).RGBA()
	if r>>8 != 0x55 || g>>8 != 0x55 || b>>8 != 0x55 {
		t.Fatalf("pixel (7,5) got %02X%02X%02X want 555555", r>>8, g>>8, b>>8)
	}
}
