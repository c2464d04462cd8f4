// Package video turns shades into display colours. The core only knows
// four abstract shades; which greens or greys they become is decided here,
// for every frontend alike.
package video

import (
	"fmt"
	"image"
	"image/color"
	"sort"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

// Palette holds the display colour for each shade, lightest first.
type Palette [4]color.RGBA

var palettes = map[string]Palette{
	"gray": {
		{0xFF, 0xFF, 0xFF, 0xFF},
		{0xAA, 0xAA, 0xAA, 0xFF},
		{0x55, 0x55, 0x55, 0xFF},
		{0x00, 0x00, 0x00, 0xFF},
	},
	"green": {
		{0xE0, 0xF8, 0xD0, 0xFF},
		{0x88, 0xC0, 0x70, 0xFF},
		{0x34, 0x68, 0x56, 0xFF},
		{0x08, 0x18, 0x20, 0xFF},
	},
	"pocket": {
		{0xC4, 0xCF, 0xA1, 0xFF},
		{0x8B, 0x95, 0x6D, 0xFF},
		{0x4D, 0x53, 0x3C, 0xFF},
		{0x1F, 0x1F, 0x1F, 0xFF},
	},
}

// DefaultPalette is used when no name is given.
const DefaultPalette = "green"

// Lookup returns the named palette.
func Lookup(name string) (Palette, error) {
	if name == "" {
		name = DefaultPalette
	}
	p, ok := palettes[name]
	if !ok {
		return Palette{}, fmt.Errorf("video: unknown palette %q (have %v)", name, Names())
	}
	return p, nil
}

// Names lists the known palettes.
func Names() []string {
	out := make([]string, 0, len(palettes))
	for n := range palettes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Color returns the display colour of s.
func (p Palette) Color(s ppu.Shade) color.RGBA { return p[s&3] }

// WriteRGBA fills dst, 4 bytes per pixel, from shades laid out row-major.
// dst must hold 4*len(src) bytes.
func (p Palette) WriteRGBA(dst []byte, src []ppu.Shade) {
	for i, s := range src {
		c := p.Color(s)
		dst[i*4+0] = c.R
		dst[i*4+1] = c.G
		dst[i*4+2] = c.B
		dst[i*4+3] = c.A
	}
}

// FrameRGBA returns the frame as RGBA bytes, 160x144x4.
func (p Palette) FrameRGBA(f *ppu.Frame) []byte {
	out := make([]byte, ppu.Width*ppu.Height*4)
	for y := range f {
		p.WriteRGBA(out[y*ppu.Width*4:], f[y][:])
	}
	return out
}

// Image wraps the frame in an image for encoding.
func (p Palette) Image(f *ppu.Frame) *image.RGBA {
	return &image.RGBA{
		Pix:    p.FrameRGBA(f),
		Stride: 4 * ppu.Width,
		Rect:   image.Rect(0, 0, ppu.Width, ppu.Height),
	}
}
