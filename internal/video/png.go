package video

import (
	"hash/crc32"
	"image/png"
	"os"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

// Checksum is the CRC-32 (IEEE) of the frame's RGBA bytes. Headless runs
// compare it against a known value.
func (p Palette) Checksum(f *ppu.Frame) uint32 {
	return crc32.ChecksumIEEE(p.FrameRGBA(f))
}

// WritePNG encodes the frame to path.
func WritePNG(path string, p Palette, f *ppu.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, p.Image(f)); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
