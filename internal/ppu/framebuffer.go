package ppu

import "fmt"

const (
	Width  = 160
	Height = 144
)

// Frame is a finished picture. It is a plain array so that handing one
// over copies it.
type Frame [Height][Width]Shade

// FrameBuffer is the picture being drawn.
type FrameBuffer struct {
	pix Frame
}

func (fb *FrameBuffer) Pixel(x, y int) Shade {
	checkPixel(x, y)
	return fb.pix[y][x]
}

func (fb *FrameBuffer) SetPixel(x, y int, s Shade) {
	checkPixel(x, y)
	fb.pix[y][x] = s
}

// Reset fills the buffer with the lightest shade.
func (fb *FrameBuffer) Reset() { fb.pix = Frame{} }

// Snapshot returns a copy of the current contents.
func (fb *FrameBuffer) Snapshot() Frame { return fb.pix }

func checkPixel(x, y int) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		panic(fmt.Sprintf("ppu: pixel (%d,%d) out of range", x, y))
	}
}
