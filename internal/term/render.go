package term

import (
	"strings"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

// lightest to darkest
var shadeRunes = [4]rune{' ', '░', '▒', '█'}

// render samples the frame down to cols x rows characters, nearest pixel.
// Lines are joined with newlines, without a trailing one.
func render(f *ppu.Frame, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	if cols > ppu.Width {
		cols = ppu.Width
	}
	if rows > ppu.Height {
		rows = ppu.Height
	}
	var sb strings.Builder
	sb.Grow(rows * (cols*3 + 1))
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		y := r * ppu.Height / rows
		for c := 0; c < cols; c++ {
			x := c * ppu.Width / cols
			sb.WriteRune(shadeRunes[f[y][x]&3])
		}
	}
	return sb.String()
}

// fit picks the largest character grid with the screen's aspect inside
// the given view size. Character cells are about twice as tall as wide.
func fit(maxCols, maxRows int) (cols, rows int) {
	cols = maxCols
	rows = cols * ppu.Height / ppu.Width / 2
	if rows > maxRows {
		rows = maxRows
		cols = rows * 2 * ppu.Width / ppu.Height
	}
	if cols > ppu.Width {
		cols = ppu.Width
	}
	if rows > ppu.Height {
		rows = ppu.Height
	}
	return cols, rows
}
