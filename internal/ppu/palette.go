package ppu

// Shade is one of the four DMG grey levels, 0 lightest. Turning a shade
// into a display colour is up to the frontend.
type Shade byte

const (
	White Shade = iota
	LightGray
	DarkGray
	Black
)

// Palette is a BGP/OBP0/OBP1 register: four 2-bit fields, field n giving
// the shade for colour index n.
type Palette byte

// Map returns the shade for a 2-bit colour index.
func (p Palette) Map(index byte) Shade {
	return Shade(byte(p) >> ((index & 3) * 2) & 3)
}
