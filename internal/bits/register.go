package bits

// Register is an 8-bit hardware register viewed as individual flags.
// It is a plain value; Set returns a modified copy.
type Register byte

// Bit reports whether bit n (0..7) is set.
func (r Register) Bit(n uint) bool { return r&(1<<(n&7)) != 0 }

// Set returns r with bit n set or cleared.
func (r Register) Set(n uint, on bool) Register {
	if on {
		return r | 1<<(n&7)
	}
	return r &^ (1 << (n & 7))
}

// Field extracts width bits starting at bit lo.
func (r Register) Field(lo, width uint) byte {
	return byte(r>>lo) & (1<<width - 1)
}
