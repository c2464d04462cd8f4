package cart

// MBC1 banking as implemented here:
//   - 0000-1FFF: any write enables external RAM (value is not inspected)
//   - 2000-3FFF: ROM bank low 5 bits; 0 maps to 1, and 0x20/0x40/0x60 map to
//     0x21/0x41/0x61 since those banks are otherwise unreachable
//   - 4000-5FFF: upper bank bits / RAM bank, not implemented (logged)
//   - 6000-7FFF: banking mode select, not implemented (logged)
//   - A000-BFFF: external RAM when enabled

func (c *Cartridge) readMBC1(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return c.romAt(0, addr)
	case addr < 0x8000:
		return c.romAt(int(c.romBank), addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return c.readRAM(addr)
	default:
		return openBus
	}
}

func (c *Cartridge) writeMBC1(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		c.ramEnabled = true
	case addr < 0x4000:
		c.romBank = mbc1Bank(value)
		c.log.Tracef(logTag, "MBC1 ROM bank %#02x", c.romBank)
	case addr < 0x6000:
		c.log.Warnf(logTag, "MBC1 upper bank bits %02X at %04X not implemented", value, addr)
	case addr < 0x8000:
		c.log.Warnf(logTag, "MBC1 banking mode %02X at %04X not implemented", value, addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		c.writeRAM(addr, value)
	}
}

func mbc1Bank(value byte) byte {
	switch value {
	case 0x00:
		return 0x01
	case 0x20, 0x40, 0x60:
		return value + 1
	default:
		return value & 0x1F
	}
}

// readRAM and writeRAM are shared by the controllers that gate external RAM
// behind an enable latch.
func (c *Cartridge) readRAM(addr uint16) byte {
	if !c.ramEnabled {
		return openBus
	}
	off, ok := c.ramOffset(addr)
	if !ok {
		c.log.Warnf(logTag, "read %04X: cartridge has no RAM", addr)
		return openBus
	}
	return c.ram[off]
}

func (c *Cartridge) writeRAM(addr uint16, value byte) {
	if !c.ramEnabled {
		c.log.Tracef(logTag, "write %02X to %04X dropped: RAM disabled", value, addr)
		return
	}
	off, ok := c.ramOffset(addr)
	if !ok {
		c.log.Warnf(logTag, "write %04X: cartridge has no RAM", addr)
		return
	}
	c.ram[off] = value
}
