package cart

// Cartridges without a controller map 32 KiB of ROM flat into 0x0000–0x7FFF.

func (c *Cartridge) readROMOnly(addr uint16) byte {
	if addr < 0x8000 && int(addr) < len(c.rom) {
		return c.rom[addr]
	}
	return openBus
}

func (c *Cartridge) writeROMOnly(addr uint16, value byte) {
	c.log.Warnf(logTag, "write %02X to %04X dropped: no bank controller", value, addr)
}
