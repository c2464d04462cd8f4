package cart

// MBC3 banking (the real-time clock is not implemented):
//   - 0000-1FFF: 0x0A enables RAM, 0x00 disables it, other values are ignored
//   - 2000-3FFF: ROM bank low 7 bits (0 maps to 1)
//   - 4000-5FFF: 00-03 select a RAM bank, 08-0C select an RTC register
//   - 6000-7FFF: clock latch, not implemented (logged)
//   - A000-BFFF: RAM bank or RTC register, depending on the last select

func (c *Cartridge) readMBC3(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return c.romAt(0, addr)
	case addr < 0x8000:
		return c.romAt(int(c.romBank), addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !c.ramOverRTC {
			c.log.Warnf(logTag, "MBC3 RTC register %02X read not implemented", c.rtcSelect)
			return openBus
		}
		return c.readRAM(addr)
	default:
		return openBus
	}
}

func (c *Cartridge) writeMBC3(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		switch value {
		case 0x0A:
			c.ramEnabled = true
		case 0x00:
			c.ramEnabled = false
		}
	case addr < 0x4000:
		c.romBank = value & 0x7F
		if c.romBank == 0 {
			c.romBank = 1
		}
	case addr < 0x6000:
		switch {
		case value <= 0x03:
			c.ramBank = value
			c.ramOverRTC = true
		case value >= 0x08 && value <= 0x0C:
			c.rtcSelect = value
			c.ramOverRTC = false
			c.log.Warnf(logTag, "MBC3 RTC register %02X selected, not implemented", value)
		default:
			c.log.Warnf(logTag, "MBC3 bank select %02X ignored", value)
		}
	case addr < 0x8000:
		c.log.Warnf(logTag, "MBC3 clock latch %02X not implemented", value)
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !c.ramOverRTC {
			c.log.Warnf(logTag, "MBC3 RTC register %02X write %02X not implemented", c.rtcSelect, value)
			return
		}
		c.writeRAM(addr, value)
	}
}
