package bus

// I/O register addresses the bus handles itself.
const (
	regDMA      = 0xFF46
	regKEY1     = 0xFF4D
	regBootOff  = 0xFF50
	audioStub   = 0xFF
	oamDMABytes = 0xA0
)

func isAudio(addr uint16) bool {
	return (addr >= 0xFF10 && addr <= 0xFF26) || (addr >= 0xFF30 && addr <= 0xFF3F)
}

func isVideo(addr uint16) bool {
	return addr >= 0xFF40 && addr <= 0xFF4B && addr != regDMA
}

func (b *Bus) readIO(addr uint16) byte {
	switch {
	case addr == 0xFF00:
		return b.dev.Joypad.Read(addr)
	case addr == 0xFF01 || addr == 0xFF02:
		return b.dev.Serial.Read(addr)
	case addr >= 0xFF04 && addr <= 0xFF07:
		return b.dev.Timer.Read(addr)
	case addr == 0xFF0F:
		return b.dev.Interrupts.ReadIF()
	case isAudio(addr):
		return audioStub
	case isVideo(addr):
		return b.dev.Video.ReadRegister(addr)
	case addr == regDMA:
		return b.dmaReg
	case addr == regKEY1:
		return 0xFF
	case addr == regBootOff:
		if b.bootActive {
			return 0xFE
		}
		return 0xFF
	}
	b.fault("read", addr, 0, ErrUnknownIO)
	return 0xFF
}

func (b *Bus) writeIO(addr uint16, value byte) {
	switch {
	case addr == 0xFF00:
		b.dev.Joypad.Write(addr, value)
	case addr == 0xFF01 || addr == 0xFF02:
		b.dev.Serial.Write(addr, value)
	case addr >= 0xFF04 && addr <= 0xFF07:
		b.dev.Timer.Write(addr, value)
	case addr == 0xFF0F:
		b.dev.Interrupts.WriteIF(value)
	case isAudio(addr):
	case isVideo(addr):
		b.dev.Video.WriteRegister(addr, value)
	case addr == regDMA:
		b.oamDMA(value)
	case addr == regKEY1:
		b.log.Tracef(logTag, "speed switch write %02X ignored", value)
	case addr == regBootOff:
		b.disableBoot()
	default:
		b.fault("write", addr, value, ErrUnknownIO)
	}
}

// oamDMA copies 160 bytes from page<<8 into OAM through the normal routing,
// so a source in cartridge space goes through its controller.
func (b *Bus) oamDMA(page byte) {
	b.dmaReg = page
	b.dmaPending = true
	src := uint16(page) << 8
	for i := uint16(0); i < oamDMABytes; i++ {
		b.Write(0xFE00+i, b.Read(src+i))
	}
	b.log.Tracef(logTag, "OAM DMA from %04X", src)
}

// disableBoot unmaps the boot overlay for the rest of the session. The
// logger's deferred level takes effect here, so tracing starts with the
// cartridge's own code.
func (b *Bus) disableBoot() {
	if !b.bootActive {
		return
	}
	b.bootActive = false
	b.log.Infof(logTag, "boot ROM disabled")
	b.log.Release()
}
