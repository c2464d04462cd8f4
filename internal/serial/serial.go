package serial

import (
	"io"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logger"
)

const intSerial = 3

// Port is the link port at 0xFF01 (SB) and 0xFF02 (SC). There is never a
// partner on the other end: a transfer on the internal clock completes at
// once, shifting in 0xFF, and one on the external clock never completes.
type Port struct {
	sb byte
	sc byte

	echo    io.Writer
	request func(bit int)
	log     *logger.Logger
}

// New returns a port. echo, when non-nil, receives every byte sent; test
// ROMs report results this way. request raises an interrupt bit.
func New(echo io.Writer, request func(bit int), log *logger.Logger) *Port {
	return &Port{echo: echo, request: request, log: log}
}

// SetEcho replaces the echo writer.
func (p *Port) SetEcho(w io.Writer) { p.echo = w }

func (p *Port) Read(addr uint16) byte {
	switch addr {
	case 0xFF01:
		return p.sb
	case 0xFF02:
		return 0x7E | p.sc&0x81
	default:
		return 0xFF
	}
}

func (p *Port) Write(addr uint16, value byte) {
	switch addr {
	case 0xFF01:
		p.sb = value
	case 0xFF02:
		p.sc = value & 0x81
		if p.sc == 0x81 {
			p.transfer()
		}
	}
}

func (p *Port) transfer() {
	out := p.sb
	if p.echo != nil {
		if _, err := p.echo.Write([]byte{out}); err != nil {
			p.log.Warnf("serial", "echo: %v", err)
		}
	}
	p.log.Tracef("serial", "sent %02X", out)
	p.sb = 0xFF
	p.sc &^= 0x80
	if p.request != nil {
		p.request(intSerial)
	}
}
