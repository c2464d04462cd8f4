package ppu

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

type State struct {
	LCDC    byte
	STAT    byte
	SCY     byte
	SCX     byte
	LY      byte
	LYC     byte
	BGP     byte
	OBP0    byte
	OBP1    byte
	WY      byte
	WX      byte
	Mode    Mode
	Clock   int
	WinLine int
	Frames  uint64
	Buffer  Frame
}

func (p *PPU) SaveState() ([]byte, error) {
	var buf bytes.Buffer
	s := State{
		LCDC: byte(p.lcdc), STAT: p.stat, SCY: p.scy, SCX: p.scx, LY: p.ly, LYC: p.lyc,
		BGP: byte(p.bgp), OBP0: byte(p.obp0), OBP1: byte(p.obp1), WY: p.wy, WX: p.wx,
		Mode: p.mode, Clock: p.clock, WinLine: p.winLine, Frames: p.frames, Buffer: p.fb.pix,
	}
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("ppu: encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeState decodes and validates data without touching the PPU.
func DecodeState(data []byte) (*State, error) {
	var s State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("ppu: decode state: %w", err)
	}
	if s.Mode > ModeVRAM || int(s.LY) >= totalLines || s.Clock < 0 || s.Clock >= s.Mode.cycles() {
		return nil, fmt.Errorf("ppu: state has mode %s, line %d, clock %d", s.Mode, s.LY, s.Clock)
	}
	return &s, nil
}

// ApplyState installs a state returned by DecodeState.
func (p *PPU) ApplyState(s *State) {
	p.lcdc, p.stat, p.scy, p.scx, p.ly, p.lyc = Control(s.LCDC), s.STAT, s.SCY, s.SCX, s.LY, s.LYC
	p.bgp, p.obp0, p.obp1, p.wy, p.wx = Palette(s.BGP), Palette(s.OBP0), Palette(s.OBP1), s.WY, s.WX
	p.mode, p.clock, p.winLine, p.frames = s.Mode, s.Clock, s.WinLine, s.Frames
	p.fb.pix = s.Buffer
}

func (p *PPU) LoadState(data []byte) error {
	s, err := DecodeState(data)
	if err != nil {
		return err
	}
	p.ApplyState(s)
	return nil
}
