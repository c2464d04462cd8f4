package bus

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// State is the bus-owned memory in a save state. Cartridge and peripheral
// state are saved by their owners.
type State struct {
	VRAM       [0x2000]byte
	WRAM       [0x2000]byte
	OAM        [0xA0]byte
	HRAM       [0x7F]byte
	BootActive bool
	DMA        byte
}

func (b *Bus) SaveState() ([]byte, error) {
	var buf bytes.Buffer
	s := State{
		VRAM: b.vram, WRAM: b.wram, OAM: b.oam, HRAM: b.hram,
		BootActive: b.bootActive, DMA: b.dmaReg,
	}
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("bus: encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeState decodes data and checks it against this bus without
// changing it.
func (b *Bus) DecodeState(data []byte) (*State, error) {
	var s State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("bus: decode state: %w", err)
	}
	if s.BootActive && len(b.boot) == 0 {
		return nil, fmt.Errorf("bus: state has the boot overlay mapped but no boot image is loaded")
	}
	return &s, nil
}

// ApplyState installs a state returned by DecodeState.
func (b *Bus) ApplyState(s *State) {
	b.vram, b.wram, b.oam, b.hram = s.VRAM, s.WRAM, s.OAM, s.HRAM
	b.bootActive = s.BootActive
	b.dmaReg = s.DMA
}

func (b *Bus) LoadState(data []byte) error {
	s, err := b.DecodeState(data)
	if err != nil {
		return err
	}
	b.ApplyState(s)
	return nil
}
