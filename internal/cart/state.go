package cart

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// State is the banking state carried in a save state. The ROM image is
// not included; a state only loads into a cartridge built from the same ROM.
type State struct {
	Kind       Kind
	RAM        []byte
	ROMBank    byte
	RAMBank    byte
	RAMEnabled bool
	RAMOverRTC bool
	RTCSelect  byte
}

func (c *Cartridge) SaveState() ([]byte, error) {
	var buf bytes.Buffer
	s := State{
		Kind: c.kind, RAM: append([]byte(nil), c.ram...),
		ROMBank: c.romBank, RAMBank: c.ramBank, RAMEnabled: c.ramEnabled,
		RAMOverRTC: c.ramOverRTC, RTCSelect: c.rtcSelect,
	}
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("cart: encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeState decodes data and checks that it fits this cartridge. The
// cartridge is not changed.
func (c *Cartridge) DecodeState(data []byte) (*State, error) {
	var s State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, fmt.Errorf("cart: decode state: %w", err)
	}
	if s.Kind != c.kind {
		return nil, fmt.Errorf("cart: state is for a %s cartridge, loaded one is %s", s.Kind, c.kind)
	}
	if len(s.RAM) != len(c.ram) {
		return nil, fmt.Errorf("%w: state carries %d bytes, cartridge has %d", ErrSaveSize, len(s.RAM), len(c.ram))
	}
	return &s, nil
}

// ApplyState installs a state returned by DecodeState.
func (c *Cartridge) ApplyState(s *State) {
	copy(c.ram, s.RAM)
	c.romBank, c.ramBank, c.ramEnabled = s.ROMBank, s.RAMBank, s.RAMEnabled
	c.ramOverRTC, c.rtcSelect = s.RAMOverRTC, s.RTCSelect
}

func (c *Cartridge) LoadState(data []byte) error {
	s, err := c.DecodeState(data)
	if err != nil {
		return err
	}
	c.ApplyState(s)
	return nil
}
