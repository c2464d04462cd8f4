package emu

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

// --- Save/Load state ---
type machineState struct {
	Title  string
	Cart   []byte
	Bus    []byte
	PPU    []byte
	IF, IE byte
	Cycles uint64
}

// SaveState captures the session. The processor is not included; the
// halted stand-in has no state of its own.
func (m *Machine) SaveState() ([]byte, error) {
	s := machineState{
		Title:  m.cart.Header.Title,
		IF:     m.ints.IF,
		IE:     m.ints.IE,
		Cycles: m.cycles,
	}
	var err error
	if s.Cart, err = m.cart.SaveState(); err != nil {
		return nil, err
	}
	if s.Bus, err = m.bus.SaveState(); err != nil {
		return nil, err
	}
	if s.PPU, err = m.ppu.SaveState(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("emu: encode state: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadState restores a state saved from the same cartridge. Every part is
// decoded and checked first; on error the session is unchanged.
func (m *Machine) LoadState(data []byte) error {
	var s machineState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("emu: decode state: %w", err)
	}
	if s.Title != m.cart.Header.Title {
		return fmt.Errorf("emu: state belongs to %q, loaded cartridge is %q", s.Title, m.cart.Header.Title)
	}
	cs, err := m.cart.DecodeState(s.Cart)
	if err != nil {
		return err
	}
	bs, err := m.bus.DecodeState(s.Bus)
	if err != nil {
		return err
	}
	ps, err := ppu.DecodeState(s.PPU)
	if err != nil {
		return err
	}

	m.cart.ApplyState(cs)
	m.bus.ApplyState(bs)
	m.ppu.ApplyState(ps)
	m.ints.IF, m.ints.IE = s.IF, s.IE
	m.cycles = s.Cycles
	m.mu.Lock()
	m.frames = ps.Frames
	m.mu.Unlock()
	return nil
}

// SaveStateToFile writes nothing when the state cannot be encoded.
func (m *Machine) SaveStateToFile(path string) error {
	data, err := m.SaveState()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (m *Machine) LoadStateFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.LoadState(data)
}
