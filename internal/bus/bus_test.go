package bus

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/joypad"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logger"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/serial"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/timer"
)

// flatCart is a 32 KiB ROM with 8 KiB of always-enabled RAM, recording
// the writes it receives.
type flatCart struct {
	rom    [0x8000]byte
	ram    [0x2000]byte
	writes []uint16
}

func (c *flatCart) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return c.rom[addr]
	case addr >= 0xA000 && addr <= 0xBFFF:
		return c.ram[addr-0xA000]
	}
	return 0xFF
}

func (c *flatCart) Write(addr uint16, v byte) {
	c.writes = append(c.writes, addr)
	if addr >= 0xA000 && addr <= 0xBFFF {
		c.ram[addr-0xA000] = v
	}
}

type fakeVideo struct{ regs [0x10]byte }

func (v *fakeVideo) ReadRegister(addr uint16) byte     { return v.regs[addr-0xFF40] }
func (v *fakeVideo) WriteRegister(addr uint16, x byte) { v.regs[addr-0xFF40] = x }

type fixture struct {
	bus  *Bus
	cart *flatCart
	ints *cpu.Interrupts
	vid  *fakeVideo
	ser  *bytes.Buffer
	out  *bytes.Buffer
	log  *logger.Logger
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{cart: &flatCart{}, ints: &cpu.Interrupts{}, vid: &fakeVideo{}, ser: &bytes.Buffer{}, out: &bytes.Buffer{}}
	f.log = logger.New(f.out, logger.Warn)
	f.bus = New(f.cart, Peripherals{
		Video:      f.vid,
		Timer:      timer.New(),
		Serial:     serial.New(f.ser, f.ints.Request, f.log),
		Joypad:     joypad.New(f.ints.Request),
		Interrupts: f.ints,
	}, f.log, opts...)
	return f
}

func TestClassify_IsTotal(t *testing.T) {
	want := []struct {
		lo, hi uint16
		r      Region
	}{
		{0x0000, 0x3FFF, RegionROM0},
		{0x4000, 0x7FFF, RegionROMX},
		{0x8000, 0x9FFF, RegionVRAM},
		{0xA000, 0xBFFF, RegionCartRAM},
		{0xC000, 0xDFFF, RegionWRAM},
		{0xE000, 0xFDFF, RegionEcho},
		{0xFE00, 0xFE9F, RegionOAM},
		{0xFEA0, 0xFEFF, RegionUnusable},
		{0xFF00, 0xFF7F, RegionIO},
		{0xFF80, 0xFFFE, RegionHRAM},
		{0xFFFF, 0xFFFF, RegionIE},
	}
	seen := 0
	for _, w := range want {
		for a := uint32(w.lo); a <= uint32(w.hi); a++ {
			if got := Classify(uint16(a)); got != w.r {
				t.Fatalf("Classify(%04X) got %s want %s", a, got, w.r)
			}
			seen++
		}
	}
	if seen != 0x10000 {
		t.Fatalf("table covers %d addresses want 65536", seen)
	}
}

func TestBus_ROMAndRAM(t *testing.T) {
	f := newFixture()
	f.cart.rom[0x0100] = 0x42
	b := f.bus

	if got := b.Read(0x0100); got != 0x42 {
		t.Fatalf("ROM read got %02X want 42", got)
	}
	b.Write(0xC000, 0x99)
	if got := b.Read(0xC000); got != 0x99 {
		t.Fatalf("RAM read got %02X want 99", got)
	}
	b.Write(0xFF80, 0xAB)
	if got := b.Read(0xFF80); got != 0xAB {
		t.Fatalf("HRAM read got %02X want AB", got)
	}
	b.Write(0xA123, 0x5C)
	if got := b.Read(0xA123); got != 0x5C || f.cart.ram[0x123] != 0x5C {
		t.Fatalf("cart RAM got %02X want 5C", got)
	}
	b.Write(0x2000, 0x03)
	if len(f.cart.writes) != 2 || f.cart.writes[1] != 0x2000 {
		t.Fatalf("ROM write not delegated to cartridge: %v", f.cart.writes)
	}
}

func TestBus_EchoMirrorsWRAM(t *testing.T) {
	b := newFixture().bus
	for a := uint32(0xE000); a <= 0xFDFF; a += 0x1F3 {
		b.Write(uint16(a), byte(a))
		if got := b.Read(uint16(a - 0x2000)); got != byte(a) {
			t.Fatalf("echo write %04X not visible at %04X: got %02X", a, a-0x2000, got)
		}
		b.Write(uint16(a-0x2000), ^byte(a))
		if got := b.Read(uint16(a)); got != ^byte(a) {
			t.Fatalf("WRAM write %04X not visible at %04X", a-0x2000, a)
		}
	}
}

func TestBus_VRAM_OAM_InterruptRegs(t *testing.T) {
	f := newFixture()
	b := f.bus

	b.Write(0x8000, 0x11)
	if got := b.Read(0x8000); got != 0x11 {
		t.Fatalf("VRAM read got %02X want 11", got)
	}
	b.Write(0xFE00, 0x22)
	if got := b.Read(0xFE00); got != 0x22 {
		t.Fatalf("OAM read got %02X want 22", got)
	}
	b.Write(0xFF0F, 0x3F)
	if got := b.Read(0xFF0F); got != 0xE0|0x1F {
		t.Fatalf("IF read got %02X want FF", got)
	}
	b.Write(0xFFFF, 0x1B)
	if got := b.Read(0xFFFF); got != 0x1B || f.ints.IE != 0x1B {
		t.Fatalf("IE read got %02X want 1B", got)
	}
}

func TestBus_PeripheralRouting(t *testing.T) {
	f := newFixture()
	b := f.bus

	b.Write(0xFF00, 0x20)
	if got := b.Read(0xFF00); got&0x0F != 0x0F {
		t.Fatalf("JOYP got %02X want low nibble F", got)
	}
	b.Write(0xFF06, 0x88)
	if got := b.Read(0xFF06); got != 0x88 {
		t.Fatalf("TMA got %02X want 88", got)
	}
	b.Write(0xFF01, 'Z')
	b.Write(0xFF02, 0x81)
	if f.ser.String() != "Z" {
		t.Fatalf("serial echo got %q want %q", f.ser.String(), "Z")
	}
	if b.Read(0xFF0F)&(1<<cpu.IntSerial) == 0 {
		t.Fatalf("serial IF bit not set after transfer")
	}
	for a := uint16(0xFF40); a <= 0xFF4B; a++ {
		if a == 0xFF46 {
			continue
		}
		b.Write(a, byte(a))
		if got := b.Read(a); got != byte(a) {
			t.Fatalf("video reg %04X got %02X want %02X", a, got, byte(a))
		}
	}
	if f.vid.regs[6] != 0 {
		t.Fatalf("FF46 reached the video registers")
	}
}

func TestBus_AudioAndSpeedStubs(t *testing.T) {
	f := newFixture()
	b := f.bus
	for _, a := range []uint16{0xFF10, 0xFF15, 0xFF26, 0xFF30, 0xFF3F, 0xFF4D} {
		b.Write(a, 0x00)
		if got := b.Read(a); got != 0xFF {
			t.Fatalf("stub %04X got %02X want FF", a, got)
		}
	}
	if err := b.Err(); err != nil {
		t.Fatalf("stub access faulted: %v", err)
	}
}

func TestBus_UnusableGapIsRecoverable(t *testing.T) {
	f := newFixture()
	b := f.bus
	b.Write(0xFEA0, 0x12)
	if got := b.Read(0xFEA0); got != 0xFF {
		t.Fatalf("unusable read got %02X want FF", got)
	}
	if got := b.Read(0xFEFF); got != 0xFF {
		t.Fatalf("unusable read got %02X want FF", got)
	}
	if err := b.Err(); err != nil {
		t.Fatalf("unusable access faulted: %v", err)
	}
	if !strings.Contains(f.out.String(), "WARN: bus:") {
		t.Fatalf("no warning logged: %q", f.out.String())
	}
}

func TestBus_UnknownIOIsFatal(t *testing.T) {
	for _, a := range []uint16{0xFF03, 0xFF08, 0xFF27, 0xFF4C, 0xFF4E, 0xFF51, 0xFF7F} {
		f := newFixture()
		f.bus.Read(a)
		var ae *AccessError
		if err := f.bus.Err(); !errors.As(err, &ae) || !errors.Is(err, ErrUnknownIO) {
			t.Fatalf("read %04X: got %v want AccessError/ErrUnknownIO", a, err)
		}
		if ae.Addr != a || ae.Op != "read" {
			t.Fatalf("read %04X: error carries %s %04X", a, ae.Op, ae.Addr)
		}
	}

	f := newFixture()
	f.bus.Write(0xFF03, 0x12)
	f.bus.Write(0xFF08, 0x34) // second fault does not replace the first
	var ae *AccessError
	if !errors.As(f.bus.Err(), &ae) || ae.Addr != 0xFF03 || ae.Value != 0x12 || ae.Op != "write" {
		t.Fatalf("sticky fault got %v", f.bus.Err())
	}
	if !strings.Contains(ae.Error(), "FF03") {
		t.Fatalf("diagnostic lacks address: %q", ae.Error())
	}
}

func TestBus_OAMDMA(t *testing.T) {
	t.Run("from ROM", func(t *testing.T) {
		f := newFixture()
		for i := 0; i < 0xA0; i++ {
			f.cart.rom[0x4100+i] = byte(0xA0 - i)
		}
		f.bus.Write(0xFF46, 0x41)
		for i := uint16(0); i < 0xA0; i++ {
			if got := f.bus.Read(0xFE00 + i); got != byte(0xA0-i) {
				t.Fatalf("OAM[%02X] got %02X want %02X", i, got, byte(0xA0-i))
			}
		}
		if got := f.bus.Read(0xFF46); got != 0x41 {
			t.Fatalf("DMA reg got %02X want 41", got)
		}
	})
	t.Run("from WRAM", func(t *testing.T) {
		f := newFixture()
		for i := uint16(0); i < 0xA0; i++ {
			f.bus.Write(0xC300+i, byte(i*3))
		}
		f.bus.Write(0xFF46, 0xC3)
		for i := uint16(0); i < 0xA0; i++ {
			if got := f.bus.Read(0xFE00 + i); got != byte(i*3) {
				t.Fatalf("OAM[%02X] got %02X want %02X", i, got, byte(i*3))
			}
		}
		page, ok := f.bus.TakeDMA()
		if !ok || page != 0xC3 {
			t.Fatalf("TakeDMA got %02X,%v want C3,true", page, ok)
		}
		if _, ok := f.bus.TakeDMA(); ok {
			t.Fatalf("TakeDMA reported the same transfer twice")
		}
	})
}

func TestBus_BootOverlay(t *testing.T) {
	boot := make([]byte, 0x100)
	for i := range boot {
		boot[i] = 0xB0
	}
	f := newFixture(WithBootROM(boot))
	f.log.SetLevel(logger.Warn)
	f.log.Defer(logger.Trace)
	f.cart.rom[0x0000] = 0xC0
	f.cart.rom[0x0100] = 0xC1
	b := f.bus

	if got := b.Read(0x0000); got != 0xB0 {
		t.Fatalf("overlay read got %02X want B0", got)
	}
	if got := b.Read(0x0100); got != 0xC1 {
		t.Fatalf("0100 should come from cartridge: got %02X", got)
	}
	b.Write(0xFF50, 0x01)
	if b.BootActive() {
		t.Fatalf("overlay still active after FF50 write")
	}
	if got := b.Read(0x0000); got != 0xC0 {
		t.Fatalf("cartridge read after disable got %02X want C0", got)
	}
	if f.log.Level() != logger.Trace {
		t.Fatalf("deferred log level not released: %s", f.log.Level())
	}
	// no way back
	b.Write(0xFF50, 0x00)
	if got := b.Read(0x0000); got != 0xC0 {
		t.Fatalf("overlay re-enabled: got %02X", got)
	}
}

func TestBus_Words(t *testing.T) {
	b := newFixture().bus
	b.WriteWord(0xC010, 0xBEEF)
	if b.Read(0xC010) != 0xEF || b.Read(0xC011) != 0xBE {
		t.Fatalf("WriteWord not little-endian")
	}
	if got := b.ReadWord(0xC010); got != 0xBEEF {
		t.Fatalf("ReadWord got %04X want BEEF", got)
	}
}

func TestBus_NilPeripherals(t *testing.T) {
	b := New(&flatCart{}, Peripherals{}, logger.Discard())
	if got := b.Read(0xFF44); got != 0xFF {
		t.Fatalf("nil video read got %02X want FF", got)
	}
	b.Write(0xFF00, 0x10)
	if err := b.Err(); err != nil {
		t.Fatalf("nil peripheral faulted: %v", err)
	}
}

func TestBus_StateRoundTrip(t *testing.T) {
	f := newFixture()
	f.bus.Write(0x8123, 0x01)
	f.bus.Write(0xC456, 0x02)
	f.bus.Write(0xFE10, 0x03)
	f.bus.Write(0xFF90, 0x04)
	data, err := f.bus.SaveState()
	if err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	g := newFixture()
	if err := g.bus.LoadState(data); err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	for _, c := range []struct {
		addr uint16
		want byte
	}{{0x8123, 1}, {0xC456, 2}, {0xFE10, 3}, {0xFF90, 4}} {
		if got := g.bus.Read(c.addr); got != c.want {
			t.Fatalf("restored %04X got %02X want %02X", c.addr, got, c.want)
		}
	}

	withBoot := newFixture(WithBootROM(make([]byte, 0x100)))
	booted, err := withBoot.bus.SaveState()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.bus.DecodeState(booted); err == nil {
		t.Fatalf("DecodeState accepted a boot-mapped state without a boot image")
	}
	if err := f.bus.LoadState(booted); err == nil {
		t.Fatalf("expected error restoring a boot-mapped state without a boot image")
	}
}
