package ppu

import "testing"

type mockVRAM map[uint16]byte

func (m mockVRAM) Read(addr uint16) byte { return m[addr] }

func TestFIFO(t *testing.T) {
	var q fifo
	if q.Len() != 0 {
		t.Fatal("new fifo not empty")
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("pop from empty should fail")
	}
	for i := 0; i < 16; i++ {
		if !q.Push(byte(i)) {
			t.Fatal("unexpected full")
		}
	}
	if q.Push(0) {
		t.Fatal("should be full")
	}
	for i := 0; i < 16; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatal("unexpected empty")
		}
		if v != byte(i)&3 {
			t.Fatalf("got %d want %d", v, byte(i)&3)
		}
	}
	q.Push(1)
	q.Clear()
	if q.Len() != 0 {
		t.Fatal("Clear left pixels behind")
	}
}

func TestRowFetcherEightPixels(t *testing.T) {
	mem := mockVRAM{0x9800: 0, 0x8000: 0x55, 0x8001: 0x33}
	f := newRowFetcher(mem, 0x9800, true, 0, 0)
	f.fetch()
	if f.q.Len() != 8 {
		t.Fatalf("expected 8 pixels in fifo, got %d", f.q.Len())
	}
	lo, hi := byte(0x55), byte(0x33)
	for i := 0; i < 8; i++ {
		b := 7 - byte(i)
		want := ((hi>>b)&1)<<1 | ((lo >> b) & 1)
		if got := f.next(); got != want {
			t.Fatalf("px %d got %d want %d", i, got, want)
		}
	}
}

func TestRowFetcherSignedAddressing(t *testing.T) {
	mem := mockVRAM{}
	mem[0x9C00] = 0xFF // tile -1 sits at 0x8FF0
	fineY := 5
	rowAddr := uint16(0x8FF0) + uint16(fineY)*2
	lo, hi := byte(0xA5), byte(0x5A)
	mem[rowAddr] = lo
	mem[rowAddr+1] = hi

	f := newRowFetcher(mem, 0x9C00, false, fineY, 0)
	for i := 0; i < 8; i++ {
		b := 7 - byte(i)
		want := ((hi>>b)&1)<<1 | ((lo >> b) & 1)
		if got := f.next(); got != want {
			t.Fatalf("px %d got %d want %d", i, got, want)
		}
	}
}

func TestRowFetcherWrapsAtThirtyTwoTiles(t *testing.T) {
	mem := mockVRAM{}
	mem[0x9800+31] = 1
	mem[0x9800+0] = 2
	mem[0x8010] = 0xFF // tile 1 row 0: colour 1
	mem[0x8021] = 0xFF // tile 2 row 0: colour 2
	f := newRowFetcher(mem, 0x9800, true, 0, 31)
	for i := 0; i < 8; i++ {
		if got := f.next(); got != 1 {
			t.Fatalf("tile 31 px %d got %d want 1", i, got)
		}
	}
	if got := f.next(); got != 2 {
		t.Fatalf("wrapped tile got %d want 2", got)
	}
}
