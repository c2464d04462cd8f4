package bits

import "testing"

func TestRegisterBitAndSet(t *testing.T) {
	var r Register
	for n := uint(0); n < 8; n++ {
		if r.Bit(n) {
			t.Fatalf("bit %d set on zero register", n)
		}
	}
	r = r.Set(7, true).Set(0, true)
	if r != 0x81 {
		t.Fatalf("got %02X want 81", byte(r))
	}
	r2 := r.Set(7, false)
	if r2 != 0x01 || r != 0x81 {
		t.Fatalf("Set mutated receiver or wrong result: r=%02X r2=%02X", byte(r), byte(r2))
	}
}

func TestRegisterField(t *testing.T) {
	r := Register(0b1110_0100)
	if got := r.Field(2, 2); got != 0b01 {
		t.Fatalf("Field(2,2) got %02b want 01", got)
	}
	if got := r.Field(5, 3); got != 0b111 {
		t.Fatalf("Field(5,3) got %03b want 111", got)
	}
}
