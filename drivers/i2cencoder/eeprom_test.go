package i2cencoder

import "testing"

func gconfWrites(bus *fakeBus) int {
	n := 0
	for _, w := range bus.writes {
		if len(w) == 2 && w[0] == regGConf {
			n++
		}
	}
	return n
}

func TestEEPROM_LowAddressClearsBankOnce(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus, 0x21)
	if err := d.Begin(ConfigDefault | EEPROMBank1); err != nil {
		t.Fatal(err)
	}
	base := gconfWrites(bus)

	if err := d.WriteEEPROM(0x10, 0xAB); err != nil {
		t.Fatal(err)
	}
	if n := gconfWrites(bus) - base; n != 1 {
		t.Fatalf("bank switch wrote GCONF %d times, want 1", n)
	}
	if d.ConfigWord()&EEPROMBank1 != 0 {
		t.Fatal("retained word kept the bank bit after switching down")
	}
	if bus.regs[regEEPROM+0x10] != 0xAB {
		t.Fatalf("data landed at %#02x, want EEPROMS+0x10", bus.regs[regEEPROM+0x10])
	}

	// Second access in the same bank: no further configuration write.
	if v, err := d.ReadEEPROM(0x20); err != nil || v != 0 {
		t.Fatalf("read: v=%d err=%v", v, err)
	}
	if n := gconfWrites(bus) - base; n != 1 {
		t.Fatalf("consecutive same-bank access rewrote GCONF (%d writes)", n)
	}
}

func TestEEPROM_HighAddressSetsBankOnce(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus, 0x21)
	if err := d.Begin(ConfigDefault); err != nil {
		t.Fatal(err)
	}
	base := gconfWrites(bus)

	if err := d.WriteEEPROM(0x90, 0x5A); err != nil {
		t.Fatal(err)
	}
	if n := gconfWrites(bus) - base; n != 1 {
		t.Fatalf("bank switch wrote GCONF %d times, want 1", n)
	}
	if d.ConfigWord()&EEPROMBank1 == 0 {
		t.Fatal("retained word missed the bank bit after switching up")
	}
	// Absolute addressing above 0x80: the data register is the address itself.
	if bus.regs[0x90] != 0x5A {
		t.Fatalf("data landed at %#02x, want 0x90", bus.regs[0x90])
	}

	if _, err := d.ReadEEPROM(0xF0); err != nil {
		t.Fatal(err)
	}
	if n := gconfWrites(bus) - base; n != 1 {
		t.Fatalf("consecutive same-bank access rewrote GCONF (%d writes)", n)
	}
}

func TestEEPROM_AlternatingBanksSwitchEveryTime(t *testing.T) {
	bus := &fakeBus{}
	d := New(bus, 0x21)
	if err := d.Begin(ConfigDefault); err != nil {
		t.Fatal(err)
	}
	base := gconfWrites(bus)

	seq := []uint8{0x10, 0x90, 0x10, 0x90}
	for _, a := range seq {
		if _, err := d.ReadEEPROM(a); err != nil {
			t.Fatal(err)
		}
	}
	// First low access needs no switch (bank already clear); the other
	// three each cross the boundary.
	if n := gconfWrites(bus) - base; n != 3 {
		t.Fatalf("boundary crossings wrote GCONF %d times, want 3", n)
	}
}
