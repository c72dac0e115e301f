package cartridge

import (
	"testing"

	"github.com/jetsetilly/vcscore/bus"
	"github.com/jetsetilly/vcscore/savestate"
)

func make4K() []uint8 {
	image := make([]uint8, 4096)
	image[0x0FFC] = 0x00
	image[0x0FFD] = 0xF0
	return image
}

func TestAutodetect4K(t *testing.T) {
	if tag := Autodetect(make4K()); tag != "4K" {
		t.Fatalf("expected 4K, got %s", tag)
	}
}

func TestAutodetectIsPure(t *testing.T) {
	image := make4K()
	a := Autodetect(image)
	b := Autodetect(image)
	if a != b {
		t.Fatalf("autodetect not pure: %s vs %s", a, b)
	}
}

func Test4KSmokeTest(t *testing.T) {
	image := make4K()
	c, err := Create(image, "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name() != "4K" {
		t.Fatalf("expected 4K, got %s", c.Name())
	}

	b := bus.New(64)
	if err := c.Install(b); err != nil {
		t.Fatalf("install: %v", err)
	}

	v, err := b.Peek(0x1FFC)
	if err != nil || v != 0x00 {
		t.Fatalf("expected 0x00 at 0x1FFC, got %#x, err %v", v, err)
	}
	v, err = b.Peek(0x1FFD)
	if err != nil || v != 0xF0 {
		t.Fatalf("expected 0xF0 at 0x1FFD, got %#x, err %v", v, err)
	}
}

func TestF8BankSwitch(t *testing.T) {
	image := make([]uint8, 8192)
	image[4096] = 0xAB // first byte of bank 1
	image[0] = 0xCD     // first byte of bank 0

	c, err := Create(image, "F8", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Reset(false, nil)

	b := bus.New(64)
	if err := c.Install(b); err != nil {
		t.Fatalf("install: %v", err)
	}

	if _, err := b.Peek(0x1FF9); err != nil {
		t.Fatalf("peek 1FF9: %v", err)
	}
	if c.CurrentBank() != 1 {
		t.Fatalf("expected bank 1, got %d", c.CurrentBank())
	}
	v, _ := b.Peek(0x1000)
	if v != 0xAB {
		t.Fatalf("expected 0xAB from bank 1, got %#x", v)
	}

	if _, err := b.Peek(0x1FF8); err != nil {
		t.Fatalf("peek 1FF8: %v", err)
	}
	if c.CurrentBank() != 0 {
		t.Fatalf("expected bank 0, got %d", c.CurrentBank())
	}
	v, _ = b.Peek(0x1000)
	if v != 0xCD {
		t.Fatalf("expected 0xCD from bank 0, got %#x", v)
	}
}

func TestF8SCRAM(t *testing.T) {
	image := make([]uint8, 8192)
	c, err := Create(image, "F8SC", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Reset(false, nil)

	b := bus.New(64)
	if err := c.Install(b); err != nil {
		t.Fatalf("install: %v", err)
	}

	if err := b.Poke(0x1040, 0x5A); err != nil {
		t.Fatalf("poke: %v", err)
	}
	v, err := b.Peek(0x10C0)
	if err != nil || v != 0x5A {
		t.Fatalf("expected 0x5A read back from read port, got %#x, err %v", v, err)
	}

	illegal := false
	c.OnIllegalAccess = func(addr uint16) { illegal = true }
	v, err = b.Peek(0x1040)
	if err != nil {
		t.Fatalf("peek write port: %v", err)
	}
	if !illegal {
		t.Fatalf("expected illegal-read-from-write-port notification")
	}
	_ = v
}

func TestBankLockedPreventsSwitch(t *testing.T) {
	image := make([]uint8, 8192)
	c, _ := Create(image, "F8", 0)
	c.Reset(false, nil)
	c.Lock(true)

	if c.Bank(0) {
		t.Fatalf("expected Bank() to fail while locked")
	}
}

func TestBankChangedLatchClearsOnQuery(t *testing.T) {
	image := make([]uint8, 8192)
	c, _ := Create(image, "F8", 0)
	c.Reset(false, nil)

	c.Bank(1)
	if !c.BankChanged() {
		t.Fatalf("expected bank-changed latch to be set")
	}
	if c.BankChanged() {
		t.Fatalf("expected bank-changed latch to clear after query")
	}
}

func TestMultiCartSlicingWraps(t *testing.T) {
	slice := make([]uint8, 4096)
	image := append(append([]uint8{}, slice...), slice...)
	image = append(image, slice...)

	_, _, err0 := sliceMultiCartTestHelper(image, "3IN1", 0)
	_, _, err1 := sliceMultiCartTestHelper(image, "3IN1", 3)
	if err0 != err1 {
		t.Fatalf("expected slice 3 to wrap back to slice 0: %q vs %q", err0, err1)
	}
}

func sliceMultiCartTestHelper(image []uint8, explicit string, romLoadCount int) ([]uint8, string, string) {
	return sliceMultiCart(image, explicit, romLoadCount)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	image := make([]uint8, 8192)
	image[4096] = 0x11
	c, _ := Create(image, "F8", 0)
	c.Reset(false, nil)
	c.Bank(1)

	ser := savestate.NewSerializer()
	if err := c.Save(ser); err != nil {
		t.Fatalf("save: %v", err)
	}

	c2, _ := Create(image, "F8", 0)
	c2.Reset(false, nil)
	des := savestate.NewDeserializer(ser.Bytes())
	if err := c2.Load(des); err != nil {
		t.Fatalf("load: %v", err)
	}
	if c2.CurrentBank() != 1 {
		t.Fatalf("expected restored bank 1, got %d", c2.CurrentBank())
	}
}
