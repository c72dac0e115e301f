package bus

import "testing"

type stubDevice struct {
	resetCalled bool
	pokeAddr    uint16
	pokeValue   uint8
}

func (s *stubDevice) Peek(addr uint16) (uint8, error) { return uint8(addr), nil }
func (s *stubDevice) Poke(addr uint16, value uint8) error {
	s.pokeAddr = addr
	s.pokeValue = value
	return nil
}
func (s *stubDevice) Reset() { s.resetCalled = true }

func TestInstallAndDispatch(t *testing.T) {
	b := New(64)
	dev := &stubDevice{}
	b.Install(dev, 0x0000, 0x003f, ReadWrite, nil, nil)

	v, err := b.Peek(0x0010)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x10 {
		t.Fatalf("expected 0x10, got %#x", v)
	}

	if err := b.Poke(0x0005, 0x42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dev.pokeAddr != 0x0005 || dev.pokeValue != 0x42 {
		t.Fatalf("poke not dispatched correctly: %+v", dev)
	}
}

func TestDirectReadBaseBypassesDevice(t *testing.T) {
	b := New(64)
	dev := &stubDevice{}
	rom := make([]uint8, 64)
	rom[3] = 0xAA
	b.Install(dev, 0x1000, 0x103f, ReadOnly, rom, nil)

	v, err := b.Peek(0x1003)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0xAA {
		t.Fatalf("expected direct-read value 0xAA, got %#x", v)
	}
}

func TestWriteOnlyPageRejectsRead(t *testing.T) {
	b := New(64)
	dev := &stubDevice{}
	b.Install(dev, 0x0000, 0x003f, WriteOnly, nil, nil)

	if _, err := b.Peek(0x0000); err == nil {
		t.Fatalf("expected error reading a write-only page")
	}
}

func TestResetCyclesNotifiesSubscribers(t *testing.T) {
	b := New(64)
	sub := &cycleSub{}
	b.Install(sub, 0x0000, 0x003f, ReadWrite, nil, nil)

	b.AddCycles(1000)
	b.ResetCycles()

	if sub.delta != 1000 {
		t.Fatalf("expected delta 1000, got %d", sub.delta)
	}
	if b.Cycles() != 0 {
		t.Fatalf("expected cycles reset to 0, got %d", b.Cycles())
	}
}

type cycleSub struct {
	stubDevice
	delta uint32
}

func (c *cycleSub) ResetCycles(delta uint32) { c.delta = delta }
