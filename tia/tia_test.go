// This file is part of vcscore.
//
// vcscore is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// vcscore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with vcscore.  If not, see <https://www.gnu.org/licenses/>.

package tia

import (
	"testing"

	"github.com/jetsetilly/vcscore/prefs"
	"github.com/jetsetilly/vcscore/savestate"
	"github.com/jetsetilly/vcscore/sound"
)

func newTestTIA() *TIA {
	return New(NTSC, prefs.Default(), sound.NullRecorder{})
}

func TestPlayfieldPixelMapping(t *testing.T) {
	tia := newTestTIA()
	tia.Poke(wPF0, 0x10)
	tia.Poke(wPF1, 0x00)
	tia.Poke(wPF2, 0x00)
	tia.Poke(wCOLUPF, 0x42)
	tia.Poke(wCOLUBK, 0x00)
	tia.Poke(wCTRLPF, 0x00)

	tia.UpdateFrame(int32(ClocksPerScanline) * 3)

	if got := tia.frame[1][16]; got != 0x42 {
		t.Fatalf("pixel (16,1) = %#x, want 0x42", got)
	}
	if got := tia.frame[1][15]; got != 0x00 {
		t.Fatalf("pixel (15,1) = %#x, want 0x00", got)
	}
}

func TestPlayfieldReflectedMirrorsRightHalf(t *testing.T) {
	tia := newTestTIA()
	tia.Poke(wPF0, 0x10) // column 16 set
	tia.Poke(wCTRLPF, ctrlPFReflectedMask)

	tia.UpdateFrame(int32(ClocksPerScanline) * 2)

	// reflected: column 16 mirrors to column 39-16=23, covering x 92-95.
	for x := 92; x < 96; x++ {
		if !tia.pf.pixel(x) {
			t.Fatalf("reflected mirror missing at x=%d", x)
		}
	}
}

func TestCollisionLatchAndClear(t *testing.T) {
	tia := newTestTIA()
	tia.col.record(true, false, false, true, false, false) // P0 and M1 overlap

	if tia.col.CXm1p&0x80 == 0 {
		t.Fatalf("expected CXM1P bit 7 set after P0/M1 overlap")
	}

	tia.Poke(wCXCLR, 0)
	if tia.col.CXm1p != 0 {
		t.Fatalf("CXCLR did not clear CXM1P")
	}
}

func TestUpdateFrameIdempotent(t *testing.T) {
	tia := newTestTIA()
	tia.Poke(wCOLUBK, 0x20)
	tia.UpdateFrame(1000)
	snapshot := tia.clock.atLastUpdate
	tia.UpdateFrame(500) // earlier target: no-op
	if tia.clock.atLastUpdate != snapshot {
		t.Fatalf("UpdateFrame with earlier target mutated clock: %d != %d", tia.clock.atLastUpdate, snapshot)
	}
}

func TestHMOVEMoreMotionRequiredLatch(t *testing.T) {
	tia := newTestTIA()
	tia.p0.position = 80

	tia.strobeHMOVE()
	// HMP0 written mid-HMOVE with a value other than 0x70/0x80: triggers
	// the more-motion-required bug.
	tia.p0.writeHM(0x10, true)

	if !tia.p0.mmr {
		t.Fatalf("expected more-motion-required latch to be set")
	}
	if tia.p0.position != wrapPos(80-15) {
		t.Fatalf("expected full 15-pixel shift, got position %d", tia.p0.position)
	}

	// HMCLR does not clear the latch - only a fresh HMOVE does.
	tia.Poke(wHMCLR, 0)
	if !tia.p0.mmr {
		t.Fatalf("HMCLR must not clear the more-motion-required latch")
	}

	tia.strobeHMOVE()
	if tia.p0.mmr {
		t.Fatalf("a fresh HMOVE strobe must clear the more-motion-required latch")
	}
}

func TestRESMPLocksMissileToPlayer(t *testing.T) {
	tia := newTestTIA()
	tia.p0.position = 42
	tia.m0.writeENAM(0x02)
	tia.m0.writeRESMP(0x02)

	if tia.m0.pixel(42) {
		t.Fatalf("missile graphics must be disabled while locked to its player")
	}
	if tia.m0.position != 42 {
		t.Fatalf("missile position did not track player: got %d", tia.m0.position)
	}
}

func TestPaddleMinMaxResistanceShortcircuit(t *testing.T) {
	p := &paddle{}
	p.setResistance(MinPaddleResistance)
	if v := p.read(false, 0, 262, 60); v != 0x80 {
		t.Fatalf("min resistance should charge immediately, got %#x", v)
	}

	p.setResistance(MaxPaddleResistance)
	if v := p.read(false, 1_000_000, 262, 60); v != 0 {
		t.Fatalf("max resistance should never charge, got %#x", v)
	}
}

func TestButtonLatchingANDCombines(t *testing.T) {
	b := &button{latched: 0x80}
	b.set(true) // pressed
	if v := b.read(true); v != 0 {
		t.Fatalf("pressed button should read 0 while latching, got %#x", v)
	}
	b.set(false) // released, but the latch remembers the earlier press
	if v := b.read(true); v != 0 {
		t.Fatalf("latched button must stay 0 until cleared, got %#x", v)
	}
	b.clearLatch()
	if v := b.read(true); v != 0x80 {
		t.Fatalf("after clearLatch, unpressed button should read 0x80, got %#x", v)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tia := newTestTIA()
	tia.Poke(wCOLUBK, 0x1c)
	tia.Poke(wPF0, 0xf0)
	tia.UpdateFrame(500)

	ser := savestate.NewSerializer()
	if err := tia.Save(ser); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := newTestTIA()
	des := savestate.NewDeserializer(ser.Bytes())
	if err := restored.Load(des); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if restored.colors.colubk != 0x1c {
		t.Fatalf("COLUBK not restored: %#x", restored.colors.colubk)
	}
	if restored.pf.pf0 != 0xf0 {
		t.Fatalf("PF0 not restored: %#x", restored.pf.pf0)
	}
	if restored.clock.atLastUpdate != tia.clock.atLastUpdate {
		t.Fatalf("clock not restored: %d != %d", restored.clock.atLastUpdate, tia.clock.atLastUpdate)
	}
}

func TestPositionWrapsWithinVisibleWidth(t *testing.T) {
	o := &object{position: 159}
	o.position = wrapPos(o.position + 5)
	if o.position != 4 {
		t.Fatalf("position did not wrap: got %d", o.position)
	}
}
