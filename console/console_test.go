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

package console

import (
	"testing"

	"github.com/jetsetilly/vcscore/prefs"
	"github.com/jetsetilly/vcscore/savestate"
	"github.com/jetsetilly/vcscore/sound"
	"github.com/jetsetilly/vcscore/tia"
)

func blank2K() []uint8 {
	return make([]uint8, 2048)
}

func newTestConsole(t *testing.T) *Console {
	t.Helper()
	c, err := Create(blank2K(), "2K", 0, tia.NTSC, prefs.Default(), sound.NullRecorder{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return c
}

func TestCreateInstallsAllThreeRegions(t *testing.T) {
	c := newTestConsole(t)

	if _, err := c.Bus.Peek(tiaOrigin); err != nil {
		t.Fatalf("TIA page not installed: %v", err)
	}
	if _, err := c.Bus.Peek(riotOrigin); err != nil {
		t.Fatalf("RIOT page not installed: %v", err)
	}
	if _, err := c.Bus.Peek(cartOrigin); err != nil {
		t.Fatalf("cartridge page not installed: %v", err)
	}
}

func TestUpdateAdvancesTIARendering(t *testing.T) {
	c := newTestConsole(t)
	c.Bus.AddCycles(100)
	c.Update()
	if c.TIA.Frame() == nil {
		t.Fatalf("expected a frame buffer after Update")
	}
}

func TestResetReinstallsComponents(t *testing.T) {
	c := newTestConsole(t)
	c.Bus.AddCycles(50)
	c.Reset()

	// Reset must not tear down the bus installation: the TIA's register
	// dispatch should still answer after a reset.
	if _, err := c.Bus.Peek(tiaOrigin); err != nil {
		t.Fatalf("TIA page lost after Reset: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := newTestConsole(t)
	c.Bus.AddCycles(10)
	c.Update()

	ser := savestate.NewSerializer()
	if err := c.Save(ser); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored := newTestConsole(t)
	des := savestate.NewDeserializer(ser.Bytes())
	if err := restored.Load(des); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestSWCHAWritesReachCompuMateHotspotWriter(t *testing.T) {
	c, err := Create(make([]uint8, 4096*4), "CM", 0, tia.NTSC, prefs.Default(), sound.NullRecorder{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.riot.hotspotWriter == nil {
		t.Fatalf("expected CompuMate to register as a hot-spot writer")
	}
	if err := c.Bus.Poke(riotOrigin+rSWCHA, 0x55); err != nil {
		t.Fatalf("Poke SWCHA: %v", err)
	}
	if got := c.Cart.CurrentBank(); got != 1 {
		t.Fatalf("SWCHA write 0x55 did not select CompuMate bank 1: bank %d", got)
	}
}
