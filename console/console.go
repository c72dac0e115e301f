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

// Package console wires the bus, cartridge, TIA and a thin RIOT
// stand-in together into a single installable machine. It owns no
// emulation logic of its own beyond address-space layout and the RIOT
// stand-in; it contains no CPU and no instruction budget, and Update
// only brings the components up to the bus's cycle count. Everything
// else is delegated to the three components it installs.
package console

import (
	"math/rand"

	"github.com/jetsetilly/vcscore/bus"
	"github.com/jetsetilly/vcscore/cartridge"
	"github.com/jetsetilly/vcscore/prefs"
	"github.com/jetsetilly/vcscore/savestate"
	"github.com/jetsetilly/vcscore/sound"
	"github.com/jetsetilly/vcscore/tia"
)

// Address ranges of the installed TIA and RIOT regions. Each is installed
// once, at these addresses only: the TIA's 6-bit decode repeats its
// registers twice within its range and the RIOT's 5-bit decode four times
// within its range, and no other mirrors of either are installed. The
// cartridge occupies the whole upper half of the 13-bit address space.
const (
	tiaOrigin  = 0x0000
	tiaMemtop  = 0x007f
	riotOrigin = 0x0280
	riotMemtop = 0x02ff
)

// pageSize is the bus page size: a power of two that divides the start
// and length of every installed range. A page still holds 16 consecutive
// registers; each device decodes the address within its own range.
const pageSize = 16

// cartOrigin mirrors cartridge.OriginCart for tests and callers that want
// to address the cartridge window without importing the cartridge
// package directly.
const cartOrigin = cartridge.OriginCart

// Console is the assembled machine: a Bus with the TIA, RIOT stand-in
// and Cartridge installed onto it, plus the preferences and sound
// recorder threaded through at construction time.
type Console struct {
	Bus  *bus.Bus
	TIA  *tia.TIA
	Cart *cartridge.Cartridge

	riot *riot

	prefs prefs.TIAPrefs
}

// Create builds a Console around a loaded ROM image. explicit forces a
// particular bankswitching variant (empty string auto-detects);
// romLoadCount is the persisted multi-cart slice selector.
func Create(image []uint8, explicit string, romLoadCount int, region tia.Region, p prefs.TIAPrefs, recorder sound.Recorder) (*Console, error) {
	cart, err := cartridge.Create(image, explicit, romLoadCount)
	if err != nil {
		return nil, err
	}

	c := &Console{
		Bus:   bus.New(pageSize),
		TIA:   tia.New(region, p, recorder),
		Cart:  cart,
		riot:  newRIOT(),
		prefs: p,
	}

	c.TIA.Install(c.Bus, tiaOrigin, tiaMemtop)
	c.riot.Install(c.Bus, riotOrigin, riotMemtop)
	if err := c.Cart.Install(c.Bus); err != nil {
		return nil, err
	}

	if hw, ok := cart.HotspotWriter(); ok {
		c.riot.hotspotWriter = hw
	}

	return c, nil
}

// Reset returns every installed component to its power-on state.
func (c *Console) Reset() {
	var rng *rand.Rand
	if c.prefs.RAMRandom {
		rng = rand.New(rand.NewSource(1))
	}
	c.TIA.Reset()
	c.riot.Reset()
	c.Cart.Reset(c.prefs.RAMRandom, rng)
}

// Update brings the TIA's rendering up to the bus's current cycle count,
// expressed in color clocks (three per CPU cycle). Call this after every
// CPU instruction, or at minimum once per WSYNC/VSYNC boundary.
func (c *Console) Update() {
	c.riot.tick(1)
	c.TIA.UpdateFrame(int32(c.Bus.Cycles()) * 3)
}

// ResetCycles rebases the bus's cycle counter and notifies every
// subscriber (the TIA's clock anchors and dump-capacitor timers) of the
// delta, avoiding 32-bit overflow on long-running sessions.
func (c *Console) ResetCycles() {
	c.Bus.ResetCycles()
}

// Save writes every component's state to s, in a fixed order: TIA, then
// cartridge, then the RIOT stand-in.
func (c *Console) Save(s *savestate.Serializer) error {
	if err := c.TIA.Save(s); err != nil {
		return err
	}
	if err := c.Cart.Save(s); err != nil {
		return err
	}
	c.riot.save(s)
	return nil
}

// Load restores state written by Save, in the same order.
func (c *Console) Load(d *savestate.Deserializer) error {
	if err := c.TIA.Load(d); err != nil {
		return err
	}
	if err := c.Cart.Load(d); err != nil {
		return err
	}
	c.riot.load(d)
	return d.Err()
}
