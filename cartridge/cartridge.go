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

// Package cartridge implements the polymorphic Cartridge device: it
// installs itself into the 0x1000-0x1fff window and delegates the actual
// bankswitching behaviour to a mapper.Mapper selected either explicitly or
// by auto-detection of the ROM image.
package cartridge

import (
	"math/rand"
	"strings"

	"github.com/jetsetilly/vcscore/bus"
	"github.com/jetsetilly/vcscore/mapper"
	"github.com/jetsetilly/vcscore/savestate"
	"github.com/jetsetilly/vcscore/vcserr"
)

// OriginCart and MemtopCart bound the cartridge's primary address window.
const (
	OriginCart = uint16(0x1000)
	MemtopCart = uint16(0x1fff)
)

// Cartridge wraps a mapper.Mapper with the invariant attributes common to
// every scheme: the loaded image, the bank-changed latch, the startup
// bank, and the "about" summary produced at creation time.
type Cartridge struct {
	variant string
	about   string

	image []uint8
	m     mapper.Mapper

	startupBank int

	// OnIllegalAccess is called when a read lands on a write-port address.
	// This is a notification, not an error: the read still completes with
	// current-bus semantics (see vcserr package docs and spec §7).
	OnIllegalAccess func(addr uint16)

	rng *rand.Rand
}

// Name returns the scheme's short name, eg. "F8SC".
func (c *Cartridge) Name() string {
	if c.m == nil {
		return ""
	}
	return c.m.Name()
}

// About returns the human-readable summary produced when the cartridge was
// created - never stored as global state, always returned as a value.
func (c *Cartridge) About() string {
	return c.about
}

// Create constructs a Cartridge from a raw ROM image. If explicit is empty,
// the scheme is chosen by Autodetect; otherwise explicit must name one of
// the supported scheme tags or an InvalidCartType error is returned.
func Create(image []uint8, explicit string, romLoadCount int) (*Cartridge, error) {
	if len(image) == 0 {
		return nil, vcserr.Errorf(vcserr.InvalidCartSize, len(image))
	}

	image, variant, about := sliceMultiCart(image, explicit, romLoadCount)

	if variant == "" {
		if strings.TrimSpace(explicit) != "" {
			return nil, vcserr.Errorf(vcserr.InvalidCartType, explicit)
		}
		variant = Autodetect(image)
	}

	m, err := newMapper(variant, image)
	if err != nil {
		return nil, err
	}

	c := &Cartridge{
		variant:     variant,
		about:       about,
		image:       append([]uint8(nil), image...),
		m:           m,
		startupBank: 0,
	}

	if notifier, ok := m.(mapper.IllegalReadNotifier); ok {
		notifier.OnIllegalRead(func(addr uint16) {
			if c.OnIllegalAccess != nil {
				c.OnIllegalAccess(addr)
			}
		})
	}

	return c, nil
}

// newMapper instantiates the mapper matching variant.
func newMapper(variant string, image []uint8) (mapper.Mapper, error) {
	switch variant {
	case "2K":
		return newAtari(image, 2048, false)
	case "4K":
		return newAtari(image, 4096, false)
	case "F8":
		return newAtari(image, 4096, false)
	case "F8SC":
		return newAtari(image, 4096, true)
	case "F6":
		return newAtari(image, 4096, false)
	case "F6SC":
		return newAtari(image, 4096, true)
	case "F4":
		return newAtari(image, 4096, false)
	case "F4SC":
		return newAtari(image, 4096, true)
	case "F0":
		return newAtari(image, 4096, false)
	case "E0":
		return newParkerBros(image)
	case "3E":
		return newTigervision(image)
	case "UA":
		return newUA(image)
	case "CM":
		return newCompuMate(image)
	case "AR", "DPC", "DPC+", "4A50", "MC", "X07", "CTY", "FA", "FA2", "SB", "0840", "FE", "MB":
		return nil, vcserr.Errorf(vcserr.UnsupportedCartType, variant)
	default:
		return nil, vcserr.Errorf(vcserr.InvalidCartType, variant)
	}
}

// Install registers the cartridge's hot-spots with the bus.
func (c *Cartridge) Install(b *bus.Bus) error {
	return c.m.Install(b)
}

// HotspotWriter returns the underlying mapper as a mapper.HotspotWriter,
// if the selected scheme accepts writes from outside the cartridge
// address range - presently only CompuMate, driven by the RIOT's SWCHA.
func (c *Cartridge) HotspotWriter() (mapper.HotspotWriter, bool) {
	hw, ok := c.m.(mapper.HotspotWriter)
	return hw, ok
}

// Reset brings the cartridge to its power-on state. If ramrandom is true,
// on-cartridge RAM is seeded from rng instead of zeroed.
func (c *Cartridge) Reset(ramrandom bool, rng *rand.Rand) {
	if ramrandom {
		c.rng = rng
		c.m.Reset(rng)
	} else {
		c.m.Reset(nil)
	}
}

// Peek reads from the cartridge window. addr must be normalised to
// 0x0000-0x0fff.
func (c *Cartridge) Peek(addr uint16) (uint8, error) {
	return c.m.Peek(addr)
}

// Poke writes to the cartridge window.
func (c *Cartridge) Poke(addr uint16, value uint8) (bool, error) {
	return c.m.Poke(addr, value)
}

// Bank switches to the given bank, returning false if the cartridge is
// locked or the index is invalid.
func (c *Cartridge) Bank(index int) bool {
	return c.m.Bank(index)
}

// CurrentBank returns the active bank index.
func (c *Cartridge) CurrentBank() int {
	return c.m.CurrentBank()
}

// BankCount returns the number of banks implemented by the scheme.
func (c *Cartridge) BankCount() int {
	return c.m.BankCount()
}

// BankChanged reports, and clears, the bank-changed-since-last-query latch.
func (c *Cartridge) BankChanged() bool {
	return c.m.BankChanged()
}

// Lock prevents further bank switches - used by the debugger to read
// cartridge state without perturbing it.
func (c *Cartridge) Lock(locked bool) {
	c.m.Lock(locked)
}

// Locked reports whether the cartridge is presently lock.
func (c *Cartridge) Locked() bool {
	return c.m.Locked()
}

// Patch bypasses read/write-port restrictions to write directly into the
// ROM image.
func (c *Cartridge) Patch(addr int, value uint8) bool {
	return c.m.Patch(addr, value)
}

// GetImage returns a copy of the loaded ROM bytes.
func (c *Cartridge) GetImage() []uint8 {
	return c.m.GetImage()
}

// RAMAreas lists the cartridge's on-board RAM regions, if any.
func (c *Cartridge) RAMAreas() []mapper.RAMArea {
	return c.m.RAMAreas()
}

// Save writes the cartridge's mutable state: the variant name, the current
// bank and any RAM contents.
func (c *Cartridge) Save(s *savestate.Serializer) error {
	s.Section("cartridge")
	s.WriteString(c.variant)
	s.WriteUint16(uint16(c.m.CurrentBank()))
	return c.m.Save(s)
}

// Load restores cartridge state previously written by Save.
func (c *Cartridge) Load(d *savestate.Deserializer) error {
	if err := d.Section("cartridge"); err != nil {
		return err
	}
	variant := d.ReadString()
	bank := d.ReadUint16()
	if d.Err() != nil {
		return d.Err()
	}
	if variant != c.variant {
		return vcserr.Errorf(vcserr.SerializationFailure, "cartridge variant mismatch")
	}
	if err := c.m.Load(d); err != nil {
		return err
	}
	if c.m.CurrentBank() != int(bank) {
		c.m.Bank(int(bank))
	}
	return nil
}
