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

package cartridge

import (
	"math/rand"

	"github.com/jetsetilly/vcscore/bus"
	"github.com/jetsetilly/vcscore/mapper"
	"github.com/jetsetilly/vcscore/savestate"
	"github.com/jetsetilly/vcscore/vcserr"
)

// ua implements Activision's UA bankswitching: two 4K banks, selected by
// touching addresses $220-$23F (bank 0) or $240-$25F (bank 1). Unlike the
// Atari-family hotspots these fall within the RIOT's shadow of the address
// bus, so the cartridge must be listening to addresses outside its usual
// $1000-$1FFF decode; in practice the mirror at $1220/$1240 is what a 6507
// program actually touches.
type ua struct {
	banks       [2][]uint8
	bank        int
	locked      bool
	bankChanged bool
}

func newUA(image []uint8) (mapper.Mapper, error) {
	if len(image) != 8192 {
		return nil, vcserr.Errorf(vcserr.InvalidCartSize, len(image))
	}
	u := &ua{}
	u.banks[0] = append([]uint8(nil), image[:4096]...)
	u.banks[1] = append([]uint8(nil), image[4096:]...)
	return u, nil
}

func (u *ua) Name() string { return "UA" }

func (u *ua) Reset(rng *rand.Rand) {
	u.bank = 0
	u.bankChanged = true
}

func (u *ua) Install(b *bus.Bus) error {
	b.Install(uaDevice{u}, OriginCart, MemtopCart, bus.ReadWrite, nil, nil)
	return nil
}

type uaDevice struct{ u *ua }

func (d uaDevice) Peek(addr uint16) (uint8, error) { return d.u.Peek(addr & 0x0fff) }
func (d uaDevice) Poke(addr uint16, value uint8) error {
	_, err := d.u.Poke(addr&0x0fff, value)
	return err
}
func (d uaDevice) Reset() { d.u.Reset(nil) }

func (u *ua) checkHotspot(addr uint16) {
	if u.locked {
		return
	}
	switch {
	case addr >= 0x220 && addr <= 0x23F:
		u.selectBank(0)
	case addr >= 0x240 && addr <= 0x25F:
		u.selectBank(1)
	}
}

func (u *ua) selectBank(n int) {
	if u.bank != n {
		u.bank = n
		u.bankChanged = true
	}
}

func (u *ua) Peek(addr uint16) (uint8, error) {
	u.checkHotspot(addr)
	if addr > 0x0fff {
		return 0, vcserr.Errorf(vcserr.AddressError, addr)
	}
	return u.banks[u.bank][addr], nil
}

func (u *ua) Poke(addr uint16, value uint8) (bool, error) {
	u.checkHotspot(addr)
	return true, nil
}

func (u *ua) Bank(index int) bool {
	if u.locked || index < 0 || index > 1 {
		return false
	}
	u.selectBank(index)
	return true
}

func (u *ua) CurrentBank() int { return u.bank }
func (u *ua) BankCount() int   { return 2 }

func (u *ua) BankChanged() bool {
	v := u.bankChanged
	u.bankChanged = false
	return v
}

func (u *ua) Lock(locked bool) { u.locked = locked }
func (u *ua) Locked() bool     { return u.locked }

func (u *ua) Patch(offset int, value uint8) bool {
	if offset < 0 || offset >= 8192 {
		return false
	}
	u.banks[offset/4096][offset%4096] = value
	return true
}

func (u *ua) GetImage() []uint8 {
	image := make([]uint8, 0, 8192)
	image = append(image, u.banks[0]...)
	image = append(image, u.banks[1]...)
	return image
}

func (u *ua) RAMAreas() []mapper.RAMArea { return nil }

func (u *ua) Save(s *savestate.Serializer) error {
	s.WriteUint16(uint16(u.bank))
	return nil
}

func (u *ua) Load(d *savestate.Deserializer) error {
	u.bank = int(d.ReadUint16())
	return d.Err()
}
