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

// SWCHA bit masks relevant to the CompuMate's cartridge logic. Column clock
// and reset are documented in the spec; bank select and RAM direction are
// this implementation's choice of which remaining bits carry which signal,
// since the membrane-keyboard hardware notes don't pin down an exact
// mapping, only the existence of these four controls.
const (
	cmBankSelectMask   = 0x03
	cmRAMDirectionMask = 0x10
	cmColumnResetMask  = 0x20
	cmColumnClockMask  = 0x40
)

const (
	cmBankSize = 4096
	cmRAMSize  = 2048
)

// compuMate implements the CM scheme used by SpectraVideo's CompuMate
// peripheral cartridges. Four 4K banks share the cartridge window with 2K
// of always-present RAM: the low half of the window is RAM, the high half
// is the top 2K of whichever ROM bank is selected. Both the bank and the
// RAM's read/write direction are driven from outside the cartridge address
// range entirely - by bits of the RIOT's SWCHA port - which also clocks a
// column counter over a 4x10 membrane keyboard matrix. This is the most
// complex interaction pattern in the cartridge layer: the mapper must react
// to writes that never touch $1000-$1FFF at all.
type compuMate struct {
	banks [4][]uint8
	ram   []uint8

	bank        int
	ramWritable bool
	keyColumn   int
	keys        [4][10]bool

	locked      bool
	bankChanged bool
}

func newCompuMate(image []uint8) (mapper.Mapper, error) {
	if len(image) != cmBankSize*4 {
		return nil, vcserr.Errorf(vcserr.InvalidCartSize, len(image))
	}
	c := &compuMate{ram: make([]uint8, cmRAMSize)}
	for i := 0; i < 4; i++ {
		b := make([]uint8, cmBankSize)
		copy(b, image[i*cmBankSize:(i+1)*cmBankSize])
		c.banks[i] = b
	}
	return c, nil
}

func (c *compuMate) Name() string { return "CM" }

func (c *compuMate) Reset(rng *rand.Rand) {
	c.bank = 0
	c.ramWritable = true
	c.keyColumn = 0
	c.bankChanged = true
	for i := range c.ram {
		if rng != nil {
			c.ram[i] = uint8(rng.Intn(256))
		} else {
			c.ram[i] = 0
		}
	}
}

func (c *compuMate) Install(b *bus.Bus) error {
	b.Install(compuMateDevice{c}, OriginCart, MemtopCart, bus.ReadWrite, nil, nil)
	return nil
}

type compuMateDevice struct{ c *compuMate }

func (d compuMateDevice) Peek(addr uint16) (uint8, error) { return d.c.Peek(addr & 0x0fff) }
func (d compuMateDevice) Poke(addr uint16, value uint8) error {
	_, err := d.c.Poke(addr&0x0fff, value)
	return err
}
func (d compuMateDevice) Reset() { d.c.Reset(nil) }

func (c *compuMate) Peek(addr uint16) (uint8, error) {
	if addr < cmRAMSize {
		return c.ram[addr], nil
	}
	return c.banks[c.bank][addr], nil
}

func (c *compuMate) Poke(addr uint16, value uint8) (bool, error) {
	if addr < cmRAMSize {
		if c.ramWritable && !c.locked {
			c.ram[addr] = value
		}
		return true, nil
	}
	return true, nil
}

// ExternalWrite implements mapper.HotspotWriter: the CompuMate reacts to
// writes to the RIOT's SWCHA register even though SWCHA's address is
// nowhere near the cartridge's own window.
func (c *compuMate) ExternalWrite(reg string, value uint8) {
	if reg != "SWCHA" || c.locked {
		return
	}

	if newBank := int(value & cmBankSelectMask); newBank != c.bank {
		c.bank = newBank
		c.bankChanged = true
	}
	c.ramWritable = value&cmRAMDirectionMask == 0

	if value&cmColumnResetMask != 0 {
		c.keyColumn = 0
	} else if value&cmColumnClockMask != 0 {
		c.keyColumn = (c.keyColumn + 1) % 10
	}
}

// SetKey sets the state of a single membrane-keyboard switch. row is 0-3,
// column is 0-9.
func (c *compuMate) SetKey(row, column int, pressed bool) {
	if row < 0 || row > 3 || column < 0 || column > 9 {
		return
	}
	c.keys[row][column] = pressed
}

// ReadColumn returns the four row states of the currently-selected keyboard
// column, packed into the low four bits.
func (c *compuMate) ReadColumn() uint8 {
	var v uint8
	for row := 0; row < 4; row++ {
		if c.keys[row][c.keyColumn] {
			v |= 1 << uint(row)
		}
	}
	return v
}

func (c *compuMate) Bank(index int) bool {
	if c.locked || index < 0 || index > 3 {
		return false
	}
	if index != c.bank {
		c.bank = index
		c.bankChanged = true
	}
	return true
}

func (c *compuMate) CurrentBank() int { return c.bank }
func (c *compuMate) BankCount() int   { return 4 }

func (c *compuMate) BankChanged() bool {
	v := c.bankChanged
	c.bankChanged = false
	return v
}

func (c *compuMate) Lock(locked bool) { c.locked = locked }
func (c *compuMate) Locked() bool     { return c.locked }

func (c *compuMate) Patch(offset int, value uint8) bool {
	if offset < 0 || offset >= cmBankSize*4 {
		return false
	}
	c.banks[offset/cmBankSize][offset%cmBankSize] = value
	return true
}

func (c *compuMate) GetImage() []uint8 {
	image := make([]uint8, 0, cmBankSize*4)
	for _, b := range c.banks {
		image = append(image, b...)
	}
	return image
}

func (c *compuMate) RAMAreas() []mapper.RAMArea {
	return []mapper.RAMArea{{Label: "CompuMate RAM", Start: 0, Size: cmRAMSize}}
}

func (c *compuMate) Save(s *savestate.Serializer) error {
	s.WriteUint16(uint16(c.bank))
	s.WriteBool(c.ramWritable)
	s.WriteUint8(uint8(c.keyColumn))
	s.WriteBytes(c.ram)
	return nil
}

func (c *compuMate) Load(d *savestate.Deserializer) error {
	c.bank = int(d.ReadUint16())
	c.ramWritable = d.ReadBool()
	c.keyColumn = int(d.ReadUint8())
	c.ram = d.ReadBytes()
	return d.Err()
}
