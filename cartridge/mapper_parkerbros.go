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

// parkerBros implements the E0 scheme: the cartridge window is divided into
// four 1K segments. The first three are independently switchable among the
// cartridge's eight 1K slices by touching $1FE0-$1FE7, $1FE8-$1FEF and
// $1FF0-$1FF7 respectively; the fourth is permanently fixed to the last
// slice, so the cartridge always starts up in the same place regardless of
// the other segments' state.
type parkerBros struct {
	banks       [8][]uint8
	segments    [3]int
	locked      bool
	bankChanged bool
}

const parkerBrosSliceSize = 1024

func newParkerBros(image []uint8) (mapper.Mapper, error) {
	if len(image) != parkerBrosSliceSize*8 {
		return nil, vcserr.Errorf(vcserr.InvalidCartSize, len(image))
	}
	p := &parkerBros{}
	for i := 0; i < 8; i++ {
		b := make([]uint8, parkerBrosSliceSize)
		copy(b, image[i*parkerBrosSliceSize:(i+1)*parkerBrosSliceSize])
		p.banks[i] = b
	}
	return p, nil
}

func (p *parkerBros) Name() string { return "E0" }

func (p *parkerBros) Reset(rng *rand.Rand) {
	p.segments = [3]int{4, 5, 6}
	p.bankChanged = true
}

func (p *parkerBros) Install(b *bus.Bus) error {
	b.Install(parkerBrosDevice{p}, OriginCart, MemtopCart, bus.ReadWrite, nil, nil)
	return nil
}

type parkerBrosDevice struct{ p *parkerBros }

func (d parkerBrosDevice) Peek(addr uint16) (uint8, error) {
	return d.p.Peek(addr & 0x0fff)
}
func (d parkerBrosDevice) Poke(addr uint16, value uint8) error {
	_, err := d.p.Poke(addr&0x0fff, value)
	return err
}
func (d parkerBrosDevice) Reset() { d.p.Reset(nil) }

func (p *parkerBros) checkHotspot(addr uint16) {
	if p.locked {
		return
	}
	switch {
	case addr >= 0xFE0 && addr <= 0xFE7:
		p.setSegment(0, int(addr-0xFE0))
	case addr >= 0xFE8 && addr <= 0xFEF:
		p.setSegment(1, int(addr-0xFE8))
	case addr >= 0xFF0 && addr <= 0xFF7:
		p.setSegment(2, int(addr-0xFF0))
	}
}

func (p *parkerBros) setSegment(segment, slice int) {
	if p.segments[segment] != slice {
		p.segments[segment] = slice
		p.bankChanged = true
	}
}

func (p *parkerBros) physicalBank(addr uint16) int {
	segment := int(addr / parkerBrosSliceSize)
	if segment == 3 {
		return 7
	}
	return p.segments[segment]
}

func (p *parkerBros) Peek(addr uint16) (uint8, error) {
	p.checkHotspot(addr)
	bank := p.physicalBank(addr)
	return p.banks[bank][addr%parkerBrosSliceSize], nil
}

func (p *parkerBros) Poke(addr uint16, value uint8) (bool, error) {
	p.checkHotspot(addr)
	return true, nil
}

// Bank sets all three switchable segments at once from a packed index:
// segment0*64 + segment1*8 + segment2, each a value 0-7. This has no
// equivalent hardware hotspot; it exists so the debugger can force a
// specific combination deterministically.
func (p *parkerBros) Bank(index int) bool {
	if p.locked || index < 0 || index > 511 {
		return false
	}
	p.setSegment(0, (index>>6)&7)
	p.setSegment(1, (index>>3)&7)
	p.setSegment(2, index&7)
	return true
}

func (p *parkerBros) CurrentBank() int {
	return p.segments[0]<<6 | p.segments[1]<<3 | p.segments[2]
}

func (p *parkerBros) BankCount() int { return 8 }

func (p *parkerBros) BankChanged() bool {
	v := p.bankChanged
	p.bankChanged = false
	return v
}

func (p *parkerBros) Lock(locked bool) { p.locked = locked }
func (p *parkerBros) Locked() bool     { return p.locked }

func (p *parkerBros) Patch(offset int, value uint8) bool {
	if offset < 0 || offset >= parkerBrosSliceSize*8 {
		return false
	}
	p.banks[offset/parkerBrosSliceSize][offset%parkerBrosSliceSize] = value
	return true
}

func (p *parkerBros) GetImage() []uint8 {
	image := make([]uint8, 0, parkerBrosSliceSize*8)
	for _, b := range p.banks {
		image = append(image, b...)
	}
	return image
}

func (p *parkerBros) RAMAreas() []mapper.RAMArea { return nil }

func (p *parkerBros) Save(s *savestate.Serializer) error {
	s.WriteUint8(uint8(p.segments[0]))
	s.WriteUint8(uint8(p.segments[1]))
	s.WriteUint8(uint8(p.segments[2]))
	return nil
}

func (p *parkerBros) Load(d *savestate.Deserializer) error {
	p.segments[0] = int(d.ReadUint8())
	p.segments[1] = int(d.ReadUint8())
	p.segments[2] = int(d.ReadUint8())
	return d.Err()
}
