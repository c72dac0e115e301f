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

// atari implements the "Atari format" family: plain 2K/4K ROM and the
// F8/F6/F4/F0 bankswitched variants, optionally with a Superchip RAM block.
//
// From bankswitch_sizes.txt lore: F8 is the standard 8K method - two 4K
// banks selected by touching $1FF8 (bank 0) or $1FF9 (bank 1). F6 and F4
// generalise this to 4 and 8 banks respectively, over a wider hotspot
// range. F0 (used by Dynacom's Megaboy conversions) instead has a single
// hotspot that advances the bank by one, wrapping, on every touch.
const superchipRAMSize = 128

type atari struct {
	name        string
	bankSize    int
	banks       [][]uint8
	bank        int
	bankChanged bool
	locked      bool

	// hotspot offset (within the 0x000-0xfff cartridge window) of the first
	// bank-select hotspot, and how many consecutive addresses from there
	// are hotspots. Zero count means no bankswitch hotspots (2K/4K).
	hotspotOffset uint16
	hotspotCount  int

	// sequential is true for F0: a single hotspot that advances the bank
	// by one (with wraparound) on every touch, rather than one hotspot per
	// bank.
	sequential bool

	ram        []uint8
	busData    uint8
	onIllegalRead func(addr uint16)
}

func newAtari(image []uint8, bankSize int, superchip bool) (mapper.Mapper, error) {
	if bankSize <= 0 || len(image) == 0 {
		return nil, vcserr.Errorf(vcserr.InvalidCartSize, len(image))
	}

	numBanks := len(image) / bankSize
	if numBanks < 1 {
		numBanks = 1
	}

	a := &atari{
		bankSize: bankSize,
		banks:    make([][]uint8, numBanks),
	}

	for b := 0; b < numBanks; b++ {
		start := b * bankSize
		end := start + bankSize
		if end > len(image) {
			end = len(image)
		}
		bank := make([]uint8, bankSize)
		copy(bank, image[start:end])
		// 2K images are mirrored to fill the 4K bank.
		if bankSize == 4096 && end-start <= 2048 {
			copy(bank[2048:], bank[:2048])
		}
		a.banks[b] = bank
	}

	switch numBanks {
	case 1:
		a.name = "4K"
		if bankSize == 2048 || len(image) <= 2048 {
			a.name = "2K"
		}
	case 2:
		a.name, a.hotspotOffset, a.hotspotCount = "F8", 0xFF8, 2
	case 4:
		a.name, a.hotspotOffset, a.hotspotCount = "F6", 0xFF6, 4
	case 8:
		a.name, a.hotspotOffset, a.hotspotCount = "F4", 0xFF4, 8
	case 16:
		a.name, a.hotspotOffset, a.sequential = "F0", 0xFF0, true
	default:
		a.name, a.hotspotOffset, a.hotspotCount = "F8", 0xFF8, 2
	}

	if superchip {
		a.name += "SC"
		a.ram = make([]uint8, superchipRAMSize)
	}

	return a, nil
}

func (a *atari) Name() string { return a.name }

func (a *atari) Reset(rng *rand.Rand) {
	a.bank = 0
	if len(a.banks) > 1 {
		// most cartridges don't care, but some rely on a specific startup
		// bank; the second bank is the more commonly correct default.
		a.bank = 1
	}
	a.bankChanged = true
	for i := range a.ram {
		if rng != nil {
			a.ram[i] = uint8(rng.Intn(256))
		} else {
			a.ram[i] = 0
		}
	}
}

func (a *atari) Install(b *bus.Bus) error {
	b.Install(atariDevice{a}, OriginCart, MemtopCart, bus.ReadWrite, nil, nil)
	return nil
}

// atariDevice adapts atari to bus.Device without widening the mapper.Mapper
// contract with bus-facing concerns.
type atariDevice struct{ a *atari }

func (d atariDevice) Peek(addr uint16) (uint8, error) {
	v, err := d.a.Peek(addr & 0x0fff)
	return v, err
}
func (d atariDevice) Poke(addr uint16, value uint8) error {
	_, err := d.a.Poke(addr&0x0fff, value)
	return err
}
func (d atariDevice) Reset() { d.a.Reset(nil) }

func (a *atari) checkHotspot(addr uint16) {
	if a.locked {
		return
	}
	if a.sequential {
		if addr == a.hotspotOffset {
			a.bank = (a.bank + 1) % len(a.banks)
			a.bankChanged = true
		}
		return
	}
	if a.hotspotCount == 0 {
		return
	}
	if addr >= a.hotspotOffset && addr < a.hotspotOffset+uint16(a.hotspotCount) {
		newBank := int(addr - a.hotspotOffset)
		if newBank != a.bank {
			a.bank = newBank
			a.bankChanged = true
		}
	}
}

func (a *atari) Peek(addr uint16) (uint8, error) {
	a.checkHotspot(addr)

	if a.ram != nil {
		port := addr % 256
		if port < 0x80 {
			// illegal read from write port: completes with the current
			// data-bus value and corrupts the RAM byte underneath it.
			if a.onIllegalRead != nil {
				a.onIllegalRead(addr)
			}
			v := a.busData
			if !a.locked {
				a.ram[port] = v
			}
			return v, nil
		}
		a.busData = a.ram[port-0x80]
		return a.busData, nil
	}

	a.busData = a.banks[a.bank][addr%uint16(a.bankSize)]
	return a.busData, nil
}

func (a *atari) Poke(addr uint16, value uint8) (bool, error) {
	a.checkHotspot(addr)

	if a.ram != nil && addr%256 < 0x80 {
		a.ram[addr%256] = value
		a.busData = value
		return true, nil
	}

	a.busData = value
	return true, nil
}

func (a *atari) Bank(index int) bool {
	if a.locked || index < 0 || index >= len(a.banks) {
		return false
	}
	if index != a.bank {
		a.bank = index
		a.bankChanged = true
	}
	return true
}

func (a *atari) CurrentBank() int { return a.bank }
func (a *atari) BankCount() int   { return len(a.banks) }

func (a *atari) BankChanged() bool {
	v := a.bankChanged
	a.bankChanged = false
	return v
}

func (a *atari) Lock(locked bool) { a.locked = locked }
func (a *atari) Locked() bool     { return a.locked }

func (a *atari) Patch(offset int, value uint8) bool {
	if offset < 0 || offset >= a.bankSize*len(a.banks) {
		return false
	}
	bank := offset / a.bankSize
	a.banks[bank][offset%a.bankSize] = value
	return true
}

func (a *atari) GetImage() []uint8 {
	image := make([]uint8, 0, a.bankSize*len(a.banks))
	for _, bank := range a.banks {
		image = append(image, bank...)
	}
	return image
}

func (a *atari) RAMAreas() []mapper.RAMArea {
	if a.ram == nil {
		return nil
	}
	return []mapper.RAMArea{{
		Label:       "Superchip",
		Start:       0,
		Size:        superchipRAMSize,
		ReadOffset:  0x80,
		WriteOffset: 0,
	}}
}

func (a *atari) OnIllegalRead(f func(addr uint16)) { a.onIllegalRead = f }

func (a *atari) Save(s *savestate.Serializer) error {
	s.WriteUint16(uint16(a.bank))
	s.WriteBytes(a.ram)
	return nil
}

func (a *atari) Load(d *savestate.Deserializer) error {
	a.bank = int(d.ReadUint16())
	a.ram = d.ReadBytes()
	if len(a.ram) == 0 {
		a.ram = nil
	}
	return d.Err()
}
