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

// tigervision implements the 3E scheme: Tigervision banking plus RAM. The
// cartridge window is two 2K halves. The low half is whichever 2K ROM bank
// was last selected by writing its index to address $3E; the high half is
// permanently fixed to the cartridge's last ROM bank, so the machine always
// starts up in the same place. Writing a bank index to $3F instead selects
// one of a small number of 256-byte RAM banks, which then takes over the
// entire low half: the first 128 bytes as a write port, the next 128 as its
// mirrored read port - the same wiring as the Atari Superchip, just bank
// switched.
type tigervision struct {
	romBanks [][]uint8
	ramBanks [][]uint8

	romBank int
	ramBank int
	ramMode bool

	locked      bool
	bankChanged bool
	busData     uint8

	onIllegalRead func(addr uint16)
}

const (
	tigervisionROMBankSize = 2048
	tigervisionRAMBankSize = 256
	tigervisionRAMBanks    = 8
)

func newTigervision(image []uint8) (mapper.Mapper, error) {
	if len(image) == 0 || len(image)%tigervisionROMBankSize != 0 {
		return nil, vcserr.Errorf(vcserr.InvalidCartSize, len(image))
	}

	numBanks := len(image) / tigervisionROMBankSize
	t := &tigervision{
		romBanks: make([][]uint8, numBanks),
		ramBanks: make([][]uint8, tigervisionRAMBanks),
	}
	for i := 0; i < numBanks; i++ {
		b := make([]uint8, tigervisionROMBankSize)
		copy(b, image[i*tigervisionROMBankSize:(i+1)*tigervisionROMBankSize])
		t.romBanks[i] = b
	}
	for i := range t.ramBanks {
		t.ramBanks[i] = make([]uint8, tigervisionRAMBankSize)
	}
	return t, nil
}

func (t *tigervision) Name() string { return "3E" }

func (t *tigervision) Reset(rng *rand.Rand) {
	t.romBank = 0
	t.ramBank = 0
	t.ramMode = false
	t.bankChanged = true
	for _, bank := range t.ramBanks {
		for i := range bank {
			if rng != nil {
				bank[i] = uint8(rng.Intn(256))
			} else {
				bank[i] = 0
			}
		}
	}
}

func (t *tigervision) Install(b *bus.Bus) error {
	b.Install(tigervisionDevice{t}, OriginCart, MemtopCart, bus.ReadWrite, nil, nil)
	return nil
}

type tigervisionDevice struct{ t *tigervision }

func (d tigervisionDevice) Peek(addr uint16) (uint8, error) { return d.t.Peek(addr & 0x0fff) }
func (d tigervisionDevice) Poke(addr uint16, value uint8) error {
	_, err := d.t.Poke(addr&0x0fff, value)
	return err
}
func (d tigervisionDevice) Reset() { d.t.Reset(nil) }

// checkHotspot evaluates a write to $3E/$3F. Tigervision hot-spots fire on
// the write alone, independent of which half of the window is subsequently
// addressed.
func (t *tigervision) checkHotspot(addr uint16, value uint8, isWrite bool) {
	if !isWrite || t.locked {
		return
	}
	switch addr {
	case 0x003E:
		bank := int(value) % len(t.romBanks)
		if t.ramMode || bank != t.romBank {
			t.bankChanged = true
		}
		t.romBank = bank
		t.ramMode = false
	case 0x003F:
		bank := int(value) % len(t.ramBanks)
		if !t.ramMode || bank != t.ramBank {
			t.bankChanged = true
		}
		t.ramBank = bank
		t.ramMode = true
	}
}

func (t *tigervision) lowHalfBank(addr uint16) int {
	if addr < tigervisionROMBankSize {
		return t.romBank
	}
	return len(t.romBanks) - 1
}

func (t *tigervision) Peek(addr uint16) (uint8, error) {
	if addr < tigervisionROMBankSize && t.ramMode {
		port := addr % 256
		ram := t.ramBanks[t.ramBank]
		if port < 128 {
			if t.onIllegalRead != nil {
				t.onIllegalRead(addr)
			}
			v := t.busData
			if !t.locked {
				ram[port] = v
			}
			return v, nil
		}
		t.busData = ram[port-128]
		return t.busData, nil
	}

	bank := t.lowHalfBank(addr)
	offset := addr
	if addr >= tigervisionROMBankSize {
		offset = addr - tigervisionROMBankSize
	}
	t.busData = t.romBanks[bank][offset]
	return t.busData, nil
}

func (t *tigervision) Poke(addr uint16, value uint8) (bool, error) {
	t.checkHotspot(addr, value, true)

	if addr < tigervisionROMBankSize && t.ramMode && addr%256 < 128 {
		t.ramBanks[t.ramBank][addr%256] = value
	}
	t.busData = value
	return true, nil
}

func (t *tigervision) Bank(index int) bool {
	if t.locked || index < 0 || index >= len(t.romBanks) {
		return false
	}
	if t.ramMode || index != t.romBank {
		t.bankChanged = true
	}
	t.romBank = index
	t.ramMode = false
	return true
}

func (t *tigervision) CurrentBank() int { return t.romBank }
func (t *tigervision) BankCount() int   { return len(t.romBanks) }

func (t *tigervision) BankChanged() bool {
	v := t.bankChanged
	t.bankChanged = false
	return v
}

func (t *tigervision) Lock(locked bool) { t.locked = locked }
func (t *tigervision) Locked() bool     { return t.locked }

func (t *tigervision) Patch(offset int, value uint8) bool {
	if offset < 0 || offset >= tigervisionROMBankSize*len(t.romBanks) {
		return false
	}
	t.romBanks[offset/tigervisionROMBankSize][offset%tigervisionROMBankSize] = value
	return true
}

func (t *tigervision) GetImage() []uint8 {
	image := make([]uint8, 0, tigervisionROMBankSize*len(t.romBanks))
	for _, b := range t.romBanks {
		image = append(image, b...)
	}
	return image
}

func (t *tigervision) RAMAreas() []mapper.RAMArea {
	areas := make([]mapper.RAMArea, len(t.ramBanks))
	for i := range areas {
		areas[i] = mapper.RAMArea{
			Label:      "3E RAM",
			Start:      0,
			Size:       128,
			ReadOffset: 128,
		}
	}
	return areas
}

func (t *tigervision) OnIllegalRead(f func(addr uint16)) { t.onIllegalRead = f }

func (t *tigervision) Save(s *savestate.Serializer) error {
	s.WriteUint16(uint16(t.romBank))
	s.WriteUint16(uint16(t.ramBank))
	s.WriteBool(t.ramMode)
	for _, bank := range t.ramBanks {
		s.WriteBytes(bank)
	}
	return nil
}

func (t *tigervision) Load(d *savestate.Deserializer) error {
	t.romBank = int(d.ReadUint16())
	t.ramBank = int(d.ReadUint16())
	t.ramMode = d.ReadBool()
	for i := range t.ramBanks {
		t.ramBanks[i] = d.ReadBytes()
	}
	return d.Err()
}
