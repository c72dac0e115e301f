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

import "github.com/jetsetilly/vcscore/savestate"

// ball is the BL graphical object: a single variable-width block with a
// delayed-enable shadow (VDEL) in addition to the shared object state.
type ball struct {
	object

	enable      bool
	enableDelay bool
	vdel        bool
	ctrlpf      uint8 // size bits, bits 4-5 of CTRLPF
}

func (b *ball) writeENABL(v uint8) {
	b.enableDelay = b.enable
	b.enable = v&0x02 != 0
}

func (b *ball) writeVDEL(v uint8) { b.vdel = v&0x01 != 0 }

func (b *ball) writeCTRLPFSize(v uint8) { b.ctrlpf = v & 0x30 }

func (b *ball) effectiveEnable() bool {
	if b.vdel {
		return b.enableDelay
	}
	return b.enable
}

func (b *ball) width() int {
	switch b.ctrlpf >> 4 {
	case 0x01:
		return 2
	case 0x02:
		return 4
	case 0x03:
		return 8
	default:
		return 1
	}
}

func (b *ball) pixel(x int) bool {
	if !b.effectiveEnable() {
		return false
	}
	rel := x - b.position
	if rel < 0 {
		rel += 160
	}
	return rel < b.width()
}

func (b *ball) save(s *savestate.Serializer) {
	b.object.save(s)
	s.WriteBool(b.enable)
	s.WriteBool(b.enableDelay)
	s.WriteBool(b.vdel)
	s.WriteUint8(b.ctrlpf)
}

func (b *ball) load(d *savestate.Deserializer) {
	b.object.load(d)
	b.enable = d.ReadBool()
	b.enableDelay = d.ReadBool()
	b.vdel = d.ReadBool()
	b.ctrlpf = d.ReadUint8()
}
