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

// collisions holds the eight collision-detect registers, each latching
// which pair of objects has ever overlapped since the last CXCLR.
type collisions struct {
	CXm0p  uint8
	CXm1p  uint8
	CXp0fb uint8
	CXp1fb uint8
	CXm0fb uint8
	CXm1fb uint8
	CXblpf uint8
	CXppmm uint8

	enabledMask uint32
}

func (coll *collisions) clear() {
	coll.CXm0p = 0
	coll.CXm1p = 0
	coll.CXp0fb = 0
	coll.CXp1fb = 0
	coll.CXm0fb = 0
	coll.CXm1fb = 0
	coll.CXblpf = 0
	coll.CXppmm = 0
}

// collisionMask is indexed by the 6-bit combination of which objects are
// lit at the current pixel (bit0 P0, bit1 P1, bit2 M0, bit3 M1, bit4 BL,
// bit5 PF) and yields the OR-mask to apply to each of the eight collision
// registers, in the same order as the collisions struct fields. Built
// once at package init rather than carried as a literal 64-entry table,
// since the pairwise rule it encodes is only a few lines of boolean
// logic; the init function below sets the bit positions each register uses.
var collisionMask [64][8]uint8

func init() {
	for i := 0; i < 64; i++ {
		p0 := i&0x01 != 0
		p1 := i&0x02 != 0
		m0 := i&0x04 != 0
		m1 := i&0x08 != 0
		bl := i&0x10 != 0
		pf := i&0x20 != 0

		var m [8]uint8
		if m0 && p1 {
			m[0] |= 0x80
		}
		if m0 && p0 {
			m[0] |= 0x40
		}
		if m1 && p0 {
			m[1] |= 0x80
		}
		if m1 && p1 {
			m[1] |= 0x40
		}
		if p0 && bl {
			m[2] |= 0x80
		}
		if p0 && pf {
			m[2] |= 0x40
		}
		if p1 && bl {
			m[3] |= 0x80
		}
		if p1 && pf {
			m[3] |= 0x40
		}
		if m0 && bl {
			m[4] |= 0x80
		}
		if m0 && pf {
			m[4] |= 0x40
		}
		if m1 && bl {
			m[5] |= 0x80
		}
		if m1 && pf {
			m[5] |= 0x40
		}
		if bl && pf {
			m[6] |= 0x80
		}
		if p0 && p1 {
			m[7] |= 0x80
		}
		if m0 && m1 {
			m[7] |= 0x40
		}
		collisionMask[i] = m
	}
}

// record applies the collision-detect logic for one rendered pixel. Every
// lit object participates: enabledMask is saved and restored with the
// latches and left alone by CXCLR, but record does not consult it, so no
// object's collisions can be masked out.
func (coll *collisions) record(p0, p1, m0, m1, bl, pf bool) {
	idx := 0
	if p0 {
		idx |= 0x01
	}
	if p1 {
		idx |= 0x02
	}
	if m0 {
		idx |= 0x04
	}
	if m1 {
		idx |= 0x08
	}
	if bl {
		idx |= 0x10
	}
	if pf {
		idx |= 0x20
	}

	m := collisionMask[idx]
	coll.CXm0p |= m[0]
	coll.CXm1p |= m[1]
	coll.CXp0fb |= m[2]
	coll.CXp1fb |= m[3]
	coll.CXm0fb |= m[4]
	coll.CXm1fb |= m[5]
	coll.CXblpf |= m[6]
	coll.CXppmm |= m[7]
}

func (coll *collisions) save(s *savestate.Serializer) {
	s.WriteUint16(uint16(coll.CXm0p)<<8 | uint16(coll.CXm1p))
	s.WriteUint16(uint16(coll.CXp0fb)<<8 | uint16(coll.CXp1fb))
	s.WriteUint16(uint16(coll.CXm0fb)<<8 | uint16(coll.CXm1fb))
	s.WriteUint16(uint16(coll.CXblpf)<<8 | uint16(coll.CXppmm))
	s.WriteUint32(coll.enabledMask)
}

func (coll *collisions) load(d *savestate.Deserializer) {
	v := d.ReadUint16()
	coll.CXm0p, coll.CXm1p = uint8(v>>8), uint8(v)
	v = d.ReadUint16()
	coll.CXp0fb, coll.CXp1fb = uint8(v>>8), uint8(v)
	v = d.ReadUint16()
	coll.CXm0fb, coll.CXm1fb = uint8(v>>8), uint8(v)
	v = d.ReadUint16()
	coll.CXblpf, coll.CXppmm = uint8(v>>8), uint8(v)
	coll.enabledMask = d.ReadUint32()
}
