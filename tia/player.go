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

// NUSIZx bit masks, shared by players and missiles.
const (
	nusizCopiesMask = 0x07
	nusizSizeMask   = 0x30
)

// player is a P0/P1 graphical object: in addition to the shared object
// state it carries a delayed-graphics shadow (the VDEL register), a
// reflect flag and NUSIZ-derived copy/size settings.
type player struct {
	object

	gfxDelay uint8
	reflect  bool
	vdel     bool
	nusiz    uint8
}

func (p *player) writeGRP(v uint8) {
	p.gfxDelay = p.gfx
	p.gfx = v
}

func (p *player) writeVDEL(v uint8) { p.vdel = v&0x01 != 0 }
func (p *player) writeREFP(v uint8) { p.reflect = v&0x08 != 0 }
func (p *player) writeNUSIZ(v uint8) { p.nusiz = v & (nusizCopiesMask | nusizSizeMask) }

// effectiveGfx is the graphics byte actually scanned out: the delayed
// shadow when VDEL is set, the live register otherwise.
func (p *player) effectiveGfx() uint8 {
	if p.vdel {
		return p.gfxDelay
	}
	return p.gfx
}

// copies returns how many copies of the player NUSIZ requests, and at
// what pixel spacing beyond the primary copy (0 for a single copy).
func (p *player) copies() (count int, spacing int) {
	switch p.nusiz & nusizCopiesMask {
	case 0x01:
		return 2, 16
	case 0x02:
		return 2, 32
	case 0x03:
		return 3, 16
	case 0x04:
		return 2, 64
	case 0x06:
		return 3, 32
	default:
		return 1, 0
	}
}

// widthClocks is the number of color clocks each pixel of the player's
// graphics register occupies: 1 normal, 2 double, 4 quad width. Bit
// pattern 0x05 is double, 0x07 is quad; every other size bit pattern not
// covered by copies() above is normal width.
func (p *player) widthClocks() int {
	switch p.nusiz & nusizCopiesMask {
	case 0x05:
		return 2
	case 0x07:
		return 4
	default:
		return 1
	}
}

// pixel reports whether the player is lit at visible column x, scanning
// its 8-bit graphics register left to right (bit 7 first) unless
// reflected, across every requested copy and its width multiplier.
func (p *player) pixel(x int) bool {
	gfx := p.effectiveGfx()
	if gfx == 0 {
		return false
	}
	count, spacing := p.copies()
	wc := p.widthClocks()
	width := 8 * wc
	for c := 0; c < count; c++ {
		start := wrapPos(p.position + c*spacing)
		rel := x - start
		if rel < 0 {
			rel += 160
		}
		if rel >= width {
			continue
		}
		bit := rel / wc
		if p.reflect {
			bit = 7 - bit
		}
		if gfx&(1<<uint(7-bit)) != 0 {
			return true
		}
	}
	return false
}

func (p *player) save(s *savestate.Serializer) {
	p.object.save(s)
	s.WriteUint8(p.gfxDelay)
	s.WriteBool(p.reflect)
	s.WriteBool(p.vdel)
	s.WriteUint8(p.nusiz)
}

func (p *player) load(d *savestate.Deserializer) {
	p.object.load(d)
	p.gfxDelay = d.ReadUint8()
	p.reflect = d.ReadBool()
	p.vdel = d.ReadBool()
	p.nusiz = d.ReadUint8()
}
