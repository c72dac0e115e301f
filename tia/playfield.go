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

// CTRLPF bit masks.
const (
	ctrlPFReflectedMask = 0x01
	ctrlPFScoremodeMask = 0x02
	ctrlPFPriorityMask  = 0x04
)

// playfield assembles a 20-bit pattern from PF0/PF1/PF2 and mirrors or
// repeats it across the right half of the scanline according to CTRLPF.
//
// The 20 columns are filled, left to right, PF2 (bits 0-7, natural order),
// then PF1 (bits 7-0, reversed - "per Atari's wiring"), then the high
// nibble of PF0 (bits 4-7, natural order). This ordering - rather than the
// more obvious PF0,PF1,PF2 left-to-right guess - is the one that produces
// column 16 (not column 0) for a lone PF0 bit 4, matching the hardware.
type playfield struct {
	pf0, pf1, pf2 uint8
	ctrlPF        uint8
}

func (p *playfield) writePF0(v uint8) { p.pf0 = v & 0xf0 }
func (p *playfield) writePF1(v uint8) { p.pf1 = v }
func (p *playfield) writePF2(v uint8) { p.pf2 = v }
func (p *playfield) writeCTRLPF(v uint8) { p.ctrlPF = v }

func (p *playfield) reflected() bool { return p.ctrlPF&ctrlPFReflectedMask != 0 }
func (p *playfield) scoremode() bool { return p.ctrlPF&ctrlPFScoremodeMask != 0 }
func (p *playfield) priority() bool  { return p.ctrlPF&ctrlPFPriorityMask != 0 }

// column reports whether playfield column c (0-19) is set.
func (p *playfield) column(c int) bool {
	switch {
	case c < 8:
		return p.pf2&(1<<uint(c)) != 0
	case c < 16:
		return p.pf1&(1<<uint(15-c)) != 0
	default:
		return p.pf0&(1<<uint(c-12)) != 0
	}
}

// pixel reports whether the playfield is set at visible column x (0-159).
func (p *playfield) pixel(x int) bool {
	cell := x / 4
	if cell < 20 {
		return p.column(cell)
	}
	if p.reflected() {
		return p.column(39 - cell)
	}
	return p.column(cell - 20)
}

func (p *playfield) save(s *savestate.Serializer) {
	s.WriteUint8(p.pf0)
	s.WriteUint8(p.pf1)
	s.WriteUint8(p.pf2)
	s.WriteUint8(p.ctrlPF)
}

func (p *playfield) load(d *savestate.Deserializer) {
	p.pf0 = d.ReadUint8()
	p.pf1 = d.ReadUint8()
	p.pf2 = d.ReadUint8()
	p.ctrlPF = d.ReadUint8()
}
