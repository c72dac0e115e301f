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

// colors holds the four color registers and the debug "fixed colors"
// override.
type colors struct {
	colup0 uint8
	colup1 uint8
	colupf uint8
	colubk uint8

	fixed bool
}

// fixed palette entries used in debug "fixed colors" mode, one per
// object, so a frame can be visualised by which object contributed each
// pixel rather than by its configured color.
const (
	fixedP0 = 0x30
	fixedP1 = 0x16
	fixedM0 = 0x38
	fixedM1 = 0x1c
	fixedBL = 0x0e
	fixedPF = 0x02
)

// compose resolves the final color for one pixel from the enabled-object
// mask and the current CTRLPF priority/score bits, per the default and
// PF-priority orderings.
func (t *TIA) compose(x int, p0, p1, m0, m1, bl, pf bool) uint8 {
	c := &t.colors

	if c.fixed {
		switch {
		case p0:
			return fixedP0
		case m0:
			return fixedM0
		case p1:
			return fixedP1
		case m1:
			return fixedM1
		case bl:
			return fixedBL
		case pf:
			return fixedPF
		default:
			return c.colubk
		}
	}

	if t.pf.priority() {
		// PF priority: PF/BL > P0/M0 > P1/M1 > BK. Score mode is ignored.
		switch {
		case pf:
			return c.colupf
		case bl:
			return c.colupf
		case p0:
			return c.colup0
		case m0:
			return c.colup0
		case p1:
			return c.colup1
		case m1:
			return c.colup1
		default:
			return c.colubk
		}
	}

	// Default priority: P0/M0 > P1/M1 > PF/BL > BK.
	switch {
	case p0:
		return c.colup0
	case m0:
		return c.colup0
	case p1:
		return c.colup1
	case m1:
		return c.colup1
	case pf, bl:
		if t.pf.scoremode() && pf {
			if x < 80 {
				return c.colup0
			}
			return c.colup1
		}
		return c.colupf
	default:
		return c.colubk
	}
}
