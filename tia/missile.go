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

// missile is an M0/M1 graphical object: a variable-width single-copy-or-
// more block with an enable latch and a "reset to player" lock that glues
// its position to its paired player's position.
type missile struct {
	object

	enable  bool
	nusiz   uint8
	resetToPlayer bool

	parent *player
}

func (m *missile) writeENAM(v uint8)  { m.enable = v&0x02 != 0 }
func (m *missile) writeNUSIZ(v uint8) { m.nusiz = v & (nusizCopiesMask | nusizSizeMask) }

func (m *missile) writeRESMP(v uint8) {
	locked := v&0x02 != 0
	if locked && !m.resetToPlayer && m.parent != nil {
		m.position = m.parent.position
	}
	m.resetToPlayer = locked
}

func (m *missile) copies() (count int, spacing int) {
	switch m.nusiz & nusizCopiesMask {
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
	case 0x07:
		return 4, 16
	default:
		return 1, 0
	}
}

func (m *missile) width() int {
	switch (m.nusiz & nusizSizeMask) >> 4 {
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

// pixel reports whether the missile is lit at visible column x. While
// locked to its player (RESMP set), the missile's graphics are disabled
// regardless of ENAM - the position tracks the player but nothing is
// drawn, per the Stella programmer's guide.
func (m *missile) pixel(x int) bool {
	if m.resetToPlayer {
		if m.parent != nil {
			m.position = m.parent.position
		}
		return false
	}
	if !m.enable {
		return false
	}
	count, spacing := m.copies()
	width := m.width()
	for c := 0; c < count; c++ {
		start := wrapPos(m.position + c*spacing)
		rel := x - start
		if rel < 0 {
			rel += 160
		}
		if rel < width {
			return true
		}
	}
	return false
}

func (m *missile) save(s *savestate.Serializer) {
	m.object.save(s)
	s.WriteBool(m.enable)
	s.WriteUint8(m.nusiz)
	s.WriteBool(m.resetToPlayer)
}

func (m *missile) load(d *savestate.Deserializer) {
	m.object.load(d)
	m.enable = d.ReadBool()
	m.nusiz = d.ReadUint8()
	m.resetToPlayer = d.ReadBool()
}
