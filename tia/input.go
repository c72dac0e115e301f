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

// dumpCapacitorConstant is the 1.216e-6 factor from the paddle's RC
// charge-time formula.
const dumpCapacitorConstant = 1.216e-6

// MinPaddleResistance and MaxPaddleResistance are the two shortcircuit
// cases the formula special-cases: a paddle wired to its minimum
// resistance charges instantly, one wired to its maximum never charges.
const (
	MinPaddleResistance = 0
	MaxPaddleResistance = 1000000
)

// paddle is one INPT0-INPT3 dumped-capacitor input. Resistance is set by
// the host's controller layer; dumpCycle anchors the CPU cycle at which
// VBLANK bit 7 was last cleared (the capacitor started charging).
type paddle struct {
	resistance int
	dumpCycle  int
}

func (p *paddle) setResistance(ohms int) { p.resistance = ohms }

// read reports the paddle's INPTx value: bit 7 set once the capacitor
// has had long enough to charge, given the current cycle, region
// scanline count and framerate.
func (p *paddle) read(blanked bool, cycle int, scanlines int, framerate float64) uint8 {
	if blanked {
		return 0
	}
	if p.resistance <= MinPaddleResistance {
		return 0x80
	}
	if p.resistance >= MaxPaddleResistance {
		return 0
	}
	threshold := dumpCapacitorConstant * float64(p.resistance) * float64(scanlines) * framerate
	if float64(cycle-p.dumpCycle) >= threshold {
		return 0x80
	}
	return 0
}

func (p *paddle) dump(cycle int) { p.dumpCycle = cycle }

func (p *paddle) rebase(delta int) { p.dumpCycle -= delta }

func (p *paddle) save(s *savestate.Serializer) {
	s.WriteInt(p.resistance)
	s.WriteInt(p.dumpCycle)
}

func (p *paddle) load(d *savestate.Deserializer) {
	p.resistance = d.ReadInt()
	p.dumpCycle = d.ReadInt()
}

// button is one INPT4/INPT5 digital input. In latching mode (VBLANK bit
// 6) the returned value is AND-combined with the previous read until the
// latch is cleared, so a momentary press is remembered across reads.
type button struct {
	pressed bool
	latched uint8
}

func (b *button) set(pressed bool) { b.pressed = pressed }

func (b *button) read(latching bool) uint8 {
	raw := uint8(0x80)
	if b.pressed {
		raw = 0
	}
	if !latching {
		return raw
	}
	b.latched &= raw
	return b.latched
}

// clearLatch resets the latched value, called whenever VBLANK bit 6 is
// written as 0.
func (b *button) clearLatch() { b.latched = 0x80 }

func (b *button) save(s *savestate.Serializer) {
	s.WriteBool(b.pressed)
	s.WriteUint8(b.latched)
}

func (b *button) load(d *savestate.Deserializer) {
	b.pressed = d.ReadBool()
	b.latched = d.ReadUint8()
}
