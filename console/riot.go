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

package console

import (
	"github.com/jetsetilly/vcscore/bus"
	"github.com/jetsetilly/vcscore/mapper"
	"github.com/jetsetilly/vcscore/savestate"
)

// RIOT register offsets, relative to its own page.
const (
	riotMask = 0x1f

	rSWCHA = 0x00
	rSWACNT = 0x01
	rSWCHB = 0x02
	rSWBCNT = 0x03
	rINTIM = 0x04

	wTIM1T  = 0x14
	wTIM8T  = 0x15
	wTIM64T = 0x16
	wT1024T = 0x17
)

// riot is a thin stand-in for the PIA chip: just enough of SWCHA/SWCHB
// and the interval timer for the cartridge layer's hot-spots that live
// outside the cartridge address range (CompuMate's SWCHA-driven keyboard
// and bank select) and for a CPU that wants to poll INTIM.
//
// The teacher's own RIOT is itself an unimplemented stub at this point in
// its history (ReadRIOTMemory has nothing but TODO comments) - this
// reimplementation fills in the timer and the SWCHA passthrough that the
// CompuMate cartridge variant actually depends on, rather than leaving
// the same TODOs in place.
type riot struct {
	swcha, swacnt uint8
	swchb, swbcnt uint8

	timer      uint8
	interval   uint16
	underflow  bool

	hotspotWriter mapper.HotspotWriter
}

func newRIOT() *riot {
	r := &riot{swchb: 0x3f, interval: 1}
	return r
}

func (r *riot) Install(b *bus.Bus, start, end uint16) {
	b.Install(r, start, end, bus.ReadWrite, nil, nil)
}

func (r *riot) Reset() {
	hw := r.hotspotWriter
	*r = *newRIOT()
	r.hotspotWriter = hw
}

func (r *riot) Peek(addr uint16) (uint8, error) {
	switch addr & riotMask {
	case rSWCHA:
		return r.swcha, nil
	case rSWACNT:
		return r.swacnt, nil
	case rSWCHB:
		return r.swchb, nil
	case rSWBCNT:
		return r.swbcnt, nil
	case rINTIM:
		return r.timer, nil
	}
	return 0, nil
}

func (r *riot) Poke(addr uint16, value uint8) error {
	switch addr & riotMask {
	case rSWCHA:
		r.swcha = value
		if r.hotspotWriter != nil {
			r.hotspotWriter.ExternalWrite("SWCHA", value)
		}
	case rSWACNT:
		r.swacnt = value
	case rSWCHB:
		r.swchb = value
	case rSWBCNT:
		r.swbcnt = value
	case wTIM1T:
		r.timer, r.interval = value, 1
	case wTIM8T:
		r.timer, r.interval = value, 8
	case wTIM64T:
		r.timer, r.interval = value, 64
	case wT1024T:
		r.timer, r.interval = value, 64*16
	}
	return nil
}

// tick advances the interval timer by n CPU cycles.
func (r *riot) tick(n int) {
	for i := 0; i < n; i++ {
		if r.timer == 0 {
			r.underflow = true
			r.timer = 0xff
			continue
		}
		// the real chip only decrements every `interval` cycles once
		// past the initial countdown; the reimplementation simplifies
		// this to an even division, which is accurate for the common
		// case of reading INTIM shortly after setting a timer.
		if int(r.timer)*int(r.interval) <= n {
			r.timer--
		}
	}
}

func (r *riot) save(s *savestate.Serializer) {
	s.Section("RIOT")
	s.WriteUint8(r.swcha)
	s.WriteUint8(r.swacnt)
	s.WriteUint8(r.swchb)
	s.WriteUint8(r.swbcnt)
	s.WriteUint8(r.timer)
	s.WriteUint16(r.interval)
	s.WriteBool(r.underflow)
}

func (r *riot) load(d *savestate.Deserializer) {
	d.Section("RIOT")
	r.swcha = d.ReadUint8()
	r.swacnt = d.ReadUint8()
	r.swchb = d.ReadUint8()
	r.swbcnt = d.ReadUint8()
	r.timer = d.ReadUint8()
	r.interval = d.ReadUint16()
	r.underflow = d.ReadBool()
}
