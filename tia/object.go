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

// object is the state shared by every graphical object: the two players,
// the two missiles and the ball. Each carries a horizontal position, a
// horizontal-motion nibble, a pending motion-clock counter set at HMOVE
// time, and the "more-motion-required" latch responsible for the
// Cosmic-Ark/Stay-Frosty bug.
type object struct {
	position int

	hm          uint8
	motionClock int
	mmr         bool

	gfx uint8
}

// writeHM stores a HMxx write. If an HMOVE strobe is still being resolved
// this scanline and the new value doesn't happen to coincide with every
// internal motion-clock state (0x70 and 0x80 are the two exceptions), the
// "more-motion-required" bug is triggered: the object is shifted a full 15
// pixels and the mmr latch sets, so a phantom clock keeps nudging the
// object on following scanlines until a fresh HMOVE clears it.
func (o *object) writeHM(v uint8, hmoveInProgress bool) {
	o.hm = v & 0xf0
	if hmoveInProgress && v != 0x70 && v != 0x80 {
		o.position = wrapPos(o.position - 15)
		o.mmr = true
	}
}

// signedShift derives the signed pixel displacement from the stored HMxx
// nibble: (hm>>4) XOR 0x8, read as a 4-bit two's complement value.
func (o *object) signedShift() int {
	nibble := (o.hm >> 4) ^ 0x8
	return int(int8(nibble<<4)) >> 4
}

// strobeHMOVE snapshots the pending motion-clock counter from the current
// HMxx nibble. The actual position displacement happens at the next
// scanline boundary (applyMotion), not here - matching the hardware, where
// HMOVE only primes the counters that are consumed over the following
// scanline.
func (o *object) strobeHMOVE() {
	o.motionClock = int((o.hm >> 4) ^ 0x8)
	o.mmr = false
}

// applyMotion consumes the pending motion-clock counter, displacing the
// object by its signed shift. Called once per scanline boundary crossed
// while a motion clock is outstanding.
func (o *object) applyMotion() {
	if o.motionClock == 0 {
		return
	}
	o.position = wrapPos(o.position + o.signedShift())
	o.motionClock = 0
}

// applyPhantomMotion applies the Cosmic-Ark/Stay-Frosty phantom clock: one
// extra pixel of leftward displacement per scanline boundary, for as long
// as the mmr latch remains set.
func (o *object) applyPhantomMotion() {
	if !o.mmr {
		return
	}
	o.position = wrapPos(o.position - 1)
}

func wrapPos(p int) int {
	p %= 160
	if p < 0 {
		p += 160
	}
	return p
}

func (o *object) save(s *savestate.Serializer) {
	s.WriteInt16(int16(o.position))
	s.WriteUint8(o.hm)
	s.WriteInt(o.motionClock)
	s.WriteBool(o.mmr)
	s.WriteUint8(o.gfx)
}

func (o *object) load(d *savestate.Deserializer) {
	o.position = int(d.ReadInt16())
	o.hm = d.ReadUint8()
	o.motionClock = d.ReadInt()
	o.mmr = d.ReadBool()
	o.gfx = d.ReadUint8()
}

// respPos computes the new horizontal position for a RESPx write, given
// the object's pre-threshold delta and post-threshold base (+5 player,
// +4 missile/ball) and the current color-clock position within the
// scanline relative to the start of the visible display (hpos, which may
// be negative while still in HBLANK).
//
// hmoveActive selects the in-progress-HMOVE threshold and formula. No
// further adjustment is applied for a still-propagating previous HMOVE or
// for the active HMOVE's motion clock: the RESPx dispatch in registers.go
// passes the raw hpos.
func respPos(hpos int, hmoveActive bool, preThreshold, base int) int {
	if hmoveActive {
		if hpos < 7 {
			return 3
		}
	} else {
		if hpos < preThreshold {
			return 3
		}
	}
	return wrapPos(hpos + base)
}
