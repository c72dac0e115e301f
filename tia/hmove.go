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

// extendedBlankWidth is the number of post-HBLANK pixels an HMOVE strobe
// forces to render as HBLANK color.
const extendedBlankWidth = 8

// hmoveState tracks the HMOVE machine across scanlines: whether a strobe
// is still being resolved this scanline (so a following HMxx write can
// trigger the more-motion-required bug), and whether the extended-blank
// period is in effect for the scanline currently being rendered.
type hmoveState struct {
	inProgress bool
	blank      bool
}

// strobeHMOVE handles an HMOVE register poke: primes every object's pending
// motion-clock counter and opens the extended-blank period. Called at the
// color clock the poke occurs; the actual position displacement is
// deferred to the next scanline boundary, see object.applyMotion.
func (t *TIA) strobeHMOVE() {
	t.p0.strobeHMOVE()
	t.p1.strobeHMOVE()
	t.m0.strobeHMOVE()
	t.m1.strobeHMOVE()
	t.bl.strobeHMOVE()
	t.hmove.inProgress = true
	t.hmove.blank = true
}

// endOfScanlineHMOVE applies any outstanding motion and phantom-motion
// displacements, and clears the in-progress latch so a later HMxx write
// this frame is treated as an ordinary register update again.
func (t *TIA) endOfScanlineHMOVE() {
	t.p0.applyMotion()
	t.p1.applyMotion()
	t.m0.applyMotion()
	t.m1.applyMotion()
	t.bl.applyMotion()

	t.p0.applyPhantomMotion()
	t.p1.applyPhantomMotion()
	t.m0.applyPhantomMotion()
	t.m1.applyPhantomMotion()
	t.bl.applyPhantomMotion()

	t.hmove.inProgress = false
	t.hmove.blank = false
}

func (h *hmoveState) save(s *savestate.Serializer) {
	s.WriteBool(h.inProgress)
	s.WriteBool(h.blank)
}

func (h *hmoveState) load(d *savestate.Deserializer) {
	h.inProgress = d.ReadBool()
	h.blank = d.ReadBool()
}
