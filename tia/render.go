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

// UpdateFrame brings rendered state up to targetClock, an absolute color
// clock counted from the moment the TIA was created or last had its
// cycles rebased. It is idempotent for targetClock <= the clock reached
// by the previous call, and strictly-advancing otherwise - grounded on
// the real chip's lazy, catch-up style of rendering rather than a
// per-color-clock step function.
func (t *TIA) UpdateFrame(targetClock int32) {
	if targetClock <= t.clock.atLastUpdate {
		return
	}

	for t.clock.atLastUpdate < targetClock {
		relStart := t.clock.atLastUpdate - t.clock.whenFrameStarted
		lineStart := t.clock.whenFrameStarted + (relStart/ClocksPerScanline)*ClocksPerScanline
		lineEnd := lineStart + ClocksPerScanline

		stop := targetClock
		if lineEnd < stop {
			stop = lineEnd
		}

		t.renderRun(t.clock.atLastUpdate, stop)
		t.clock.atLastUpdate = stop

		if stop == lineEnd {
			t.endOfScanlineHMOVE()
			t.scanline++
			if t.scanline >= t.region.maximumScanlines() {
				t.EndFrame()
				t.StartFrame()
				t.clock.whenFrameStarted = t.clock.atLastUpdate
			}
		}
	}
}

// renderRun paints every pixel whose color clock falls in [from, to).
// clock values are absolute; the line/column within the current frame is
// derived by subtracting whenFrameStarted, the absolute clock the active
// frame began at.
func (t *TIA) renderRun(from, to int32) {
	for clock := from; clock < to; clock++ {
		rel64 := clock - t.clock.whenFrameStarted
		line := int(rel64 / ClocksPerScanline)
		if line < 0 || line >= len(t.frame) {
			continue
		}
		rel := int(rel64 % ClocksPerScanline)

		if rel < HBLANK {
			continue
		}

		x := rel - HBLANK
		if t.hmove.blank && x < extendedBlankWidth {
			continue
		}

		if t.vblank&vblankMask != 0 {
			t.frame[line][x] = 0
			continue
		}
		if t.vsync&vsyncMask != 0 {
			continue
		}

		t.frame[line][x] = t.renderPixel(x)
	}
}

// renderPixel composes one visible pixel and records any collisions it
// causes.
func (t *TIA) renderPixel(x int) uint8 {
	p0 := t.p0.pixel(x)
	p1 := t.p1.pixel(x)
	m0 := t.m0.pixel(x)
	m1 := t.m1.pixel(x)
	bl := t.bl.pixel(x)
	pf := t.pf.pixel(x)

	t.col.record(p0, p1, m0, m1, bl, pf)

	return t.compose(x, p0, p1, m0, m1, bl, pf)
}
