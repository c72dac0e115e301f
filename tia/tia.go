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

// Package tia implements the Television Interface Adapter: the clocked
// signal generator that drives the frame buffer from five graphical
// objects, a playfield, a collision matrix and two audio channels. It is
// installed on the bus like any other Device, but its public surface is
// built around update_frame, a catch-up renderer brought up to a target
// color clock rather than stepped one CPU cycle at a time - this mirrors
// how a real television decodes a continuous composite signal rather than
// a discrete per-access trace.
package tia

import (
	"github.com/jetsetilly/vcscore/bus"
	"github.com/jetsetilly/vcscore/prefs"
	"github.com/jetsetilly/vcscore/sound"
)

// Register offsets, relative to the TIA's own page. The chip only decodes
// the low 6 bits of the address; addresses above 0x2C (write) or 0x0D
// (read) are unused shadows of the same 64-byte block.
const (
	regMask = 0x3f

	wVSYNC  = 0x00
	wVBLANK = 0x01
	wWSYNC  = 0x02
	wRSYNC  = 0x03
	wNUSIZ0 = 0x04
	wNUSIZ1 = 0x05
	wCOLUP0 = 0x06
	wCOLUP1 = 0x07
	wCOLUPF = 0x08
	wCOLUBK = 0x09
	wCTRLPF = 0x0a
	wREFP0  = 0x0b
	wREFP1  = 0x0c
	wPF0    = 0x0d
	wPF1    = 0x0e
	wPF2    = 0x0f
	wRESP0  = 0x10
	wRESP1  = 0x11
	wRESM0  = 0x12
	wRESM1  = 0x13
	wRESBL  = 0x14
	wAUDC0  = 0x15
	wAUDC1  = 0x16
	wAUDF0  = 0x17
	wAUDF1  = 0x18
	wAUDV0  = 0x19
	wAUDV1  = 0x1a
	wGRP0   = 0x1b
	wGRP1   = 0x1c
	wENAM0  = 0x1d
	wENAM1  = 0x1e
	wENABL  = 0x1f
	wHMP0   = 0x20
	wHMP1   = 0x21
	wHMM0   = 0x22
	wHMM1   = 0x23
	wHMBL   = 0x24
	wVDELP0 = 0x25
	wVDELP1 = 0x26
	wVDELBL = 0x27
	wRESMP0 = 0x28
	wRESMP1 = 0x29
	wHMOVE  = 0x2a
	wHMCLR  = 0x2b
	wCXCLR  = 0x2c

	rCXM0P  = 0x00
	rCXM1P  = 0x01
	rCXP0FB = 0x02
	rCXP1FB = 0x03
	rCXM0FB = 0x04
	rCXM1FB = 0x05
	rCXBLPF = 0x06
	rCXPPMM = 0x07
	rINPT0  = 0x08
	rINPT1  = 0x09
	rINPT2  = 0x0a
	rINPT3  = 0x0b
	rINPT4  = 0x0c
	rINPT5  = 0x0d
)

const (
	vsyncMask  = 0x02
	vblankMask = 0x02
	vblankGroundPaddlesMask = 0x80
	vblankLatchButtonsMask  = 0x40
)

// TIA is the chip itself: register state, the five graphical objects, the
// playfield, collisions, audio shadows and the frame buffer, plus the
// clock bookkeeping update_frame advances.
type TIA struct {
	bus      *bus.Bus
	recorder sound.Recorder
	prefs    prefs.TIAPrefs
	region   Region

	clock clockState
	hmove hmoveState

	vsync, vblank uint8
	wsync         bool

	pf  playfield
	col collisions
	colors colors

	p0, p1 player
	m0, m1 missile
	bl     ball

	audio [2]audioChannel

	paddles [4]paddle
	buttons [2]button

	scanline     int
	frameOdd     bool
	frameCount   int
	prevScanline int

	frame    [][]uint8
	prevFrame [][]uint8

	lastDataBus uint8

	onIllegalAccess func(addr uint16)
}

// New creates a TIA. recorder may be sound.NullRecorder{} if the host
// doesn't want audio events.
func New(region Region, p prefs.TIAPrefs, recorder sound.Recorder) *TIA {
	t := &TIA{
		region:   region,
		prefs:    p,
		recorder: recorder,
	}
	if t.recorder == nil {
		t.recorder = sound.NullRecorder{}
	}
	t.m0.parent = &t.p0
	t.m1.parent = &t.p1
	t.buttons[0].latched = 0x80
	t.buttons[1].latched = 0x80
	t.allocFrames()
	return t
}

func (t *TIA) allocFrames() {
	lines := t.region.maximumScanlines()
	t.frame = make([][]uint8, lines)
	t.prevFrame = make([][]uint8, lines)
	for i := range t.frame {
		t.frame[i] = make([]uint8, 160)
		t.prevFrame[i] = make([]uint8, 160)
	}
}

// Install implements installation onto the bus: the TIA answers every
// page in [start, end] via Peek/Poke dispatch, with no direct buffer
// fast path (every access carries a side effect).
func (t *TIA) Install(b *bus.Bus, start, end uint16) {
	t.bus = b
	b.Install(t, start, end, bus.ReadWrite, nil, nil)
}

// Reset returns the TIA to its power-on state. Implements bus.Device.
func (t *TIA) Reset() {
	b := t.bus
	fresh := New(t.region, t.prefs, t.recorder)
	*t = *fresh
	// the bus installation is wiring, not power-on state: keep it.
	t.bus = b
	// New() wired the missiles' parent pointers to fresh's own player
	// fields; re-point them at the receiver, which is what survives.
	t.m0.parent = &t.p0
	t.m1.parent = &t.p1
}

// ResetCycles implements bus.CycleSubscriber.
func (t *TIA) ResetCycles(delta uint32) {
	d := int32(delta) * 3
	t.clock.rebase(d)
	for i := range t.paddles {
		t.paddles[i].rebase(int(delta))
	}
}

// StartFrame swaps the frame buffers: frame becomes prevFrame, and a
// fresh buffer is readied for the frame about to be drawn. The caller
// (a display thread) must snapshot Frame only after EndFrame has
// returned, matching the synchronization contract at the swap boundary.
func (t *TIA) StartFrame() {
	t.frame, t.prevFrame = t.prevFrame, t.frame
	for i := range t.frame {
		for x := range t.frame[i] {
			t.frame[i][x] = 0
		}
	}
	t.frameCount++
	if t.prefs.ColorLoss && t.region == PAL && t.prevScanline%2 != 0 {
		t.colors.colup0 |= 0x01
		t.colors.colup1 |= 0x01
		t.colors.colupf |= 0x01
		t.colors.colubk |= 0x01
	}
}

// EndFrame records the scanline count observed this frame, used by
// ColorLoss emulation at the start of the next frame.
func (t *TIA) EndFrame() {
	t.prevScanline = t.scanline
	t.scanline = 0
}

// Frame returns the most recently completed frame buffer: 160 columns by
// region.maximumScanlines() rows of palette indices.
func (t *TIA) Frame() [][]uint8 { return t.prevFrame }

// WSYNC reports whether the CPU should halt until the end of the current
// scanline; the caller clears it after honouring the halt.
func (t *TIA) WSYNC() bool { return t.wsync }
func (t *TIA) ClearWSYNC() { t.wsync = false }

// OnIllegalAccess registers a callback invoked whenever a write lands on
// a read-only shadow register range or similar signal conditions arise;
// reserved for debugger wiring, mirroring the cartridge's equivalent hook.
func (t *TIA) OnIllegalAccess(f func(addr uint16)) { t.onIllegalAccess = f }
