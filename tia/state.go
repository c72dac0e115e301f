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

const stateSection = "TIA"

// Save writes every piece of mutable TIA state to s: clock anchors,
// register shadows, the five graphical objects, the playfield,
// collisions, audio shadows and input latches - everything load()
// needs to resume rendering exactly where save() left off.
func (t *TIA) Save(s *savestate.Serializer) error {
	s.Section(stateSection)

	s.WriteInt(int(t.clock.whenFrameStarted))
	s.WriteInt(int(t.clock.atLastUpdate))
	s.WriteInt(int(t.clock.toEndOfScanLine))
	s.WriteInt(int(t.clock.stopDisplayOffset))
	s.WriteInt(int(t.clock.vsyncFinishClock))

	t.hmove.save(s)

	s.WriteUint8(t.vsync)
	s.WriteUint8(t.vblank)
	s.WriteBool(t.wsync)

	t.pf.save(s)
	t.col.save(s)
	s.WriteUint8(t.colors.colup0)
	s.WriteUint8(t.colors.colup1)
	s.WriteUint8(t.colors.colupf)
	s.WriteUint8(t.colors.colubk)
	s.WriteBool(t.colors.fixed)

	t.p0.save(s)
	t.p1.save(s)
	t.m0.save(s)
	t.m1.save(s)
	t.bl.save(s)

	for i := range t.audio {
		t.audio[i].save(s)
	}
	for i := range t.paddles {
		t.paddles[i].save(s)
	}
	for i := range t.buttons {
		t.buttons[i].save(s)
	}

	s.WriteInt(t.scanline)
	s.WriteBool(t.frameOdd)
	s.WriteInt(t.frameCount)
	s.WriteInt(t.prevScanline)

	return nil
}

// Load restores state written by Save. The caller is responsible for not
// swapping a partially-read stream into place - see Deserializer.Err.
func (t *TIA) Load(d *savestate.Deserializer) error {
	if err := d.Section(stateSection); err != nil {
		return err
	}

	t.clock.whenFrameStarted = int32(d.ReadInt())
	t.clock.atLastUpdate = int32(d.ReadInt())
	t.clock.toEndOfScanLine = int32(d.ReadInt())
	t.clock.stopDisplayOffset = int32(d.ReadInt())
	t.clock.vsyncFinishClock = int32(d.ReadInt())

	t.hmove.load(d)

	t.vsync = d.ReadUint8()
	t.vblank = d.ReadUint8()
	t.wsync = d.ReadBool()

	t.pf.load(d)
	t.col.load(d)
	t.colors.colup0 = d.ReadUint8()
	t.colors.colup1 = d.ReadUint8()
	t.colors.colupf = d.ReadUint8()
	t.colors.colubk = d.ReadUint8()
	t.colors.fixed = d.ReadBool()

	t.p0.load(d)
	t.p1.load(d)
	t.m0.load(d)
	t.m1.load(d)
	t.bl.load(d)

	for i := range t.audio {
		t.audio[i].load(d)
	}
	for i := range t.paddles {
		t.paddles[i].load(d)
	}
	for i := range t.buttons {
		t.buttons[i].load(d)
	}

	t.scanline = d.ReadInt()
	t.frameOdd = d.ReadBool()
	t.frameCount = d.ReadInt()
	t.prevScanline = d.ReadInt()

	return d.Err()
}

// SetFixedColors toggles the debug "fixed colors" composition mode.
func (t *TIA) SetFixedColors(v bool) { t.colors.fixed = v }

// SetPaddleResistance sets the resistance, in ohms, of paddle index i
// (0-3).
func (t *TIA) SetPaddleResistance(i int, ohms int) {
	if i < 0 || i >= len(t.paddles) {
		return
	}
	t.paddles[i].setResistance(ohms)
}

// SetButton sets the digital state of button index i (0-1, INPT4/INPT5).
func (t *TIA) SetButton(i int, pressed bool) {
	if i < 0 || i >= len(t.buttons) {
		return
	}
	t.buttons[i].set(pressed)
}
