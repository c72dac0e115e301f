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

// audioChannel shadows one of the two AUDC/AUDF/AUDV register sets. The
// TIA never synthesises a waveform itself - every write is forwarded
// verbatim to the configured sound.Recorder, which owns all DSP work.
type audioChannel struct {
	audc, audf, audv uint8
}

func (a *audioChannel) save(s *savestate.Serializer) {
	s.WriteUint8(a.audc)
	s.WriteUint8(a.audf)
	s.WriteUint8(a.audv)
}

func (a *audioChannel) load(d *savestate.Deserializer) {
	a.audc = d.ReadUint8()
	a.audf = d.ReadUint8()
	a.audv = d.ReadUint8()
}

// writeAudio shadows an AUDC/AUDF/AUDV write and forwards it to the
// Recorder, tagged with the CPU cycle the write occurred on.
func (t *TIA) writeAudio(channel int, kind string, value uint8) {
	ch := &t.audio[channel]
	switch kind {
	case "AUDC":
		ch.audc = value & 0x0f
	case "AUDF":
		ch.audf = value & 0x1f
	case "AUDV":
		ch.audv = value & 0x0f
	}
	t.recorder.Set(kind+itoa1(channel), value, int(t.busCycles()))
}

func itoa1(n int) string {
	if n == 0 {
		return "0"
	}
	return "1"
}
