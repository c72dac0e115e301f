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

package sound

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Mixer is a minimal concrete Recorder: it tracks the two channels' AUDC/
// AUDF/AUDV register shadows and can render the accumulated cycle/value
// events into a go-audio IntBuffer, which in turn can be written out with
// the go-audio/wav encoder. It performs no analog filtering - matching the
// core's non-goal of accurate analog audio - and exists to give the
// emitted events a usable destination without reaching for a CGO audio
// backend.
type Mixer struct {
	SampleRate int

	channels [2]channelShadow
	events   []Event
}

type channelShadow struct {
	audc, audf, audv uint8
}

// NewMixer creates a Mixer at the given sample rate.
func NewMixer(sampleRate int) *Mixer {
	return &Mixer{SampleRate: sampleRate}
}

// Set implements Recorder. addr is one of "AUDC0", "AUDC1", "AUDF0",
// "AUDF1", "AUDV0", "AUDV1".
func (m *Mixer) Set(addr string, value uint8, cycle int) {
	ch := 0
	if len(addr) > 4 && addr[4] == '1' {
		ch = 1
	}
	switch addr[:4] {
	case "AUDC":
		m.channels[ch].audc = value & 0x0f
	case "AUDF":
		m.channels[ch].audf = value & 0x1f
	case "AUDV":
		m.channels[ch].audv = value & 0x0f
	}
	m.events = append(m.events, Event{Addr: addr, Value: value, Cycle: cycle})
}

// Render produces a square-ish waveform from the volume shadow of both
// channels at the moment of each recorded event: this is intentionally a
// coarse approximation (no polynomial counters, no real AUDC waveform
// tables) since accurate analog/audio-filter reproduction is out of scope.
func (m *Mixer) Render(samplesPerEvent int) *audio.IntBuffer {
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: m.SampleRate},
		Data:   make([]int, 0, len(m.events)*samplesPerEvent),
	}
	var shadow [2]channelShadow
	for _, e := range m.events {
		if len(e.Addr) > 4 && e.Addr[:4] == "AUDV" {
			ch := 0
			if e.Addr[4] == '1' {
				ch = 1
			}
			shadow[ch].audv = e.Value & 0x0f
		}
		level := 0
		for _, ch := range shadow {
			level += int(ch.audv) * 2048
		}
		for i := 0; i < samplesPerEvent; i++ {
			buf.Data = append(buf.Data, level)
		}
	}
	return buf
}

// WriteWAV renders the accumulated events and writes them to w as a mono
// WAV stream.
func (m *Mixer) WriteWAV(w io.WriteSeeker, samplesPerEvent int) error {
	enc := wav.NewEncoder(w, m.SampleRate, 16, 1, 1)
	if err := enc.Write(m.Render(samplesPerEvent)); err != nil {
		return err
	}
	return enc.Close()
}
