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

// Package savestate implements the save-state stream contract: every
// device in the core that has mutable state (the TIA, the cartridge and
// the console's RIOT stand-in) writes it
// through a Serializer and reads it back through a Deserializer. Every
// device section begins with its own name so that a corrupt or
// mismatched stream is detected early rather than silently
// misinterpreted.
package savestate

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/jetsetilly/vcscore/vcserr"
)

// Serializer accumulates a device's state into a byte stream.
type Serializer struct {
	buf bytes.Buffer
}

// NewSerializer returns an empty Serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Section writes the canonical name of the device whose state follows.
// Every Save() implementation in the core calls this first.
func (s *Serializer) Section(name string) {
	s.WriteString(name)
}

func (s *Serializer) WriteString(v string) {
	binary.Write(&s.buf, binary.LittleEndian, uint16(len(v)))
	s.buf.WriteString(v)
}

func (s *Serializer) WriteBool(v bool) {
	if v {
		s.buf.WriteByte(1)
	} else {
		s.buf.WriteByte(0)
	}
}

func (s *Serializer) WriteUint8(v uint8)   { s.buf.WriteByte(v) }
func (s *Serializer) WriteInt16(v int16)   { binary.Write(&s.buf, binary.LittleEndian, v) }
func (s *Serializer) WriteUint16(v uint16) { binary.Write(&s.buf, binary.LittleEndian, v) }
func (s *Serializer) WriteUint32(v uint32) { binary.Write(&s.buf, binary.LittleEndian, v) }
func (s *Serializer) WriteInt(v int)       { s.WriteUint32(uint32(int32(v))) }
func (s *Serializer) WriteBytes(v []uint8) {
	binary.Write(&s.buf, binary.LittleEndian, uint32(len(v)))
	s.buf.Write(v)
}

// Bytes returns the accumulated stream.
func (s *Serializer) Bytes() []byte {
	return s.buf.Bytes()
}

// Deserializer reads a stream produced by a Serializer, in the same
// field order it was written.
type Deserializer struct {
	r   *bytes.Reader
	err error
}

// NewDeserializer wraps a byte stream produced by Serializer.Bytes.
func NewDeserializer(data []byte) *Deserializer {
	return &Deserializer{r: bytes.NewReader(data)}
}

// Err returns the first error encountered during reads, if any. Load()
// implementations should check this after the last field of a section
// and abort (preserving prior state) rather than trust partially read
// data - see the SerializationFailure error kind.
func (d *Deserializer) Err() error {
	return d.err
}

// Section reads a device name and compares it against want, failing
// with vcserr.SerializationFailure on mismatch.
func (d *Deserializer) Section(want string) error {
	got := d.ReadString()
	if d.err != nil {
		return d.err
	}
	if got != want {
		d.err = vcserr.Errorf(vcserr.SerializationFailure, fmt.Sprintf("expected section %q, found %q", want, got))
		return d.err
	}
	return nil
}

func (d *Deserializer) ReadString() string {
	if d.err != nil {
		return ""
	}
	var n uint16
	if d.err = binary.Read(d.r, binary.LittleEndian, &n); d.err != nil {
		return ""
	}
	b := make([]byte, n)
	if _, d.err = d.r.Read(b); d.err != nil {
		return ""
	}
	return string(b)
}

func (d *Deserializer) ReadBool() bool {
	return d.ReadUint8() != 0
}

func (d *Deserializer) ReadUint8() uint8 {
	if d.err != nil {
		return 0
	}
	b, err := d.r.ReadByte()
	if err != nil {
		d.err = err
		return 0
	}
	return b
}

func (d *Deserializer) ReadInt16() int16 {
	var v int16
	if d.err != nil {
		return 0
	}
	d.err = binary.Read(d.r, binary.LittleEndian, &v)
	return v
}

func (d *Deserializer) ReadUint16() uint16 {
	var v uint16
	if d.err != nil {
		return 0
	}
	d.err = binary.Read(d.r, binary.LittleEndian, &v)
	return v
}

func (d *Deserializer) ReadUint32() uint32 {
	var v uint32
	if d.err != nil {
		return 0
	}
	d.err = binary.Read(d.r, binary.LittleEndian, &v)
	return v
}

func (d *Deserializer) ReadInt() int {
	return int(int32(d.ReadUint32()))
}

func (d *Deserializer) ReadBytes() []uint8 {
	if d.err != nil {
		return nil
	}
	var n uint32
	if d.err = binary.Read(d.r, binary.LittleEndian, &n); d.err != nil {
		return nil
	}
	b := make([]byte, n)
	if n > 0 {
		if _, d.err = d.r.Read(b); d.err != nil {
			return nil
		}
	}
	return b
}
