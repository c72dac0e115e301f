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

// Package mapper defines the interface implemented by every bankswitching
// scheme. For convenience, functions that take an address parameter receive
// that address already normalised into the 0x0000-0x0fff cartridge window.
package mapper

import (
	"math/rand"

	"github.com/jetsetilly/vcscore/bus"
	"github.com/jetsetilly/vcscore/savestate"
)

// RAMArea describes a single region of on-cartridge RAM whose read port and
// write port live at different addresses - the Superchip pattern, and
// variants of it used by several other schemes.
type RAMArea struct {
	// Label identifies the area, eg. "Superchip".
	Label string

	// Start is the offset, within the cartridge window, of the RAM's write
	// port. Size bytes starting here are the write port.
	Start int
	Size  int

	// ReadOffset is added to Start to find the first address of the read
	// port. For the classic Superchip, ReadOffset is 0x80.
	ReadOffset int

	// WriteOffset is normally 0; it exists for schemes (eg CBS RAM+) where
	// the write port is not the lower of the two ports.
	WriteOffset int
}

// Mapper is implemented by every bankswitching scheme: plain 2K/4K ROM,
// the F8/F6/F4/F0 "Atari" family, Parker Bros' E0, Tigervision's 3E,
// Activision's UA banking, CompuMate's CM, and so on.
type Mapper interface {
	// Name is the short, conventional name of the scheme, eg. "F8SC".
	Name() string

	// Reset returns the mapper to its power-on state. If rng is non-nil,
	// any on-cartridge RAM is seeded from it rather than zeroed - the
	// ramrandom configuration option.
	Reset(rng *rand.Rand)

	// Install registers the mapper's hot-spots and direct-access windows
	// with the bus. Called once, when the cartridge is attached.
	Install(b *bus.Bus) error

	// Peek returns the byte for a CPU read at addr (normalised). Side
	// effects associated with the address (bank switches, RAM-enable
	// latches) are evaluated before the byte is read, per the hot-spot
	// policy: a hot-spot fires on a mere touch, whether peek or poke.
	Peek(addr uint16) (uint8, error)

	// Poke writes value to addr (normalised), returning true if the
	// address was handled. Bank-switching side effects are evaluated the
	// same way as for Peek.
	Poke(addr uint16, value uint8) (bool, error)

	// Bank switches to the given bank index, returning false (and leaving
	// the current bank unchanged) if the cartridge is locked or index is
	// out of range.
	Bank(index int) bool

	// CurrentBank returns the index of the bank presently mapped in.
	CurrentBank() int

	// BankCount returns the number of banks implemented by the scheme.
	BankCount() int

	// BankChanged reports whether the bank has changed since the last
	// call to BankChanged, and clears the latch.
	BankChanged() bool

	// Lock prevents further bank switches, so a debugger can peek
	// cartridge state without perturbing it.
	Lock(locked bool)
	Locked() bool

	// Patch writes directly into the ROM image, bypassing read/write-port
	// restrictions. offset is measured from the start of the cartridge
	// image, not from the current bank.
	Patch(offset int, value uint8) bool

	// GetImage returns a copy of the loaded ROM bytes.
	GetImage() []uint8

	// RAMAreas lists the cartridge's on-board RAM regions, if any.
	RAMAreas() []RAMArea

	Save(s *savestate.Serializer) error
	Load(d *savestate.Deserializer) error
}

// IllegalReadNotifier is implemented by mappers that can report an illegal
// read from a write-port address to an observing debugger. Not every
// mapper has a write port, so this is optional.
type IllegalReadNotifier interface {
	OnIllegalRead(func(addr uint16))
}

// HotspotWriter is implemented by mappers (presently only CompuMate) whose
// state is affected by writes originating outside the cartridge's own
// address window - in CompuMate's case, bits of the RIOT's SWCHA port.
type HotspotWriter interface {
	ExternalWrite(reg string, value uint8)
}
