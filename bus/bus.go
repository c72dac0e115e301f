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

// Package bus implements the flat 13-bit address space seen by the 6507 and
// the page table that routes peek/poke calls to the device responsible for
// each page. Unlike a scheme where every device masks its own addresses at
// access time, devices here are installed once into a page table; lookup is
// a single slice index.
package bus

import "github.com/jetsetilly/vcscore/vcserr"

// AddressSpace is the size, in bytes, of the 6507's visible address space.
const AddressSpace = 0x2000

// AccessType describes which direction(s) of traffic a page answers to.
type AccessType int

const (
	ReadOnly AccessType = iota
	WriteOnly
	ReadWrite
)

// Device is the capability set every memory-mapped component in the core
// must implement: the TIA, the RIOT stand-in, and the cartridge. A closed,
// small set of concrete types dispatch through this interface rather than
// through a virtual-dispatch class hierarchy.
type Device interface {
	// Peek returns the byte that would appear on the data bus for a CPU
	// read at addr. addr is in the device's own, un-normalised range.
	Peek(addr uint16) (uint8, error)

	// Poke writes value to addr, triggering whatever side effects the
	// device associates with that address.
	Poke(addr uint16, value uint8) error

	// Reset returns the device to its power-on state.
	Reset()
}

// CycleSubscriber is implemented by anything that keeps an absolute cycle
// count and needs to know when the bus has rebased its counters, so it can
// subtract the same delta from its own bookkeeping.
type CycleSubscriber interface {
	ResetCycles(delta uint32)
}

// PageAccess describes how a single page of the address space is handled.
// At most one of ReadBase/WriteBase/Device is consulted for a given
// address: direct buffers exist purely as a fast path for ROM and
// on-cartridge RAM and are never combined with device dispatch on the same
// access.
type PageAccess struct {
	// ReadBase, if non-nil, is consulted directly for reads instead of
	// calling Device.Peek. Indexed by (addr - pageOrigin).
	ReadBase []uint8

	// WriteBase, if non-nil, is written directly instead of calling
	// Device.Poke.
	WriteBase []uint8

	Device Device
	Access AccessType
}

// Bus is the page-indexed address space. Page size must be a power of two
// and must divide every hot-spot range a cartridge declares; there is no
// default, the caller passes it to New.
type Bus struct {
	pageSize  uint16
	pageShift uint
	pages     []PageAccess

	cycles      uint32
	subscribers []CycleSubscriber
}

// New creates a Bus with the given page size (must be a power of two, no
// larger than AddressSpace).
func New(pageSize uint16) *Bus {
	shift := uint(0)
	for (uint16(1) << shift) < pageSize {
		shift++
	}

	b := &Bus{
		pageSize:  uint16(1) << shift,
		pageShift: shift,
		pages:     make([]PageAccess, AddressSpace>>shift),
	}
	return b
}

func (b *Bus) pageIndex(addr uint16) int {
	return int((addr % AddressSpace) >> b.pageShift)
}

func (b *Bus) pageOffset(addr uint16) uint16 {
	return addr & (b.pageSize - 1)
}

// Install populates the page table for [start, end] (inclusive) with the
// given device and direct-access buffers. Either buffer may be nil. Install
// panics if a page in the range is already claimed by a different device,
// since at most one device may be responsible for any page.
func (b *Bus) Install(device Device, start, end uint16, access AccessType, readBase, writeBase []uint8) {
	first := b.pageIndex(start)
	last := b.pageIndex(end)
	for p := first; p <= last; p++ {
		existing := b.pages[p]
		if existing.Device != nil && existing.Device != device {
			panic("bus: page already claimed by a different device")
		}
		b.pages[p] = PageAccess{
			ReadBase:  readBase,
			WriteBase: writeBase,
			Device:    device,
			Access:    access,
		}
	}

	if cs, ok := device.(CycleSubscriber); ok {
		b.subscribe(cs)
	}
}

func (b *Bus) subscribe(cs CycleSubscriber) {
	for _, s := range b.subscribers {
		if s == cs {
			return
		}
	}
	b.subscribers = append(b.subscribers, cs)
}

// Peek returns the byte that would appear on the data bus for a CPU read.
func (b *Bus) Peek(addr uint16) (uint8, error) {
	page := b.pages[b.pageIndex(addr)]
	if page.Access == WriteOnly {
		return 0, vcserr.Errorf(vcserr.AddressError, addr)
	}
	if page.ReadBase != nil {
		return page.ReadBase[b.pageOffset(addr)], nil
	}
	if page.Device == nil {
		return 0, vcserr.Errorf(vcserr.AddressError, addr)
	}
	return page.Device.Peek(addr)
}

// Poke dispatches a CPU write.
func (b *Bus) Poke(addr uint16, value uint8) error {
	page := b.pages[b.pageIndex(addr)]
	if page.Access == ReadOnly {
		return vcserr.Errorf(vcserr.AddressError, addr)
	}
	if page.WriteBase != nil {
		page.WriteBase[b.pageOffset(addr)] = value
		return nil
	}
	if page.Device == nil {
		return vcserr.Errorf(vcserr.AddressError, addr)
	}
	return page.Device.Poke(addr, value)
}

// Cycles returns the bus's running cycle count.
func (b *Bus) Cycles() uint32 {
	return b.cycles
}

// AddCycles advances the bus cycle counter. Callers are expected to call
// this once per CPU cycle.
func (b *Bus) AddCycles(n uint32) {
	b.cycles += n
}

// ResetCycles rebases the cycle counter to zero and notifies every
// CycleSubscriber of the delta, so that absolute-clock bookkeeping held by
// installed devices (the TIA's clock anchors and its dump-capacitor
// timers) stays consistent with one another. The sound Recorder is not a
// subscriber: cycle numbers it has already received are not rebased.
// This should be called periodically
// (every frame is adequate) to avoid 32-bit overflow.
func (b *Bus) ResetCycles() {
	delta := b.cycles
	b.cycles = 0
	for _, s := range b.subscribers {
		s.ResetCycles(delta)
	}
}
