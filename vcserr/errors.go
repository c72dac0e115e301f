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

// Package vcserr is a small helper package for the plain Go error type,
// patterned after a "curated error" scheme: an error is created with a
// pattern string and a set of values, and can later be recognised by
// pattern rather than by digging through a chain of wrapped messages.
package vcserr

import (
	"fmt"
	"strings"
)

// Sentinel patterns recognised by the core. These are the error kinds
// named in the error handling design: InvalidCartSize, InvalidCartType
// and SerializationFailure. IllegalReadFromWritePort is not here because
// it is a notification, not an error - see cartridge.Cartridge.OnIllegalAccess.
const (
	InvalidCartSize     = "cartridge: unrecognised size (%d bytes)"
	InvalidCartType     = "cartridge: unrecognised type %q"
	UnsupportedCartType = "cartridge: %s is a recognised but unimplemented mapper"
	SerializationFailure = "serialization: %v"
	AddressError        = "memory: unrecognised address (%04x)"
	BankLocked          = "cartridge: bank is locked"
)

type curated struct {
	pattern string
	values  []interface{}
}

// Errorf creates a new curated error. The first argument is named "pattern"
// rather than "format" because it also serves as the key used by Is and Has.
func Errorf(pattern string, values ...interface{}) error {
	return curated{pattern: pattern, values: values}
}

// Error implements the go language error interface. If the first two
// chain parts (separated by ": ") are identical, the first is dropped so
// that wrapping an error once more doesn't produce repeated text; later
// duplicates are left in place.
func (e curated) Error() string {
	s := fmt.Errorf(e.pattern, e.values...).Error()

	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}
	return strings.Join(p, ": ")
}

// IsAny reports whether err was created by Errorf.
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(curated)
	return ok
}

// Is reports whether err is a curated error created with the given pattern.
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(curated); ok {
		return e.pattern == pattern
	}
	return false
}

// Has reports whether pattern occurs anywhere in err's chain of curated
// values.
func Has(err error, pattern string) bool {
	if err == nil || !IsAny(err) {
		return false
	}
	if Is(err, pattern) {
		return true
	}
	for _, v := range err.(curated).values {
		if e, ok := v.(curated); ok && Has(e, pattern) {
			return true
		}
	}
	return false
}
