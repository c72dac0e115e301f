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

package cartridge

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Autodetect is a pure function from image bytes to a scheme tag. It keys
// first on size, then disambiguates within a size by scanning for small
// instruction-byte signatures. Calling it twice on the same bytes always
// returns the same tag.
func Autodetect(data []uint8) string {
	switch len(data) {
	case 2048:
		return "2K"
	case 4096:
		return "4K"
	case 8192:
		return fingerprint8k(data)
	case 10240, 10495:
		return "DPC"
	case 12288:
		return "FA"
	case 16384:
		return fingerprint16k(data)
	case 24576:
		return "F4"
	case 28672:
		return "FA2"
	case 29696:
		return "DPC+"
	case 32768:
		return fingerprint32k(data)
	case 65536:
		return fingerprint64k(data)
	case 131072:
		return "MC"
	case 262144:
		return "MC"
	default:
		if len(data)%8448 == 0 && len(data) > 0 {
			return "AR"
		}
		return "4K"
	}
}

func fingerprint8k(data []uint8) string {
	if fingerprintTigervisionRAM(data) {
		return "3E"
	}
	if hasSignature(data, sig3F) {
		return "3E"
	}
	if fingerprintParkerBros(data) {
		return "E0"
	}
	if hasSignature(data, sigUA) {
		return "UA"
	}
	if hasSignature(data, sigE0) {
		return "E0"
	}
	if superchipPresent(data, 4096) {
		return "F8SC"
	}
	return "F8"
}

func fingerprint16k(data []uint8) string {
	if fingerprintTigervisionRAM(data) {
		return "3E"
	}
	if superchipPresent(data, 4096) {
		return "F6SC"
	}
	return "F6"
}

func fingerprint32k(data []uint8) string {
	if fingerprintTigervisionRAM(data) {
		return "3E"
	}
	if hasSignature(data, sigFE) {
		return "FE"
	}
	if superchipPresent(data, 4096) {
		return "F4SC"
	}
	// isProbablyCTY always returns false upstream: the autodetector cannot
	// distinguish CTY from other 32 KiB variants without more signature
	// research, so an explicit tag is required for CTY images.
	return "F4"
}

func fingerprint64k(data []uint8) string {
	if tagAt(data, "EFSC") {
		return "EFSC"
	}
	if tagAt(data, "EFEF") || tagAt(data, "EF") {
		return "EF"
	}
	if tagAt(data, "BFSC") {
		return "BFSC"
	}
	if tagAt(data, "BF") {
		return "BF"
	}
	if tagAt(data, "DFSC") {
		return "DFSC"
	}
	if tagAt(data, "DF") {
		return "DF"
	}
	if hasSignature(data, sigARM) {
		return "4A50"
	}
	return "F0"
}

// tagAt looks for an ASCII self-identifying tag at image_end-8..image_end-5,
// as several of the homebrew-era EF/BF/DF bankswitching schemes embed.
func tagAt(data []uint8, tag string) bool {
	if len(data) < 8 {
		return false
	}
	window := data[len(data)-8 : len(data)-4]
	return bytes.Contains(window, []byte(tag))
}

type signature [][]uint8

var (
	sig3E = signature{{0x85, 0x3E, 0xA9, 0x00}}
	sig3F = signature{{0x85, 0x3F}}
	sigE0 = signature{
		{0x8D, 0xE0, 0x1F},
		{0x8D, 0xE0, 0x5F},
		{0x8D, 0xE9, 0xFF},
	}
	sigFE = signature{
		{0x20, 0x00, 0xD0, 0xC6, 0xC5},
		{0xA9, 0x00, 0x85, 0x02, 0xA2},
	}
	sigUA = signature{
		{0x8D, 0x40, 0x02},
		{0xAD, 0x40, 0x02},
		{0xBD, 0x1F, 0x02},
	}
	sigARM = signature{
		{0xA0, 0xC1, 0x1F, 0xE0},
		{0x00, 0x80, 0x02, 0xE0},
	}
)

// hasSignature reports whether data contains at least one occurrence of any
// of the byte strings in sig.
func hasSignature(data []uint8, sig signature) bool {
	for _, pattern := range sig {
		if bytes.Contains(data, pattern) {
			return true
		}
	}
	return false
}

// countSignature counts occurrences of pattern in data, used for signatures
// that require a minimum hit count (eg STA $3F at least twice).
func countSignature(data []uint8, pattern []uint8) int {
	n := 0
	rest := data
	for {
		idx := bytes.Index(rest, pattern)
		if idx < 0 {
			return n
		}
		n++
		rest = rest[idx+1:]
	}
}

func fingerprintTigervisionRAM(data []uint8) bool {
	return hasSignature(data, sig3E) && countSignature(data, []uint8{0x85, 0x3F}) >= 2
}

func fingerprintParkerBros(data []uint8) bool {
	return hasSignature(data, sigE0)
}

// superchipPresent scans every bankSize-sized bank for the first 256 bytes
// being identical - the Superchip's 128-byte RAM block typically leaves an
// unprogrammed, identically-filled area at the start of the bank.
func superchipPresent(data []uint8, bankSize int) bool {
	if bankSize <= 0 || len(data)%bankSize != 0 {
		return false
	}
	for b := 0; b < len(data); b += bankSize {
		bank := data[b : b+bankSize]
		if len(bank) < 256 {
			return false
		}
		first := bank[0]
		same := true
		for i := 1; i < 256; i++ {
			if bank[i] != first {
				same = false
				break
			}
		}
		if !same {
			return false
		}
	}
	return true
}

// sliceMultiCart handles "2IN1".."128IN1" format strings: the image is cut
// into N equal parts and one is selected by romLoadCount, mod N. The
// selected slice is then reclassified by size alone. Any other explicit
// format string (or an empty one) passes the image through unchanged; a
// scheme tag is returned as the variant, anything else as an empty
// variant, which Create rejects with InvalidCartType when the format
// string was non-empty and auto-detects otherwise.
func sliceMultiCart(image []uint8, explicit string, romLoadCount int) ([]uint8, string, string) {
	upper := strings.ToUpper(strings.TrimSpace(explicit))
	if n, ok := multiCartCount(upper); ok && n > 0 && len(image)%n == 0 {
		sliceSize := len(image) / n
		sel := romLoadCount % n
		slice := image[sel*sliceSize : (sel+1)*sliceSize]

		var variant string
		switch {
		case sliceSize <= 2048:
			variant = "2K"
		case sliceSize == 4096:
			variant = "4K"
		case sliceSize == 8192:
			variant = "F8"
		default:
			variant = "4K"
		}

		about := fmt.Sprintf("%s multi-cart, slice %d of %d (%s)", upper, sel, n, variant)
		return slice, variant, about
	}

	variant := ""
	if isKnownVariant(upper) {
		variant = upper
	}

	about := fmt.Sprintf("%d bytes", len(image))
	if variant != "" {
		about = fmt.Sprintf("%s (%s)", about, variant)
	}
	return image, variant, about
}

func multiCartCount(format string) (int, bool) {
	if !strings.HasSuffix(format, "IN1") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSuffix(format, "IN1"))
	if err != nil || n <= 1 {
		return 0, false
	}
	return n, true
}

func isKnownVariant(tag string) bool {
	switch tag {
	case "2K", "4K", "F8", "F8SC", "F6", "F6SC", "F4", "F4SC", "F0",
		"E0", "3E", "UA", "CM",
		"AR", "DPC", "DPC+", "4A50", "MC", "X07", "CTY", "FA", "FA2", "SB", "0840", "FE", "MB":
		return true
	}
	return false
}
