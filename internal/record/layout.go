package record

import (
	"encoding/binary"
	"strings"
)

// SlotSize is the fixed on-disk size of one runner slot.
const SlotSize = 120

// HeaderSize is the size of the optional file header: a version marker
// followed by two int32 date/time fields that are skipped on load.
const HeaderSize = 12

// removedBit marks a slot as logically deleted. The record stays in the
// file but must never reach the index.
const removedBit = 0x1

// Version markers observed at the head of database files written by newer
// releases of the timing software. Older exports start straight at slot 0.
var versionMarkers = [...]int32{546, 547, 548}

// IsVersionMarker reports whether v is a known file version marker.
func IsVersionMarker(v int32) bool {
	for _, m := range versionMarkers {
		if v == m {
			return true
		}
	}
	return false
}

// rawSlot holds the field values of one slot exactly as stored on disk,
// before any interpretation (name splitting, optional-field rules).
type rawSlot struct {
	name        string
	card        int32
	club        int32
	nationality string
	sex         byte
	birthYear   int16
	reserved    uint16
	externalID  int64
}

type fieldSpec struct {
	name  string
	width int
	read  func(*rawSlot, []byte)
}

// slotLayout is the single source of truth for the slot format. Fields are
// decoded in declaration order and every offset is derived from the
// cumulative widths, so the layout stays a single editable table.
var slotLayout = []fieldSpec{
	{"name", 96, func(s *rawSlot, b []byte) {
		s.name = cString(b)
	}},
	{"cardNumber", 4, func(s *rawSlot, b []byte) {
		s.card = int32(binary.LittleEndian.Uint32(b))
	}},
	{"clubNumber", 4, func(s *rawSlot, b []byte) {
		s.club = int32(binary.LittleEndian.Uint32(b))
	}},
	{"nationality", 3, func(s *rawSlot, b []byte) {
		s.nationality = strings.TrimSpace(strings.ReplaceAll(string(b), "\x00", ""))
	}},
	{"sex", 1, func(s *rawSlot, b []byte) {
		s.sex = b[0]
	}},
	{"birthYear", 2, func(s *rawSlot, b []byte) {
		s.birthYear = int16(binary.LittleEndian.Uint16(b))
	}},
	{"reserved", 2, func(s *rawSlot, b []byte) {
		s.reserved = binary.LittleEndian.Uint16(b)
	}},
	{"externalId", 8, func(s *rawSlot, b []byte) {
		s.externalID = int64(binary.LittleEndian.Uint64(b))
	}},
}

// cString returns the bytes up to the first NUL, or the whole buffer if no
// terminator is present.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
