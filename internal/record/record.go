package record

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ErrShortSlot is returned when a slot buffer is smaller than SlotSize,
// typically because the file was read while the timing software was still
// writing it.
var ErrShortSlot = errors.New("slot shorter than record layout")

// Sex is the sex code stored in a slot. Anything other than the two
// recognized ASCII codes decodes to SexUnknown.
type Sex byte

const (
	SexUnknown Sex = 0
	SexMale    Sex = 'M'
	SexFemale  Sex = 'F'
)

func (s Sex) String() string {
	switch s {
	case SexMale:
		return "M"
	case SexFemale:
		return "F"
	default:
		return ""
	}
}

// Runner is one decoded runner identity. Values are immutable once decoded.
//
// Optional numeric fields use zero for "absent": the source software stores
// 0 or negative values when a card, club or birth year was never assigned.
type Runner struct {
	ExternalID  int64  // stable id assigned by the timing software
	FirstName   string // first whitespace token of the stored full name
	LastName    string // remaining tokens joined by single spaces
	CardNumber  int    // punch-card number, 0 if absent
	ClubNumber  int    // unresolved foreign key into the club table, 0 if absent
	BirthYear   int    // 0 if absent
	Sex         Sex
	Nationality string // up to 3 characters, "" if absent

	// Removed reports the tombstone bit: the slot is logically deleted but
	// still physically present in the file. Removed runners are never
	// indexed.
	Removed bool
}

// Key returns the normalized index key for the runner.
func (r Runner) Key() string {
	return strings.ToLower(r.FirstName) + "_" + strings.ToLower(r.LastName)
}

// FullName returns the display name as stored in the file.
func (r Runner) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// Decode parses one slot.
//
// It returns ok=false (and no error) when the slot holds no usable record,
// i.e. the stored name trims to an empty string. A buffer shorter than
// SlotSize is a decode fault and returns ErrShortSlot; the caller decides
// whether to skip or abort.
func Decode(slot []byte) (Runner, bool, error) {
	if len(slot) < SlotSize {
		return Runner{}, false, fmt.Errorf("%w: got %d of %d bytes", ErrShortSlot, len(slot), SlotSize)
	}

	var raw rawSlot
	off := 0
	for _, f := range slotLayout {
		f.read(&raw, slot[off:off+f.width])
		off += f.width
	}

	full := strings.TrimSpace(raw.name)
	if full == "" {
		return Runner{}, false, nil
	}

	tokens := strings.Fields(full)
	r := Runner{
		ExternalID:  raw.externalID,
		FirstName:   tokens[0],
		LastName:    strings.Join(tokens[1:], " "),
		Nationality: raw.nationality,
		Removed:     raw.reserved&removedBit != 0,
	}
	if raw.card > 0 {
		r.CardNumber = int(raw.card)
	}
	if raw.club > 0 {
		r.ClubNumber = int(raw.club)
	}
	if raw.birthYear > 0 {
		r.BirthYear = int(raw.birthYear)
	}
	switch raw.sex {
	case byte(SexMale):
		r.Sex = SexMale
	case byte(SexFemale):
		r.Sex = SexFemale
	}

	return r, true, nil
}

// Encode serializes a runner into a SlotSize byte slot.
//
// The service never writes the database file; Encode exists for tests and
// for the synthetic data generator.
func Encode(r Runner) []byte {
	slot := make([]byte, SlotSize)

	copy(slot[:96], r.FullName())
	binary.LittleEndian.PutUint32(slot[96:100], uint32(int32(r.CardNumber)))
	binary.LittleEndian.PutUint32(slot[100:104], uint32(int32(r.ClubNumber)))
	copy(slot[104:107], r.Nationality)
	slot[107] = byte(r.Sex)
	binary.LittleEndian.PutUint16(slot[108:110], uint16(int16(r.BirthYear)))
	var reserved uint16
	if r.Removed {
		reserved |= removedBit
	}
	binary.LittleEndian.PutUint16(slot[110:112], reserved)
	binary.LittleEndian.PutUint64(slot[112:120], uint64(r.ExternalID))

	return slot
}

// EncodeHeader returns a file header carrying the newest version marker and
// zeroed date/time fields. Tooling-only, like Encode.
func EncodeHeader() []byte {
	header := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(header[:4], uint32(versionMarkers[len(versionMarkers)-1]))
	return header
}
