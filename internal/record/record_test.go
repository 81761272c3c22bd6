package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotLayoutWidthsSumToSlotSize(t *testing.T) {
	total := 0
	for _, f := range slotLayout {
		total += f.width
	}
	require.Equal(t, SlotSize, total, "field table out of sync with slot size")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := Runner{
		ExternalID:  42,
		FirstName:   "Jane",
		LastName:    "Doe",
		CardNumber:  123,
		ClubNumber:  7,
		BirthYear:   1990,
		Sex:         SexFemale,
		Nationality: "USA",
	}

	decoded, ok, err := Decode(Encode(original))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, original, decoded)
	assert.Equal(t, "jane_doe", decoded.Key())
}

func TestDecodeTombstoneBit(t *testing.T) {
	slot := Encode(Runner{FirstName: "Gone", LastName: "Runner", Removed: true})

	decoded, ok, err := Decode(slot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, decoded.Removed)

	// Other reserved bits must not read as a tombstone.
	slot[110] = 0xFE
	decoded, ok, err = Decode(slot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, decoded.Removed)
}

func TestDecodeBlankNameIsNoRecord(t *testing.T) {
	slot := Encode(Runner{CardNumber: 500, ExternalID: 9})
	_, ok, err := Decode(slot)
	require.NoError(t, err)
	assert.False(t, ok)

	// Whitespace-only names trim to empty as well.
	copy(slot[:96], "   \t ")
	_, ok, err = Decode(slot)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecodeShortSlot(t *testing.T) {
	slot := Encode(Runner{FirstName: "Jane", LastName: "Doe"})

	for _, n := range []int{0, 1, 50, SlotSize - 1} {
		_, _, err := Decode(slot[:n])
		require.ErrorIs(t, err, ErrShortSlot, "length %d", n)
	}
}

func TestDecodeNameSplitting(t *testing.T) {
	tests := []struct {
		stored string
		first  string
		last   string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Anna Maria van der Berg", "Anna", "Maria van der Berg"},
		{"Madonna", "Madonna", ""},
		{"  Jane   Doe  ", "Jane", "Doe"},
	}
	for _, tt := range tests {
		slot := make([]byte, SlotSize)
		copy(slot[:96], tt.stored)

		decoded, ok, err := Decode(slot)
		require.NoError(t, err)
		require.True(t, ok, "name %q", tt.stored)
		assert.Equal(t, tt.first, decoded.FirstName)
		assert.Equal(t, tt.last, decoded.LastName)
	}
}

func TestDecodeNameWithoutTerminatorUsesFullField(t *testing.T) {
	slot := make([]byte, SlotSize)
	for i := 0; i < 96; i++ {
		slot[i] = 'x'
	}

	decoded, ok, err := Decode(slot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, decoded.FirstName, 96)
}

func TestDecodeOptionalFields(t *testing.T) {
	slot := Encode(Runner{FirstName: "Jane", LastName: "Doe"})

	decoded, ok, err := Decode(slot)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Zero(t, decoded.CardNumber)
	assert.Zero(t, decoded.ClubNumber)
	assert.Zero(t, decoded.BirthYear)
	assert.Equal(t, SexUnknown, decoded.Sex)
	assert.Empty(t, decoded.Nationality)
}

func TestDecodeNegativeNumbersAreAbsent(t *testing.T) {
	slot := Encode(Runner{FirstName: "Jane", LastName: "Doe", CardNumber: -5, ClubNumber: -1, BirthYear: -1990})

	decoded, ok, err := Decode(slot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, decoded.CardNumber)
	assert.Zero(t, decoded.ClubNumber)
	assert.Zero(t, decoded.BirthYear)
}

func TestDecodeSexCodes(t *testing.T) {
	slot := Encode(Runner{FirstName: "Sam"})

	for code, want := range map[byte]Sex{'M': SexMale, 'F': SexFemale, 'x': SexUnknown, 0: SexUnknown, 'f': SexUnknown} {
		slot[107] = code
		decoded, ok, err := Decode(slot)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, decoded.Sex, "code %q", code)
	}
}

func TestDecodeNationalityStripsEmbeddedNULs(t *testing.T) {
	slot := Encode(Runner{FirstName: "Sam"})
	copy(slot[104:107], []byte{'S', 0, 'E'})

	decoded, _, err := Decode(slot)
	require.NoError(t, err)
	assert.Equal(t, "SE", decoded.Nationality)

	copy(slot[104:107], []byte{0, 0, 0})
	decoded, _, err = Decode(slot)
	require.NoError(t, err)
	assert.Empty(t, decoded.Nationality)
}

func TestIsVersionMarker(t *testing.T) {
	for _, m := range versionMarkers {
		assert.True(t, IsVersionMarker(m))
	}
	assert.False(t, IsVersionMarker(0))
	assert.False(t, IsVersionMarker(545))
}
