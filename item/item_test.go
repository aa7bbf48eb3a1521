package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeShort(t *testing.T) {
	// 0x05 0x01: Usage Page (Generic Desktop), 1-byte payload.
	it, consumed, ok, err := Decode([]byte{0x05, 0x01}, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, consumed)
	assert.Equal(t, TagUsagePage, it.Tag)
	assert.Equal(t, int64(1), it.Value)
}

func TestDecodeSignExtendsLogicalMinimum(t *testing.T) {
	// 0x15 0x81: Logical Minimum (-127), 1-byte payload.
	it, _, ok, err := Decode([]byte{0x15, 0x81}, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(-127), it.Value)
}

func TestDecodeUnitExponentRebias(t *testing.T) {
	// 0x55 0x0e: Unit Exponent with uval=14 > 7, rebiases to 14-16 = -2.
	it, _, ok, err := Decode([]byte{0x55, 0x0e}, 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, TagUnitExponent, it.Tag)
	assert.Equal(t, int64(-2), it.Value)
}

func TestDecodeToleratesTrailingZero(t *testing.T) {
	_, consumed, ok, err := Decode([]byte{0x00}, 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, consumed)
}

func TestDecodeUnknownTag(t *testing.T) {
	_, _, _, err := Decode([]byte{0x02}, 0)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestDecodeTruncatedPayload(t *testing.T) {
	_, _, _, err := Decode([]byte{0x05}, 0)
	require.Error(t, err)
}

func TestDecodeAllRoundTrip(t *testing.T) {
	data := []byte{
		0x05, 0x01, // Usage Page (Generic Desktop)
		0x09, 0x02, // Usage (Mouse)
		0xa1, 0x01, // Collection (Application)
		0xc0, // End Collection
	}
	items, err := DecodeAll(data)
	require.NoError(t, err)
	require.Len(t, items, 4)

	var out []byte
	for _, it := range items {
		out = append(out, it.Encode()...)
	}
	assert.Equal(t, data, out)
}

func TestNewMinimalWidthNegative(t *testing.T) {
	it := New(TagLogicalMinimum, -127)
	assert.Equal(t, []byte{0x81}, it.RawPayload)
	assert.Equal(t, []byte{0x15, 0x81}, it.Encode())
}

func TestNewMinimalWidthUnsignedByte(t *testing.T) {
	it := New(TagLogicalMaximum, 255)
	assert.Equal(t, 1, len(it.RawPayload))
}

func TestNewMinimalWidthNeeds16Bits(t *testing.T) {
	it := New(TagLogicalMinimum, -129)
	assert.Equal(t, 2, len(it.RawPayload))
}

func TestNewUnitExponentRebiasesNegative(t *testing.T) {
	it := New(TagUnitExponent, -8)
	require.Len(t, it.RawPayload, 1)
	assert.Equal(t, byte(8), it.RawPayload[0])
}

func TestTagStringAndLookup(t *testing.T) {
	assert.Equal(t, "Usage Page", TagUsagePage.String())
	tag, ok := TagByName("Usage Page")
	require.True(t, ok)
	assert.Equal(t, TagUsagePage, tag)

	_, ok = TagByName("Not A Real Tag")
	assert.False(t, ok)
}

func TestIsMain(t *testing.T) {
	assert.True(t, TagInput.IsMain())
	assert.True(t, TagCollection.IsMain())
	assert.False(t, TagUsagePage.IsMain())
}
