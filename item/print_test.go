package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineGeneric(t *testing.T) {
	assert.Equal(t, "Report Size (8)", TagReportSize.Line(8))
	assert.Equal(t, "Push", TagPush.Line(0))
}

func TestCollectionKindString(t *testing.T) {
	assert.Equal(t, "Application", CollectionApplication.String())
	assert.Equal(t, "Physical", CollectionPhysical.String())
	assert.Contains(t, CollectionKind(0x81).String(), "Vendor-defined")
	assert.Contains(t, CollectionKind(0x10).String(), "Reserved")
}

func TestFlagsString(t *testing.T) {
	// Data, Array, Absolute: all bits clear, so no optional flag is listed.
	assert.Equal(t, "Data,Arr,Abs", Flags(0).String())
	assert.Equal(t, "Input (Cnst", TagInput.MainLine(Flags(0x1))[:len("Input (Cnst")])
}

func TestFormatUnitCentimeterCubed(t *testing.T) {
	// length exponent 3, SILinear system: (3<<4)|1 = 0x31.
	got := FormatUnit(0x31)
	assert.Equal(t, "Centimeter^3,SILinear", got)
}

func TestFormatUnitNone(t *testing.T) {
	assert.Equal(t, "None", FormatUnit(0))
}

func TestFormatUnitSingleExponent(t *testing.T) {
	assert.Equal(t, "Centimeter,SILinear", FormatUnit(0x11))
}

func TestParseUnitRoundTrip(t *testing.T) {
	v, err := ParseUnit("Centimeter^3,SILinear")
	require.NoError(t, err)
	assert.Equal(t, int64(0x31), v)
	assert.Equal(t, "Centimeter^3,SILinear", FormatUnit(v))
}

func TestParseUnitNone(t *testing.T) {
	v, err := ParseUnit("None")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)
}

func TestParseUnitUnknownName(t *testing.T) {
	_, err := ParseUnit("Furlong,SILinear")
	require.Error(t, err)
}
