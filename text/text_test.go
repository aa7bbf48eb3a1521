package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrd/hidrd/item"
)

func TestParseSimpleMouseDescriptor(t *testing.T) {
	src := `
Usage Page (Generic Desktop)
Usage (Mouse)
Collection (Application)
  Usage (Pointer)
  Collection (Physical)
    Usage Page (Button)
    Usage Minimum (1)
    Usage Maximum (3)
    Logical Minimum (0)
    Logical Maximum (1)
    Report Count (3)
    Report Size (1)
    Input (Data,Var,Abs)
    Report Count (1)
    Report Size (5)
    Input (Cnst,Arr,Abs)
    Usage Page (Generic Desktop)
    Usage (X)
    Usage (Y)
    Logical Minimum (-127)
    Logical Maximum (127)
    Report Size (8)
    Report Count (2)
    Input (Data,Var,Rel)
  End Collection
End Collection
`
	items, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, items, 26)

	assert.Equal(t, item.TagUsagePage, items[0].Tag)
	assert.Equal(t, int64(1), items[0].Value) // Generic Desktop page id

	assert.Equal(t, item.TagUsage, items[1].Tag)
	assert.Equal(t, int64(2), items[1].Value) // Mouse

	assert.Equal(t, item.TagCollection, items[2].Tag)
	assert.Equal(t, int64(1), items[2].Value) // Application

	last := items[len(items)-1]
	assert.Equal(t, item.TagEndCollection, last.Tag)
}

func TestParseEmptyItem(t *testing.T) {
	items, err := Parse("Push\nPop\n")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, item.TagPush, items[0].Tag)
	assert.Equal(t, item.TagPop, items[1].Tag)
}

func TestParseHexArgument(t *testing.T) {
	items, err := Parse("Report ID (0x01)\n")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].Value)
}

func TestParseFlagsMainItem(t *testing.T) {
	items, err := Parse("Input (Data,Var,Abs,Null)\n")
	require.NoError(t, err)
	require.Len(t, items, 1)
	// Var (bit1) | Null (bit6)
	assert.Equal(t, int64(1<<1|1<<6), items[0].Value)
}

func TestParseUnitItem(t *testing.T) {
	items, err := Parse("Unit (SILinear,Centimeter^3)\n")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(0x31), items[0].Value)
}

func TestParseUnknownItemName(t *testing.T) {
	_, err := Parse("Bogus Item (1)\n")
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Line)
}

func TestParseUnknownUsagePage(t *testing.T) {
	_, err := Parse("Usage Page (Not A Real Page)\n")
	require.Error(t, err)
}

func TestParseSkipsBlankLines(t *testing.T) {
	items, err := Parse("\n\nPush\n\n\nPop\n\n")
	require.NoError(t, err)
	require.Len(t, items, 2)
}
