package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesLoadsEmbeddedData(t *testing.T) {
	tbl := Tables()
	require.NotNil(t, tbl)

	page, err := tbl.PageByID(0x01)
	require.NoError(t, err)
	assert.Equal(t, "Generic Desktop", page.Name)

	name, ok := page.NameOf(0x02)
	require.True(t, ok)
	assert.Equal(t, "Mouse", name)
}

func TestPageByIDUnknown(t *testing.T) {
	_, err := Tables().PageByID(0xBEEF)
	require.Error(t, err)
	var le *LookupError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "page", le.Kind)
}

func TestPageFromName(t *testing.T) {
	page, err := Tables().PageFromName("Digitizers")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0d), page.ID)

	id, ok := page.IDFromName("Tip Switch")
	require.True(t, ok)
	assert.Equal(t, uint16(0x42), id)
}

func TestButtonPageAlwaysNames(t *testing.T) {
	page, err := Tables().PageByID(0x09)
	require.NoError(t, err)
	name, ok := page.NameOf(3)
	require.True(t, ok)
	assert.Equal(t, "B3", name)
}

func TestSensorModifierName(t *testing.T) {
	assert.Equal(t, "None", SensorModifierName(0x0))
	assert.Equal(t, "Max", SensorModifierName(0x2))
	assert.Equal(t, "Vendor Reserved", SensorModifierName(0xf))
}

func TestTablesIsSingleton(t *testing.T) {
	assert.Same(t, Tables(), Tables())
}
