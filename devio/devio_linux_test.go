//go:build linux

package devio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTopLevelUsageMouse(t *testing.T) {
	desc := []byte{
		0x05, 0x01, // Usage Page (Generic Desktop)
		0x09, 0x02, // Usage (Mouse)
		0xa1, 0x01, // Collection (Application)
		0x09, 0x01,
		0xc0,
	}
	page, usage := parseTopLevelUsage(desc)
	assert.Equal(t, uint16(1), page)
	assert.Equal(t, uint16(2), usage)
}

func TestParseTopLevelUsageEmpty(t *testing.T) {
	page, usage := parseTopLevelUsage(nil)
	assert.Equal(t, uint16(0), page)
	assert.Equal(t, uint16(0), usage)
}
