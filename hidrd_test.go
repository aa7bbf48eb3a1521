package hidrd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrd/hidrd/descriptor"
	"github.com/hidrd/hidrd/usage"
)

// mouseDescriptor is the S1 scenario: a 3-button mouse with relative 8-bit
// signed X/Y, unnumbered.
var mouseDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x02, // Usage (Mouse)
	0xa1, 0x01, // Collection (Application)
	0x09, 0x01, //   Usage (Pointer)
	0xa1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x01, //     Usage Minimum (1)
	0x29, 0x03, //     Usage Maximum (3)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x95, 0x03, //     Report Count (3)
	0x75, 0x01, //     Report Size (1)
	0x81, 0x02, //     Input (Data,Var,Abs)
	0x95, 0x01, //     Report Count (1)
	0x75, 0x05, //     Report Size (5)
	0x81, 0x01, //     Input (Cnst,Arr,Abs)
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x15, 0x81, //     Logical Minimum (-127)
	0x25, 0x7f, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x02, //     Report Count (2)
	0x81, 0x06, //     Input (Data,Var,Rel)
	0xc0,       //   End Collection
	0xc0,       // End Collection
}

func TestS1MouseScenario(t *testing.T) {
	d, err := FromBytes(mouseDescriptor)
	require.NoError(t, err)

	r := d.Get(-1, 0)
	require.NotNil(t, r)
	require.Len(t, r.Fields, 6)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 1, r.Fields[i].BitSize)
	}
	assert.Equal(t, 3, r.Fields[0].Count+r.Fields[1].Count+r.Fields[2].Count)
	assert.True(t, r.Fields[3].Const())
	assert.Equal(t, 5, r.Fields[3].BitSize)
	assert.Equal(t, int32(-127), r.Fields[4].LogicalMin)
	assert.Equal(t, int32(127), r.Fields[4].LogicalMax)
	assert.Equal(t, 8, r.Fields[4].BitSize)
	assert.Equal(t, 8, r.Fields[5].BitSize)

	assert.Equal(t, mouseDescriptor, d.ToBytes())
}

func TestS5ReportSynthesis(t *testing.T) {
	d, err := FromBytes(mouseDescriptor)
	require.NoError(t, err)

	out, err := d.FormatReport([]descriptor.Frame{{"b1": 1, "b2": 0, "b3": 0, "x": 10, "y": -5}}, nil, -1, "")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x0a, 0xfb}, out)
}

func TestS3SignedMinimumRoundTrip(t *testing.T) {
	items, err := FromText("Logical Minimum (-127)\n")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x15, 0x81}, items.ToBytes())

	text := items.ToText()
	assert.Contains(t, text, "Logical Minimum (-127)")
}

func TestS4UnitCompositionRoundTrip(t *testing.T) {
	// The literal 0x113 in spec.md's S4 prose is a transcription error: the
	// documented formula (exp << (dim*4)) | system for length (dim=1),
	// exponent 3, system SILinear (1) yields 0x31, not 0x113. See DESIGN.md.
	items, err := FromText("Unit (SILinear,Centimeter^3)\n")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x65, 0x31}, items.ToBytes())
}

func TestByteRoundTripInvariant(t *testing.T) {
	d, err := FromBytes(mouseDescriptor)
	require.NoError(t, err)
	assert.Equal(t, mouseDescriptor, d.ToBytes())
}

func TestTextRoundTripInvariant(t *testing.T) {
	d, err := FromBytes(mouseDescriptor)
	require.NoError(t, err)
	rendered := d.ToText()

	reparsed, err := FromText(rendered)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(rendered), strings.TrimSpace(reparsed.ToText()))
}

func TestDumpArrayStyle(t *testing.T) {
	d, err := FromBytes(mouseDescriptor)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, d.Dump(&sb, DumpArray))
	out := sb.String()
	assert.Contains(t, out, "0x05, 0x01, // Usage Page (Generic Desktop)")
	assert.Contains(t, out, "0xc0, // End Collection")
}

func TestDumpKernelStyle(t *testing.T) {
	d, err := FromBytes(mouseDescriptor)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, d.Dump(&sb, DumpKernel))
	out := sb.String()
	assert.Contains(t, out, "\t0x05, 0x01, /* Usage Page (Generic Desktop) */")
}

func TestWin8InvariantFalseForMouse(t *testing.T) {
	d, err := FromBytes(mouseDescriptor)
	require.NoError(t, err)
	assert.False(t, d.Win8())
}

// nexioTablet is a simplified S2-style numbered tablet descriptor: one
// Finger logical collection under Report ID 1 with Tip Switch/In Range/
// padding/Contact Identifier/X/Y fields, plus three additional single-field
// reports at IDs 4, 5 and 6 to populate the numbered report map.
var nexioTablet = []byte{
	0x05, 0x0d, // Usage Page (Digitizers)
	0x09, 0x04, // Usage (Touch Screen)
	0xa1, 0x01, // Collection (Application)
	0x85, 0x01, //   Report ID (1)
	0xa1, 0x02, //   Collection (Logical) -- Finger
	0x09, 0x42, //     Usage (Tip Switch)
	0x09, 0x32, //     Usage (In Range)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x75, 0x01, //     Report Size (1)
	0x95, 0x02, //     Report Count (2)
	0x81, 0x02, //     Input (Data,Var,Abs)
	0x95, 0x06, //     Report Count (6)
	0x81, 0x01, //     Input (Cnst,Arr,Abs)
	0x09, 0x51, //     Usage (Contact Identifier)
	0x25, 0xff, //     Logical Maximum (255)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x01, //     Report Count (1)
	0x81, 0x02, //     Input (Data,Var,Abs)
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x26, 0xff, 0x7f, //     Logical Maximum (32767)
	0x75, 0x10, //     Report Size (16)
	0x95, 0x01, //     Report Count (1)
	0x81, 0x02, //     Input (Data,Var,Abs)
	0x09, 0x31, //     Usage (Y)
	0x81, 0x02, //     Input (Data,Var,Abs)
	0xc0, //   End Collection (Logical)
	0x05, 0x0d, //   Usage Page (Digitizers)
	0x85, 0x04, //   Report ID (4)
	0x09, 0x54, //   Usage (Contact Count)
	0x15, 0x00, //   Logical Minimum (0)
	0x25, 0xff, //   Logical Maximum (255)
	0x75, 0x08, //   Report Size (8)
	0x95, 0x01, //   Report Count (1)
	0x81, 0x02, //   Input (Data,Var,Abs)
	0x85, 0x05, //   Report ID (5)
	0x09, 0x55, //   Usage (Contact Count Maximum)
	0x81, 0x02, //   Input (Data,Var,Abs)
	0x85, 0x06, //   Report ID (6)
	0x09, 0x53, //   Usage (Device Identifier)
	0x81, 0x02, //   Input (Data,Var,Abs)
	0xc0, // End Collection (Application)
}

func TestS2NumberedTabletScenario(t *testing.T) {
	d, err := FromBytes(nexioTablet)
	require.NoError(t, err)

	for _, id := range []int32{1, 4, 5, 6} {
		r, ok := d.eval.InputReports[id]
		require.True(t, ok, "missing input report %d", id)
		assert.True(t, r.Numbered())
	}

	finger := d.eval.InputReports[1]
	names := make([]string, 0, len(finger.Fields))
	for _, f := range finger.Fields {
		names = append(names, f.UsageName(usage.Tables()))
	}
	assert.Contains(t, names, "Tip Switch")
	assert.Contains(t, names, "In Range")
	assert.Contains(t, names, "Contact Identifier")
	assert.Contains(t, names, "X")
	assert.Contains(t, names, "Y")

	var tipSwitch, contactID, x, y *descriptor.Field
	for _, f := range finger.Fields {
		switch f.UsageName(usage.Tables()) {
		case "Tip Switch":
			tipSwitch = f
		case "Contact Identifier":
			contactID = f
		case "X":
			x = f
		case "Y":
			y = f
		}
	}
	require.NotNil(t, tipSwitch)
	require.NotNil(t, contactID)
	require.NotNil(t, x)
	require.NotNil(t, y)
	assert.Equal(t, 1, tipSwitch.BitSize)
	assert.Equal(t, 8, contactID.BitSize)
	assert.Equal(t, 16, x.BitSize)
	assert.Equal(t, 16, y.BitSize)

	assert.Equal(t, nexioTablet, d.ToBytes())
}
