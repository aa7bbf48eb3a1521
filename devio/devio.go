// Package devio enumerates local HID devices and reads their report
// descriptors off the host, handing the raw bytes to the hidrd Descriptor
// Facade (spec §4.G) for parsing. Platform support is provided by
// devio_linux.go (hidraw) and devio_windows.go (SetupAPI/hid.dll); other
// platforms get the stub in devio_other.go.
package devio

import (
	"fmt"
	"iter"

	"github.com/hidrd/hidrd"
)

// Device describes one enumerated HID device and its platform-specific
// open path.
type Device struct {
	Path          string // platform-specific device path
	VendorID      uint16
	ProductID     uint16
	ReleaseNumber uint16
	SerialNumber  string
	Manufacturer  string
	Product       string
	UsagePage     uint16 // top-level collection's Usage Page
	Usage         uint16 // top-level collection's Usage
	InterfaceNbr  int
}

// ErrDescriptorUnavailable is returned by Device.Descriptor on platforms
// or devices where the raw report descriptor byte stream cannot be read.
var ErrDescriptorUnavailable = fmt.Errorf("devio: raw report descriptor not available on this platform")

// Enumerate lists the HID devices visible to the current host, in the
// platform's natural enumeration order.
func Enumerate() iter.Seq2[*Device, error] {
	return enumerate()
}

// Descriptor reads and evaluates this device's raw report descriptor.
func (d *Device) Descriptor() (*hidrd.Descriptor, error) {
	raw, err := readReportDescriptor(d)
	if err != nil {
		return nil, err
	}
	return hidrd.FromBytes(raw)
}
