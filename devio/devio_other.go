//go:build !linux && !windows

package devio

import "iter"

// enumerate yields nothing on platforms without a hidraw or hid.dll
// equivalent wired up.
func enumerate() iter.Seq2[*Device, error] {
	return func(yield func(*Device, error) bool) {}
}

func readReportDescriptor(d *Device) ([]byte, error) {
	return nil, ErrDescriptorUnavailable
}
