// Package inspect implements the hidrd-inspect terminal UI: a device list
// on the left, the selected device's decoded report descriptor on the
// right, in the same cui Flex/List/TextView layout the teacher's vault
// browser uses.
package inspect

import (
	"fmt"

	"github.com/malivvan/cui"

	"github.com/hidrd/hidrd/devio"
)

// Execute enumerates the host's HID devices and runs the inspector loop
// until the user quits.
func Execute() error {
	app := cui.NewApplication()

	devices, err := collectDevices()
	if err != nil {
		return err
	}

	list := cui.NewList()
	detail := cui.NewTextView()
	detail.SetText("select a device on the left")

	for i, dev := range devices {
		i, dev := i, dev
		label := fmt.Sprintf("%s  %04x:%04x", dev.Path, dev.VendorID, dev.ProductID)
		sub := dev.Product
		list.AddItem(label, sub, rune('a'+i), func() {
			detail.SetText(describeDevice(dev))
		})
	}
	if len(devices) > 0 {
		detail.SetText(describeDevice(devices[0]))
	}

	status := cui.NewTextView()
	status.SetText("hidrd-inspect — arrows to select, Ctrl+C to exit")
	status.SetTextAlign(cui.AlignCenter)

	body := cui.NewFlex()
	body.SetDirection(cui.FlexColumn)
	body.AddItem(list, 0, 1, true)
	body.AddItem(detail, 0, 2, false)

	root := cui.NewFlex()
	root.SetDirection(cui.FlexRow)
	root.AddItem(body, 0, 1, true)
	root.AddItem(status, 1, 0, false)

	app.SetRoot(root, true)
	return app.Run()
}

func collectDevices() ([]*devio.Device, error) {
	var out []*devio.Device
	for dev, err := range devio.Enumerate() {
		if err != nil {
			return out, err
		}
		out = append(out, dev)
	}
	return out, nil
}

func describeDevice(dev *devio.Device) string {
	d, err := dev.Descriptor()
	if err != nil {
		return fmt.Sprintf("%s\nVendor %04x Product %04x\n\n(descriptor unavailable: %v)",
			dev.Path, dev.VendorID, dev.ProductID, err)
	}
	return fmt.Sprintf("%s\nVendor %04x Product %04x\n\n%s",
		dev.Path, dev.VendorID, dev.ProductID, d.ToText())
}
