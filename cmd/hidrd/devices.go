package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hidrd/hidrd/devio"
	"github.com/hidrd/hidrd/usage"
)

func newDevicesCmd() *cobra.Command {
	var dumpDescriptors bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "list HID devices visible to this host",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			tbl := usage.Tables()

			for dev, err := range devio.Enumerate() {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
					continue
				}
				page, perr := tbl.PageByID(dev.UsagePage)
				pageName := "Vendor"
				if perr == nil {
					pageName = page.Name
				}
				fmt.Fprintf(out, "%s  %04x:%04x  %s  %q %q\n",
					dev.Path, dev.VendorID, dev.ProductID, pageName, dev.Manufacturer, dev.Product)

				if dumpDescriptors {
					d, err := dev.Descriptor()
					if err != nil {
						fmt.Fprintf(out, "  (descriptor unavailable: %v)\n", err)
						continue
					}
					fmt.Fprint(out, d.ToText())
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dumpDescriptors, "descriptors", false, "also print each device's report descriptor")
	return cmd
}
