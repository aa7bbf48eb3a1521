// Command hidrd-inspect is a small terminal UI for browsing the HID
// devices visible to this host and viewing their report descriptors,
// adapted from the teacher's cui-based vault browser.
package main

import (
	"fmt"
	"os"

	"github.com/hidrd/hidrd/cmd/hidrd-inspect/inspect"
)

func main() {
	if err := inspect.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hidrd-inspect: %v\n", err)
		os.Exit(1)
	}
}
