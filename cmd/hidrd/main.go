package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "hidrd",
		Short:   "inspect, decode and synthesize HID report descriptors",
		Version: version,
	}
	root.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}
	root.AddCommand(
		newDecodeCmd(),
		newReportCmd(),
		newBuildCmd(),
		newDevicesCmd(),
	)
	return root
}
