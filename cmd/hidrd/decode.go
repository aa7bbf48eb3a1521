package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hidrd/hidrd"
)

func newDecodeCmd() *cobra.Command {
	var style string
	var asText bool

	cmd := &cobra.Command{
		Use:   "decode <descriptor-file>",
		Short: "parse a raw report descriptor and print its human-readable form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			d, err := hidrd.FromBytes(data)
			if err != nil {
				return err
			}

			if asText {
				fmt.Fprint(cmd.OutOrStdout(), d.ToText())
				return nil
			}

			dumpStyle := hidrd.DumpArray
			if style == "kernel" {
				dumpStyle = hidrd.DumpKernel
			}
			return d.Dump(cmd.OutOrStdout(), dumpStyle)
		},
	}
	cmd.Flags().StringVar(&style, "style", "array", `dump style: "array" or "kernel"`)
	cmd.Flags().BoolVar(&asText, "text", false, "print the indented textual form instead of a hex table")
	return cmd
}
