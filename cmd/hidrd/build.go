package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hidrd/hidrd"
)

func newBuildCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "build <text-descriptor-file>",
		Short: "compile a textual descriptor (spec §4.F) back to its raw byte form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			d, err := hidrd.FromText(string(src))
			if err != nil {
				return err
			}
			raw := d.ToBytes()
			if out == "" {
				_, err := cmd.OutOrStdout().Write(raw)
				return err
			}
			return os.WriteFile(out, raw, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "write the compiled bytes to this path instead of stdout")
	return cmd
}
