package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hidrd/hidrd"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <descriptor-file> <report-bytes-hex>",
		Short: "decode a report buffer against a descriptor into human-readable text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			descData, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			d, err := hidrd.FromBytes(descData)
			if err != nil {
				return err
			}

			buf, err := parseHexBytes(args[1])
			if err != nil {
				return err
			}

			text, err := d.DecodeReport(buf)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	return cmd
}

func parseHexBytes(s string) ([]byte, error) {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, tok := range fields {
		tok = strings.TrimPrefix(tok, "0x")
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("bad hex byte %q: %w", tok, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}
