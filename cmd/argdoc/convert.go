package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-argdoc/codec"
)

func newConvertCmd(cfg cliConfig) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a document between wire formats",
		Long:  "Convert re-encodes a document into another format: " + strings.Join(codec.Names(), ", ") + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}

			target := format
			if target == "" && output != "" {
				target = codec.ForPath(output).Name()
			}
			if target == "" {
				target = cfg.Format
			}
			c, err := codec.ForName(target)
			if err != nil {
				return err
			}

			out, err := c.Marshal(doc)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "to", "t", "", "target format (json, yaml, msgpack)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout")
	return cmd
}
