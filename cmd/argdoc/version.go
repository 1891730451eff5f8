package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-argdoc"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "argdoc %s (%s, schema version %d)\n",
				argdoc.Version, runtime.Version(), argdoc.SchemaVersion)
		},
	}
}
