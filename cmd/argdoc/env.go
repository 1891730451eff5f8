package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env <file>",
		Short: "Print the environment metadata a document was produced in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if doc.Env == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no environment metadata")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tool version: %s\n", doc.Env.ToolVersion)
			fmt.Fprintf(out, "go version:   %s\n", doc.Env.GoVersion)
			fmt.Fprintf(out, "platform:     %s/%s\n", doc.Env.OS, doc.Env.Arch)
			fmt.Fprintf(out, "created at:   %s\n", doc.Env.CreatedAt)
			fmt.Fprintf(out, "snapshot id:  %s\n", doc.Env.SnapshotID)
			return nil
		},
	}
	return cmd
}
