package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-argdoc"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print a flattened view of every argument",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if doc.Root == nil {
				return fmt.Errorf("%s: document has no root parser", args[0])
			}

			title := color.New(color.Bold)
			title.Fprintf(cmd.OutOrStdout(), "%s", doc.Root.Prog)
			if doc.Root.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s", doc.Root.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tDEST\tFLAGS\tACTION\tTYPE\tREQUIRED\tHELP")
			for _, arg := range argdoc.Summarize(doc.Root) {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%v\t%s\n",
					arg.Path,
					arg.Dest,
					strings.Join(arg.Flags, ", "),
					arg.Action,
					arg.Type,
					arg.Required,
					arg.Help,
				)
			}
			return w.Flush()
		},
	}
	return cmd
}
