package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-argdoc/diff"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare two documents structurally",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldDoc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			newDoc, err := readDocument(args[1])
			if err != nil {
				return err
			}

			entries := diff.Documents(oldDoc, newDoc)
			if len(entries) == 0 {
				color.Green("documents are identical")
				return nil
			}
			for _, entry := range entries {
				switch entry.Kind {
				case diff.KindAdded:
					color.Green("%s", entry)
				case diff.KindRemoved:
					color.Red("%s", entry)
				default:
					color.Yellow("%s", entry)
				}
			}
			return fmt.Errorf("%d difference(s)", len(entries))
		},
	}
	return cmd
}
