package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-argdoc"
	"github.com/goliatone/go-argdoc/codec"
	"github.com/goliatone/go-argdoc/schema/jsonschema"
)

func newValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a document against the wire contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			doc, err := codec.ForPath(path).Unmarshal(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
			raw, err := codec.CompactJSON().Marshal(doc)
			if err != nil {
				return err
			}
			if err := jsonschema.ValidateBytes(raw); err != nil {
				var violations jsonschema.ValidationErrors
				if errors.As(err, &violations) {
					for _, violation := range violations {
						color.Red("  %s: %s", violation.Path, violation.Detail)
					}
					return fmt.Errorf("%s: %d contract violation(s)", path, len(violations))
				}
				return err
			}

			loadOpts := []argdoc.LoadOption{}
			if !strict {
				loadOpts = append(loadOpts, argdoc.NonStrict())
			}
			parser, err := argdoc.Load(doc, loadOpts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			for _, note := range parser.Notes() {
				color.Yellow("  note: %s", note.Detail)
			}

			color.Green("%s: valid (schema version %d)", path, doc.SchemaVersion)
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on unresolved type references")
	return cmd
}
