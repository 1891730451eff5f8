package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-argdoc"
	"github.com/goliatone/go-argdoc/codec"
)

func newRootCmd() *cobra.Command {
	cfg := loadConfig()
	var noColor bool

	root := &cobra.Command{
		Use:           "argdoc",
		Short:         "Work with dumped parser documents",
		Long:          "argdoc inspects, validates, converts, and compares portable parser definition documents.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyColorConfig(cfg, noColor)
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newValidateCmd(),
		newConvertCmd(cfg),
		newInspectCmd(),
		newDiffCmd(),
		newEnvCmd(),
		newVersionCmd(),
	)
	return root
}

// readDocument loads and decodes a document file, picking the codec
// from the file extension.
func readDocument(path string) (*argdoc.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := codec.ForPath(path).Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, nil
}
