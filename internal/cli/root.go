// Package cli provides the command-line interface of cdoc.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// Version is reported by `cdoc --version`.
var Version = "dev"

// Execute creates and runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand returns the cdoc command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cdoc",
		Short: "Extract structured documentation from /// comment blocks",
		Long: `cdoc scans source files for doc-blocks: a line holding only ///
followed by // comment lines with a one-line summary, optional @name: tags
and a long description. The declaration after a block is captured as the
documented function.`,
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newExtractCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newValidateCommand())

	return rootCmd
}
