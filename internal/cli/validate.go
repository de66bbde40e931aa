package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/cdoc/internal/cdoc"
	"github.com/example/cdoc/internal/validator"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate DUMP",
		Short: "Check the structure of a JSON or YAML dump written by extract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := validator.ValidateDump(args[0])
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Found %d files\n", sum.Files)
			fmt.Fprintf(out, "✓ Found %d records (%s: %d, %s: %d, %s: %d)\n", sum.Records,
				cdoc.KindFunction, sum.Kinds[cdoc.KindFunction],
				cdoc.KindBareBlock, sum.Kinds[cdoc.KindBareBlock],
				cdoc.KindSingleLine, sum.Kinds[cdoc.KindSingleLine])
			return nil
		},
	}
}
