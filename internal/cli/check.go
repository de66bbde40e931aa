package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/cdoc/internal/validator"
)

// errIssuesFound makes `cdoc check` exit non-zero.
var errIssuesFound = errors.New("lint issues found")

func newCheckCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Lint doc-blocks",
		Long: `Report doc-blocks without a summary, tags not written as "@name: text",
duplicated tags and @name references in descriptions that match no tag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, configPath)
			if err != nil {
				return err
			}
			files, err := extract(cmd.Context(), cmd, cfg, log, args)
			if err != nil {
				return err
			}

			count := 0
			for _, f := range files {
				for _, issue := range validator.Lint(f) {
					fmt.Fprintln(cmd.OutOrStdout(), issue)
					count++
				}
			}
			if count > 0 {
				return fmt.Errorf("%w: %d", errIssuesFound, count)
			}
			return nil
		},
	}

	addSourceFlags(cmd.Flags(), &configPath)
	return cmd
}
