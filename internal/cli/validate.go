package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse and validate the declaration file without probing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			decl, err := a.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d waits\n", a.file, len(decl.Waits))
			for i, w := range decl.Waits {
				fmt.Fprintf(out, "  [%d] %s\n", i, w.Description())
			}
			return nil
		},
	}
}
