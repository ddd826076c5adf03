package cli

import (
	"io"

	"github.com/spf13/cobra"
)

func newValidateCommand(flags *globalFlags, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [PATH...]",
		Short: "Resolve build files and report diagnostics without writing plans.",
		Args:  requirePaths,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(args, "")
			if err != nil {
				return err
			}
			report, err := resolve(cmd.Context(), flags, cfg, errW)
			if err != nil {
				return err
			}
			return failedModules(report)
		},
	}
}
