package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/buildplan/internal/planio"
	"github.com/spf13/cobra"
)

func newPlanCommand(flags *globalFlags, outW, errW io.Writer) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "plan [PATH...]",
		Short: "Resolve build files and write their build plans.",
		Long: `Each PATH is a build.hcl file or a directory; every build.hcl below a
directory is a module. Modules are resolved concurrently. Plans of the modules
that resolved are written even when others fail.`,
		Args: requirePaths,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(args, format)
			if err != nil {
				return err
			}
			report, err := resolve(cmd.Context(), flags, cfg, errW)
			if err != nil {
				return err
			}

			if docs := report.Documents(); len(docs) > 0 {
				if err := writePlans(outW, out, cfg.Format, docs); err != nil {
					return err
				}
			}
			return failedModules(report)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(planio.FormatJSON), "Plan format: json, yaml or msgpack.")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the plans to this file instead of stdout.")
	return cmd
}

func writePlans(outW io.Writer, path string, format planio.Format, docs []planio.Document) error {
	if path == "" {
		return planio.Encode(outW, format, docs)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := planio.Encode(f, format, docs); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
