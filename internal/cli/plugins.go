package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPluginsCommand(flags *globalFlags, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the plugins available to build files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The catalog does not depend on any build path.
			cfg, err := flags.config([]string{"."}, "")
			if err != nil {
				return err
			}
			a := flags.newApp(cfg, errW)
			ctx := a.Context(cmd.Context())
			if err := a.LoadPlugins(ctx); err != nil {
				return reportLoadError(errW, flags, err)
			}

			tw := tabwriter.NewWriter(outW, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEXTENSION\tSOURCE\tDESCRIPTION")
			catalog := a.Catalog()
			for _, id := range catalog.IDs() {
				def, _ := catalog.Get(id)
				ext := def.Extension
				if ext == "" {
					ext = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.ID, ext, def.Source, def.Description)
			}
			return tw.Flush()
		},
	}
}
