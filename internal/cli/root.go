package cli

import (
	"context"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/specialistvlad/buildplan/internal/app"
	"github.com/specialistvlad/buildplan/internal/hcl_adapter"
	"github.com/specialistvlad/buildplan/internal/planio"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every command.
type globalFlags struct {
	logLevel             string
	logFormat            string
	pluginsDir           string
	manifest             string
	requireSignedRelease bool
	workers              int
	noColor              bool
}

// NewRootCommand builds the command tree. Results go to outW; logs,
// diagnostics and status lines go to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "buildplan",
		Short: "Resolve layered build configuration into an immutable build plan.",
		Long: `buildplan reads declarative build files, applies plugins, resolves every
property reference and writes a frozen build plan for an execution engine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Logging level: debug, info, warn or error.")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log output format: text or json.")
	pf.StringVar(&flags.pluginsDir, "plugins-dir", "", "Directory with HCL plugin manifests.")
	pf.StringVar(&flags.manifest, "manifest", "", "Framework manifest (pubspec.yaml) to derive version fields from.")
	pf.BoolVar(&flags.requireSignedRelease, "require-signed-release", false, "Fail when a non-debuggable build type has no signing config.")
	pf.IntVar(&flags.workers, "workers", 0, "Maximum number of modules resolved at once (0 = number of CPUs).")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output.")

	root.AddCommand(
		newPlanCommand(flags, outW, errW),
		newValidateCommand(flags, errW),
		newPluginsCommand(flags, outW, errW),
	)
	return root
}

// Execute runs the command line. Any returned error that is not an
// ExitError should be treated as exit code 1.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (f *globalFlags) config(paths []string, format string) (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		BuildPaths:           paths,
		PluginsDir:           f.pluginsDir,
		ManifestPath:         f.manifest,
		Format:               planio.Format(format),
		LogFormat:            f.logFormat,
		LogLevel:             f.logLevel,
		RequireSignedRelease: f.requireSignedRelease,
		WorkerCount:          f.workers,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return cfg, nil
}

func (f *globalFlags) newApp(cfg *app.Config, errW io.Writer) *app.App {
	return app.NewApp(errW, cfg, hcl_adapter.NewLoader())
}

// useColor reports whether status lines written to w get ANSI colors.
func (f *globalFlags) useColor(w io.Writer) bool {
	if f.noColor {
		return false
	}
	file, ok := w.(*os.File)
	return ok && file == os.Stderr && color.SupportColor()
}
