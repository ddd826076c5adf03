package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildplan/internal/app"
	"github.com/specialistvlad/buildplan/internal/hcl_adapter"
)

const diagnosticWidth = 100

// resolve runs the app and prints one status line per module, followed by
// its diagnostics.
func resolve(ctx context.Context, flags *globalFlags, cfg *app.Config, errW io.Writer) (*app.Report, error) {
	a := flags.newApp(cfg, errW)
	report, err := a.Run(ctx)
	if err != nil {
		return nil, reportLoadError(errW, flags, err)
	}

	colored := flags.useColor(errW)
	p := painter{on: colored}
	for _, res := range report.Results {
		switch {
		case res.Failed():
			fmt.Fprintf(errW, "%s %s (%s)\n", p.red("✗"), res.Module, res.Path)
		case len(res.Diagnostics) > 0:
			fmt.Fprintf(errW, "%s %s (%s)\n", p.yellow("!"), res.Module, res.Path)
		default:
			fmt.Fprintf(errW, "%s %s (%s)\n", p.green("✓"), res.Module, res.Path)
		}
		if len(res.Diagnostics) > 0 {
			w := hcl.NewDiagnosticTextWriter(errW, report.Sources, diagnosticWidth, colored)
			if err := w.WriteDiagnostics(res.Diagnostics.ToHCL()); err != nil {
				return nil, err
			}
		}
	}
	return report, nil
}

// reportLoadError prints HCL diagnostics with source snippets and turns
// err into an exit error.
func reportLoadError(errW io.Writer, flags *globalFlags, err error) error {
	for _, diagsErr := range diagnosticsErrors(err) {
		w := hcl.NewDiagnosticTextWriter(errW, diagsErr.Files, diagnosticWidth, flags.useColor(errW))
		if werr := w.WriteDiagnostics(diagsErr.Diags); werr != nil {
			return werr
		}
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

// diagnosticsErrors finds every DiagnosticsError in err, including the
// members of a joined error.
func diagnosticsErrors(err error) []*hcl_adapter.DiagnosticsError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*hcl_adapter.DiagnosticsError
		for _, e := range joined.Unwrap() {
			out = append(out, diagnosticsErrors(e)...)
		}
		return out
	}
	var diagsErr *hcl_adapter.DiagnosticsError
	if errors.As(err, &diagsErr) {
		return []*hcl_adapter.DiagnosticsError{diagsErr}
	}
	return nil
}

func failedModules(report *app.Report) error {
	if n := report.Failed(); n > 0 {
		return &ExitError{Code: 1, Message: fmt.Sprintf("%d of %d modules failed to resolve", n, len(report.Results))}
	}
	return nil
}

// painter colors status marks when the terminal supports it.
type painter struct{ on bool }

func (p painter) paint(c color.Color, s string) string {
	if !p.on {
		return s
	}
	return c.Sprint(s)
}

func (p painter) red(s string) string    { return p.paint(color.FgRed, s) }
func (p painter) green(s string) string  { return p.paint(color.FgGreen, s) }
func (p painter) yellow(s string) string { return p.paint(color.FgYellow, s) }
