package app

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/planio"
	"github.com/specialistvlad/buildplan/internal/workspace"
)

// Report is the outcome of a run.
type Report struct {
	Results []workspace.Result
	// Sources holds the parsed build files for rendering diagnostics.
	Sources map[string]*hcl.File
}

// Failed counts the modules that produced no plan.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

// Documents returns the serializable plans of the successful modules.
func (r *Report) Documents() []planio.Document {
	var docs []planio.Document
	for _, res := range r.Results {
		if res.Plan != nil {
			docs = append(docs, planio.FromPlan(res.Plan))
		}
	}
	return docs
}

// Run loads plugins, the framework manifest and every build file, then
// resolves all modules. An error means nothing could be resolved; modules
// failing individually are reported in the Report.
func (a *App) Run(ctx context.Context) (*Report, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.LoadPlugins(ctx); err != nil {
		return nil, err
	}
	env, err := a.LoadEnv(ctx)
	if err != nil {
		return nil, err
	}
	modules, err := a.LoadModules(ctx)
	if err != nil {
		return nil, err
	}

	results, err := workspace.Resolve(ctx, a.catalog, modules, workspace.Options{
		Workers:              a.config.WorkerCount,
		Env:                  env,
		RequireSignedRelease: a.config.RequireSignedRelease,
	})
	if err != nil {
		return nil, err
	}

	report := &Report{Results: results, Sources: a.loader.Sources()}
	a.logger.Info("🏁 Resolution finished.", "modules", len(results), "failed", report.Failed())
	return report, nil
}
