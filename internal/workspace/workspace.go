// Package workspace resolves several modules at once. Each module gets its
// own session; sessions run concurrently and share only the read-only
// plugin catalog.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/specialistvlad/buildplan/internal/config"
	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/diag"
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/session"
	"golang.org/x/sync/errgroup"
)

// Options configure a workspace run.
type Options struct {
	// Workers bounds the number of sessions running at once. Zero means
	// GOMAXPROCS.
	Workers int
	// Env is shared by every session.
	Env model.Env
	// RequireSignedRelease is passed to every session.
	RequireSignedRelease bool
}

// Result is the outcome of one module.
type Result struct {
	Module      string
	Path        string
	Plan        *model.BuildPlan
	Diagnostics diag.Diagnostics
	Err         error
}

// Failed reports whether the module produced no plan.
func (r Result) Failed() bool { return r.Err != nil }

// Resolve runs one session per module and returns the results in module
// order. A failing module does not stop the others; only cancellation of
// ctx does, in which case the context error is returned.
func Resolve(ctx context.Context, catalog session.Catalog, modules []*config.Module, opts Options) ([]Result, error) {
	logger := ctxlog.FromContext(ctx)

	if err := checkNames(modules); err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger.Debug("Resolving workspace.", "modules", len(modules), "workers", workers)

	results := make([]Result, len(modules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, m := range modules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = resolveModule(gctx, catalog, m, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("workspace resolution interrupted: %w", err)
	}

	logger.Debug("Workspace resolved.", "modules", len(modules), "failed", countFailed(results))
	return results, nil
}

func resolveModule(ctx context.Context, catalog session.Catalog, m *config.Module, opts Options) Result {
	ctx = ctxlog.With(ctx, "path", m.Path)
	s := session.New(catalog, session.Options{
		Module:               m.Name,
		Env:                  opts.Env,
		RequireSignedRelease: opts.RequireSignedRelease,
	})

	res := Result{Module: m.Name, Path: m.Path}
	if err := s.Apply(ctx, m.Statements...); err != nil {
		res.Err = err
		res.Diagnostics = s.Diagnostics()
		return res
	}
	res.Plan, res.Err = s.Assemble(ctx)
	res.Diagnostics = s.Diagnostics()
	return res
}

// checkNames rejects two modules with the same name, since their plans
// would be indistinguishable.
func checkNames(modules []*config.Module) error {
	seen := make(map[string]string, len(modules))
	var errs []error
	for _, m := range modules {
		if prev, ok := seen[m.Name]; ok {
			errs = append(errs, fmt.Errorf("module %q is defined by both %s and %s", m.Name, prev, m.Path))
			continue
		}
		seen[m.Name] = m.Path
	}
	return errors.Join(errs...)
}

func countFailed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Failed() {
			n++
		}
	}
	return n
}
