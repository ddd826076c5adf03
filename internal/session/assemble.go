package session

import (
	"context"
	"fmt"

	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/diag"
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/refgraph"
	"github.com/specialistvlad/buildplan/internal/resolver"
	"github.com/specialistvlad/buildplan/internal/variant"
)

// Assemble resolves every declared property, finalizes the build types,
// freezes the dependency set, validates the global invariants and returns the
// frozen plan. It never returns a partial plan. Calling it again returns the
// same plan, or the same error if the session failed.
func (s *Session) Assemble(ctx context.Context) (*model.BuildPlan, error) {
	switch s.state {
	case StateAssembled:
		return s.plan, nil
	case StateFailed:
		return nil, s.err
	case StateResolving:
		return nil, fmt.Errorf("assemble re-entered while resolving: %w", diag.ErrSessionClosed)
	}

	ctx = s.withModule(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Assembling build plan.", "plugins", s.registry.Applied(), "keys", s.store.Len())

	s.state = StateResolving
	s.registry.Close()
	r := resolver.New(s.registry, s.store, s.opts.Env)

	// (1) Force every declared property.
	props := make(map[string]model.Resolved)
	for _, key := range s.boundKeys().Keys() {
		entry, _ := s.store.Get(key)
		res, err := r.ResolveKey(ctx, key, entry.Source)
		if err != nil {
			return nil, s.fail(ctx, err)
		}
		props[key] = res
	}
	// Fields only a default function supplies join the plan once reached.
	for key, res := range r.Resolved("") {
		props[key] = res
	}

	// (2) Finalize build types: scoped properties first, then signing configs.
	drafts := s.variants.Drafts()
	variants, err := variant.Finalize(ctx, drafts, s.signing, r, s.boundKeys())
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	for i, v := range variants {
		if v.SigningConfigRef != nil || v.Debuggable {
			continue
		}
		pos := drafts[i].Pos
		if s.opts.RequireSignedRelease {
			return nil, s.fail(ctx, &diag.InvalidConfigurationError{
				Invariant: "signed-release",
				Key:       v.Name,
				Detail:    fmt.Sprintf("build type %q is not debuggable and has no signing config", v.Name),
				Pos:       pos,
			})
		}
		s.warn(ctx, diag.Diagnostic{
			Severity: diag.SeverityWarning,
			Kind:     diag.KindUnsignedVariant,
			Key:      v.Name,
			Pos:      pos,
			Summary:  fmt.Sprintf("build type %q has no signing config and will produce an unsigned artifact", v.Name),
			Detail:   `Declare signingConfig = signingConfigs.<name> in the build type to sign it.`,
		})
	}

	// (3) Freeze dependencies.
	dependencies := s.deps.Freeze()

	// (4) Global invariants.
	target, err := s.validate(props, variants)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	order, err := resolutionOrder(props, r.Edges())
	if err != nil {
		return nil, s.fail(ctx, &diag.InvalidConfigurationError{Invariant: "acyclic-references", Detail: err.Error()})
	}

	s.plan = model.NewBuildPlan(model.PlanContents{
		Module:          s.opts.Module,
		Plugins:         s.registry.Applied(),
		Properties:      props,
		Target:          target,
		CompileOptions:  model.CompileOptionsOf(props),
		Variants:        variants,
		Dependencies:    dependencies,
		ResolutionOrder: order,
	})
	s.state = StateAssembled
	logger.Debug("Build plan assembled.",
		"properties", len(props),
		"variants", len(variants),
		"dependencies", len(dependencies),
		"warnings", len(s.diags),
	)
	return s.plan, nil
}

// resolutionOrder orders the project-level keys so that each follows the
// keys it references.
func resolutionOrder(props map[string]model.Resolved, edges []resolver.Edge) ([]string, error) {
	g := refgraph.New()
	for key := range props {
		g.AddNode(key)
	}
	for _, e := range edges {
		if e.Scope != "" {
			continue
		}
		if err := g.Link(e.From, e.To); err != nil {
			return nil, err
		}
	}
	return g.TopoSort()
}

// boundKeys hides keys of extensions no applied plugin contributed. Such
// keys can only come from a plugin seeding a default into another plugin's
// extension that the project never applied.
func (s *Session) boundKeys() boundKeySource {
	return boundKeySource{s: s}
}

type boundKeySource struct {
	s *Session
}

func (b boundKeySource) bound(key string) bool {
	ref, err := model.RefForKey(key)
	if err != nil {
		return false
	}
	_, ok := b.s.registry.Binding(ref.Extension)
	return ok
}

func (b boundKeySource) Keys() []string {
	var out []string
	for _, k := range b.s.store.Keys() {
		if b.bound(k) {
			out = append(out, k)
		}
	}
	return out
}

func (b boundKeySource) ScopedKeys(scope string) []string {
	return b.s.store.ScopedKeys(scope)
}
