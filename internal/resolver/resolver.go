// Package resolver resolves property references against a session's
// Extension Registry and Property Store.
//
// Resolution is eager and explicit: a caller asks for a key, the resolver
// follows `extension.field` references until it reaches a scalar, a default
// function, or a failure. Each call keeps its own visited set, so a cycle is
// reported as soon as a key repeats; the chain length is additionally capped
// at the number of known extension fields.
package resolver

import (
	"context"

	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/diag"
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/propstore"
)

// Bindings is the part of the Extension Registry the resolver needs.
type Bindings interface {
	Binding(extension string) (*model.ExtensionBinding, bool)
	FieldCount() int
}

// Edge records that resolving From required resolving To.
type Edge struct {
	Scope string
	From  string
	To    string
}

type memoKey struct {
	scope string
	key   string
}

// Resolver resolves references for one session. Results are memoized per
// scope and key, so a Resolver must only be used once the declaration phase
// is over.
type Resolver struct {
	bindings Bindings
	store    *propstore.Store
	env      model.Env
	limit    int

	memo  map[memoKey]model.Resolved
	edges []Edge
	seen  map[Edge]struct{}
}

// New creates a resolver.
func New(bindings Bindings, store *propstore.Store, env model.Env) *Resolver {
	return &Resolver{
		bindings: bindings,
		store:    store,
		env:      env,
		limit:    bindings.FieldCount(),
		memo:     make(map[memoKey]model.Resolved),
		seen:     make(map[Edge]struct{}),
	}
}

// Resolve resolves a reference in the global scope.
func (r *Resolver) Resolve(ctx context.Context, ref model.PropertyRef, requester string) (model.Resolved, error) {
	return r.ResolveIn(ctx, "", ref, requester)
}

// ResolveKey resolves a dotted property key in the global scope.
func (r *Resolver) ResolveKey(ctx context.Context, key, requester string) (model.Resolved, error) {
	return r.ResolveKeyIn(ctx, "", key, requester)
}

// ResolveKeyIn resolves a dotted property key as seen from a variant scope.
func (r *Resolver) ResolveKeyIn(ctx context.Context, scope, key, requester string) (model.Resolved, error) {
	ref, err := model.RefForKey(key)
	if err != nil {
		return model.Resolved{}, &diag.InvalidConfigurationError{Invariant: "property-key-format", Key: key, Detail: err.Error()}
	}
	return r.ResolveIn(ctx, scope, ref, requester)
}

// ResolveIn resolves a reference as seen from a variant scope. An empty scope
// is the global view.
func (r *Resolver) ResolveIn(ctx context.Context, scope string, ref model.PropertyRef, requester string) (model.Resolved, error) {
	if requester == "" {
		requester = ref.Key()
	}
	w := &walk{
		Resolver:  r,
		ctx:       ctx,
		scope:     scope,
		requester: requester,
		visited:   make(map[string]struct{}),
	}
	res, err := w.resolve(ref, model.Pos{})
	if err != nil {
		return model.Resolved{}, err
	}
	ctxlog.FromContext(ctx).Debug("Resolved property.",
		"key", ref.Key(),
		"scope", scope,
		"value", model.FormatScalar(res.Value),
		"provenance", res.Provenance,
	)
	return res.Clone(), nil
}

// Resolved returns every memoized result of a scope.
func (r *Resolver) Resolved(scope string) map[string]model.Resolved {
	out := make(map[string]model.Resolved)
	for k, v := range r.memo {
		if k.scope == scope {
			out[k.key] = v.Clone()
		}
	}
	return out
}

// Edges returns the reference edges discovered so far, in discovery order.
func (r *Resolver) Edges() []Edge {
	return append([]Edge(nil), r.edges...)
}

func (r *Resolver) addEdge(e Edge) {
	if _, ok := r.seen[e]; ok {
		return
	}
	r.seen[e] = struct{}{}
	r.edges = append(r.edges, e)
}

// walk is the state of one top-level resolution call.
type walk struct {
	*Resolver
	ctx       context.Context
	scope     string
	requester string
	visited   map[string]struct{}
	chain     []string
}

func (w *walk) resolve(ref model.PropertyRef, from model.Pos) (model.Resolved, error) {
	key := ref.Key()

	if cached, ok := w.memo[memoKey{w.scope, key}]; ok {
		return cached, nil
	}
	if _, revisit := w.visited[key]; revisit || len(w.chain) > w.limit {
		chain := append(append([]string(nil), w.chain...), key)
		return model.Resolved{}, &diag.CyclicReferenceError{Chain: chain, Pos: from}
	}
	w.visited[key] = struct{}{}
	w.chain = append(w.chain, key)
	defer func() { w.chain = w.chain[:len(w.chain)-1] }()

	binding, ok := w.bindings.Binding(ref.Extension)
	if !ok {
		return model.Resolved{}, &diag.UnknownExtensionError{
			Extension: ref.Extension,
			Key:       key,
			Requester: w.requester,
			Pos:       from,
		}
	}

	var res model.Resolved
	if entry, ok := w.store.GetFor(w.scope, key); ok {
		if target, isRef := entry.Value.Reference(); isRef {
			w.addEdge(Edge{Scope: w.scope, From: key, To: target.Key()})
			inner, err := w.resolve(target, entry.Pos)
			if err != nil {
				return model.Resolved{}, err
			}
			res = model.Resolved{
				Value:      inner.Value,
				Provenance: inner.Provenance.ThroughReference(),
				Layer:      inner.Layer,
				Chain:      append([]string{key}, inner.Chain...),
			}
		} else {
			if !model.IsPrimitive(entry.Value.Scalar()) {
				return model.Resolved{}, &diag.UnresolvedPropertyError{Key: key, Requester: w.requester, Pos: entry.Pos}
			}
			prov := model.ProvenanceExplicit
			if entry.Layer == model.LayerPluginDefault {
				prov = model.ProvenanceDefaulted
			}
			res = model.Resolved{Value: entry.Value.Scalar(), Provenance: prov, Layer: entry.Layer, Chain: []string{key}}
		}
	} else if fn, ok := binding.Defaults[ref.Field]; ok {
		v, ok := fn(w.env)
		if !ok || !model.IsPrimitive(v) {
			return model.Resolved{}, &diag.UnresolvedPropertyError{Key: key, Requester: w.requester, Pos: from}
		}
		res = model.Resolved{Value: v, Provenance: model.ProvenanceDerived, Layer: model.LayerPluginDefault, Chain: []string{key}}
	} else {
		return model.Resolved{}, &diag.UnresolvedPropertyError{Key: key, Requester: w.requester, Pos: from}
	}

	w.memo[memoKey{w.scope, key}] = res
	return res, nil
}
