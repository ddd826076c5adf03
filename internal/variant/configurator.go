package variant

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/diag"
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/propstore"
)

// Configurator collects build-type drafts. Per-variant overrides are written
// to the property store at the variant layer, scoped by the variant name.
type Configurator struct {
	store  *propstore.Store
	drafts map[string]*model.VariantDraft
	order  []string
}

// New creates a configurator writing overrides into store.
func New(store *propstore.Store) *Configurator {
	return &Configurator{
		store:  store,
		drafts: make(map[string]*model.VariantDraft),
	}
}

// DeclareVariant records a build-type block. A second block for the same
// name is merged into the existing draft: set fields replace earlier ones
// and overrides accumulate.
func (c *Configurator) DeclareVariant(ctx context.Context, name string, cfg model.VariantConfig, source string, pos model.Pos) (*model.VariantDraft, error) {
	if name == "" {
		return nil, &diag.InvalidConfigurationError{Invariant: "variant-name", Detail: "build type must have a name", Pos: pos}
	}
	d, ok := c.drafts[name]
	if !ok {
		d = &model.VariantDraft{Name: name, Overrides: make(map[string]model.Value), Pos: pos}
		c.drafts[name] = d
		c.order = append(c.order, name)
	}
	switch {
	case cfg.ClearSigningConfig:
		d.SigningConfigRef = nil
	case cfg.SigningConfigRef != nil:
		ref := *cfg.SigningConfigRef
		d.SigningConfigRef = &ref
	}
	if cfg.Debuggable != nil {
		v := *cfg.Debuggable
		d.Debuggable = &v
	}
	if cfg.MinifyEnabled != nil {
		v := *cfg.MinifyEnabled
		d.MinifyEnabled = &v
	}

	keys := make([]string, 0, len(cfg.Overrides))
	for k := range cfg.Overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		v := cfg.Overrides[key]
		d.Overrides[key] = v
		c.store.Set(model.PropertyEntry{
			Key:    key,
			Value:  v,
			Layer:  model.LayerVariant,
			Scope:  name,
			Source: source,
			Pos:    pos,
		})
	}

	ctxlog.FromContext(ctx).Debug("Declared build type.", "name", name, "overrides", len(keys), "merged", ok)
	return cloneDraft(d), nil
}

// Drafts returns copies of the drafts in first-declaration order.
func (c *Configurator) Drafts() []model.VariantDraft {
	out := make([]model.VariantDraft, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, *cloneDraft(c.drafts[name]))
	}
	return out
}

func cloneDraft(d *model.VariantDraft) *model.VariantDraft {
	out := *d
	if d.SigningConfigRef != nil {
		ref := *d.SigningConfigRef
		out.SigningConfigRef = &ref
	}
	if d.Debuggable != nil {
		v := *d.Debuggable
		out.Debuggable = &v
	}
	if d.MinifyEnabled != nil {
		v := *d.MinifyEnabled
		out.MinifyEnabled = &v
	}
	out.Overrides = make(map[string]model.Value, len(d.Overrides))
	for k, v := range d.Overrides {
		out.Overrides[k] = v
	}
	return &out
}

// ValueResolver resolves a key as seen from a variant scope.
type ValueResolver interface {
	ResolveKeyIn(ctx context.Context, scope, key, requester string) (model.Resolved, error)
}

// KeySource lists the keys a variant reports.
type KeySource interface {
	Keys() []string
	ScopedKeys(scope string) []string
}

// Finalize resolves the variant-scoped properties of every draft, then binds
// their signing configs. Properties of all drafts are resolved before any
// signing config is looked up, so an unresolvable property is reported ahead
// of an unknown signing config. The first failure aborts finalization.
func Finalize(ctx context.Context, drafts []model.VariantDraft, signing *SigningRegistry, values ValueResolver, keys KeySource) ([]model.Variant, error) {
	logger := ctxlog.FromContext(ctx)
	out := make([]model.Variant, 0, len(drafts))

	for _, d := range drafts {
		v := model.Variant{
			Name:       d.Name,
			Properties: make(map[string]model.Resolved),
		}
		if d.Debuggable != nil {
			v.Debuggable = *d.Debuggable
		}
		if d.MinifyEnabled != nil {
			v.MinifyEnabled = *d.MinifyEnabled
		}
		for _, key := range variantKeys(keys, d.Name) {
			r, err := values.ResolveKeyIn(ctx, d.Name, key, d.Name)
			if err != nil {
				return nil, fmt.Errorf("finalizing build type %q: %w", d.Name, err)
			}
			v.Properties[key] = r
		}
		v.CompileOptions = model.CompileOptionsOf(v.Properties)
		out = append(out, v)
	}

	for i, d := range drafts {
		v := &out[i]
		if d.SigningConfigRef != nil {
			name := *d.SigningConfigRef
			sc, ok := signing.Get(name)
			if !ok {
				return nil, &diag.UnknownSigningConfigError{Name: name, Variant: d.Name, Pos: d.Pos}
			}
			v.SigningConfigRef = &name
			v.SigningConfig = &sc
		}

		signed := "<none>"
		if v.SigningConfigRef != nil {
			signed = *v.SigningConfigRef
		}
		logger.Debug("Finalized variant.", "name", v.Name, "signingConfig", signed, "properties", len(v.Properties))
	}
	return out, nil
}

// variantKeys is every global key a variant reports plus the keys the
// variant overrides, sorted and de-duplicated.
func variantKeys(keys KeySource, scope string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(k string) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	for _, k := range keys.Keys() {
		if model.IsVariantScoped(k) || isCompileOption(k) {
			add(k)
		}
	}
	for _, k := range keys.ScopedKeys(scope) {
		add(k)
	}
	sort.Strings(out)
	return out
}

func isCompileOption(key string) bool {
	switch key {
	case model.KeySourceCompatibility, model.KeyTargetCompatibility, model.KeyCoreLibraryDesugaring, model.KeyJvmTarget:
		return true
	}
	return false
}
