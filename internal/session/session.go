package session

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/deps"
	"github.com/specialistvlad/buildplan/internal/diag"
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/plugins"
	"github.com/specialistvlad/buildplan/internal/propstore"
	"github.com/specialistvlad/buildplan/internal/registry"
	"github.com/specialistvlad/buildplan/internal/resolver"
	"github.com/specialistvlad/buildplan/internal/variant"
)

// Catalog is where a session looks up the definitions of applied plugins.
type Catalog interface {
	Get(id string) (*plugins.Definition, bool)
}

// Options configure a session.
type Options struct {
	// Module names the session in logs, diagnostics and the plan.
	Module string
	// Env feeds plugin default functions, e.g. the framework manifest.
	Env model.Env
	// RequireSignedRelease rejects non-debuggable variants without a
	// signing config instead of warning about them.
	RequireSignedRelease bool
}

// Session owns the Property Store, Extension Registry, build types, signing
// configs and dependency set of one resolution.
type Session struct {
	opts    Options
	catalog Catalog

	store    *propstore.Store
	registry *registry.Registry
	variants *variant.Configurator
	signing  *variant.SigningRegistry
	deps     *deps.Declarator

	state State
	err   error
	plan  *model.BuildPlan
	diags diag.Diagnostics
}

// New creates a session in the Declaring state.
func New(catalog Catalog, opts Options) *Session {
	store := propstore.New()
	if opts.Module == "" {
		opts.Module = "app"
	}
	return &Session{
		opts:     opts,
		catalog:  catalog,
		store:    store,
		registry: registry.New(store),
		variants: variant.New(store),
		signing:  variant.NewSigningRegistry(),
		deps:     deps.New(),
		state:    StateDeclaring,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Err returns the terminal error of a Failed session.
func (s *Session) Err() error { return s.err }

// Module returns the module name.
func (s *Session) Module() string { return s.opts.Module }

// Diagnostics returns every diagnostic collected so far, in detection order.
func (s *Session) Diagnostics() diag.Diagnostics {
	return append(diag.Diagnostics(nil), s.diags...)
}

func (s *Session) withModule(ctx context.Context) context.Context {
	return ctxlog.With(ctx, "module", s.opts.Module)
}

func (s *Session) declaring(what string) error {
	if s.state != StateDeclaring {
		return fmt.Errorf("%s in state %s: %w", what, s.state, diag.ErrSessionClosed)
	}
	return nil
}

// fail moves the session to Failed with err as its terminal error.
func (s *Session) fail(ctx context.Context, err error) error {
	s.state = StateFailed
	s.err = err
	s.diags = append(s.diags, diag.FromError(err))
	ctxlog.FromContext(ctx).Debug("Session failed.", "error", err)
	return err
}

func (s *Session) warn(ctx context.Context, d diag.Diagnostic) {
	s.diags = append(s.diags, d)
	ctxlog.FromContext(ctx).Warn(d.Summary, "kind", d.Kind, "key", d.Key, "position", d.Pos.String())
}

// Apply applies statements in order, stopping at the first error.
func (s *Session) Apply(ctx context.Context, stmts ...model.Statement) error {
	for _, st := range stmts {
		var err error
		switch st := st.(type) {
		case model.ApplyPlugin:
			err = s.ApplyPlugin(ctx, st.PluginID, st.Pos)
		case model.SetProperty:
			err = s.SetProperty(ctx, st.Key, st.Value, st.Pos)
		case model.DeclareSigningConfig:
			err = s.DeclareSigningConfig(ctx, st.Extension, st.Name, st.Credentials, st.Pos)
		case model.DeclareVariant:
			err = s.DeclareVariant(ctx, st.Extension, st.Name, st.Config, st.Pos)
		case model.DeclareDependency:
			err = s.DeclareDependency(ctx, st.Coordinate, st.Pos)
		default:
			err = fmt.Errorf("unsupported statement type %T", st)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ApplyPlugin applies a plugin. A plugin the catalog does not know is still
// recorded, contributes nothing, and produces an UnknownPlugin warning.
func (s *Session) ApplyPlugin(ctx context.Context, pluginID string, pos model.Pos) error {
	if err := s.declaring("applying plugin " + pluginID); err != nil {
		return err
	}
	ctx = s.withModule(ctx)

	def, known := s.catalog.Get(pluginID)
	if !known {
		def = nil
	}
	if _, err := s.registry.ApplyPlugin(ctx, pluginID, def, pos); err != nil {
		return s.fail(ctx, err)
	}
	if !known {
		s.warn(ctx, diag.Diagnostic{
			Severity: diag.SeverityWarning,
			Kind:     diag.KindUnknownPlugin,
			Key:      pluginID,
			Pos:      pos,
			Summary:  fmt.Sprintf("plugin %q is not in the catalog; it contributes no extension", pluginID),
		})
		return nil
	}

	for _, sc := range def.SigningConfigs {
		s.signing.Declare(ctx, sc, pos)
	}
	for _, bt := range def.BuildTypes {
		cfg := model.VariantConfig{SigningConfigRef: bt.SigningConfigRef}
		if bt.Debuggable {
			cfg.Debuggable = &bt.Debuggable
		}
		if bt.MinifyEnabled {
			cfg.MinifyEnabled = &bt.MinifyEnabled
		}
		if _, err := s.variants.DeclareVariant(ctx, bt.Name, cfg, pluginID, pos); err != nil {
			return s.fail(ctx, err)
		}
	}
	return nil
}

// SetProperty writes a project-level value. The key's extension, and the
// extension of a referenced key, must already be registered.
func (s *Session) SetProperty(ctx context.Context, key string, value model.Value, pos model.Pos) error {
	if err := s.declaring("setting " + key); err != nil {
		return err
	}
	ctx = s.withModule(ctx)

	if err := s.checkValue(key, value, s.opts.Module, pos); err != nil {
		return s.fail(ctx, err)
	}
	prev, shadowed := s.store.Set(model.PropertyEntry{
		Key:    key,
		Value:  value,
		Layer:  model.LayerProject,
		Source: s.opts.Module,
		Pos:    pos,
	})
	if shadowed {
		ctxlog.FromContext(ctx).Debug("Property reassigned.", "key", key, "previous", prev.Value.String(), "value", value.String())
	} else {
		ctxlog.FromContext(ctx).Debug("Property set.", "key", key, "value", value.String())
	}
	return nil
}

func (s *Session) checkValue(key string, value model.Value, requester string, pos model.Pos) error {
	if !value.IsSet() {
		return &diag.InvalidConfigurationError{Invariant: "value-set", Key: key, Detail: "a property must be set to a scalar or a reference", Pos: pos}
	}
	if err := s.registry.RequireExtension(key, requester, pos); err != nil {
		return err
	}
	if ref, ok := value.Reference(); ok {
		if err := s.registry.RequireExtension(ref.Key(), key, pos); err != nil {
			return err
		}
	}
	return nil
}

// DeclareSigningConfig registers a named signing config declared inside the
// block of extension ext, which must already be registered.
func (s *Session) DeclareSigningConfig(ctx context.Context, ext, name string, creds model.Credentials, pos model.Pos) error {
	if err := s.declaring("declaring signing config " + name); err != nil {
		return err
	}
	ctx = s.withModule(ctx)
	if err := s.requireContainer(ext, model.ContainerSigningConfigs, name, pos); err != nil {
		return s.fail(ctx, err)
	}
	if name == "" {
		return s.fail(ctx, &diag.InvalidConfigurationError{Invariant: "signing-config-name", Detail: "signing config must have a name", Pos: pos})
	}
	s.signing.Declare(ctx, model.SigningConfig{Name: name, Credentials: creds}, pos)
	return nil
}

// DeclareVariant records a build-type block declared inside the block of
// extension ext, which must already be registered.
func (s *Session) DeclareVariant(ctx context.Context, ext, name string, cfg model.VariantConfig, pos model.Pos) error {
	if err := s.declaring("declaring build type " + name); err != nil {
		return err
	}
	ctx = s.withModule(ctx)
	if err := s.requireContainer(ext, model.ContainerBuildTypes, name, pos); err != nil {
		return s.fail(ctx, err)
	}
	for _, key := range sortedKeys(cfg.Overrides) {
		if err := s.checkValue(key, cfg.Overrides[key], name, pos); err != nil {
			return s.fail(ctx, err)
		}
	}
	if _, err := s.variants.DeclareVariant(ctx, name, cfg, s.opts.Module, pos); err != nil {
		return s.fail(ctx, err)
	}
	return nil
}

func (s *Session) requireContainer(ext, container, entry string, pos model.Pos) error {
	if ext == "" {
		return &diag.InvalidConfigurationError{
			Invariant: "owning-extension",
			Key:       container,
			Detail:    fmt.Sprintf("%s %q is not declared inside an extension block", container, entry),
			Pos:       pos,
		}
	}
	key := model.PropertyRef{Extension: ext, Field: container}.Key()
	return s.registry.RequireExtension(key, entry, pos)
}

func sortedKeys(m map[string]model.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DeclareDependency adds a dependency. A version conflict is a warning.
func (s *Session) DeclareDependency(ctx context.Context, coord model.DependencyCoordinate, pos model.Pos) error {
	if err := s.declaring("declaring dependency " + coord.String()); err != nil {
		return err
	}
	ctx = s.withModule(ctx)
	conflict, err := s.deps.Declare(ctx, coord, pos)
	if err != nil {
		return s.fail(ctx, err)
	}
	if conflict != nil {
		s.warn(ctx, conflict.Diagnostic())
	}
	return nil
}

// Resolve resolves one key against the current declarations without
// changing the session's state. It is meant for inspection and tooling.
func (s *Session) Resolve(ctx context.Context, key string) (model.Resolved, error) {
	r := resolver.New(s.registry, s.store, s.opts.Env)
	return r.ResolveKey(s.withModule(ctx), key, s.opts.Module)
}

// Layers returns every global layer that set key, lowest first.
func (s *Session) Layers(key string) []model.PropertyEntry {
	return s.store.Layers(key)
}
