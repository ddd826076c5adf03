package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/diag"
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/plugins"
	"github.com/specialistvlad/buildplan/internal/propstore"
)

// Registry tracks the applied plugins and their extension bindings.
type Registry struct {
	store     *propstore.Store
	applied   []string
	appliedAt map[string]model.Pos
	bindings  map[string]*model.ExtensionBinding
	closed    bool
}

// New creates a registry that seeds plugin defaults into store.
func New(store *propstore.Store) *Registry {
	return &Registry{
		store:     store,
		appliedAt: make(map[string]model.Pos),
		bindings:  make(map[string]*model.ExtensionBinding),
	}
}

// ApplyPlugin registers pluginID. def describes what the plugin contributes
// and may be nil for a plugin the catalog does not know, in which case the
// plugin is recorded but contributes nothing. The returned binding is nil
// when the plugin has no extension.
func (r *Registry) ApplyPlugin(ctx context.Context, pluginID string, def *plugins.Definition, pos model.Pos) (*model.ExtensionBinding, error) {
	logger := ctxlog.FromContext(ctx)

	if r.closed {
		return nil, fmt.Errorf("applying plugin %q: %w", pluginID, diag.ErrDeclarationClosed)
	}
	if first, ok := r.appliedAt[pluginID]; ok {
		return nil, &diag.DuplicatePluginError{PluginID: pluginID, First: first, Pos: pos}
	}

	var binding *model.ExtensionBinding
	if def != nil {
		binding = def.Binding()
	}
	if binding != nil {
		if other, taken := r.bindings[binding.ExtensionName]; taken {
			return nil, &diag.InvalidConfigurationError{
				Invariant: "unique-extension-name",
				Key:       binding.ExtensionName,
				Detail:    fmt.Sprintf("plugins %q and %q both contribute extension %q", other.PluginID, pluginID, binding.ExtensionName),
				Pos:       pos,
			}
		}
	}

	r.applied = append(r.applied, pluginID)
	r.appliedAt[pluginID] = pos
	if def == nil {
		logger.Debug("Applied plugin without definition.", "plugin", pluginID)
		return nil, nil
	}

	if binding != nil {
		r.bindings[binding.ExtensionName] = binding
		for _, name := range binding.FieldNames() {
			v, ok := binding.Fields[name]
			if !ok {
				continue
			}
			r.store.Set(model.PropertyEntry{
				Key:    binding.Ref(name).Key(),
				Value:  v,
				Layer:  model.LayerPluginDefault,
				Source: pluginID,
				Pos:    pos,
			})
		}
	}
	for _, p := range def.Properties {
		r.store.Set(model.PropertyEntry{
			Key:    p.Key,
			Value:  p.Value,
			Layer:  model.LayerPluginDefault,
			Source: pluginID,
			Pos:    pos,
		})
	}

	if binding != nil {
		logger.Debug("Applied plugin.", "plugin", pluginID, "extension", binding.ExtensionName, "fields", len(binding.FieldNames()))
	} else {
		logger.Debug("Applied plugin.", "plugin", pluginID)
	}
	return binding, nil
}

// Binding returns the binding of an extension.
func (r *Registry) Binding(extension string) (*model.ExtensionBinding, bool) {
	b, ok := r.bindings[extension]
	return b, ok
}

// Lookup returns a reference to extension.field, failing when no applied
// plugin contributed the extension.
func (r *Registry) Lookup(extension, field string) (model.PropertyRef, error) {
	b, ok := r.bindings[extension]
	if !ok {
		ref := model.PropertyRef{Extension: extension, Field: field}
		return model.PropertyRef{}, &diag.UnknownExtensionError{Extension: extension, Key: ref.Key()}
	}
	return b.Ref(field), nil
}

// RequireExtension checks that the extension owning key is registered. It is
// used when a block writes to or references an extension.
func (r *Registry) RequireExtension(key, requester string, pos model.Pos) error {
	ref, err := model.RefForKey(key)
	if err != nil {
		return &diag.InvalidConfigurationError{Invariant: "property-key-format", Key: key, Detail: err.Error(), Pos: pos}
	}
	if _, ok := r.bindings[ref.Extension]; !ok {
		return &diag.UnknownExtensionError{Extension: ref.Extension, Key: key, Requester: requester, Pos: pos}
	}
	return nil
}

// Applied returns the applied plugin ids in application order.
func (r *Registry) Applied() []string {
	return append([]string(nil), r.applied...)
}

// IsApplied reports whether pluginID was applied.
func (r *Registry) IsApplied(pluginID string) bool {
	_, ok := r.appliedAt[pluginID]
	return ok
}

// Extensions returns the registered extension names in application order.
func (r *Registry) Extensions() []string {
	var names []string
	for _, id := range r.applied {
		for name, b := range r.bindings {
			if b.PluginID == id {
				names = append(names, name)
			}
		}
	}
	return names
}

// FieldCount is the number of distinct extension fields known to the
// session: every key in the store plus every field only a default function
// can supply. No acyclic reference chain can be longer than this.
func (r *Registry) FieldCount() int {
	n := r.store.Len()
	for _, b := range r.bindings {
		for name := range b.Defaults {
			if !r.store.Has(b.Ref(name).Key()) {
				n++
			}
		}
	}
	return n
}

// Close ends the declaration phase. Bindings are read-only afterwards.
func (r *Registry) Close() {
	r.closed = true
}

// Closed reports whether Close was called.
func (r *Registry) Closed() bool {
	return r.closed
}
