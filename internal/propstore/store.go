// Package propstore holds the raw, layered key/value configuration of one
// resolution session.
//
// Entries are keyed by dotted property keys. Each key may be set once per
// layer; a later write to the same layer replaces the earlier one, and a
// higher layer shadows every lower one. Per-variant overrides live in their
// own scope and only shadow the global layers when read through GetFor.
package propstore

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/buildplan/internal/model"
)

// Store is the layered property store. It is not safe for concurrent use; a
// store belongs to exactly one session.
type Store struct {
	global map[string]map[model.LayerID]model.PropertyEntry
	scoped map[string]map[string]model.PropertyEntry
	order  []string
	scopes []string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		global: make(map[string]map[model.LayerID]model.PropertyEntry),
		scoped: make(map[string]map[string]model.PropertyEntry),
	}
}

// Set inserts e, shadowing whatever was stored under the same key in the same
// layer and scope. It returns the replaced entry, if any.
func (s *Store) Set(e model.PropertyEntry) (model.PropertyEntry, bool) {
	if e.Layer == model.LayerVariant {
		if e.Scope == "" {
			panic(fmt.Sprintf("propstore: variant-layer entry %q without a scope", e.Key))
		}
		byKey, ok := s.scoped[e.Scope]
		if !ok {
			byKey = make(map[string]model.PropertyEntry)
			s.scoped[e.Scope] = byKey
			s.scopes = append(s.scopes, e.Scope)
		}
		prev, had := byKey[e.Key]
		byKey[e.Key] = e
		return prev, had
	}

	e.Scope = ""
	layers, ok := s.global[e.Key]
	if !ok {
		layers = make(map[model.LayerID]model.PropertyEntry)
		s.global[e.Key] = layers
		s.order = append(s.order, e.Key)
	}
	prev, had := layers[e.Layer]
	layers[e.Layer] = e
	return prev, had
}

// Get returns the winning global entry for key.
func (s *Store) Get(key string) (model.PropertyEntry, bool) {
	layers, ok := s.global[key]
	if !ok {
		return model.PropertyEntry{}, false
	}
	for _, layer := range []model.LayerID{model.LayerProject, model.LayerPluginDefault} {
		if e, ok := layers[layer]; ok {
			return e, true
		}
	}
	return model.PropertyEntry{}, false
}

// GetFor returns the winning entry for key as seen from a variant scope. An
// empty scope is the same as Get.
func (s *Store) GetFor(scope, key string) (model.PropertyEntry, bool) {
	if scope != "" {
		if e, ok := s.scoped[scope][key]; ok {
			return e, true
		}
	}
	return s.Get(key)
}

// Has reports whether any global layer or any scope sets key.
func (s *Store) Has(key string) bool {
	if _, ok := s.global[key]; ok {
		return true
	}
	for _, byKey := range s.scoped {
		if _, ok := byKey[key]; ok {
			return true
		}
	}
	return false
}

// Keys returns the global keys in the order they were first set.
func (s *Store) Keys() []string {
	return append([]string(nil), s.order...)
}

// Scopes returns every variant scope that holds overrides, in first-write
// order.
func (s *Store) Scopes() []string {
	return append([]string(nil), s.scopes...)
}

// ScopedKeys returns the keys overridden in scope, sorted.
func (s *Store) ScopedKeys(scope string) []string {
	byKey := s.scoped[scope]
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Layers returns every global entry stored for key, lowest layer first. It
// exists for diagnostics: it shows what a winning value shadowed.
func (s *Store) Layers(key string) []model.PropertyEntry {
	layers := s.global[key]
	out := make([]model.PropertyEntry, 0, len(layers))
	for _, e := range layers {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Layer < out[j].Layer })
	return out
}

// Len returns the number of distinct keys across all layers and scopes.
func (s *Store) Len() int {
	seen := make(map[string]struct{}, len(s.global))
	for k := range s.global {
		seen[k] = struct{}{}
	}
	for _, byKey := range s.scoped {
		for k := range byKey {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}
