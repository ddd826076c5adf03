package model

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Env holds facts about the surroundings of a build (framework manifest
// values, CI variables) that default functions may derive values from.
type Env map[string]cty.Value

// Lookup returns the value stored under key.
func (e Env) Lookup(key string) (cty.Value, bool) {
	v, ok := e[key]
	return v, ok
}

// DefaultFunc derives a value for an extension field that nothing set
// explicitly. It returns false when it cannot produce one.
type DefaultFunc func(env Env) (cty.Value, bool)

// ExtensionBinding is the extension object a plugin materializes when it is
// applied. It is immutable after the declaration phase closes.
type ExtensionBinding struct {
	PluginID      string
	ExtensionName string
	Fields        map[string]Value
	Defaults      map[string]DefaultFunc
}

// FieldNames returns every field with either a value or a default function,
// sorted.
func (b *ExtensionBinding) FieldNames() []string {
	seen := make(map[string]struct{}, len(b.Fields)+len(b.Defaults))
	for name := range b.Fields {
		seen[name] = struct{}{}
	}
	for name := range b.Defaults {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ref returns a reference to one of the binding's fields.
func (b *ExtensionBinding) Ref(field string) PropertyRef {
	return PropertyRef{Extension: b.ExtensionName, Field: field}
}
