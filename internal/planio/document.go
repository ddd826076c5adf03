// Package planio renders build plans for hand-off to an execution engine.
//
// A plan is first flattened into a Document, a plain tree with stable field
// names and deterministic ordering, and then encoded as JSON, YAML or
// msgpack. Signing credentials are reduced to their key names.
package planio

import (
	"sort"

	"github.com/specialistvlad/buildplan/internal/model"
)

// Document is the serializable form of a BuildPlan.
type Document struct {
	Module          string         `json:"module" yaml:"module" msgpack:"module"`
	Plugins         []string       `json:"plugins" yaml:"plugins" msgpack:"plugins"`
	Target          Target         `json:"target" yaml:"target" msgpack:"target"`
	CompileOptions  CompileOptions `json:"compileOptions" yaml:"compileOptions" msgpack:"compileOptions"`
	Properties      []Property     `json:"properties" yaml:"properties" msgpack:"properties"`
	Variants        []Variant      `json:"variants" yaml:"variants" msgpack:"variants"`
	Dependencies    []Dependency   `json:"dependencies" yaml:"dependencies" msgpack:"dependencies"`
	ResolutionOrder []string       `json:"resolutionOrder" yaml:"resolutionOrder" msgpack:"resolutionOrder"`
}

type Target struct {
	Namespace     string `json:"namespace" yaml:"namespace" msgpack:"namespace"`
	ApplicationID string `json:"applicationId" yaml:"applicationId" msgpack:"applicationId"`
	CompileSdk    int64  `json:"compileSdk" yaml:"compileSdk" msgpack:"compileSdk"`
	MinSdk        int64  `json:"minSdk" yaml:"minSdk" msgpack:"minSdk"`
	TargetSdk     int64  `json:"targetSdk" yaml:"targetSdk" msgpack:"targetSdk"`
	NdkVersion    string `json:"ndkVersion,omitempty" yaml:"ndkVersion,omitempty" msgpack:"ndkVersion,omitempty"`
	VersionCode   int64  `json:"versionCode" yaml:"versionCode" msgpack:"versionCode"`
	VersionName   string `json:"versionName" yaml:"versionName" msgpack:"versionName"`
}

type CompileOptions struct {
	SourceCompatibility          string `json:"sourceCompatibility" yaml:"sourceCompatibility" msgpack:"sourceCompatibility"`
	TargetCompatibility          string `json:"targetCompatibility" yaml:"targetCompatibility" msgpack:"targetCompatibility"`
	CoreLibraryDesugaringEnabled bool   `json:"coreLibraryDesugaringEnabled" yaml:"coreLibraryDesugaringEnabled" msgpack:"coreLibraryDesugaringEnabled"`
	JvmTarget                    string `json:"jvmTarget,omitempty" yaml:"jvmTarget,omitempty" msgpack:"jvmTarget,omitempty"`
}

// Property is one resolved key with the provenance needed to explain it.
type Property struct {
	Key        string   `json:"key" yaml:"key" msgpack:"key"`
	Value      any      `json:"value" yaml:"value" msgpack:"value"`
	Provenance string   `json:"provenance" yaml:"provenance" msgpack:"provenance"`
	Layer      string   `json:"layer" yaml:"layer" msgpack:"layer"`
	Chain      []string `json:"chain,omitempty" yaml:"chain,omitempty" msgpack:"chain,omitempty"`
}

type Variant struct {
	Name           string         `json:"name" yaml:"name" msgpack:"name"`
	Debuggable     bool           `json:"debuggable" yaml:"debuggable" msgpack:"debuggable"`
	MinifyEnabled  bool           `json:"minifyEnabled" yaml:"minifyEnabled" msgpack:"minifyEnabled"`
	SigningConfig  *SigningConfig `json:"signingConfig" yaml:"signingConfig" msgpack:"signingConfig"`
	CompileOptions CompileOptions `json:"compileOptions" yaml:"compileOptions" msgpack:"compileOptions"`
	Properties     []Property     `json:"properties" yaml:"properties" msgpack:"properties"`
}

// SigningConfig lists credential names only; values never leave the plan.
type SigningConfig struct {
	Name        string   `json:"name" yaml:"name" msgpack:"name"`
	Credentials []string `json:"credentials" yaml:"credentials" msgpack:"credentials"`
}

type Dependency struct {
	Scope    string `json:"scope" yaml:"scope" msgpack:"scope"`
	Group    string `json:"group" yaml:"group" msgpack:"group"`
	Artifact string `json:"artifact" yaml:"artifact" msgpack:"artifact"`
	Version  string `json:"version" yaml:"version" msgpack:"version"`
}

// FromPlan flattens a plan. Property lists are sorted by key; variants and
// dependencies keep plan order.
func FromPlan(p *model.BuildPlan) Document {
	c := p.Contents()
	doc := Document{
		Module:          c.Module,
		Plugins:         c.Plugins,
		Target:          Target(c.Target),
		CompileOptions:  CompileOptions(c.CompileOptions),
		Properties:      properties(c.Properties),
		ResolutionOrder: c.ResolutionOrder,
	}
	for _, v := range c.Variants {
		doc.Variants = append(doc.Variants, variant(v))
	}
	for _, d := range c.Dependencies {
		doc.Dependencies = append(doc.Dependencies, Dependency{
			Scope:    string(d.Scope),
			Group:    d.Group,
			Artifact: d.Artifact,
			Version:  d.Version,
		})
	}
	return doc
}

func variant(v model.Variant) Variant {
	out := Variant{
		Name:           v.Name,
		Debuggable:     v.Debuggable,
		MinifyEnabled:  v.MinifyEnabled,
		CompileOptions: CompileOptions(v.CompileOptions),
		Properties:     properties(v.Properties),
	}
	if v.SigningConfig != nil {
		out.SigningConfig = &SigningConfig{
			Name:        v.SigningConfig.Name,
			Credentials: v.SigningConfig.Credentials.Keys(),
		}
	}
	return out
}

func properties(props map[string]model.Resolved) []Property {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Property, 0, len(keys))
	for _, k := range keys {
		r := props[k]
		out = append(out, Property{
			Key:        k,
			Value:      model.GoValue(r.Value),
			Provenance: string(r.Provenance),
			Layer:      r.Layer.String(),
			Chain:      r.Chain,
		})
	}
	return out
}
