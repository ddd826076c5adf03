// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the BuildPlan, the immutable output of a resolution
// session.
//
// Why unexported fields?
//
// A plan is handed to an execution engine that may keep it around for the whole
// build. If any stage could write into it after assembly, the plan would stop
// being a faithful record of what was resolved. All fields are therefore
// private, NewBuildPlan deep-copies its input, and every accessor returns a
// copy. There is no setter, so a mutation attempt does not compile.
package model

import "sort"

// TargetConfig is the resolved SDK and identity configuration of the app.
type TargetConfig struct {
	Namespace     string
	ApplicationID string
	CompileSdk    int64
	MinSdk        int64
	TargetSdk     int64
	NdkVersion    string
	VersionCode   int64
	VersionName   string
}

// PlanContents is the mutable form a plan is assembled from.
type PlanContents struct {
	Module          string
	Plugins         []string
	Properties      map[string]Resolved
	Target          TargetConfig
	CompileOptions  CompileOptions
	Variants        []Variant
	Dependencies    []DependencyCoordinate
	ResolutionOrder []string
}

// BuildPlan is the frozen, fully-resolved description of a build.
type BuildPlan struct {
	c PlanContents
}

// NewBuildPlan freezes a deep copy of c.
func NewBuildPlan(c PlanContents) *BuildPlan {
	return &BuildPlan{c: c.clone()}
}

func (c PlanContents) clone() PlanContents {
	out := c
	out.Plugins = append([]string(nil), c.Plugins...)
	out.Properties = make(map[string]Resolved, len(c.Properties))
	for k, r := range c.Properties {
		out.Properties[k] = r.Clone()
	}
	out.Variants = make([]Variant, len(c.Variants))
	for i, v := range c.Variants {
		out.Variants[i] = v.Clone()
	}
	out.Dependencies = append([]DependencyCoordinate(nil), c.Dependencies...)
	out.ResolutionOrder = append([]string(nil), c.ResolutionOrder...)
	return out
}

// Contents returns a deep copy of everything in the plan.
func (p *BuildPlan) Contents() PlanContents { return p.c.clone() }

func (p *BuildPlan) Module() string                 { return p.c.Module }
func (p *BuildPlan) Plugins() []string              { return append([]string(nil), p.c.Plugins...) }
func (p *BuildPlan) Target() TargetConfig           { return p.c.Target }
func (p *BuildPlan) CompileOptions() CompileOptions { return p.c.CompileOptions }

// Property returns one resolved project-level property.
func (p *BuildPlan) Property(key string) (Resolved, bool) {
	r, ok := p.c.Properties[key]
	if !ok {
		return Resolved{}, false
	}
	return r.Clone(), true
}

// PropertyKeys returns every resolved project-level key, sorted.
func (p *BuildPlan) PropertyKeys() []string {
	keys := make([]string, 0, len(p.c.Properties))
	for k := range p.c.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Variants returns the finalized variants in declaration order.
func (p *BuildPlan) Variants() []Variant {
	out := make([]Variant, len(p.c.Variants))
	for i, v := range p.c.Variants {
		out[i] = v.Clone()
	}
	return out
}

// Variant looks a variant up by name.
func (p *BuildPlan) Variant(name string) (Variant, bool) {
	for _, v := range p.c.Variants {
		if v.Name == name {
			return v.Clone(), true
		}
	}
	return Variant{}, false
}

// Dependencies returns the frozen dependency set in declaration order.
func (p *BuildPlan) Dependencies() []DependencyCoordinate {
	return append([]DependencyCoordinate(nil), p.c.Dependencies...)
}

// ResolutionOrder lists resolved keys so that every key comes after the keys
// it references.
func (p *BuildPlan) ResolutionOrder() []string {
	return append([]string(nil), p.c.ResolutionOrder...)
}
