package model

import "fmt"

// Scope is the Gradle configuration a dependency is declared in.
type Scope string

const (
	ScopeImplementation        Scope = "implementation"
	ScopeAPI                   Scope = "api"
	ScopeCompileOnly           Scope = "compileOnly"
	ScopeRuntimeOnly           Scope = "runtimeOnly"
	ScopeTestImplementation    Scope = "testImplementation"
	ScopeCoreLibraryDesugaring Scope = "coreLibraryDesugaring"
)

var knownScopes = map[Scope]struct{}{
	ScopeImplementation:        {},
	ScopeAPI:                   {},
	ScopeCompileOnly:           {},
	ScopeRuntimeOnly:           {},
	ScopeTestImplementation:    {},
	ScopeCoreLibraryDesugaring: {},
}

// Valid reports whether s is one of the supported configurations.
func (s Scope) Valid() bool {
	_, ok := knownScopes[s]
	return ok
}

// DependencyCoordinate identifies an external dependency.
type DependencyCoordinate struct {
	Group    string
	Artifact string
	Version  string
	Scope    Scope
}

// DependencyKey is the set key of a coordinate; the version is not part of it.
type DependencyKey struct {
	Group    string
	Artifact string
	Scope    Scope
}

func (k DependencyKey) String() string {
	return fmt.Sprintf("%s(%s:%s)", k.Scope, k.Group, k.Artifact)
}

// Key returns the set key of the coordinate.
func (c DependencyCoordinate) Key() DependencyKey {
	return DependencyKey{Group: c.Group, Artifact: c.Artifact, Scope: c.Scope}
}

// Notation renders the Gradle string notation `group:artifact:version`.
func (c DependencyCoordinate) Notation() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

func (c DependencyCoordinate) String() string {
	return fmt.Sprintf("%s(%q)", c.Scope, c.Notation())
}
