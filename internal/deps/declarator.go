// Package deps accumulates the external dependencies of a session.
//
// The set is keyed by (group, artifact, scope). Redeclaring a coordinate
// with the same version changes nothing; redeclaring it with another version
// keeps the newer declaration and reports a VersionConflict, since build
// scripts commonly override a default on purpose.
package deps

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/diag"
	"github.com/specialistvlad/buildplan/internal/model"
)

type entry struct {
	coord model.DependencyCoordinate
	pos   model.Pos
}

// Declarator is the dependency set of one session.
type Declarator struct {
	entries map[model.DependencyKey]*entry
	order   []model.DependencyKey
	frozen  bool
}

// New creates an empty declarator.
func New() *Declarator {
	return &Declarator{entries: make(map[model.DependencyKey]*entry)}
}

// Declare adds coord to the set. It returns a non-nil conflict when the key
// was already declared with a different version.
func (d *Declarator) Declare(ctx context.Context, coord model.DependencyCoordinate, pos model.Pos) (*diag.VersionConflict, error) {
	if d.frozen {
		return nil, fmt.Errorf("declaring %s: %w", coord, diag.ErrFrozen)
	}
	if err := validate(coord, pos); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)

	key := coord.Key()
	prev, ok := d.entries[key]
	if !ok {
		d.entries[key] = &entry{coord: coord, pos: pos}
		d.order = append(d.order, key)
		logger.Debug("Declared dependency.", "dependency", coord.String())
		return nil, nil
	}
	if prev.coord.Version == coord.Version {
		logger.Debug("Dependency already declared.", "dependency", coord.String())
		return nil, nil
	}

	conflict := &diag.VersionConflict{
		Key:         key,
		Previous:    prev.coord.Version,
		Current:     coord.Version,
		PreviousPos: prev.pos,
		Pos:         pos,
	}
	prev.coord = coord
	prev.pos = pos
	logger.Debug("Dependency version overridden.", "dependency", key.String(), "previous", conflict.Previous, "current", conflict.Current)
	return conflict, nil
}

// Len returns the size of the set.
func (d *Declarator) Len() int {
	return len(d.order)
}

// Frozen reports whether Freeze was called.
func (d *Declarator) Frozen() bool {
	return d.frozen
}

// Freeze closes the set and returns it in first-declaration order. Calling
// Freeze again returns the same set.
func (d *Declarator) Freeze() []model.DependencyCoordinate {
	d.frozen = true
	out := make([]model.DependencyCoordinate, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.entries[k].coord)
	}
	return out
}

// ParseNotation parses Gradle's `group:artifact:version` string notation.
func ParseNotation(scope model.Scope, notation string) (model.DependencyCoordinate, error) {
	parts := strings.Split(strings.TrimSpace(notation), ":")
	if len(parts) != 3 {
		return model.DependencyCoordinate{}, &diag.InvalidConfigurationError{
			Invariant: "dependency-notation",
			Key:       notation,
			Detail:    "expected group:artifact:version",
		}
	}
	coord := model.DependencyCoordinate{
		Group:    strings.TrimSpace(parts[0]),
		Artifact: strings.TrimSpace(parts[1]),
		Version:  strings.TrimSpace(parts[2]),
		Scope:    scope,
	}
	if err := validate(coord, model.Pos{}); err != nil {
		return model.DependencyCoordinate{}, err
	}
	return coord, nil
}

func validate(coord model.DependencyCoordinate, pos model.Pos) error {
	if !coord.Scope.Valid() {
		return &diag.InvalidConfigurationError{
			Invariant: "dependency-scope",
			Key:       string(coord.Scope),
			Detail:    fmt.Sprintf("unsupported dependency configuration %q", coord.Scope),
			Pos:       pos,
		}
	}
	if coord.Group == "" || coord.Artifact == "" || coord.Version == "" {
		return &diag.InvalidConfigurationError{
			Invariant: "dependency-notation",
			Key:       coord.Notation(),
			Detail:    "group, artifact and version must all be non-empty",
			Pos:       pos,
		}
	}
	return nil
}
