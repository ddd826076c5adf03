package model

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Provenance tags where a resolved value came from, for diagnostics.
type Provenance string

const (
	ProvenanceExplicit                  Provenance = "explicit"
	ProvenanceDefaulted                 Provenance = "defaulted"
	ProvenanceDerived                   Provenance = "derived"
	ProvenanceExplicitThroughReference  Provenance = "explicit-through-reference"
	ProvenanceDefaultedThroughReference Provenance = "defaulted-through-reference"
	ProvenanceDerivedThroughReference   Provenance = "derived-through-reference"
)

const throughReferenceSuffix = "-through-reference"

// ThroughReference returns the provenance of a value that was reached by
// following at least one reference.
func (p Provenance) ThroughReference() Provenance {
	if p.IsThroughReference() {
		return p
	}
	return p + throughReferenceSuffix
}

func (p Provenance) IsThroughReference() bool {
	return strings.HasSuffix(string(p), throughReferenceSuffix)
}

// IsDefaulted reports whether the value was not written by the project at
// all, but supplied by a plugin default or a default function.
func (p Provenance) IsDefaulted() bool {
	base := Provenance(strings.TrimSuffix(string(p), throughReferenceSuffix))
	return base == ProvenanceDefaulted || base == ProvenanceDerived
}

// Resolved is the outcome of resolving a property: the scalar, its
// provenance, the layer of the final hop and the keys visited on the way.
type Resolved struct {
	Value      cty.Value
	Provenance Provenance
	Layer      LayerID
	Chain      []string
}

// Clone returns a copy that shares no slices with r.
func (r Resolved) Clone() Resolved {
	r.Chain = append([]string(nil), r.Chain...)
	return r
}
