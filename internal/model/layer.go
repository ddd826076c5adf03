package model

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// LayerID orders the sources a property value can come from. A higher layer
// shadows a lower one for the same key.
type LayerID int

const (
	LayerPluginDefault LayerID = iota
	LayerProject
	LayerVariant
)

func (l LayerID) String() string {
	switch l {
	case LayerPluginDefault:
		return "plugin-default"
	case LayerProject:
		return "project"
	case LayerVariant:
		return "variant"
	}
	return fmt.Sprintf("layer(%d)", int(l))
}

// Pos locates a declaration: its index in declaration order and, when the
// input came from a file, its source range.
type Pos struct {
	Index int
	Range hcl.Range
}

// HasRange reports whether the position carries a source location.
func (p Pos) HasRange() bool {
	return p.Range.Filename != ""
}

func (p Pos) String() string {
	if p.HasRange() {
		return fmt.Sprintf("#%d (%s)", p.Index, p.Range.String())
	}
	return fmt.Sprintf("#%d", p.Index)
}

// PropertyEntry is a single key/value contribution from one layer. Scope is
// the variant name for LayerVariant entries and empty otherwise.
type PropertyEntry struct {
	Key    string
	Value  Value
	Layer  LayerID
	Scope  string
	Source string
	Pos    Pos
}
