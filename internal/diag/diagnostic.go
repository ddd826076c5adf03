package diag

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildplan/internal/model"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Kind classifies a diagnostic.
type Kind string

const (
	KindDuplicatePlugin      Kind = "DuplicatePlugin"
	KindUnknownExtension     Kind = "UnknownExtension"
	KindUnresolvedProperty   Kind = "UnresolvedProperty"
	KindCyclicReference      Kind = "CyclicReference"
	KindUnknownSigningConfig Kind = "UnknownSigningConfig"
	KindInvalidConfiguration Kind = "InvalidConfiguration"
	KindVersionConflict      Kind = "VersionConflict"
	KindUnknownPlugin        Kind = "UnknownPlugin"
	KindUnsignedVariant      Kind = "UnsignedVariant"
)

// Diagnostic is one structured finding.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Key      string
	Pos      model.Pos
	Summary  string
	Detail   string
}

func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s[%s] %s", d.Severity, d.Kind, d.Summary)
	if d.Key != "" {
		s += fmt.Sprintf(" (key %q)", d.Key)
	}
	return s + " at " + d.Pos.String()
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic is an error.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// OfKind filters the diagnostics by kind.
func (ds Diagnostics) OfKind(kind Kind) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// ToHCL converts the diagnostics into hcl.Diagnostics so they can be printed
// with source snippets by hcl.NewDiagnosticTextWriter.
func (ds Diagnostics) ToHCL() hcl.Diagnostics {
	out := make(hcl.Diagnostics, 0, len(ds))
	for _, d := range ds {
		sev := hcl.DiagWarning
		if d.Severity == SeverityError {
			sev = hcl.DiagError
		}
		hd := &hcl.Diagnostic{
			Severity: sev,
			Summary:  fmt.Sprintf("%s: %s", d.Kind, d.Summary),
			Detail:   d.Detail,
		}
		if d.Pos.HasRange() {
			rng := d.Pos.Range
			hd.Subject = &rng
		}
		out = append(out, hd)
	}
	return out
}
