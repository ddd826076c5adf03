package hclutil

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// TraversalKey generates a stable, canonical string representation for an hcl.Traversal,
// suitable for use as a map key.
func TraversalKey(t hcl.Traversal) string {
	// e.g., flutter.compileSdkVersion
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// AttrPath returns the names of a traversal made only of a root and
// attribute steps, e.g. flutter.compileSdkVersion. ok is false for any
// traversal with index or splat steps.
func AttrPath(t hcl.Traversal) (names []string, ok bool) {
	for _, step := range t {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			names = append(names, s.Name)
		case hcl.TraverseAttr:
			names = append(names, s.Name)
		default:
			return nil, false
		}
	}
	return names, len(names) > 0
}

// AsTraversal returns the traversal of expr when expr is a bare reference
// such as `flutter.minSdkVersion`, and nil otherwise.
func AsTraversal(expr hcl.Expression) hcl.Traversal {
	if st, ok := expr.(*hclsyntax.ScopeTraversalExpr); ok {
		return st.Traversal
	}
	return nil
}

// DottedRef converts a reference expression into a dotted key with at least
// two segments.
func DottedRef(expr hcl.Expression) (string, hcl.Diagnostics) {
	t := AsTraversal(expr)
	names, ok := AttrPath(t)
	if t == nil || !ok || len(names) < 2 {
		return "", hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid reference",
			Detail:   fmt.Sprintf("A reference must have the form extension.field, got %s.", describe(expr)),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return strings.Join(names, "."), nil
}

func describe(expr hcl.Expression) string {
	if t := AsTraversal(expr); t != nil {
		return TraversalKey(t)
	}
	return "an expression"
}
