package hclutil

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// StaticScalar evaluates expr without any variables or functions and
// requires the result to be a known, non-null string, number or bool.
// When the expression needs variables or functions, the diagnostic names
// them.
func StaticScalar(expr hcl.Expression) (cty.Value, hcl.Diagnostics) {
	c := NewContainer(expr)
	if refs, funcs := c.ReferenceKeys(), c.CalledFunctions(); len(refs) > 0 || len(funcs) > 0 {
		var parts []string
		if len(refs) > 0 {
			parts = append(parts, "references "+strings.Join(refs, ", "))
		}
		if len(funcs) > 0 {
			parts = append(parts, "function calls "+strings.Join(funcs, ", "))
		}
		return cty.NilVal, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported expression",
			Detail: fmt.Sprintf("Only literal values or a single extension.field reference are allowed here; "+
				"this expression uses %s.", strings.Join(parts, " and ")),
			Subject: expr.Range().Ptr(),
		}}
	}

	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if v.IsNull() || !v.IsKnown() || !v.Type().IsPrimitiveType() {
		return cty.NilVal, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   fmt.Sprintf("Expected a string, number or bool, got %s.", v.Type().FriendlyName()),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return v, nil
}

// StaticStrings evaluates expr to a string or a list of strings.
func StaticStrings(expr hcl.Expression) ([]string, []hcl.Range, hcl.Diagnostics) {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, nil, diags
	}
	if v.Type() == cty.String && !v.IsNull() {
		return []string{v.AsString()}, []hcl.Range{expr.Range()}, nil
	}
	if !v.CanIterateElements() || v.IsNull() {
		return nil, nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   "Expected a string or a list of strings.",
			Subject:  expr.Range().Ptr(),
		}}
	}

	elemRanges := elementRanges(expr)
	var out []string
	var ranges []hcl.Range
	i := 0
	for it := v.ElementIterator(); it.Next(); i++ {
		_, elem := it.Element()
		if elem.IsNull() || elem.Type() != cty.String {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid value",
				Detail:   fmt.Sprintf("Element %d must be a string.", i),
				Subject:  expr.Range().Ptr(),
			})
			continue
		}
		out = append(out, elem.AsString())
		if i < len(elemRanges) {
			ranges = append(ranges, elemRanges[i])
		} else {
			ranges = append(ranges, expr.Range())
		}
	}
	return out, ranges, diags
}

func elementRanges(expr hcl.Expression) []hcl.Range {
	tuple, ok := expr.(*hclsyntax.TupleConsExpr)
	if !ok {
		return nil
	}
	ranges := make([]hcl.Range, len(tuple.Exprs))
	for i, e := range tuple.Exprs {
		ranges[i] = e.Range()
	}
	return ranges
}
