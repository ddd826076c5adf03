package hcl_adapter

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildplan/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder often populates optional fields with non-nil, zero-width
// expression objects, so a simple nil check is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}

	// A real attribute occupies bytes in the file, while a placeholder for an
	// omitted optional attribute has a zero-width range.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}
