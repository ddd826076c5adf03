package hclutil

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// FindUniqueBlock searches a slice of blocks for all blocks of a given name.
// It returns a diagnostic error if more than one block of that name is found.
// If no block is found, it returns nil.
func FindUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type == name {
			if found != nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Duplicate \"" + name + "\" block",
					Detail:   "Only one \"" + name + "\" block is allowed.",
					Subject:  &block.DefRange,
				})
			}
			found = block
		}
	}

	return found, diags
}

// Item is one attribute or block of a body. Exactly one field is set.
type Item struct {
	Attr  *hclsyntax.Attribute
	Block *hclsyntax.Block
}

// Range returns the source range of the item.
func (i Item) Range() hcl.Range {
	if i.Attr != nil {
		return i.Attr.SrcRange
	}
	return i.Block.Range()
}

// Items returns the attributes and blocks of body in source order.
// hclsyntax keeps attributes in a map, so declaration order has to be
// recovered from byte offsets.
func Items(body *hclsyntax.Body) []Item {
	items := make([]Item, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, Item{Attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, Item{Block: block})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Range().Start.Byte < items[j].Range().Start.Byte
	})
	return items
}
