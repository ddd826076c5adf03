package hcl_adapter

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/buildplan/internal/deps"
	"github.com/specialistvlad/buildplan/internal/hclutil"
	"github.com/specialistvlad/buildplan/internal/model"
)

// Attribute names a build-type body interprets itself. Every other
// attribute overrides the extension's defaultConfig for that build type.
const (
	attrSigningConfig = "signingConfig"
	attrMinify        = "isMinifyEnabled"
	attrDebuggable    = "isDebuggable"
)

// decoder turns one build-file body into statements, numbering them in
// source order.
type decoder struct {
	next  int
	stmts []model.Statement
	diags hcl.Diagnostics
}

func (d *decoder) pos(rng hcl.Range) model.Pos {
	p := model.Pos{Index: d.next, Range: rng}
	d.next++
	return p
}

func (d *decoder) fail(diag *hcl.Diagnostic) {
	d.diags = append(d.diags, diag)
}

func (d *decoder) file(body *hclsyntax.Body) {
	for _, item := range hclutil.Items(body) {
		switch {
		case item.Attr != nil && item.Attr.Name == "plugins":
			d.plugins(item.Attr)
		case item.Attr != nil:
			d.fail(errorDiag(item.Attr.SrcRange, "Unsupported attribute",
				"Only \"plugins\" may be set at the top level; %q belongs inside an extension block.", item.Attr.Name))
		case item.Block.Type == "dependencies":
			d.dependencies(item.Block)
		default:
			if !d.noLabels(item.Block) {
				continue
			}
			d.extension(item.Block.Type, item.Block.Body)
		}
	}
}

func (d *decoder) noLabels(block *hclsyntax.Block) bool {
	if len(block.Labels) == 0 {
		return true
	}
	d.fail(errorDiag(block.DefRange(), "Unexpected block label",
		"Block %q takes no labels.", block.Type))
	return false
}

func (d *decoder) plugins(attr *hclsyntax.Attribute) {
	ids, ranges, diags := hclutil.StaticStrings(attr.Expr)
	d.diags = append(d.diags, diags...)
	for i, id := range ids {
		d.stmts = append(d.stmts, model.ApplyPlugin{PluginID: id, Pos: d.pos(ranges[i])})
	}
}

// extension walks an extension body. Nested blocks extend the key prefix,
// so `android { defaultConfig { minSdk = 21 } }` sets
// android.defaultConfig.minSdk.
func (d *decoder) extension(prefix string, body *hclsyntax.Body) {
	ext, _, _ := strings.Cut(prefix, ".")
	for _, item := range hclutil.Items(body) {
		if item.Attr != nil {
			if v, ok := d.value(item.Attr.Expr); ok {
				d.stmts = append(d.stmts, model.SetProperty{
					Key:   prefix + "." + item.Attr.Name,
					Value: v,
					Pos:   d.pos(item.Attr.SrcRange),
				})
			}
			continue
		}

		block := item.Block
		switch block.Type {
		case "signingConfig":
			if name, ok := d.oneLabel(block); ok {
				d.signingConfig(ext, name, block)
			}
		case "buildType":
			if name, ok := d.oneLabel(block); ok {
				d.buildType(ext, name, block)
			}
		case "signingConfigs":
			d.named(block, func(name string, b *hclsyntax.Block) { d.signingConfig(ext, name, b) })
		case "buildTypes":
			d.named(block, func(name string, b *hclsyntax.Block) { d.buildType(ext, name, b) })
		default:
			if d.noLabels(block) {
				d.extension(prefix+"."+block.Type, block.Body)
			}
		}
	}
}

func (d *decoder) oneLabel(block *hclsyntax.Block) (string, bool) {
	if len(block.Labels) != 1 || block.Labels[0] == "" {
		d.fail(errorDiag(block.DefRange(), "Missing name",
			"Block %q needs exactly one name label, e.g. %s \"release\" { ... }.", block.Type, block.Type))
		return "", false
	}
	return block.Labels[0], true
}

// named handles Gradle's container syntax, `buildTypes { release { ... } }`,
// where each nested block type is the entry name.
func (d *decoder) named(block *hclsyntax.Block, each func(name string, b *hclsyntax.Block)) {
	if !d.noLabels(block) {
		return
	}
	for _, item := range hclutil.Items(block.Body) {
		if item.Attr != nil {
			d.fail(errorDiag(item.Attr.SrcRange, "Unsupported attribute",
				"%q only contains named blocks.", block.Type))
			continue
		}
		if d.noLabels(item.Block) {
			each(item.Block.Type, item.Block)
		}
	}
}

func (d *decoder) signingConfig(ext, name string, block *hclsyntax.Block) {
	creds := make(model.Credentials)
	for _, item := range hclutil.Items(block.Body) {
		if item.Block != nil {
			d.fail(errorDiag(item.Block.DefRange(), "Unsupported block",
				"Signing config %q only takes attributes.", name))
			continue
		}
		v, diags := hclutil.StaticScalar(item.Attr.Expr)
		if diags.HasErrors() {
			d.diags = append(d.diags, diags...)
			continue
		}
		s, _ := model.AsString(v)
		creds[item.Attr.Name] = s
	}
	d.stmts = append(d.stmts, model.DeclareSigningConfig{Extension: ext, Name: name, Credentials: creds, Pos: d.pos(block.Range())})
}

func (d *decoder) buildType(ext, name string, block *hclsyntax.Block) {
	cfg := model.VariantConfig{Overrides: make(map[string]model.Value)}

	for _, item := range hclutil.Items(block.Body) {
		if item.Block != nil {
			nested := item.Block
			if !d.noLabels(nested) {
				continue
			}
			for _, inner := range hclutil.Items(nested.Body) {
				if inner.Attr == nil {
					d.fail(errorDiag(inner.Block.DefRange(), "Unsupported block",
						"Build type overrides nest one block deep at most."))
					continue
				}
				if v, ok := d.value(inner.Attr.Expr); ok {
					cfg.Overrides[ext+"."+nested.Type+"."+inner.Attr.Name] = v
				}
			}
			continue
		}

		attr := item.Attr
		switch attr.Name {
		case attrSigningConfig:
			ref, ok := d.signingRef(attr.Expr)
			if ok {
				cfg.SigningConfigRef = ref
				cfg.ClearSigningConfig = ref == nil
			}
		case attrMinify, attrDebuggable:
			b, ok := d.boolean(attr.Expr)
			if !ok {
				continue
			}
			if attr.Name == attrMinify {
				cfg.MinifyEnabled = &b
			} else {
				cfg.Debuggable = &b
			}
		default:
			if v, ok := d.value(attr.Expr); ok {
				cfg.Overrides[ext+".defaultConfig."+attr.Name] = v
			}
		}
	}

	d.stmts = append(d.stmts, model.DeclareVariant{Extension: ext, Name: name, Config: cfg, Pos: d.pos(block.Range())})
}

// signingRef accepts `signingConfigs.debug` or "debug". null yields no name
// and unsigns the build type.
func (d *decoder) signingRef(expr hclsyntax.Expression) (*string, bool) {
	if t := hclutil.AsTraversal(expr); t != nil {
		names, ok := hclutil.AttrPath(t)
		if ok && len(names) == 2 && names[0] == "signingConfigs" {
			return &names[1], true
		}
		d.fail(errorDiag(expr.Range(), "Invalid signing config reference",
			"Expected signingConfigs.<name> or a quoted name, got %s.", hclutil.TraversalKey(t)))
		return nil, false
	}

	v, diags := expr.Value(nil)
	if !diags.HasErrors() && v.IsNull() {
		return nil, true
	}
	s, diags := hclutil.StaticScalar(expr)
	if diags.HasErrors() {
		d.diags = append(d.diags, diags...)
		return nil, false
	}
	name, err := model.AsString(s)
	if err != nil || name == "" {
		d.fail(errorDiag(expr.Range(), "Invalid signing config reference", "Expected a signing config name."))
		return nil, false
	}
	return &name, true
}

func (d *decoder) boolean(expr hclsyntax.Expression) (bool, bool) {
	v, diags := hclutil.StaticScalar(expr)
	if diags.HasErrors() {
		d.diags = append(d.diags, diags...)
		return false, false
	}
	b, err := model.AsBool(v)
	if err != nil {
		d.fail(errorDiag(expr.Range(), "Invalid value", "Expected a bool: %s.", err))
		return false, false
	}
	return b, true
}

// value converts an attribute expression: a bare reference becomes a
// PropertyRef, anything else must evaluate statically to a scalar.
func (d *decoder) value(expr hcl.Expression) (model.Value, bool) {
	v, diags := valueOf(expr)
	if diags.HasErrors() {
		d.diags = append(d.diags, diags...)
		return model.Value{}, false
	}
	return v, true
}

func valueOf(expr hcl.Expression) (model.Value, hcl.Diagnostics) {
	if hclutil.AsTraversal(expr) != nil {
		key, diags := hclutil.DottedRef(expr)
		if diags.HasErrors() {
			return model.Value{}, diags
		}
		ref, err := model.RefForKey(key)
		if err != nil {
			return model.Value{}, hcl.Diagnostics{errorDiag(expr.Range(), "Invalid reference", "%s", err)}
		}
		return model.RefValue(ref), nil
	}
	v, diags := hclutil.StaticScalar(expr)
	if diags.HasErrors() {
		return model.Value{}, diags
	}
	return model.ScalarValue(v), nil
}

func (d *decoder) dependencies(block *hclsyntax.Block) {
	if !d.noLabels(block) {
		return
	}
	for _, item := range hclutil.Items(block.Body) {
		if item.Block != nil {
			d.fail(errorDiag(item.Block.DefRange(), "Unsupported block",
				"Declare dependencies as configuration = [\"group:artifact:version\", ...]."))
			continue
		}
		attr := item.Attr
		scope := model.Scope(attr.Name)
		if !scope.Valid() {
			d.fail(errorDiag(attr.NameRange, "Unsupported dependency configuration",
				"%q is not a supported configuration.", attr.Name))
			continue
		}
		notations, ranges, diags := hclutil.StaticStrings(attr.Expr)
		d.diags = append(d.diags, diags...)
		for i, n := range notations {
			coord, err := deps.ParseNotation(scope, n)
			if err != nil {
				d.fail(errorDiag(ranges[i], "Invalid dependency notation", "%s", err))
				continue
			}
			d.stmts = append(d.stmts, model.DeclareDependency{Coordinate: coord, Pos: d.pos(ranges[i])})
		}
	}
}
