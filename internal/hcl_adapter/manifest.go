package hcl_adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/fsutil"
	"github.com/specialistvlad/buildplan/internal/hclutil"
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/plugins"
	"github.com/zclconf/go-cty/cty"
)

// manifestRoot is a plugin manifest file. Anything but plugin blocks is
// rejected by the decoder.
type manifestRoot struct {
	Plugins []*pluginBlock `hcl:"plugin,block"`
}

type pluginBlock struct {
	ID             string            `hcl:"id,label"`
	Description    *string           `hcl:"description,optional"`
	Extension      *string           `hcl:"extension,optional"`
	Fields         []*fieldBlock     `hcl:"field,block"`
	Properties     []*propertyBlock  `hcl:"property,block"`
	SigningConfigs []*signingBlock   `hcl:"signing_config,block"`
	BuildTypes     []*buildTypeBlock `hcl:"build_type,block"`
	Body           hcl.Body          `hcl:",body"`
}

type fieldBlock struct {
	Name     string         `hcl:"name,label"`
	Default  hcl.Expression `hcl:"default,optional"`
	FromEnv  *string        `hcl:"from_env,optional"`
	Fallback hcl.Expression `hcl:"fallback,optional"`
}

type propertyBlock struct {
	Key   string         `hcl:"key,label"`
	Value hcl.Expression `hcl:"value"`
}

type signingBlock struct {
	Name        string            `hcl:"name,label"`
	Credentials map[string]string `hcl:"credentials,optional"`
}

type buildTypeBlock struct {
	Name          string  `hcl:"name,label"`
	SigningConfig *string `hcl:"signing_config,optional"`
	Debuggable    *bool   `hcl:"debuggable,optional"`
	MinifyEnabled *bool   `hcl:"minify_enabled,optional"`
}

// LoadPlugins reads every .hcl plugin manifest below dir.
func (l *Loader) LoadPlugins(ctx context.Context, dir string) ([]*plugins.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading plugin manifests.", "dir", dir)

	files, err := fsutil.FindFilesByExtension(dir, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("error searching %s for plugin manifests: %w", dir, err)
	}

	parser := hclparse.NewParser()
	var defs []*plugins.Definition
	var diags hcl.Diagnostics
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read plugin manifest %s: %w", file, err)
		}
		found, fileDiags := l.parsePlugins(ctx, parser, file, src)
		l.remember(parser)
		diags = append(diags, fileDiags...)
		defs = append(defs, found...)
	}
	if diags.HasErrors() {
		return nil, &DiagnosticsError{Diags: diags, Files: parser.Files()}
	}

	logger.Debug("Plugin manifests loaded.", "files", len(files), "plugins", len(defs))
	return defs, nil
}

// ParsePlugins parses the plugin definitions in one manifest source.
func (l *Loader) ParsePlugins(ctx context.Context, filename string, src []byte) ([]*plugins.Definition, error) {
	parser := hclparse.NewParser()
	defs, diags := l.parsePlugins(ctx, parser, filename, src)
	l.remember(parser)
	if diags.HasErrors() {
		return nil, &DiagnosticsError{Diags: diags, Files: parser.Files()}
	}
	return defs, nil
}

func (l *Loader) parsePlugins(ctx context.Context, parser *hclparse.Parser, filename string, src []byte) ([]*plugins.Definition, hcl.Diagnostics) {
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var root manifestRoot
	if decodeDiags := gohcl.DecodeBody(file.Body, nil, &root); decodeDiags.HasErrors() {
		return nil, decodeDiags
	}

	var defs []*plugins.Definition
	for _, pb := range root.Plugins {
		def, defDiags := translatePlugin(ctx, pb, filename)
		diags = append(diags, defDiags...)
		if def != nil {
			defs = append(defs, def)
		}
	}
	return defs, diags
}

func translatePlugin(ctx context.Context, pb *pluginBlock, source string) (*plugins.Definition, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	def := &plugins.Definition{ID: pb.ID, Source: source}
	if pb.Description != nil {
		def.Description = *pb.Description
	}
	if pb.Extension != nil {
		def.Extension = *pb.Extension
	}

	if def.Extension == "" && len(pb.Fields) > 0 {
		diags = append(diags, errorDiag(pb.Body.MissingItemRange(), "Fields without extension",
			"Plugin %q declares fields but no extension to hold them.", pb.ID))
	}

	for _, fb := range pb.Fields {
		f := plugins.Field{Name: fb.Name}
		if isExprDefined(ctx, fb.Default, fb.Name) {
			v, d := valueOf(fb.Default)
			diags = append(diags, d...)
			f.Value = v
		}
		if fb.FromEnv != nil {
			fallback := cty.NilVal
			if isExprDefined(ctx, fb.Fallback, fb.Name) {
				v, d := hclutil.StaticScalar(fb.Fallback)
				diags = append(diags, d...)
				fallback = v
			}
			f.Derive = plugins.FromEnv(*fb.FromEnv, fallback)
		}
		def.Fields = append(def.Fields, f)
	}

	for _, p := range pb.Properties {
		v, d := valueOf(p.Value)
		diags = append(diags, d...)
		if _, err := model.RefForKey(p.Key); err != nil {
			diags = append(diags, errorDiag(p.Value.Range(), "Invalid property key", "%s", err))
			continue
		}
		def.Properties = append(def.Properties, plugins.Property{Key: p.Key, Value: v})
	}

	for _, sb := range pb.SigningConfigs {
		def.SigningConfigs = append(def.SigningConfigs, model.SigningConfig{
			Name:        sb.Name,
			Credentials: model.Credentials(sb.Credentials),
		})
	}

	for _, bb := range pb.BuildTypes {
		bt := plugins.BuildType{Name: bb.Name, SigningConfigRef: bb.SigningConfig}
		if bb.Debuggable != nil {
			bt.Debuggable = *bb.Debuggable
		}
		if bb.MinifyEnabled != nil {
			bt.MinifyEnabled = *bb.MinifyEnabled
		}
		def.BuildTypes = append(def.BuildTypes, bt)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return def, diags
}
