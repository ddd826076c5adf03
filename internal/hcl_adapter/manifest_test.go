package hcl_adapter_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/hcl_adapter"
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const conventionsManifest = `
	plugin "com.example.conventions" {
	  description = "Team-wide compile settings."
	  extension   = "conventions"

	  field "javaVersion" {
	    default = "17"
	  }
	  field "buildNumber" {
	    from_env = "BUILD_NUMBER"
	    fallback = 1
	  }
	  field "minSdk" {
	    default = flutter.minSdkVersion
	  }

	  property "android.compileOptions.sourceCompatibility" {
	    value = conventions.javaVersion
	  }

	  signing_config "ci" {
	    credentials = { storeFile = "ci.jks", keyAlias = "ci" }
	  }
	  build_type "qa" {
	    signing_config = "ci"
	    debuggable     = true
	  }
	}
`

func TestParsePlugins_Conventions(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	defs, err := hcl_adapter.NewLoader().ParsePlugins(ctx, "plugins/conventions.hcl", []byte(testutil.Unindent(conventionsManifest)))
	require.NoError(t, err)
	require.Len(t, defs, 1)

	def := defs[0]
	assert.Equal(t, "com.example.conventions", def.ID)
	assert.Equal(t, "conventions", def.Extension)
	assert.Equal(t, "Team-wide compile settings.", def.Description)
	assert.Equal(t, "plugins/conventions.hcl", def.Source)

	b := def.Binding()
	require.NotNil(t, b)
	assert.True(t, b.Fields["javaVersion"].Equal(model.String("17")))
	assert.True(t, b.Fields["minSdk"].Equal(model.Ref("flutter.minSdkVersion")))
	assert.NotContains(t, b.Fields, "buildNumber")

	derive := b.Defaults["buildNumber"]
	require.NotNil(t, derive)
	v, ok := derive(model.Env{"BUILD_NUMBER": cty.NumberIntVal(42)})
	require.True(t, ok)
	assert.True(t, v.RawEquals(cty.NumberIntVal(42)))
	v, ok = derive(nil)
	require.True(t, ok)
	assert.True(t, v.Equals(cty.NumberIntVal(1)).True())

	require.Len(t, def.Properties, 1)
	assert.Equal(t, "android.compileOptions.sourceCompatibility", def.Properties[0].Key)
	assert.True(t, def.Properties[0].Value.Equal(model.Ref("conventions.javaVersion")))

	require.Len(t, def.SigningConfigs, 1)
	assert.Equal(t, "ci", def.SigningConfigs[0].Name)
	assert.Equal(t, []string{"keyAlias", "storeFile"}, def.SigningConfigs[0].Credentials.Keys())

	require.Len(t, def.BuildTypes, 1)
	qa := def.BuildTypes[0]
	assert.Equal(t, "qa", qa.Name)
	require.NotNil(t, qa.SigningConfigRef)
	assert.Equal(t, "ci", *qa.SigningConfigRef)
	assert.True(t, qa.Debuggable)
	assert.False(t, qa.MinifyEnabled)
}

func TestParsePlugins_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		src         string
		errContains string
	}{
		{
			name:        "attribute outside a plugin block",
			src:         `extension = "x"`,
			errContains: "Unsupported argument",
		},
		{
			name: "fields without an extension",
			src: `
				plugin "marker" {
				  field "x" { default = 1 }
				}
			`,
			errContains: "Fields without extension",
		},
		{
			name: "property key without extension part",
			src: `
				plugin "p" {
				  property "namespace" { value = "x" }
				}
			`,
			errContains: "Invalid property key",
		},
		{
			name: "non-static default",
			src: `
				plugin "p" {
				  extension = "p"
				  field "x" { default = upper("a") }
				}
			`,
			errContains: "function calls upper",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := ctxlog.Discard(context.Background())
			_, err := hcl_adapter.NewLoader().ParsePlugins(ctx, "p.hcl", []byte(testutil.Unindent(tc.src)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)

			var diagsErr *hcl_adapter.DiagnosticsError
			assert.True(t, errors.As(err, &diagsErr))
		})
	}
}

func TestLoadPlugins_Directory(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{
		"plugins/conventions.hcl": conventionsManifest,
		"plugins/lint/lint.hcl": `
			plugin "com.example.lint" {
			  extension = "lint"
			  field "abortOnError" { default = false }
			}
		`,
		"plugins/README.md": "not a manifest",
	})

	ctx := ctxlog.Discard(context.Background())
	defs, err := hcl_adapter.NewLoader().LoadPlugins(ctx, filepath.Join(root, "plugins"))
	require.NoError(t, err)

	var ids []string
	for _, d := range defs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"com.example.conventions", "com.example.lint"}, ids)
}

func TestLoadPlugins_MissingDirectory(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	_, err := hcl_adapter.NewLoader().LoadPlugins(ctx, filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
