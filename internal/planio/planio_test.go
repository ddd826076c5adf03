package planio

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/plugins"
	"github.com/specialistvlad/buildplan/internal/session"
	"github.com/specialistvlad/buildplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

const secret = "hunter2"

func plan(t *testing.T) *model.BuildPlan {
	t.Helper()
	m, err := testutil.ParseBuild(t, `
		plugins = ["com.android.application", "kotlin-android", "dev.flutter.flutter-gradle-plugin"]

		android {
		  namespace  = "com.example.pulseos"
		  compileSdk = flutter.compileSdkVersion
		  defaultConfig {
		    applicationId = "com.example.pulseos"
		    minSdk        = flutter.minSdkVersion
		    targetSdk     = flutter.targetSdkVersion
		    versionCode   = flutter.versionCode
		    versionName   = flutter.versionName
		  }
		  signingConfig "upload" {
		    storeFile     = "upload.jks"
		    storePassword = "hunter2"
		  }
		  buildType "release" { signingConfig = signingConfigs.upload }
		}

		dependencies {
		  coreLibraryDesugaring = ["com.android.tools:desugar_jdk_libs:2.0.4"]
		}
	`)
	require.NoError(t, err)

	ctx := ctxlog.Discard(context.Background())
	s := session.New(plugins.Builtin(), session.Options{Module: "app"})
	require.NoError(t, s.Apply(ctx, m.Statements...))
	p, err := s.Assemble(ctx)
	require.NoError(t, err)
	return p
}

func TestFromPlan(t *testing.T) {
	doc := FromPlan(plan(t))

	assert.Equal(t, "app", doc.Module)
	assert.Equal(t, int64(34), doc.Target.CompileSdk)
	assert.Equal(t, "1.8", doc.CompileOptions.JvmTarget)
	assert.Equal(t, []Dependency{{
		Scope: "coreLibraryDesugaring", Group: "com.android.tools", Artifact: "desugar_jdk_libs", Version: "2.0.4",
	}}, doc.Dependencies)

	var compileSdk *Property
	for i := range doc.Properties {
		if i > 0 {
			assert.Less(t, doc.Properties[i-1].Key, doc.Properties[i].Key, "properties are sorted")
		}
		if doc.Properties[i].Key == model.KeyCompileSdk {
			compileSdk = &doc.Properties[i]
		}
	}
	require.NotNil(t, compileSdk)
	assert.Equal(t, int64(34), compileSdk.Value)
	assert.Equal(t, "defaulted-through-reference", compileSdk.Provenance)
	assert.Equal(t, "plugin-default", compileSdk.Layer)
	assert.Equal(t, []string{"android.compileSdk", "flutter.compileSdkVersion"}, compileSdk.Chain)

	names := make(map[string]Variant)
	for _, v := range doc.Variants {
		names[v.Name] = v
	}
	require.Contains(t, names, "release")
	release := names["release"]
	require.NotNil(t, release.SigningConfig)
	assert.Equal(t, "upload", release.SigningConfig.Name)
	assert.Equal(t, []string{"storeFile", "storePassword"}, release.SigningConfig.Credentials)
}

func TestEncode_NeverLeaksCredentials(t *testing.T) {
	docs := []Document{FromPlan(plan(t))}

	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, f, docs))
			assert.NotContains(t, buf.String(), secret)
			assert.Contains(t, buf.String(), "storePassword")
		})
	}
}

func TestEncode_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, []Document{FromPlan(plan(t))}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "app", got["module"])
	target := got["target"].(map[string]any)
	assert.Equal(t, "com.example.pulseos", target["applicationId"])
	assert.EqualValues(t, 21, target["minSdk"])
	assert.NotContains(t, target, "ndkVersion", "empty ndkVersion is omitted")
}

func TestEncode_SeveralDocumentsAsList(t *testing.T) {
	doc := FromPlan(plan(t))
	other := doc
	other.Module = "wear"

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatYAML, []Document{doc, other}))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "app", got[0]["module"])
	assert.Equal(t, "wear", got[1]["module"])
}

func TestEncode_Msgpack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatMsgpack, []Document{FromPlan(plan(t))}))

	var got Document
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "app", got.Module)
	assert.Equal(t, int64(34), got.Target.TargetSdk)
	assert.NotEmpty(t, got.ResolutionOrder)
}

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "YAML", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: " msgpack ", want: FormatMsgpack},
		{in: "toml", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
