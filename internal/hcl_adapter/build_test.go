package hcl_adapter_test

import (
	"errors"
	"testing"

	"github.com/specialistvlad/buildplan/internal/config"
	"github.com/specialistvlad/buildplan/internal/hcl_adapter"
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const gradleScript = `
	plugins = ["com.android.application", "kotlin-android", "dev.flutter.flutter-gradle-plugin"]

	android {
	  namespace  = "com.example.pulseos"
	  compileSdk = flutter.compileSdkVersion
	  ndkVersion = flutter.ndkVersion

	  compileOptions {
	    sourceCompatibility            = "1.8"
	    targetCompatibility            = "1.8"
	    isCoreLibraryDesugaringEnabled = true
	  }
	  kotlinOptions { jvmTarget = "1.8" }
	  defaultConfig {
	    applicationId = "com.example.pulseos"
	    minSdk        = flutter.minSdkVersion
	    targetSdk     = flutter.targetSdkVersion
	    versionCode   = flutter.versionCode
	    versionName   = flutter.versionName
	  }
	  signingConfig "upload" { storeFile = "upload.jks" }
	  buildType "release" {
	    signingConfig = signingConfigs.debug
	  }
	}

	flutter { source = "../.." }

	dependencies {
	  coreLibraryDesugaring = ["com.android.tools:desugar_jdk_libs:2.0.4"]
	}
`

func set(t *testing.T, s model.Statement) model.SetProperty {
	t.Helper()
	sp, ok := s.(model.SetProperty)
	require.True(t, ok, "expected SetProperty, got %T", s)
	return sp
}

func variant(t *testing.T, s model.Statement) model.DeclareVariant {
	t.Helper()
	dv, ok := s.(model.DeclareVariant)
	require.True(t, ok, "expected DeclareVariant, got %T", s)
	return dv
}

func TestParseModule_GradleScript(t *testing.T) {
	m, err := testutil.ParseBuild(t, gradleScript)
	require.NoError(t, err)

	assert.Equal(t, "app", m.Name)
	assert.Equal(t, []string{"com.android.application", "kotlin-android", "dev.flutter.flutter-gradle-plugin"}, m.PluginIDs())
	require.Len(t, m.Statements, 19)

	for i, s := range m.Statements {
		assert.Equal(t, i, s.Position().Index, "statements are numbered in source order")
		assert.True(t, s.Position().HasRange())
	}

	var keys []string
	for _, s := range m.Statements[3:15] {
		keys = append(keys, set(t, s).Key)
	}
	assert.Equal(t, []string{
		"android.namespace",
		"android.compileSdk",
		"android.ndkVersion",
		"android.compileOptions.sourceCompatibility",
		"android.compileOptions.targetCompatibility",
		"android.compileOptions.isCoreLibraryDesugaringEnabled",
		"android.kotlinOptions.jvmTarget",
		"android.defaultConfig.applicationId",
		"android.defaultConfig.minSdk",
		"android.defaultConfig.targetSdk",
		"android.defaultConfig.versionCode",
		"android.defaultConfig.versionName",
	}, keys)

	assert.True(t, set(t, m.Statements[3]).Value.Equal(model.String("com.example.pulseos")))
	assert.True(t, set(t, m.Statements[4]).Value.Equal(model.Ref("flutter.compileSdkVersion")))
	assert.True(t, set(t, m.Statements[8]).Value.Equal(model.Bool(true)))

	sc, ok := m.Statements[15].(model.DeclareSigningConfig)
	require.True(t, ok)
	assert.Equal(t, "upload", sc.Name)
	assert.Equal(t, "android", sc.Extension)
	assert.Equal(t, model.Credentials{"storeFile": "upload.jks"}, sc.Credentials)

	release := variant(t, m.Statements[16])
	assert.Equal(t, "release", release.Name)
	assert.Equal(t, "android", release.Extension)
	require.NotNil(t, release.Config.SigningConfigRef)
	assert.Equal(t, "debug", *release.Config.SigningConfigRef)
	assert.False(t, release.Config.ClearSigningConfig)
	assert.Empty(t, release.Config.Overrides)

	source := set(t, m.Statements[17])
	assert.Equal(t, "flutter.source", source.Key)

	dep, ok := m.Statements[18].(model.DeclareDependency)
	require.True(t, ok)
	assert.Equal(t, model.DependencyCoordinate{
		Group:    "com.android.tools",
		Artifact: "desugar_jdk_libs",
		Version:  "2.0.4",
		Scope:    model.ScopeCoreLibraryDesugaring,
	}, dep.Coordinate)
}

func TestParseModule_Cases(t *testing.T) {
	testutil.RunBuildParsingTests(t, []testutil.BuildParseCase{
		{
			Name: "static expressions are folded",
			HCL: `
				android {
				  defaultConfig { minSdk = 20 + 1 }
				  ndkVersion = "26.${1}"
				}
			`,
			Validate: func(t *testing.T, m *config.Module) {
				require.Len(t, m.Statements, 2)
				minSdk := set(t, m.Statements[0])
				assert.True(t, minSdk.Value.Scalar().Equals(cty.NumberIntVal(21)).True())
				assert.True(t, set(t, m.Statements[1]).Value.Equal(model.String("26.1")))
			},
		},
		{
			Name: "plural containers",
			HCL: `
				android {
				  signingConfigs {
				    upload { storeFile = "upload.jks" }
				  }
				  buildTypes {
				    release {
				      signingConfig   = "upload"
				      isMinifyEnabled = true
				    }
				    debug { isDebuggable = true }
				  }
				}
			`,
			Validate: func(t *testing.T, m *config.Module) {
				require.Len(t, m.Statements, 3)
				assert.IsType(t, model.DeclareSigningConfig{}, m.Statements[0])

				release := variant(t, m.Statements[1])
				assert.Equal(t, "release", release.Name)
				require.NotNil(t, release.Config.SigningConfigRef)
				assert.Equal(t, "upload", *release.Config.SigningConfigRef)
				require.NotNil(t, release.Config.MinifyEnabled)
				assert.True(t, *release.Config.MinifyEnabled)
				assert.Nil(t, release.Config.Debuggable)

				debug := variant(t, m.Statements[2])
				require.NotNil(t, debug.Config.Debuggable)
				assert.True(t, *debug.Config.Debuggable)
			},
		},
		{
			Name: "build type overrides",
			HCL: `
				android {
				  buildType "staging" {
				    signingConfig = null
				    minSdk        = 23
				    versionName   = flutter.versionName
				    compileOptions { sourceCompatibility = "11" }
				  }
				}
			`,
			Validate: func(t *testing.T, m *config.Module) {
				require.Len(t, m.Statements, 1)
				staging := variant(t, m.Statements[0])
				assert.Nil(t, staging.Config.SigningConfigRef)
				assert.True(t, staging.Config.ClearSigningConfig, "null unsigns the build type")
				require.Len(t, staging.Config.Overrides, 3)
				assert.True(t, staging.Config.Overrides["android.defaultConfig.minSdk"].Equal(model.Int(23)))
				assert.True(t, staging.Config.Overrides["android.defaultConfig.versionName"].Equal(model.Ref("flutter.versionName")))
				assert.True(t, staging.Config.Overrides["android.compileOptions.sourceCompatibility"].Equal(model.String("11")))
			},
		},
		{
			Name: "containers belong to the enclosing extension",
			HCL: `
				gradle {
				  signingConfig "upload" { storeFile = "upload.jks" }
				  buildType "release" { signingConfig = "upload" }
				}
			`,
			Validate: func(t *testing.T, m *config.Module) {
				require.Len(t, m.Statements, 2)
				sc, ok := m.Statements[0].(model.DeclareSigningConfig)
				require.True(t, ok)
				assert.Equal(t, "gradle", sc.Extension)
				assert.Equal(t, "gradle", variant(t, m.Statements[1]).Extension)
			},
		},
		{
			Name: "single plugin string",
			HCL:  `plugins = "com.android.application"`,
			Validate: func(t *testing.T, m *config.Module) {
				assert.Equal(t, []string{"com.android.application"}, m.PluginIDs())
			},
		},
		{
			Name:        "top-level attribute",
			HCL:         `namespace = "com.example"`,
			ExpectErr:   true,
			ErrContains: "Only \"plugins\" may be set at the top level",
		},
		{
			Name:        "labelled extension block",
			HCL:         `android "main" { namespace = "x" }`,
			ExpectErr:   true,
			ErrContains: "Unexpected block label",
		},
		{
			Name:        "function call value",
			HCL:         `android { namespace = upper("x") }`,
			ExpectErr:   true,
			ErrContains: "function calls upper",
		},
		{
			Name:        "reference inside an expression",
			HCL:         `android { compileSdk = flutter.compileSdkVersion + 1 }`,
			ExpectErr:   true,
			ErrContains: "references flutter.compileSdkVersion",
		},
		{
			Name:        "list value",
			HCL:         `android { namespace = ["a"] }`,
			ExpectErr:   true,
			ErrContains: "Expected a string, number or bool",
		},
		{
			Name:        "build type without a name",
			HCL:         `android { buildType { isDebuggable = true } }`,
			ExpectErr:   true,
			ErrContains: "Missing name",
		},
		{
			Name:        "signing config reference outside signingConfigs",
			HCL:         `android { buildType "release" { signingConfig = keys.release } }`,
			ExpectErr:   true,
			ErrContains: "Invalid signing config reference",
		},
		{
			Name:        "non-bool minify flag",
			HCL:         `android { buildType "release" { isMinifyEnabled = "yes" } }`,
			ExpectErr:   true,
			ErrContains: "Expected a bool",
		},
		{
			Name:        "unknown dependency configuration",
			HCL:         `dependencies { kapt = ["a:b:1"] }`,
			ExpectErr:   true,
			ErrContains: "Unsupported dependency configuration",
		},
		{
			Name:        "bad dependency notation",
			HCL:         `dependencies { implementation = ["a:b"] }`,
			ExpectErr:   true,
			ErrContains: "Invalid dependency notation",
		},
		{
			Name:        "plugins is not a list of strings",
			HCL:         `plugins = 3`,
			ExpectErr:   true,
			ErrContains: "Expected a string or a list of strings",
		},
	})
}

func TestParseModule_SyntaxErrorKeepsFiles(t *testing.T) {
	_, err := testutil.ParseBuild(t, `android {`)
	require.Error(t, err)

	var diagsErr *hcl_adapter.DiagnosticsError
	require.True(t, errors.As(err, &diagsErr))
	assert.True(t, diagsErr.Diags.HasErrors())
	assert.Contains(t, diagsErr.Files, "app/build.hcl")
}

func TestParseModule_CollectsEveryError(t *testing.T) {
	_, err := testutil.ParseBuild(t, `
		android {
		  namespace  = upper("x")
		  compileSdk = [34]
		}
	`)
	var diagsErr *hcl_adapter.DiagnosticsError
	require.True(t, errors.As(err, &diagsErr))
	assert.Len(t, diagsErr.Diags, 2)
}
