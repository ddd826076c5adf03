package workspace

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/specialistvlad/buildplan/internal/config"
	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/diag"
	"github.com/specialistvlad/buildplan/internal/plugins"
	"github.com/specialistvlad/buildplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const appScript = `
	plugins = ["com.android.application", "dev.flutter.flutter-gradle-plugin"]

	android {
	  namespace  = "%[1]s"
	  compileSdk = flutter.compileSdkVersion
	  defaultConfig {
	    applicationId = "%[1]s"
	    minSdk        = flutter.minSdkVersion
	    targetSdk     = flutter.targetSdkVersion
	    versionCode   = flutter.versionCode
	    versionName   = flutter.versionName
	  }
	  buildType "release" { signingConfig = signingConfigs.debug }
	}
`

func module(t *testing.T, name, src string) *config.Module {
	t.Helper()
	m, err := testutil.ParseBuild(t, src)
	require.NoError(t, err)
	m.Name = name
	m.Path = name + "/build.hcl"
	return m
}

func TestResolve_IndependentModules(t *testing.T) {
	var modules []*config.Module
	for i := 0; i < 8; i++ {
		name := fmt.Sprintf("app%d", i)
		modules = append(modules, module(t, name, fmt.Sprintf(appScript, "com.example."+name)))
	}
	broken := module(t, "broken", `
		plugins = ["com.android.application"]
		android {
		  compileSdk = 34
		  defaultConfig {
		    applicationId = "com.example.broken"
		    minSdk        = 21
		    targetSdk     = 34
		  }
		}
	`)
	modules = append(modules, broken)

	ctx := ctxlog.Discard(context.Background())
	env := map[string]cty.Value{plugins.EnvManifestVersionCode: cty.NumberIntVal(9)}
	results, err := Resolve(ctx, plugins.Builtin(), modules, Options{Workers: 3, Env: env})
	require.NoError(t, err)
	require.Len(t, results, len(modules))

	for i, r := range results[:8] {
		name := fmt.Sprintf("app%d", i)
		assert.Equal(t, name, r.Module, "results keep module order")
		require.NoError(t, r.Err)
		require.NotNil(t, r.Plan)
		assert.Equal(t, "com.example."+name, r.Plan.Target().ApplicationID)
		assert.Equal(t, int64(9), r.Plan.Target().VersionCode)
		assert.False(t, r.Diagnostics.HasErrors())
	}

	last := results[8]
	assert.True(t, last.Failed())
	assert.Nil(t, last.Plan)
	var invalid *diag.InvalidConfigurationError
	require.True(t, errors.As(last.Err, &invalid))
	assert.Equal(t, "namespace-required", invalid.Invariant)
	assert.True(t, last.Diagnostics.HasErrors())
}

func TestResolve_DeclarationErrorIsReported(t *testing.T) {
	m := module(t, "lib", `
		plugins = ["com.android.application"]
		kotlin { jvmTarget = "17" }
	`)

	results, err := Resolve(ctxlog.Discard(context.Background()), plugins.Builtin(), []*config.Module{m}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	var unknown *diag.UnknownExtensionError
	require.True(t, errors.As(results[0].Err, &unknown))
	assert.Equal(t, "kotlin", unknown.Extension)
	assert.Len(t, results[0].Diagnostics.OfKind(diag.KindUnknownExtension), 1)
}

func TestResolve_ContainersWithoutPlugin(t *testing.T) {
	m := module(t, "lib", `
		plugins = []
		android {
		  signingConfig "upload" { storeFile = "upload.jks" }
		  buildType "release" { signingConfig = "upload" }
		}
	`)

	results, err := Resolve(ctxlog.Discard(context.Background()), plugins.Builtin(), []*config.Module{m}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Nil(t, results[0].Plan)
	var unknown *diag.UnknownExtensionError
	require.True(t, errors.As(results[0].Err, &unknown))
	assert.Equal(t, "android", unknown.Extension)
	assert.Equal(t, "upload", unknown.Requester)
}

func TestResolve_NullSigningConfig(t *testing.T) {
	m := module(t, "app", `
		plugins = ["com.android.application"]
		android {
		  namespace = "com.example.app"
		  buildType "debug" { signingConfig = null }
		}
	`)

	results, err := Resolve(ctxlog.Discard(context.Background()), plugins.Builtin(), []*config.Module{m}, Options{})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)

	debug, ok := results[0].Plan.Variant("debug")
	require.True(t, ok)
	assert.Nil(t, debug.SigningConfigRef, "null must unsign the builtin debug build type")
}

func TestResolve_DuplicateModuleNames(t *testing.T) {
	a := module(t, "app", `plugins = []`)
	b := module(t, "app", `plugins = []`)
	b.Path = "other/app/build.hcl"

	_, err := Resolve(ctxlog.Discard(context.Background()), plugins.Builtin(), []*config.Module{a, b}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `module "app" is defined by both app/build.hcl and other/app/build.hcl`)
}

func TestResolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(ctxlog.Discard(context.Background()))
	cancel()

	m := module(t, "app", fmt.Sprintf(appScript, "com.example.app"))
	_, err := Resolve(ctx, plugins.Builtin(), []*config.Module{m}, Options{Workers: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
