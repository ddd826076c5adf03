package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/buildplan/internal/diag"
	"github.com/specialistvlad/buildplan/internal/hcl_adapter"
	"github.com/specialistvlad/buildplan/internal/planio"
	"github.com/specialistvlad/buildplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var projectFiles = map[string]string{
	"pubspec.yaml": `
		name: pulseos
		version: 1.2.0+7
	`,
	"plugins/conventions.hcl": `
		plugin "com.example.conventions" {
		  extension = "conventions"
		  field "javaVersion" { default = "17" }
		  property "android.compileOptions.sourceCompatibility" {
		    value = conventions.javaVersion
		  }
		}
	`,
	"android/app/build.hcl": `
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
		  buildType "release" { signingConfig = signingConfigs.debug }
		}
	`,
	"android/wear/build.hcl": `
		plugins = ["com.android.application", "com.example.conventions"]

		android {
		  namespace  = "com.example.pulseos.wear"
		  compileSdk = 34
		  defaultConfig {
		    minSdk    = 26
		    targetSdk = 34
		  }
		}
	`,
}

func newTestApp(t *testing.T, cfg Config) (*App, *testutil.SafeBuffer) {
	t.Helper()
	c, err := NewConfig(cfg)
	require.NoError(t, err)
	logs := &testutil.SafeBuffer{}
	return NewApp(logs, c, hcl_adapter.NewLoader()), logs
}

func TestRun_Project(t *testing.T) {
	root := testutil.WriteFiles(t, projectFiles)
	a, logs := newTestApp(t, Config{
		BuildPaths:   []string{filepath.Join(root, "android")},
		PluginsDir:   filepath.Join(root, "plugins"),
		ManifestPath: filepath.Join(root, "pubspec.yaml"),
		LogLevel:     "debug",
		WorkerCount:  2,
	})

	report, err := a.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, 0, report.Failed())

	app, wear := report.Results[0], report.Results[1]
	assert.Equal(t, "app", app.Module)
	assert.Equal(t, "wear", wear.Module)

	assert.Equal(t, int64(7), app.Plan.Target().VersionCode)
	assert.Equal(t, "1.2.0", app.Plan.Target().VersionName)
	assert.Equal(t, "1.8", app.Plan.CompileOptions().SourceCompatibility)

	assert.Equal(t, "17", wear.Plan.CompileOptions().SourceCompatibility)
	assert.Len(t, wear.Diagnostics.OfKind(diag.KindUnsignedVariant), 1, "wear's release build type has no signing config")

	assert.Contains(t, report.Sources, app.Path)
	assert.Len(t, report.Documents(), 2)
	assert.Contains(t, logs.String(), "Resolution finished.")
}

func TestRun_RequireSignedRelease(t *testing.T) {
	root := testutil.WriteFiles(t, projectFiles)
	a, _ := newTestApp(t, Config{
		BuildPaths:           []string{filepath.Join(root, "android")},
		PluginsDir:           filepath.Join(root, "plugins"),
		RequireSignedRelease: true,
	})

	report, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed())
	assert.Len(t, report.Documents(), 1)

	var invalid *diag.InvalidConfigurationError
	require.True(t, errors.As(report.Results[1].Err, &invalid))
	assert.Equal(t, "signed-release", invalid.Invariant)
}

func TestRun_UnknownPluginWithoutManifests(t *testing.T) {
	root := testutil.WriteFiles(t, projectFiles)
	a, _ := newTestApp(t, Config{BuildPaths: []string{filepath.Join(root, "android", "wear", "build.hcl")}})

	report, err := a.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	res := report.Results[0]
	assert.Len(t, res.Diagnostics.OfKind(diag.KindUnknownPlugin), 1)
	assert.Equal(t, "1.8", res.Plan.CompileOptions().SourceCompatibility)
}

func TestRun_LoadErrors(t *testing.T) {
	t.Run("broken build files are all reported", func(t *testing.T) {
		root := testutil.WriteFiles(t, map[string]string{
			"a/build.hcl": `android {`,
			"b/build.hcl": `namespace = "x"`,
		})
		a, _ := newTestApp(t, Config{BuildPaths: []string{root}})

		_, err := a.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), filepath.Join(root, "a", "build.hcl"))
		assert.Contains(t, err.Error(), "Unsupported attribute")
	})

	t.Run("no build files", func(t *testing.T) {
		a, _ := newTestApp(t, Config{BuildPaths: []string{t.TempDir()}})
		_, err := a.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no build files found")
	})

	t.Run("plugin redefining a builtin", func(t *testing.T) {
		root := testutil.WriteFiles(t, map[string]string{
			"app/build.hcl":       `plugins = []`,
			"plugins/flutter.hcl": `plugin "dev.flutter.flutter-gradle-plugin" {}`,
		})
		a, _ := newTestApp(t, Config{BuildPaths: []string{root + "/app"}, PluginsDir: root + "/plugins"})
		_, err := a.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered by builtin")
	})

	t.Run("bad manifest version", func(t *testing.T) {
		root := testutil.WriteFiles(t, map[string]string{
			"app/build.hcl": `plugins = []`,
			"pubspec.yaml":  `version: 1.0.0+x`,
		})
		a, _ := newTestApp(t, Config{BuildPaths: []string{root}, ManifestPath: filepath.Join(root, "pubspec.yaml")})
		_, err := a.Run(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "build number")
	})
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		errText string
	}{
		{name: "no build paths", cfg: Config{}, errText: "build path"},
		{name: "negative workers", cfg: Config{BuildPaths: []string{"."}, WorkerCount: -1}, errText: "workers"},
		{name: "bad format", cfg: Config{BuildPaths: []string{"."}, Format: "toml"}, errText: "output format"},
		{name: "bad log format", cfg: Config{BuildPaths: []string{"."}, LogFormat: "xml"}, errText: "log format"},
		{name: "bad log level", cfg: Config{BuildPaths: []string{"."}, LogLevel: "trace"}, errText: "log level"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}

	cfg, err := NewConfig(Config{BuildPaths: []string{"."}, Format: "YML"})
	require.NoError(t, err)
	assert.Equal(t, planio.FormatYAML, cfg.Format)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNewLogger(t *testing.T) {
	var buf testutil.SafeBuffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := strings.TrimSpace(buf.String())
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, `"key":"value"`)
}
