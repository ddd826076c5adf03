package plugins

import (
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// Ids of the built-in plugins.
const (
	AndroidApplicationID = "com.android.application"
	KotlinAndroidID      = "kotlin-android"
	FlutterID            = "dev.flutter.flutter-gradle-plugin"
)

// Env keys the Flutter plugin derives its version fields from. They are
// filled from the framework manifest (pubspec.yaml).
const (
	EnvManifestVersionCode = "manifest.versionCode"
	EnvManifestVersionName = "manifest.versionName"
)

// DebugKeystore is the credential set of the debug signing config the
// Android plugin pre-registers.
var DebugKeystore = model.Credentials{
	"storeFile":     "debug.keystore",
	"storePassword": "android",
	"keyAlias":      "androiddebugkey",
	"keyPassword":   "android",
}

// Builtin returns a catalog with the built-in plugins registered.
func Builtin() *Catalog {
	c := New()
	RegisterBuiltins(c)
	return c
}

// RegisterBuiltins registers the built-in plugins into c.
func RegisterBuiltins(c *Catalog) {
	c.Register(androidApplication())
	c.Register(kotlinAndroid())
	c.Register(flutterGradle())
}

func strPtr(s string) *string { return &s }

func androidApplication() *Definition {
	return &Definition{
		ID:          AndroidApplicationID,
		Description: "Android application packaging: SDK levels, compile options, build types and signing.",
		Extension:   "android",
		Fields: []Field{
			{Name: "compileOptions.sourceCompatibility", Value: model.String("1.8")},
			{Name: "compileOptions.targetCompatibility", Value: model.String("1.8")},
			{Name: "compileOptions.isCoreLibraryDesugaringEnabled", Value: model.Bool(false)},
			// The application id defaults to the namespace, like AGP does.
			{Name: "defaultConfig.applicationId", Value: model.Ref(model.KeyNamespace)},
			{Name: "defaultConfig.versionCode", Value: model.Int(1)},
			{Name: "defaultConfig.versionName", Value: model.String("1.0")},
		},
		SigningConfigs: []model.SigningConfig{
			{Name: "debug", Credentials: DebugKeystore},
		},
		BuildTypes: []BuildType{
			{Name: "debug", SigningConfigRef: strPtr("debug"), Debuggable: true},
			{Name: "release"},
		},
		Source: "builtin",
	}
}

func kotlinAndroid() *Definition {
	return &Definition{
		ID:          KotlinAndroidID,
		Description: "Kotlin compilation for Android modules.",
		Extension:   "kotlin",
		Fields: []Field{
			{Name: "jvmTarget", Value: model.String("1.8")},
		},
		Properties: []Property{
			{Key: model.KeyJvmTarget, Value: model.Ref("kotlin.jvmTarget")},
		},
		Source: "builtin",
	}
}

func flutterGradle() *Definition {
	return &Definition{
		ID:          FlutterID,
		Description: "Flutter framework integration: SDK levels and app version from the Flutter toolchain.",
		Extension:   "flutter",
		Fields: []Field{
			{Name: "compileSdkVersion", Value: model.Int(34)},
			{Name: "targetSdkVersion", Value: model.Int(34)},
			{Name: "minSdkVersion", Value: model.Int(21)},
			{Name: "ndkVersion", Value: model.String("26.1.10909125")},
			{Name: "versionCode", Derive: FromEnv(EnvManifestVersionCode, cty.NumberIntVal(1))},
			{Name: "versionName", Derive: FromEnv(EnvManifestVersionName, cty.StringVal("1.0"))},
		},
		Source: "builtin",
	}
}

// FromEnv builds a default function that reads key from the session
// environment and falls back to fallback. A cty.NilVal fallback means the
// function yields nothing when the key is absent.
func FromEnv(key string, fallback cty.Value) model.DefaultFunc {
	return func(env model.Env) (cty.Value, bool) {
		if v, ok := env.Lookup(key); ok && model.IsPrimitive(v) {
			return v, true
		}
		if model.IsPrimitive(fallback) {
			return fallback, true
		}
		return cty.NilVal, false
	}
}
