package model

import "strings"

// Well-known property keys of the Android application extension.
const (
	KeyNamespace     = "android.namespace"
	KeyCompileSdk    = "android.compileSdk"
	KeyNdkVersion    = "android.ndkVersion"
	KeyApplicationID = "android.defaultConfig.applicationId"
	KeyMinSdk        = "android.defaultConfig.minSdk"
	KeyTargetSdk     = "android.defaultConfig.targetSdk"
	KeyVersionCode   = "android.defaultConfig.versionCode"
	KeyVersionName   = "android.defaultConfig.versionName"

	KeySourceCompatibility   = "android.compileOptions.sourceCompatibility"
	KeyTargetCompatibility   = "android.compileOptions.targetCompatibility"
	KeyCoreLibraryDesugaring = "android.compileOptions.isCoreLibraryDesugaringEnabled"
	KeyJvmTarget             = "android.kotlinOptions.jvmTarget"

	// PrefixDefaultConfig is the key prefix build types override.
	PrefixDefaultConfig = "android.defaultConfig."

	// Containers of an extension that hold named entries rather than
	// properties.
	ContainerBuildTypes     = "buildTypes"
	ContainerSigningConfigs = "signingConfigs"
)

// IsVariantScoped reports whether a key can meaningfully differ per variant
// and is therefore reported on every finalized variant.
func IsVariantScoped(key string) bool {
	return strings.HasPrefix(key, PrefixDefaultConfig)
}

// CompileOptionsOf reads the compile options out of a set of resolved
// properties. Missing or mistyped keys leave the zero value.
func CompileOptionsOf(props map[string]Resolved) CompileOptions {
	var opts CompileOptions
	if r, ok := props[KeySourceCompatibility]; ok {
		opts.SourceCompatibility, _ = AsString(r.Value)
	}
	if r, ok := props[KeyTargetCompatibility]; ok {
		opts.TargetCompatibility, _ = AsString(r.Value)
	}
	if r, ok := props[KeyCoreLibraryDesugaring]; ok {
		opts.CoreLibraryDesugaringEnabled, _ = AsBool(r.Value)
	}
	if r, ok := props[KeyJvmTarget]; ok {
		opts.JvmTarget, _ = AsString(r.Value)
	}
	return opts
}
