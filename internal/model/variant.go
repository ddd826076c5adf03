package model

import "sort"

// CompileOptions is the resolved Java/Kotlin compilation configuration.
type CompileOptions struct {
	SourceCompatibility          string
	TargetCompatibility          string
	CoreLibraryDesugaringEnabled bool
	JvmTarget                    string
}

// Credentials is an opaque bag of packaging secrets. Only the key names are
// ever rendered.
type Credentials map[string]string

// Keys returns the credential names, sorted.
func (c Credentials) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String never prints the secret values.
func (c Credentials) String() string {
	return "<redacted>"
}

// Clone copies the credentials map.
func (c Credentials) Clone() Credentials {
	if c == nil {
		return nil
	}
	out := make(Credentials, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// SigningConfig is a named registry entry that variants reference by name.
type SigningConfig struct {
	Name        string
	Credentials Credentials
}

// VariantConfig is what a single build-type block declares. A nil
// SigningConfigRef leaves the earlier choice alone; ClearSigningConfig
// records an explicit null and unsigns the build type.
type VariantConfig struct {
	SigningConfigRef   *string
	ClearSigningConfig bool
	Debuggable         *bool
	MinifyEnabled      *bool
	Overrides          map[string]Value
}

// VariantDraft accumulates every block declaring the same build type. The
// signing config stays a name until assembly, since it may be declared later
// in the same file.
type VariantDraft struct {
	Name             string
	SigningConfigRef *string
	Debuggable       *bool
	MinifyEnabled    *bool
	Overrides        map[string]Value
	Pos              Pos
}

// Variant is a finalized build type.
type Variant struct {
	Name             string
	CompileOptions   CompileOptions
	SigningConfigRef *string
	SigningConfig    *SigningConfig
	Debuggable       bool
	MinifyEnabled    bool
	Properties       map[string]Resolved
}

// Clone deep-copies the variant.
func (v Variant) Clone() Variant {
	if v.SigningConfigRef != nil {
		name := *v.SigningConfigRef
		v.SigningConfigRef = &name
	}
	if v.SigningConfig != nil {
		sc := SigningConfig{Name: v.SigningConfig.Name, Credentials: v.SigningConfig.Credentials.Clone()}
		v.SigningConfig = &sc
	}
	props := make(map[string]Resolved, len(v.Properties))
	for k, r := range v.Properties {
		props[k] = r.Clone()
	}
	v.Properties = props
	return v
}
