// Package manifest reads the framework manifest (Flutter's pubspec.yaml) and
// turns its version line into the environment the Flutter plugin derives
// versionCode and versionName from.
package manifest

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/plugins"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	"gopkg.in/yaml.v3"
)

// EnvName is the env key holding the manifest's package name.
const EnvName = "manifest.name"

// Pubspec is the subset of pubspec.yaml the build cares about.
type Pubspec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// Version is a parsed `x.y.z+N` version line. BuildNumber is zero when the
// line has no build part.
type Version struct {
	Name        string
	BuildNumber int64
}

// Load reads and parses a pubspec.yaml file.
func Load(path string) (*Pubspec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes pubspec YAML.
func Parse(data []byte) (*Pubspec, error) {
	var p Pubspec
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return &p, nil
}

// ParseVersion splits `1.2.0+3` into its name and build number.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("version is empty")
	}
	name, build, hasBuild := strings.Cut(s, "+")
	if name == "" {
		return Version{}, fmt.Errorf("version %q has no version name", s)
	}
	v := Version{Name: name}
	if !hasBuild {
		return v, nil
	}
	n, err := strconv.ParseInt(build, 10, 64)
	if err != nil || n <= 0 {
		return Version{}, fmt.Errorf("version %q: build number must be a positive integer", s)
	}
	v.BuildNumber = n
	return v, nil
}

// Env converts the manifest into session environment entries. A missing
// version contributes nothing, leaving the plugin fallbacks in charge.
func (p *Pubspec) Env() (model.Env, error) {
	env := model.Env{}
	if p.Name != "" {
		env[EnvName] = cty.StringVal(p.Name)
	}
	if p.Version == "" {
		return env, nil
	}

	v, err := ParseVersion(p.Version)
	if err != nil {
		return nil, err
	}
	name, err := gocty.ToCtyValue(v.Name, cty.String)
	if err != nil {
		return nil, err
	}
	env[plugins.EnvManifestVersionName] = name
	if v.BuildNumber > 0 {
		code, err := gocty.ToCtyValue(v.BuildNumber, cty.Number)
		if err != nil {
			return nil, err
		}
		env[plugins.EnvManifestVersionCode] = code
	}
	return env, nil
}
