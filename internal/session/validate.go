package session

import (
	"fmt"

	"github.com/specialistvlad/buildplan/internal/diag"
	"github.com/specialistvlad/buildplan/internal/model"
	"github.com/specialistvlad/buildplan/internal/plugins"
)

type lookupFunc func(key string) (model.Resolved, bool)

// posFunc returns where the value that won for key was declared.
type posFunc func(key string) model.Pos

func (s *Session) validate(props map[string]model.Resolved, variants []model.Variant) (model.TargetConfig, error) {
	global := func(key string) (model.Resolved, bool) {
		r, ok := props[key]
		return r, ok
	}

	globalPos := func(key string) model.Pos {
		e, _ := s.store.Get(key)
		return e.Pos
	}

	var target model.TargetConfig
	var err error
	if target, err = readTarget(global, globalPos, ""); err != nil {
		return model.TargetConfig{}, err
	}

	if s.registry.IsApplied(plugins.AndroidApplicationID) {
		if target.Namespace == "" {
			return model.TargetConfig{}, &diag.InvalidConfigurationError{
				Invariant: "namespace-required",
				Key:       model.KeyNamespace,
				Detail:    "an application module must declare a namespace",
				Pos:       globalPos(model.KeyNamespace),
			}
		}
		if _, ok := props[model.KeyApplicationID]; ok && target.ApplicationID == "" {
			return model.TargetConfig{}, &diag.InvalidConfigurationError{
				Invariant: "application-id-required",
				Key:       model.KeyApplicationID,
				Detail:    "applicationId must not be empty",
				Pos:       globalPos(model.KeyApplicationID),
			}
		}
	}

	for _, v := range variants {
		scoped := func(key string) (model.Resolved, bool) {
			if r, ok := v.Properties[key]; ok {
				return r, true
			}
			return global(key)
		}
		scopedPos := func(key string) model.Pos {
			e, _ := s.store.GetFor(v.Name, key)
			return e.Pos
		}
		if _, err := readTarget(scoped, scopedPos, v.Name); err != nil {
			return model.TargetConfig{}, err
		}
	}
	return target, nil
}

// readTarget reads the SDK and version configuration visible through lookup
// and checks it. variant is empty for the project level.
func readTarget(lookup lookupFunc, posOf posFunc, variant string) (model.TargetConfig, error) {
	var t model.TargetConfig
	var err error

	t.Namespace = str(lookup, model.KeyNamespace)
	t.ApplicationID = str(lookup, model.KeyApplicationID)
	t.NdkVersion = str(lookup, model.KeyNdkVersion)
	t.VersionName = str(lookup, model.KeyVersionName)

	if t.MinSdk, err = positive(lookup, posOf, model.KeyMinSdk, "positive-sdk-level", variant); err != nil {
		return t, err
	}
	if t.TargetSdk, err = positive(lookup, posOf, model.KeyTargetSdk, "positive-sdk-level", variant); err != nil {
		return t, err
	}
	if t.CompileSdk, err = positive(lookup, posOf, model.KeyCompileSdk, "positive-sdk-level", variant); err != nil {
		return t, err
	}
	if t.VersionCode, err = positive(lookup, posOf, model.KeyVersionCode, "positive-version-code", variant); err != nil {
		return t, err
	}

	if t.MinSdk > 0 && t.TargetSdk > 0 && t.MinSdk > t.TargetSdk {
		return t, sdkOrder(posOf, model.KeyMinSdk, "minSdk", t.MinSdk, "targetSdk", t.TargetSdk, variant)
	}
	if t.TargetSdk > 0 && t.CompileSdk > 0 && t.TargetSdk > t.CompileSdk {
		return t, sdkOrder(posOf, model.KeyTargetSdk, "targetSdk", t.TargetSdk, "compileSdk", t.CompileSdk, variant)
	}
	if t.MinSdk > 0 && t.CompileSdk > 0 && t.MinSdk > t.CompileSdk {
		return t, sdkOrder(posOf, model.KeyMinSdk, "minSdk", t.MinSdk, "compileSdk", t.CompileSdk, variant)
	}
	return t, nil
}

func str(lookup lookupFunc, key string) string {
	r, ok := lookup(key)
	if !ok {
		return ""
	}
	s, _ := model.AsString(r.Value)
	return s
}

// positive returns 0 when key is absent and fails when it is present but not
// a positive whole number.
func positive(lookup lookupFunc, posOf posFunc, key, invariant, variant string) (int64, error) {
	r, ok := lookup(key)
	if !ok {
		return 0, nil
	}
	n, err := model.AsInt64(r.Value)
	if err != nil {
		return 0, &diag.InvalidConfigurationError{Invariant: invariant, Key: key, Detail: in(variant, err.Error()), Pos: posOf(key)}
	}
	if n <= 0 {
		return 0, &diag.InvalidConfigurationError{
			Invariant: invariant,
			Key:       key,
			Detail:    in(variant, fmt.Sprintf("must be a positive integer, got %d", n)),
			Pos:       posOf(key),
		}
	}
	return n, nil
}

func sdkOrder(posOf posFunc, key, lowName string, low int64, highName string, high int64, variant string) error {
	return &diag.InvalidConfigurationError{
		Invariant: "minSdk <= targetSdk <= compileSdk",
		Key:       key,
		Detail:    in(variant, fmt.Sprintf("%s %d is greater than %s %d", lowName, low, highName, high)),
		Pos:       posOf(key),
	}
}

func in(variant, detail string) string {
	if variant == "" {
		return detail
	}
	return fmt.Sprintf("build type %q: %s", variant, detail)
}
