package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/buildplan/internal/plugins"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParseVersion(t *testing.T) {
	testCases := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "1.2.0+3", want: Version{Name: "1.2.0", BuildNumber: 3}},
		{in: " 1.0.0 ", want: Version{Name: "1.0.0"}},
		{in: "2.0.0-beta.1+17", want: Version{Name: "2.0.0-beta.1", BuildNumber: 17}},
		{in: "", wantErr: true},
		{in: "+3", wantErr: true},
		{in: "1.0.0+abc", wantErr: true},
		{in: "1.0.0+0", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseVersion(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPubspec_Env(t *testing.T) {
	p, err := Parse([]byte("name: pulseos\ndescription: demo\nversion: 1.2.0+3\ndependencies:\n  flutter:\n    sdk: flutter\n"))
	require.NoError(t, err)
	assert.Equal(t, "pulseos", p.Name)

	env, err := p.Env()
	require.NoError(t, err)
	assert.True(t, env[plugins.EnvManifestVersionCode].Equals(cty.NumberIntVal(3)).True())
	assert.True(t, env[plugins.EnvManifestVersionName].RawEquals(cty.StringVal("1.2.0")))
	assert.True(t, env[EnvName].RawEquals(cty.StringVal("pulseos")))
}

func TestPubspec_EnvWithoutBuildNumber(t *testing.T) {
	env, err := (&Pubspec{Version: "1.0.0"}).Env()
	require.NoError(t, err)
	assert.NotContains(t, env, plugins.EnvManifestVersionCode)
	assert.Contains(t, env, plugins.EnvManifestVersionName)

	env, err = (&Pubspec{}).Env()
	require.NoError(t, err)
	assert.Empty(t, env)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pubspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: app\nversion: 0.9.1+12\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.9.1+12", p.Version)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("version: [unclosed\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
