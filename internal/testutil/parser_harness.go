package testutil

import (
	"context"
	"testing"

	"github.com/specialistvlad/buildplan/internal/config"
	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/hcl_adapter"
	"github.com/stretchr/testify/require"
)

// BuildParseCase defines a single scenario for parsing a build script.
type BuildParseCase struct {
	Name string
	// HCL is the whole build file. It can be written as a readable, indented
	// multi-line string.
	HCL string
	// ExpectErr should be true if a parsing error is expected.
	ExpectErr bool
	// ErrContains is a substring that must appear in the error message if ExpectErr is true.
	ErrContains string
	// Validate performs assertions on the parsed module. It is only called if
	// ExpectErr is false.
	Validate func(t *testing.T, m *config.Module)
}

// ParseBuild parses src as the build file of a module called "app".
func ParseBuild(t *testing.T, src string) (*config.Module, error) {
	t.Helper()
	ctx := ctxlog.Discard(context.Background())
	return hcl_adapter.NewLoader().ParseModule(ctx, "app", "app/build.hcl", []byte(Unindent(src)))
}

// RunBuildParsingTests iterates through a table of build-script cases,
// handling the boilerplate and common assertions.
func RunBuildParsingTests(t *testing.T, cases []BuildParseCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			m, err := ParseBuild(t, tc.HCL)

			if tc.ExpectErr {
				require.Error(t, err, "Expected a parsing error, but got none")
				if tc.ErrContains != "" {
					require.Contains(t, err.Error(), tc.ErrContains, "Error message did not contain the expected text")
				}
				return
			}

			require.NoError(t, err, "Expected successful parsing, but got an error")
			if tc.Validate != nil {
				tc.Validate(t, m)
			}
		})
	}
}
