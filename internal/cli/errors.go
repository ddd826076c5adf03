package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks a problem with the invocation itself.
func usageError(err error) *ExitError {
	return &ExitError{Code: 2, Message: err.Error()}
}

func requirePaths(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return usageError(fmt.Errorf("%s needs at least one build file or directory", cmd.Name()))
	}
	return nil
}
