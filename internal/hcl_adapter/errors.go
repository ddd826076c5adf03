package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// DiagnosticsError carries the HCL diagnostics of a failed load together
// with the parsed files, so callers can print them with source snippets.
type DiagnosticsError struct {
	Diags hcl.Diagnostics
	Files map[string]*hcl.File
}

func (e *DiagnosticsError) Error() string {
	return e.Diags.Error()
}
