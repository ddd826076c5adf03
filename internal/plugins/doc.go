// Package plugins holds the catalog of plugins a build script may apply.
//
// A plugin Definition describes what applying the plugin contributes to a
// session: one extension object with its fields and default functions,
// property defaults for other extensions, pre-registered signing configs and
// build types. Definitions come from Go code (Builtin) or from HCL plugin
// manifests loaded by the hcl_adapter package.
//
// The catalog is shared read-only by every session of a workspace, so it is
// safe for concurrent use once populated.
package plugins
