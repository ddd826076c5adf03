// Package registry provides the Extension Registry of a resolution session.
//
// The Registry tracks which plugins are applied, in declared order, and which
// extension object each of them materialized. Applying a plugin seeds the
// extension's fields (and any properties it contributes to other extensions)
// into the session's Property Store at the plugin-default layer, which is what
// makes `extension.field` references resolvable by later blocks.
//
// Bindings are passed explicitly to whoever needs them; there is no package
// level state, so independent sessions can run side by side.
package registry
