// Package diag defines the structured diagnostics a resolution session emits
// and the typed errors that terminate it.
//
// Every fatal error implements Error, so a caller can turn it into a
// Diagnostic with FromError and render it with source context. Warnings such
// as VersionConflict never abort a session; they are collected alongside the
// plan.
package diag
