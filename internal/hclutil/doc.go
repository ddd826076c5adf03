// Package hclutil holds the HCL helpers the build-script and plugin-manifest
// loaders share: unique-block lookup, source-ordered body walking, traversal
// to property reference conversion and static scalar evaluation.
package hclutil
