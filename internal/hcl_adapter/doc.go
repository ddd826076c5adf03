// Package hcl_adapter reads HCL build scripts and plugin manifests.
//
// A build script becomes an ordered []model.Statement; a plugin manifest
// becomes a plugins.Definition. Nothing here resolves anything: references
// such as `flutter.compileSdkVersion` are kept as model.PropertyRef values
// for the session to resolve.
package hcl_adapter
