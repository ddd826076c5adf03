// Package config defines the format-agnostic representation of build input,
// along with the Loader interface that turns files into it.
//
// A config.Module is the single source the session package consumes: an
// ordered statement list. Concrete loaders, such as the HCL one, live in
// separate packages.
package config
