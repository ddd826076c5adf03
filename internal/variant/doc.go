// Package variant turns build-type declarations into finalized variants.
//
// A build type may be declared several times (by a plugin and then by the
// project); every declaration is merged into one draft. Signing configs are
// bound by name only when the session is assembled, so a build type may name
// a signing config declared later in the same file. A draft without a signing
// config stays unsigned: nothing is ever inherited implicitly.
package variant
