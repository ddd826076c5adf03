// Package session runs one configuration-resolution session: it applies an
// ordered sequence of declarations and assembles them into an immutable
// BuildPlan.
//
// A session moves through Declaring, Resolving and then either Assembled or
// Failed. Both end states are terminal. Any fatal error, whether raised by a
// declaration or during assembly, moves the session to Failed and is
// returned from every later Assemble call. Warnings are collected alongside
// and stay available through Diagnostics.
//
// A session is single-threaded. Independent sessions share nothing but the
// read-only plugin catalog and may run in parallel.
package session
